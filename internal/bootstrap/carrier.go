package bootstrap

import (
	"context"

	"github.com/pkg/errors"

	"github.com/arteam/couchbase-jvm-core/api"
	"github.com/arteam/couchbase-jvm-core/internal/parser"
)

const CarrierLoaderType LoaderType = "carrier"

// DialFunc opens the binary carrier protocol against seed and returns the
// raw bucket-config payload it carries. Real dialing (the wire-level
// cluster client spec.md names as an external collaborator) lives outside
// this package; tests and callers supply a fake.
type DialFunc func(ctx context.Context, seed, bucketName, username, password string) ([]byte, error)

// CarrierLoader is the binary "carrier" bootstrap strategy named in
// spec.md §2.
type CarrierLoader struct {
	dial DialFunc
}

// NewCarrierLoader builds a Loader around dial.
func NewCarrierLoader(dial DialFunc) *CarrierLoader {
	return &CarrierLoader{dial: dial}
}

func (l *CarrierLoader) Type() LoaderType { return CarrierLoaderType }

func (l *CarrierLoader) LoadConfig(ctx context.Context, seed, bucketName, username, password string) (api.BucketConfig, error) {
	raw, err := l.dial(ctx, seed, bucketName, username, password)
	if err != nil {
		return api.BucketConfig{}, errors.Wrapf(err, "carrier: dial %s", seed)
	}
	cfg, err := parser.Parse(raw, seed)
	if err != nil {
		return api.BucketConfig{}, errors.Wrapf(err, "carrier: parse config from %s", seed)
	}
	return cfg, nil
}
