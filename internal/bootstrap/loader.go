// Package bootstrap implements the pipeline that produces an initial
// BucketConfig from a set of seed addresses and an ordered chain of loader
// strategies.
package bootstrap

import (
	"context"

	"github.com/arteam/couchbase-jvm-core/api"
)

// LoaderType names a bootstrap protocol (e.g. binary "carrier" or HTTP
// streaming). The provider uses it to look up the Refresher registered for
// whichever loader succeeds.
type LoaderType string

// Loader attempts to obtain a BucketConfig from one seed address using one
// protocol. LoadConfig must be idempotent and side-effect-free beyond the
// network attempt: callers may retry it freely.
type Loader interface {
	Type() LoaderType
	LoadConfig(ctx context.Context, seed, bucketName, username, password string) (api.BucketConfig, error)
}

// result is one (loader, seed) attempt's outcome, used internally to
// collect the first success across a loader's concurrent seed attempts.
type result struct {
	cfg api.BucketConfig
	err error
}
