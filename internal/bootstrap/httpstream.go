package bootstrap

import (
	"context"

	"github.com/pkg/errors"

	"github.com/arteam/couchbase-jvm-core/api"
	"github.com/arteam/couchbase-jvm-core/internal/parser"
)

const HTTPStreamingLoaderType LoaderType = "http-streaming"

// FetchFunc performs one HTTP GET of the streaming config endpoint against
// seed and returns the first JSON document it carries.
type FetchFunc func(ctx context.Context, seed, bucketName, username, password string) ([]byte, error)

// HTTPStreamingLoader is the HTTP streaming bootstrap strategy named in
// spec.md §2. It shares the StreamingRefresher's transport conceptually
// but only needs the first document to bootstrap.
type HTTPStreamingLoader struct {
	fetch FetchFunc
}

func NewHTTPStreamingLoader(fetch FetchFunc) *HTTPStreamingLoader {
	return &HTTPStreamingLoader{fetch: fetch}
}

func (l *HTTPStreamingLoader) Type() LoaderType { return HTTPStreamingLoaderType }

func (l *HTTPStreamingLoader) LoadConfig(ctx context.Context, seed, bucketName, username, password string) (api.BucketConfig, error) {
	raw, err := l.fetch(ctx, seed, bucketName, username, password)
	if err != nil {
		return api.BucketConfig{}, errors.Wrapf(err, "http-streaming: fetch %s", seed)
	}
	cfg, err := parser.Parse(raw, seed)
	if err != nil {
		return api.BucketConfig{}, errors.Wrapf(err, "http-streaming: parse config from %s", seed)
	}
	return cfg, nil
}
