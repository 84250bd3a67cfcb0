// Package refresh defines the Refresher contract consumed by the provider
// and a streaming implementation built around it.
package refresh

import (
	"context"

	"github.com/arteam/couchbase-jvm-core/api"
)

// Refresher is a background source of proposed config updates for buckets
// already opened under one loader type. The provider subscribes to Configs
// once and calls RegisterBucket once per bucket it bootstraps through this
// refresher's loader type.
type Refresher interface {
	// Configs streams proposed configs until ctx is done. Every emission is
	// routed into the acceptance engine unchanged.
	Configs(ctx context.Context) <-chan api.ProposedBucketConfigContext
	// RegisterBucket tells the refresher to start watching name. An error
	// here fails the bootstrap of that bucket.
	RegisterBucket(ctx context.Context, name, username, password string) error
}
