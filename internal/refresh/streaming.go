package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-logr/logr"

	"github.com/arteam/couchbase-jvm-core/api"
)

// StreamFunc opens one streaming connection to seed for bucket name and
// delivers proposed configs on out until the connection drops or ctx is
// done, at which point it returns (possibly with an error).
type StreamFunc func(ctx context.Context, seed, name, username, password string, out chan<- api.ProposedBucketConfigContext) error

// StreamingRefresher is a Refresher backed by a long-lived HTTP-streaming
// connection per bucket, reconnecting with exponential backoff on failure.
// It models the "bucket-refresh transport" spec.md names as an external
// collaborator.
type StreamingRefresher struct {
	seed   string
	stream StreamFunc
	logger logr.Logger

	mu       sync.Mutex
	buckets  map[string]bucketCreds
	health   map[string]*connHealth
	emitters map[string]context.CancelFunc

	out chan api.ProposedBucketConfigContext
}

type bucketCreds struct {
	username string
	password string
}

// NewStreamingRefresher builds a refresher that streams from seed using
// stream to open each bucket's connection.
func NewStreamingRefresher(seed string, stream StreamFunc, logger logr.Logger) *StreamingRefresher {
	return &StreamingRefresher{
		seed:     seed,
		stream:   stream,
		logger:   logger.WithName("streaming-refresher").WithValues("seed", seed),
		buckets:  make(map[string]bucketCreds),
		health:   make(map[string]*connHealth),
		emitters: make(map[string]context.CancelFunc),
		out:      make(chan api.ProposedBucketConfigContext, 16),
	}
}

// Configs returns the shared stream fed by every bucket's run goroutine.
// ctx is unused: the stream's lifetime is tied to the contexts passed to
// RegisterBucket, not to the subscriber's.
func (r *StreamingRefresher) Configs(context.Context) <-chan api.ProposedBucketConfigContext {
	return r.out
}

// RegisterBucket starts a reconnecting stream goroutine for name, alive
// until ctx is done. Calling it again for the same bucket replaces the
// prior goroutine. Callers must pass a context that outlives the bucket,
// not a per-call context scoped to whatever operation triggered
// registration: this ctx governs the background reconnect loop, which has
// to keep running long after the call that started it returns.
func (r *StreamingRefresher) RegisterBucket(ctx context.Context, name, username, password string) error {
	r.mu.Lock()
	if cancel, ok := r.emitters[name]; ok {
		cancel()
	}
	streamCtx, cancel := context.WithCancel(ctx)
	r.buckets[name] = bucketCreds{username: username, password: password}
	r.health[name] = newConnHealth()
	r.emitters[name] = cancel
	r.mu.Unlock()

	go r.run(streamCtx, name, username, password)
	return nil
}

func (r *StreamingRefresher) run(ctx context.Context, name, username, password string) {
	r.mu.Lock()
	h := r.health[name]
	r.mu.Unlock()

	b := backoff.NewExponentialBackOff()
	for {
		if ctx.Err() != nil {
			return
		}
		if !h.beginRetry() {
			select {
			case <-time.After(retryCooldown):
			case <-ctx.Done():
				return
			}
			continue
		}

		err := r.stream(ctx, r.seed, name, username, password, r.out)
		h.endRetry()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			h.markFailure()
			r.logger.Error(err, "stream dropped, reconnecting", "bucket", name)
			delay := b.NextBackOff()
			if delay == backoff.Stop {
				delay = retryCooldown
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
			continue
		}
		h.markSuccess()
		b.Reset()
	}
}
