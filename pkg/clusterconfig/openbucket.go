package clusterconfig

import (
	"context"

	"github.com/arteam/couchbase-jvm-core/api"
)

// OpenBucket bootstraps name against the current seed list, accepts the
// resulting config into the acceptance engine, and returns the resulting
// ClusterConfig. It fails with *ConfigurationException ("Could not open
// bucket.") if every loader fails on every seed.
//
// Concurrent OpenBucket calls for the same bucket share one in-flight
// bootstrap (spec.md §9's open question, resolved here): the second caller
// waits on the first's result instead of racing a duplicate bootstrap. The
// trade-off is that a follower's ctx cancellation cannot abort the leader's
// already-running bootstrap; it only stops waiting once its own ctx is done.
func (p *Provider) OpenBucket(ctx context.Context, name, username, password string) (api.ClusterConfig, error) {
	type outcome struct {
		cfg api.ClusterConfig
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		v, err, _ := p.inflight.Do(name, func() (interface{}, error) {
			return p.bootstrapAndAccept(ctx, name, username, password)
		})
		if err != nil {
			done <- outcome{err: err}
			return
		}
		done <- outcome{cfg: v.(api.ClusterConfig)}
	}()

	select {
	case o := <-done:
		return o.cfg, o.err
	case <-ctx.Done():
		return api.ClusterConfig{}, ctx.Err()
	}
}

// bootstrapAndAccept runs the bootstrap pipeline once and folds the result
// into the acceptance engine. It is only ever invoked by the singleflight
// leader for a given bucket name.
func (p *Provider) bootstrapAndAccept(ctx context.Context, name, username, password string) (api.ClusterConfig, error) {
	cfg, _, err := p.pipeline.OpenBucket(ctx, p.currentSeeds(), name, username, password)
	if err != nil {
		p.metrics.bootstrapFailures.Inc()
		return api.ClusterConfig{}, err
	}

	// A freshly bootstrapped config may lack a rev in rare legacy payloads;
	// treat that as "initial" by accepting unconditionally the first time.
	p.acceptMu.Lock()
	current := *p.current.Load()
	_, hasExisting := current.BucketConfig(cfg.Name)
	p.acceptMu.Unlock()
	if !hasExisting && !cfg.Rev.IsSet() {
		p.acceptMu.Lock()
		resolved := p.resolveNetwork(cfg)
		next := (*p.current.Load()).WithBucket(cfg.Name, resolved)
		p.current.Store(&next)
		p.acceptMu.Unlock()
		p.notify(next)
	} else {
		p.accept(cfg)
	}

	return p.Config(), nil
}
