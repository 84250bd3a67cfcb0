// Package clusterconfig is the provider: the authoritative, in-process
// source of the current bucket configuration, and the event stream by which
// the rest of a client learns of changes.
package clusterconfig

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/arteam/couchbase-jvm-core/api"
	"github.com/arteam/couchbase-jvm-core/config"
	"github.com/arteam/couchbase-jvm-core/internal/bootstrap"
	"github.com/arteam/couchbase-jvm-core/internal/network"
	"github.com/arteam/couchbase-jvm-core/internal/refresh"
)

// Provider orchestrates seeds, loaders, refreshers, the acceptance engine,
// and publication of ClusterConfig snapshots. All of its exported methods
// are safe to call from multiple goroutines.
type Provider struct {
	env    config.Environment
	logger logr.Logger

	seedsMu sync.RWMutex
	seeds   []string

	// current is swapped atomically; readers never see a torn snapshot, and
	// the fan-out in notify() never holds acceptMu while delivering.
	current atomic.Pointer[api.ClusterConfig]

	// acceptMu serializes all mutation of the bucket map: this is the
	// single-writer core spec.md §5 requires.
	acceptMu sync.Mutex

	refreshers map[bootstrap.LoaderType]refresh.Refresher

	pipeline *bootstrap.Pipeline

	subMu       sync.Mutex
	subscribers []chan api.ClusterConfig

	// inflight collapses concurrent OpenBucket calls for the same bucket
	// name into a single bootstrap, spec.md §9's open question.
	inflight singleflight.Group

	consumedMu sync.Mutex
	consumed   map[refresh.Refresher]bool

	metrics *metrics
}

// New builds a Provider. loaders are tried in the given order by OpenBucket;
// refreshers is keyed by the LoaderType each one serves. reg may be nil to
// skip Prometheus registration (e.g. in tests).
func New(env config.Environment, loaders []bootstrap.Loader, refreshers map[bootstrap.LoaderType]refresh.Refresher, reg prometheus.Registerer) *Provider {
	logger := env.Logger
	p := &Provider{
		env:        env,
		logger:     logger.WithName("clusterconfig"),
		refreshers: refreshers,
		consumed:   make(map[refresh.Refresher]bool),
		metrics:    newMetrics(reg),
	}
	empty := api.NewClusterConfig(nil)
	p.current.Store(&empty)
	p.pipeline = bootstrap.NewPipeline(loaders, refresherRegistrar{p}, logger)
	return p
}

// refresherRegistrar adapts Provider's refresher map to the small interface
// bootstrap.Pipeline needs, so that package doesn't depend on refresh.
type refresherRegistrar struct{ p *Provider }

// RegisterBucket deliberately does not forward ctx to the refresher: ctx is
// the caller's per-OpenBucket bootstrap context, bounded by whatever timeout
// the caller wrapped around that one call (spec.md §5), but the refresher's
// background stream for this bucket must outlive it. Same reasoning as
// consumeRefresher's use of context.Background() for Configs() below.
func (r refresherRegistrar) RegisterBucket(ctx context.Context, loaderType bootstrap.LoaderType, name, username, password string) error {
	refresher, ok := r.p.refreshers[loaderType]
	if !ok {
		return errNoRefresherFor(loaderType)
	}
	if err := refresher.RegisterBucket(context.Background(), name, username, password); err != nil {
		return err
	}
	r.p.consumeRefresher(refresher)
	return nil
}

// consumeRefresher starts routing a refresher's stream into the acceptance
// engine, once per refresher instance per provider.
func (p *Provider) consumeRefresher(r refresh.Refresher) {
	p.consumedMu.Lock()
	already := p.consumed[r]
	p.consumed[r] = true
	p.consumedMu.Unlock()
	if already {
		return
	}
	ch := r.Configs(context.Background())
	go func() {
		for proposed := range ch {
			p.ProposeBucketConfig(context.Background(), proposed)
		}
	}()
}

// SeedHosts overwrites the seed list used by future OpenBucket calls and by
// AUTO network resolution.
func (p *Provider) SeedHosts(seeds []string) {
	cp := make([]string, len(seeds))
	copy(cp, seeds)
	p.seedsMu.Lock()
	p.seeds = cp
	p.seedsMu.Unlock()
}

func (p *Provider) currentSeeds() []string {
	p.seedsMu.RLock()
	defer p.seedsMu.RUnlock()
	cp := make([]string, len(p.seeds))
	copy(cp, p.seeds)
	return cp
}

// Config returns the current snapshot.
func (p *Provider) Config() api.ClusterConfig {
	return *p.current.Load()
}

// Configs returns a channel of every ClusterConfig accepted from now on. New
// subscribers do not receive replay of prior snapshots. The channel is
// closed when ctx is done.
func (p *Provider) Configs(ctx context.Context) <-chan api.ClusterConfig {
	ch := make(chan api.ClusterConfig, 8)
	p.subMu.Lock()
	p.subscribers = append(p.subscribers, ch)
	p.subMu.Unlock()

	go func() {
		<-ctx.Done()
		p.subMu.Lock()
		defer p.subMu.Unlock()
		for i, c := range p.subscribers {
			if c == ch {
				p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch
}

// notify fans next out to every subscriber. Callers must already have
// stored next as the current snapshot and released acceptMu: delivery never
// happens inside the single-writer critical section.
func (p *Provider) notify(next api.ClusterConfig) {
	p.subMu.Lock()
	subs := make([]chan api.ClusterConfig, len(p.subscribers))
	copy(subs, p.subscribers)
	p.subMu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- next:
		default:
			// a slow subscriber does not block publication for the rest;
			// it will simply observe a later snapshot.
		}
	}
}

func (p *Provider) resolveNetwork(cfg api.BucketConfig) api.BucketConfig {
	return network.Resolve(cfg, p.currentSeeds(), p.env.NetworkResolution)
}
