package clusterconfig

import (
	"context"

	"github.com/arteam/couchbase-jvm-core/api"
	"github.com/arteam/couchbase-jvm-core/internal/parser"
)

// ProposeBucketConfig parses and conditionally accepts a proposed config, per
// spec.md §4.3: an unparseable payload, or one with no (or unparseable) rev,
// is ignored silently; an equal-or-older rev is ignored silently; a strictly
// newer rev (or no prior config) is accepted, network-resolved, and
// published. Fire-and-forget: callers never observe an error from this.
func (p *Provider) ProposeBucketConfig(ctx context.Context, proposed api.ProposedBucketConfigContext) {
	cfg, err := parser.Parse(proposed.Raw, proposed.Origin)
	if err != nil {
		p.logger.V(1).Info("ignoring invalid proposed config", "bucket", proposed.BucketName, "error", err.Error())
		p.metrics.proposalsIgnored.WithLabelValues(proposed.BucketName, "invalid").Inc()
		return
	}
	if !cfg.Rev.IsSet() {
		p.logger.V(1).Info("ignoring proposed config without a rev", "bucket", proposed.BucketName)
		p.metrics.proposalsIgnored.WithLabelValues(proposed.BucketName, "no-rev").Inc()
		return
	}

	accepted := p.accept(cfg)
	if !accepted {
		p.logger.V(1).Info("ignoring proposed config with a stale rev", "bucket", proposed.BucketName)
		p.metrics.proposalsIgnored.WithLabelValues(proposed.BucketName, "stale-rev").Inc()
	}
}

// accept applies the monotonicity rule under the single-writer lock and, if
// the proposal wins, resolves its network and publishes. It reports whether
// the proposal was accepted.
func (p *Provider) accept(cfg api.BucketConfig) bool {
	p.acceptMu.Lock()
	current := *p.current.Load()
	existing, hasExisting := current.BucketConfig(cfg.Name)
	if hasExisting && !cfg.Rev.Newer(existing.Rev) {
		p.acceptMu.Unlock()
		return false
	}

	resolved := p.resolveNetwork(cfg)
	next := current.WithBucket(cfg.Name, resolved)
	p.current.Store(&next)
	p.acceptMu.Unlock()

	p.notify(next)
	p.metrics.configsAccepted.WithLabelValues(cfg.Name).Inc()
	if cfg.Type == api.Memcached {
		p.metrics.ketamaRingSize.WithLabelValues(cfg.Name).Set(float64(len(cfg.KetamaNodes)))
	}
	return true
}
