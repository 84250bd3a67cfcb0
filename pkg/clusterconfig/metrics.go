package clusterconfig

import "github.com/prometheus/client_golang/prometheus"

// metrics mirrors the teacher's support/metrics use of Prometheus counters
// and gauges directly on the component that produces the numbers, rather
// than through a separate recording layer.
type metrics struct {
	configsAccepted   *prometheus.CounterVec
	proposalsIgnored  *prometheus.CounterVec
	bootstrapFailures prometheus.Counter
	ketamaRingSize    *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		configsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kvclusterconfig_configs_accepted_total",
			Help: "Number of accepted bucket config changes, by bucket.",
		}, []string{"bucket"}),
		proposalsIgnored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kvclusterconfig_proposals_ignored_total",
			Help: "Number of proposed bucket configs ignored (invalid or stale rev), by bucket and reason.",
		}, []string{"bucket", "reason"}),
		bootstrapFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kvclusterconfig_bootstrap_failures_total",
			Help: "Number of OpenBucket calls that exhausted every loader and seed.",
		}),
		ketamaRingSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kvclusterconfig_ketama_ring_points",
			Help: "Ketama ring size of the current config for a memcached bucket.",
		}, []string{"bucket"}),
	}
	if reg != nil {
		reg.MustRegister(m.configsAccepted, m.proposalsIgnored, m.bootstrapFailures, m.ketamaRingSize)
	}
	return m
}
