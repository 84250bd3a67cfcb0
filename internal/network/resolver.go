// Package network implements the policy that decides, per bucket config,
// whether clients should address nodes by their default addresses or by an
// alternate ("external") set.
package network

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/arteam/couchbase-jvm-core/api"
	"github.com/arteam/couchbase-jvm-core/config"
)

const external = "external"

// Resolve assigns UseAlternateNetwork on a copy of cfg according to mode and
// the current seed set. seeds is read at call time, not cached: AUTO
// resolution depends on "the current seed set at the time of resolution".
func Resolve(cfg api.BucketConfig, seeds []string, mode config.NetworkResolution) api.BucketConfig {
	cfg.UseAlternateNetwork = resolveNetwork(cfg, seeds, mode)
	return cfg
}

func resolveNetwork(cfg api.BucketConfig, seeds []string, mode config.NetworkResolution) api.NetworkName {
	if name, custom := mode.CustomNetwork(); custom {
		return resolveNamed(cfg, name)
	}

	switch mode {
	case config.Default, "":
		return api.DefaultNetwork
	case config.External:
		return resolveNamed(cfg, external)
	case config.Auto:
		return resolveAuto(cfg, seeds)
	default:
		return api.DefaultNetwork
	}
}

// resolveNamed picks network iff any node advertises an alternate under
// that name; otherwise falls back to the default network.
func resolveNamed(cfg api.BucketConfig, network string) api.NetworkName {
	if alternateNetworkNames(cfg).Has(network) {
		return api.NetworkName(network)
	}
	return api.DefaultNetwork
}

// alternateNetworkNames collects the distinct alternate-network names any
// node in cfg advertises, so resolveNamed can ask "does this config carry
// that network at all" without re-scanning per node.
func alternateNetworkNames(cfg api.BucketConfig) sets.Set[string] {
	names := sets.New[string]()
	for _, n := range cfg.Nodes {
		for name := range n.AlternateAddresses {
			names.Insert(name)
		}
	}
	return names
}

// resolveAuto matches each seed, in order, against every node's default
// hostname and then its "external" alternate hostname. The first seed that
// matches either decides; no match at all falls back to default.
func resolveAuto(cfg api.BucketConfig, seeds []string) api.NetworkName {
	for _, seed := range seeds {
		for _, n := range cfg.Nodes {
			if n.Hostname.Address() == seed {
				return api.DefaultNetwork
			}
			if alt, ok := n.AlternateAddresses[external]; ok && alt.Hostname.Address() == seed {
				return api.NetworkName(external)
			}
		}
	}
	return api.DefaultNetwork
}
