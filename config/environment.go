// Package config holds the environment the core is configured with. There
// is no package-level singleton: callers construct an Environment and pass
// it explicitly to the provider and its collaborators.
package config

import "github.com/go-logr/logr"

// NetworkResolution selects the policy NetworkResolver applies when
// assigning a BucketConfig's UseAlternateNetwork field.
type NetworkResolution string

const (
	// Default always addresses nodes by their default address set.
	Default NetworkResolution = "default"
	// External addresses nodes by the "external" alternate when any node
	// advertises one.
	External NetworkResolution = "external"
	// Auto picks default or external per bucket config by matching the
	// current seed set against node addresses.
	Auto NetworkResolution = "auto"
)

// Environment carries the settings the core needs that are not part of any
// single operation's arguments.
type Environment struct {
	NetworkResolution NetworkResolution
	Logger            logr.Logger
}

// CustomNetwork reports whether resolution names a network other than the
// three built-in values, and returns that name.
func (r NetworkResolution) CustomNetwork() (string, bool) {
	switch r {
	case Default, External, Auto, "":
		return "", false
	default:
		return string(r), true
	}
}
