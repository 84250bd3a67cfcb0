package clusterconfig

import (
	"fmt"

	"github.com/arteam/couchbase-jvm-core/internal/bootstrap"
)

// ConfigurationException is the only public error type bootstrap promises:
// its Error() is always exactly "Could not open bucket.". Causes (in
// bootstrap.Error.Causes) is available for logging, never for message
// construction.
type ConfigurationException = bootstrap.Error

// errNoRefresherFor is a configuration bug per spec.md §7: a loader
// succeeded under a LoaderType no Refresher was registered for.
func errNoRefresherFor(loaderType bootstrap.LoaderType) error {
	return fmt.Errorf("no refresher registered for loader type %q", loaderType)
}
