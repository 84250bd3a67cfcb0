package bootstrap

import (
	"context"
	"sync"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/arteam/couchbase-jvm-core/api"
)

// RefresherRegistrar registers a successfully bootstrapped bucket with the
// Refresher that belongs to the loader type which produced it. It is
// satisfied by a small adapter in pkg/clusterconfig so this package need not
// import the refresh interface directly.
type RefresherRegistrar interface {
	RegisterBucket(ctx context.Context, loaderType LoaderType, name, username, password string) error
}

// Pipeline runs the bootstrap algorithm: try loaders in order, all seeds for
// a loader concurrently, first success wins.
type Pipeline struct {
	loaders   []Loader
	registrar RefresherRegistrar
	logger    logr.Logger
}

// NewPipeline builds a Pipeline that tries loaders in the given order.
func NewPipeline(loaders []Loader, registrar RefresherRegistrar, logger logr.Logger) *Pipeline {
	return &Pipeline{loaders: loaders, registrar: registrar, logger: logger.WithName("bootstrap")}
}

// OpenBucket runs the algorithm in spec.md §4.2: for each loader in order,
// race every seed concurrently; the first success wins and cancels the rest
// of that loader's attempts. If every loader fails on every seed, or the
// refresher registration for the winning loader fails, it returns a *Error
// with the exact message "Could not open bucket.".
func (p *Pipeline) OpenBucket(ctx context.Context, seeds []string, bucketName, username, password string) (api.BucketConfig, LoaderType, error) {
	attemptID := uuid.NewString()
	log := p.logger.WithValues("attempt", attemptID, "bucket", bucketName)

	if len(seeds) == 0 {
		return api.BucketConfig{}, "", &Error{Causes: []error{errors.New("no seed hosts configured")}}
	}

	var allCauses []error
	for _, loader := range p.loaders {
		log.V(1).Info("trying loader", "loaderType", loader.Type())
		cfg, err := p.raceSeeds(ctx, loader, seeds, bucketName, username, password)
		if err != nil {
			allCauses = append(allCauses, err)
			continue
		}

		if p.registrar != nil {
			if regErr := p.registrar.RegisterBucket(ctx, loader.Type(), bucketName, username, password); regErr != nil {
				log.Error(regErr, "refresher registration failed", "loaderType", loader.Type())
				allCauses = append(allCauses, errors.Wrapf(regErr, "register refresher for loader %s", loader.Type()))
				return api.BucketConfig{}, "", &Error{Causes: allCauses}
			}
		}

		log.Info("bootstrap succeeded", "loaderType", loader.Type())
		return cfg, loader.Type(), nil
	}

	return api.BucketConfig{}, "", &Error{Causes: allCauses}
}

// raceSeeds tries every seed concurrently for one loader and returns the
// first success, cancelling the other attempts. A seed that never responds
// (its context is only cancelled once another seed wins, or when the caller
// gives up) must not block this from returning.
func (p *Pipeline) raceSeeds(ctx context.Context, loader Loader, seeds []string, bucketName, username, password string) (api.BucketConfig, error) {
	loaderCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan result, len(seeds))
	var wg sync.WaitGroup
	for _, seed := range seeds {
		wg.Add(1)
		go func(seed string) {
			defer wg.Done()
			cfg, err := loader.LoadConfig(loaderCtx, seed, bucketName, username, password)
			select {
			case results <- result{cfg: cfg, err: err}:
			case <-loaderCtx.Done():
			}
		}(seed)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var causes []error
	for r := range results {
		if r.err == nil {
			cancel() // stop the remaining attempts; their sends are best-effort
			return r.cfg, nil
		}
		causes = append(causes, r.err)
	}
	return api.BucketConfig{}, errors.Wrapf(combine(causes), "loader %s failed on every seed", loader.Type())
}

func combine(errs []error) error {
	if len(errs) == 0 {
		return errors.New("no seeds attempted")
	}
	msg := errs[0].Error()
	for _, e := range errs[1:] {
		msg += "; " + e.Error()
	}
	return errors.New(msg)
}
