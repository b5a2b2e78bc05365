package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/contribstats/contribstats/internal/domain"
	"github.com/contribstats/contribstats/internal/gateway"
)

// Stages of a (developer, repository) pair, recorded on failure.
const (
	StageCollecting  = "collecting"
	StageClassifying = "classifying"
)

// defaultPairWorkers bounds how many pairs are processed at once.
const defaultPairWorkers = 4

// Options describes one report run.
type Options struct {
	Developers   []string
	Repos        []string
	UseOrgRepos  bool
	Organization string
	Branches     []string
	Window       domain.Window
	PerRepo      bool
	IgnoreNoExt  bool
	PairWorkers  int

	DebugMode bool
	DebugDev  string
	DebugRepo string
}

// Runner orchestrates a whole run: repository validation, then a bounded
// worker pool over (developer, repository) pairs feeding one synchronized
// accumulator. A failing pair is recorded and skipped; only an invalid
// credential aborts the run.
type Runner struct {
	fetcher gateway.Fetcher
	opts    Options
	logger  *logrus.Logger
}

// NewRunner creates a new Runner instance.
func NewRunner(fetcher gateway.Fetcher, opts Options, logger *logrus.Logger) *Runner {
	if opts.PairWorkers <= 0 {
		opts.PairWorkers = defaultPairWorkers
	}
	return &Runner{fetcher: fetcher, opts: opts, logger: logger}
}

type pair struct {
	developer string
	repo      string
}

// Run executes the report run and returns the final report together with
// whatever pairs could not be completed.
func (r *Runner) Run(ctx context.Context) (domain.Report, error) {
	developers := r.opts.Developers
	candidates := r.opts.Repos

	if r.opts.DebugMode {
		r.logger.Infof("debug mode: restricting run to %s on %s", r.opts.DebugDev, r.opts.DebugRepo)
		developers = []string{r.opts.DebugDev}
		candidates = []string{r.opts.DebugRepo}
	} else if r.opts.UseOrgRepos {
		expanded, err := NewValidator(r.fetcher, r.logger).Expand(ctx, r.opts.Organization)
		if err != nil {
			return domain.Report{}, err
		}
		candidates = expanded
	}

	repos, err := NewValidator(r.fetcher, r.logger).Validate(ctx, candidates)
	if err != nil {
		return domain.Report{}, fmt.Errorf("repository validation failed: %w", err)
	}
	r.logger.Infof("%d of %d repositories are reachable", len(repos), len(candidates))

	collector := NewCollector(r.fetcher, r.opts.Branches, r.logger)
	classifier := NewClassifier(r.fetcher, r.opts.IgnoreNoExt, r.logger)
	aggregator := NewAggregator(r.opts.PerRepo)
	for _, dev := range developers {
		aggregator.Track(dev)
	}

	var mu sync.Mutex
	var incomplete []domain.IncompletePair
	record := func(p pair, stage string, err error) {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"developer":  p.developer,
			"repository": p.repo,
			"stage":      stage,
		}).Error("pair failed, continuing with remaining pairs")
		mu.Lock()
		incomplete = append(incomplete, domain.IncompletePair{
			Developer:  p.developer,
			Repository: p.repo,
			Stage:      stage,
			Err:        err.Error(),
		})
		mu.Unlock()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.opts.PairWorkers)
	for _, dev := range developers {
		for _, repo := range repos {
			p := pair{developer: dev, repo: repo}
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					record(p, StageCollecting, err)
					return nil
				}
				refs, err := collector.Collect(egCtx, p.repo, p.developer, r.opts.Window)
				if err != nil {
					if errors.Is(err, gateway.ErrAuth) {
						return err
					}
					record(p, StageCollecting, err)
					return nil
				}
				commits, err := classifier.Classify(egCtx, p.repo, refs)
				if err != nil {
					if errors.Is(err, gateway.ErrAuth) {
						return err
					}
					record(p, StageClassifying, err)
					return nil
				}
				for _, commit := range commits {
					aggregator.AddCommit(p.developer, p.repo, commit)
				}
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		// Only an invalid credential propagates this far; a partial report
		// is meaningless without one.
		return domain.Report{}, fmt.Errorf("run aborted: %w", err)
	}

	sort.Slice(incomplete, func(i, j int) bool {
		if incomplete[i].Developer != incomplete[j].Developer {
			return incomplete[i].Developer < incomplete[j].Developer
		}
		return incomplete[i].Repository < incomplete[j].Repository
	})
	return aggregator.Report(r.opts.Window, developers, incomplete), nil
}
