package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/contribstats/contribstats/internal/domain"
	"github.com/contribstats/contribstats/internal/gateway"
)

// Collector discovers the commits a developer authored in a repository
// inside the report window, searching every configured branch and merging
// the results into a single set keyed by commit hash. A commit reachable
// from several branches therefore counts once.
type Collector struct {
	fetcher  gateway.Fetcher
	branches []string
	logger   *logrus.Logger
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, branches []string, logger *logrus.Logger) *Collector {
	return &Collector{fetcher: fetcher, branches: branches, logger: logger}
}

// Collect fetches the deduplicated commit set for one (repository, developer)
// pair. Branches absent from the repository contribute zero commits; any
// other fetch failure aborts the pair.
func (c *Collector) Collect(ctx context.Context, repo, developer string, window domain.Window) ([]domain.CommitRef, error) {
	var mu sync.Mutex
	seen := make(map[string]domain.CommitRef)

	eg, egCtx := errgroup.WithContext(ctx)
	for _, branch := range c.branches {
		branch := branch
		eg.Go(func() error {
			refs, err := c.fetcher.ListBranchCommitsByAuthor(egCtx, repo, branch, developer, window)
			if err != nil {
				if errors.Is(err, gateway.ErrNotFound) {
					c.logger.Debugf("branch %s not found on %s, treating as empty", branch, repo)
					return nil
				}
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, ref := range refs {
				// The API's date filtering is delegated where possible, but
				// the half-open window is enforced here regardless.
				if !window.Contains(ref.AuthoredAt) {
					continue
				}
				seen[ref.SHA] = ref
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	refs := make([]domain.CommitRef, 0, len(seen))
	for _, ref := range seen {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].SHA < refs[j].SHA })
	c.logger.Debugf("collected %d unique commits for %s on %s", len(refs), developer, repo)
	return refs, nil
}
