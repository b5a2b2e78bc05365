package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/contribstats/contribstats/internal/domain"
	"github.com/contribstats/contribstats/internal/gateway"
)

// detailWorkers bounds the concurrent per-commit detail fetches within one
// pair; the commit-list endpoint does not carry file-level detail, so each
// commit costs one extra round trip.
const detailWorkers = 5

// Classifier resolves each collected commit into its per-file change list,
// with exclusion rules already applied.
type Classifier struct {
	fetcher     gateway.Fetcher
	ignoreNoExt bool
	logger      *logrus.Logger
}

// NewClassifier creates a new Classifier instance.
func NewClassifier(fetcher gateway.Fetcher, ignoreNoExt bool, logger *logrus.Logger) *Classifier {
	return &Classifier{fetcher: fetcher, ignoreNoExt: ignoreNoExt, logger: logger}
}

// Classify fetches the file list of every commit and drops excluded paths.
// The result preserves the input order, one Commit per ref, possibly with an
// empty file list when everything in the commit was excluded.
func (cl *Classifier) Classify(ctx context.Context, repo string, refs []domain.CommitRef) ([]domain.Commit, error) {
	commits := make([]domain.Commit, len(refs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(detailWorkers)
	for i, ref := range refs {
		i, ref := i, ref
		eg.Go(func() error {
			files, err := cl.fetcher.GetCommitDetail(egCtx, repo, ref.SHA)
			if err != nil {
				return err
			}
			kept := make([]domain.FileChange, 0, len(files))
			for _, f := range files {
				if domain.Excluded(f.Path) {
					cl.logger.Debugf("excluding dot-prefixed file %s in %s", f.Path, ref.SHA)
					continue
				}
				if cl.ignoreNoExt && domain.FileType(f.Path) == domain.NoExtension {
					continue
				}
				kept = append(kept, f)
			}
			commits[i] = domain.Commit{CommitRef: ref, Files: kept}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return commits, nil
}
