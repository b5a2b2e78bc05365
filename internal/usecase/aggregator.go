package usecase

import (
	"sort"
	"sync"

	"github.com/montanaflynn/stats"

	"github.com/contribstats/contribstats/internal/domain"
)

// Aggregator folds classified file changes into per-developer buckets keyed
// by display category and, when per-repository reporting is enabled, by
// (repository, category) as well. Pairs belonging to the same developer may
// be folded concurrently, so every mutation goes through one mutex.
type Aggregator struct {
	mu      sync.Mutex
	perRepo bool
	devs    map[string]*devTotals
}

type devTotals struct {
	rows        map[string]*domain.Row
	repoRows    map[string]map[string]*domain.Row
	commitSizes []float64
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(perRepo bool) *Aggregator {
	return &Aggregator{perRepo: perRepo, devs: make(map[string]*devTotals)}
}

func (a *Aggregator) totals(developer string) *devTotals {
	dt, ok := a.devs[developer]
	if !ok {
		dt = &devTotals{
			rows:     make(map[string]*domain.Row),
			repoRows: make(map[string]map[string]*domain.Row),
		}
		a.devs[developer] = dt
	}
	return dt
}

// Track registers a developer so they appear in the report even with zero
// contributions.
func (a *Aggregator) Track(developer string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totals(developer)
}

// AddCommit folds one classified commit into the developer's buckets.
func (a *Aggregator) AddCommit(developer, repo string, commit domain.Commit) {
	a.mu.Lock()
	defer a.mu.Unlock()

	dt := a.totals(developer)
	size := 0
	for _, fc := range commit.Files {
		category := domain.Categorize(fc.Path)
		row(dt.rows, category).Fold(fc)
		if a.perRepo {
			rows, ok := dt.repoRows[repo]
			if !ok {
				rows = make(map[string]*domain.Row)
				dt.repoRows[repo] = rows
			}
			row(rows, category).Fold(fc)
		}
		size += fc.Additions + fc.Deletions
	}
	dt.commitSizes = append(dt.commitSizes, float64(size))
}

func row(rows map[string]*domain.Row, category string) *domain.Row {
	r, ok := rows[category]
	if !ok {
		r = &domain.Row{Category: category}
		rows[category] = r
	}
	return r
}

// Report snapshots the accumulated totals into the final report structure.
// Developers appear in the given order; rows are sorted lexicographically by
// category so output is stable.
func (a *Aggregator) Report(window domain.Window, developers []string, incomplete []domain.IncompletePair) domain.Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	report := domain.Report{Window: window, Incomplete: incomplete}
	for _, dev := range developers {
		dt, ok := a.devs[dev]
		if !ok {
			dt = &devTotals{}
		}
		dr := domain.DeveloperReport{
			Developer: dev,
			Rows:      sortedRows(dt.rows),
		}
		dr.Sum = domain.SumRows(dr.Rows)
		if a.perRepo {
			repoNames := make([]string, 0, len(dt.repoRows))
			for name := range dt.repoRows {
				repoNames = append(repoNames, name)
			}
			sort.Strings(repoNames)
			for _, name := range repoNames {
				rows := sortedRows(dt.repoRows[name])
				dr.Repos = append(dr.Repos, domain.RepoBreakdown{
					Repository: name,
					Rows:       rows,
					Sum:        domain.SumRows(rows),
				})
			}
		}
		if len(dt.commitSizes) > 0 {
			dr.Summary = summarize(dt.commitSizes)
		}
		report.Developers = append(report.Developers, dr)
	}
	return report
}

func sortedRows(rows map[string]*domain.Row) []domain.Row {
	out := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func summarize(sizes []float64) *domain.CommitSummary {
	// Median and Percentile only fail on empty input, which is guarded above.
	median, _ := stats.Median(sizes)
	p90, _ := stats.Percentile(sizes, 90)
	return &domain.CommitSummary{
		Commits:           len(sizes),
		MedianLineChanges: median,
		P90LineChanges:    p90,
	}
}
