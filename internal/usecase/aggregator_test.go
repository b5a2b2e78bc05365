package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contribstats/contribstats/internal/domain"
)

func commit(sha string, files ...domain.FileChange) domain.Commit {
	return domain.Commit{
		CommitRef: domain.CommitRef{SHA: sha, AuthoredAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
		Files:     files,
	}
}

// aliceCommits is the deduplicated commit set of the end-to-end scenario:
// two commits touching app.py and one renaming README.md to readme.md.
func aliceCommits() []domain.Commit {
	return []domain.Commit{
		commit("aaa", domain.FileChange{Path: "app.py", Action: domain.ActionModified, Additions: 50, Deletions: 20}),
		commit("bbb", domain.FileChange{Path: "app.py", Action: domain.ActionModified, Additions: 30, Deletions: 20}),
		commit("ccc", domain.FileChange{Path: "readme.md", Action: domain.ActionRenamed, Additions: 20, Deletions: 10}),
	}
}

func TestAggregator_EndToEndScenario(t *testing.T) {
	agg := NewAggregator(false)
	for _, c := range aliceCommits() {
		agg.AddCommit("alice", "myorg/project1", c)
	}

	report := agg.Report(window(), []string{"alice"}, nil)
	require.Len(t, report.Developers, 1)
	dev := report.Developers[0]
	assert.Equal(t, "alice", dev.Developer)

	require.Len(t, dev.Rows, 2)
	// Rows are ordered lexicographically by category.
	markdown, python := dev.Rows[0], dev.Rows[1]

	assert.Equal(t, domain.Row{Category: "Markdown", Renamed: 1, LineAdds: 20, LineDels: 10, LineChanges: 30}, markdown)
	assert.Equal(t, domain.Row{Category: "Python", Modifications: 2, LineAdds: 80, LineDels: 40, LineChanges: 120}, python)

	assert.Equal(t, domain.Row{
		Category: "SUM", Modifications: 2, Renamed: 1,
		LineAdds: 100, LineDels: 50, LineChanges: 150,
	}, dev.Sum)

	require.NotNil(t, dev.Summary)
	assert.Equal(t, 3, dev.Summary.Commits)
	assert.Equal(t, 50.0, dev.Summary.MedianLineChanges, "commit sizes are 70, 50, 30")
}

func TestAggregator_PerRepoBreakdownSumsToTopLevel(t *testing.T) {
	agg := NewAggregator(true)
	agg.AddCommit("alice", "myorg/project1",
		commit("aaa", domain.FileChange{Path: "app.py", Action: domain.ActionModified, Additions: 50, Deletions: 20}))
	agg.AddCommit("alice", "myorg/project2",
		commit("bbb",
			domain.FileChange{Path: "lib.py", Action: domain.ActionAdded, Additions: 30},
			domain.FileChange{Path: "doc.md", Action: domain.ActionModified, Additions: 5, Deletions: 1}))

	report := agg.Report(window(), []string{"alice"}, nil)
	dev := report.Developers[0]

	require.Len(t, dev.Repos, 2)
	assert.Equal(t, "myorg/project1", dev.Repos[0].Repository)
	assert.Equal(t, "myorg/project2", dev.Repos[1].Repository)

	var merged domain.Row
	for _, repo := range dev.Repos {
		merged.Merge(repo.Sum)
	}
	// Enabling per_repo must not change the top-level totals.
	merged.Category = dev.Sum.Category
	assert.Equal(t, dev.Sum, merged)
}

func TestAggregator_TrackedDeveloperWithoutCommits(t *testing.T) {
	agg := NewAggregator(false)
	agg.Track("bob")

	report := agg.Report(window(), []string{"bob"}, nil)
	require.Len(t, report.Developers, 1)
	assert.Empty(t, report.Developers[0].Rows)
	assert.Equal(t, domain.Row{Category: "SUM"}, report.Developers[0].Sum)
	assert.Nil(t, report.Developers[0].Summary)
}

func TestAggregator_SumRowMatchesColumnSums(t *testing.T) {
	agg := NewAggregator(false)
	agg.AddCommit("alice", "r",
		commit("aaa",
			domain.FileChange{Path: "a.go", Action: domain.ActionAdded, Additions: 10},
			domain.FileChange{Path: "b.rs", Action: domain.ActionRemoved, Deletions: 7},
			domain.FileChange{Path: "Makefile", Action: domain.ActionModified, Additions: 1, Deletions: 1},
		))

	dev := agg.Report(window(), []string{"alice"}, nil).Developers[0]

	var total domain.Row
	for _, r := range dev.Rows {
		total.Merge(r)
	}
	total.Category = "SUM"
	assert.Equal(t, dev.Sum, total)
	assert.Equal(t, dev.Sum.LineChanges, dev.Sum.LineAdds+dev.Sum.LineDels)
}

func TestAggregator_DevelopersKeepConfiguredOrder(t *testing.T) {
	agg := NewAggregator(false)
	agg.Track("zoe")
	agg.Track("alice")

	report := agg.Report(window(), []string{"zoe", "alice"}, nil)
	require.Len(t, report.Developers, 2)
	assert.Equal(t, "zoe", report.Developers[0].Developer)
	assert.Equal(t, "alice", report.Developers[1].Developer)
}
