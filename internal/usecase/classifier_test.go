package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/contribstats/contribstats/internal/domain"
)

func TestClassifier_DropsDotPrefixedFiles(t *testing.T) {
	refs := []domain.CommitRef{{SHA: "aaa", AuthoredAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}}

	fetcher := new(mockFetcher)
	fetcher.On("GetCommitDetail", mock.Anything, "myorg/project1", "aaa").
		Return([]domain.FileChange{
			{Path: ".gitignore", Action: domain.ActionModified, Additions: 5},
			{Path: "ci/.env", Action: domain.ActionAdded, Additions: 3},
			{Path: "app.py", Action: domain.ActionModified, Additions: 50, Deletions: 20},
		}, nil)

	classifier := NewClassifier(fetcher, false, testLogger())
	commits, err := classifier.Classify(context.Background(), "myorg/project1", refs)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, []domain.FileChange{
		{Path: "app.py", Action: domain.ActionModified, Additions: 50, Deletions: 20},
	}, commits[0].Files)
}

func TestClassifier_OnlyDotfileYieldsEmptyCommit(t *testing.T) {
	refs := []domain.CommitRef{{SHA: "aaa"}}

	fetcher := new(mockFetcher)
	fetcher.On("GetCommitDetail", mock.Anything, "myorg/project1", "aaa").
		Return([]domain.FileChange{{Path: ".gitignore", Action: domain.ActionModified, Additions: 5}}, nil)

	classifier := NewClassifier(fetcher, false, testLogger())
	commits, err := classifier.Classify(context.Background(), "myorg/project1", refs)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Empty(t, commits[0].Files, "the dotfile must not reach any bucket, including Unknown")
}

func TestClassifier_IgnoreNoExtension(t *testing.T) {
	refs := []domain.CommitRef{{SHA: "aaa"}}

	fetcher := new(mockFetcher)
	fetcher.On("GetCommitDetail", mock.Anything, "myorg/project1", "aaa").
		Return([]domain.FileChange{
			{Path: "Makefile", Action: domain.ActionModified, Additions: 2},
			{Path: "main.go", Action: domain.ActionModified, Additions: 10},
		}, nil)

	classifier := NewClassifier(fetcher, true, testLogger())
	commits, err := classifier.Classify(context.Background(), "myorg/project1", refs)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	require.Len(t, commits[0].Files, 1)
	assert.Equal(t, "main.go", commits[0].Files[0].Path)
}

func TestClassifier_PreservesInputOrder(t *testing.T) {
	refs := []domain.CommitRef{{SHA: "aaa"}, {SHA: "bbb"}, {SHA: "ccc"}}

	fetcher := new(mockFetcher)
	for _, sha := range []string{"aaa", "bbb", "ccc"} {
		fetcher.On("GetCommitDetail", mock.Anything, "myorg/project1", sha).
			Return([]domain.FileChange{{Path: sha + ".go", Action: domain.ActionModified}}, nil)
	}

	classifier := NewClassifier(fetcher, false, testLogger())
	commits, err := classifier.Classify(context.Background(), "myorg/project1", refs)
	require.NoError(t, err)
	require.Len(t, commits, 3)
	for i, sha := range []string{"aaa", "bbb", "ccc"} {
		assert.Equal(t, sha, commits[i].SHA)
	}
}
