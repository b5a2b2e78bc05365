package usecase

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/contribstats/contribstats/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ListOrgRepos(ctx context.Context, org string) ([]string, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFetcher) RepoExists(ctx context.Context, repo string) (bool, error) {
	args := m.Called(ctx, repo)
	return args.Bool(0), args.Error(1)
}

func (m *mockFetcher) ListBranchCommitsByAuthor(ctx context.Context, repo, branch, author string, window domain.Window) ([]domain.CommitRef, error) {
	args := m.Called(ctx, repo, branch, author, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommitRef), args.Error(1)
}

func (m *mockFetcher) GetCommitDetail(ctx context.Context, repo, sha string) ([]domain.FileChange, error) {
	args := m.Called(ctx, repo, sha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileChange), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
