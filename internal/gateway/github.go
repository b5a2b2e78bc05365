// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/contribstats/contribstats/internal/domain"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// ListOrgRepos expands an organization into its full owner/name list.
	ListOrgRepos(ctx context.Context, org string) ([]string, error)
	// RepoExists probes whether a repository is reachable with the
	// supplied credential.
	RepoExists(ctx context.Context, repo string) (bool, error)
	// ListBranchCommitsByAuthor returns all commits authored by author on
	// branch inside the window, following pagination to the end.
	// A missing branch surfaces as ErrNotFound.
	ListBranchCommitsByAuthor(ctx context.Context, repo, branch, author string, window domain.Window) ([]domain.CommitRef, error)
	// GetCommitDetail returns the per-file change list of one commit.
	GetCommitDetail(ctx context.Context, repo, sha string) ([]domain.FileChange, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	limiter       *rate.Limiter
	logger        *logrus.Logger
	maxRetries    int
}

// orgReposQuery pages through an organization's repositories.
type orgReposQuery struct {
	Organization struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				NameWithOwner string
			}
		} `graphql:"repositories(first: 100, after: $cursor)"`
	} `graphql:"organization(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// baseURL is the REST API base; anything other than api.github.com is treated
// as a GitHub Enterprise endpoint.
func NewGitHubGateway(baseURL, token string, logger *logrus.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	var graphqlClient *githubv4.Client
	if baseURL == "" || baseURL == "https://api.github.com" {
		graphqlClient = githubv4.NewClient(httpClient)
	} else {
		restClient, err = restClient.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise endpoint: %w", err)
		}
		graphqlClient = githubv4.NewEnterpriseClient(strings.Replace(baseURL, "/api/v3", "/api/graphql", 1), httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		limiter:       rate.NewLimiter(rate.Limit(10), 1),
		logger:        logger,
		maxRetries:    3,
	}, nil
}

// do paces the call against the client-side limiter and retries retryable
// failures with exponential delay.
func (g *GitHubGateway) do(ctx context.Context, call func() error) error {
	delay := time.Second
	for attempt := 0; ; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
		err := classify(call())
		if err == nil || !retryable(err) || attempt >= g.maxRetries {
			return err
		}
		g.logger.WithError(err).Warnf("retrying request in %s (attempt %d/%d)", delay, attempt+1, g.maxRetries)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository identifier %q: want owner/name", repo)
	}
	return parts[0], parts[1], nil
}

func (g *GitHubGateway) ListOrgRepos(ctx context.Context, org string) ([]string, error) {
	g.logger.Debugf("expanding organization %s via GraphQL", org)
	variables := map[string]interface{}{
		"login":  githubv4.String(org),
		"cursor": (*githubv4.String)(nil),
	}
	var repos []string
	for {
		var q orgReposQuery
		err := g.do(ctx, func() error { return g.graphqlClient.Query(ctx, &q, variables) })
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories of %s: %w", org, err)
		}
		for _, node := range q.Organization.Repositories.Nodes {
			repos = append(repos, node.NameWithOwner)
		}
		if !q.Organization.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Organization.Repositories.PageInfo.EndCursor)
		g.logger.Debug("  fetching next page of organization repositories...")
	}
	return repos, nil
}

func (g *GitHubGateway) RepoExists(ctx context.Context, repo string) (bool, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return false, err
	}
	err = g.do(ctx, func() error {
		_, _, err := g.restClient.Repositories.Get(ctx, owner, name)
		return err
	})
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to probe repository %s: %w", repo, err)
}

func (g *GitHubGateway) ListBranchCommitsByAuthor(ctx context.Context, repo, branch, author string, window domain.Window) ([]domain.CommitRef, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	opts := &github.CommitsListOptions{
		SHA:         branch,
		Author:      author,
		Since:       window.Start,
		Until:       window.End,
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var refs []domain.CommitRef
	for {
		var commits []*github.RepositoryCommit
		var resp *github.Response
		err := g.do(ctx, func() error {
			var err error
			commits, resp, err = g.restClient.Repositories.ListCommits(ctx, owner, name, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list commits on %s@%s: %w", repo, branch, err)
		}
		for _, c := range commits {
			refs = append(refs, domain.CommitRef{
				SHA:        c.GetSHA(),
				AuthoredAt: c.GetCommit().GetAuthor().GetDate().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Debugf("  fetching next page of commits for %s@%s...", repo, branch)
	}
	return refs, nil
}

func (g *GitHubGateway) GetCommitDetail(ctx context.Context, repo, sha string) ([]domain.FileChange, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}
	opts := &github.ListOptions{PerPage: 100}
	var files []domain.FileChange
	for {
		var detail *github.RepositoryCommit
		var resp *github.Response
		err := g.do(ctx, func() error {
			var err error
			detail, resp, err = g.restClient.Repositories.GetCommit(ctx, owner, name, sha, opts)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch detail of %s in %s: %w", sha, repo, err)
		}
		for _, f := range detail.Files {
			files = append(files, domain.FileChange{
				Path:      f.GetFilename(),
				Action:    domain.ParseAction(f.GetStatus()),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return files, nil
}
