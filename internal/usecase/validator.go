// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/contribstats/contribstats/internal/gateway"
)

// Validator filters a candidate repository list down to the repositories
// that actually exist and are reachable with the supplied credential.
type Validator struct {
	fetcher gateway.Fetcher
	logger  *logrus.Logger
}

// NewValidator creates a new Validator instance.
func NewValidator(fetcher gateway.Fetcher, logger *logrus.Logger) *Validator {
	return &Validator{fetcher: fetcher, logger: logger}
}

// Expand resolves an organization into its full repository list.
func (v *Validator) Expand(ctx context.Context, org string) ([]string, error) {
	repos, err := v.fetcher.ListOrgRepos(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("failed to expand organization %s: %w", org, err)
	}
	v.logger.Infof("organization %s expanded to %d repositories", org, len(repos))
	return repos, nil
}

// Validate probes every candidate and returns the ordered subset that is
// reachable. Unreachable entries are logged and dropped; only an invalid
// credential aborts validation.
func (v *Validator) Validate(ctx context.Context, candidates []string) ([]string, error) {
	valid := make([]string, 0, len(candidates))
	for _, repo := range candidates {
		ok, err := v.fetcher.RepoExists(ctx, repo)
		if err != nil {
			if errors.Is(err, gateway.ErrAuth) || errors.Is(err, context.Canceled) {
				return nil, err
			}
			v.logger.WithError(err).Warnf("skipping repository %s: probe failed", repo)
			continue
		}
		if !ok {
			v.logger.Warnf("skipping repository %s: not found", repo)
			continue
		}
		valid = append(valid, repo)
	}
	return valid, nil
}
