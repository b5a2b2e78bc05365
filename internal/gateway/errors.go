package gateway

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// Sentinel errors callers classify with errors.Is. Anything else coming out
// of the gateway is a wrapped transport failure.
var (
	// ErrNotFound means the repository or branch does not exist (or is not
	// visible with the supplied credential).
	ErrNotFound = errors.New("not found")
	// ErrRateLimited means the API rejected the call due to a rate limit
	// after the bounded retries were exhausted.
	ErrRateLimited = errors.New("rate limited")
	// ErrAuth means the credential is invalid or expired. Fatal for the run.
	ErrAuth = errors.New("authentication failed")
)

// classify maps go-github errors onto the gateway's sentinel errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return ErrRateLimited
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return ErrAuth
		}
	}
	return err
}

// retryable reports whether a classified error is worth another attempt.
func retryable(err error) bool {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAuth) {
		return false
	}
	return true
}
