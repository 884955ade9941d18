package types

import "github.com/m-mizutani/goerr/v2"

// Error taxonomy shared across packages. Callers branch with errors.Is.
var (
	// ErrBadRequest marks input/validation errors that are reported to the
	// user as-is and never retried (wrong document kind, unknown day name,
	// missing profile fields).
	ErrBadRequest = goerr.New("bad request")

	// ErrNotConfigured marks a missing provider configuration (embedding or
	// model client absent). Raised at the point of use, never silently
	// degraded into empty vectors.
	ErrNotConfigured = goerr.New("provider not configured")

	// ErrNoDecision is returned by the model orchestration path when every
	// provider in the fallback chain failed; the caller must take the
	// deterministic/offline path.
	ErrNoDecision = goerr.New("no decision from model providers")

	// ErrRateLimited marks a request rejected by the per-caller rate limit
	ErrRateLimited = goerr.New("rate limited")
)
