package utils

import "errors"

var (
	// ErrUpstreamParse marks model output that failed to decode as JSON.
	// It never leaves the service layer; each operation has a documented
	// fallback value that replaces it at the boundary.
	ErrUpstreamParse = errors.New("upstream model output is not valid JSON")

	// ErrUpstreamUnavailable marks a failure to reach the model provider
	// at all (network, auth, quota). Surfaced to callers as 502.
	ErrUpstreamUnavailable = errors.New("upstream model provider unavailable")

	// ErrEmptyModelResponse marks a provider reply with no candidates/parts.
	ErrEmptyModelResponse = errors.New("model returned no content")
)
