package fetch

import "errors"

var (
	// ErrExhausted means every source failed; it wraps the last cause.
	ErrExhausted = errors.New("fetch: all sources exhausted")
	// ErrIntegrity means fetched bytes do not hash to the requested
	// identifier. It signals tampering or corruption and is fatal for the
	// whole call; the content is never returned.
	ErrIntegrity = errors.New("fetch: content integrity verification failed")
	// ErrRedirect means a source answered with a redirect. Redirects are
	// never followed; a gateway that redirects could steer the client at
	// internal addresses.
	ErrRedirect = errors.New("fetch: source attempted redirect")
	// ErrTooLarge means a response exceeded the configured size bound.
	ErrTooLarge = errors.New("fetch: response exceeds size limit")
	// ErrRateLimited is a soft per-source failure feeding fallback.
	ErrRateLimited = errors.New("fetch: source rate limited")
	// ErrInvalidID means the content identifier could not be decoded.
	ErrInvalidID = errors.New("fetch: invalid content identifier")
	// ErrNoSources means the fetcher has no gateways configured.
	ErrNoSources = errors.New("fetch: no sources configured")
)
