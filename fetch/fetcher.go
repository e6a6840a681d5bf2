// Package fetch retrieves content-addressed data from an ordered list of
// untrusted HTTP gateways.
//
// Retrieval uses sequential hedging rather than full parallel fan-out: each
// source gets a head start of one hedge delay before the next source is
// started, and the first successful response wins. Exactly one attempt's
// result is accepted per call; all other in-flight attempts are cancelled
// through a shared per-call context that reaches the transport, so losing
// connections are actually torn down.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/rs/zerolog"

	"github.com/sol-surfer-ai/agent-core/cidutil"
)

const (
	DefaultHedgeDelay = 2 * time.Second
	DefaultTimeout    = 30 * time.Second
	DefaultMaxBytes   = 8 << 20
)

// Options tune a Fetcher. Zero fields take the package defaults.
type Options struct {
	// HedgeDelay is how long each source may run before the next one is
	// started alongside it.
	HedgeDelay time.Duration
	// Timeout bounds each attempt independently of the hedge delay.
	Timeout time.Duration
	// MaxBytes bounds each response body; an attempt is aborted as soon as
	// it streams past the limit.
	MaxBytes int64
	// Transport overrides the HTTP transport (tests, proxies).
	Transport http.RoundTripper
	// Logger receives attempt and reduced-assurance events.
	Logger *zerolog.Logger
}

// Fetcher retrieves content-addressed bytes from interchangeable, mutually
// untrusted mirrors of the same namespace.
type Fetcher struct {
	gateways   []string
	hedgeDelay time.Duration
	timeout    time.Duration
	maxBytes   int64
	client     *http.Client
	log        zerolog.Logger
}

// New builds a Fetcher over gateways, an ordered list of URL templates.
// A template either contains a "{cid}" placeholder or is a base URL the
// identifier is appended to.
func New(gateways []string, opts Options) *Fetcher {
	f := &Fetcher{
		gateways:   append([]string(nil), gateways...),
		hedgeDelay: opts.HedgeDelay,
		timeout:    opts.Timeout,
		maxBytes:   opts.MaxBytes,
		log:        zerolog.Nop(),
	}
	if f.hedgeDelay <= 0 {
		f.hedgeDelay = DefaultHedgeDelay
	}
	if f.timeout <= 0 {
		f.timeout = DefaultTimeout
	}
	if f.maxBytes <= 0 {
		f.maxBytes = DefaultMaxBytes
	}
	if opts.Logger != nil {
		f.log = *opts.Logger
	}
	f.client = &http.Client{
		Transport: opts.Transport,
		// Redirects are a per-source hard failure, never followed.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return ErrRedirect
		},
	}
	return f
}

type attemptResult struct {
	src  string
	data []byte
	err  error
}

// Fetch retrieves the content named by id. On success the returned bytes are
// known to hash to id when id carries a sha2-256 digest; identifiers using
// other digest functions are accepted with a reduced-assurance warning.
func (f *Fetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	return f.FetchFrom(ctx, id, f.gateways)
}

// FetchFrom is Fetch against an explicit ordered source list, overriding the
// configured gateways for this call only.
func (f *Fetcher) FetchFrom(ctx context.Context, id string, sources []string) ([]byte, error) {
	decoded, err := cid.Decode(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	// One shared cancellation signal per logical fetch: the first accepted
	// result cancels every other in-flight attempt.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan attemptResult, len(sources))
	inflight := 0
	var lastErr error

	// accept resolves one attempt result. done is true when the call is
	// decided, either by a verified success or a fatal integrity failure.
	accept := func(r attemptResult) (out []byte, fatal error, done bool) {
		if r.err != nil {
			f.log.Debug().Str("source", r.src).Err(r.err).Msg("source attempt failed")
			lastErr = r.err
			return nil, nil, false
		}
		switch verr := cidutil.Verify(decoded, r.data); {
		case verr == nil:
			return r.data, nil, true
		case errors.Is(verr, cidutil.ErrUnverifiable):
			f.log.Warn().Str("cid", id).Str("source", r.src).
				Msg("accepting content without hash verification (unsupported digest)")
			return r.data, nil, true
		default:
			// A mismatch is tampering or corruption; never fall back to
			// another source, never hand the bytes to the caller.
			return nil, fmt.Errorf("%w: %v", ErrIntegrity, verr), true
		}
	}

	for i, gw := range sources {
		src := sourceURL(gw, id)
		go f.attempt(ctx, src, results)
		inflight++

		if i == len(sources)-1 {
			// Nothing left to hedge against; await below.
			break
		}

		hedge := time.NewTimer(f.hedgeDelay)
	wait:
		for inflight > 0 {
			select {
			case r := <-results:
				inflight--
				if out, fatal, done := accept(r); done {
					hedge.Stop()
					cancel()
					return out, fatal
				}
			case <-hedge.C:
				break wait
			}
		}
		hedge.Stop()
	}

	for inflight > 0 {
		r := <-results
		inflight--
		if out, fatal, done := accept(r); done {
			cancel()
			return out, fatal
		}
	}

	if lastErr == nil {
		lastErr = errors.New("no attempt completed")
	}
	return nil, fmt.Errorf("%w: %v", ErrExhausted, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, src string, results chan<- attemptResult) {
	data, err := f.get(ctx, src)
	results <- attemptResult{src: src, data: data, err: err}
}

func (f *Fetcher) get(ctx context.Context, src string) ([]byte, error) {
	actx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrRedirect) {
			return nil, ErrRedirect
		}
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch: unexpected status %d from source", resp.StatusCode)
	}

	// Stream with a hard cap instead of buffering an unbounded body; a
	// malicious source must not be able to exhaust memory.
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if n > f.maxBytes {
		return nil, ErrTooLarge
	}
	return buf.Bytes(), nil
}

func sourceURL(template, id string) string {
	if strings.Contains(template, "{cid}") {
		return strings.ReplaceAll(template, "{cid}", id)
	}
	return strings.TrimSuffix(template, "/") + "/" + id
}
