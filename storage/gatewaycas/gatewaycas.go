// Package gatewaycas adapts a hedged gateway fetcher to the storage.CAS
// interface. The store is read-only: objects come from HTTP gateways that
// serve content by CID, and writes go elsewhere.
package gatewaycas

import (
	"context"
	"errors"

	"github.com/ipfs/go-cid"

	"github.com/sol-surfer-ai/agent-core/fetch"
	"github.com/sol-surfer-ai/agent-core/storage"
)

// CAS is a read-only CAS backed by a fetch.Fetcher.
type CAS struct {
	fetcher *fetch.Fetcher
}

// New wraps fetcher as a CAS. fetcher must not be nil.
func New(fetcher *fetch.Fetcher) *CAS {
	return &CAS{fetcher: fetcher}
}

// Put always fails with storage.ErrReadOnly.
func (c *CAS) Put(ctx context.Context, bytes []byte) (cid.Cid, error) {
	return cid.Undef, storage.ErrReadOnly
}

func (c *CAS) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	b, err := c.fetcher.Fetch(ctx, id.String())
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, fetch.ErrIntegrity):
		return nil, storage.ErrCIDMismatch
	case errors.Is(err, fetch.ErrInvalidID):
		return nil, storage.ErrInvalidCID
	default:
		// Exhaustion covers gateway 404s and transport failures alike;
		// callers only need the not-found signal.
		return nil, storage.ErrNotFound
	}
}

// Has fetches the object to answer; gateways expose no cheaper existence
// check.
func (c *CAS) Has(ctx context.Context, id cid.Cid) bool {
	_, err := c.Get(ctx, id)
	return err == nil
}
