package registry

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/rs/zerolog"

	"github.com/sol-surfer-ai/agent-core/envelope"
	"github.com/sol-surfer-ai/agent-core/payload"
	"github.com/sol-surfer-ai/agent-core/storage"
)

// Client publishes and resolves registration documents through a CAS.
type Client struct {
	CAS storage.CAS

	// Compressor wraps published bytes when set; nil publishes raw.
	Compressor envelope.Compressor
	// Decompressor unwraps resolved bytes. nil means compressed objects
	// cannot be resolved.
	Decompressor envelope.Decompressor

	// Log receives resolve/publish events; nil is silent.
	Log *zerolog.Logger
}

func (c *Client) logger() zerolog.Logger {
	if c.Log != nil {
		return *c.Log
	}
	return zerolog.Nop()
}

// Publish canonicalizes doc, wraps it in the storage envelope and writes it
// to the CAS. The returned CID names the enveloped bytes.
func (c *Client) Publish(ctx context.Context, doc Document) (cid.Cid, error) {
	if c.CAS == nil {
		return cid.Undef, fmt.Errorf("registry: nil CAS")
	}
	body, err := doc.MarshalCanonical()
	if err != nil {
		return cid.Undef, err
	}
	var wrapped []byte
	if c.Compressor != nil {
		wrapped, err = envelope.Wrap(body, c.Compressor)
		if err != nil {
			return cid.Undef, err
		}
	} else {
		wrapped = envelope.WrapRaw(body)
	}
	id, err := c.CAS.Put(ctx, wrapped)
	if err != nil {
		return cid.Undef, err
	}
	log := c.logger()
	log.Debug().Str("cid", id.String()).Str("name", doc.Name).Msg("document published")
	return id, nil
}

// Resolve reads the document named by id from the CAS.
func (c *Client) Resolve(ctx context.Context, id cid.Cid) (Document, error) {
	b, err := c.resolveBytes(ctx, id)
	if err != nil {
		return Document{}, err
	}
	return ParseDocument(b)
}

// ResolveSigned reads a signed payload from the CAS and verifies it against
// publicKey. Verification failure is a hard error; the payload is never
// returned unverified.
func (c *Client) ResolveSigned(ctx context.Context, id cid.Cid, publicKey ed25519.PublicKey) (payload.Payload, error) {
	b, err := c.resolveBytes(ctx, id)
	if err != nil {
		return payload.Payload{}, err
	}
	p, err := payload.Parse(b)
	if err != nil {
		return payload.Payload{}, err
	}
	if !payload.Verify(p, publicKey) {
		log := c.logger()
		log.Warn().Str("cid", id.String()).Msg("payload failed verification")
		return payload.Payload{}, ErrVerifyFailed
	}
	return p, nil
}

func (c *Client) resolveBytes(ctx context.Context, id cid.Cid) ([]byte, error) {
	if c.CAS == nil {
		return nil, fmt.Errorf("registry: nil CAS")
	}
	stored, err := c.CAS.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return envelope.Unwrap(stored, c.Decompressor)
}
