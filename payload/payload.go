// Package payload implements the v1 signed-payload protocol: a JSON
// statement bound to an asset identity, a freshness nonce and an optional
// issuance time, signed over its canonical encoding.
//
// The signature pre-image is built by exactly one routine (Preimage) used by
// both signing and verification, so the two sides can never diverge in which
// bytes are authenticated.
package payload

import (
	"crypto/rand"
	"io"

	"github.com/mr-tron/base58"

	"github.com/sol-surfer-ai/agent-core/canonical"
)

const (
	// Version is the only payload version this package produces or accepts.
	Version = 1
	// Alg is the only signature algorithm of the v1 protocol. A payload
	// carrying anything else is rejected outright; the protocol is not
	// negotiable per payload.
	Alg = "ed25519"

	// NonceSize is the entropy, in bytes, of a generated nonce.
	NonceSize = 16
)

// Payload is a v1 signed statement. It is constructed once by Sign and
// immutable thereafter; Verify never mutates it.
type Payload struct {
	V        int
	Alg      string
	Asset    string
	Nonce    string
	IssuedAt int64 // unix seconds; 0 means the field is absent
	Data     canonical.Value
	Sig      string // base58, absent from the pre-image
}

// Preimage returns the exact byte string the signature covers: the canonical
// encoding of every field except sig.
func (p Payload) Preimage() ([]byte, error) {
	entries := []canonical.MapEntry{
		{Key: "v", Value: canonical.Int(p.V)},
		{Key: "alg", Value: canonical.String(p.Alg)},
		{Key: "asset", Value: canonical.String(p.Asset)},
		{Key: "nonce", Value: canonical.String(p.Nonce)},
		{Key: "data", Value: p.Data},
	}
	if p.IssuedAt != 0 {
		entries = append(entries, canonical.MapEntry{Key: "issuedAt", Value: canonical.Int(p.IssuedAt)})
	}
	m, err := canonical.NewMap(entries...)
	if err != nil {
		return nil, err
	}
	return canonical.Encode(m)
}

// Encode returns the canonical wire form of the full payload, sig included.
// This is the document body uploaded to content-addressed storage.
func (p Payload) Encode() ([]byte, error) {
	entries := []canonical.MapEntry{
		{Key: "v", Value: canonical.Int(p.V)},
		{Key: "alg", Value: canonical.String(p.Alg)},
		{Key: "asset", Value: canonical.String(p.Asset)},
		{Key: "nonce", Value: canonical.String(p.Nonce)},
		{Key: "data", Value: p.Data},
		{Key: "sig", Value: canonical.String(p.Sig)},
	}
	if p.IssuedAt != 0 {
		entries = append(entries, canonical.MapEntry{Key: "issuedAt", Value: canonical.Int(p.IssuedAt)})
	}
	m, err := canonical.NewMap(entries...)
	if err != nil {
		return nil, err
	}
	return canonical.Encode(m)
}

// NewNonce returns a fresh base58 nonce from r (crypto/rand when nil).
func NewNonce(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	b := make([]byte, NonceSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", wrapError(KindSign, "SP1-SIGN-001", "nonce entropy unavailable", err)
	}
	return base58.Encode(b), nil
}
