// Package registry is the integration layer: registration documents encoded
// canonically, wrapped in the storage envelope, written to and resolved from
// content-addressable storage, with signed payloads verified on the way out.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/sol-surfer-ai/agent-core/canonical"
	"github.com/sol-surfer-ai/agent-core/cidutil"
)

// SchemaVersion is the registration document schema this package produces.
const SchemaVersion = 1

// Document is a registration document: a named, owner-bound set of pinned
// content identifiers.
type Document struct {
	V        int
	Name     string
	Owner    string // base58 asset key
	Pins     []string
	IssuedAt int64          // unix seconds; 0 means absent
	Meta     map[string]any // optional free-form metadata

	// Attestation is an optional signature block over the document body.
	Attestation *Attestation
}

// body returns the canonical encoding of every field except the attestation.
// This is the signed scope: an attestation always covers these bytes.
func (d Document) body() ([]byte, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("registry: document name is required")
	}
	if d.Owner == "" {
		return nil, fmt.Errorf("registry: document owner is required")
	}
	pins := make([]any, 0, len(d.Pins))
	for _, p := range d.Pins {
		if _, err := cid.Decode(p); err != nil {
			return nil, fmt.Errorf("registry: invalid pin %q: %w", p, err)
		}
		pins = append(pins, p)
	}
	m := map[string]any{
		"v":     d.V,
		"name":  d.Name,
		"owner": d.Owner,
		"pins":  pins,
	}
	if d.IssuedAt != 0 {
		m["issuedAt"] = d.IssuedAt
	}
	if len(d.Meta) > 0 {
		m["meta"] = d.Meta
	}
	v, err := canonical.Normalize(m)
	if err != nil {
		return nil, err
	}
	return canonical.Encode(v)
}

// MarshalCanonical returns the canonical JSON bytes of the full document,
// attestation block included when present.
func (d Document) MarshalCanonical() ([]byte, error) {
	body, err := d.body()
	if err != nil {
		return nil, err
	}
	if d.Attestation == nil {
		return body, nil
	}
	v, err := canonical.DecodeJSON(body)
	if err != nil {
		return nil, err
	}
	m, ok := v.(canonical.Map)
	if !ok {
		return nil, fmt.Errorf("registry: document body is not an object")
	}
	att, err := canonical.Normalize(map[string]any{
		"sigAlg":    d.Attestation.SigAlg,
		"hashAlg":   d.Attestation.HashAlg,
		"publicKey": d.Attestation.PublicKey,
		"signature": d.Attestation.Signature,
	})
	if err != nil {
		return nil, err
	}
	entries := append(m.Entries(), canonical.MapEntry{Key: "attestation", Value: att})
	full, err := canonical.NewMap(entries...)
	if err != nil {
		return nil, err
	}
	return canonical.Encode(full)
}

// CID derives the document's content identifier from its canonical bytes.
func (d Document) CID() (cid.Cid, error) {
	b, err := d.MarshalCanonical()
	if err != nil {
		return cid.Undef, err
	}
	return cidutil.CIDv1RawSHA256CID(b)
}

type wireAttestation struct {
	SigAlg    string `json:"sigAlg"`
	HashAlg   string `json:"hashAlg"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

type wireDocument struct {
	V           int              `json:"v"`
	Name        string           `json:"name"`
	Owner       string           `json:"owner"`
	Pins        []string         `json:"pins"`
	IssuedAt    int64            `json:"issuedAt"`
	Meta        map[string]any   `json:"meta"`
	Attestation *wireAttestation `json:"attestation"`
}

// ParseDocument decodes a registration document from its JSON bytes.
// Unknown fields are rejected.
func ParseDocument(b []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var w wireDocument
	if err := dec.Decode(&w); err != nil {
		return Document{}, fmt.Errorf("registry: malformed document: %w", err)
	}
	if dec.More() {
		return Document{}, fmt.Errorf("registry: trailing content after document")
	}
	if w.V != SchemaVersion {
		return Document{}, fmt.Errorf("registry: unsupported document version %d", w.V)
	}

	d := Document{
		V:        w.V,
		Name:     w.Name,
		Owner:    w.Owner,
		Pins:     w.Pins,
		IssuedAt: w.IssuedAt,
		Meta:     w.Meta,
	}
	if w.Attestation != nil {
		d.Attestation = &Attestation{
			SigAlg:    w.Attestation.SigAlg,
			HashAlg:   w.Attestation.HashAlg,
			PublicKey: w.Attestation.PublicKey,
			Signature: w.Attestation.Signature,
		}
	}
	if _, err := d.body(); err != nil {
		return Document{}, err
	}
	return d, nil
}
