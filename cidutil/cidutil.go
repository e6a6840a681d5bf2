// Package cidutil derives and checks the content identifiers used as storage
// keys. The repo's CID contract for writes is CIDv1, raw codec, sha2-256.
package cidutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ErrMismatch means data does not hash to the identifier that names it.
// This always signals tampering or corruption and must never be swallowed.
var ErrMismatch = errors.New("cidutil: content hash mismatch")

// ErrUnverifiable means the identifier's digest function is not one this
// package can recompute. The content is not known-bad, only unchecked;
// callers decide whether that reduced assurance is acceptable.
var ErrUnverifiable = errors.New("cidutil: digest function not verifiable")

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1
		// length this is unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Verify checks data against the digest embedded in id.
//
// Every sha2-256 identifier is verified regardless of CID version: both
// CIDv0 and CIDv1 decode to a multihash carrying the expected digest.
// Identifiers built on other digest functions return ErrUnverifiable; a
// digest that does not match returns ErrMismatch.
func Verify(id cid.Cid, data []byte) error {
	if !id.Defined() {
		return fmt.Errorf("cidutil: undefined cid")
	}
	dec, err := multihash.Decode(id.Hash())
	if err != nil {
		return fmt.Errorf("cidutil: invalid multihash: %w", err)
	}
	if dec.Code != multihash.SHA2_256 {
		return ErrUnverifiable
	}
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return err
	}
	got, err := multihash.Decode(sum)
	if err != nil {
		return err
	}
	if !bytes.Equal(got.Digest, dec.Digest) {
		return ErrMismatch
	}
	return nil
}
