package payload

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

func encodeSig(sig []byte) string { return base58.Encode(sig) }

// Verify reports whether p carries a valid signature over its canonical
// pre-image under publicKey.
//
// Verify is a predicate, not a fallible operation: malformed signatures,
// wrong lengths, version mismatches and pre-image failures all yield false,
// never an error, so callers can treat untrusted input uniformly.
func Verify(p Payload, publicKey ed25519.PublicKey) bool {
	if p.V != Version || p.Alg != Alg {
		return false
	}
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	if p.Data == nil || p.Sig == "" {
		return false
	}

	preimage, err := p.Preimage()
	if err != nil {
		return false
	}
	sig, err := base58.Decode(p.Sig)
	if err != nil {
		return false
	}
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(publicKey, preimage, sig)
}
