package registry

import (
	"crypto/ed25519"
	"encoding/base64"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"github.com/sol-surfer-ai/agent-core/keys"
)

// Attestation is a signature block over a document body.
//
// PublicKey is encoded "<alg>:<base64>"; Signature is base64 over
// hash(body) using HashAlg. SigAlg is "ed25519" or "dilithium3".
type Attestation struct {
	SigAlg    string
	HashAlg   string
	PublicKey string
	Signature string
}

// AttestEd25519 signs the document body and attaches the attestation block.
func (d *Document) AttestEd25519(hashAlg string, priv ed25519.PrivateKey) error {
	body, err := d.body()
	if err != nil {
		return err
	}
	sig, err := keys.SignEd25519(body, hashAlg, priv)
	if err != nil {
		return err
	}
	pub := priv.Public().(ed25519.PublicKey)
	d.Attestation = &Attestation{
		SigAlg:    "ed25519",
		HashAlg:   hashAlg,
		PublicKey: "ed25519:" + base64.StdEncoding.EncodeToString(pub),
		Signature: sig,
	}
	return nil
}

// AttestDilithium3 signs the document body with a post-quantum key.
func (d *Document) AttestDilithium3(hashAlg string, pub *mode3.PublicKey, priv *mode3.PrivateKey) error {
	body, err := d.body()
	if err != nil {
		return err
	}
	sig, err := keys.SignDilithium3(body, hashAlg, priv)
	if err != nil {
		return err
	}
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return err
	}
	d.Attestation = &Attestation{
		SigAlg:    "dilithium3",
		HashAlg:   hashAlg,
		PublicKey: "dilithium3:" + base64.StdEncoding.EncodeToString(pubBytes),
		Signature: sig,
	}
	return nil
}

// VerifyAttestation checks the document's attestation block against its
// canonical body. A document without an attestation fails closed.
func (d Document) VerifyAttestation() error {
	a := d.Attestation
	if a == nil {
		return ErrNotAttested
	}
	if a.SigAlg == "" || a.HashAlg == "" || a.PublicKey == "" || a.Signature == "" {
		return ErrAttestation
	}

	keyAlg, enc, ok := strings.Cut(a.PublicKey, ":")
	if !ok || keyAlg != a.SigAlg {
		return ErrAttestation
	}
	pub, err := decodeBase64(enc)
	if err != nil {
		return ErrAttestation
	}
	sig, err := decodeBase64(a.Signature)
	if err != nil {
		return ErrAttestation
	}

	body, err := d.body()
	if err != nil {
		return err
	}
	digest, err := keys.Digest(a.HashAlg, body)
	if err != nil {
		return ErrAttestation
	}

	switch a.SigAlg {
	case "ed25519":
		if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
			return ErrAttestation
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
			return ErrAttestation
		}
		return nil
	case "dilithium3":
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return ErrAttestation
		}
		if len(sig) != mode3.SignatureSize {
			return ErrAttestation
		}
		if !mode3.Verify(&pk, digest, sig) {
			return ErrAttestation
		}
		return nil
	default:
		return ErrAttestation
	}
}

func decodeBase64(s string) ([]byte, error) {
	// Prefer standard padded encoding, but accept raw encoding too.
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}
