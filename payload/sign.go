package payload

import (
	"crypto/ed25519"
	"io"
	"time"

	"github.com/sol-surfer-ai/agent-core/canonical"
	"github.com/sol-surfer-ai/agent-core/keys"
)

// SignOptions tune payload assembly. The zero value is a sensible default:
// a random 16-byte nonce and issuedAt set to the current time.
type SignOptions struct {
	// Nonce overrides the generated nonce when non-empty.
	Nonce string
	// IssuedAt overrides the issuance time when non-zero.
	IssuedAt time.Time
	// OmitIssuedAt leaves the issuedAt field absent.
	OmitIssuedAt bool
	// Rand is the entropy source for nonce generation (crypto/rand when nil).
	Rand io.Reader
}

// Sign normalizes data, assembles the unsigned v1 payload, canonicalizes it
// into the signature pre-image, and signs that exact byte string with
// privateKey. The pre-image is returned alongside the payload for audit; it
// is the same byte string Verify will reconstruct.
func Sign(privateKey ed25519.PrivateKey, data any, opts SignOptions) (Payload, []byte, error) {
	if len(privateKey) != ed25519.PrivateKeySize {
		return Payload{}, nil, newError(KindSign, "SP1-SIGN-002", "invalid ed25519 private key length")
	}

	value, err := canonical.Normalize(data)
	if err != nil {
		return Payload{}, nil, err
	}

	asset, err := keys.AssetKeyFromPublicKey(privateKey.Public().(ed25519.PublicKey))
	if err != nil {
		return Payload{}, nil, wrapError(KindSign, "SP1-SIGN-003", "invalid signing key", err)
	}

	nonce := opts.Nonce
	if nonce == "" {
		nonce, err = NewNonce(opts.Rand)
		if err != nil {
			return Payload{}, nil, err
		}
	}

	var issuedAt int64
	if !opts.OmitIssuedAt {
		if opts.IssuedAt.IsZero() {
			issuedAt = time.Now().Unix()
		} else {
			issuedAt = opts.IssuedAt.Unix()
		}
	}

	p := Payload{
		V:        Version,
		Alg:      Alg,
		Asset:    asset,
		Nonce:    nonce,
		IssuedAt: issuedAt,
		Data:     value,
	}

	preimage, err := p.Preimage()
	if err != nil {
		return Payload{}, nil, err
	}
	p.Sig = encodeSig(ed25519.Sign(privateKey, preimage))
	return p, preimage, nil
}
