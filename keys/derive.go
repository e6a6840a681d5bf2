package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// AssetKeyFromSeed returns the base58 asset identity for an Ed25519 seed.
func AssetKeyFromSeed(seed []byte) string {
	priv := ed25519.NewKeyFromSeed(seed)
	return base58.Encode(priv.Public().(ed25519.PublicKey))
}

// AssetKeyFromPublicKey encodes an Ed25519 public key as a base58 asset identity.
func AssetKeyFromPublicKey(pub ed25519.PublicKey) (string, error) {
	if l := len(pub); l != ed25519.PublicKeySize {
		return "", fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, l)
	}
	return base58.Encode(pub), nil
}

// ParseAssetKey decodes a base58 asset identity back into its public key.
func ParseAssetKey(asset string) (ed25519.PublicKey, error) {
	if asset == "" {
		return nil, errors.New("empty asset key")
	}
	raw, err := base58.Decode(asset)
	if err != nil {
		return nil, fmt.Errorf("invalid asset key base58: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("asset key must decode to %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// DeriveRoleSeed deterministically derives a role-specific Ed25519 seed from a
// root seed. The derivation is domain-separated so role seeds cannot collide
// with seeds derived for any other purpose.
func DeriveRoleSeed(rootSeed []byte, role string) ([]byte, error) {
	if len(rootSeed) != ed25519.SeedSize {
		return nil, fmt.Errorf("root seed must be %d bytes", ed25519.SeedSize)
	}
	if err := CheckRole(role); err != nil {
		return nil, err
	}

	h := sha256.New()
	_, _ = h.Write(rootSeed)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("agent-core-kms-v1"))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte("role:"))
	_, _ = h.Write([]byte(role))
	sum := h.Sum(nil)
	if len(sum) < ed25519.SeedSize {
		return nil, errors.New("kdf output too short")
	}
	out := make([]byte, ed25519.SeedSize)
	copy(out, sum[:ed25519.SeedSize])
	return out, nil
}
