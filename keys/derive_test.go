package keys

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
)

func TestDeriveRoleSeedDeterministic(t *testing.T) {
	root := make([]byte, ed25519.SeedSize)
	for i := range root {
		root[i] = byte(i)
	}

	a, err := DeriveRoleSeed(root, "operator")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	b, err := DeriveRoleSeed(root, "operator")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("expected deterministic derivation")
	}

	c, err := DeriveRoleSeed(root, "publisher")
	if err != nil {
		t.Fatalf("DeriveRoleSeed: %v", err)
	}
	if string(a) == string(c) {
		t.Fatalf("expected different roles to derive different seeds")
	}
}

func TestAssetKeyRoundTrip(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = 0x42
	}
	asset := AssetKeyFromSeed(seed)

	pub, err := ParseAssetKey(asset)
	if err != nil {
		t.Fatalf("ParseAssetKey: %v", err)
	}
	want := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	if string(pub) != string(want) {
		t.Fatalf("round-tripped key mismatch")
	}
}

func TestParseAssetKeyRejectsBadInput(t *testing.T) {
	if _, err := ParseAssetKey(""); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if _, err := ParseAssetKey("not!base58"); err == nil {
		t.Fatalf("expected error for invalid base58")
	}
	// Valid base58 but wrong length.
	short := base58.Encode([]byte{1, 2, 3})
	if _, err := ParseAssetKey(short); err == nil {
		t.Fatalf("expected error for short key")
	}
}
