package payload

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/mr-tron/base58"

	"github.com/sol-surfer-ai/agent-core/keys"
)

func testKey(t *testing.T, fill byte) (ed25519.PrivateKey, ed25519.PublicKey) {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = fill
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return priv, priv.Public().(ed25519.PublicKey)
}

func TestSign_PreimageIsExactCanonicalForm(t *testing.T) {
	priv, pub := testKey(t, 0x5A)
	asset, err := keys.AssetKeyFromPublicKey(pub)
	if err != nil {
		t.Fatalf("AssetKeyFromPublicKey: %v", err)
	}

	data := map[string]any{"value": 42, "label": "demo"}
	p, preimage, err := Sign(priv, data, SignOptions{
		Nonce:    "N1",
		IssuedAt: time.Unix(1700000000, 0),
	})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	want := `{"alg":"ed25519","asset":"` + asset + `","data":{"label":"demo","value":42},"issuedAt":1700000000,"nonce":"N1","v":1}`
	if string(preimage) != want {
		t.Fatalf("preimage mismatch:\n got %s\nwant %s", preimage, want)
	}

	if !Verify(p, pub) {
		t.Fatalf("expected payload to verify under signer key")
	}
	_, other := testKey(t, 0x11)
	if Verify(p, other) {
		t.Fatalf("payload verified under wrong key")
	}
}

func TestSign_VerifyRoundTrip(t *testing.T) {
	priv, pub := testKey(t, 0x01)
	p, _, err := Sign(priv, map[string]any{"kind": "registration", "n": 7}, SignOptions{})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if p.Nonce == "" {
		t.Fatalf("expected generated nonce")
	}
	if p.IssuedAt == 0 {
		t.Fatalf("expected issuedAt to default to now")
	}
	if !Verify(p, pub) {
		t.Fatalf("sign/verify round trip failed")
	}
}

func TestSign_GeneratedNoncesDiffer(t *testing.T) {
	priv, _ := testKey(t, 0x02)
	a, _, err := Sign(priv, "x", SignOptions{})
	if err != nil {
		t.Fatalf("Sign(a): %v", err)
	}
	b, _, err := Sign(priv, "x", SignOptions{})
	if err != nil {
		t.Fatalf("Sign(b): %v", err)
	}
	if a.Nonce == b.Nonce {
		t.Fatalf("nonces must not repeat: %s", a.Nonce)
	}
}

func TestSign_OmitIssuedAt(t *testing.T) {
	priv, pub := testKey(t, 0x03)
	p, preimage, err := Sign(priv, true, SignOptions{Nonce: "N", OmitIssuedAt: true})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if p.IssuedAt != 0 {
		t.Fatalf("expected issuedAt absent, got %d", p.IssuedAt)
	}
	for i := 0; i+8 <= len(preimage); i++ {
		if string(preimage[i:i+8]) == "issuedAt" {
			t.Fatalf("issuedAt leaked into preimage: %s", preimage)
		}
	}
	if !Verify(p, pub) {
		t.Fatalf("payload without issuedAt failed to verify")
	}
}

func TestVerify_FlippedSigByteFails(t *testing.T) {
	priv, pub := testKey(t, 0x04)
	p, _, err := Sign(priv, map[string]any{"a": 1}, SignOptions{Nonce: "N1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	sig, err := base58.Decode(p.Sig)
	if err != nil {
		t.Fatalf("decode sig: %v", err)
	}
	for i := range sig {
		mutated := append([]byte(nil), sig...)
		mutated[i] ^= 0x01
		bad := p
		bad.Sig = base58.Encode(mutated)
		if Verify(bad, pub) {
			t.Fatalf("payload with flipped sig byte %d verified", i)
		}
	}
}

func TestVerify_TamperedDataFails(t *testing.T) {
	priv, pub := testKey(t, 0x05)
	p, _, err := Sign(priv, map[string]any{"value": 42}, SignOptions{})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	tampered := p
	tampered.Nonce = p.Nonce + "x"
	if Verify(tampered, pub) {
		t.Fatalf("payload with tampered nonce verified")
	}
}

func TestVerify_NeverPanicsOnGarbage(t *testing.T) {
	_, pub := testKey(t, 0x06)
	cases := []Payload{
		{},
		{V: Version, Alg: Alg},
		{V: Version, Alg: Alg, Asset: "a", Nonce: "n", Sig: "!!not-base58!!"},
		{V: 2, Alg: Alg, Asset: "a", Nonce: "n", Sig: "zz"},
		{V: Version, Alg: "rsa", Asset: "a", Nonce: "n", Sig: "zz"},
	}
	for i, c := range cases {
		if Verify(c, pub) {
			t.Fatalf("case %d: garbage payload verified", i)
		}
	}
	if Verify(Payload{}, nil) {
		t.Fatalf("nil key verified")
	}
}
