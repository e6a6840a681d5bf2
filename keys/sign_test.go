package keys

import (
	"crypto/ed25519"
	"encoding/base64"
	"io"
	"testing"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
)

type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func TestSignEd25519_Verifies(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	msg := []byte("registration body")
	sigB64, err := SignEd25519(msg, "sha256", priv)
	if err != nil {
		t.Fatalf("SignEd25519: %v", err)
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}

	digest, err := Digest("sha256", msg)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if !ed25519.Verify(pub, digest, sig) {
		t.Fatalf("signature did not verify")
	}
}

func TestSignEd25519_RejectsUnknownHash(t *testing.T) {
	priv := ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize))
	if _, err := SignEd25519([]byte("x"), "md5", priv); err == nil {
		t.Fatalf("expected error for unsupported hash")
	}
}

func TestSignDilithium3_Verifies(t *testing.T) {
	pk, sk, err := GenerateDilithium3Keypair(io.Reader(&deterministicReader{}))
	if err != nil {
		t.Fatalf("GenerateDilithium3Keypair: %v", err)
	}

	msg := []byte("registration body")
	sigB64, err := SignDilithium3(msg, "sha3-256", sk)
	if err != nil {
		t.Fatalf("SignDilithium3: %v", err)
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	if len(sig) != mode3.SignatureSize {
		t.Fatalf("unexpected signature size: got %d want %d", len(sig), mode3.SignatureSize)
	}

	digest, err := Digest("sha3-256", msg)
	if err != nil {
		t.Fatalf("Digest: %v", err)
	}
	if !mode3.Verify(pk, digest, sig) {
		t.Fatalf("dilithium3 signature did not verify")
	}
}

func TestSignDilithium3_MissingKey(t *testing.T) {
	if _, err := SignDilithium3([]byte("x"), "sha256", nil); err == nil {
		t.Fatalf("expected error for nil private key")
	}
}
