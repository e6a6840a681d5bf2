package envelope

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
)

func TestUnwrap_RawPrefix(t *testing.T) {
	stored := append([]byte{PrefixRaw}, []byte("hello")...)
	out, err := Unwrap(stored, nil)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if string(out) != "hello" {
		t.Fatalf("got %q want %q", out, "hello")
	}
}

func TestUnwrap_CompressedWithoutBackend(t *testing.T) {
	stored := append([]byte{PrefixCompressed}, []byte("packed")...)
	_, err := Unwrap(stored, nil)
	if !errors.Is(err, ErrNoBackend) {
		t.Fatalf("expected ErrNoBackend, got %v", err)
	}
}

func TestUnwrap_LegacyPassThrough(t *testing.T) {
	legacy := []byte("hello")
	out, err := Unwrap(legacy, nil)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if !bytes.Equal(out, legacy) {
		t.Fatalf("legacy content must pass through unchanged")
	}
}

func TestUnwrap_EmptyInput(t *testing.T) {
	out, err := Unwrap(nil, nil)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty output")
	}
}

func TestWrap_GzipRoundTrip(t *testing.T) {
	content := bytes.Repeat([]byte("registration document "), 64)
	stored, err := Wrap(content, Gzip{})
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if stored[0] != PrefixCompressed {
		t.Fatalf("expected compressed prefix, got 0x%02x", stored[0])
	}
	if len(stored) >= len(content) {
		t.Fatalf("expected compression to shrink repetitive content")
	}

	out, err := Unwrap(stored, Gzip{})
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if !bytes.Equal(out, content) {
		t.Fatalf("round trip mismatch")
	}
}

func TestWrapRaw_RoundTrip(t *testing.T) {
	content := []byte{0x01, 0x02} // content that looks like a prefix must survive
	out, err := Unwrap(WrapRaw(content), nil)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if !bytes.Equal(out, content) {
		t.Fatalf("raw round trip mismatch")
	}
}

func TestUnwrapString_EnvelopeInBase64(t *testing.T) {
	stored := WrapRaw([]byte("hello"))
	out, err := UnwrapString(base64.StdEncoding.EncodeToString(stored), nil)
	if err != nil {
		t.Fatalf("UnwrapString: %v", err)
	}
	if string(out) != "hello" {
		t.Fatalf("got %q want %q", out, "hello")
	}
}

func TestUnwrapString_PlaintextThatIsValidBase64(t *testing.T) {
	// "abcd" decodes cleanly as base64 but not to a known prefix byte;
	// it must pass through as the text it is.
	out, err := UnwrapString("abcd", nil)
	if err != nil {
		t.Fatalf("UnwrapString: %v", err)
	}
	if string(out) != "abcd" {
		t.Fatalf("got %q want %q", out, "abcd")
	}
}

func TestUnwrapString_NotBase64(t *testing.T) {
	out, err := UnwrapString("{not base64!}", nil)
	if err != nil {
		t.Fatalf("UnwrapString: %v", err)
	}
	if string(out) != "{not base64!}" {
		t.Fatalf("got %q", out)
	}
}

func TestLazy_CachesFailedResolution(t *testing.T) {
	calls := 0
	l := &Lazy{New: func() (Decompressor, error) {
		calls++
		return nil, errors.New("backend missing")
	}}
	stored := append([]byte{PrefixCompressed}, 0xff)
	for i := 0; i < 3; i++ {
		if _, err := Unwrap(stored, l); !errors.Is(err, ErrNoBackend) {
			t.Fatalf("expected ErrNoBackend, got %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("resolution attempted %d times, want 1", calls)
	}
}

func TestLazy_DelegatesWhenResolved(t *testing.T) {
	l := &Lazy{New: func() (Decompressor, error) { return Gzip{}, nil }}
	stored, err := Wrap([]byte("content"), Gzip{})
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	out, err := Unwrap(stored, l)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if string(out) != "content" {
		t.Fatalf("got %q", out)
	}
}
