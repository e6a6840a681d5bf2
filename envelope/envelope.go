// Package envelope normalizes stored content encodings. Stored bytes carry a
// single leading tag byte (0x00 raw, 0x01 compressed) and anything else is
// legacy content written before the envelope existed, returned unchanged.
package envelope

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
)

const (
	// PrefixRaw tags content stored verbatim after the prefix byte.
	PrefixRaw byte = 0x00
	// PrefixCompressed tags content compressed by the configured backend.
	PrefixCompressed byte = 0x01
)

// ErrNoBackend means compressed content was found but no decompression
// backend is configured. Compressed bytes are never handed to the caller as
// if they were content.
var ErrNoBackend = errors.New("envelope: no decompression backend configured")

// Compressor compresses content for storage.
type Compressor interface {
	Compress([]byte) ([]byte, error)
}

// Decompressor restores content compressed by a matching Compressor.
type Decompressor interface {
	Decompress([]byte) ([]byte, error)
}

// Wrap envelopes content for storage: 0x01 plus compressed bytes when c is
// non-nil, 0x00 plus the verbatim bytes otherwise.
func Wrap(content []byte, c Compressor) ([]byte, error) {
	if c == nil {
		return WrapRaw(content), nil
	}
	packed, err := c.Compress(content)
	if err != nil {
		return nil, fmt.Errorf("envelope: compress: %w", err)
	}
	out := make([]byte, 0, len(packed)+1)
	out = append(out, PrefixCompressed)
	return append(out, packed...), nil
}

// WrapRaw envelopes content without compression.
func WrapRaw(content []byte) []byte {
	out := make([]byte, 0, len(content)+1)
	out = append(out, PrefixRaw)
	return append(out, content...)
}

// Unwrap dispatches on the leading tag byte and returns the logical content.
// Unrecognized leading bytes (and empty input) are legacy uncompressed
// content, returned unchanged.
func Unwrap(stored []byte, d Decompressor) ([]byte, error) {
	if len(stored) == 0 {
		return stored, nil
	}
	switch stored[0] {
	case PrefixRaw:
		return stored[1:], nil
	case PrefixCompressed:
		if d == nil {
			return nil, ErrNoBackend
		}
		out, err := d.Decompress(stored[1:])
		if err != nil {
			return nil, fmt.Errorf("envelope: decompress: %w", err)
		}
		return out, nil
	default:
		return stored, nil
	}
}

// UnwrapString handles systems that transport the envelope as base64 text.
// The envelope interpretation is attempted only when the input decodes as
// base64 AND the decoded first byte is a known prefix; arbitrary plaintext
// that happens to be valid base64 passes through unchanged.
func UnwrapString(s string, d Decompressor) ([]byte, error) {
	decoded, err := decodeBase64(s)
	if err != nil || len(decoded) == 0 {
		return []byte(s), nil
	}
	if decoded[0] != PrefixRaw && decoded[0] != PrefixCompressed {
		return []byte(s), nil
	}
	return Unwrap(decoded, d)
}

func decodeBase64(s string) ([]byte, error) {
	// Prefer standard padded encoding, but accept raw encoding too.
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(s)
}

// Lazy defers backend construction to first use and caches the outcome, so a
// missing backend is probed once, not on every call.
type Lazy struct {
	// New constructs the backend. Required.
	New func() (Decompressor, error)

	once sync.Once
	d    Decompressor
	err  error
}

func (l *Lazy) Decompress(b []byte) ([]byte, error) {
	l.once.Do(func() {
		if l.New == nil {
			l.err = ErrNoBackend
			return
		}
		l.d, l.err = l.New()
		if l.err == nil && l.d == nil {
			l.err = ErrNoBackend
		}
	})
	if l.err != nil {
		if errors.Is(l.err, ErrNoBackend) {
			return nil, l.err
		}
		return nil, fmt.Errorf("%w: %v", ErrNoBackend, l.err)
	}
	return l.d.Decompress(b)
}
