package envelope

import (
	"bytes"
	"compress/gzip"
	"io"
)

// Gzip is the default compression backend.
type Gzip struct{}

var (
	_ Compressor   = Gzip{}
	_ Decompressor = Gzip{}
)

func (Gzip) Compress(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(content); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Gzip) Decompress(packed []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(packed))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
