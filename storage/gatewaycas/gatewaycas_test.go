package gatewaycas

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sol-surfer-ai/agent-core/cidutil"
	"github.com/sol-surfer-ai/agent-core/fetch"
	"github.com/sol-surfer-ai/agent-core/storage"
)

func newGatewayCAS(t *testing.T, objects map[string][]byte) *CAS {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/ipfs/")
		b, ok := objects[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(b)
	}))
	t.Cleanup(srv.Close)
	return New(fetch.New([]string{srv.URL + "/ipfs/"}, fetch.Options{}))
}

func TestGatewayCAS_Get(t *testing.T) {
	ctx := context.Background()
	want := []byte("gateway object")
	id, err := cidutil.CIDv1RawSHA256CID(want)
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	cas := newGatewayCAS(t, map[string][]byte{id.String(): want})

	got, err := cas.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("bytes mismatch")
	}
	if !cas.Has(ctx, id) {
		t.Fatalf("Has: expected true")
	}
}

func TestGatewayCAS_NotFound(t *testing.T) {
	ctx := context.Background()
	cas := newGatewayCAS(t, nil)

	id, err := cidutil.CIDv1RawSHA256CID([]byte("missing"))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	if _, err := cas.Get(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
	}
}

func TestGatewayCAS_TamperedBytes(t *testing.T) {
	ctx := context.Background()
	id, err := cidutil.CIDv1RawSHA256CID([]byte("original"))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	cas := newGatewayCAS(t, map[string][]byte{id.String(): []byte("tampered")})

	if _, err := cas.Get(ctx, id); !errors.Is(err, storage.ErrCIDMismatch) {
		t.Fatalf("Get tampered: got err=%v want ErrCIDMismatch", err)
	}
}

func TestGatewayCAS_PutRejected(t *testing.T) {
	cas := newGatewayCAS(t, nil)
	if _, err := cas.Put(context.Background(), []byte("x")); !errors.Is(err, storage.ErrReadOnly) {
		t.Fatalf("Put: got err=%v want ErrReadOnly", err)
	}
}
