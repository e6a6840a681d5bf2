package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sol-surfer-ai/agent-core/storage"
	"github.com/sol-surfer-ai/agent-core/storage/testkit"
)

func TestMultiCAS_OrderedFallback(t *testing.T) {
	ctx := context.Background()
	primary := testkit.NewMemCAS()
	secondary := testkit.NewMemCAS()
	multi := storage.MultiCAS{Adapters: []storage.CAS{primary, secondary}}

	// Object present only in the second adapter.
	id, err := secondary.Put(ctx, []byte("only in secondary"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := multi.Get(ctx, id); err != nil {
		t.Fatalf("Get via fallback: %v", err)
	}
	if !multi.Has(ctx, id) {
		t.Fatalf("Has via fallback: expected true")
	}

	// Writes go only to the first adapter.
	wid, err := multi.Put(ctx, []byte("written through multi"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !primary.Has(ctx, wid) {
		t.Fatalf("primary missing written object")
	}
	if secondary.Has(ctx, wid) {
		t.Fatalf("secondary should not receive writes")
	}
}

func TestMultiCAS_Empty(t *testing.T) {
	multi := storage.MultiCAS{}
	if _, err := multi.Put(context.Background(), []byte("x")); err == nil {
		t.Fatalf("Put on empty MultiCAS should fail")
	}
}

func TestReplicatingCAS_PutAll(t *testing.T) {
	ctx := context.Background()
	a := testkit.NewMemCAS()
	b := testkit.NewMemCAS()
	repl := storage.ReplicatingCAS{Backends: []storage.NamedCAS{
		{Name: "a", CAS: a},
		{Name: "b", CAS: b},
	}}

	id, perBackend, err := repl.PutAll(ctx, []byte("replicated"))
	if err != nil {
		t.Fatalf("PutAll: %v", err)
	}
	if len(perBackend) != 2 {
		t.Fatalf("unexpected backend map: %+v", perBackend)
	}
	for name, got := range perBackend {
		if got != id {
			t.Fatalf("backend %q returned divergent CID", name)
		}
	}
	if !a.Has(ctx, id) || !b.Has(ctx, id) {
		t.Fatalf("both backends should hold the object")
	}

	got, err := repl.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "replicated" {
		t.Fatalf("bytes mismatch")
	}
}

func TestReplicatingCAS_NotFound(t *testing.T) {
	ctx := context.Background()
	repl := storage.ReplicatingCAS{Backends: []storage.NamedCAS{
		{Name: "a", CAS: testkit.NewMemCAS()},
	}}
	other := testkit.NewMemCAS()
	id, err := other.Put(ctx, []byte("elsewhere"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := repl.Get(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get: got err=%v want ErrNotFound", err)
	}
	if repl.Has(ctx, id) {
		t.Fatalf("Has: expected false")
	}
}
