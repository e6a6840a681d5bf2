package testkit

import (
	"context"
	"sync"

	"github.com/ipfs/go-cid"

	"github.com/sol-surfer-ai/agent-core/cidutil"
	"github.com/sol-surfer-ai/agent-core/storage"
)

// MemCAS is an in-memory CAS for tests.
type MemCAS struct {
	mu      sync.RWMutex
	objects map[cid.Cid][]byte
}

func NewMemCAS() *MemCAS {
	return &MemCAS{objects: map[cid.Cid][]byte{}}
}

func (m *MemCAS) Put(ctx context.Context, bytes []byte) (cid.Cid, error) {
	if err := ctx.Err(); err != nil {
		return cid.Undef, err
	}
	id, err := cidutil.CIDv1RawSHA256CID(bytes)
	if err != nil {
		return cid.Undef, err
	}
	cp := append([]byte(nil), bytes...)
	m.mu.Lock()
	m.objects[id] = cp
	m.mu.Unlock()
	return id, nil
}

func (m *MemCAS) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	m.mu.RLock()
	b, ok := m.objects[id]
	m.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *MemCAS) Has(ctx context.Context, id cid.Cid) bool {
	if ctx.Err() != nil {
		return false
	}
	if !id.Defined() {
		return false
	}
	m.mu.RLock()
	_, ok := m.objects[id]
	m.mu.RUnlock()
	return ok
}

// Len reports the number of stored objects.
func (m *MemCAS) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
