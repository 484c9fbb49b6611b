package natives

import (
	"sync"
	"sync/atomic"

	"github.com/vesper-lang/vesper/internal/values"
)

// handleEntry is the owner-controlled payload behind one minted Handle.
type handleEntry struct {
	kind    values.HandleKind
	payload any
}

// HandleRegistry is the process-wide resource registry: a table mapping
// monotonically-increasing identifiers to (kind, payload), guaranteeing
// O(1) mint/lookup/release. This implementation uses a conservative release
// policy: handles are released at program exit by default,
// with Release available for a native module that wants eager cleanup.
type HandleRegistry struct {
	mu      sync.RWMutex
	next    uint64
	entries map[uint64]handleEntry
}

// NewHandleRegistry creates an empty registry.
func NewHandleRegistry() *HandleRegistry {
	return &HandleRegistry{entries: make(map[uint64]handleEntry)}
}

// Mint allocates a new Handle of the given kind, owned by the caller.
func (r *HandleRegistry) Mint(kind values.HandleKind, payload any) values.Handle {
	id := atomic.AddUint64(&r.next, 1)
	r.mu.Lock()
	r.entries[id] = handleEntry{kind: kind, payload: payload}
	r.mu.Unlock()
	return values.Handle{Kind: kind, ID: id}
}

// Payload returns the payload behind h, failing if h was minted by a
// different kind than claimed (handles are opaque outside their own
// resource kind) or was already released.
func (r *HandleRegistry) Payload(h values.Handle) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[h.ID]
	if !ok || e.kind != h.Kind {
		return nil, false
	}
	return e.payload, true
}

// Release explicitly frees h. Safe to call from the owning module when a
// block exits and the handle-bound name has no further live reference.
func (r *HandleRegistry) Release(h values.Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[h.ID]; !ok || e.kind != h.Kind {
		return false
	}
	delete(r.entries, h.ID)
	return true
}

// ReleaseAll frees every outstanding handle; called at program exit under
// the conservative release policy.
func (r *HandleRegistry) ReleaseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[uint64]handleEntry)
}
