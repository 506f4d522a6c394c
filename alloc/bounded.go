package alloc

import "sync"

// Bounded wraps a parent Allocator and fails allocations once the running
// total of outstanding bytes would exceed a fixed ceiling. It is the
// mechanism by which a host enforces memory ceilings on evaluation arenas
// (spec §4.3).
type Bounded struct {
	parent Allocator
	limit  int64

	mu   sync.Mutex
	used int64
}

func NewBounded(parent Allocator, limitBytes int64) *Bounded {
	if parent == nil {
		parent = Heap{}
	}
	return &Bounded{parent: parent, limit: limitBytes}
}

func (b *Bounded) Allocate(n int) ([]byte, int, error) {
	b.mu.Lock()
	if b.used+int64(n) > b.limit {
		b.mu.Unlock()
		return nil, 0, ErrMemoryExceeded
	}
	b.used += int64(n)
	b.mu.Unlock()

	buf, got, err := b.parent.Allocate(n)
	if err != nil {
		b.mu.Lock()
		b.used -= int64(n)
		b.mu.Unlock()
		return nil, 0, err
	}
	return buf, got, nil
}

func (b *Bounded) Reallocate(buf []byte, n int) ([]byte, int, error) {
	delta := int64(n - cap(buf))
	b.mu.Lock()
	if delta > 0 && b.used+delta > b.limit {
		b.mu.Unlock()
		return nil, 0, ErrMemoryExceeded
	}
	b.used += delta
	b.mu.Unlock()

	grown, got, err := b.parent.Reallocate(buf, n)
	if err != nil {
		b.mu.Lock()
		b.used -= delta
		b.mu.Unlock()
		return nil, 0, err
	}
	return grown, got, nil
}

func (b *Bounded) Free(buf []byte) {
	b.mu.Lock()
	b.used -= int64(cap(buf))
	if b.used < 0 {
		b.used = 0
	}
	b.mu.Unlock()
	b.parent.Free(buf)
}

// Used returns the current outstanding byte count, for diagnostics.
func (b *Bounded) Used() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}
