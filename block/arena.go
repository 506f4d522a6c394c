package block

// StringRef is an (offset, length) pair into a StringArena. It is the
// on-column representation of one variable-length value.
type StringRef struct {
	Offset uint32
	Length uint32
}

// StringArena is the concatenated-bytes-plus-offset-table backing store for
// every variable-length (string/binary) column in one Block. Keeping one
// arena per block, rather than a vector of owned strings per value, avoids
// per-value heap allocation the way the teacher's slab layer avoids it for
// disk-resident columns.
type StringArena struct {
	data []byte
}

func NewStringArena(capacityHint int) *StringArena {
	return &StringArena{data: make([]byte, 0, capacityHint)}
}

// Append copies s into the arena and returns a reference to it.
func (a *StringArena) Append(s []byte) StringRef {
	off := len(a.data)
	a.data = append(a.data, s...)
	return StringRef{Offset: uint32(off), Length: uint32(len(s))}
}

// Bytes returns the slice of the arena a StringRef denotes. The returned
// slice aliases the arena; callers must not retain it past the arena's
// lifetime.
func (a *StringArena) Bytes(ref StringRef) []byte {
	return a.data[ref.Offset : ref.Offset+ref.Length]
}

// Reset truncates the arena to empty without releasing its backing array,
// so it can be reused across BoundExpressionTree.Evaluate calls.
func (a *StringArena) Reset() {
	a.data = a.data[:0]
}

func (a *StringArena) Len() int { return len(a.data) }
