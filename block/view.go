package block

import (
	"fmt"

	"github.com/dot5enko/supersonic/tschema"
)

// View is a non-owning window over a row range of one or more Columns: a
// schema pointer, the columns themselves, and one absolute row offset per
// column. Per-column offsets (rather than a single shared one) let a View
// be assembled zero-copy out of columns that live in different owning
// Blocks — exactly what expression evaluation needs when routing a result
// out of several children without copying it first; every column still
// shares the same RowCount, per the tuple schema invariant. A View becomes
// invalid once any backing Block is destroyed or reallocated; nothing in
// this package enforces that lifetime — it is the caller's responsibility,
// the same "View outlives no longer than Block" rule the teacher leaves to
// its callers.
type View struct {
	Schema   *tschema.TupleSchema
	Columns  []*Column
	Offsets  []int
	RowCount int
}

// NewView assembles a View from columns that may come from unrelated
// owning Blocks. len(columns) must equal len(offsets) and
// schema.AttributeCount().
func NewView(schema *tschema.TupleSchema, columns []*Column, offsets []int, rowCount int) *View {
	return &View{Schema: schema, Columns: columns, Offsets: offsets, RowCount: rowCount}
}

// Subrange returns a View over [offset, offset+count) of v. It panics on an
// out-of-range request: like Evaluate called with too large a row count,
// this is a contract violation rather than a runtime error.
func (v *View) Subrange(offset, count int) *View {
	if offset < 0 || count < 0 || offset+count > v.RowCount {
		panic(fmt.Sprintf("block: subrange [%d,%d) out of range for view of %d rows", offset, offset+count, v.RowCount))
	}
	shifted := make([]int, len(v.Offsets))
	for i, o := range v.Offsets {
		shifted[i] = o + offset
	}
	return &View{Schema: v.Schema, Columns: v.Columns, Offsets: shifted, RowCount: count}
}

// IsNull reports whether row i (0-based within the view) is null in column
// colIdx.
func (v *View) IsNull(colIdx, i int) bool {
	return v.Columns[colIdx].IsNull(v.Offsets[colIdx] + i)
}

// Window returns the windowed, zero-copy value slice of column colIdx.
func Window[T FixedWidthScalar](v *View, colIdx int) []T {
	full := Values[T](v.Columns[colIdx])
	off := v.Offsets[colIdx]
	return full[off : off+v.RowCount]
}

// ViewStringAt returns the string/binary value of row i (0-based within the
// view) in column colIdx.
func ViewStringAt(v *View, colIdx, i int) []byte {
	return StringAt(v.Columns[colIdx], v.Offsets[colIdx]+i)
}
