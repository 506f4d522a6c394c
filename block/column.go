// Package block implements the columnar data representation: Column,
// the owning Block, and the non-owning, row-range-windowed View.
package block

import (
	"fmt"

	"github.com/dot5enko/supersonic/tschema"
	"github.com/dot5enko/supersonic/types"
)

// FixedWidthScalar is the set of Go types a fixed-width column's values may
// be stored as. Date is stored as int32 (day count), Datetime as int64
// (microseconds); DataType-typed columns as int32 tags.
type FixedWidthScalar interface {
	~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64 | ~bool
}

// TypedVector is the fixed-width backing store for one column: a flat,
// contiguous slice of T, generic the same way the teacher's
// RuntimeBlockData[T] is generic over one slab's element type.
type TypedVector[T FixedWidthScalar] struct {
	Values []T
}

// VariableVector is the backing store for a string/binary column: one
// StringRef per row, pointing into the owning Block's shared arena.
type VariableVector struct {
	Refs  []StringRef
	Arena *StringArena
}

// Column is one attribute's storage over a row range: a typed values
// buffer (Data) and an optional null bitmap. A NOT_NULLABLE attribute never
// carries a bitmap; readers must assume all-non-null in that case.
type Column struct {
	Attr  tschema.Attribute
	Data  any // *TypedVector[T] for fixed-width T, or *VariableVector
	Nulls *Bitmap
}

// IsNull reports whether the logical row at absolute index i is null. It is
// always false for a NOT_NULLABLE column.
func (c *Column) IsNull(i int) bool {
	if c.Nulls == nil {
		return false
	}
	return c.Nulls.Get(i)
}

// Values returns the typed value slice of a fixed-width column. It panics
// if T does not match the column's actual storage type — a programming
// error, the same way an out-of-range schema lookup is.
func Values[T FixedWidthScalar](c *Column) []T {
	v, ok := c.Data.(*TypedVector[T])
	if !ok {
		panic(fmt.Sprintf("block: column %q is not stored as %T (type=%s)", c.Attr.Name, *new(T), c.Attr.Type))
	}
	return v.Values
}

// StringRefs returns the (offset,length) pairs of a variable-length column.
func StringRefs(c *Column) []StringRef {
	v, ok := c.Data.(*VariableVector)
	if !ok {
		panic(fmt.Sprintf("block: column %q is not variable-length (type=%s)", c.Attr.Name, c.Attr.Type))
	}
	return v.Refs
}

// Arena returns the string arena backing a variable-length column.
func Arena(c *Column) *StringArena {
	return c.Data.(*VariableVector).Arena
}

// StringAt returns the string value of row i of a variable-length column.
func StringAt(c *Column, i int) []byte {
	v := c.Data.(*VariableVector)
	return v.Arena.Bytes(v.Refs[i])
}

func newColumnData(t types.DataType, rowCapacity int, arena *StringArena) any {
	if t.IsVariableLength() {
		return &VariableVector{Refs: make([]StringRef, rowCapacity), Arena: arena}
	}
	switch t {
	case types.Int32Type, types.DateType:
		return &TypedVector[int32]{Values: make([]int32, rowCapacity)}
	case types.Int64Type, types.DatetimeType:
		return &TypedVector[int64]{Values: make([]int64, rowCapacity)}
	case types.Uint32Type:
		return &TypedVector[uint32]{Values: make([]uint32, rowCapacity)}
	case types.Uint64Type:
		return &TypedVector[uint64]{Values: make([]uint64, rowCapacity)}
	case types.FloatType:
		return &TypedVector[float32]{Values: make([]float32, rowCapacity)}
	case types.DoubleType:
		return &TypedVector[float64]{Values: make([]float64, rowCapacity)}
	case types.BoolType:
		return &TypedVector[bool]{Values: make([]bool, rowCapacity)}
	case types.EnumType, types.DataTypeType:
		return &TypedVector[int32]{Values: make([]int32, rowCapacity)}
	default:
		panic(fmt.Sprintf("block: unsupported column type %s", t))
	}
}
