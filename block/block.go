package block

import (
	"fmt"

	"github.com/dot5enko/supersonic/alloc"
	"github.com/dot5enko/supersonic/tschema"
	"github.com/dot5enko/supersonic/types"
)

// stringRefWidth is the accounting width used when asking the allocator for
// a variable-length column's nominal byte budget; the actual bytes live in
// the column's StringArena, sized separately.
const stringRefWidth = 8

// Block is the owning variant of the columnar storage: it owns the values
// buffers, null bitmaps, and string arena for every column, under a fixed
// row capacity.
type Block struct {
	Schema   *tschema.TupleSchema
	Columns  []*Column
	RowCount int
	Arena    *StringArena

	alloc    alloc.Allocator
	capacity int
}

// NewBlock allocates a Block for schema with room for capacity rows. The
// allocator is consulted once per column for a nominal accounting pass —
// values themselves live in ordinary Go slices so the core stays
// GC-managed, but a Bounded allocator still sees, and can reject, the
// byte cost of each column.
func NewBlock(a alloc.Allocator, schema *tschema.TupleSchema, capacity int) (*Block, error) {
	if a == nil {
		a = alloc.Heap{}
	}

	arena := NewStringArena(capacity * 16)
	columns := make([]*Column, schema.AttributeCount())

	for i := 0; i < schema.AttributeCount(); i++ {
		attr := schema.Attribute(i)

		width := stringRefWidth
		if w, ok := attr.Type.FixedWidth(); ok {
			width = w
		}
		if _, _, err := a.Allocate(width * capacity); err != nil {
			return nil, err
		}

		col := &Column{Attr: attr, Data: newColumnData(attr.Type, capacity, arena)}
		if attr.Nullability == types.Nullable {
			col.Nulls = NewBitmap(capacity)
		}
		columns[i] = col
	}

	return &Block{Schema: schema, Columns: columns, Arena: arena, alloc: a, capacity: capacity}, nil
}

// Capacity returns the fixed row capacity the block was allocated for.
func (b *Block) Capacity() int { return b.capacity }

// View returns a View over the block's full current row range.
func (b *Block) View() *View {
	offsets := make([]int, len(b.Columns))
	return &View{Schema: b.Schema, Columns: b.Columns, Offsets: offsets, RowCount: b.RowCount}
}

// Reset truncates the block back to zero rows and clears its arena, so it
// can be reused as an evaluation-output arena across calls.
func (b *Block) Reset() {
	b.RowCount = 0
	b.Arena.Reset()
	for _, col := range b.Columns {
		if col.Nulls != nil {
			col.Nulls = NewBitmap(b.capacity)
		}
	}
}

// CopyInto overwrites b's columns (starting at row 0) with v's values and
// null bits, up to v.RowCount rows, and sets b.RowCount accordingly. b must
// have capacity >= v.RowCount and a schema with the same attribute count,
// in position order, as v. This is how BoundExpressionTree materializes a
// root BoundExpression's zero-copy result into its own output arena.
func (b *Block) CopyInto(v *View) error {
	if v.RowCount > b.capacity {
		return fmt.Errorf("block: view has %d rows, exceeds output arena capacity %d", v.RowCount, b.capacity)
	}
	if len(v.Columns) != len(b.Columns) {
		return fmt.Errorf("block: view has %d columns, output arena has %d", len(v.Columns), len(b.Columns))
	}
	for i, dst := range b.Columns {
		copyColumn(dst, v.Columns[i], v.Offsets[i], v.RowCount)
	}
	b.RowCount = v.RowCount
	return nil
}

// copyColumn copies n values (and null bits, if any) from src starting at
// srcOffset into dst starting at row 0.
func copyColumn(dst, src *Column, srcOffset, n int) {
	if dst.Nulls != nil {
		for i := 0; i < n; i++ {
			dst.Nulls.SetTo(i, src.IsNull(srcOffset+i))
		}
	}
	switch d := dst.Data.(type) {
	case *TypedVector[int32]:
		copy(d.Values[:n], Values[int32](src)[srcOffset:srcOffset+n])
	case *TypedVector[int64]:
		copy(d.Values[:n], Values[int64](src)[srcOffset:srcOffset+n])
	case *TypedVector[uint32]:
		copy(d.Values[:n], Values[uint32](src)[srcOffset:srcOffset+n])
	case *TypedVector[uint64]:
		copy(d.Values[:n], Values[uint64](src)[srcOffset:srcOffset+n])
	case *TypedVector[float32]:
		copy(d.Values[:n], Values[float32](src)[srcOffset:srcOffset+n])
	case *TypedVector[float64]:
		copy(d.Values[:n], Values[float64](src)[srcOffset:srcOffset+n])
	case *TypedVector[bool]:
		copy(d.Values[:n], Values[bool](src)[srcOffset:srcOffset+n])
	case *VariableVector:
		for i := 0; i < n; i++ {
			d.Refs[i] = d.Arena.Append(StringAt(src, srcOffset+i))
		}
	default:
		panic(fmt.Sprintf("block: copyColumn: unsupported column data type %T", dst.Data))
	}
}

// AppendRow appends one row for testing. values must align 1:1 with the
// schema; a nil entry sets the null bit (the column must be nullable).
func (b *Block) AppendRow(values []any) error {
	if len(values) != len(b.Columns) {
		return fmt.Errorf("block: expected %d values but got %d", len(b.Columns), len(values))
	}
	if b.RowCount >= b.capacity {
		return fmt.Errorf("block: row capacity %d exceeded", b.capacity)
	}

	i := b.RowCount
	for ci, col := range b.Columns {
		v := values[ci]
		if v == nil {
			if col.Nulls == nil {
				return fmt.Errorf("block: column %q is NOT_NULLABLE, cannot append null", col.Attr.Name)
			}
			col.Nulls.Set(i)
			continue
		}

		switch d := col.Data.(type) {
		case *TypedVector[int32]:
			d.Values[i] = v.(int32)
		case *TypedVector[int64]:
			d.Values[i] = v.(int64)
		case *TypedVector[uint32]:
			d.Values[i] = v.(uint32)
		case *TypedVector[uint64]:
			d.Values[i] = v.(uint64)
		case *TypedVector[float32]:
			d.Values[i] = v.(float32)
		case *TypedVector[float64]:
			d.Values[i] = v.(float64)
		case *TypedVector[bool]:
			d.Values[i] = v.(bool)
		case *VariableVector:
			switch s := v.(type) {
			case string:
				d.Refs[i] = d.Arena.Append([]byte(s))
			case []byte:
				d.Refs[i] = d.Arena.Append(s)
			default:
				return fmt.Errorf("block: column %q expects string/[]byte, got %T", col.Attr.Name, v)
			}
		}
	}
	b.RowCount++
	return nil
}
