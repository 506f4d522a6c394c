package expr

import (
	"testing"

	"github.com/dot5enko/supersonic/alloc"
	"github.com/dot5enko/supersonic/block"
	"github.com/dot5enko/supersonic/failure"
	"github.com/dot5enko/supersonic/tschema"
	"github.com/dot5enko/supersonic/types"
)

func fixtureSchema() *tschema.TupleSchema {
	return tschema.FromAttributes(
		tschema.Attribute{Name: "col0", Type: types.StringType, Nullability: types.Nullable},
		tschema.Attribute{Name: "col1", Type: types.Int32Type, Nullability: types.Nullable},
		tschema.Attribute{Name: "col2", Type: types.DoubleType, Nullability: types.Nullable},
		tschema.Attribute{Name: "col3", Type: types.Int32Type},
	)
}

func fixtureView(t *testing.T) *block.View {
	t.Helper()
	b, err := block.NewBlock(alloc.Heap{}, fixtureSchema(), 8)
	if err != nil {
		t.Fatalf("NewBlock: %v", err)
	}
	rows := [][]any{
		{"1", int32(12), 5.1, int32(22)},
		{"2", int32(13), 6.2, int32(23)},
		{"3", int32(14), 7.3, int32(23)},
		{"4", nil, 8.4, int32(24)},
		{nil, int32(16), nil, int32(26)},
	}
	for _, row := range rows {
		if err := b.AppendRow(row); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}
	return b.View()
}

func mustBindTree(t *testing.T, e Expression, source *tschema.TupleSchema, maxRowCount int) *BoundExpressionTree {
	t.Helper()
	bound := e.Bind(source)
	if bound.Failed() {
		t.Fatalf("Bind failed: %v", bound.Exception())
	}
	root := bound.Release()
	tree := NewBoundExpressionTree(root, alloc.Heap{}, maxRowCount)
	if tree.Failed() {
		t.Fatalf("NewBoundExpressionTree failed: %v", tree.Exception())
	}
	return tree.Release()
}

// S1: AttributeAt(2) evaluates to a single-column view equal to col2.
func TestAttributeAtEvaluatesCol2(t *testing.T) {
	v := fixtureView(t)
	tree := mustBindTree(t, AttributeAt(2), v.Schema, 8)

	result := tree.Evaluate(v)
	if result.Failed() {
		t.Fatalf("Evaluate failed: %v", result.Exception())
	}
	out := result.Value()
	if out.Schema.AttributeCount() != 1 {
		t.Fatalf("expected 1 column, got %d", out.Schema.AttributeCount())
	}

	want := block.Window[float64](v, 2)
	got := block.Window[float64](out, 0)
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("row %d: expected %v but got %v", i, want[i], got[i])
		}
	}
}

// S2: NamedAttribute("col3") evaluates to a single-column view equal to col3.
func TestNamedAttributeEvaluatesCol3(t *testing.T) {
	v := fixtureView(t)
	tree := mustBindTree(t, NamedAttribute("col3"), v.Schema, 8)

	bound := NamedAttribute("col3").Bind(v.Schema)
	names := bound.Release().ReferredAttributeNames()
	if _, ok := names["col3"]; !ok || len(names) != 1 {
		t.Errorf("expected referred_attribute_names = {col3}, got %v", names)
	}

	result := tree.Evaluate(v)
	if result.Failed() {
		t.Fatalf("Evaluate failed: %v", result.Exception())
	}
	out := result.Value()
	want := block.Window[int32](v, 3)
	got := block.Window[int32](out, 0)
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("row %d: expected %v but got %v", i, want[i], got[i])
		}
	}
}

// S3: Alias("Brand New Name", NamedAttribute("col3")).
func TestAliasRenamesSingleColumn(t *testing.T) {
	v := fixtureView(t)
	e := Alias("Brand New Name", NamedAttribute("col3"))
	tree := mustBindTree(t, e, v.Schema, 8)

	if tree.ResultSchema().Attribute(0).Name != "Brand New Name" {
		t.Fatalf("expected result column named 'Brand New Name', got %q", tree.ResultSchema().Attribute(0).Name)
	}

	boundResult := e.Bind(v.Schema)
	bound := boundResult.Release()
	names := bound.ReferredAttributeNames()
	if _, ok := names["col3"]; !ok || len(names) != 1 {
		t.Errorf("expected referred_attribute_names = {col3}, got %v", names)
	}

	result := tree.Evaluate(v)
	if result.Failed() {
		t.Fatalf("Evaluate failed: %v", result.Exception())
	}
	out := result.Value()
	want := block.Window[int32](v, 3)
	got := block.Window[int32](out, 0)
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("row %d: expected %v but got %v", i, want[i], got[i])
		}
	}
}

// S4: projection with duplication over [col0,col1,col2,col3] children,
// adding (3,0),(0,0),(1,0),(3,0),(1,0). Result names must be unique, so the
// repeated entries carry aliases.
func TestProjectionWithDuplication(t *testing.T) {
	v := fixtureView(t)
	children := []Expression{
		NamedAttribute("col0"),
		NamedAttribute("col1"),
		NamedAttribute("col2"),
		NamedAttribute("col3"),
	}
	entries := []ProjectionEntry{
		{ChildIndex: 3, Position: 0},
		{ChildIndex: 0, Position: 0},
		{ChildIndex: 1, Position: 0},
		{ChildIndex: 3, Position: 0, Alias: "col3_again"},
		{ChildIndex: 1, Position: 0, Alias: "col1_again"},
	}
	e := Projection(entries, children...)
	tree := mustBindTree(t, e, v.Schema, 8)

	if got := tree.ResultSchema().AttributeCount(); got != 5 {
		t.Fatalf("expected 5 result columns, got %d", got)
	}

	boundResult := e.Bind(v.Schema)
	bound := boundResult.Release()
	names := bound.ReferredAttributeNames()
	for _, want := range []string{"col0", "col1", "col2", "col3"} {
		if _, ok := names[want]; !ok {
			t.Errorf("expected %q in referred_attribute_names, got %v", want, names)
		}
	}
	if len(names) != 4 {
		t.Errorf("expected exactly 4 referred names, got %v", names)
	}

	result := tree.Evaluate(v)
	if result.Failed() {
		t.Fatalf("Evaluate failed: %v", result.Exception())
	}
	out := result.Value()

	// Row 2 expected: (23, "3", 14, 23, 14).
	if got := block.Window[int32](out, 0)[2]; got != 23 {
		t.Errorf("position 0 row 2: expected 23, got %d", got)
	}
	if got := string(block.ViewStringAt(out, 1, 2)); got != "3" {
		t.Errorf("position 1 row 2: expected \"3\", got %q", got)
	}
	if got := block.Window[int32](out, 2)[2]; got != 14 {
		t.Errorf("position 2 row 2: expected 14, got %d", got)
	}
	if got := block.Window[int32](out, 3)[2]; got != 23 {
		t.Errorf("position 3 row 2: expected 23, got %d", got)
	}
	if got := block.Window[int32](out, 4)[2]; got != 14 {
		t.Errorf("position 4 row 2: expected 14, got %d", got)
	}
}

// S5: partial-source projection. Two compound children, one over
// [col0,col1], the other over [col2,col3]; projector adds (0,1) then (1,0).
func TestPartialSourceProjection(t *testing.T) {
	v := fixtureView(t)
	children := []Expression{
		Compound(NamedAttribute("col0"), NamedAttribute("col1")),
		Compound(NamedAttribute("col2"), NamedAttribute("col3")),
	}
	entries := []ProjectionEntry{
		{ChildIndex: 0, Position: 1},
		{ChildIndex: 1, Position: 0},
	}
	e := Projection(entries, children...)
	tree := mustBindTree(t, e, v.Schema, 8)

	if got := tree.ResultSchema().AttributeCount(); got != 2 {
		t.Fatalf("expected 2 result columns, got %d", got)
	}
	if tree.ResultSchema().Attribute(0).Name != "col1" || tree.ResultSchema().Attribute(1).Name != "col2" {
		t.Errorf("expected [col1, col2], got [%s, %s]",
			tree.ResultSchema().Attribute(0).Name, tree.ResultSchema().Attribute(1).Name)
	}

	boundResult := e.Bind(v.Schema)
	bound := boundResult.Release()
	names := bound.ReferredAttributeNames()
	for _, want := range []string{"col0", "col1", "col2", "col3"} {
		if _, ok := names[want]; !ok {
			t.Errorf("expected %q in referred_attribute_names (compound drags all inputs), got %v", want, names)
		}
	}
}

// S6: compound with duplicate result name fails with ATTRIBUTE_EXISTS.
func TestCompoundDuplicateNameFails(t *testing.T) {
	v := fixtureView(t)
	e := Compound(NamedAttribute("col1"), NamedAttribute("col1"))
	bound := e.Bind(v.Schema)
	if !bound.Failed() || bound.Exception().Code != failure.AttributeExists {
		t.Errorf("expected ATTRIBUTE_EXISTS, got %v", bound.Exception())
	}
}

// Testable property 5: evaluation width preservation.
func TestEvaluationWidthPreservation(t *testing.T) {
	v := fixtureView(t)
	tree := mustBindTree(t, Compound(NamedAttribute("col0"), NamedAttribute("col3")), v.Schema, 8)

	for n := 0; n <= v.RowCount; n++ {
		sub := v.Subrange(0, n)
		result := tree.Evaluate(sub)
		if result.Failed() {
			t.Fatalf("Evaluate(n=%d) failed: %v", n, result.Exception())
		}
		if got := result.Value().RowCount; got != n {
			t.Errorf("n=%d: expected row_count %d but got %d", n, n, got)
		}
	}
}

// Testable property 11: Evaluate with row_count == 0 succeeds and returns a
// width-zero view matching the result schema.
func TestEvaluateZeroRows(t *testing.T) {
	v := fixtureView(t)
	tree := mustBindTree(t, NamedAttribute("col2"), v.Schema, 8)

	empty := v.Subrange(0, 0)
	result := tree.Evaluate(empty)
	if result.Failed() {
		t.Fatalf("Evaluate failed: %v", result.Exception())
	}
	out := result.Value()
	if out.RowCount != 0 {
		t.Errorf("expected 0 rows, got %d", out.RowCount)
	}
	if !out.Schema.Equal(tree.ResultSchema()) {
		t.Errorf("expected result schema %s, got %s", tree.ResultSchema(), out.Schema)
	}
}

// Evaluate called with too large a row count is a contract violation.
func TestEvaluatePanicsOverMaxRowCount(t *testing.T) {
	v := fixtureView(t)
	tree := mustBindTree(t, NamedAttribute("col2"), v.Schema, 2)

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic when row_count exceeds max_row_count")
		}
	}()
	tree.Evaluate(v)
}
