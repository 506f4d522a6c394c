package proj

import (
	"testing"

	"github.com/dot5enko/supersonic/failure"
	"github.com/dot5enko/supersonic/tschema"
	"github.com/dot5enko/supersonic/types"
)

func fiveColumnSchema() *tschema.TupleSchema {
	return tschema.FromAttributes(
		tschema.Attribute{Name: "col0", Type: types.StringType},
		tschema.Attribute{Name: "col1", Type: types.Int32Type, Nullability: types.Nullable},
		tschema.Attribute{Name: "col2", Type: types.DoubleType, Nullability: types.Nullable},
		tschema.Attribute{Name: "col3", Type: types.Int32Type},
	)
}

func TestNamedAttributeMissing(t *testing.T) {
	bound := Named("missing").Bind(fiveColumnSchema())
	if !bound.Failed() {
		t.Fatal("expected failure")
	}
	if bound.Exception().Code != failure.AttributeMissing {
		t.Errorf("expected ATTRIBUTE_MISSING, got %v", bound.Exception().Code)
	}
}

func TestPositionedAttributeOutOfRange(t *testing.T) {
	schema := fiveColumnSchema()
	w := schema.AttributeCount()

	ok := AtPosition(w - 1).Bind(schema)
	if ok.Failed() {
		t.Fatalf("expected success binding last valid position, got %v", ok.Exception())
	}

	bad := AtPosition(w).Bind(schema)
	if !bad.Failed() || bad.Exception().Code != failure.AttributeCountMismatch {
		t.Errorf("expected ATTRIBUTE_COUNT_MISMATCH at position == width, got %v", bad.Exception())
	}
}

func TestAllAttributesIsIdentity(t *testing.T) {
	schema := fiveColumnSchema()
	bound := All().Bind(schema)
	if bound.Failed() {
		t.Fatalf("unexpected failure: %v", bound.Exception())
	}
	result := bound.Release()
	if !result.ResultSchema().Equal(schema) {
		t.Errorf("expected identity projection, got %s", result.ResultSchema())
	}
}

func TestCompoundDuplicateNameFails(t *testing.T) {
	schema := fiveColumnSchema()
	bound := Compound(Named("col1"), Named("col1")).Bind(schema)
	if !bound.Failed() || bound.Exception().Code != failure.AttributeExists {
		t.Errorf("expected ATTRIBUTE_EXISTS, got %v", bound.Exception())
	}
}

func TestRenameThenBindMatchesBindThenRename(t *testing.T) {
	schema := fiveColumnSchema()
	aliases := []string{"a", "b", "c", "d"}

	bound := Rename(aliases, All()).Bind(schema)
	if bound.Failed() {
		t.Fatalf("unexpected failure: %v", bound.Exception())
	}
	result := bound.Release()

	for i, alias := range aliases {
		if result.ResultSchema().Attribute(i).Name != alias {
			t.Errorf("position %d: expected name %q but got %q", i, alias, result.ResultSchema().Attribute(i).Name)
		}
	}
}

func TestRenameCountMismatch(t *testing.T) {
	schema := fiveColumnSchema()
	bound := Rename([]string{"only-one"}, All()).Bind(schema)
	if !bound.Failed() || bound.Exception().Code != failure.AttributeCountMismatch {
		t.Errorf("expected ATTRIBUTE_COUNT_MISMATCH, got %v", bound.Exception())
	}
}

func TestRenameDuplicateAliasesPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic on duplicate aliases")
		}
	}()
	Rename([]string{"x", "x"}, Named("col0"))
}

func TestBindingIsIdempotent(t *testing.T) {
	schema := fiveColumnSchema()
	p := Compound(Named("col3"), Named("col0"))

	first := p.Bind(schema)
	second := p.Bind(schema)

	r1 := first.Release()
	r2 := second.Release()

	if !r1.ResultSchema().Equal(r2.ResultSchema()) {
		t.Errorf("expected equal result schemas across repeated binds")
	}
	for i := 0; i < r1.ResultSchema().AttributeCount(); i++ {
		if r1.SourceAttributePosition(i) != r2.SourceAttributePosition(i) {
			t.Errorf("proj array differs at %d: %d vs %d", i, r1.SourceAttributePosition(i), r2.SourceAttributePosition(i))
		}
	}
}

// Testable property 1: bound single-source projector type/nullability
// invariant.
func TestBoundTypeAndNullabilityInvariant(t *testing.T) {
	schema := fiveColumnSchema()
	bound := All().Bind(schema)
	result := bound.Release()

	for i := 0; i < result.ResultSchema().AttributeCount(); i++ {
		srcAttr := schema.Attribute(result.SourceAttributePosition(i))
		resAttr := result.ResultSchema().Attribute(i)
		if !srcAttr.SameTypeAndNullability(resAttr) {
			t.Errorf("position %d: type/nullability mismatch: %v vs %v", i, srcAttr, resAttr)
		}
	}
}
