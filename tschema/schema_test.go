package tschema

import (
	"testing"

	"github.com/dot5enko/supersonic/types"
)

func TestAddAttributeRejectsDuplicate(t *testing.T) {
	s := New()

	if !s.AddAttribute(Attribute{Name: "col0", Type: types.StringType}) {
		t.Fatalf("expected first add to succeed")
	}

	if s.AddAttribute(Attribute{Name: "col0", Type: types.Int32Type}) {
		t.Errorf("expected duplicate name add to fail")
	}

	if s.AttributeCount() != 1 {
		t.Errorf("expected attribute count 1 but got %d", s.AttributeCount())
	}
}

func TestLookupAttributePosition(t *testing.T) {
	s := FromAttributes(
		Attribute{Name: "col0", Type: types.StringType},
		Attribute{Name: "col1", Type: types.Int32Type},
	)

	if pos := s.LookupAttributePosition("col1"); pos != 1 {
		t.Errorf("expected position 1 but got %d", pos)
	}

	if pos := s.LookupAttributePosition("missing"); pos != NotFound {
		t.Errorf("expected NotFound but got %d", pos)
	}
}

func TestSchemaEquality(t *testing.T) {
	a := FromAttributes(Attribute{Name: "col0", Type: types.Int32Type})
	b := FromAttributes(Attribute{Name: "col0", Type: types.Int32Type})
	c := FromAttributes(Attribute{Name: "col0", Type: types.Int64Type})

	if !a.Equal(b) {
		t.Errorf("expected equal schemas")
	}
	if a.Equal(c) {
		t.Errorf("expected different-typed schemas to differ")
	}
}
