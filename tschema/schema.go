package tschema

import "strings"

// NotFound is returned by LookupAttributePosition when no attribute
// carries the requested name.
const NotFound = -1

// TupleSchema is an ordered sequence of attributes with unique names and an
// O(1) average name index. Schemas are immutable once built by the caller
// (nothing in this package enforces immutability; by convention, callers
// stop calling AddAttribute once a schema is handed to a projector or
// expression to bind against).
type TupleSchema struct {
	attrs []Attribute
	index map[string]int
}

// New builds an empty tuple schema.
func New() *TupleSchema {
	return &TupleSchema{index: make(map[string]int)}
}

// FromAttributes builds a schema from a fixed attribute list, rejecting
// duplicate names the same way AddAttribute would.
func FromAttributes(attrs ...Attribute) *TupleSchema {
	s := New()
	for _, a := range attrs {
		if !s.AddAttribute(a) {
			panic("tschema: duplicate attribute name " + a.Name)
		}
	}
	return s
}

// AddAttribute appends a to the schema. It returns false and leaves the
// schema unchanged if the name is already present.
func (s *TupleSchema) AddAttribute(a Attribute) bool {
	if _, exists := s.index[a.Name]; exists {
		return false
	}
	s.index[a.Name] = len(s.attrs)
	s.attrs = append(s.attrs, a)
	return true
}

// AttributeCount returns the number of attributes in the schema.
func (s *TupleSchema) AttributeCount() int {
	return len(s.attrs)
}

// Attribute returns the i-th attribute. It panics on out-of-range i, the
// same contract-violation treatment the teacher gives out-of-range slice
// access.
func (s *TupleSchema) Attribute(i int) Attribute {
	return s.attrs[i]
}

// LookupAttributePosition returns the position of name, or NotFound.
func (s *TupleSchema) LookupAttributePosition(name string) int {
	if pos, ok := s.index[name]; ok {
		return pos
	}
	return NotFound
}

// Equal reports whether s and other have pointwise-equal attribute
// sequences.
func (s *TupleSchema) Equal(other *TupleSchema) bool {
	if other == nil {
		return false
	}
	if len(s.attrs) != len(other.attrs) {
		return false
	}
	for i, a := range s.attrs {
		if a != other.attrs[i] {
			return false
		}
	}
	return true
}

// GetHumanReadableSpecification renders a deterministic, human-readable
// form of the schema for inclusion in error messages.
func (s *TupleSchema) GetHumanReadableSpecification() string {
	var b strings.Builder
	b.WriteByte('<')
	for i, a := range s.attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name)
		b.WriteString(": ")
		b.WriteString(a.Type.String())
		if a.Nullability == 1 {
			b.WriteString(" NULLABLE")
		}
	}
	b.WriteByte('>')
	return b.String()
}

func (s *TupleSchema) String() string {
	return s.GetHumanReadableSpecification()
}
