// Package tschema implements the tuple schema: an ordered, named, typed
// sequence of attributes with O(1) name lookup.
package tschema

import "github.com/dot5enko/supersonic/types"

// Attribute is a named, typed, possibly-nullable column slot.
type Attribute struct {
	Name        string
	Type        types.DataType
	Nullability types.Nullability
}

// SameTypeAndNullability reports whether a and other agree on type and
// nullability, ignoring name. Projections are allowed to rename an
// attribute but never to change its type or nullability.
func (a Attribute) SameTypeAndNullability(other Attribute) bool {
	return a.Type == other.Type && a.Nullability == other.Nullability
}
