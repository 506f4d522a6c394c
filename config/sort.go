// Package config defines the small, wire-stable configuration records the
// execution core hands to operators it does not itself implement: sort
// order with an optional row limit, and distinctness policy for
// aggregations. Neither record is executed here — sort and hash-aggregate
// operators consume them — but their shapes are part of this core's
// external interface, so they are defined precisely and kept
// protobuf-tag-compatible (see DESIGN.md for why these are plain structs
// rather than generated protobuf types).
package config

import (
	"strconv"
	"strings"
)

// ColumnOrder is the sort direction for one key.
type ColumnOrder int32

const (
	Ascending ColumnOrder = iota
	Descending
)

func (o ColumnOrder) String() string {
	if o == Descending {
		return "DESCENDING"
	}
	return "ASCENDING"
}

// SortKey is one entry of an ExtendedSortSpecification: the attribute to
// order by, its direction, and whether string comparison is case
// sensitive (ignored for non-string attributes).
type SortKey struct {
	AttributeName string
	ColumnOrder   ColumnOrder
	CaseSensitive bool
}

// ExtendedSortSpecification is an ordered list of sort keys (most
// significant first) plus an optional row limit. An empty key list is
// legal and denotes the identity order. Nulls sort FIRST under
// ASCENDING and LAST under DESCENDING, stably across keys — this core
// defines that contract; it does not implement the comparator.
type ExtendedSortSpecification struct {
	Keys  []SortKey
	Limit *uint64
}

// NewExtendedSortSpecification builds an empty specification (identity
// order, no limit); callers append keys with AddKey and set a limit with
// WithLimit.
func NewExtendedSortSpecification() *ExtendedSortSpecification {
	return &ExtendedSortSpecification{}
}

// AddKey appends one sort key and returns the receiver for chaining.
func (s *ExtendedSortSpecification) AddKey(attributeName string, order ColumnOrder, caseSensitive bool) *ExtendedSortSpecification {
	s.Keys = append(s.Keys, SortKey{AttributeName: attributeName, ColumnOrder: order, CaseSensitive: caseSensitive})
	return s
}

// WithLimit sets the optional row limit and returns the receiver for
// chaining.
func (s *ExtendedSortSpecification) WithLimit(limit uint64) *ExtendedSortSpecification {
	s.Limit = &limit
	return s
}

// IsIdentity reports whether the specification has no keys, i.e. imposes
// no ordering.
func (s *ExtendedSortSpecification) IsIdentity() bool {
	return len(s.Keys) == 0
}

func (s *ExtendedSortSpecification) String() string {
	var b strings.Builder
	for i, k := range s.Keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k.AttributeName)
		b.WriteByte(' ')
		b.WriteString(k.ColumnOrder.String())
		if k.CaseSensitive {
			b.WriteString(" CASE_SENSITIVE")
		}
	}
	if s.Limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.FormatUint(*s.Limit, 10))
	}
	if b.Len() == 0 {
		return "<identity order>"
	}
	return b.String()
}
