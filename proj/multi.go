package proj

import (
	"fmt"
	"strings"

	"github.com/dot5enko/supersonic/failure"
	"github.com/dot5enko/supersonic/tschema"
)

// SourceAttribute identifies one input column of a multi-source projector:
// which source, and which position within that source's schema.
type SourceAttribute struct {
	SourceIndex int
	Position    int
}

// multiEntry is one (source index, child projector) pair of the unbound
// MultiSourceProjector.
type multiEntry struct {
	sourceIndex int
	child       SingleSourceProjector
}

// MultiSourceProjector is the unbound spec for deriving one result schema
// from several input schemas: an ordered list of (source index, single
// source projector) pairs, bound in order.
type MultiSourceProjector struct {
	entries []multiEntry
}

func NewMultiSourceProjector() *MultiSourceProjector {
	return &MultiSourceProjector{}
}

// Add appends one (sourceIndex, child) pair. It returns the receiver for
// chaining.
func (m *MultiSourceProjector) Add(sourceIndex int, child SingleSourceProjector) *MultiSourceProjector {
	m.entries = append(m.entries, multiEntry{sourceIndex: sourceIndex, child: child})
	return m
}

// Bind resolves each pair against its designated source schema in order,
// appending its produced attributes to the result; it fails with
// ATTRIBUTE_EXISTS on a duplicate output name.
func (m *MultiSourceProjector) Bind(sources []*tschema.TupleSchema) failure.FailureOrOwned[*BoundMultiSourceProjector] {
	result := NewBoundMultiSourceProjector(sources)
	for _, e := range m.entries {
		bound := e.child.Bind(sources[e.sourceIndex])
		if exc := failure.PropagateOnFailure(bound); exc != nil {
			return failure.FailOwned[*BoundMultiSourceProjector](exc)
		}
		component := bound.Release()
		for j := 0; j < component.ResultSchema().AttributeCount(); j++ {
			name := component.ResultSchema().Attribute(j).Name
			if !result.AddAs(e.sourceIndex, component.SourceAttributePosition(j), name) {
				return failure.FailOwned[*BoundMultiSourceProjector](failure.Newf(
					failure.AttributeExists,
					"Duplicate attribute name %q in result schema: %s", name, component.ResultSchema().GetHumanReadableSpecification()))
			}
		}
	}
	return failure.SuccessOwned(result)
}

func (m *MultiSourceProjector) String() string {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = fmt.Sprintf("%d: %s", e.sourceIndex, e.child.String())
	}
	return strings.Join(parts, ", ")
}

// BoundMultiSourceProjector is the resolved form: a fixed result schema, a
// projection map proj[i] = SourceAttribute for each result position i, and
// a reverse multimap from SourceAttribute back to the result positions it
// feeds (an attribute may be projected zero, one, or many times).
type BoundMultiSourceProjector struct {
	sources []*tschema.TupleSchema
	result  *tschema.TupleSchema
	projMap []SourceAttribute
	reverse map[SourceAttribute][]int
}

// NewBoundMultiSourceProjector starts an empty bound projector over
// sources; callers append to it with AddAs.
func NewBoundMultiSourceProjector(sources []*tschema.TupleSchema) *BoundMultiSourceProjector {
	return &BoundMultiSourceProjector{
		sources: sources,
		result:  tschema.New(),
		reverse: make(map[SourceAttribute][]int),
	}
}

// AddAs appends one output attribute: sources[sourceIndex][position],
// named alias (or that source attribute's own name if alias is empty). It
// returns false on a duplicate result name.
func (p *BoundMultiSourceProjector) AddAs(sourceIndex, position int, alias string) bool {
	src := p.sources[sourceIndex].Attribute(position)
	name := alias
	if name == "" {
		name = src.Name
	}
	if !p.result.AddAttribute(tschema.Attribute{Name: name, Type: src.Type, Nullability: src.Nullability}) {
		return false
	}
	sa := SourceAttribute{SourceIndex: sourceIndex, Position: position}
	p.reverse[sa] = append(p.reverse[sa], len(p.projMap))
	p.projMap = append(p.projMap, sa)
	return true
}

func (p *BoundMultiSourceProjector) ResultSchema() *tschema.TupleSchema { return p.result }
func (p *BoundMultiSourceProjector) SourceCount() int                  { return len(p.sources) }
func (p *BoundMultiSourceProjector) SourceSchema(i int) *tschema.TupleSchema {
	return p.sources[i]
}

// SourceIndex and SourceAttributePosition are the inverse direction used
// by operators to copy columns: which source, and which position within
// it, feeds result position i.
func (p *BoundMultiSourceProjector) SourceIndex(resultPos int) int {
	return p.projMap[resultPos].SourceIndex
}
func (p *BoundMultiSourceProjector) SourceAttributePosition(resultPos int) int {
	return p.projMap[resultPos].Position
}

// ProjectedAttributePositions returns the result positions fed by
// sources[sourceIndex][position], in insertion order.
func (p *BoundMultiSourceProjector) ProjectedAttributePositions(sourceIndex, position int) []int {
	return p.reverse[SourceAttribute{SourceIndex: sourceIndex, Position: position}]
}

func (p *BoundMultiSourceProjector) IsAttributeProjected(sourceIndex, position int) bool {
	return len(p.ProjectedAttributePositions(sourceIndex, position)) > 0
}

func (p *BoundMultiSourceProjector) NumberOfProjectionsForAttribute(sourceIndex, position int) int {
	return len(p.ProjectedAttributePositions(sourceIndex, position))
}

// GetSingleSourceProjector returns the slice of this projector's outputs
// that came from sourceIndex, preserving result names and order.
func (p *BoundMultiSourceProjector) GetSingleSourceProjector(sourceIndex int) *BoundSingleSourceProjector {
	result := NewBoundSingleSourceProjector(p.SourceSchema(sourceIndex))
	for i := 0; i < p.result.AttributeCount(); i++ {
		if p.SourceIndex(i) == sourceIndex {
			result.AddAs(p.SourceAttributePosition(i), p.ResultSchema().Attribute(i).Name)
		}
	}
	return result
}

func (p *BoundMultiSourceProjector) String() string {
	parts := make([]string, p.result.AttributeCount())
	for i := range parts {
		parts[i] = fmt.Sprintf("%d: %s", p.SourceIndex(i), p.ResultSchema().Attribute(i).Name)
	}
	return strings.Join(parts, ", ")
}

// DecomposeNth factors a multi-source projector into an inner single-source
// projector Q over sourceIndex, and an outer multi-source projector P' over
// the same list of sources except that its sourceIndex-th source schema is
// Q's result schema; P's entries for sourceIndex are rewritten to index
// into it. If P projected the
// same (sourceIndex, position) more than once, Q contains that position
// once and every such entry of P' points at the same Q output; entries for
// other sources pass through unchanged. This is the factoring join
// operators use to minimize projected payloads.
func DecomposeNth(sourceIndex int, p *BoundMultiSourceProjector) (*BoundMultiSourceProjector, *BoundSingleSourceProjector) {
	q := NewBoundSingleSourceProjector(p.SourceSchema(sourceIndex))

	// outer's sourceIndex-th source is Q's result schema, not the original
	// source schema: positions added to outer for sourceIndex are qPos
	// values (positions into Q's, possibly reordered/deduplicated, result),
	// not positions into the original source. Since AddAs resolves a new
	// attribute's type/nullability via sources[sourceIndex].Attribute(pos),
	// outer must look that up in Q, and q.ResultSchema() is the same
	// *tschema.TupleSchema instance q.Add appends to, so this stays correct
	// as Q grows.
	outerSources := make([]*tschema.TupleSchema, len(p.sources))
	copy(outerSources, p.sources)
	outerSources[sourceIndex] = q.ResultSchema()
	outer := NewBoundMultiSourceProjector(outerSources)

	uniq := make(map[int]int) // source position in sourceIndex's schema -> Q result position

	for i := 0; i < p.result.AttributeCount(); i++ {
		alias := p.result.Attribute(i).Name
		if p.SourceIndex(i) != sourceIndex {
			outer.AddAs(p.SourceIndex(i), p.SourceAttributePosition(i), alias)
			continue
		}

		srcPos := p.SourceAttributePosition(i)
		qPos, seen := uniq[srcPos]
		if !seen {
			qPos = q.ResultSchema().AttributeCount()
			uniq[srcPos] = qPos
			q.Add(srcPos)
		}
		outer.AddAs(sourceIndex, qPos, alias)
	}

	return outer, q
}
