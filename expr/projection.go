package expr

import (
	"fmt"
	"strings"

	"github.com/dot5enko/supersonic/block"
	"github.com/dot5enko/supersonic/failure"
	"github.com/dot5enko/supersonic/proj"
	"github.com/dot5enko/supersonic/tschema"
)

// ProjectionEntry names one output of a projection expression: the
// (child index, position within that child's result schema) pair to
// route through, with an optional alias (empty keeps the source name).
type ProjectionEntry struct {
	ChildIndex int
	Position   int
	Alias      string
}

type projectionExpression struct {
	entries  []ProjectionEntry
	children []Expression
}

// Projection binds each of children against the source schema, then gates
// their combined results through a multi-source projector built from
// entries — the expression-level counterpart of proj.MultiSourceProjector,
// with the children's result schemas standing in for source schemas.
func Projection(entries []ProjectionEntry, children ...Expression) Expression {
	return projectionExpression{entries: entries, children: children}
}

func (projectionExpression) sealedExpression() {}

func (e projectionExpression) Bind(source *tschema.TupleSchema) failure.FailureOrOwned[BoundExpression] {
	bound, err := bindChildren(e.children, source)
	if err != nil {
		return failure.FailOwned[BoundExpression](err)
	}

	schemas := make([]*tschema.TupleSchema, len(bound))
	for i, c := range bound {
		schemas[i] = c.ResultSchema()
	}

	projector := proj.NewBoundMultiSourceProjector(schemas)
	for _, entry := range e.entries {
		if !projector.AddAs(entry.ChildIndex, entry.Position, entry.Alias) {
			name := entry.Alias
			if name == "" {
				name = schemas[entry.ChildIndex].Attribute(entry.Position).Name
			}
			return failure.FailOwned[BoundExpression](failure.Newf(
				failure.AttributeExists,
				"Duplicate attribute name %q in projection result schema", name))
		}
	}

	return failure.SuccessOwned[BoundExpression](&boundProjection{children: bound, projector: projector})
}

func (e projectionExpression) String() string {
	parts := make([]string, len(e.entries))
	for i, entry := range e.entries {
		parts[i] = fmt.Sprintf("%d.%d", entry.ChildIndex, entry.Position)
	}
	return "PROJECT(" + strings.Join(parts, ", ") + ")"
}

// boundProjection evaluates every child against the same input, then
// routes the projector's result positions to the appropriate child
// output columns, without copying.
//
// ReferredAttributeNames bubbles names from every child, even ones whose
// outputs the projector does not surface in the result — the source test
// (projecting_bound_expressions_test.cc) asserts this for the general
// case, and the partial-projection scenario depends on it.
type boundProjection struct {
	children  []BoundExpression
	projector *proj.BoundMultiSourceProjector
}

func (b *boundProjection) ResultSchema() *tschema.TupleSchema { return b.projector.ResultSchema() }

func (b *boundProjection) ReferredAttributeNames() map[string]struct{} {
	return unionReferredNames(b.children)
}

func (b *boundProjection) DoEvaluate(input *block.View, skip *block.Bitmap) failure.FailureOr[*block.View] {
	childViews := make([]*block.View, len(b.children))
	rowCount := input.RowCount
	for i, child := range b.children {
		r := child.DoEvaluate(input, skip)
		if exc := failure.Propagate(r); exc != nil {
			return failure.Fail[*block.View](exc)
		}
		childViews[i] = r.Value()
		rowCount = childViews[i].RowCount
	}

	n := b.projector.ResultSchema().AttributeCount()
	columns := make([]*block.Column, n)
	offsets := make([]int, n)
	for i := 0; i < n; i++ {
		childIdx := b.projector.SourceIndex(i)
		pos := b.projector.SourceAttributePosition(i)
		cv := childViews[childIdx]
		columns[i] = cv.Columns[pos]
		offsets[i] = cv.Offsets[pos]
	}

	return failure.Success(block.NewView(b.projector.ResultSchema(), columns, offsets, rowCount))
}
