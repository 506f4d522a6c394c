// Package expr implements the bound expression tree: a logical expression
// over a schema compiled into a vectorized evaluator with its own output
// arena. Expression kinds mirror proj's projector kinds — a closed,
// enumerable set of unbound specs binding to a shared evaluator interface.
package expr

import (
	"fmt"

	"github.com/dot5enko/supersonic/block"
	"github.com/dot5enko/supersonic/failure"
	"github.com/dot5enko/supersonic/tschema"
)

// BoundExpression is the evaluator capability every expression kind
// implements once bound: a fixed result schema, the set of input attribute
// names it transitively reads, and the vectorized evaluation step. It does
// not own output buffers — those belong to the enclosing
// BoundExpressionTree.
type BoundExpression interface {
	ResultSchema() *tschema.TupleSchema
	ReferredAttributeNames() map[string]struct{}
	DoEvaluate(input *block.View, skip *block.Bitmap) failure.FailureOr[*block.View]
}

// Expression is the unbound, logical spec for one evaluator node. Like
// proj.SingleSourceProjector, this is Go's realization of the tagged
// variant the design notes call for in place of a virtual-dispatch
// hierarchy: a small, closed set of concrete kinds, sealed by the
// unexported sealedExpression method, each implementing Bind.
type Expression interface {
	Bind(source *tschema.TupleSchema) failure.FailureOrOwned[BoundExpression]
	String() string
	sealedExpression()
}

// --- AttributeAt ---

type attributeAtExpression struct{ position int }

// AttributeAt resolves the input attribute at a fixed index; Bind fails
// with ATTRIBUTE_COUNT_MISMATCH if the source schema is too narrow.
func AttributeAt(position int) Expression { return attributeAtExpression{position: position} }

func (attributeAtExpression) sealedExpression() {}

func (e attributeAtExpression) Bind(source *tschema.TupleSchema) failure.FailureOrOwned[BoundExpression] {
	if e.position >= source.AttributeCount() {
		return failure.FailOwned[BoundExpression](failure.Newf(
			failure.AttributeCountMismatch,
			"source schema has too few attributes (%d vs %d)", source.AttributeCount(), e.position))
	}
	attr := source.Attribute(e.position)
	bound := &boundAttributeReference{
		position: e.position,
		name:     attr.Name,
		result:   tschema.FromAttributes(attr),
	}
	return failure.SuccessOwned[BoundExpression](bound)
}

func (e attributeAtExpression) String() string { return fmt.Sprintf("AttributeAt(%d)", e.position) }

// --- NamedAttribute ---

type namedAttributeExpression struct{ name string }

// NamedAttribute resolves an input attribute by name; Bind fails with
// ATTRIBUTE_MISSING if absent.
func NamedAttribute(name string) Expression { return namedAttributeExpression{name: name} }

func (namedAttributeExpression) sealedExpression() {}

func (e namedAttributeExpression) Bind(source *tschema.TupleSchema) failure.FailureOrOwned[BoundExpression] {
	pos := source.LookupAttributePosition(e.name)
	if pos < 0 {
		return failure.FailOwned[BoundExpression](failure.Newf(
			failure.AttributeMissing,
			"No attribute '%s' in the schema:\n '%s'", e.name, source.GetHumanReadableSpecification()))
	}
	return AttributeAt(pos).Bind(source)
}

func (e namedAttributeExpression) String() string { return e.name }

// boundAttributeReference is the bound form shared by AttributeAt and
// NamedAttribute: evaluation is pure zero-copy routing of one column out
// of the input view.
type boundAttributeReference struct {
	position int
	name     string
	result   *tschema.TupleSchema
}

func (b *boundAttributeReference) ResultSchema() *tschema.TupleSchema { return b.result }

func (b *boundAttributeReference) ReferredAttributeNames() map[string]struct{} {
	return map[string]struct{}{b.name: {}}
}

func (b *boundAttributeReference) DoEvaluate(input *block.View, skip *block.Bitmap) failure.FailureOr[*block.View] {
	v := block.NewView(b.result,
		[]*block.Column{input.Columns[b.position]},
		[]int{input.Offsets[b.position]},
		input.RowCount)
	return failure.Success(v)
}

// --- Alias ---

type aliasExpression struct {
	name  string
	child Expression
}

// Alias binds child (which must resolve to a single-column result) and
// renames its one output attribute to name.
func Alias(name string, child Expression) Expression {
	return aliasExpression{name: name, child: child}
}

func (aliasExpression) sealedExpression() {}

func (e aliasExpression) Bind(source *tschema.TupleSchema) failure.FailureOrOwned[BoundExpression] {
	bound := e.child.Bind(source)
	if exc := failure.PropagateOnFailure(bound); exc != nil {
		return failure.FailOwned[BoundExpression](exc)
	}
	child := bound.Release()

	if child.ResultSchema().AttributeCount() != 1 {
		return failure.FailOwned[BoundExpression](failure.Newf(
			failure.AttributeCountMismatch,
			"Alias requires a single-column child, got %d columns: %s",
			child.ResultSchema().AttributeCount(), child.ResultSchema().GetHumanReadableSpecification()))
	}

	srcAttr := child.ResultSchema().Attribute(0)
	result := tschema.FromAttributes(tschema.Attribute{Name: e.name, Type: srcAttr.Type, Nullability: srcAttr.Nullability})
	return failure.SuccessOwned[BoundExpression](&boundAlias{name: e.name, child: child, result: result})
}

func (e aliasExpression) String() string {
	return fmt.Sprintf("(%s) AS %s", e.child.String(), e.name)
}

type boundAlias struct {
	name   string
	child  BoundExpression
	result *tschema.TupleSchema
}

func (b *boundAlias) ResultSchema() *tschema.TupleSchema { return b.result }

func (b *boundAlias) ReferredAttributeNames() map[string]struct{} {
	return b.child.ReferredAttributeNames()
}

func (b *boundAlias) DoEvaluate(input *block.View, skip *block.Bitmap) failure.FailureOr[*block.View] {
	childResult := b.child.DoEvaluate(input, skip)
	if exc := failure.Propagate(childResult); exc != nil {
		return failure.Fail[*block.View](exc)
	}
	cv := childResult.Value()
	renamed := block.NewView(b.result, cv.Columns, cv.Offsets, cv.RowCount)
	return failure.Success(renamed)
}
