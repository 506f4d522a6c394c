package expr

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/dot5enko/supersonic/block"
	"github.com/dot5enko/supersonic/failure"
	"github.com/dot5enko/supersonic/tschema"
)

// --- Compound ---

type compoundExpression struct{ children []Expression }

// Compound binds each child in order and concatenates their outputs
// without reprojecting; Bind fails with ATTRIBUTE_EXISTS on a duplicate
// result name among the children's combined result schemas.
func Compound(children ...Expression) Expression {
	return compoundExpression{children: children}
}

func (compoundExpression) sealedExpression() {}

func (e compoundExpression) Bind(source *tschema.TupleSchema) failure.FailureOrOwned[BoundExpression] {
	bound, err := bindChildren(e.children, source)
	if err != nil {
		return failure.FailOwned[BoundExpression](err)
	}

	result := tschema.New()
	for _, c := range bound {
		for i := 0; i < c.ResultSchema().AttributeCount(); i++ {
			if !result.AddAttribute(c.ResultSchema().Attribute(i)) {
				return failure.FailOwned[BoundExpression](failure.Newf(
					failure.AttributeExists,
					"Duplicate attribute name %q in compound result schema", c.ResultSchema().Attribute(i).Name))
			}
		}
	}

	return failure.SuccessOwned[BoundExpression](&boundCompound{children: bound, result: result})
}

func (e compoundExpression) String() string {
	parts := make([]string, len(e.children))
	for i, c := range e.children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// boundCompound concatenates its children's output columns, in order,
// without any further projection or copy.
type boundCompound struct {
	children []BoundExpression
	result   *tschema.TupleSchema
}

func (b *boundCompound) ResultSchema() *tschema.TupleSchema { return b.result }

func (b *boundCompound) ReferredAttributeNames() map[string]struct{} {
	return unionReferredNames(b.children)
}

func (b *boundCompound) DoEvaluate(input *block.View, skip *block.Bitmap) failure.FailureOr[*block.View] {
	columns, offsets, rowCount, exc := evaluateChildren(b.children, input, skip)
	if exc != nil {
		return failure.Fail[*block.View](exc)
	}
	return failure.Success(block.NewView(b.result, columns, offsets, rowCount))
}

// --- RenameCompound ---

type renameCompoundExpression struct {
	aliases []string
	child   Expression
}

// RenameCompound is Compound followed by a rename of every output
// attribute to aliases, in order. aliases must be internally unique;
// violating that is a programming error and panics immediately, mirroring
// proj.Rename's precondition.
func RenameCompound(aliases []string, children ...Expression) Expression {
	seen := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		if _, dup := seen[a]; dup {
			panic("expr: RenameCompound aliases must be unique, got duplicate " + a)
		}
		seen[a] = struct{}{}
	}
	return renameCompoundExpression{aliases: aliases, child: Compound(children...)}
}

func (renameCompoundExpression) sealedExpression() {}

func (e renameCompoundExpression) Bind(source *tschema.TupleSchema) failure.FailureOrOwned[BoundExpression] {
	bound := e.child.Bind(source)
	if exc := failure.PropagateOnFailure(bound); exc != nil {
		return failure.FailOwned[BoundExpression](exc)
	}
	inner := bound.Release()

	if len(e.aliases) != inner.ResultSchema().AttributeCount() {
		return failure.FailOwned[BoundExpression](failure.Newf(
			failure.AttributeCountMismatch,
			"Number of aliases (%d) does not match the attribute count (%d): %s",
			len(e.aliases), inner.ResultSchema().AttributeCount(), inner.ResultSchema().GetHumanReadableSpecification()))
	}

	result := tschema.New()
	for i := 0; i < inner.ResultSchema().AttributeCount(); i++ {
		src := inner.ResultSchema().Attribute(i)
		// aliases are already verified unique at construction time, so this
		// AddAttribute can never fail on a duplicate name.
		result.AddAttribute(tschema.Attribute{Name: e.aliases[i], Type: src.Type, Nullability: src.Nullability})
	}

	return failure.SuccessOwned[BoundExpression](&boundRenameCompound{inner: inner, result: result})
}

func (e renameCompoundExpression) String() string {
	return fmt.Sprintf("(%s) RENAME AS (%s)", e.child.String(), strings.Join(e.aliases, ", "))
}

// boundRenameCompound wraps an inner bound compound, substituting only its
// result schema's names; evaluation routes straight through.
type boundRenameCompound struct {
	inner  BoundExpression
	result *tschema.TupleSchema
}

func (b *boundRenameCompound) ResultSchema() *tschema.TupleSchema { return b.result }

func (b *boundRenameCompound) ReferredAttributeNames() map[string]struct{} {
	return b.inner.ReferredAttributeNames()
}

func (b *boundRenameCompound) DoEvaluate(input *block.View, skip *block.Bitmap) failure.FailureOr[*block.View] {
	innerResult := b.inner.DoEvaluate(input, skip)
	if exc := failure.Propagate(innerResult); exc != nil {
		return failure.Fail[*block.View](exc)
	}
	iv := innerResult.Value()
	return failure.Success(block.NewView(b.result, iv.Columns, iv.Offsets, iv.RowCount))
}

// --- shared helpers ---

// bindChildren binds each child expression against source in order,
// stopping at the first failure.
func bindChildren(children []Expression, source *tschema.TupleSchema) ([]BoundExpression, *failure.Exception) {
	bound := make([]BoundExpression, 0, len(children))
	for _, child := range children {
		b := child.Bind(source)
		if exc := failure.PropagateOnFailure(b); exc != nil {
			return nil, exc
		}
		bound = append(bound, b.Release())
	}
	return bound, nil
}

// evaluateChildren runs DoEvaluate on each bound child against the same
// input view and concatenates their result columns, stopping at the first
// failure.
func evaluateChildren(children []BoundExpression, input *block.View, skip *block.Bitmap) ([]*block.Column, []int, int, *failure.Exception) {
	var columns []*block.Column
	var offsets []int
	rowCount := input.RowCount
	for _, child := range children {
		r := child.DoEvaluate(input, skip)
		if exc := failure.Propagate(r); exc != nil {
			return nil, nil, 0, exc
		}
		cv := r.Value()
		columns = append(columns, cv.Columns...)
		offsets = append(offsets, cv.Offsets...)
		rowCount = cv.RowCount
	}
	return columns, offsets, rowCount, nil
}

// unionReferredNames is the transitive union of each child's referred
// attribute names — per spec, a composite expression reports the names
// reachable from every child, not only the ones it ultimately surfaces.
func unionReferredNames(children []BoundExpression) map[string]struct{} {
	out := make(map[string]struct{})
	for _, c := range children {
		maps.Copy(out, c.ReferredAttributeNames())
	}
	return out
}
