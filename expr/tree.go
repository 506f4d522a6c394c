package expr

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dot5enko/supersonic/alloc"
	"github.com/dot5enko/supersonic/block"
	"github.com/dot5enko/supersonic/failure"
	"github.com/dot5enko/supersonic/tschema"
)

// BoundExpressionTree is the root of a compiled expression: it owns the
// root BoundExpression, an output Block sized for maxRowCount rows under
// the root's result schema (the arena), and drives evaluation. Every node
// below the root is pure zero-copy routing over the input view or a
// child's view; only the tree itself copies the root's result into its
// own arena, which is what lets Evaluate be called repeatedly while
// satisfying "returned View valid until the next Evaluate".
type BoundExpressionTree struct {
	root        BoundExpression
	arena       *block.Block
	maxRowCount int
	id          uuid.UUID
}

// NewBoundExpressionTree allocates the output arena under a and wraps
// root. Allocation failure surfaces as MEMORY_EXCEEDED through the
// FailureOr discipline rather than aborting.
func NewBoundExpressionTree(root BoundExpression, a alloc.Allocator, maxRowCount int) failure.FailureOrOwned[*BoundExpressionTree] {
	arena, err := block.NewBlock(a, root.ResultSchema(), maxRowCount)
	if err != nil {
		return failure.FailOwned[*BoundExpressionTree](failure.Newf(
			failure.MemoryExceeded, "could not allocate output arena for %d rows: %v", maxRowCount, err))
	}
	tree := &BoundExpressionTree{root: root, arena: arena, maxRowCount: maxRowCount, id: uuid.New()}
	return failure.SuccessOwned(tree)
}

// ID identifies this tree instance for diagnostics; it has no bearing on
// evaluation semantics.
func (t *BoundExpressionTree) ID() uuid.UUID { return t.id }

func (t *BoundExpressionTree) ResultSchema() *tschema.TupleSchema { return t.root.ResultSchema() }

func (t *BoundExpressionTree) MaxRowCount() int { return t.maxRowCount }

// Evaluate runs the root expression over input and copies its result into
// the tree's output arena, returning a View over the arena's prefix
// [0, input.RowCount). Calling with input.RowCount > MaxRowCount is a
// contract violation (a precondition failure, not a runtime error) and
// panics, matching spec.md's "programming errors ... may abort via
// assertion" classification.
func (t *BoundExpressionTree) Evaluate(input *block.View) failure.FailureOr[*block.View] {
	if input.RowCount > t.maxRowCount {
		panic(fmt.Sprintf("expr: Evaluate called with row_count %d exceeding max_row_count %d", input.RowCount, t.maxRowCount))
	}

	result := t.root.DoEvaluate(input, nil)
	if result.Failed() {
		return result
	}

	t.arena.Reset()
	if err := t.arena.CopyInto(result.Value()); err != nil {
		return failure.Fail[*block.View](failure.Newf(failure.EvaluationError, "copying result into output arena: %v", err))
	}
	return failure.Success(t.arena.View())
}
