package proj

import (
	"testing"

	"golang.org/x/sync/errgroup"
)

// Binding is pure and may be done from any thread (spec.md §5); this
// exercises that by racing many goroutines through Bind against the same
// unbound projector and schema, and checking they all agree (testable
// property 6: binding is idempotent).
func TestConcurrentBindIsConsistent(t *testing.T) {
	schema := fiveColumnSchema()
	p := Compound(Named("col3"), Named("col0"), AllPrefixed("x_"))

	const goroutines = 32
	results := make([]*BoundSingleSourceProjector, goroutines)

	var g errgroup.Group
	for i := 0; i < goroutines; i++ {
		i := i
		g.Go(func() error {
			bound := p.Bind(schema)
			if bound.Failed() {
				return bound.Exception()
			}
			results[i] = bound.Release()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Bind failed: %v", err)
	}

	first := results[0].ResultSchema()
	for i, r := range results[1:] {
		if !r.ResultSchema().Equal(first) {
			t.Errorf("goroutine %d produced a different result schema: %s vs %s", i+1, r.ResultSchema(), first)
		}
		for j := 0; j < r.ResultSchema().AttributeCount(); j++ {
			if r.SourceAttributePosition(j) != results[0].SourceAttributePosition(j) {
				t.Errorf("goroutine %d: proj[%d] differs: %d vs %d", i+1, j, r.SourceAttributePosition(j), results[0].SourceAttributePosition(j))
			}
		}
	}
}
