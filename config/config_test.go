package config

import "testing"

func TestExtendedSortSpecificationIdentity(t *testing.T) {
	s := NewExtendedSortSpecification()
	if !s.IsIdentity() {
		t.Errorf("expected empty key list to be identity order")
	}
	s.AddKey("col1", Ascending, false)
	if s.IsIdentity() {
		t.Errorf("expected non-empty key list to not be identity order")
	}
}

func TestExtendedSortSpecificationWithLimit(t *testing.T) {
	s := NewExtendedSortSpecification().AddKey("col1", Descending, true).WithLimit(10)
	if s.Limit == nil || *s.Limit != 10 {
		t.Fatalf("expected limit 10, got %v", s.Limit)
	}
	if s.Keys[0].ColumnOrder != Descending || !s.Keys[0].CaseSensitive {
		t.Errorf("unexpected key: %+v", s.Keys[0])
	}
}

func TestDistinctnessDomination(t *testing.T) {
	threshold := int32(100)

	notDistinct := &Distinctness{IsNotDistinct: true, EstimatedDistinctThreshold: &threshold}
	if notDistinct.ShouldDeduplicate() {
		t.Errorf("IsNotDistinct should disable dedup")
	}
	if notDistinct.ShouldUseApproximation(1000) {
		t.Errorf("IsNotDistinct should dominate over threshold")
	}

	exact := &Distinctness{IsExactDistinct: true, EstimatedDistinctThreshold: &threshold}
	if exact.ShouldUseApproximation(1000) {
		t.Errorf("IsExactDistinct should dominate over threshold")
	}

	approx := NewDistinctness().WithEstimatedDistinctThreshold(100)
	if approx.ShouldUseApproximation(50) {
		t.Errorf("below threshold should not approximate")
	}
	if !approx.ShouldUseApproximation(150) {
		t.Errorf("at/above threshold should approximate")
	}
}
