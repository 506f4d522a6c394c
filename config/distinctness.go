package config

// Distinctness is the three orthogonal flags an aggregation operator
// consults to decide its dedup strategy. The flags interact:
// IsNotDistinct dominates (treats DISTINCT as a no-op regardless of the
// other two); otherwise IsExactDistinct dominates over the threshold,
// forcing exact set-dedup and disabling approximation.
type Distinctness struct {
	IsNotDistinct              bool
	IsExactDistinct            bool
	EstimatedDistinctThreshold *int32
}

// NewDistinctness builds the default Distinctness: ordinary exact
// DISTINCT with no approximation threshold configured.
func NewDistinctness() *Distinctness {
	return &Distinctness{}
}

// WithEstimatedDistinctThreshold sets the cardinality at or above which an
// operator may switch to an approximate algorithm, when exact dedup was
// not otherwise requested. Returns the receiver for chaining.
func (d *Distinctness) WithEstimatedDistinctThreshold(threshold int32) *Distinctness {
	d.EstimatedDistinctThreshold = &threshold
	return d
}

// ShouldDeduplicate reports whether an operator should perform any
// dedup work at all: false only when IsNotDistinct is set.
func (d *Distinctness) ShouldDeduplicate() bool {
	return !d.IsNotDistinct
}

// ShouldUseApproximation reports whether, given an estimated distinct
// cardinality, an operator may switch to an approximate dedup algorithm.
// It implements the domination rules from spec.md §4.9: IsNotDistinct
// short-circuits to false (nothing to approximate, there's no work),
// IsExactDistinct forces false, and otherwise the estimated threshold (if
// configured) decides.
func (d *Distinctness) ShouldUseApproximation(estimatedDistinctCardinality int64) bool {
	if d.IsNotDistinct || d.IsExactDistinct {
		return false
	}
	if d.EstimatedDistinctThreshold == nil {
		return false
	}
	return estimatedDistinctCardinality >= int64(*d.EstimatedDistinctThreshold)
}
