package domain

import "errors"

// Structural failures surfaced to callers. Numeric degeneracies (zero
// variance, empty downside set, zero drawdown) are not errors: the
// affected metric is reported as 0 so reports stay renderable.
var (
	// ErrDataUnavailable means the provider has no data for a requested
	// ticker or window.
	ErrDataUnavailable = errors.New("no data available")

	// ErrInsufficientData means a computation's precondition cannot be
	// met: no constituent has history, or fewer than 2 portfolios are
	// usable for a comparison.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNoOverlap means two price series share no common trading date.
	ErrNoOverlap = errors.New("no overlapping data")

	// ErrAllocationInvalid means a proposed weight set fails the
	// sum/range invariant. The prior allocations remain authoritative.
	ErrAllocationInvalid = errors.New("allocation invalid")

	// ErrNotFound means a portfolio or position does not exist.
	ErrNotFound = errors.New("not found")
)
