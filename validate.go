package htmlexpect

import "errors"

// Caller contract violations, kept distinct from both validation
// mismatches and specification defects.
var (
	ErrNilExpected = errors.New("htmlexpect: nil expected root")
	ErrNilActual   = errors.New("htmlexpect: nil actual root")
)

// Validate matches the actual document tree rooted at actual against
// the expected-structure tree rooted at expected. The returned error is
// non-nil only for nil arguments; mismatches in the document and
// defects in the expectation are both reported through the Result.
//
// Validation is synchronous, touches no shared state beyond each Tag's
// one-time pattern-compile cache, and yields the same Result every time
// for unmodified trees. Child matching picks the first plausible actual
// child for each expected child and never backtracks: a mismatch deep
// inside a matched child is final even when a later sibling would have
// satisfied the expectation. That bounds matching to linear time in
// tree size and keeps failures deterministic, at the cost of an
// occasional imprecisely-localized failure after a false lead.
func Validate(expected DocumentElement, actual *Node) (Result, error) {
	if expected == nil {
		return Result{}, ErrNilExpected
	}
	if actual == nil {
		return Result{}, ErrNilActual
	}
	return Result{failure: expected.Match(actual)}, nil
}
