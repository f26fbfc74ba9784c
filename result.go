package htmlexpect

import (
	"fmt"
	"strings"
)

// FailureKind identifies why validation stopped.
type FailureKind string

const (
	// KindTagNameMismatch reports an element whose name differs from
	// the expected tag name.
	KindTagNameMismatch FailureKind = "tag-name-mismatch"
	// KindIllegalAttributePresent reports a forbidden attribute found
	// on the matched element.
	KindIllegalAttributePresent FailureKind = "illegal-attribute-present"
	// KindAttributeMissing reports an expected attribute absent from
	// the matched element.
	KindAttributeMissing FailureKind = "attribute-missing"
	// KindAttributeValueMismatch reports an attribute whose value does
	// not match its registered pattern in full.
	KindAttributeValueMismatch FailureKind = "attribute-value-mismatch"
	// KindInvalidPattern reports a registered pattern that does not
	// compile. This is a defect in the expectation, not in the
	// document under test, and is kept distinct so a broken
	// expectation is never read as "the rendered page is wrong".
	KindInvalidPattern FailureKind = "invalid-pattern"
	// KindChildNotFound reports an expected child with no matching
	// actual child at or after the current scan position.
	KindChildNotFound FailureKind = "child-not-found"
	// KindTextMismatch reports text content failing its pattern.
	KindTextMismatch FailureKind = "text-mismatch"
	// KindCommentMismatch reports a comment differing from its
	// expected content.
	KindCommentMismatch FailureKind = "comment-mismatch"
)

// Failure describes the first mismatch that stopped a validation run.
// Path holds the expected-tree labels from the validation root down to
// the failing node. The remaining fields are kind-specific detail and
// are zero when they do not apply.
type Failure struct {
	Kind FailureKind
	Path []string

	// Attribute names the attribute involved in attribute checks.
	Attribute string
	// Pattern is the registered pattern for attribute and text checks.
	Pattern string
	// Expected describes the expected side: the tag name for name
	// mismatches, the unmatched pattern node for child scans, the
	// wanted content for comments.
	Expected string
	// Actual describes what the document held instead.
	Actual string
	// Position is the child scan position for KindChildNotFound.
	Position int
}

// PathString renders the root-to-failure path for display.
func (f *Failure) PathString() string {
	return strings.Join(f.Path, " > ")
}

// Error renders the failure on one line with its kind, path and
// kind-specific context.
func (f *Failure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", f.Kind)
	if len(f.Path) > 0 {
		fmt.Fprintf(&b, " at %s", f.PathString())
	}
	switch f.Kind {
	case KindTagNameMismatch:
		fmt.Fprintf(&b, ": expected %q, found %q", f.Expected, f.Actual)
	case KindIllegalAttributePresent:
		fmt.Fprintf(&b, ": attribute %q must not be present", f.Attribute)
	case KindAttributeMissing:
		fmt.Fprintf(&b, ": attribute %q is missing", f.Attribute)
	case KindAttributeValueMismatch:
		fmt.Fprintf(&b, ": attribute %q value %q does not match %q", f.Attribute, f.Actual, f.Pattern)
	case KindInvalidPattern:
		if f.Attribute != "" {
			fmt.Fprintf(&b, ": attribute %q pattern %q does not compile", f.Attribute, f.Pattern)
		} else {
			fmt.Fprintf(&b, ": pattern %q does not compile", f.Pattern)
		}
	case KindChildNotFound:
		fmt.Fprintf(&b, ": no child matching %s at or after position %d", f.Expected, f.Position)
	case KindTextMismatch:
		fmt.Fprintf(&b, ": text %q does not match %q", f.Actual, f.Pattern)
	case KindCommentMismatch:
		fmt.Fprintf(&b, ": comment %q, want %q", f.Actual, f.Expected)
	}
	return b.String()
}

// Result is the outcome of one validation run: a pass, or the single
// failure that aborted matching.
type Result struct {
	failure *Failure
}

// Passed reports whether the document satisfied the expectation.
func (r Result) Passed() bool {
	return r.failure == nil
}

// Failure returns the mismatch that stopped validation, or nil on a
// pass.
func (r Result) Failure() *Failure {
	return r.failure
}
