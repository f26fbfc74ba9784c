// Package htmlexpect validates parsed HTML trees against declarative,
// hand-authored expectations about their structure. Test code builds an
// expected-structure tree of pattern nodes once, then validates each
// rendered document against it with Validate.
package htmlexpect

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// DocumentElement is one pattern node of an expected-structure tree: a
// constraint that can be matched against one node of an actual document
// tree. Tag constrains elements; Text and Comment constrain the leaf
// node kinds.
type DocumentElement interface {
	// Match validates n against this pattern. It returns nil when n
	// satisfies the pattern, otherwise the first Failure found, with
	// its Path rooted at this element.
	Match(n *Node) *Failure

	// candidate reports whether n is considerable for this pattern at
	// all. Child scanning uses it to skip actual children the
	// expectation never mentions.
	candidate(n *Node) bool
}

// Tag constrains one element of the actual tree: its name, attribute
// values, attributes that must be absent, and its child structure.
// Expected children form a required ordered subsequence of the actual
// children, not an exact enumeration; actual children the expectation
// never mentions are permitted and skipped.
//
// A Tag is mutable only through its builder methods; once validation
// starts it must be treated as read-only. A finished Tag is safe to
// share across concurrent Validate calls.
type Tag struct {
	name               string
	expectedAttributes map[string]string
	illegalAttributes  map[string]struct{}
	expectedChildren   []DocumentElement

	compileOnce sync.Once
	compiled    map[string]*regexp.Regexp
	badPatterns map[string]struct{}
}

// NewTag creates a Tag pattern. The name is normalized to lower case
// and compared case-insensitively against actual tag names.
func NewTag(name string) *Tag {
	return &Tag{
		name:               strings.ToLower(name),
		expectedAttributes: map[string]string{},
		illegalAttributes:  map[string]struct{}{},
	}
}

// ExpectAttribute requires the matched element to carry an attribute
// named name whose value matches pattern in full, not as a substring.
// Registering the same name twice overwrites the earlier pattern. The
// pattern is not compiled here; a broken one surfaces at validation
// time as KindInvalidPattern.
func (t *Tag) ExpectAttribute(name, pattern string) *Tag {
	t.expectedAttributes[strings.ToLower(name)] = pattern
	return t
}

// ExpectChild appends e to the ordered child sequence. Children must be
// added in the order they are expected to appear; adding an identical
// pattern twice requires two distinct actual children to satisfy it.
func (t *Tag) ExpectChild(e DocumentElement) *Tag {
	t.expectedChildren = append(t.expectedChildren, e)
	return t
}

// ForbidAttribute requires the named attribute to be absent from the
// matched element. A name that is also expected makes the Tag
// unsatisfiable for any element, the intended outcome for a
// contradictory specification.
func (t *Tag) ForbidAttribute(name string) *Tag {
	t.illegalAttributes[strings.ToLower(name)] = struct{}{}
	return t
}

// Name returns the lower-cased tag name.
func (t *Tag) Name() string {
	return t.name
}

// ExpectedAttributes returns a copy of the attribute-name to pattern
// mapping. The Tag keeps ownership of its own containers.
func (t *Tag) ExpectedAttributes() map[string]string {
	out := make(map[string]string, len(t.expectedAttributes))
	for k, v := range t.expectedAttributes {
		out[k] = v
	}
	return out
}

// ExpectedChildren returns a copy of the ordered child sequence.
func (t *Tag) ExpectedChildren() []DocumentElement {
	return append([]DocumentElement(nil), t.expectedChildren...)
}

// IllegalAttributes returns the forbidden attribute names, sorted.
func (t *Tag) IllegalAttributes() []string {
	out := make([]string, 0, len(t.illegalAttributes))
	for name := range t.illegalAttributes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (t *Tag) String() string {
	return "[tag = '" + t.name + "']"
}

// compile builds the per-Tag pattern cache on first use. sync.Once
// keeps a shared Tag safe under parallel validations.
func (t *Tag) compile() {
	t.compileOnce.Do(func() {
		t.compiled = make(map[string]*regexp.Regexp, len(t.expectedAttributes))
		t.badPatterns = map[string]struct{}{}
		for name, pattern := range t.expectedAttributes {
			re, err := compileFull(pattern)
			if err != nil {
				t.badPatterns[name] = struct{}{}
				continue
			}
			t.compiled[name] = re
		}
	})
}

// Match implements DocumentElement. Checks run in a fixed order: tag
// name, illegal attributes, expected attributes, then the ordered child
// scan. The first failed check stops matching of this subtree.
func (t *Tag) Match(n *Node) *Failure {
	if !t.candidate(n) {
		return &Failure{
			Kind:     KindTagNameMismatch,
			Path:     []string{t.name},
			Expected: t.name,
			Actual:   nodeLabel(n),
		}
	}

	attrs := make(map[string]string, len(n.Attributes))
	for k, v := range n.Attributes {
		attrs[strings.ToLower(k)] = v
	}

	for _, name := range t.IllegalAttributes() {
		if value, ok := attrs[name]; ok {
			return &Failure{
				Kind:      KindIllegalAttributePresent,
				Path:      []string{t.name},
				Attribute: name,
				Actual:    value,
			}
		}
	}

	t.compile()
	names := make([]string, 0, len(t.expectedAttributes))
	for name := range t.expectedAttributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		// A pattern that does not compile is a defect in the
		// expectation itself and outranks any verdict about the
		// document under test.
		if _, bad := t.badPatterns[name]; bad {
			return &Failure{
				Kind:      KindInvalidPattern,
				Path:      []string{t.name},
				Attribute: name,
				Pattern:   t.expectedAttributes[name],
			}
		}
		value, ok := attrs[name]
		if !ok {
			return &Failure{
				Kind:      KindAttributeMissing,
				Path:      []string{t.name},
				Attribute: name,
				Pattern:   t.expectedAttributes[name],
			}
		}
		if !t.compiled[name].MatchString(value) {
			return &Failure{
				Kind:      KindAttributeValueMismatch,
				Path:      []string{t.name},
				Attribute: name,
				Pattern:   t.expectedAttributes[name],
				Actual:    value,
			}
		}
	}

	pos := 0
	for _, expected := range t.expectedChildren {
		i := pos
		for i < len(n.Children) && !expected.candidate(n.Children[i]) {
			i++
		}
		if i == len(n.Children) {
			return &Failure{
				Kind:     KindChildNotFound,
				Path:     []string{t.name},
				Expected: fmt.Sprint(expected),
				Position: pos,
			}
		}
		// The first plausible child wins and the match is never
		// retried against a later sibling. A deeper mismatch there is
		// final; that keeps matching linear and failures deterministic
		// at the cost of the occasional false lead.
		if f := expected.Match(n.Children[i]); f != nil {
			f.Path = append([]string{t.name}, f.Path...)
			return f
		}
		pos = i + 1
	}

	return nil
}

func (t *Tag) candidate(n *Node) bool {
	return n.Type == ElementNode && strings.ToLower(n.Name) == t.name
}

// Text matches one text node whose trimmed content satisfies a regexp
// pattern in full. The pattern is compiled lazily and cached, like Tag
// attribute patterns.
type Text struct {
	pattern string

	compileOnce sync.Once
	re          *regexp.Regexp
	bad         bool
}

// NewText creates a text-content pattern.
func NewText(pattern string) *Text {
	return &Text{pattern: pattern}
}

// Pattern returns the registered content pattern.
func (t *Text) Pattern() string {
	return t.pattern
}

func (t *Text) String() string {
	return "[text ~ '" + t.pattern + "']"
}

// Match implements DocumentElement.
func (t *Text) Match(n *Node) *Failure {
	if n.Type != TextNode {
		return &Failure{
			Kind:    KindTextMismatch,
			Path:    []string{"#text"},
			Pattern: t.pattern,
			Actual:  nodeLabel(n),
		}
	}
	t.compileOnce.Do(func() {
		re, err := compileFull(t.pattern)
		if err != nil {
			t.bad = true
			return
		}
		t.re = re
	})
	if t.bad {
		return &Failure{
			Kind:    KindInvalidPattern,
			Path:    []string{"#text"},
			Pattern: t.pattern,
		}
	}
	if !t.re.MatchString(n.Data) {
		return &Failure{
			Kind:    KindTextMismatch,
			Path:    []string{"#text"},
			Pattern: t.pattern,
			Actual:  n.Data,
		}
	}
	return nil
}

func (t *Text) candidate(n *Node) bool {
	return n.Type == TextNode
}

// Comment matches one comment node by exact content.
type Comment struct {
	content string
}

// NewComment creates a comment pattern.
func NewComment(content string) *Comment {
	return &Comment{content: content}
}

// Content returns the expected comment content.
func (c *Comment) Content() string {
	return c.content
}

func (c *Comment) String() string {
	return "[comment = '" + c.content + "']"
}

// Match implements DocumentElement.
func (c *Comment) Match(n *Node) *Failure {
	if n.Type != CommentNode || n.Data != c.content {
		actual := nodeLabel(n)
		if n.Type == CommentNode {
			actual = n.Data
		}
		return &Failure{
			Kind:     KindCommentMismatch,
			Path:     []string{"#comment"},
			Expected: c.content,
			Actual:   actual,
		}
	}
	return nil
}

func (c *Comment) candidate(n *Node) bool {
	return n.Type == CommentNode
}

// compileFull anchors pattern so attribute and text values must match
// it in full, not merely contain a match.
func compileFull(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`\A(?:` + pattern + `)\z`)
}
