// Package specfile loads expected-structure trees from YAML or JSON
// fixture files, for the htmlexpect CLI and for test suites that keep
// their expectations next to their fixtures.
package specfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/htmlexpect"
)

// ElementSpec is the on-disk form of one expected-structure node.
// Exactly one of Tag, Text or Comment must be set; Attributes, Illegal
// and Children only apply to tags.
type ElementSpec struct {
	Tag        string            `yaml:"tag" json:"tag"`
	Attributes map[string]string `yaml:"attributes" json:"attributes"`
	Illegal    []string          `yaml:"illegal" json:"illegal"`
	Children   []ElementSpec     `yaml:"children" json:"children"`
	Text       string            `yaml:"text" json:"text"`
	Comment    string            `yaml:"comment" json:"comment"`
}

// Load reads path and builds the expected-structure tree it describes.
// A .json extension selects JSON; everything else is parsed as YAML.
func Load(path string) (htmlexpect.DocumentElement, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	var spec ElementSpec
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(b, &spec); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(b, &spec); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return Build(spec)
}

// Build converts a decoded spec node, and recursively its children,
// into model form.
func Build(spec ElementSpec) (htmlexpect.DocumentElement, error) {
	set := 0
	for _, s := range []string{spec.Tag, spec.Text, spec.Comment} {
		if s != "" {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("spec node must set exactly one of tag, text or comment")
	}

	if spec.Text != "" || spec.Comment != "" {
		if len(spec.Attributes) > 0 || len(spec.Illegal) > 0 || len(spec.Children) > 0 {
			return nil, fmt.Errorf("text and comment nodes cannot carry attributes or children")
		}
		if spec.Text != "" {
			return htmlexpect.NewText(spec.Text), nil
		}
		return htmlexpect.NewComment(spec.Comment), nil
	}

	tag := htmlexpect.NewTag(spec.Tag)
	for name, pattern := range spec.Attributes {
		tag.ExpectAttribute(name, pattern)
	}
	for _, name := range spec.Illegal {
		tag.ForbidAttribute(name)
	}
	for i, child := range spec.Children {
		e, err := Build(child)
		if err != nil {
			return nil, fmt.Errorf("child %d of <%s>: %w", i, spec.Tag, err)
		}
		tag.ExpectChild(e)
	}
	return tag, nil
}
