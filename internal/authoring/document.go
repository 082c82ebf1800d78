// Package authoring decodes user-edited specification documents into validated predicates,
// formulas and category lists.
//
// Documents are YAML; JSON is accepted as-is since it is valid YAML. Every call builds fresh
// values from its input and keeps nothing between calls.
package authoring

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMalformedInput is matched by every error about the document's own structure.
var ErrMalformedInput = errors.New("malformed specification")

// MalformedInputError reports a document that does not have the expected shape.
type MalformedInputError struct {
	Err     error
	Path    string
	Message string
	Line    int
}

func (e *MalformedInputError) Error() string {
	var b strings.Builder
	b.WriteString("malformed specification")
	if e.Path != "" {
		b.WriteString(" at " + e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	b.WriteString(": " + e.Message)
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the decoder error, if any.
func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedInput.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

func malformed(node *yaml.Node, path, format string, args ...any) error {
	e := &MalformedInputError{Path: path, Message: fmt.Sprintf(format, args...)}
	if node != nil {
		e.Line = node.Line
	}
	return e
}

// document is the loose top-level shape shared by all variants. Expressions are kept as
// nodes because filters use [name, predicate] pairs and categories use objects.
type document struct {
	NewColumnName string      `yaml:"new_column_name"`
	Evaluation    string      `yaml:"evaluation"`
	Expressions   []yaml.Node `yaml:"expressions"`
}

// rawPredicate is one predicate body before validation.
type rawPredicate struct {
	Column      string    `yaml:"column"`
	Operator    string    `yaml:"operator"`
	CompareAs   string    `yaml:"compare_as"`
	CompareWith yaml.Node `yaml:"compare_with"`
}

// rawCategory is one category rule before validation.
type rawCategory struct {
	Name       string      `yaml:"category_name"`
	Evaluation string      `yaml:"category_evaluation"`
	Filters    []yaml.Node `yaml:"category_filters"`
}

func decodeDocument(r io.Reader) (*document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &MalformedInputError{Message: "document is empty"}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, &MalformedInputError{Message: "cannot decode document", Err: err}
	}
	if len(doc.Expressions) == 0 {
		return nil, &MalformedInputError{Path: "expressions", Message: "at least one expression is required"}
	}
	return &doc, nil
}

var (
	predicateFields = []string{"column", "operator", "compare_as", "compare_with"}
	categoryFields  = []string{"category_name", "category_evaluation", "category_filters"}
)

// decodeStrict decodes an object node, rejecting keys outside fields.
// yaml.Node.Decode has no KnownFields switch of its own.
func decodeStrict(node *yaml.Node, path string, out any, fields []string) error {
	if node.Kind != yaml.MappingNode {
		return malformed(node, path, "expected an object")
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if !slices.Contains(fields, key) {
			return malformed(node.Content[i], path, "unknown field %q", key)
		}
	}
	if err := node.Decode(out); err != nil {
		return &MalformedInputError{Path: path, Line: node.Line, Message: "cannot decode", Err: err}
	}
	return nil
}
