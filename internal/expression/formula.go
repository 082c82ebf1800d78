package expression

import (
	"fmt"
	"strings"
)

// Formula is a parsed boolean expression bound to the predicates it may reference.
// It is immutable and can be evaluated against any number of rows.
type Formula struct {
	root       *Node
	text       string
	predicates []*Predicate
}

// NewFormula parses text against the given predicates. Predicate names must be unique;
// the formula may reference only those names.
func NewFormula(predicates []*Predicate, text string) (*Formula, error) {
	known := make(map[string]bool, len(predicates))
	byName := make(map[string]*Predicate, len(predicates))
	for _, p := range predicates {
		if p == nil {
			return nil, fmt.Errorf("%w: nil predicate", ErrInvalidOperator)
		}
		if known[p.Name()] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name())
		}
		known[p.Name()] = true
		byName[p.Name()] = p
	}

	root, err := Parse(text, known)
	if err != nil {
		return nil, err
	}

	// Keep definition order for the referenced subset.
	referenced := make(map[string]bool)
	for _, name := range root.References() {
		referenced[name] = true
	}
	used := make([]*Predicate, 0, len(referenced))
	for _, p := range predicates {
		if referenced[p.Name()] {
			used = append(used, p)
		}
	}

	return &Formula{
		root:       root,
		text:       strings.TrimSpace(text),
		predicates: used,
	}, nil
}

// Text returns the formula as authored, trimmed.
func (f *Formula) Text() string { return f.text }

// Root returns the parsed tree.
func (f *Formula) Root() *Node { return f.root }

// Predicates returns the referenced predicates in definition order.
func (f *Formula) Predicates() []*Predicate {
	return append([]*Predicate(nil), f.predicates...)
}

// Columns returns the distinct columns the formula reads, in first-use order.
func (f *Formula) Columns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, p := range f.predicates {
		if !seen[p.Column()] {
			seen[p.Column()] = true
			cols = append(cols, p.Column())
		}
	}
	return cols
}

// Results evaluates every referenced predicate against the row.
func (f *Formula) Results(row Row) (map[string]bool, error) {
	results := make(map[string]bool, len(f.predicates))
	for _, p := range f.predicates {
		ok, err := p.Evaluate(row)
		if err != nil {
			return nil, fmt.Errorf("predicate %s: %w", p.Name(), err)
		}
		results[p.Name()] = ok
	}
	return results, nil
}

// Match evaluates the formula for one row.
func (f *Formula) Match(row Row) (bool, error) {
	results, err := f.Results(row)
	if err != nil {
		return false, err
	}
	return Evaluate(f.root, results)
}
