package expression

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultCategory labels rows that match no rule.
const DefaultCategory = "Uncategorized"

// ErrEmptyCategoryName is returned for a rule without a category name.
var ErrEmptyCategoryName = errors.New("category name cannot be empty")

// CategoryRule names a category and the formula a row must satisfy to receive it.
// Each rule owns its predicates, so two rules may both define Exp1.
type CategoryRule struct {
	formula *Formula
	name    string
}

// NewCategoryRule builds a rule from its own predicate set and formula text.
func NewCategoryRule(name string, predicates []*Predicate, formula string) (*CategoryRule, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyCategoryName
	}
	f, err := NewFormula(predicates, formula)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", name, err)
	}
	return &CategoryRule{name: name, formula: f}, nil
}

// Name returns the category label.
func (r *CategoryRule) Name() string { return r.name }

// Formula returns the rule's formula.
func (r *CategoryRule) Formula() *Formula { return r.formula }

// CategoryList resolves rows against rules in authored order.
type CategoryList struct {
	rules []*CategoryRule
}

// NewCategoryList keeps the rules in the given order.
func NewCategoryList(rules []*CategoryRule) *CategoryList {
	return &CategoryList{rules: append([]*CategoryRule(nil), rules...)}
}

// Rules returns the rules in evaluation order.
func (l *CategoryList) Rules() []*CategoryRule {
	return append([]*CategoryRule(nil), l.rules...)
}

// Columns returns every column any rule reads.
func (l *CategoryList) Columns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, r := range l.rules {
		for _, c := range r.formula.Columns() {
			if !seen[c] {
				seen[c] = true
				cols = append(cols, c)
			}
		}
	}
	return cols
}

// Resolve returns the name of the first rule the row satisfies, or DefaultCategory.
// Rules after the first match are not evaluated.
func (l *CategoryList) Resolve(row Row) (string, error) {
	for _, r := range l.rules {
		ok, err := r.formula.Match(row)
		if err != nil {
			return "", fmt.Errorf("category %q: %w", r.name, err)
		}
		if ok {
			return r.name, nil
		}
	}
	return DefaultCategory, nil
}
