package authoring

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/sift/internal/expression"
	"github.com/Veraticus/sift/internal/model"
	"gopkg.in/yaml.v3"
)

// Filter is a decoded row filter or count specification.
type Filter struct {
	Formula *expression.Formula
}

// Derivation is a decoded 0/1 column specification.
type Derivation struct {
	Formula *expression.Formula
	Column  string
}

// Categorization is a decoded category column specification.
type Categorization struct {
	Categories *expression.CategoryList
	Column     string
}

// DecodeFilter reads a filter document: expressions and evaluation, no new column.
func DecodeFilter(r io.Reader) (*Filter, error) {
	doc, err := decodeDocument(r)
	if err != nil {
		return nil, err
	}
	if doc.NewColumnName != "" {
		return nil, &MalformedInputError{Path: "new_column_name", Message: "a filter does not create a column"}
	}

	f, err := buildFormula(doc.Expressions, doc.Evaluation, "expressions")
	if err != nil {
		return nil, err
	}
	return &Filter{Formula: f}, nil
}

// DecodeDerivation reads a derivation document: new_column_name, expressions and evaluation.
func DecodeDerivation(r io.Reader) (*Derivation, error) {
	doc, err := decodeDocument(r)
	if err != nil {
		return nil, err
	}
	column, err := requireColumn(doc)
	if err != nil {
		return nil, err
	}

	f, err := buildFormula(doc.Expressions, doc.Evaluation, "expressions")
	if err != nil {
		return nil, err
	}
	return &Derivation{Column: column, Formula: f}, nil
}

// DecodeCategories reads a category document: new_column_name and an ordered list of
// category rules, each with its own filters and evaluation.
func DecodeCategories(r io.Reader) (*Categorization, error) {
	doc, err := decodeDocument(r)
	if err != nil {
		return nil, err
	}
	column, err := requireColumn(doc)
	if err != nil {
		return nil, err
	}
	if doc.Evaluation != "" {
		return nil, &MalformedInputError{Path: "evaluation", Message: "categories carry their own category_evaluation"}
	}

	rules := make([]*expression.CategoryRule, 0, len(doc.Expressions))
	for i := range doc.Expressions {
		path := fmt.Sprintf("expressions[%d]", i)

		var raw rawCategory
		if err := decodeStrict(&doc.Expressions[i], path, &raw, categoryFields); err != nil {
			return nil, err
		}
		if strings.TrimSpace(raw.Name) == "" {
			return nil, malformed(&doc.Expressions[i], path, "category_name is required")
		}

		preds, err := buildPredicates(raw.Filters, path+".category_filters")
		if err != nil {
			return nil, err
		}
		rule, err := expression.NewCategoryRule(raw.Name, preds, raw.Evaluation)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rules = append(rules, rule)
	}

	return &Categorization{Column: column, Categories: expression.NewCategoryList(rules)}, nil
}

// Validate decodes body as the given kind and discards the result.
func Validate(kind model.SpecKind, body []byte) error {
	var err error
	switch kind {
	case model.SpecKindFilter:
		_, err = DecodeFilter(bytes.NewReader(body))
	case model.SpecKindDerive:
		_, err = DecodeDerivation(bytes.NewReader(body))
	case model.SpecKindCategorize:
		_, err = DecodeCategories(bytes.NewReader(body))
	default:
		err = fmt.Errorf("%w: %q", model.ErrInvalidSpecKind, kind)
	}
	return err
}

func requireColumn(doc *document) (string, error) {
	column := strings.TrimSpace(doc.NewColumnName)
	if column == "" {
		return "", &MalformedInputError{Path: "new_column_name", Message: "a column name is required"}
	}
	return column, nil
}

func buildFormula(nodes []yaml.Node, evaluation, path string) (*expression.Formula, error) {
	preds, err := buildPredicates(nodes, path)
	if err != nil {
		return nil, err
	}
	return expression.NewFormula(preds, evaluation)
}

func buildPredicates(nodes []yaml.Node, path string) ([]*expression.Predicate, error) {
	if len(nodes) == 0 {
		return nil, &MalformedInputError{Path: path, Message: "at least one predicate is required"}
	}

	preds := make([]*expression.Predicate, 0, len(nodes))
	for i := range nodes {
		def, err := decodeNamedPredicate(&nodes[i], fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		p, err := expression.NewPredicate(def)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

// decodeNamedPredicate accepts either a [name, {...}] pair or a single-key {name: {...}} object.
func decodeNamedPredicate(node *yaml.Node, path string) (expression.Definition, error) {
	var nameNode, bodyNode *yaml.Node
	switch {
	case node.Kind == yaml.SequenceNode && len(node.Content) == 2:
		nameNode, bodyNode = node.Content[0], node.Content[1]
	case node.Kind == yaml.MappingNode && len(node.Content) == 2:
		nameNode, bodyNode = node.Content[0], node.Content[1]
	default:
		return expression.Definition{}, malformed(node, path, "expected [name, {column, operator, compare_with, compare_as}] or {name: {...}}")
	}
	if nameNode.Kind != yaml.ScalarNode || strings.TrimSpace(nameNode.Value) == "" {
		return expression.Definition{}, malformed(nameNode, path, "predicate name must be a non-empty string")
	}
	name := strings.TrimSpace(nameNode.Value)
	path += "." + name

	var raw rawPredicate
	if err := decodeStrict(bodyNode, path, &raw, predicateFields); err != nil {
		return expression.Definition{}, err
	}
	if strings.TrimSpace(raw.Operator) == "" {
		return expression.Definition{}, malformed(bodyNode, path, "operator is required")
	}

	domain, err := expression.ParseDomain(raw.CompareAs)
	if err != nil {
		return expression.Definition{}, &MalformedInputError{Path: path + ".compare_as", Line: bodyNode.Line, Message: "unsupported compare_as", Err: err}
	}

	def := expression.Definition{
		Name:     name,
		Column:   raw.Column,
		Operator: expression.Operator(raw.Operator),
		Domain:   domain,
	}

	cw := &raw.CompareWith
	switch cw.Kind {
	case yaml.ScalarNode:
		if cw.Tag == "!!null" {
			return expression.Definition{}, malformed(cw, path, "compare_with cannot be null")
		}
		def.Literal = cw.Value
	case yaml.SequenceNode:
		def.IsList = true
		for _, item := range cw.Content {
			if item.Kind != yaml.ScalarNode || item.Tag == "!!null" {
				return expression.Definition{}, malformed(item, path+".compare_with", "list entries must be plain values")
			}
			def.Needles = append(def.Needles, item.Value)
		}
	case 0:
		return expression.Definition{}, malformed(bodyNode, path, "compare_with is required")
	default:
		return expression.Definition{}, malformed(cw, path, "compare_with must be a value or a list of values")
	}

	return def, nil
}
