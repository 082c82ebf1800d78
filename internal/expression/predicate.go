package expression

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Operator is the comparison a predicate applies.
type Operator string

// Relational and substring operators. Fuzzy operators are written FUZZ_MIN_SCORE_<N>.
const (
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpContains       Operator = "CONTAINS"
	OpStartsWith     Operator = "STARTS_WITH"
	OpNotContains    Operator = "DOES_NOT_CONTAIN"
)

// FuzzyPrefix starts every fuzzy-match operator.
const FuzzyPrefix = "FUZZ_MIN_SCORE_"

// FuzzyOperator builds the fuzzy operator for a minimum score.
func FuzzyOperator(minScore int) Operator {
	return Operator(FuzzyPrefix + strconv.Itoa(minScore))
}

// fuzzyThreshold reports the minimum score of a fuzzy operator.
func fuzzyThreshold(op Operator) (int, bool, error) {
	s, ok := strings.CutPrefix(string(op), FuzzyPrefix)
	if !ok {
		return 0, false, nil
	}
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, true, fmt.Errorf("minimum score must be written as digits, got %q", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > 100 {
		return 0, true, fmt.Errorf("minimum score must be an integer between 0 and 100, got %q", s)
	}
	return n, true, nil
}

var (
	orderedOperators = map[Operator]bool{
		OpEqual: true, OpNotEqual: true,
		OpGreater: true, OpLess: true, OpGreaterOrEqual: true, OpLessOrEqual: true,
	}
	textOperators = map[Operator]bool{
		OpEqual: true, OpNotEqual: true,
		OpContains: true, OpStartsWith: true, OpNotContains: true,
	}
)

// Definition is the authored, unvalidated shape of a predicate.
type Definition struct {
	Name     string
	Column   string
	Operator Operator
	Domain   Domain
	// Literal is used by relational and substring operators.
	Literal string
	// Needles is used by fuzzy operators.
	Needles []string
	// IsList records whether compare_with was authored as a list.
	IsList bool
}

// Predicate is one named, validated, immutable atomic test.
type Predicate struct {
	name     string
	column   string
	operator Operator
	domain   Domain
	literal  string
	needles  []string
	minScore int
	fuzzy    bool
}

// NewPredicate validates a definition. Fuzzy operators force the TEXT domain.
func NewPredicate(def Definition) (*Predicate, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("%w: predicate name cannot be empty", ErrInvalidOperator)
	}
	if strings.TrimSpace(def.Column) == "" {
		return nil, &InvalidOperatorError{Predicate: def.Name, Operator: string(def.Operator), Domain: def.Domain, Reason: "no column given"}
	}

	p := &Predicate{
		name:     def.Name,
		column:   def.Column,
		operator: Operator(strings.ToUpper(strings.TrimSpace(string(def.Operator)))),
		domain:   def.Domain,
	}
	if p.domain == "" {
		p.domain = DomainText
	}

	minScore, fuzzy, err := fuzzyThreshold(p.operator)
	if err != nil {
		return nil, &InvalidOperatorError{Predicate: def.Name, Operator: string(def.Operator), Domain: DomainText, Reason: err.Error()}
	}

	if fuzzy {
		p.domain = DomainText
		p.fuzzy = true
		p.minScore = minScore
		needles := def.Needles
		if !def.IsList {
			needles = []string{def.Literal}
		}
		if len(needles) == 0 {
			return nil, p.invalid("fuzzy match needs at least one comparison value")
		}
		p.needles = append([]string(nil), needles...)
		return p, nil
	}

	if def.IsList {
		return nil, p.invalid("a list of comparison values is only valid with FUZZ_MIN_SCORE_<N>")
	}
	p.literal = def.Literal

	switch p.domain {
	case DomainNumber, DomainTimestamp:
		if !orderedOperators[p.operator] {
			return nil, p.invalid("expected one of == != > < >= <=")
		}
		// Reject a literal that could never compare, before any row is read.
		if _, err := CoerceValue(p.domain, p.literal); err != nil {
			return nil, p.withColumn(err)
		}
	case DomainText:
		if !textOperators[p.operator] {
			return nil, p.invalid("expected one of == != CONTAINS STARTS_WITH DOES_NOT_CONTAIN FUZZ_MIN_SCORE_<N>")
		}
	default:
		return nil, p.invalid("unknown domain")
	}

	return p, nil
}

func (p *Predicate) invalid(reason string) error {
	return &InvalidOperatorError{Predicate: p.name, Operator: string(p.operator), Domain: p.domain, Reason: reason}
}

// Name returns the predicate's name.
func (p *Predicate) Name() string { return p.name }

// Column returns the column the predicate reads.
func (p *Predicate) Column() string { return p.column }

// Operator returns the normalized operator.
func (p *Predicate) Operator() Operator { return p.operator }

// Domain returns the effective comparison domain.
func (p *Predicate) Domain() Domain { return p.domain }

// String renders the predicate the way it reads in a formula listing.
func (p *Predicate) String() string {
	if p.fuzzy {
		return fmt.Sprintf("%s %s %q", p.column, p.operator, p.needles)
	}
	return fmt.Sprintf("%s %s %q (%s)", p.column, p.operator, p.literal, p.domain)
}

// Evaluate tests one row. It fails only when the column is absent or a value cannot be coerced.
func (p *Predicate) Evaluate(row Row) (bool, error) {
	cell, ok := row.Value(p.column)
	if !ok {
		return false, &MissingColumnError{Column: p.column}
	}

	if p.fuzzy {
		for _, needle := range p.needles {
			if Ratio(cell, needle) >= float64(p.minScore) {
				return true, nil
			}
		}
		return false, nil
	}

	if p.domain == DomainText {
		return p.evaluateText(cell), nil
	}

	left, right, err := Coerce(p.domain, cell, p.literal)
	if err != nil {
		return false, p.withColumn(err)
	}

	c := left.Compare(right)
	switch p.operator {
	case OpEqual:
		return c == 0, nil
	case OpNotEqual:
		return c != 0, nil
	case OpGreater:
		return c > 0, nil
	case OpLess:
		return c < 0, nil
	case OpGreaterOrEqual:
		return c >= 0, nil
	case OpLessOrEqual:
		return c <= 0, nil
	}
	return false, p.invalid("unsupported operator")
}

func (p *Predicate) evaluateText(cell string) bool {
	switch p.operator {
	case OpEqual:
		return cell == p.literal
	case OpNotEqual:
		return cell != p.literal
	case OpContains:
		return strings.Contains(cell, p.literal)
	case OpStartsWith:
		return strings.HasPrefix(cell, p.literal)
	case OpNotContains:
		return !strings.Contains(cell, p.literal)
	}
	return false
}

func (p *Predicate) withColumn(err error) error {
	var ce *CoercionError
	if errors.As(err, &ce) {
		ce.Column = p.column
	}
	return err
}
