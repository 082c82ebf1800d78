// Package expression implements named column predicates and the boolean formulas that
// combine them.
//
// A predicate compares one column of a row with a literal (or, for fuzzy matching, a list of
// literals) after reading both sides as a NUMBER, TIMESTAMP or TEXT value. A formula joins
// predicate names with && and ||, grouped by parentheses:
//
//	Exp1 || (Exp2 && Exp3)
//
// Predicates and formulas are validated once when built and never change afterwards, so a
// single Formula or CategoryList can be evaluated against every row of a table in turn.
//
// TEXT comparisons, including fuzzy ones, are case-sensitive.
package expression
