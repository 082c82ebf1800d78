package expression

import "unicode"

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenName
	tokenAnd
	tokenOr
	tokenLParen
	tokenRParen
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of formula"
	case tokenName:
		return "predicate name"
	case tokenAnd:
		return "&&"
	case tokenOr:
		return "||"
	case tokenLParen:
		return "("
	case tokenRParen:
		return ")"
	}
	return "unknown token"
}

type token struct {
	text string
	typ  tokenType
	pos  int
}

// tokenize splits a formula into tokens, skipping whitespace.
func tokenize(formula string) ([]token, error) {
	var tokens []token
	runes := []rune(formula)
	// offsets maps rune index to byte offset so errors point into the original text.
	offsets := make([]int, len(runes)+1)
	b := 0
	for i, r := range runes {
		offsets[i] = b
		b += len(string(r))
	}
	offsets[len(runes)] = b

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{typ: tokenLParen, text: "(", pos: offsets[i]})
			i++
		case r == ')':
			tokens = append(tokens, token{typ: tokenRParen, text: ")", pos: offsets[i]})
			i++
		case r == '&' || r == '|':
			if i+1 >= len(runes) || runes[i+1] != r {
				return nil, &SyntaxError{Formula: formula, Position: offsets[i], Message: "expected " + string(r) + string(r)}
			}
			typ := tokenAnd
			if r == '|' {
				typ = tokenOr
			}
			tokens = append(tokens, token{typ: typ, text: string([]rune{r, r}), pos: offsets[i]})
			i += 2
		case isNameRune(r):
			start := i
			for i < len(runes) && isNameRune(runes[i]) {
				i++
			}
			tokens = append(tokens, token{typ: tokenName, text: string(runes[start:i]), pos: offsets[start]})
		default:
			return nil, &SyntaxError{Formula: formula, Position: offsets[i], Message: "unexpected character " + string(r)}
		}
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: len(formula)})
	return tokens, nil
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
