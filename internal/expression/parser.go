package expression

import (
	"fmt"
	"strings"
)

// NodeType distinguishes formula tree nodes.
type NodeType int

// Node types.
const (
	NodeRef NodeType = iota
	NodeAnd
	NodeOr
)

// Node is one formula tree node. Ref nodes carry Name; And/Or nodes carry Left and Right.
type Node struct {
	Left  *Node
	Right *Node
	Name  string
	Type  NodeType
}

// String renders the node fully parenthesized.
func (n *Node) String() string {
	switch n.Type {
	case NodeAnd:
		return "(" + n.Left.String() + " && " + n.Right.String() + ")"
	case NodeOr:
		return "(" + n.Left.String() + " || " + n.Right.String() + ")"
	default:
		return n.Name
	}
}

// References returns the predicate names the tree mentions, in first-seen order.
func (n *Node) References() []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.Type == NodeRef {
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(n)
	return names
}

// Parse builds a formula tree. known holds the names of the predicates defined alongside the
// formula; any other name is an UnknownReferenceError.
//
//	expr     := or_expr
//	or_expr  := and_expr ( "||" and_expr )*
//	and_expr := atom ( "&&" atom )*
//	atom     := "(" expr ")" | predicate_name
func Parse(formula string, known map[string]bool) (*Node, error) {
	if strings.TrimSpace(formula) == "" {
		return nil, &SyntaxError{Formula: formula, Position: 0, Message: "empty formula"}
	}

	tokens, err := tokenize(formula)
	if err != nil {
		return nil, err
	}

	p := &parser{formula: formula, tokens: tokens, known: known}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.typ != tokenEOF {
		if tok.typ == tokenRParen {
			return nil, p.errorAt(tok, "unbalanced parenthesis")
		}
		return nil, p.errorAt(tok, fmt.Sprintf("expected && or || before %q", tok.text))
	}

	return node, nil
}

type parser struct {
	known   map[string]bool
	formula string
	tokens  []token
	pos     int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.typ != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorAt(tok token, msg string) error {
	return &SyntaxError{Formula: p.formula, Position: tok.pos, Message: msg}
}

func (p *parser) parseOr() (*Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.peek().typ == tokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Node{Type: NodeOr, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (*Node, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for p.peek().typ == tokenAnd {
		p.next()
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = &Node{Type: NodeAnd, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAtom() (*Node, error) {
	tok := p.next()
	switch tok.typ {
	case tokenLParen:
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.typ != tokenRParen {
			return nil, p.errorAt(closing, "unbalanced parenthesis: expected )")
		}
		return node, nil
	case tokenName:
		if !p.known[tok.text] {
			return nil, &UnknownReferenceError{Name: tok.text}
		}
		return &Node{Type: NodeRef, Name: tok.text}, nil
	default:
		return nil, p.errorAt(tok, "expected predicate name or ( but found "+tok.typ.String())
	}
}
