package expression

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(name string) *Node { return &Node{Type: NodeRef, Name: name} }

func and(l, r *Node) *Node { return &Node{Type: NodeAnd, Left: l, Right: r} }

func or(l, r *Node) *Node { return &Node{Type: NodeOr, Left: l, Right: r} }

func knownNames(names ...string) map[string]bool {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	return known
}

func TestParse(t *testing.T) {
	known := knownNames("Exp1", "Exp2", "Exp3", "Exp4")

	tests := []struct {
		want    *Node
		name    string
		formula string
	}{
		{name: "single", formula: "Exp1", want: ref("Exp1")},
		{name: "whitespace", formula: "  Exp1\t&&\nExp2 ", want: and(ref("Exp1"), ref("Exp2"))},
		{name: "no whitespace", formula: "Exp1&&Exp2||Exp3", want: or(and(ref("Exp1"), ref("Exp2")), ref("Exp3"))},
		{name: "and binds tighter than or", formula: "Exp1 || Exp2 && Exp3", want: or(ref("Exp1"), and(ref("Exp2"), ref("Exp3")))},
		{name: "left associative or", formula: "Exp1 || Exp2 || Exp3", want: or(or(ref("Exp1"), ref("Exp2")), ref("Exp3"))},
		{name: "left associative and", formula: "Exp1 && Exp2 && Exp3", want: and(and(ref("Exp1"), ref("Exp2")), ref("Exp3"))},
		{name: "parentheses override", formula: "(Exp1 || Exp2) && Exp3", want: and(or(ref("Exp1"), ref("Exp2")), ref("Exp3"))},
		{name: "nested parentheses", formula: "((Exp1))", want: ref("Exp1")},
		{
			name:    "mixed",
			formula: "Exp1 && (Exp2 || Exp3) || Exp4",
			want:    or(and(ref("Exp1"), or(ref("Exp2"), ref("Exp3"))), ref("Exp4")),
		},
		{name: "repeated reference", formula: "Exp1 || Exp1", want: or(ref("Exp1"), ref("Exp1"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.formula, known)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.formula, diff)
			}
		})
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	known := knownNames("Exp1", "Exp2")

	tests := []struct {
		name    string
		formula string
		wantPos int
	}{
		{name: "empty", formula: "", wantPos: 0},
		{name: "blank", formula: "   ", wantPos: 0},
		{name: "unclosed", formula: "(Exp1 && Exp2", wantPos: 13},
		{name: "unopened", formula: "Exp1 && Exp2)", wantPos: 12},
		{name: "dangling operator", formula: "Exp1 &&", wantPos: 7},
		{name: "leading operator", formula: "|| Exp1", wantPos: 0},
		{name: "single ampersand", formula: "Exp1 & Exp2", wantPos: 5},
		{name: "single pipe", formula: "Exp1 | Exp2", wantPos: 5},
		{name: "missing operator", formula: "Exp1 Exp2", wantPos: 5},
		{name: "negation is not supported", formula: "!Exp1", wantPos: 0},
		{name: "empty group", formula: "()", wantPos: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.formula, known)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)

			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantPos, se.Position)
		})
	}
}

func TestParse_UnknownReference(t *testing.T) {
	_, err := Parse("Exp1 || Exp9", knownNames("Exp1", "Exp2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownReference)

	var ue *UnknownReferenceError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Exp9", ue.Name)
}

func TestNode_StringAndReferences(t *testing.T) {
	n, err := Parse("Exp2 || Exp1 && Exp2", knownNames("Exp1", "Exp2"))
	require.NoError(t, err)

	assert.Equal(t, "(Exp2 || (Exp1 && Exp2))", n.String())
	assert.Equal(t, []string{"Exp2", "Exp1"}, n.References())
}
