package expression

import "fmt"

// Evaluate computes a formula tree from precomputed predicate results. AND stops once its
// left side is false and OR stops once its left side is true; the left side is always
// evaluated first.
func Evaluate(node *Node, results map[string]bool) (bool, error) {
	if node == nil {
		return false, fmt.Errorf("%w: nil formula", ErrMissingResult)
	}

	switch node.Type {
	case NodeRef:
		v, ok := results[node.Name]
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrMissingResult, node.Name)
		}
		return v, nil
	case NodeAnd:
		left, err := Evaluate(node.Left, results)
		if err != nil || !left {
			return false, err
		}
		return Evaluate(node.Right, results)
	case NodeOr:
		left, err := Evaluate(node.Left, results)
		if err != nil {
			return false, err
		}
		if left {
			return true, nil
		}
		return Evaluate(node.Right, results)
	}

	return false, fmt.Errorf("unknown node type %d", node.Type)
}
