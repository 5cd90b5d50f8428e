package mdast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// If walkFunc returns a non-nil error the walk stops immediately and
// returns that error.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	for child := root.FirstChild; child != nil; child = child.Next {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Enter is called before visiting children, leave after. Either callback
// may be nil.
func WalkWithContext(root *Node, enter, leave WalkFunc) error {
	if root == nil {
		return nil
	}

	if enter != nil {
		if err := enter(root); err != nil {
			return err
		}
	}

	for child := root.FirstChild; child != nil; child = child.Next {
		if err := WalkWithContext(child, enter, leave); err != nil {
			return err
		}
	}

	if leave != nil {
		if err := leave(root); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes in the forest matching the predicate.
func FindAll(roots []*Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	for _, root := range roots {
		//nolint:errcheck // the collector never fails
		Walk(root, func(node *Node) error {
			if predicate(node) {
				result = append(result, node)
			}
			return nil
		})
	}

	return result
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(roots []*Node, kind NodeKind) []*Node {
	return FindAll(roots, func(n *Node) bool {
		return n.Kind == kind
	})
}
