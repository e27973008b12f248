package parser

import (
	"bytes"

	sitter "github.com/smacker/go-tree-sitter"
)

// maxWalkDepth bounds the recursion into pathological trees.
const maxWalkDepth = 30

// walkNodes traverses every node below root depth-first in document order,
// calling fn with the node, its starting line and its depth. The root itself
// is not visited.
func walkNodes(root *sitter.Node, fn func(n *sitter.Node, line, depth int)) {
	var walk func(n *sitter.Node, depth int)
	walk = func(n *sitter.Node, depth int) {
		if depth > maxWalkDepth {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			fn(child, int(child.StartPoint().Row), depth)
			walk(child, depth+1)
		}
	}
	walk(root, 0)
}

// findFirst checks that n has the given type and descends along the type
// path, taking the first matching child at each step. Returns nil when any
// step has no match.
func findFirst(n *sitter.Node, nodeType string, path ...string) *sitter.Node {
	if n.Type() != nodeType {
		return nil
	}
	current := n
	for _, part := range path {
		var next *sitter.Node
		for i := 0; i < int(current.ChildCount()); i++ {
			child := current.Child(i)
			if child.Type() == part {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// nodeText returns the source text of a node.
func nodeText(n *sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

// nodeLines computes the block of lines covered by a node: its starting
// line through the line containing its last byte, end-exclusive.
func nodeLines(n *sitter.Node, source []byte) (begin, end int) {
	begin = int(n.StartPoint().Row)
	end = begin + bytes.Count(source[n.StartByte():n.EndByte()], []byte{'\n'}) + 1
	return begin, end
}
