package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Visitor is called for every node in depth-first pre-order. Returning false
// skips the node's children.
type Visitor func(node *sitter.Node) bool

// Walk visits root and all of its descendants, named and anonymous, exactly
// once each.
func Walk(root *sitter.Node, visit Visitor) {
	if root == nil {
		return
	}
	if !visit(root) {
		return
	}
	for i := uint(0); i < root.ChildCount(); i++ {
		Walk(root.Child(i), visit)
	}
}

// Text returns the source span of node. Invalid UTF-8 is replaced with
// U+FFFD so captures are always valid strings.
func Text(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(src)) || start > end {
		return ""
	}
	return strings.ToValidUTF8(string(src[start:end]), "\uFFFD")
}

// FieldText returns the text of node's child under field, or "".
func FieldText(node *sitter.Node, field string, src []byte) string {
	if node == nil {
		return ""
	}
	return Text(node.ChildByFieldName(field), src)
}

// ChildOfKind returns the first direct child whose kind is one of kinds.
func ChildOfKind(node *sitter.Node, kinds ...string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		for _, kind := range kinds {
			if child.Kind() == kind {
				return child
			}
		}
	}
	return nil
}

// NamedChildren returns node's named children in source order.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		out = append(out, node.NamedChild(i))
	}
	return out
}

// HasAncestor reports whether any ancestor of node, up to but excluding a
// node of a stop kind, has one of kinds.
func HasAncestor(node *sitter.Node, kinds []string, stop ...string) bool {
	if node == nil {
		return false
	}
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		kind := parent.Kind()
		for _, s := range stop {
			if kind == s {
				return false
			}
		}
		for _, k := range kinds {
			if kind == k {
				return true
			}
		}
	}
	return false
}
