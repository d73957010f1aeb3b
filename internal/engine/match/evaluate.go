package match

import (
	"astfind/internal/engine/adapter"
	"astfind/internal/engine/parser"
	"astfind/internal/engine/query"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Input is everything needed to evaluate a query against one file.
type Input struct {
	Path    string
	Source  []byte
	Root    *sitter.Node
	Adapter adapter.Adapter
	// Context is the number of lines added on each side of an excerpt.
	Context int
}

// Evaluate walks the tree once in depth-first pre-order, offering every
// node to every leaf of q, then applies q's combinators. The result is in
// first-insertion order.
func Evaluate(in Input, q *query.Query) []Match {
	if in.Root == nil || in.Adapter == nil || q == nil || q.Root == nil {
		return nil
	}

	e := &evaluator{
		in:      in,
		lines:   NewLineIndex(in.Source),
		buckets: make([]*Set, len(q.Leaves)),
		wants:   q.Kinds(),
	}
	for i := range e.buckets {
		e.buckets[i] = NewSet(0)
	}

	parser.Walk(in.Root, e.visit(q.Leaves))
	return e.eval(q.Root).Items()
}

type evaluator struct {
	in      Input
	lines   *LineIndex
	buckets []*Set
	wants   map[query.Kind]bool
}

func (e *evaluator) visit(leaves []*query.Leaf) parser.Visitor {
	return func(node *sitter.Node) bool {
		if !node.IsNamed() {
			return true
		}
		captures := e.recognize(node)
		if len(captures) == 0 {
			return true
		}

		var built *Match
		for _, leaf := range leaves {
			capture, ok := captures[leaf.Kind]
			if !ok || !e.satisfies(leaf, node, capture) {
				continue
			}
			if built == nil {
				m := e.build(node)
				built = &m
			}
			m := *built
			m.Kind = leaf.Kind
			m.Score = ScoreFor(leaf.Kind)
			m.Capture = capture
			e.buckets[leaf.ID].Add(m)
		}
		return true
	}
}

// recognize asks the adapter about each intent the query uses.
func (e *evaluator) recognize(node *sitter.Node) map[query.Kind]adapter.Capture {
	var out map[query.Kind]adapter.Capture
	add := func(kind query.Kind, c adapter.Capture, ok bool) {
		if !ok {
			return
		}
		if out == nil {
			out = make(map[query.Kind]adapter.Capture, 1)
		}
		if c == nil {
			c = adapter.Capture{}
		}
		out[kind] = c
	}

	src := e.in.Source
	if e.wants[query.KindCall] {
		c, ok := e.in.Adapter.Call(node, src)
		add(query.KindCall, c, ok)
	}
	if e.wants[query.KindImport] {
		c, ok := e.in.Adapter.Import(node, src)
		add(query.KindImport, c, ok)
	}
	if e.wants[query.KindDef] {
		c, ok := e.in.Adapter.Definition(node, src)
		add(query.KindDef, c, ok)
	}
	return out
}

// satisfies reports whether every predicate of leaf holds. A predicate on
// an absent capture slot fails.
func (e *evaluator) satisfies(leaf *query.Leaf, node *sitter.Node, capture adapter.Capture) bool {
	for _, pred := range leaf.Predicates {
		switch {
		case query.IsSourceField(pred.Field):
			if !pred.Match(parser.Text(node, e.in.Source)) {
				return false
			}
		case pred.Field == query.FieldArg:
			if !anyMatch(pred, e.in.Adapter.Arguments(node, e.in.Source)) {
				return false
			}
		default:
			value, ok := capture.Get(pred.Field)
			if !ok || !pred.Match(value) {
				return false
			}
		}
	}
	return true
}

func anyMatch(pred query.Predicate, subjects []string) bool {
	for _, s := range subjects {
		if pred.Match(s) {
			return true
		}
	}
	return false
}

func (e *evaluator) build(node *sitter.Node) Match {
	start, end := NodeLines(node)
	return Match{
		Language:  e.in.Adapter.Language(),
		Path:      e.in.Path,
		StartLine: start,
		EndLine:   end,
		ChunkID:   ChunkID(e.in.Path, start, end),
		Excerpt:   e.lines.Excerpt(e.in.Source, start, end, e.in.Context),
	}
}

// NodeLines returns the 1-based inclusive line span of node. A node that
// ends at column 0 of a later line ends on the previous line.
func NodeLines(node *sitter.Node) (int, int) {
	startPos, endPos := node.StartPosition(), node.EndPosition()
	start := int(startPos.Row) + 1
	end := int(endPos.Row) + 1
	if endPos.Column == 0 && endPos.Row > startPos.Row {
		end--
	}
	return start, end
}

func (e *evaluator) eval(expr query.Expr) *Set {
	switch x := expr.(type) {
	case *query.Leaf:
		return e.buckets[x.ID]
	case *query.Combinator:
		return e.combine(x)
	}
	return NewSet(0)
}

// combine applies and/or to the positive children and subtracts the union
// of the not children.
func (e *evaluator) combine(c *query.Combinator) *Set {
	if c.Op == query.OpNot {
		// Only reachable for a bare not, which Parse rejects.
		return NewSet(0)
	}

	var positive, negative []*Set
	for _, child := range c.Children {
		if neg, ok := child.(*query.Combinator); ok && neg.Op == query.OpNot {
			negative = append(negative, e.eval(neg.Children[0]))
			continue
		}
		positive = append(positive, e.eval(child))
	}
	if len(positive) == 0 {
		return NewSet(0)
	}

	var result *Set
	switch c.Op {
	case query.OpAnd:
		result = Intersect(positive[0], positive[1:]...)
	default:
		result = Union(positive...)
	}
	return result.Subtract(Union(negative...))
}
