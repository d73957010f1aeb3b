package query

import (
	"sort"
	"strings"
)

// Kind is one of the three generic pattern intents.
type Kind int

const (
	KindCall Kind = iota
	KindImport
	KindDef
)

func (k Kind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindImport:
		return "import"
	case KindDef:
		return "def"
	default:
		return "unknown"
	}
}

var kindsByName = map[string]Kind{
	"call":   KindCall,
	"import": KindImport,
	"def":    KindDef,
}

// Op is a boolean combinator.
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpNot
)

func (o Op) String() string {
	switch o {
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	case OpNot:
		return "not"
	default:
		return "unknown"
	}
}

var opsByName = map[string]Op{
	"and": OpAnd,
	"or":  OpOr,
	"not": OpNot,
}

// Expr is a node of a parsed query: either a *Leaf or a *Combinator.
type Expr interface {
	String() string
	Offset() int
	exprNode()
}

// Leaf is a single pattern such as call(callee=/^foo$/). ID is the leaf's
// position in written order and indexes Query.Leaves.
type Leaf struct {
	ID         int
	Kind       Kind
	Predicates []Predicate
	Pos        int
}

func (l *Leaf) exprNode()   {}
func (l *Leaf) Offset() int { return l.Pos }

func (l *Leaf) String() string {
	parts := make([]string, 0, len(l.Predicates))
	for _, p := range l.Predicates {
		parts = append(parts, p.String())
	}
	return l.Kind.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Combinator applies and/or/not over its children.
type Combinator struct {
	Op       Op
	Children []Expr
	Pos      int
}

func (c *Combinator) exprNode()   {}
func (c *Combinator) Offset() int { return c.Pos }

func (c *Combinator) String() string {
	parts := make([]string, 0, len(c.Children))
	for _, child := range c.Children {
		parts = append(parts, child.String())
	}
	return c.Op.String() + "(" + strings.Join(parts, ", ") + ")"
}

// Query is a fully resolved query. It is immutable after Parse and safe to
// share between goroutines.
type Query struct {
	Root   Expr
	Leaves []*Leaf
	Source string
}

// String renders the canonical form: predicates sorted by field, single
// spaces after commas.
func (q *Query) String() string {
	if q == nil || q.Root == nil {
		return ""
	}
	return q.Root.String()
}

// Kinds reports which intents the query needs, so matchers can skip
// recognizers nobody asked for.
func (q *Query) Kinds() map[Kind]bool {
	kinds := make(map[Kind]bool, 3)
	for _, leaf := range q.Leaves {
		kinds[leaf.Kind] = true
	}
	return kinds
}

func sortPredicates(preds []Predicate) {
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Field < preds[j].Field
	})
}
