package query

import (
	"fmt"
	"strings"

	"astfind/internal/core/errors"
)

// SyntaxError describes why a query was rejected and where.
type SyntaxError struct {
	Offset int
	Token  string
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("offset %d: %s", e.Offset, e.Reason)
	}
	return fmt.Sprintf("offset %d near %q: %s", e.Offset, e.Token, e.Reason)
}

// Parse turns query text into a resolved Query. Every failure is an E_QUERY
// domain error wrapping a *SyntaxError.
func Parse(input string) (*Query, error) {
	p := &Parser{tokens: NewLexer(input).Tokenize()}
	root, err := p.parse()
	if err != nil {
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeQuery, "invalid query"),
			errors.CtxOffset, err.Offset,
		)
	}
	return &Query{Root: root, Leaves: p.leaves, Source: input}, nil
}

// MustParse is Parse for queries known to be valid; it panics otherwise.
func MustParse(input string) *Query {
	q, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return q
}

// Parser is a recursive-descent parser over lexer tokens.
type Parser struct {
	tokens  []Token
	current int
	leaves  []*Leaf
}

func (p *Parser) parse() (Expr, *SyntaxError) {
	if p.peek().Type == TokenEOF {
		return nil, p.errorAt(p.peek(), "empty query")
	}
	root, err := p.parseExpr(nil)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.errorAt(tok, "unexpected trailing input")
	}
	if c, ok := root.(*Combinator); ok && c.Op == OpNot {
		return nil, &SyntaxError{
			Offset: c.Pos,
			Token:  "not",
			Reason: "not() must be an operand of and() or or(); at top level there is nothing to subtract from",
		}
	}
	return root, nil
}

// parseExpr parses leaf | combinator. parent is the enclosing combinator, or
// nil at top level.
func (p *Parser) parseExpr(parent *Combinator) (Expr, *SyntaxError) {
	tok := p.next()
	switch tok.Type {
	case TokenIdent:
	case TokenIllegal:
		return nil, p.errorAt(tok, "unexpected character")
	default:
		return nil, p.errorAt(tok, "expected pattern kind or combinator, got "+tok.Type.String())
	}

	name := strings.ToLower(tok.Value)
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}

	if kind, ok := kindsByName[name]; ok {
		return p.parseLeaf(kind, tok.Position)
	}
	if op, ok := opsByName[name]; ok {
		if op == OpNot && parent != nil && parent.Op == OpNot {
			return nil, &SyntaxError{Offset: tok.Position, Token: tok.Value, Reason: "not() cannot be nested directly inside not()"}
		}
		return p.parseCombinator(op, tok.Position)
	}
	return nil, &SyntaxError{
		Offset: tok.Position,
		Token:  tok.Value,
		Reason: "unknown pattern kind or combinator (expected call, import, def, and, or, not)",
	}
}

func (p *Parser) parseLeaf(kind Kind, pos int) (Expr, *SyntaxError) {
	leaf := &Leaf{ID: len(p.leaves), Kind: kind, Pos: pos}
	p.leaves = append(p.leaves, leaf)

	if p.peek().Type == TokenRParen {
		p.next()
		return leaf, nil
	}

	seen := make(map[string]bool)
	for {
		fieldTok := p.next()
		if fieldTok.Type != TokenIdent {
			return nil, p.errorAt(fieldTok, "expected predicate field, got "+fieldTok.Type.String())
		}
		field := strings.ToLower(fieldTok.Value)
		if !fieldAllowed(kind, field) {
			return nil, &SyntaxError{
				Offset: fieldTok.Position,
				Token:  fieldTok.Value,
				Reason: fmt.Sprintf("unknown field for %s (allowed: %s)", kind, strings.Join(FieldsFor(kind), ", ")),
			}
		}
		if seen[field] {
			return nil, &SyntaxError{Offset: fieldTok.Position, Token: fieldTok.Value, Reason: "duplicate field in one pattern"}
		}
		seen[field] = true

		if _, err := p.expect(TokenEquals); err != nil {
			return nil, err
		}
		reTok := p.next()
		if reTok.Type != TokenRegex {
			return nil, p.errorAt(reTok, "expected regex literal like /.../ for "+field)
		}
		pred, err := CompilePredicate(field, reTok.Value, reTok.Flags)
		if err != nil {
			return nil, &SyntaxError{Offset: reTok.Position, Token: "/" + reTok.Value + "/", Reason: err.Error()}
		}
		leaf.Predicates = append(leaf.Predicates, pred)

		sep := p.next()
		if sep.Type == TokenRParen {
			break
		}
		if sep.Type != TokenComma {
			return nil, p.errorAt(sep, "expected ',' or ')' after predicate")
		}
	}
	sortPredicates(leaf.Predicates)
	return leaf, nil
}

func (p *Parser) parseCombinator(op Op, pos int) (Expr, *SyntaxError) {
	c := &Combinator{Op: op, Pos: pos}
	if p.peek().Type != TokenRParen {
		for {
			child, err := p.parseExpr(c)
			if err != nil {
				return nil, err
			}
			c.Children = append(c.Children, child)
			sep := p.next()
			if sep.Type == TokenRParen {
				break
			}
			if sep.Type != TokenComma {
				return nil, p.errorAt(sep, "expected ',' or ')' between arguments")
			}
		}
	} else {
		p.next()
	}

	switch op {
	case OpNot:
		if len(c.Children) != 1 {
			return nil, &SyntaxError{
				Offset: pos,
				Token:  "not",
				Reason: fmt.Sprintf("not() takes exactly one argument, got %d", len(c.Children)),
			}
		}
	default:
		if len(c.Children) == 0 {
			return nil, &SyntaxError{Offset: pos, Token: op.String(), Reason: op.String() + "() requires at least one argument"}
		}
		if positiveChildren(c) == 0 {
			return nil, &SyntaxError{
				Offset: pos,
				Token:  op.String(),
				Reason: op.String() + "() needs at least one argument that is not a not(); there is nothing to subtract from",
			}
		}
	}
	return c, nil
}

func positiveChildren(c *Combinator) int {
	n := 0
	for _, child := range c.Children {
		if inner, ok := child.(*Combinator); ok && inner.Op == OpNot {
			continue
		}
		n++
	}
	return n
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) next() Token {
	tok := p.tokens[p.current]
	if tok.Type != TokenEOF {
		p.current++
	}
	return tok
}

func (p *Parser) expect(tt TokenType) (Token, *SyntaxError) {
	tok := p.next()
	if tok.Type != tt {
		return tok, p.errorAt(tok, "expected "+tt.String()+", got "+tok.Type.String())
	}
	return tok, nil
}

func (p *Parser) errorAt(tok Token, reason string) *SyntaxError {
	value := tok.Value
	if tok.Type == TokenRegex {
		value = "/" + tok.Value + "/"
	}
	return &SyntaxError{Offset: tok.Position, Token: value, Reason: reason}
}
