package query

import (
	"unicode"
)

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenLParen
	TokenRParen
	TokenComma
	TokenEquals
	TokenRegex
	TokenIllegal
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of query"
	case TokenIdent:
		return "identifier"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenComma:
		return "','"
	case TokenEquals:
		return "'='"
	case TokenRegex:
		return "regex"
	default:
		return "illegal token"
	}
}

// Token is a lexeme with its byte offset in the query text. For TokenRegex,
// Value holds the body between the slashes and Flags any trailing flag letters.
type Token struct {
	Type     TokenType
	Value    string
	Flags    string
	Position int
}

// Lexer scans query text into tokens. Whitespace between tokens is dropped.
type Lexer struct {
	input    string
	position int
	tokens   []Token
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		tokens: make([]Token, 0, 16),
	}
}

// Tokenize scans the whole input. It stops at the first illegal token, which
// is returned as the last token before EOF so the parser can report it.
func (l *Lexer) Tokenize() []Token {
	for l.position < len(l.input) {
		start := l.position
		c := l.input[l.position]
		switch {
		case isSpace(c):
			l.position++
		case c == '(':
			l.addToken(TokenLParen, "(", start)
			l.position++
		case c == ')':
			l.addToken(TokenRParen, ")", start)
			l.position++
		case c == ',':
			l.addToken(TokenComma, ",", start)
			l.position++
		case c == '=':
			l.addToken(TokenEquals, "=", start)
			l.position++
		case c == '/':
			if !l.lexRegex() {
				l.addToken(TokenIllegal, l.input[start:], start)
				l.position = len(l.input)
			}
		case isIdentStart(c):
			l.lexIdent()
		default:
			l.addToken(TokenIllegal, string(c), start)
			l.position = len(l.input)
		}
	}
	l.addToken(TokenEOF, "", l.position)
	return l.tokens
}

func (l *Lexer) lexIdent() {
	start := l.position
	for l.position < len(l.input) && isIdentPart(l.input[l.position]) {
		l.position++
	}
	l.addToken(TokenIdent, l.input[start:l.position], start)
}

// lexRegex scans /body/flags. A backslash escapes the next byte, so `\/`
// does not terminate the literal; the escape is kept in the body since RE2
// accepts `\/` as a literal slash.
func (l *Lexer) lexRegex() bool {
	start := l.position
	i := l.position + 1
	for i < len(l.input) {
		switch l.input[i] {
		case '\\':
			i += 2
			continue
		case '/':
			body := l.input[start+1 : i]
			i++
			flagStart := i
			for i < len(l.input) && isRegexFlag(l.input[i]) {
				i++
			}
			l.tokens = append(l.tokens, Token{
				Type:     TokenRegex,
				Value:    body,
				Flags:    l.input[flagStart:i],
				Position: start,
			})
			l.position = i
			return true
		}
		i++
	}
	return false
}

func (l *Lexer) addToken(tokenType TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{
		Type:     tokenType,
		Value:    value,
		Position: pos,
	})
}

func isSpace(c byte) bool {
	return unicode.IsSpace(rune(c))
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isRegexFlag(c byte) bool {
	return c == 'i' || c == 's' || c == 'm' || c == 'U'
}
