package kv

import (
	"fmt"
	"unicode/utf8"
)

// TokenKind classifies a token span.
type TokenKind uint8

const (
	// QuotedDouble is a span wrapped in double quotes, quotes included.
	QuotedDouble TokenKind = iota + 1
	// QuotedSingle is a span wrapped in single quotes, quotes included.
	QuotedSingle
	// Bare is an unquoted run bounded by the grammar delimiter.
	Bare
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case QuotedDouble:
		return "QUOTED_DOUBLE"
	case QuotedSingle:
		return "QUOTED_SINGLE"
	case Bare:
		return "BARE"
	default:
		return "UNKNOWN"
	}
}

// Token is a span of the scanned input. Start and End are byte offsets, End exclusive.
type Token struct {
	Kind  TokenKind
	Value string
	Start int
	End   int
}

// String returns a debug representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Value)
}

// Grammar recognises double-quoted, single-quoted and (when a delimiter is set) bare
// tokens. Inside a token a backslash must be followed by a character of the escape
// class. A Grammar is immutable and safe for concurrent use.
type Grammar struct {
	escape       CharClass
	delim        rune
	hasDelim     bool
	singleQuotes bool
}

// GrammarOption configures a Grammar.
type GrammarOption func(*Grammar)

// WithDelimiter enables bare tokens, which end at the delimiter, a double quote or a
// backslash that does not start a valid escape.
func WithDelimiter(delim rune) GrammarOption {
	return func(g *Grammar) {
		g.delim = delim
		g.hasDelim = true
	}
}

// WithoutSingleQuotes disables single-quoted tokens. A leading single quote is then
// an ordinary bare character.
func WithoutSingleQuotes() GrammarOption {
	return func(g *Grammar) {
		g.singleQuotes = false
	}
}

// NewGrammar builds a grammar for the given escape class.
func NewGrammar(escape CharClass, opts ...GrammarOption) *Grammar {
	g := &Grammar{
		escape:       escape,
		singleQuotes: true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Candidates returns every token that may start at offset i, in the order a
// backtracking matcher tries them: the quoted span first, then bare runs from the
// longest to the shortest.
func (g *Grammar) Candidates(s string, i int) []Token {
	if i >= len(s) {
		return nil
	}

	var tokens []Token
	switch s[i] {
	case '"':
		if end, ok := g.quotedEnd(s, i, '"'); ok {
			tokens = append(tokens, Token{Kind: QuotedDouble, Value: s[i:end], Start: i, End: end})
		}
	case '\'':
		if g.singleQuotes {
			if end, ok := g.quotedEnd(s, i, '\''); ok {
				tokens = append(tokens, Token{Kind: QuotedSingle, Value: s[i:end], Start: i, End: end})
			}
		}
	}

	if g.hasDelim {
		ends := g.bareEnds(s, i)
		for k := len(ends) - 1; k >= 0; k-- {
			tokens = append(tokens, Token{Kind: Bare, Value: s[i:ends[k]], Start: i, End: ends[k]})
		}
	}
	return tokens
}

// Match returns the preferred token at offset i.
func (g *Grammar) Match(s string, i int) (Token, bool) {
	tokens := g.Candidates(s, i)
	if len(tokens) == 0 {
		return Token{}, false
	}
	return tokens[0], true
}

// FindQuoted returns every quoted span of s, scanning left to right. Unterminated
// quotes are skipped.
func (g *Grammar) FindQuoted(s string) []Token {
	var tokens []Token
	for i := 0; i < len(s); {
		c := s[i]
		if c == '"' || (c == '\'' && g.singleQuotes) {
			if end, ok := g.quotedEnd(s, i, c); ok {
				kind := QuotedDouble
				if c == '\'' {
					kind = QuotedSingle
				}
				tokens = append(tokens, Token{Kind: kind, Value: s[i:end], Start: i, End: end})
				i = end
				continue
			}
		}
		i++
	}
	return tokens
}

// quotedEnd returns the offset just past the closing quote of the span opened at i.
func (g *Grammar) quotedEnd(s string, i int, quote byte) (int, bool) {
	for j := i + 1; j < len(s); {
		switch s[j] {
		case '\\':
			n, ok := g.escapeLen(s, j)
			if !ok {
				return 0, false
			}
			j += n
		case quote:
			return j + 1, true
		default:
			j++
		}
	}
	return 0, false
}

// bareEnds returns, in increasing order, every offset at which a bare run starting
// at i may end. Offsets never split an escape sequence or a multi-byte character.
func (g *Grammar) bareEnds(s string, i int) []int {
	var ends []int
	for j := i; j < len(s); {
		if s[j] == '\\' {
			n, ok := g.escapeLen(s, j)
			if !ok {
				break
			}
			j += n
			ends = append(ends, j)
			continue
		}

		r, size := utf8.DecodeRuneInString(s[j:])
		if r == '"' || r == g.delim {
			break
		}
		j += size
		ends = append(ends, j)
	}
	return ends
}

// escapeLen returns the byte length of the escape sequence starting at the backslash
// at offset j.
func (g *Grammar) escapeLen(s string, j int) (int, bool) {
	if j+1 >= len(s) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s[j+1:])
	if !g.escape.Contains(r) {
		return 0, false
	}
	return 1 + size, true
}
