package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenValues(tokens []Token) []string {
	values := make([]string, len(tokens))
	for i, tok := range tokens {
		values[i] = tok.Value
	}
	return values
}

func TestCharClass(t *testing.T) {
	tests := []struct {
		name     string
		class    CharClass
		r        rune
		expected bool
	}{
		{"tag class letter", TagEscapeClass, 'a', true},
		{"tag class double quote", TagEscapeClass, '"', true},
		{"tag class equals", TagEscapeClass, '=', true},
		{"tag class comma from range", TagEscapeClass, ',', true},
		{"tag class rejects space", TagEscapeClass, ' ', false},
		{"tag class rejects single quote", TagEscapeClass, '\'', false},
		{"any char space", AnyChar, ' ', true},
		{"any char non-ascii", AnyChar, 'é', true},
		{"any char rejects newline", AnyChar, '\n', false},
		{"zero class matches nothing", CharClass{}, 'a', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.class.Contains(tt.r))
		})
	}
}

func TestNewCharClass(t *testing.T) {
	t.Run("dot is any char", func(t *testing.T) {
		c, err := NewCharClass(".")
		require.NoError(t, err)
		assert.True(t, c.Contains('x'))
		assert.Equal(t, ".", c.String())
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := NewCharClass("[")
		assert.Error(t, err)
	})

	t.Run("must panics on invalid pattern", func(t *testing.T) {
		assert.Panics(t, func() {
			MustCharClass("[")
		})
	})
}

func TestGrammar_Candidates(t *testing.T) {
	spaceAny := NewGrammar(AnyChar, WithDelimiter(' '))
	spaceTag := NewGrammar(TagEscapeClass, WithDelimiter(' '))
	noSingle := NewGrammar(AnyChar, WithDelimiter(' '), WithoutSingleQuotes())

	tests := []struct {
		name     string
		grammar  *Grammar
		input    string
		offset   int
		expected []string
		kind     TokenKind
	}{
		{
			name:     "double quoted span only",
			grammar:  spaceTag,
			input:    `"a b"=c`,
			expected: []string{`"a b"`},
			kind:     QuotedDouble,
		},
		{
			name:     "bare run longest first",
			grammar:  spaceAny,
			input:    "abc def",
			expected: []string{"abc", "ab", "a"},
			kind:     Bare,
		},
		{
			name:     "single quoted then bare",
			grammar:  spaceAny,
			input:    "'a'b",
			expected: []string{"'a'", "'a'b", "'a'", "'a", "'"},
			kind:     QuotedSingle,
		},
		{
			name:     "escape sequences are never split",
			grammar:  spaceAny,
			input:    `a\ b c`,
			expected: []string{`a\ b`, `a\ `, "a"},
			kind:     Bare,
		},
		{
			name:     "offset inside input",
			grammar:  spaceAny,
			input:    "k=v",
			offset:   2,
			expected: []string{"v"},
			kind:     Bare,
		},
		{
			name:     "unterminated quote",
			grammar:  spaceAny,
			input:    `"abc`,
			expected: []string{},
		},
		{
			name:     "escape outside class ends the quoted span",
			grammar:  spaceTag,
			input:    `"a\ b"`,
			expected: []string{},
		},
		{
			name:     "escaped quote inside span",
			grammar:  spaceTag,
			input:    `"a\"b" c`,
			expected: []string{`"a\"b"`},
			kind:     QuotedDouble,
		},
		{
			name:     "single quotes disabled",
			grammar:  noSingle,
			input:    "'a b'",
			expected: []string{"'a", "'"},
			kind:     Bare,
		},
		{
			name:     "delimiter at offset",
			grammar:  spaceAny,
			input:    " a",
			expected: []string{},
		},
		{
			name:     "offset past end",
			grammar:  spaceAny,
			input:    "a",
			offset:   1,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tt.grammar.Candidates(tt.input, tt.offset)
			assert.Equal(t, tt.expected, tokenValues(tokens))
			if len(tokens) > 0 {
				assert.Equal(t, tt.kind, tokens[0].Kind)
				assert.Equal(t, tt.offset, tokens[0].Start)
			}
		})
	}
}

func TestGrammar_NoDelimiterMatchesOnlyQuotes(t *testing.T) {
	g := NewGrammar(TagEscapeClass)

	_, ok := g.Match("abc", 0)
	assert.False(t, ok)

	tok, ok := g.Match(`'abc' d`, 0)
	require.True(t, ok)
	assert.Equal(t, QuotedSingle, tok.Kind)
	assert.Equal(t, 5, tok.End)
}

func TestGrammar_FindQuoted(t *testing.T) {
	g := NewGrammar(TagEscapeClass)

	tokens := g.FindQuoted(`x="a b" y='c d' z="open`)

	require.Len(t, tokens, 2)
	assert.Equal(t, `"a b"`, tokens[0].Value)
	assert.Equal(t, QuotedDouble, tokens[0].Kind)
	assert.Equal(t, 2, tokens[0].Start)
	assert.Equal(t, `'c d'`, tokens[1].Value)
	assert.Equal(t, QuotedSingle, tokens[1].Kind)
	assert.Empty(t, g.FindQuoted("plain text"))
}

func TestTokenKind_String(t *testing.T) {
	assert.Equal(t, "QUOTED_DOUBLE", QuotedDouble.String())
	assert.Equal(t, "QUOTED_SINGLE", QuotedSingle.String())
	assert.Equal(t, "BARE", Bare.String())
	assert.Equal(t, "UNKNOWN", TokenKind(0).String())
	assert.Equal(t, `BARE("x")`, Token{Kind: Bare, Value: "x"}.String())
}
