package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnquoteUnescape(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"double quoted", `"abc"`, "abc"},
		{"single quoted", `'abc'`, "abc"},
		{"mismatched quotes kept", `"abc'`, `"abc'`},
		{"lone quote kept", `"`, `"`},
		{"empty quotes", `""`, ""},
		{"plain text", "abc", "abc"},
		{"escaped space", `a\ b`, "a b"},
		{"escaped single quote", `it\'s`, "it's"},
		{"only one layer removed", `"'abc'"`, "'abc'"},
		{"escaped quotes inside quotes", `"\"a\""`, `"a"`},
		{"other escapes kept", `a\nb`, `a\nb`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UnquoteUnescape(tt.input))
		})
	}
}

func TestUnquoteUnescape_RoundTrip(t *testing.T) {
	for _, s := range []string{"value", "value with space", "a=b", "ünïcode", "x:y/z"} {
		assert.Equal(t, s, UnquoteUnescape(`"`+s+`"`), s)
		assert.Equal(t, s, UnquoteUnescape(`'`+s+`'`), s)
		assert.Equal(t, s, UnquoteUnescape(s), s)
	}
}

func TestMaskSpaces(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		masked    string
		positions []int
	}{
		{"single space", "test 1", "test_1", []int{4}},
		{"no spaces", "test", "test", nil},
		{"existing placeholder", "a_b c", "a_b_c", []int{3}},
		{"quoted span", `"a b c"`, `"a_b_c"`, []int{2, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MaskSpaces(tt.input)
			assert.Equal(t, tt.masked, m.Masked)
			assert.Equal(t, tt.positions, m.Positions)
			assert.Equal(t, tt.input, m.Restore())
		})
	}
}

func TestRestoreMasked(t *testing.T) {
	masks := []MaskedText{MaskSpaces(`"my key"`), MaskSpaces(`"my value"`)}

	assert.Equal(t, `"my key"`, restoreMasked(`"my_key"`, masks))
	assert.Equal(t, `"my value"`, restoreMasked(`"my_value"`, masks))
	assert.Equal(t, "my_other", restoreMasked("my_other", masks))
	assert.Equal(t, "x", restoreMasked("x", nil))
}
