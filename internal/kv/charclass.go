package kv

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// CharClass is a single-character class, written like a regular expression class
// (for example `[A-Za-z0-9_]` or `.`). Grammars use it to decide which characters may
// follow a backslash inside a token.
type CharClass struct {
	pattern string
	ascii   [utf8.RuneSelf]bool
	re      *regexp.Regexp
	any     bool
}

// AnyChar matches every character except a newline, like "." in a regular expression.
var AnyChar = CharClass{pattern: ".", any: true}

// NewCharClass compiles pattern into a CharClass. The pattern must describe exactly
// one character per match.
func NewCharClass(pattern string) (CharClass, error) {
	if pattern == "." {
		return AnyChar, nil
	}

	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return CharClass{}, fmt.Errorf("invalid character class %q: %w", pattern, err)
	}

	c := CharClass{pattern: pattern, re: re}
	for r := range rune(utf8.RuneSelf) {
		c.ascii[r] = re.MatchString(string(r))
	}
	return c, nil
}

// MustCharClass is like NewCharClass but panics on an invalid pattern.
func MustCharClass(pattern string) CharClass {
	c, err := NewCharClass(pattern)
	if err != nil {
		panic(err)
	}
	return c
}

// Contains reports whether r belongs to the class.
func (c CharClass) Contains(r rune) bool {
	if c.any {
		return r != '\n'
	}
	if c.re == nil {
		return false
	}
	if r >= 0 && r < utf8.RuneSelf {
		return c.ascii[r]
	}
	return c.re.MatchString(string(r))
}

// String returns the pattern the class was built from.
func (c CharClass) String() string {
	return c.pattern
}
