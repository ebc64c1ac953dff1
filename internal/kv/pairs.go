package kv

import (
	"strings"
	"unicode/utf8"
)

// keyMatcher yields the offsets at which a key starting at i may end, in the order a
// backtracking matcher tries them.
type keyMatcher interface {
	keyEnds(s string, i int) []int
}

// classRun matches a non-empty greedy run of characters from a class.
type classRun struct {
	class CharClass
}

func (c classRun) keyEnds(s string, i int) []int {
	var ends []int
	for j := i; j < len(s); {
		r, size := utf8.DecodeRuneInString(s[j:])
		if !c.class.Contains(r) {
			break
		}
		j += size
		ends = append(ends, j)
	}
	reverse(ends)
	return ends
}

// tokenKey matches a key that is itself a grammar token.
type tokenKey struct {
	grammar *Grammar
}

func (t tokenKey) keyEnds(s string, i int) []int {
	tokens := t.grammar.Candidates(s, i)
	ends := make([]int, len(tokens))
	for k, tok := range tokens {
		ends[k] = tok.End
	}
	return ends
}

// pairPattern is a `<prefix><key><infix><value>` grammar. FindAll reports
// non-overlapping matches scanning left to right, the way regular expression
// findall does.
type pairPattern struct {
	prefix string
	key    keyMatcher
	infix  string
	value  *Grammar
}

// FindAll returns the raw key and value text of every match in s.
func (p *pairPattern) FindAll(s string) []Pair {
	var pairs []Pair
	for i := 0; i < len(s); {
		if pair, end, ok := p.matchAt(s, i); ok {
			pairs = append(pairs, pair)
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return pairs
}

func (p *pairPattern) matchAt(s string, i int) (Pair, int, bool) {
	if !strings.HasPrefix(s[i:], p.prefix) {
		return Pair{}, 0, false
	}
	keyStart := i + len(p.prefix)

	for _, keyEnd := range p.key.keyEnds(s, keyStart) {
		if !strings.HasPrefix(s[keyEnd:], p.infix) {
			continue
		}
		valueStart := keyEnd + len(p.infix)
		if value, ok := p.value.Match(s, valueStart); ok {
			return Pair{Key: s[keyStart:keyEnd], Value: value.Value}, value.End, true
		}
	}
	return Pair{}, 0, false
}

func reverse(ends []int) {
	for l, r := 0, len(ends)-1; l < r; l, r = l+1, r-1 {
		ends[l], ends[r] = ends[r], ends[l]
	}
}
