package kv

import "strings"

// SpacePlaceholder replaces spaces inside quoted spans while they go through the
// space-separated parser.
const SpacePlaceholder = '_'

// MaskedText is a span whose spaces were replaced by SpacePlaceholder. It remembers
// the byte offset of every replaced space so the original text can be restored even
// when it already contained placeholder characters.
type MaskedText struct {
	Original  string
	Masked    string
	Positions []int
}

// MaskSpaces replaces every space of text with SpacePlaceholder.
func MaskSpaces(text string) MaskedText {
	var positions []int
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' {
			positions = append(positions, i)
		}
	}

	return MaskedText{
		Original:  text,
		Masked:    strings.ReplaceAll(text, " ", string(SpacePlaceholder)),
		Positions: positions,
	}
}

// Restore puts the spaces back at their recorded offsets.
func (m MaskedText) Restore() string {
	b := []byte(m.Masked)
	for _, pos := range m.Positions {
		b[pos] = ' '
	}
	return string(b)
}

// restoreMasked returns the restored text of the first mask whose masked form equals s,
// or s unchanged.
func restoreMasked(s string, masks []MaskedText) string {
	for _, m := range masks {
		if m.Masked == s {
			return m.Restore()
		}
	}
	return s
}
