package kv

import (
	"strings"

	apperrors "github.com/runvoy/cfnopts/internal/errors"
)

// splitExactlyOne splits s at its only "=". It fails unless s holds exactly one "=".
func splitExactlyOne(s string) (Pair, bool) {
	if strings.Count(s, "=") != 1 {
		return Pair{}, false
	}
	key, value, _ := strings.Cut(s, "=")
	return Pair{Key: key, Value: value}, true
}

// splitSpaceSeparated splits s on single spaces and requires every chunk to be an
// exact-one-"=" pair. Consecutive spaces produce an empty chunk and therefore fail.
func splitSpaceSeparated(s string) ([]Pair, bool) {
	chunks := strings.Split(s, " ")
	pairs := make([]Pair, 0, len(chunks))
	for _, chunk := range chunks {
		p, ok := splitExactlyOne(chunk)
		if !ok {
			return nil, false
		}
		pairs = append(pairs, p)
	}
	return pairs, true
}

// splitFields is like splitSpaceSeparated but splits on runs of whitespace, so blank
// input yields no pairs and succeeds.
func splitFields(s string) ([]Pair, bool) {
	fields := strings.Fields(s)
	pairs := make([]Pair, 0, len(fields))
	for _, field := range fields {
		p, ok := splitExactlyOne(field)
		if !ok {
			return nil, false
		}
		pairs = append(pairs, p)
	}
	return pairs, true
}

// SplitMode selects how SplitPair treats repeated separators.
type SplitMode int

const (
	// SplitExact requires exactly one separator.
	SplitExact SplitMode = iota
	// SplitFirst splits at the first separator; the value may contain more.
	SplitFirst
)

// SplitPair splits value into a key and a value around sep. It reports
// INSUFFICIENT_PAIR_LENGTH, quoting example, when value does not have the shape mode
// requires.
func SplitPair(value, sep string, mode SplitMode, example string) (Pair, error) {
	var parts []string
	if mode == SplitFirst {
		parts = strings.SplitN(value, sep, pairParts)
	} else {
		parts = strings.Split(value, sep)
	}

	if len(parts) != pairParts {
		return Pair{}, apperrors.ErrInsufficientPairLength(value, example)
	}
	return Pair{Key: parts[0], Value: parts[1]}, nil
}

const pairParts = 2
