package kv

import (
	"log/slog"
	"strings"

	apperrors "github.com/runvoy/cfnopts/internal/errors"
)

// TagsExample is the canonical tag syntax quoted in errors.
const TagsExample = "KeyName1=string KeyName2=string"

// Stage identifies which parser of the tag pipeline decoded an argument.
type Stage int

const (
	// StageSinglePair splits an argument holding exactly one "=".
	StageSinglePair Stage = iota + 1
	// StageSpaceSeparated splits on single spaces, one "=" per chunk.
	StageSpaceSeparated
	// StagePlaceholder masks spaces inside quoted spans, splits, then restores them.
	StagePlaceholder
	// StageGrammar matches the full quote-aware `tag=tag` grammar.
	StageGrammar
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageSinglePair:
		return "single-pair"
	case StageSpaceSeparated:
		return "space-separated"
	case StagePlaceholder:
		return "placeholder"
	case StageGrammar:
		return "grammar"
	default:
		return "unknown"
	}
}

// TagDecoder decodes `Key=Value` assignments separated by spaces, where keys and
// values may be quoted and contain spaces. Each argument goes through a fallback
// chain of parsers, cheapest first.
type TagDecoder struct {
	multi  bool
	logger *slog.Logger
	quoted *Grammar
	pair   *pairPattern
}

// NewTagDecoder creates a tag decoder.
func NewTagDecoder(opts ...Option) *TagDecoder {
	o := newDecoderOptions(opts)
	tag := NewGrammar(TagEscapeClass, WithDelimiter(' '))

	return &TagDecoder{
		multi:  o.multipleValuesPerKey,
		logger: o.logger,
		quoted: NewGrammar(TagEscapeClass),
		pair: &pairPattern{
			key:   tokenKey{grammar: tag},
			infix: "=",
			value: tag,
		},
	}
}

// MultipleValuesPerKey reports whether repeated keys accumulate values.
func (d *TagDecoder) MultipleValuesPerKey() bool {
	return d.multi
}

// Decode decodes every argument into one mapping. An empty input decodes to an empty
// mapping. The first malformed argument fails the whole call.
func (d *TagDecoder) Decode(args ...string) (Values, error) {
	result := Values{}
	if isEmptyInput(args) {
		return result, nil
	}

	for _, arg := range args {
		pairs, stage, err := d.decodeArg(arg)
		if err != nil {
			return nil, err
		}

		d.logger.Debug("decoded tags", "stage", stage.String(), "pairs", len(pairs))
		for _, p := range pairs {
			result.add(p.Key, p.Value, d.multi)
		}
	}
	return result, nil
}

func (d *TagDecoder) decodeArg(arg string) ([]Pair, Stage, error) {
	if p, ok := splitExactlyOne(arg); ok {
		return unquotePairs([]Pair{p}), StageSinglePair, nil
	}

	if pairs, ok := splitSpaceSeparated(arg); ok {
		return unquotePairs(pairs), StageSpaceSeparated, nil
	}

	if pairs, ok := d.decodePlaceholder(arg); ok {
		return pairs, StagePlaceholder, nil
	}

	pairs := d.pair.FindAll(arg)
	if len(pairs) == 0 {
		return nil, StageGrammar, apperrors.ErrMalformedFormat(arg, TagsExample)
	}
	return unquotePairs(pairs), StageGrammar, nil
}

// decodePlaceholder masks the spaces of every quoted span so that a whitespace split
// keeps each span in one chunk, then restores the spaces of keys and values that are
// masked spans.
func (d *TagDecoder) decodePlaceholder(arg string) ([]Pair, bool) {
	working := UnquoteUnescape(arg)
	spans := d.quoted.FindQuoted(working)

	masks := make([]MaskedText, 0, len(spans))
	var b strings.Builder
	last := 0
	for _, span := range spans {
		m := MaskSpaces(span.Value)
		masks = append(masks, m)
		b.WriteString(working[last:span.Start])
		b.WriteString(m.Masked)
		last = span.End
	}
	b.WriteString(working[last:])

	pairs, ok := splitFields(b.String())
	if !ok {
		return nil, false
	}

	for i := range pairs {
		pairs[i].Key = restoreMasked(pairs[i].Key, masks)
		pairs[i].Value = restoreMasked(pairs[i].Value, masks)
	}
	return unquotePairs(pairs), true
}
