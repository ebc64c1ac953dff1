package kv

import (
	"log/slog"
	"strings"

	apperrors "github.com/runvoy/cfnopts/internal/errors"
)

// Canonical parameter override syntaxes quoted in errors.
const (
	ParameterOverridesVerboseExample = "ParameterKey=KeyPairName,ParameterValue=MyKey " +
		"ParameterKey=InstanceType,ParameterValue=t1.micro"
	ParameterOverridesCompactExample = "KeyPairName=MyKey InstanceType=t1.micro"
)

// ParameterOverridesDecoder decodes CloudFormation parameter overrides given either as
// `ParameterKey=K,ParameterValue=V` or as `K=V`. The verbose grammar always wins: the
// compact grammar is only tried on arguments where the verbose one finds nothing.
type ParameterOverridesDecoder struct {
	logger   *slog.Logger
	patterns []*pairPattern
}

// NewParameterOverridesDecoder creates a parameter overrides decoder.
func NewParameterOverridesDecoder(opts ...Option) *ParameterOverridesDecoder {
	o := newDecoderOptions(opts)
	value := NewGrammar(AnyChar, WithDelimiter(' '))
	key := classRun{class: ParameterKeyClass}

	return &ParameterOverridesDecoder{
		logger: o.logger,
		patterns: []*pairPattern{
			{prefix: "ParameterKey=", key: key, infix: ",ParameterValue=", value: value},
			{prefix: " ", key: key, infix: "=", value: value},
		},
	}
}

// Decode decodes every argument into one mapping; later arguments overwrite
// duplicate keys.
func (d *ParameterOverridesDecoder) Decode(args ...string) (map[string]string, error) {
	result := map[string]string{}
	if isEmptyInput(args) {
		return result, nil
	}

	for _, arg := range args {
		// The leading space lets the compact grammar match the first pair.
		normalized := " " + strings.TrimSpace(arg)

		pairs, pattern := d.match(normalized)
		if len(pairs) == 0 {
			return nil, apperrors.ErrMalformedFormat(arg,
				ParameterOverridesVerboseExample+"' or '"+ParameterOverridesCompactExample)
		}

		d.logger.Debug("decoded parameter overrides", "pattern", pattern, "pairs", len(pairs))
		for _, p := range unquotePairs(pairs) {
			result[p.Key] = p.Value
		}
	}
	return result, nil
}

func (d *ParameterOverridesDecoder) match(s string) ([]Pair, int) {
	for i, pattern := range d.patterns {
		if pairs := pattern.FindAll(s); len(pairs) > 0 {
			return pairs, i
		}
	}
	return nil, -1
}
