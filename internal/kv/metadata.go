package kv

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	apperrors "github.com/runvoy/cfnopts/internal/errors"
)

// MetadataExample is the canonical metadata syntax quoted in errors.
const MetadataExample = `KeyName1=string,KeyName2=string or {"string":"string"}`

var errNotObject = errors.New("not a JSON object")

// MetadataDecoder decodes metadata given as a flat JSON object or as comma separated
// `Key=Value` pairs.
type MetadataDecoder struct {
	logger *slog.Logger
	pair   *pairPattern
}

// NewMetadataDecoder creates a metadata decoder.
func NewMetadataDecoder(opts ...Option) *MetadataDecoder {
	o := newDecoderOptions(opts)

	return &MetadataDecoder{
		logger: o.logger,
		pair: &pairPattern{
			key:   classRun{class: ParameterKeyClass},
			infix: "=",
			value: NewGrammar(AnyChar, WithDelimiter(',')),
		},
	}
}

// Decode decodes every non-empty argument and merges the results; later arguments
// overwrite duplicate keys.
func (d *MetadataDecoder) Decode(args ...string) (map[string]string, error) {
	result := map[string]string{}
	for _, arg := range args {
		if arg == "" {
			continue
		}

		decoded, err := d.decodeOne(arg)
		if err != nil {
			return nil, err
		}
		for k, v := range decoded {
			result[k] = v
		}
	}
	return result, nil
}

func (d *MetadataDecoder) decodeOne(value string) (map[string]string, error) {
	decoded, err := decodeFlatJSON(value)
	if err == nil {
		d.logger.Debug("decoded metadata", "format", "json", "keys", len(decoded))
		return decoded, nil
	}
	if apperrors.GetErrorCode(err) == apperrors.ErrCodeNestedValueRejected {
		return nil, err
	}

	pairs := d.pair.FindAll(value)
	if len(pairs) == 0 {
		return nil, apperrors.ErrMalformedFormat(value, MetadataExample)
	}

	d.logger.Debug("decoded metadata", "format", "pairs", "keys", len(pairs))
	result := make(map[string]string, len(pairs))
	for _, p := range pairs {
		result[p.Key] = p.Value
	}
	return result, nil
}

// decodeFlatJSON decodes value as a JSON object whose values are all scalars.
// Scalars are rendered as strings: numbers keep their literal text and null becomes "".
func decodeFlatJSON(value string) (map[string]string, error) {
	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errNotObject
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errNotObject
	}

	result := make(map[string]string, len(obj))
	for k, v := range obj {
		switch typed := v.(type) {
		case map[string]any, []any:
			return nil, apperrors.ErrNestedValueRejected(value, MetadataExample)
		case string:
			result[k] = typed
		case json.Number:
			result[k] = typed.String()
		case bool:
			result[k] = strconv.FormatBool(typed)
		case nil:
			result[k] = ""
		}
	}
	return result, nil
}
