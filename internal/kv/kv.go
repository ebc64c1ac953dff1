// Package kv decodes human-typed command-line option values into key-value mappings.
// It understands compact (`Key1=Val1 Key2=Val2`), quoted (`Key="value with space"`),
// verbose (`ParameterKey=K,ParameterValue=V`) and JSON object forms.
package kv

import (
	"log/slog"
	"sort"
)

// Pair is a decoded key and value.
type Pair struct {
	Key   string
	Value string
}

// Values maps each key to its decoded values in assignment order. Decoders that keep
// a single value per key store exactly one element, the last assignment.
type Values map[string][]string

// Get returns the last value assigned to key, or "".
func (v Values) Get(key string) string {
	values := v[key]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// Map flattens v to the last value of every key.
func (v Values) Map() map[string]string {
	m := make(map[string]string, len(v))
	for key := range v {
		m[key] = v.Get(key)
	}
	return m
}

// Keys returns the keys of v in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for key := range v {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (v Values) add(key, value string, multi bool) {
	if multi {
		v[key] = append(v[key], value)
		return
	}
	v[key] = []string{value}
}

// Decoder is implemented by every option decoder in this package.
type Decoder[T any] interface {
	Decode(args ...string) (T, error)
}

var (
	_ Decoder[Values]                    = (*TagDecoder)(nil)
	_ Decoder[map[string]string]         = (*ParameterOverridesDecoder)(nil)
	_ Decoder[map[string]string]         = (*MetadataDecoder)(nil)
	_ Decoder[map[string]SigningProfile] = (*SigningProfilesDecoder)(nil)
)

type decoderOptions struct {
	multipleValuesPerKey bool
	logger               *slog.Logger
}

// Option configures a decoder.
type Option func(*decoderOptions)

// WithMultipleValuesPerKey makes repeated keys accumulate every value in order
// instead of keeping the last one. Only the tag decoder honours it.
func WithMultipleValuesPerKey() Option {
	return func(o *decoderOptions) {
		o.multipleValuesPerKey = true
	}
}

// WithLogger sets the logger decoders report their decisions to at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *decoderOptions) {
		o.logger = logger
	}
}

func newDecoderOptions(opts []Option) decoderOptions {
	o := decoderOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// isEmptyInput reports whether args stands for "no value supplied".
func isEmptyInput(args []string) bool {
	return len(args) == 0 || (len(args) == 1 && args[0] == "")
}

// Character classes shared by the decoders.
var (
	// TagEscapeClass lists the characters tags may escape. Besides alphanumerics tags
	// allow `+ - = . _ : / @`; `\+-\@` is a range and also admits `, ; < > ?`.
	TagEscapeClass = MustCharClass(`[A-Za-z0-9\"_:\.\/\+-\@=]`)

	// ParameterKeyClass is the character class of parameter override and metadata keys.
	ParameterKeyClass = MustCharClass(`[A-Za-z0-9"']`)

	// SigningKeyClass is the character class of signing profile function names.
	SigningKeyClass = MustCharClass(`[A-Za-z0-9"]`)
)
