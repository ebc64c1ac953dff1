// Package options adapts the kv decoders and the simple key-value splitters to
// pflag.Value so that every cobra command can accept repeatable, quote-aware
// key-value flags.
package options

import (
	"fmt"
	"sort"
	"strings"

	"github.com/runvoy/cfnopts/internal/kv"

	"github.com/spf13/pflag"
)

// Value is a repeatable key-value flag. Set decodes one command-line argument and
// SetRaw one value read from a configuration file.
type Value interface {
	pflag.Value
	SetRaw(raw any) error
	Result() any
	Pairs() []kv.Pair
}

// Decoded is a flag backed by a kv decoder. Every Set re-decodes all the arguments
// given so far, so the result is the same as decoding them in one call.
type Decoded[T any] struct {
	decoder  kv.Decoder[T]
	typeName string
	pairs    func(T) []kv.Pair
	args     []string
	value    T
}

// Set implements pflag.Value.
func (d *Decoded[T]) Set(s string) error {
	args := append(d.args[:len(d.args):len(d.args)], s)
	value, err := d.decoder.Decode(args...)
	if err != nil {
		return err
	}
	d.args = args
	d.value = value
	return nil
}

// SetRaw decodes a configuration value. Tables are taken as already decoded.
func (d *Decoded[T]) SetRaw(raw any) error {
	if _, ok := raw.(map[string]any); ok {
		value, err := kv.DecodeValue(d.decoder, raw)
		if err != nil {
			return err
		}
		d.value = value
		return nil
	}

	args, err := kv.Arguments(raw)
	if err != nil {
		return err
	}
	for _, arg := range args {
		if err := d.Set(arg); err != nil {
			return err
		}
	}
	return nil
}

// String implements pflag.Value.
func (d *Decoded[T]) String() string {
	if d == nil || d.pairs == nil {
		return ""
	}
	return formatPairs(d.Pairs())
}

// Type implements pflag.Value.
func (d *Decoded[T]) Type() string {
	return d.typeName
}

// Value returns the decoded mapping.
func (d *Decoded[T]) Value() T {
	return d.value
}

// Result returns the decoded mapping.
func (d *Decoded[T]) Result() any {
	return d.value
}

// Pairs returns the decoded mapping as pairs sorted by key.
func (d *Decoded[T]) Pairs() []kv.Pair {
	return sortPairs(d.pairs(d.value))
}

// NewTags returns a --tags flag. With kv.WithMultipleValuesPerKey repeated keys
// keep every value.
func NewTags(opts ...kv.Option) *Decoded[kv.Values] {
	return &Decoded[kv.Values]{
		decoder:  kv.NewTagDecoder(opts...),
		typeName: "tags",
		pairs:    valuesPairs,
		value:    kv.Values{},
	}
}

// NewParameterOverrides returns a --parameter-overrides flag.
func NewParameterOverrides(opts ...kv.Option) *Decoded[map[string]string] {
	return &Decoded[map[string]string]{
		decoder:  kv.NewParameterOverridesDecoder(opts...),
		typeName: "parameters",
		pairs:    mapPairs,
		value:    map[string]string{},
	}
}

// NewMetadata returns a --metadata flag.
func NewMetadata(opts ...kv.Option) *Decoded[map[string]string] {
	return &Decoded[map[string]string]{
		decoder:  kv.NewMetadataDecoder(opts...),
		typeName: "metadata",
		pairs:    mapPairs,
		value:    map[string]string{},
	}
}

// NewSigningProfiles returns a --signing-profiles flag.
func NewSigningProfiles(opts ...kv.Option) *Decoded[map[string]kv.SigningProfile] {
	return &Decoded[map[string]kv.SigningProfile]{
		decoder:  kv.NewSigningProfilesDecoder(opts...),
		typeName: "profiles",
		pairs:    profilePairs,
		value:    map[string]kv.SigningProfile{},
	}
}

func valuesPairs(v kv.Values) []kv.Pair {
	var pairs []kv.Pair
	for key, values := range v {
		for _, value := range values {
			pairs = append(pairs, kv.Pair{Key: key, Value: value})
		}
	}
	return pairs
}

func mapPairs(m map[string]string) []kv.Pair {
	pairs := make([]kv.Pair, 0, len(m))
	for key, value := range m {
		pairs = append(pairs, kv.Pair{Key: key, Value: value})
	}
	return pairs
}

func profilePairs(m map[string]kv.SigningProfile) []kv.Pair {
	pairs := make([]kv.Pair, 0, len(m))
	for key, profile := range m {
		value := profile.ProfileName
		if profile.ProfileOwner != "" {
			value += ":" + profile.ProfileOwner
		}
		pairs = append(pairs, kv.Pair{Key: key, Value: value})
	}
	return pairs
}

// sortPairs orders pairs by key. Values of one key keep their order.
func sortPairs(pairs []kv.Pair) []kv.Pair {
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Key < pairs[j].Key
	})
	return pairs
}

// formatPairs renders pairs in the compact syntax the tag decoder reads back.
func formatPairs(pairs []kv.Pair) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = quoteIfNeeded(p.Key) + "=" + quoteIfNeeded(p.Value)
	}
	return strings.Join(parts, " ")
}

func quoteIfNeeded(s string) string {
	if !strings.ContainsAny(s, " \"'") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// Rows returns the pairs of v as two-column table rows.
func Rows(v Value) [][]string {
	pairs := v.Pairs()
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.Key, p.Value}
	}
	return rows
}

func unsupported(raw any) error {
	return fmt.Errorf("unsupported option value type %T", raw)
}
