package options

import (
	apperrors "github.com/runvoy/cfnopts/internal/errors"
	"github.com/runvoy/cfnopts/internal/kv"
)

// Canonical syntaxes of the single-pair flags, quoted in errors.
const (
	ImageRepositoriesExample     = "function_logical_id=ECR_URI"
	RemoteInvokeParameterExample = "parameter_key=parameter_value"
	AdditionalHostExample        = "hostname:IP"
	WatchExcludeExample          = "Key=Value"
)

const (
	pairSeparator = "="
	hostSeparator = ":"
)

// StringMap is a repeatable flag taking one `key<sep>value` pair per argument.
type StringMap struct {
	sep      string
	mode     kv.SplitMode
	example  string
	typeName string
	values   map[string]string
}

// NewImageRepositories returns an --image-repositories flag (`Function=URI`, exactly
// one "=").
func NewImageRepositories() *StringMap {
	return newStringMap(pairSeparator, kv.SplitExact, ImageRepositoriesExample)
}

// NewRemoteInvokeParameters returns a --parameter flag for remote invocations. Values
// may contain "=", for example base64 payloads.
func NewRemoteInvokeParameters() *StringMap {
	return newStringMap(pairSeparator, kv.SplitFirst, RemoteInvokeParameterExample)
}

// NewAdditionalHosts returns an --add-host flag (`host:IP`, split at the first ":").
func NewAdditionalHosts() *StringMap {
	return newStringMap(hostSeparator, kv.SplitFirst, AdditionalHostExample)
}

func newStringMap(sep string, mode kv.SplitMode, example string) *StringMap {
	return &StringMap{
		sep:      sep,
		mode:     mode,
		example:  example,
		typeName: "list",
		values:   map[string]string{},
	}
}

// Set implements pflag.Value.
func (m *StringMap) Set(s string) error {
	p, err := kv.SplitPair(s, m.sep, m.mode, m.example)
	if err != nil {
		return err
	}
	m.values[p.Key] = p.Value
	return nil
}

// SetRaw accepts a string, an array of strings or an already decoded table.
func (m *StringMap) SetRaw(raw any) error {
	if table, ok := raw.(map[string]any); ok {
		for key, value := range table {
			s, ok := value.(string)
			if !ok {
				return unsupported(value)
			}
			m.values[key] = s
		}
		return nil
	}

	args, err := kv.Arguments(raw)
	if err != nil {
		return err
	}
	for _, arg := range args {
		if err := m.Set(arg); err != nil {
			return err
		}
	}
	return nil
}

// String implements pflag.Value.
func (m *StringMap) String() string {
	if m == nil {
		return ""
	}
	return formatPairs(m.Pairs())
}

// Type implements pflag.Value.
func (m *StringMap) Type() string {
	return m.typeName
}

// Value returns the decoded mapping.
func (m *StringMap) Value() map[string]string {
	return m.values
}

// Result returns the decoded mapping.
func (m *StringMap) Result() any {
	return m.values
}

// Pairs returns the decoded mapping as pairs sorted by key.
func (m *StringMap) Pairs() []kv.Pair {
	return sortPairs(mapPairs(m.values))
}

// WatchExcludes is a repeatable `resource=path` flag. Paths accumulate per resource.
type WatchExcludes struct {
	values map[string][]string
}

// NewWatchExcludes returns a --watch-exclude flag.
func NewWatchExcludes() *WatchExcludes {
	return &WatchExcludes{values: map[string][]string{}}
}

// Set implements pflag.Value. Both the resource and the path must be non-empty.
func (w *WatchExcludes) Set(s string) error {
	p, err := kv.SplitPair(s, pairSeparator, kv.SplitExact, WatchExcludeExample)
	if err != nil {
		return err
	}
	if p.Key == "" || p.Value == "" {
		return apperrors.ErrInsufficientPairLength(s, WatchExcludeExample)
	}
	w.values[p.Key] = append(w.values[p.Key], p.Value)
	return nil
}

// SetRaw accepts a string, an array of strings or an already decoded table mapping
// resources to a path or a list of paths.
func (w *WatchExcludes) SetRaw(raw any) error {
	if table, ok := raw.(map[string]any); ok {
		for key, value := range table {
			paths, err := kv.Arguments(value)
			if err != nil {
				return err
			}
			w.values[key] = append(w.values[key], paths...)
		}
		return nil
	}

	args, err := kv.Arguments(raw)
	if err != nil {
		return err
	}
	for _, arg := range args {
		if err := w.Set(arg); err != nil {
			return err
		}
	}
	return nil
}

// String implements pflag.Value.
func (w *WatchExcludes) String() string {
	if w == nil {
		return ""
	}
	return formatPairs(w.Pairs())
}

// Type implements pflag.Value.
func (w *WatchExcludes) Type() string {
	return "list"
}

// Value returns the excluded paths of every resource.
func (w *WatchExcludes) Value() map[string][]string {
	return w.values
}

// Result returns the excluded paths of every resource.
func (w *WatchExcludes) Result() any {
	return w.values
}

// Pairs returns one pair per excluded path, sorted by resource.
func (w *WatchExcludes) Pairs() []kv.Pair {
	return sortPairs(valuesPairs(w.values))
}
