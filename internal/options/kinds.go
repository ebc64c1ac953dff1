package options

import (
	"fmt"
	"strings"

	"github.com/runvoy/cfnopts/internal/kv"
)

// Kind names an option type.
type Kind string

// Option kinds understood by New.
const (
	KindTags                   Kind = "tags"
	KindParameterOverrides     Kind = "parameter-overrides"
	KindMetadata               Kind = "metadata"
	KindSigningProfiles        Kind = "signing-profiles"
	KindImageRepositories      Kind = "image-repositories"
	KindRemoteInvokeParameters Kind = "remote-invoke-parameters"
	KindAdditionalHosts        Kind = "additional-hosts"
	KindWatchExcludes          Kind = "watch-excludes"
)

// Kinds returns every option kind.
func Kinds() []Kind {
	return []Kind{
		KindTags,
		KindParameterOverrides,
		KindMetadata,
		KindSigningProfiles,
		KindImageRepositories,
		KindRemoteInvokeParameters,
		KindAdditionalHosts,
		KindWatchExcludes,
	}
}

// New returns an empty flag value of the given kind. Decoder options only apply to
// decoder-backed kinds.
func New(kind Kind, opts ...kv.Option) (Value, error) {
	switch kind {
	case KindTags:
		return NewTags(opts...), nil
	case KindParameterOverrides:
		return NewParameterOverrides(opts...), nil
	case KindMetadata:
		return NewMetadata(opts...), nil
	case KindSigningProfiles:
		return NewSigningProfiles(opts...), nil
	case KindImageRepositories:
		return NewImageRepositories(), nil
	case KindRemoteInvokeParameters:
		return NewRemoteInvokeParameters(), nil
	case KindAdditionalHosts:
		return NewAdditionalHosts(), nil
	case KindWatchExcludes:
		return NewWatchExcludes(), nil
	default:
		return nil, fmt.Errorf("unknown option kind %q (choose from %s)", kind, kindList())
	}
}

func kindList() string {
	kinds := Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// Example returns the canonical syntax of kind, as quoted in decoding errors.
func Example(kind Kind) string {
	switch kind {
	case KindTags:
		return kv.TagsExample
	case KindParameterOverrides:
		return kv.ParameterOverridesVerboseExample + "' or '" + kv.ParameterOverridesCompactExample
	case KindMetadata:
		return kv.MetadataExample
	case KindSigningProfiles:
		return kv.SigningProfileExample
	case KindImageRepositories:
		return ImageRepositoriesExample
	case KindRemoteInvokeParameters:
		return RemoteInvokeParameterExample
	case KindAdditionalHosts:
		return AdditionalHostExample
	case KindWatchExcludes:
		return WatchExcludeExample
	default:
		return ""
	}
}
