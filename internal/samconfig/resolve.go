package samconfig

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/runvoy/cfnopts/internal/kv"
	"github.com/runvoy/cfnopts/internal/options"

	"golang.org/x/sync/errgroup"
)

// OptionKinds maps samconfig keys to the option kind decoding their values.
var OptionKinds = map[string]options.Kind{
	"tags":                options.KindTags,
	"parameter_overrides": options.KindParameterOverrides,
	"metadata":            options.KindMetadata,
	"signing_profiles":    options.KindSigningProfiles,
	"image_repositories":  options.KindImageRepositories,
	"parameter":           options.KindRemoteInvokeParameters,
	"add_host":            options.KindAdditionalHosts,
	"watch_exclude":       options.KindWatchExcludes,
}

// Resolved holds the decoded options of one samconfig section. Keys without a
// known option kind are kept as is in Scalars.
type Resolved struct {
	Options map[string]options.Value
	Scalars map[string]any
}

// Keys returns the decoded option keys, sorted.
func (r *Resolved) Keys() []string {
	keys := make([]string, 0, len(r.Options))
	for key := range r.Options {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Resolve decodes every known option of params concurrently. The first failure
// cancels the result.
func Resolve(params map[string]any, logger *slog.Logger, opts ...kv.Option) (*Resolved, error) {
	if logger == nil {
		logger = slog.Default()
	}

	type job struct {
		key   string
		raw   any
		value options.Value
	}

	resolved := &Resolved{
		Options: map[string]options.Value{},
		Scalars: map[string]any{},
	}

	var jobs []*job
	for key, raw := range params {
		kind, ok := OptionKinds[key]
		if !ok {
			resolved.Scalars[key] = raw
			continue
		}

		value, err := options.New(kind, opts...)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, &job{key: key, raw: raw, value: value})
	}

	var g errgroup.Group
	for _, j := range jobs {
		g.Go(func() error {
			if err := j.value.SetRaw(j.raw); err != nil {
				return fmt.Errorf("%s: %w", j.key, err)
			}
			logger.Debug("decoded samconfig option", "key", j.key, "pairs", len(j.value.Pairs()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, j := range jobs {
		resolved.Options[j.key] = j.value
	}
	return resolved, nil
}
