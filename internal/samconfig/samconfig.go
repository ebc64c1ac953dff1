// Package samconfig reads option values from samconfig.toml files and decodes them
// with the same flag types the command line uses.
package samconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/runvoy/cfnopts/internal/constants"
	apperrors "github.com/runvoy/cfnopts/internal/errors"

	"github.com/BurntSushi/toml"
)

// File is a parsed samconfig.toml: environments, then commands, then sections.
type File struct {
	Path    string
	Version float64
	envs    map[string]any
	meta    toml.MetaData
}

// Load parses the samconfig file at path.
func Load(path string) (*File, error) {
	var raw map[string]any
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.ErrInvalidConfig(fmt.Sprintf("%s not found", path), err)
		}
		return nil, apperrors.ErrInvalidConfig(fmt.Sprintf("%s: failed to parse TOML", path), err)
	}

	f := &File{Path: path, envs: raw, meta: meta}
	if v, ok := raw["version"]; ok {
		switch version := v.(type) {
		case float64:
			f.Version = version
		case int64:
			f.Version = float64(version)
		default:
			return nil, apperrors.ErrInvalidConfig(fmt.Sprintf("%s: version must be a number", path), nil)
		}
		delete(raw, "version")
	}
	return f, nil
}

// Environments returns the environment names defined in the file, sorted.
func (f *File) Environments() []string {
	envs := make([]string, 0, len(f.envs))
	for name, v := range f.envs {
		if _, ok := v.(map[string]any); ok {
			envs = append(envs, name)
		}
	}
	sort.Strings(envs)
	return envs
}

// Parameters returns the option values of command in env. Values of the global
// command apply first and are overridden by the command's own values.
func (f *File) Parameters(env, command string) (map[string]any, error) {
	section := constants.SamconfigParametersSection
	if !f.meta.IsDefined(env, command, section) && !f.meta.IsDefined(env, constants.SamconfigGlobalCommand, section) {
		return nil, apperrors.ErrInvalidConfig(
			fmt.Sprintf("%s: no [%s.%s.%s] section", f.Path, env, command, section), nil)
	}

	params := map[string]any{}
	for _, cmd := range []string{constants.SamconfigGlobalCommand, command} {
		for key, value := range f.table(env, cmd, section) {
			params[key] = value
		}
	}
	return params, nil
}

func (f *File) table(keys ...string) map[string]any {
	current := f.envs
	for _, key := range keys {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}
