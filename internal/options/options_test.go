package options

import (
	"io"
	"testing"

	"github.com/runvoy/cfnopts/internal/constants"
	apperrors "github.com/runvoy/cfnopts/internal/errors"
	"github.com/runvoy/cfnopts/internal/kv"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags_FlagSet(t *testing.T) {
	tags := NewTags()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(tags, "tags", "tags")

	err := fs.Parse([]string{"--tags", `Owner="team a" Env=prod`, "--tags", "Env=dev"})

	require.NoError(t, err)
	assert.Equal(t, kv.Values{"Owner": {"team a"}, "Env": {"dev"}}, tags.Value())
	assert.Equal(t, `Env=dev Owner="team a"`, tags.String())
	assert.Equal(t, "tags", tags.Type())
}

func TestTags_MultipleValuesPerKey(t *testing.T) {
	tags := NewTags(kv.WithMultipleValuesPerKey())

	require.NoError(t, tags.Set("K=1"))
	require.NoError(t, tags.Set("K=2 J=3"))

	assert.Equal(t, kv.Values{"K": {"1", "2"}, "J": {"3"}}, tags.Value())
	assert.Equal(t, "J=3 K=1 K=2", tags.String())
	assert.Equal(t, [][]string{{"J", "3"}, {"K", "1"}, {"K", "2"}}, Rows(tags))
}

func TestDecoded_FailedSetKeepsState(t *testing.T) {
	params := NewParameterOverrides()

	require.NoError(t, params.Set("A=1"))
	err := params.Set("bad")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMalformedFormat, apperrors.GetErrorCode(err))
	assert.Equal(t, map[string]string{"A": "1"}, params.Value())

	require.NoError(t, params.Set("ParameterKey=B,ParameterValue=2"))
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, params.Value())
}

func TestDecoded_FlagParseError(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Var(NewMetadata(), "metadata", "metadata")

	err := fs.Parse([]string{"--metadata", `{"a":["b"]}`})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--metadata")
}

func TestSigningProfiles(t *testing.T) {
	profiles := NewSigningProfiles()

	require.NoError(t, profiles.Set("Fn=P:O Layer=Q"))

	assert.Equal(t, map[string]kv.SigningProfile{
		"Fn":    {ProfileName: "P", ProfileOwner: "O"},
		"Layer": {ProfileName: "Q"},
	}, profiles.Value())
	assert.Equal(t, "Fn=P:O Layer=Q", profiles.String())
}

func TestDecoded_SetRaw(t *testing.T) {
	t.Run("array of arguments", func(t *testing.T) {
		tags := NewTags()
		require.NoError(t, tags.SetRaw([]any{"A=1", "B=2"}))
		assert.Equal(t, kv.Values{"A": {"1"}, "B": {"2"}}, tags.Value())
	})

	t.Run("table is already decoded", func(t *testing.T) {
		tags := NewTags()
		require.NoError(t, tags.SetRaw(map[string]any{"A": "x=y z"}))
		assert.Equal(t, kv.Values{"A": {"x=y z"}}, tags.Value())
	})

	t.Run("json metadata string", func(t *testing.T) {
		metadata := NewMetadata()
		require.NoError(t, metadata.SetRaw(`{"a":"b"}`))
		assert.Equal(t, map[string]string{"a": "b"}, metadata.Value())
	})

	t.Run("unsupported type", func(t *testing.T) {
		assert.Error(t, NewTags().SetRaw(12))
	})
}

func TestStringMap(t *testing.T) {
	tests := []struct {
		name     string
		flag     *StringMap
		args     []string
		expected map[string]string
		wantErr  bool
	}{
		{
			name:     "image repositories",
			flag:     NewImageRepositories(),
			args:     []string{"Fn=123.dkr.ecr.us-east-1.amazonaws.com/repo", "Other=uri"},
			expected: map[string]string{"Fn": "123.dkr.ecr.us-east-1.amazonaws.com/repo", "Other": "uri"},
		},
		{
			name:    "image repositories reject extra equals",
			flag:    NewImageRepositories(),
			args:    []string{"Fn=a=b"},
			wantErr: true,
		},
		{
			name:     "remote invoke parameters keep extra equals",
			flag:     NewRemoteInvokeParameters(),
			args:     []string{"ClientContext=eyJhIjoiYiJ9=="},
			expected: map[string]string{"ClientContext": "eyJhIjoiYiJ9=="},
		},
		{
			name:     "additional hosts split at first colon",
			flag:     NewAdditionalHosts(),
			args:     []string{"example.com:10.0.0.1", "v6.local:::1"},
			expected: map[string]string{"example.com": "10.0.0.1", "v6.local": "::1"},
		},
		{
			name:    "additional hosts need a colon",
			flag:    NewAdditionalHosts(),
			args:    []string{"example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			for _, arg := range tt.args {
				if err = tt.flag.Set(arg); err != nil {
					break
				}
			}

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrPairLength)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tt.flag.Value())
			assert.Equal(t, "list", tt.flag.Type())
		})
	}
}

func TestStringMap_SetRaw(t *testing.T) {
	hosts := NewAdditionalHosts()

	require.NoError(t, hosts.SetRaw([]any{"a:1.1.1.1"}))
	require.NoError(t, hosts.SetRaw(map[string]any{"b": "2.2.2.2"}))

	assert.Equal(t, map[string]string{"a": "1.1.1.1", "b": "2.2.2.2"}, hosts.Result())
	assert.Equal(t, "a=1.1.1.1 b=2.2.2.2", hosts.String())
	assert.Error(t, hosts.SetRaw(map[string]any{"c": 1}))
}

func TestWatchExcludes(t *testing.T) {
	w := NewWatchExcludes()

	require.NoError(t, w.Set("Function=a.txt"))
	require.NoError(t, w.Set("Function=b.txt"))
	require.NoError(t, w.SetRaw(map[string]any{"Layer": []any{"c", "d"}, "Function": "e"}))

	assert.Equal(t, map[string][]string{
		"Function": {"a.txt", "b.txt", "e"},
		"Layer":    {"c", "d"},
	}, w.Value())

	for _, bad := range []string{"=path", "Function=", "a=b=c", "novalue"} {
		err := w.Set(bad)
		require.Error(t, err, bad)
		assert.Equal(t, apperrors.ErrCodeInsufficientPairLength, apperrors.GetErrorCode(err), bad)
		assert.Equal(t, bad, apperrors.GetErrorValue(err))
	}
}

func TestOutputFormat(t *testing.T) {
	f := NewOutputFormat(constants.OutputText, constants.OutputJSON, constants.OutputText)
	assert.Equal(t, "text", f.String())

	require.NoError(t, f.Set(" JSON "))
	assert.Equal(t, constants.OutputJSON, f.Value())

	err := f.Set("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, text")
	assert.Equal(t, constants.OutputJSON, f.Value())
}

func TestNew(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(string(kind), func(t *testing.T) {
			v, err := New(kind)
			require.NoError(t, err)
			assert.NotEmpty(t, v.Type())
			assert.Empty(t, v.String())
			assert.Empty(t, v.Pairs())
			assert.NotEmpty(t, Example(kind))
		})
	}

	assert.Empty(t, Example("unknown"))
	_, err := New("unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parameter-overrides")
}
