package cmd

import (
	"errors"
	"testing"

	"github.com/runvoy/cfnopts/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureService_Configure(t *testing.T) {
	var saved *config.Config
	out := newMockOutput()
	service := NewConfigureService(
		out,
		ConfigSaverFunc(func(cfg *config.Config) error {
			saved = cfg
			return nil
		}),
		ConfigPathGetterFunc(func() (string, error) { return "/home/u/.cfnopts/config.yaml", nil }),
	)
	current := &config.Config{Region: "us-east-1", SamconfigEnv: "default", Output: "text"}

	err := service.Configure(current, map[string]string{
		"region":         "eu-west-1",
		"default-output": "json",
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "eu-west-1", saved.Region)
	assert.Equal(t, "json", saved.Output)
	assert.Equal(t, "default", saved.SamconfigEnv)
	assert.Equal(t, "us-east-1", current.Region, "current config must not be modified")
	assert.Equal(t, "/home/u/.cfnopts/config.yaml", out.keyValues["Configuration path"])
	assert.Equal(t, []string{"Configuration saved successfully"}, out.successes)
}

func TestConfigureService_Errors(t *testing.T) {
	pathGetter := ConfigPathGetterFunc(func() (string, error) { return "config.yaml", nil })

	t.Run("no updates", func(t *testing.T) {
		service := NewConfigureService(newMockOutput(), ConfigSaverFunc(func(*config.Config) error { return nil }), pathGetter)
		err := service.Configure(&config.Config{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nothing to configure")
	})

	t.Run("save fails", func(t *testing.T) {
		out := newMockOutput()
		service := NewConfigureService(out, ConfigSaverFunc(func(*config.Config) error {
			return errors.New("read-only file system")
		}), pathGetter)
		err := service.Configure(&config.Config{}, map[string]string{"region": "eu-west-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save configuration")
		assert.Empty(t, out.successes)
	})
}

func TestConfigureFlagsRegistered(t *testing.T) {
	for _, f := range configureFlags {
		assert.NotNil(t, configureCmd.Flags().Lookup(f.name), "flag %s", f.name)
	}
}
