package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/runvoy/cfnopts/internal/config"
	"github.com/runvoy/cfnopts/internal/constants"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  time.Duration
		expectErr bool
	}{
		{"empty uses default", "", constants.DefaultTimeout, false},
		{"minutes", "10m", 10 * time.Minute, false},
		{"seconds duration", "30s", 30 * time.Second, false},
		{"hours", "1h", time.Hour, false},
		{"plain seconds", "600", 600 * time.Second, false},
		{"invalid", "soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimeout(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timeout format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGetConfigFromContext(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	_, err := getConfigFromContext(cmd)
	require.Error(t, err)

	cfg := &config.Config{StackName: "app"}
	cmd.SetContext(context.WithValue(context.Background(), constants.ConfigCtxKey, cfg))
	got, err := getConfigFromContext(cmd)
	require.NoError(t, err)
	assert.Same(t, cfg, got)
}

func TestGetStartTimeFromContext(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	assert.True(t, getStartTimeFromContext(cmd).IsZero())

	now := time.Now()
	cmd.SetContext(context.WithValue(context.Background(), constants.StartTimeCtxKey, now))
	assert.Equal(t, now, getStartTimeFromContext(cmd))
}

func TestStringFlagOrDefault(t *testing.T) {
	newCmd := func() (*cobra.Command, *string) {
		var value string
		cmd := &cobra.Command{}
		cmd.Flags().StringVar(&value, "env", "default", "")
		return cmd, &value
	}

	t.Run("unset flag takes first non-empty fallback", func(t *testing.T) {
		cmd, value := newCmd()
		assert.Equal(t, "staging", stringFlagOrDefault(cmd, "env", *value, "", "staging", "prod"))
	})

	t.Run("unset flag without fallbacks keeps the default", func(t *testing.T) {
		cmd, value := newCmd()
		assert.Equal(t, "default", stringFlagOrDefault(cmd, "env", *value, ""))
	})

	t.Run("explicit flag wins", func(t *testing.T) {
		cmd, value := newCmd()
		require.NoError(t, cmd.Flags().Set("env", "prod"))
		assert.Equal(t, "prod", stringFlagOrDefault(cmd, "env", *value, "staging"))
	})
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCmd().Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"parse", "samconfig", "deploy", "upload", "configure", "version"} {
		assert.True(t, names[name], "command %s should be registered", name)
	}
}
