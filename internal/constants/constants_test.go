package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.NotNil(t, v, "Version should not be nil")
	assert.NotEmpty(t, *v, "Version should not be empty")
	assert.Equal(t, v, GetVersion(), "GetVersion should return the same pointer")
}

func TestConfigPaths(t *testing.T) {
	tests := []struct {
		name    string
		homeDir string
		dir     string
		file    string
	}{
		{
			name:    "standard home directory",
			homeDir: "/home/user",
			dir:     "/home/user/.cfnopts",
			file:    "/home/user/.cfnopts/config.yaml",
		},
		{
			name:    "empty home directory",
			homeDir: "",
			dir:     "/.cfnopts",
			file:    "/.cfnopts/config.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.dir, ConfigDirPath(tt.homeDir))
			assert.Equal(t, tt.file, ConfigFilePath(tt.homeDir))
		})
	}
}
