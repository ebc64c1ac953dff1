// Package config manages configuration for the cfnopts CLI.
// It uses Viper for unified configuration management from files and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/runvoy/cfnopts/internal/constants"
	apperrors "github.com/runvoy/cfnopts/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the CLI configuration.
// It supports loading from a YAML file and environment variables.
type Config struct {
	// AWS settings used by deploy and upload
	Region  string `mapstructure:"region" yaml:"region"`
	Profile string `mapstructure:"profile" yaml:"profile"`

	// Defaults for command flags
	StackName        string `mapstructure:"stack_name" yaml:"stack_name" validate:"omitempty,max=128"`
	SamconfigFile    string `mapstructure:"samconfig_file" yaml:"samconfig_file" validate:"required"`
	SamconfigEnv     string `mapstructure:"samconfig_env" yaml:"samconfig_env" validate:"required"`
	SamconfigCommand string `mapstructure:"samconfig_command" yaml:"samconfig_command" validate:"required"`
	Output           string `mapstructure:"output" yaml:"output" validate:"oneof=text json yaml"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

var validate = validator.New()

// Load loads the configuration from ~/.cfnopts/config.yaml and CFNOPTS_ environment
// variables. A missing config file is not an error.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from the given file and the environment.
// Environment variables take precedence over config file values.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := loadConfigFile(v, path); err != nil {
		return nil, apperrors.ErrInvalidConfig("error loading config file", err)
	}

	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.ErrInvalidConfig("error unmarshaling config", err)
	}

	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))
	if err := validate.Struct(&cfg); err != nil {
		return nil, apperrors.ErrInvalidConfig("config validation failed", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("error getting current user: %w", err)
	}

	configDir := constants.ConfigDirPath(currentUser.HomeDir)
	return filepath.Join(configDir, constants.ConfigFileName), nil
}

// GetLogLevel returns the slog.Level from the string configuration.
// Defaults to INFO if the level string is invalid.
func (c *Config) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("samconfig_file", constants.DefaultSamconfigFile)
	v.SetDefault("samconfig_env", constants.DefaultSamconfigEnv)
	v.SetDefault("samconfig_command", constants.DefaultSamconfigCommand)
	v.SetDefault("output", string(constants.OutputText))
	v.SetDefault("log_level", "INFO")
}

func loadConfigFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	return nil
}

func bindEnvVars(v *viper.Viper) {
	envVars := []string{
		"LOG_LEVEL",
		"OUTPUT",
		"PROFILE",
		"REGION",
		"SAMCONFIG_COMMAND",
		"SAMCONFIG_ENV",
		"SAMCONFIG_FILE",
		"STACK_NAME",
	}

	for _, envVar := range envVars {
		// Lowercase to match mapstructure tags (keep underscores)
		_ = v.BindEnv(strings.ToLower(envVar), constants.EnvVarPrefix+"_"+envVar)
	}
}

// Save saves the configuration to the user's home directory.
// Overwrites the existing config file if it exists.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo validates cfg and writes it to path.
func SaveTo(path string, cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return apperrors.ErrInvalidConfig("config validation failed", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPermissions); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	v := viper.New()
	v.Set("region", cfg.Region)
	v.Set("profile", cfg.Profile)
	v.Set("stack_name", cfg.StackName)
	v.Set("samconfig_file", cfg.SamconfigFile)
	v.Set("samconfig_env", cfg.SamconfigEnv)
	v.Set("samconfig_command", cfg.SamconfigCommand)
	v.Set("output", cfg.Output)
	v.Set("log_level", cfg.LogLevel)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	if err := os.Chmod(path, constants.ConfigFilePermissions); err != nil {
		return fmt.Errorf("error setting config file permissions: %w", err)
	}

	return nil
}
