// Package constants defines global constants used throughout cfnopts.
// It includes version information, paths, and configuration keys.
package constants

var version = "0.0.0-development" // Updated at build time

// GetVersion returns the current version of cfnopts.
func GetVersion() *string {
	return &version
}

// ProjectName is the name of the CLI tool
const ProjectName = "cfnopts"

// ConfigDirName is the name of the configuration directory in the user's home directory
const ConfigDirName = ".cfnopts"

// ConfigFileName is the name of the global configuration file
const ConfigFileName = "config.yaml"

// EnvVarPrefix prefixes every environment variable read by the configuration loader.
const EnvVarPrefix = "CFNOPTS"

// ConfigDirPath returns the full path to the global configuration directory.
func ConfigDirPath(homeDir string) string {
	return homeDir + "/" + ConfigDirName
}

// ConfigFilePath returns the full path to the global configuration file
func ConfigFilePath(homeDir string) string {
	return ConfigDirPath(homeDir) + "/" + ConfigFileName
}

// Environment represents the execution environment used to pick a log handler.
type Environment string

// Environment types for logger configuration
const (
	Development Environment = "development"
	Production  Environment = "production"
	CLI         Environment = "cli"
)

// ConfigDirPermissions is the permission mode of the configuration directory.
const ConfigDirPermissions = 0o750

// ConfigFilePermissions is the permission mode of the configuration file.
const ConfigFilePermissions = 0o600
