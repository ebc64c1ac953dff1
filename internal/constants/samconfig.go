package constants

// DefaultSamconfigFile is the configuration file read when --config-file is not set.
const DefaultSamconfigFile = "samconfig.toml"

// DefaultSamconfigEnv is the samconfig environment read when --env is not set.
const DefaultSamconfigEnv = "default"

// DefaultSamconfigCommand is the samconfig command section read when --command is not set.
const DefaultSamconfigCommand = "deploy"

// SamconfigParametersSection is the table holding the option values of a command.
const SamconfigParametersSection = "parameters"

// SamconfigGlobalCommand is the command section whose values apply to every command.
const SamconfigGlobalCommand = "global"
