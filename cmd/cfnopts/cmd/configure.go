package cmd

import (
	"errors"
	"fmt"

	"github.com/runvoy/cfnopts/internal/config"
	"github.com/runvoy/cfnopts/internal/constants"

	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Save default settings to the configuration file",
	Long: fmt.Sprintf(`Save default settings used by every command.
This creates or updates the configuration file at ~/%s/%s. Only the given flags change;
other settings keep their current values.

Examples:
  cfnopts configure --region eu-west-1 --stack-name my-app
  cfnopts configure --samconfig-env prod --default-output json`, constants.ConfigDirName, constants.ConfigFileName),
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

// configureFlags maps configure flags to the settings they update.
var configureFlags = []struct {
	name  string
	usage string
	set   func(cfg *config.Config, value string)
}{
	{"region", "Default AWS region", func(c *config.Config, v string) { c.Region = v }},
	{"profile", "Default AWS shared config profile", func(c *config.Config, v string) { c.Profile = v }},
	{"stack-name", "Default CloudFormation stack name", func(c *config.Config, v string) { c.StackName = v }},
	{"samconfig-file", "Default samconfig file", func(c *config.Config, v string) { c.SamconfigFile = v }},
	{"samconfig-env", "Default samconfig environment", func(c *config.Config, v string) { c.SamconfigEnv = v }},
	{"samconfig-command", "Default samconfig command", func(c *config.Config, v string) { c.SamconfigCommand = v }},
	{"default-output", "Default output format: text, json or yaml", func(c *config.Config, v string) { c.Output = v }},
	{"log-level", "Log level: DEBUG, INFO, WARN or ERROR", func(c *config.Config, v string) { c.LogLevel = v }},
}

func init() {
	rootCmd.AddCommand(configureCmd)

	for _, f := range configureFlags {
		configureCmd.Flags().String(f.name, "", f.usage)
	}
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return err
	}

	updates := map[string]string{}
	for _, f := range configureFlags {
		if cmd.Flags().Changed(f.name) {
			value, _ := cmd.Flags().GetString(f.name)
			updates[f.name] = value
		}
	}

	service := NewConfigureService(NewOutputWrapper(), NewConfigSaver(), NewConfigPathGetter())
	return service.Configure(cfg, updates)
}

// ConfigSaver defines an interface for saving configuration
type ConfigSaver interface {
	Save(*config.Config) error
}

// ConfigPathGetter defines an interface for retrieving the configuration path
type ConfigPathGetter interface {
	GetConfigPath() (string, error)
}

// ConfigSaverFunc adapts a function to the ConfigSaver interface
type ConfigSaverFunc func(*config.Config) error

// Save executes the underlying function to persist configuration
func (f ConfigSaverFunc) Save(cfg *config.Config) error {
	return f(cfg)
}

// ConfigPathGetterFunc adapts a function to the ConfigPathGetter interface
type ConfigPathGetterFunc func() (string, error)

// GetConfigPath executes the underlying function to retrieve the config path
func (f ConfigPathGetterFunc) GetConfigPath() (string, error) {
	return f()
}

// NewConfigSaver creates a ConfigSaver using the global config.Save function
func NewConfigSaver() ConfigSaver {
	return ConfigSaverFunc(config.Save)
}

// NewConfigPathGetter creates a ConfigPathGetter using the global config.GetConfigPath function
func NewConfigPathGetter() ConfigPathGetter {
	return ConfigPathGetterFunc(config.GetConfigPath)
}

// ConfigureService handles configuration logic
type ConfigureService struct {
	output           OutputInterface
	configSaver      ConfigSaver
	configPathGetter ConfigPathGetter
}

// NewConfigureService creates a new ConfigureService with the provided dependencies
func NewConfigureService(
	outputter OutputInterface,
	configSaver ConfigSaver,
	configPathGetter ConfigPathGetter,
) *ConfigureService {
	return &ConfigureService{
		output:           outputter,
		configSaver:      configSaver,
		configPathGetter: configPathGetter,
	}
}

// Configure applies updates, keyed by flag name, over current and saves the result.
func (s *ConfigureService) Configure(current *config.Config, updates map[string]string) error {
	if len(updates) == 0 {
		return errors.New("nothing to configure: pass at least one setting flag")
	}

	cfg := *current
	for _, f := range configureFlags {
		if value, ok := updates[f.name]; ok {
			f.set(&cfg, value)
			s.output.KeyValue(f.name, value)
		}
	}

	if err := s.configSaver.Save(&cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	configPath, err := s.configPathGetter.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	s.output.Successf("Configuration saved successfully")
	s.output.KeyValue("Configuration path", configPath)
	return nil
}
