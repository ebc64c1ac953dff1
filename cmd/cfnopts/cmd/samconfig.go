package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/runvoy/cfnopts/internal/constants"
	"github.com/runvoy/cfnopts/internal/kv"
	"github.com/runvoy/cfnopts/internal/options"
	"github.com/runvoy/cfnopts/internal/samconfig"

	"github.com/spf13/cobra"
)

var (
	samconfigFile    string
	samconfigEnv     string
	samconfigCommand string
	samconfigMulti   bool
	samconfigOutput  = options.NewOutputFormat(constants.OutputText,
		constants.OutputText, constants.OutputJSON, constants.OutputYAML)
)

var samconfigCmd = &cobra.Command{
	Use:   "samconfig",
	Short: "Decode the option values stored in a samconfig file",
	Long: `Read the parameters of one command of a samconfig.toml environment, decode every
key-value option it holds and print the result. Global parameters are merged under the
command's own parameters.

Examples:
  cfnopts samconfig
  cfnopts samconfig --config-file ./samconfig.toml --env prod --command deploy --output json`,
	Args: cobra.NoArgs,
	RunE: samconfigRun,
}

func init() {
	rootCmd.AddCommand(samconfigCmd)

	samconfigCmd.Flags().StringVar(&samconfigFile, "config-file", constants.DefaultSamconfigFile,
		"Path to the samconfig file")
	samconfigCmd.Flags().StringVar(&samconfigEnv, "env", constants.DefaultSamconfigEnv,
		"Environment section to read")
	samconfigCmd.Flags().StringVar(&samconfigCommand, "command", constants.DefaultSamconfigCommand,
		"Command whose parameters are read")
	samconfigCmd.Flags().BoolVar(&samconfigMulti, "multi", false,
		"Keep every value of repeated tag keys")
	samconfigCmd.Flags().VarP(samconfigOutput, "output", "o", "Output format: text, json or yaml")
}

func samconfigRun(cmd *cobra.Command, _ []string) error {
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return err
	}

	format := samconfigOutput.Value()
	if !cmd.Flags().Changed("output") {
		format = constants.OutputFormat(cfg.Output)
	}

	service := NewSamconfigService(NewOutputWrapper(), slog.Default())
	return service.Show(&SamconfigRequest{
		Path:    stringFlagOrDefault(cmd, "config-file", samconfigFile, cfg.SamconfigFile),
		Env:     stringFlagOrDefault(cmd, "env", samconfigEnv, cfg.SamconfigEnv),
		Command: stringFlagOrDefault(cmd, "command", samconfigCommand, cfg.SamconfigCommand),
		Multi:   samconfigMulti,
		Format:  format,
	})
}

// SamconfigRequest selects the samconfig section to decode.
type SamconfigRequest struct {
	Path    string
	Env     string
	Command string
	Multi   bool
	Format  constants.OutputFormat
}

// SamconfigService decodes and prints samconfig option values.
type SamconfigService struct {
	output OutputInterface
	logger *slog.Logger
}

// NewSamconfigService creates a new SamconfigService with the provided dependencies.
func NewSamconfigService(outputter OutputInterface, log *slog.Logger) *SamconfigService {
	return &SamconfigService{
		output: outputter,
		logger: log,
	}
}

// Show decodes the selected section and prints it.
func (s *SamconfigService) Show(req *SamconfigRequest) error {
	resolved, err := resolveSamconfig(req.Path, req.Env, req.Command, req.Multi, s.logger)
	if err != nil {
		return err
	}

	if req.Format != constants.OutputText {
		doc := make(map[string]any, len(resolved.Options)+len(resolved.Scalars))
		for key, value := range resolved.Scalars {
			doc[key] = value
		}
		for key, value := range resolved.Options {
			doc[key] = value.Result()
		}
		return s.output.Structured(req.Format, doc, nil, nil)
	}

	s.output.Infof("Decoded [%s.%s] from %s", req.Env, req.Command, s.output.Bold(req.Path))

	var rows [][]string
	for _, key := range resolved.Keys() {
		for _, row := range options.Rows(resolved.Options[key]) {
			rows = append(rows, append([]string{key}, row...))
		}
	}
	if len(rows) > 0 {
		s.output.Table([]string{"OPTION", "KEY", "VALUE"}, rows)
	} else {
		s.output.Warningf("No key-value options found")
	}

	if len(resolved.Scalars) > 0 {
		s.output.Blank()
		keys := make([]string, 0, len(resolved.Scalars))
		for key := range resolved.Scalars {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			s.output.KeyValue(key, fmt.Sprint(resolved.Scalars[key]))
		}
	}
	return nil
}

func resolveSamconfig(path, env, command string, multi bool, log *slog.Logger) (*samconfig.Resolved, error) {
	file, err := samconfig.Load(path)
	if err != nil {
		return nil, err
	}

	params, err := file.Parameters(env, command)
	if err != nil {
		return nil, err
	}

	opts := []kv.Option{kv.WithLogger(log)}
	if multi {
		opts = append(opts, kv.WithMultipleValuesPerKey())
	}
	return samconfig.Resolve(params, log, opts...)
}

// loadSamconfigDefaults resolves the section used as defaults by deploy and upload.
// A missing file or section yields nil without error.
func loadSamconfigDefaults(path, env, command string, log *slog.Logger) (*samconfig.Resolved, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.Debug("no samconfig file", "path", path)
		return nil, nil
	}

	file, err := samconfig.Load(path)
	if err != nil {
		return nil, err
	}

	params, err := file.Parameters(env, command)
	if err != nil {
		log.Debug("no samconfig defaults", "path", path, "error", err)
		return nil, nil
	}
	return samconfig.Resolve(params, log, kv.WithLogger(log))
}
