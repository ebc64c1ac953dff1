package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/runvoy/cfnopts/internal/constants"
	"github.com/runvoy/cfnopts/internal/kv"
	"github.com/runvoy/cfnopts/internal/options"

	"github.com/spf13/cobra"
)

var (
	parseMulti  bool
	parseOutput = options.NewOutputFormat(constants.OutputText,
		constants.OutputText, constants.OutputJSON, constants.OutputYAML)
)

var parseCmd = &cobra.Command{
	Use:   "parse <kind> <value>...",
	Short: "Decode option values and print the resulting mapping",
	Long: fmt.Sprintf(`Decode one or more option values of the given kind and print the mapping.

Kinds:
%s
Examples:
  cfnopts parse tags 'Owner="team a" Env=prod'
  cfnopts parse parameter-overrides ParameterKey=Stage,ParameterValue=prod Bucket=b
  cfnopts parse metadata '{"team": "platform"}' --output json
  cfnopts parse signing-profiles HelloFunction=MyProfile:123456789012
  cfnopts parse tags A=1 A=2 --multi --output yaml`, kindHelp()),
	Args: cobra.MinimumNArgs(2),
	RunE: parseRun,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().VarP(parseOutput, "output", "o", "Output format: text, json or yaml")
	parseCmd.Flags().BoolVar(&parseMulti, "multi", false,
		"Keep every value of repeated keys (tags only)")
}

func parseRun(cmd *cobra.Command, args []string) error {
	format := parseOutput.Value()
	if cfg, err := getConfigFromContext(cmd); err == nil && !cmd.Flags().Changed("output") {
		format = constants.OutputFormat(cfg.Output)
	}

	service := NewParseService(NewOutputWrapper(), slog.Default())
	return service.Parse(options.Kind(args[0]), args[1:], parseMulti, format)
}

func kindHelp() string {
	var b strings.Builder
	for _, kind := range options.Kinds() {
		fmt.Fprintf(&b, "  %-26s '%s'\n", kind, options.Example(kind))
	}
	return b.String()
}

// ParseService decodes option values and prints them.
type ParseService struct {
	output OutputInterface
	logger *slog.Logger
}

// NewParseService creates a new ParseService with the provided dependencies.
func NewParseService(outputter OutputInterface, log *slog.Logger) *ParseService {
	return &ParseService{
		output: outputter,
		logger: log,
	}
}

// Parse decodes values as options of the given kind and prints the mapping in format.
func (s *ParseService) Parse(kind options.Kind, values []string, multi bool, format constants.OutputFormat) error {
	opts := []kv.Option{kv.WithLogger(s.logger)}
	if multi {
		opts = append(opts, kv.WithMultipleValuesPerKey())
	}

	value, err := options.New(kind, opts...)
	if err != nil {
		return err
	}

	for _, raw := range values {
		if err := value.Set(raw); err != nil {
			return err
		}
	}

	rows := options.Rows(value)
	if format == constants.OutputText && len(rows) == 0 {
		s.output.Warningf("No %s decoded", kind)
		return nil
	}
	return s.output.Structured(format, value.Result(), []string{"KEY", "VALUE"}, rows)
}
