package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/runvoy/cfnopts/internal/config"
	"github.com/runvoy/cfnopts/internal/constants"
	"github.com/runvoy/cfnopts/internal/deploy"
	"github.com/runvoy/cfnopts/internal/kv"
	"github.com/runvoy/cfnopts/internal/options"
	"github.com/runvoy/cfnopts/internal/samconfig"

	"github.com/spf13/cobra"
)

var (
	deployStackName    string
	deployTemplateFile string
	deployCapabilities []string
	deployNoWait       bool
	deployRegion       string
	deployProfile      string
	deployConfigFile   string
	deployConfigEnv    string
	deployParameters   = options.NewParameterOverrides()
	deployTags         = options.NewTags()
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Create or update a CloudFormation stack",
	Long: `Create or update a CloudFormation stack with decoded parameter overrides and tags.

Values missing from the command line are read from the [env.deploy.parameters] section of
the samconfig file when it exists.

Examples:
  # Deploy a local template
  cfnopts deploy --stack-name my-app --template-file template.yaml

  # Deploy with parameters in both syntaxes and quoted tags
  cfnopts deploy --stack-name my-app --template-file template.yaml \
    --parameter-overrides 'ParameterKey=Stage,ParameterValue=prod Bucket=my-bucket' \
    --tags 'Owner="team a" CostCenter=42'

  # Deploy a template stored in S3 without waiting
  cfnopts deploy --stack-name my-app --template-file https://bucket.s3.amazonaws.com/t.yaml --no-wait`,
	Args: cobra.NoArgs,
	RunE: deployRun,
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().StringVar(&deployStackName, "stack-name", "", "CloudFormation stack name")
	deployCmd.Flags().StringVarP(&deployTemplateFile, "template-file", "t", "",
		"Template file path or S3 HTTPS URL")
	deployCmd.Flags().Var(deployParameters, "parameter-overrides",
		"Parameters as 'Key=Value' or 'ParameterKey=Key,ParameterValue=Value' (repeatable)")
	deployCmd.Flags().Var(deployTags, "tags", "Stack tags as 'Key=Value' pairs (repeatable)")
	deployCmd.Flags().StringSliceVar(&deployCapabilities, "capabilities", nil,
		"Stack capabilities (defaults to CAPABILITY_IAM)")
	deployCmd.Flags().BoolVar(&deployNoWait, "no-wait", false, "Do not wait for the stack operation to complete")
	deployCmd.Flags().StringVar(&deployRegion, "region", "", "AWS region. Uses AWS SDK default if not specified")
	deployCmd.Flags().StringVar(&deployProfile, "profile", "", "AWS shared config profile")
	deployCmd.Flags().StringVar(&deployConfigFile, "config-file", constants.DefaultSamconfigFile,
		"samconfig file holding default values")
	deployCmd.Flags().StringVar(&deployConfigEnv, "config-env", constants.DefaultSamconfigEnv,
		"samconfig environment holding default values")
}

func deployRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := getConfigFromContext(cmd)
	if err != nil {
		return err
	}

	defaults, err := loadSamconfigDefaults(
		stringFlagOrDefault(cmd, "config-file", deployConfigFile, cfg.SamconfigFile),
		stringFlagOrDefault(cmd, "config-env", deployConfigEnv, cfg.SamconfigEnv),
		constants.DefaultSamconfigCommand,
		slog.Default(),
	)
	if err != nil {
		return fmt.Errorf("failed to read samconfig defaults: %w", err)
	}

	opts, err := buildDeployOptions(cmd, cfg, defaults)
	if err != nil {
		return err
	}

	deployer, err := deploy.NewDeployer(ctx,
		stringFlagOrDefault(cmd, "region", deployRegion, samconfigString(defaults, "region"), cfg.Region),
		stringFlagOrDefault(cmd, "profile", deployProfile, samconfigString(defaults, "profile"), cfg.Profile),
		slog.Default())
	if err != nil {
		return err
	}

	service := NewDeployService(deployer, NewOutputWrapper())
	return service.Deploy(ctx, opts)
}

// buildDeployOptions merges command line flags over samconfig defaults and the CLI config.
func buildDeployOptions(cmd *cobra.Command, cfg *config.Config, defaults *samconfig.Resolved) (*deploy.Options, error) {
	opts := &deploy.Options{
		StackName: stringFlagOrDefault(cmd, "stack-name", deployStackName,
			samconfigString(defaults, "stack_name"), cfg.StackName),
		Template: stringFlagOrDefault(cmd, "template-file", deployTemplateFile,
			samconfigString(defaults, "template_file"), samconfigString(defaults, "template")),
		Parameters:   deployParameters.Value(),
		Tags:         deployTags.Value(),
		Capabilities: deployCapabilities,
		Wait:         !deployNoWait,
	}

	if !cmd.Flags().Changed("parameter-overrides") {
		if params, ok := samconfigOption[map[string]string](defaults, "parameter_overrides"); ok {
			opts.Parameters = params
		}
	}
	if !cmd.Flags().Changed("tags") {
		if tags, ok := samconfigOption[kv.Values](defaults, "tags"); ok {
			opts.Tags = tags
		}
	}
	if !cmd.Flags().Changed("capabilities") && defaults != nil {
		if raw, ok := defaults.Scalars["capabilities"]; ok {
			args, err := kv.Arguments(raw)
			if err != nil {
				return nil, fmt.Errorf("capabilities: %w", err)
			}
			opts.Capabilities = nil
			for _, arg := range args {
				opts.Capabilities = append(opts.Capabilities, strings.Fields(arg)...)
			}
		}
	}

	if opts.StackName == "" {
		return nil, errors.New("a stack name is required (--stack-name)")
	}
	if opts.Template == "" {
		return nil, errors.New("a template is required (--template-file)")
	}
	return opts, nil
}

func samconfigString(r *samconfig.Resolved, key string) string {
	if r == nil {
		return ""
	}
	s, _ := r.Scalars[key].(string)
	return s
}

func samconfigOption[T any](r *samconfig.Resolved, key string) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	value, ok := r.Options[key]
	if !ok {
		return zero, false
	}
	typed, ok := value.Result().(T)
	return typed, ok
}

// StackDeployer creates or updates stacks.
type StackDeployer interface {
	Deploy(ctx context.Context, opts *deploy.Options) (*deploy.Result, error)
	GetRegion() string
}

// DeployService handles deployment display logic.
type DeployService struct {
	deployer StackDeployer
	output   OutputInterface
}

// NewDeployService creates a new DeployService with the provided dependencies.
func NewDeployService(deployer StackDeployer, outputter OutputInterface) *DeployService {
	return &DeployService{
		deployer: deployer,
		output:   outputter,
	}
}

// Deploy runs the deployment and reports its outcome.
func (s *DeployService) Deploy(ctx context.Context, opts *deploy.Options) error {
	s.output.Infof("Deploying stack %s", s.output.Bold(opts.StackName))
	s.output.KeyValue("Region", s.deployer.GetRegion())
	s.output.KeyValue("Template", opts.Template)
	for _, p := range deploy.Parameters(opts.Parameters) {
		s.output.KeyValue("Parameter "+*p.ParameterKey, *p.ParameterValue)
	}
	for _, t := range deploy.Tags(opts.Tags) {
		s.output.KeyValue("Tag "+*t.Key, *t.Value)
	}
	s.output.Blank()

	result, err := s.deployer.Deploy(ctx, opts)
	if err != nil {
		return err
	}

	if result.NoChanges {
		s.output.Successf("Stack is already up to date")
		return nil
	}

	if !opts.Wait {
		s.output.Successf("Stack %s initiated. Use AWS Console or CLI to monitor progress.", result.OperationType)
		return nil
	}

	s.output.Successf("Stack operation completed with status: %s", result.Status)
	if len(result.Outputs) > 0 {
		keys := make([]string, 0, len(result.Outputs))
		for key := range result.Outputs {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		rows := make([][]string, len(keys))
		for i, key := range keys {
			rows[i] = []string{key, result.Outputs[key]}
		}
		s.output.Blank()
		s.output.Infof("Stack outputs:")
		s.output.Table([]string{"OUTPUT", "VALUE"}, rows)
	}
	return nil
}
