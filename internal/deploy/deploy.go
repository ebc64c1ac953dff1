// Package deploy creates and updates CloudFormation stacks from decoded parameter
// overrides and tags.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/runvoy/cfnopts/internal/constants"
	"github.com/runvoy/cfnopts/internal/kv"
	"github.com/runvoy/cfnopts/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
)

const (
	stackOperationTimeout = 30 * time.Minute
	stackStatusInProgress = "IN_PROGRESS"
	stackStatusNoChanges  = "NO_CHANGES"
	validationErrorCode   = "ValidationError"
	noUpdatesMessage      = "No updates are to be performed"
	stackMissingMessage   = "does not exist"
)

// Operation types reported in Result.
const (
	OperationCreate = "CREATE"
	OperationUpdate = "UPDATE"
)

// CloudFormationClient defines the CloudFormation operations the deployer needs.
// This interface enables mocking for unit tests.
type CloudFormationClient interface {
	DescribeStacks(
		ctx context.Context,
		params *cloudformation.DescribeStacksInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStacksOutput, error)
	DescribeStackEvents(
		ctx context.Context,
		params *cloudformation.DescribeStackEventsInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStackEventsOutput, error)
	CreateStack(
		ctx context.Context,
		params *cloudformation.CreateStackInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.CreateStackOutput, error)
	UpdateStack(
		ctx context.Context,
		params *cloudformation.UpdateStackInput,
		optFns ...func(*cloudformation.Options),
	) (*cloudformation.UpdateStackOutput, error)
}

// Options describes one deployment.
type Options struct {
	StackName string
	// Template is a local template file or an https:// template URL.
	Template     string
	Parameters   map[string]string
	Tags         kv.Values
	Capabilities []string
	Wait         bool
}

// Result describes the outcome of a deployment.
type Result struct {
	StackName     string
	OperationType string
	Status        string
	NoChanges     bool
	Outputs       map[string]string
}

// Deployer creates or updates CloudFormation stacks.
type Deployer struct {
	client       CloudFormationClient
	region       string
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewDeployer creates a deployer from the default AWS configuration. Empty region
// and profile use the SDK defaults.
func NewDeployer(ctx context.Context, region, profile string, log *slog.Logger) (*Deployer, error) {
	var awsOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		awsOpts = append(awsOpts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		awsOpts = append(awsOpts, awsconfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	d := NewDeployerWithClient(cloudformation.NewFromConfig(awsCfg), awsCfg.Region)
	if log != nil {
		d.logger = log
	}
	return d, nil
}

// NewDeployerWithClient creates a deployer with a custom client (for testing).
func NewDeployerWithClient(client CloudFormationClient, region string) *Deployer {
	return &Deployer{
		client:       client,
		region:       region,
		pollInterval: constants.StackPollInterval,
		logger:       slog.Default(),
	}
}

// GetRegion returns the AWS region being used.
func (d *Deployer) GetRegion() string {
	return d.region
}

// Parameters converts decoded parameter overrides to CloudFormation parameters,
// sorted by key.
func Parameters(overrides map[string]string) []types.Parameter {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	params := make([]types.Parameter, 0, len(keys))
	for _, key := range keys {
		params = append(params, types.Parameter{
			ParameterKey:   aws.String(key),
			ParameterValue: aws.String(overrides[key]),
		})
	}
	return params
}

// Tags converts decoded tags to CloudFormation tags, sorted by key. Stack tag keys
// are unique, so a key with several values keeps the last one.
func Tags(values kv.Values) []types.Tag {
	tags := make([]types.Tag, 0, len(values))
	for _, key := range values.Keys() {
		tags = append(tags, types.Tag{
			Key:   aws.String(key),
			Value: aws.String(values.Get(key)),
		})
	}
	return tags
}

type templateSource struct {
	URL  string
	Body string
}

func resolveTemplate(template string) (*templateSource, error) {
	if template == "" {
		return nil, errors.New("a template file or URL is required")
	}
	if strings.HasPrefix(template, "https://") {
		return &templateSource{URL: template}, nil
	}

	body, err := os.ReadFile(template)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return &templateSource{Body: string(body)}, nil
}

// Deploy creates the stack, or updates it when it already exists.
func (d *Deployer) Deploy(ctx context.Context, opts *Options) (*Result, error) {
	template, err := resolveTemplate(opts.Template)
	if err != nil {
		return nil, err
	}

	exists, err := d.CheckStackExists(ctx, opts.StackName)
	if err != nil {
		return nil, fmt.Errorf("failed to check stack status: %w", err)
	}

	result := &Result{
		StackName: opts.StackName,
		Outputs:   map[string]string{},
	}

	logArgs := []any{
		"operation", "CloudFormation.CreateOrUpdateStack",
		"stack_name", opts.StackName,
		"parameters", opts.Parameters,
		"tags", opts.Tags.Map(),
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	d.logger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	if exists {
		result.OperationType = OperationUpdate
		err = d.updateStack(ctx, opts, template)
	} else {
		result.OperationType = OperationCreate
		err = d.createStack(ctx, opts, template)
	}
	if err != nil {
		if isNoUpdatesError(err) {
			result.NoChanges = true
			result.Status = stackStatusNoChanges
			return result, nil
		}
		return nil, fmt.Errorf("failed to %s stack: %w", strings.ToLower(result.OperationType), err)
	}

	if !opts.Wait {
		result.Status = stackStatusInProgress
		return result, nil
	}

	finalStatus, err := d.waitForStackOperation(ctx, opts.StackName)
	if err != nil {
		return nil, fmt.Errorf("stack operation failed: %w", err)
	}
	result.Status = finalStatus

	outputs, err := d.GetStackOutputs(ctx, opts.StackName)
	if err != nil {
		return result, fmt.Errorf("stack deployment succeeded but failed to retrieve outputs: %w", err)
	}
	result.Outputs = outputs

	return result, nil
}

func capabilities(names []string) []types.Capability {
	if len(names) == 0 {
		return []types.Capability{types.CapabilityCapabilityIam}
	}
	caps := make([]types.Capability, len(names))
	for i, name := range names {
		caps[i] = types.Capability(name)
	}
	return caps
}

func (d *Deployer) createStack(ctx context.Context, opts *Options, template *templateSource) error {
	input := &cloudformation.CreateStackInput{
		StackName:    aws.String(opts.StackName),
		Parameters:   Parameters(opts.Parameters),
		Tags:         Tags(opts.Tags),
		Capabilities: capabilities(opts.Capabilities),
	}

	if template.URL != "" {
		input.TemplateURL = aws.String(template.URL)
	} else {
		input.TemplateBody = aws.String(template.Body)
	}

	_, err := d.client.CreateStack(ctx, input)
	return err
}

func (d *Deployer) updateStack(ctx context.Context, opts *Options, template *templateSource) error {
	input := &cloudformation.UpdateStackInput{
		StackName:    aws.String(opts.StackName),
		Parameters:   Parameters(opts.Parameters),
		Tags:         Tags(opts.Tags),
		Capabilities: capabilities(opts.Capabilities),
	}

	if template.URL != "" {
		input.TemplateURL = aws.String(template.URL)
	} else {
		input.TemplateBody = aws.String(template.Body)
	}

	_, err := d.client.UpdateStack(ctx, input)
	return err
}

// CheckStackExists checks if a CloudFormation stack exists.
func (d *Deployer) CheckStackExists(ctx context.Context, stackName string) (bool, error) {
	_, err := d.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		if isStackMissingError(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isValidationError(err error, message string) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == validationErrorCode && strings.Contains(apiErr.ErrorMessage(), message)
	}
	return strings.Contains(err.Error(), message)
}

func isStackMissingError(err error) bool {
	return isValidationError(err, stackMissingMessage)
}

func isNoUpdatesError(err error) bool {
	return isValidationError(err, noUpdatesMessage)
}

// waitForStackOperation waits for a stack create/update to complete.
func (d *Deployer) waitForStackOperation(ctx context.Context, stackName string) (string, error) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	timeout := time.After(stackOperationTimeout)

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timeout:
			return "", errors.New("timeout waiting for stack operation")
		case <-ticker.C:
			status, reason, err := d.getStackStatus(ctx, stackName)
			if err != nil {
				return "", err
			}
			d.logger.Debug("stack status", "stack_name", stackName, "status", status)

			switch types.StackStatus(status) {
			case types.StackStatusCreateComplete, types.StackStatusUpdateComplete:
				return status, nil
			case types.StackStatusCreateFailed, types.StackStatusRollbackComplete,
				types.StackStatusRollbackFailed, types.StackStatusUpdateRollbackComplete,
				types.StackStatusUpdateRollbackFailed, types.StackStatusDeleteComplete,
				types.StackStatusDeleteFailed, types.StackStatusUpdateFailed:
				if details := d.getFailedResourceEvents(ctx, stackName); details != "" {
					return status, fmt.Errorf(
						"stack operation failed with status %s: %s\n\nResource failures:\n%s",
						status, reason, details)
				}
				return status, fmt.Errorf("stack operation failed with status %s: %s", status, reason)
			}
		}
	}
}

// getStackStatus returns the current status of a stack.
func (d *Deployer) getStackStatus(ctx context.Context, stackName string) (status, reason string, err error) {
	result, err := d.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return "", "", err
	}

	if len(result.Stacks) == 0 {
		return "", "", errors.New("stack not found")
	}

	stack := result.Stacks[0]
	return string(stack.StackStatus), aws.ToString(stack.StackStatusReason), nil
}

// getFailedResourceEvents retrieves detailed failure information from stack events.
func (d *Deployer) getFailedResourceEvents(ctx context.Context, stackName string) string {
	result, err := d.client.DescribeStackEvents(ctx, &cloudformation.DescribeStackEventsInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return ""
	}

	var failures []string
	for i := range result.StackEvents {
		event := &result.StackEvents[i]
		reason := aws.ToString(event.ResourceStatusReason)
		if reason == "" || !strings.Contains(string(event.ResourceStatus), "FAILED") {
			continue
		}
		failures = append(failures, fmt.Sprintf("  - %s (%s): %s",
			aws.ToString(event.LogicalResourceId), aws.ToString(event.ResourceType), reason))
	}

	return strings.Join(failures, "\n")
}

// GetStackOutputs retrieves the outputs from a CloudFormation stack.
func (d *Deployer) GetStackOutputs(ctx context.Context, stackName string) (map[string]string, error) {
	result, err := d.client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return nil, err
	}

	if len(result.Stacks) == 0 {
		return nil, errors.New("stack not found")
	}

	outputs := make(map[string]string)
	for _, out := range result.Stacks[0].Outputs {
		if out.OutputKey != nil && out.OutputValue != nil {
			outputs[*out.OutputKey] = *out.OutputValue
		}
	}

	return outputs, nil
}
