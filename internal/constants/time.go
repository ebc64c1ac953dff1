package constants

import "time"

// DefaultTimeout is the timeout applied to commands when --timeout is not set.
const DefaultTimeout = 10 * time.Minute

// StackPollInterval is the interval between CloudFormation stack status checks.
const StackPollInterval = 5 * time.Second

// TestContextTimeout is the timeout for test contexts.
const TestContextTimeout = 5 * time.Second
