package cmd

import (
	"github.com/runvoy/cfnopts/internal/constants"
	"github.com/runvoy/cfnopts/internal/output"
)

// OutputInterface defines the interface for output operations to enable dependency injection and testing.
type OutputInterface interface {
	Infof(format string, a ...any)
	Successf(format string, a ...any)
	Warningf(format string, a ...any)
	KeyValue(key, value string)
	Table(headers []string, rows [][]string)
	Structured(format constants.OutputFormat, value any, headers []string, rows [][]string) error
	Blank()
	Bold(text string) string
}

// outputWrapper wraps the global output package functions to implement OutputInterface.
type outputWrapper struct{}

// NewOutputWrapper creates a new output wrapper that implements OutputInterface.
func NewOutputWrapper() OutputInterface {
	return &outputWrapper{}
}

func (o *outputWrapper) Infof(format string, a ...any) {
	output.Infof(format, a...)
}

func (o *outputWrapper) Successf(format string, a ...any) {
	output.Successf(format, a...)
}

func (o *outputWrapper) Warningf(format string, a ...any) {
	output.Warningf(format, a...)
}

func (o *outputWrapper) KeyValue(key, value string) {
	output.KeyValue(key, value)
}

func (o *outputWrapper) Table(headers []string, rows [][]string) {
	output.Table(headers, rows)
}

func (o *outputWrapper) Structured(
	format constants.OutputFormat, value any, headers []string, rows [][]string,
) error {
	return output.Structured(format, value, headers, rows)
}

func (o *outputWrapper) Blank() {
	output.Blank()
}

func (o *outputWrapper) Bold(text string) string {
	return output.Bold(text)
}
