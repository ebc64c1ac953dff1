package options

import (
	"fmt"
	"strings"

	"github.com/runvoy/cfnopts/internal/constants"
)

// OutputFormat is a case-insensitive choice flag.
type OutputFormat struct {
	value   constants.OutputFormat
	choices []constants.OutputFormat
}

// NewOutputFormat returns a flag accepting one of choices, set to def.
func NewOutputFormat(def constants.OutputFormat, choices ...constants.OutputFormat) *OutputFormat {
	return &OutputFormat{value: def, choices: choices}
}

// Set implements pflag.Value.
func (f *OutputFormat) Set(s string) error {
	normalized := constants.OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, choice := range f.choices {
		if normalized == choice {
			f.value = choice
			return nil
		}
	}
	return fmt.Errorf("invalid choice %q (choose from %s)", s, f.choiceList())
}

// String implements pflag.Value.
func (f *OutputFormat) String() string {
	return string(f.value)
}

// Type implements pflag.Value.
func (f *OutputFormat) Type() string {
	return "format"
}

// Value returns the selected format.
func (f *OutputFormat) Value() constants.OutputFormat {
	return f.value
}

func (f *OutputFormat) choiceList() string {
	names := make([]string, len(f.choices))
	for i, choice := range f.choices {
		names[i] = string(choice)
	}
	return strings.Join(names, ", ")
}
