package cmd

import (
	"bytes"
	"fmt"

	"github.com/runvoy/cfnopts/internal/constants"
	"github.com/runvoy/cfnopts/internal/output"
)

// mockOutput records calls and renders structured output into a buffer
type mockOutput struct {
	infos     []string
	successes []string
	warnings  []string
	keyValues map[string]string
	tables    []mockTable
	blanks    int
	format    constants.OutputFormat
	value     any
	rendered  bytes.Buffer
}

type mockTable struct {
	headers []string
	rows    [][]string
}

func newMockOutput() *mockOutput {
	return &mockOutput{keyValues: map[string]string{}}
}

func (m *mockOutput) Infof(format string, a ...any) {
	m.infos = append(m.infos, fmt.Sprintf(format, a...))
}

func (m *mockOutput) Successf(format string, a ...any) {
	m.successes = append(m.successes, fmt.Sprintf(format, a...))
}

func (m *mockOutput) Warningf(format string, a ...any) {
	m.warnings = append(m.warnings, fmt.Sprintf(format, a...))
}

func (m *mockOutput) KeyValue(key, value string) {
	m.keyValues[key] = value
}

func (m *mockOutput) Table(headers []string, rows [][]string) {
	m.tables = append(m.tables, mockTable{headers: headers, rows: rows})
}

func (m *mockOutput) Structured(
	format constants.OutputFormat, value any, headers []string, rows [][]string,
) error {
	m.format = format
	m.value = value
	if format == constants.OutputText {
		m.Table(headers, rows)
		return nil
	}

	old := output.Stdout
	output.Stdout = &m.rendered
	defer func() { output.Stdout = old }()
	return output.Structured(format, value, headers, rows)
}

func (m *mockOutput) Blank() {
	m.blanks++
}

func (m *mockOutput) Bold(text string) string {
	return text
}
