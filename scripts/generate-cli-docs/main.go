// Package main generates a single markdown file documenting every cfnopts command
// and the syntax of each option kind.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/runvoy/cfnopts/cmd/cfnopts/cmd"
	"github.com/runvoy/cfnopts/internal/constants"
	"github.com/runvoy/cfnopts/internal/options"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

func main() {
	var outFile string
	flag.StringVar(&outFile, "out", "./docs/CLI.md", "output file for generated markdown")
	flag.Parse()

	if outFile == "" {
		log.Fatal("error: output file is required")
	}

	if err := writeCLIDocs(outFile); err != nil {
		log.Fatalf("error: %s", err)
	}
}

func writeCLIDocs(outFile string) error {
	var buf bytes.Buffer
	if err := generateCLIDocs(&buf, cmd.RootCmd()); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outFile), 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Clean(outFile), buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	absPath, err := filepath.Abs(outFile)
	if err != nil {
		absPath = outFile
	}
	log.Printf("generated CLI documentation in %s", absPath)
	return nil
}

func generateCLIDocs(w io.Writer, root *cobra.Command) error {
	root.DisableAutoGenTag = true

	if _, err := fmt.Fprintf(w, "# %s CLI Documentation\n\n", constants.ProjectName); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := writeOptionSyntax(w); err != nil {
		return err
	}
	if err := generateDocs(w, root, 2); err != nil {
		return fmt.Errorf("generating documentation: %w", err)
	}
	return nil
}

// writeOptionSyntax documents the canonical syntax of every key-value option kind.
func writeOptionSyntax(w io.Writer) error {
	if _, err := fmt.Fprint(w, "## Option syntax\n\n| Kind | Example |\n|---|---|\n"); err != nil {
		return fmt.Errorf("writing option syntax: %w", err)
	}
	for _, kind := range options.Kinds() {
		example := strings.ReplaceAll(options.Example(kind), "|", `\|`)
		if _, err := fmt.Fprintf(w, "| `%s` | `%s` |\n", kind, example); err != nil {
			return fmt.Errorf("writing option syntax: %w", err)
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func generateDocs(w io.Writer, cobraCmd *cobra.Command, level int) error {
	if !cobraCmd.IsAvailableCommand() || cobraCmd.IsAdditionalHelpTopicCommand() {
		return nil
	}

	commandPath := cobraCmd.CommandPath()
	if err := writeDocHeader(w, strings.Repeat("#", level), commandPath, cobraCmd); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := doc.GenMarkdown(cobraCmd, &buf); err != nil {
		return fmt.Errorf("generating markdown for %s: %w", commandPath, err)
	}
	if section := optionsSection(buf.String()); section != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", section); err != nil {
			return fmt.Errorf("writing options: %w", err)
		}
	}

	subcommands := cobraCmd.Commands()
	sort.Slice(subcommands, func(i, j int) bool {
		return subcommands[i].Name() < subcommands[j].Name()
	})
	for _, subCmd := range subcommands {
		if err := generateDocs(w, subCmd, level+1); err != nil {
			return err
		}
	}

	return nil
}

func writeDocHeader(w io.Writer, headingPrefix, commandPath string, cobraCmd *cobra.Command) error {
	if _, err := fmt.Fprintf(w, "%s %s\n\n", headingPrefix, commandPath); err != nil {
		return fmt.Errorf("writing heading: %w", err)
	}

	if cobraCmd.Short != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", cobraCmd.Short); err != nil {
			return fmt.Errorf("writing short description: %w", err)
		}
	}

	if cobraCmd.Long != "" && cobraCmd.Long != cobraCmd.Short {
		if _, err := fmt.Fprintf(w, "```\n%s\n```\n\n", cobraCmd.Long); err != nil {
			return fmt.Errorf("writing long description: %w", err)
		}
	}

	return nil
}

// optionsSection extracts the "### Options" section of cobra generated markdown,
// without trailing blank lines.
func optionsSection(markdown string) string {
	start := strings.Index(markdown, "### Options")
	if start < 0 {
		return ""
	}

	section := markdown[start:]
	for _, marker := range []string{"\n### Options inherited", "\n### SEE ALSO", "\n## "} {
		if end := strings.Index(section[1:], marker); end >= 0 {
			section = section[:end+1]
			break
		}
	}
	return strings.TrimRight(section, "\n")
}
