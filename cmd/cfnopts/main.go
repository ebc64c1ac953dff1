// Package main implements the cfnopts CLI tool.
// It decodes SAM-style key-value options and uses them to deploy stacks and upload artifacts.
package main

import "github.com/runvoy/cfnopts/cmd/cfnopts/cmd"

func main() {
	cmd.Execute()
}
