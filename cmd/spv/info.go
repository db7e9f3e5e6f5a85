package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	spirv "github.com/gogpu/spirv"
	"github.com/gogpu/spirv/asm"
	"github.com/gogpu/spirv/ir"
)

var infoCmd = &cobra.Command{
	Use:   "info [flags] file",
	Short: "Summarize a module",
	Long:  `Info parses a module and prints its header fields, declared capabilities and extensions, and entity counts`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	policy, err := loadPolicy(cmd)
	if err != nil {
		return err
	}

	var m *ir.Module
	var parseErr error
	switch {
	case spirv.IsBinary(data):
		m, parseErr = ir.DecodeWithPolicy(data, policy)
	case spirv.IsText(data):
		m, parseErr = asm.Parse(string(data), policy)
	default:
		return fmt.Errorf("%s is neither a binary nor a textual module", args[0])
	}
	if m == nil {
		return parseErr
	}

	var b strings.Builder
	tool, toolVer := m.Generator()
	fmt.Fprintf(&b, "version:    %s\n", m.Version())
	fmt.Fprintf(&b, "generator:  %d (v%d)\n", tool, toolVer)
	fmt.Fprintf(&b, "bound:      %d\n", m.Bound())
	addr, mem := m.MemoryModel()
	fmt.Fprintf(&b, "memory:     %s %s\n", addr, mem)
	lang, langVer := m.SourceLanguage()
	fmt.Fprintf(&b, "source:     %s %d\n", lang, langVer)
	caps := make([]string, 0)
	for _, c := range m.Capabilities() {
		caps = append(caps, c.String())
	}
	fmt.Fprintf(&b, "capabilities: %s\n", strings.Join(caps, ", "))
	fmt.Fprintf(&b, "extensions:   %s\n", strings.Join(m.ExtensionNames(), ", "))
	fmt.Fprintf(&b, "entry points: %d\n", len(m.EntryPoints()))
	fmt.Fprintf(&b, "types:      %d\n", len(m.Types()))
	fmt.Fprintf(&b, "constants:  %d\n", len(m.Constants()))
	fmt.Fprintf(&b, "variables:  %d\n", len(m.Variables()))
	fmt.Fprintf(&b, "functions:  %d\n", len(m.Functions()))
	if err := writeOutput(cmd, []byte(b.String())); err != nil {
		return err
	}

	if parseErr != nil {
		color.New(color.FgYellow).Fprintf(os.Stderr, "module is invalid: %v\n", parseErr)
	}
	return nil
}
