package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/spirv/asm"
)

var asCmd = &cobra.Command{
	Use:   "as [flags] file.spt",
	Short: "Assemble a textual module to binary",
	Long:  `As parses the textual module form and emits the binary encoding`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAs,
}

func runAs(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	policy, err := loadPolicy(cmd)
	if err != nil {
		return err
	}
	m, err := asm.Parse(string(data), policy)
	if err != nil {
		return fmt.Errorf("assembling %s: %w", args[0], err)
	}
	out, err := m.Bytes()
	if err != nil {
		return err
	}
	return writeOutput(cmd, out)
}
