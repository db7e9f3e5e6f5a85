package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/spirv/asm"
)

var disCmd = &cobra.Command{
	Use:   "dis [flags] file.spv",
	Short: "Disassemble a binary module",
	Long:  `Dis renders a binary SPIR-V module as human-readable assembly`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDis,
}

func runDis(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	out, err := asm.Disassemble(data)
	if err != nil {
		return fmt.Errorf("disassembling %s: %w", args[0], err)
	}
	return writeOutput(cmd, []byte(out))
}
