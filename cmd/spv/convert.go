package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	spirv "github.com/gogpu/spirv"
	"github.com/gogpu/spirv/asm"
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] file",
	Short: "Convert a module between binary and textual form",
	Long:  `Convert sniffs the input form and re-serializes the module in the other one`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().Bool("to-text", false, "force textual output")
	convertCmd.Flags().Bool("to-binary", false, "force binary output")
}

func runConvert(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	toText, _ := cmd.Flags().GetBool("to-text")
	toBinary, _ := cmd.Flags().GetBool("to-binary")
	if toText && toBinary {
		return fmt.Errorf("--to-text and --to-binary are mutually exclusive")
	}
	if !toText && !toBinary {
		// Default: flip whatever form the input is in.
		toText = spirv.IsBinary(data)
	}
	out, err := asm.Convert(data, toText)
	if err != nil {
		return fmt.Errorf("converting %s: %w", args[0], err)
	}
	return writeOutput(cmd, out)
}
