package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	spirv "github.com/gogpu/spirv"
)

var rootCmd = &cobra.Command{
	Use:           "spv",
	Short:         "SPIR-V module inspector and converter",
	Long:          `spv parses, converts and inspects SPIR-V modules in binary and textual form`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(disCmd)
	rootCmd.AddCommand(asCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(infoCmd)

	rootCmd.PersistentFlags().String("policy", "", "TOML policy file (max version, extension allow-list)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output file (default stdout)")

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
		color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// loadPolicy resolves the --policy flag to a policy, defaulting to the
// everything-allowed policy so inspection tools see gated sections.
func loadPolicy(cmd *cobra.Command) (spirv.Policy, error) {
	path, err := cmd.Root().PersistentFlags().GetString("policy")
	if err != nil {
		return spirv.Policy{}, err
	}
	if path == "" {
		return spirv.PermissivePolicy(), nil
	}
	return spirv.LoadPolicy(path)
}

// writeOutput writes result bytes to --output, or stdout.
func writeOutput(cmd *cobra.Command, data []byte) error {
	path, err := cmd.Root().PersistentFlags().GetString("output")
	if err != nil {
		return err
	}
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
