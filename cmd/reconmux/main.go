// cmd/reconmux/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reconmux/reconmux/pkg/cli"
)

var rootCmd = &cobra.Command{
	Use:   "reconmux",
	Short: "Reconmux - recon tool orchestration and result merging",
	Long: `Reconmux coordinates external recon tools, normalizes their output into
one canonical schema, and merges overlapping discoveries with confidence
scoring.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Reconmux CLI. Use --help for available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cli.ScanCmd)
	rootCmd.AddCommand(cli.NewVersionCommand("reconmux"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
