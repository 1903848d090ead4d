// Package cmd provides the command-line interface of hbsim.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hbsim",
	Short: "hbsim compares the cache behavior of a CPU and a manycore.",
	Long: `hbsim replays the memory accesses of a program against a ` +
		`conventional set-associative cache and a manycore cache, counts ` +
		`hits and misses for both, and estimates the energy each ` +
		`architecture would spend.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Functions registered with atexit run before the process
// exits.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
