package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "parascan",
	Short: "A parallel filesystem usage scanner",
	Long: `parascan walks a directory tree with a pool of worker threads,
tracking per-directory, per-user, and per-extension totals plus a set of
bounded top-N rankings, and reports the results as text or per-file records.`,
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(scanCmd)
}
