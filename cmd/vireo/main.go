package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦╦╦═╗╔═╗╔═╗
  ╚╗╔╝║╠╦╝║╣ ║ ║
   ╚╝ ╩╩╚═╚═╝╚═╝
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "vireo",
		Short: "Tree reconciliation engine and patch stream tooling",
		Long: `Vireo diffs retained virtual trees and streams the resulting
patches to connected sinks over a compact binary protocol.

  • Keyed child reconciliation with minimal moves
  • Memoized subtrees skipped without re-evaluation
  • String-deduplicated binary patch batches
  • WebSocket streaming with ack and resync`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		benchCmd(),
		inspectCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the Vireo ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
