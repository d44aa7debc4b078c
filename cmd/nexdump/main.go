// nexdump parses NEXUS files and reports their contents: taxa,
// character matrices, and assumption sets. Files are parsed
// concurrently, one document per file.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgPath    string
	dumpMatrix bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "nexdump [flags] file...",
	Short:         "Parse NEXUS files and report their contents",
	Long:          "nexdump reads one or more NEXUS files and prints a report of every block it understands: TAXA, CHARACTERS, DATA, and ASSUMPTIONS.",
	Args:          cobra.MinimumNArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to YAML config file")
	rootCmd.Flags().BoolVarP(&dumpMatrix, "dump-matrix", "m", false, "print the full character matrix for each file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
