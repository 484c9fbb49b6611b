// Package cmd implements the vesper command-line surface: run, version, and
// the flags layered on top of pkg/vesper's Engine.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vesper-lang/vesper/internal/faults"
)

var (
	// Version information, set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vesper",
	Short: "Vesper runtime for JSON-encoded structural programs",
	Long: `vesper is a tree-walking runtime for programs expressed as a JSON-encoded
abstract syntax tree rather than source text.

It validates the tree (structural shape, import-cycle freedom), optimizes
it (constant folding and dead-code elimination to a fixed point), and
evaluates it against a lexically-scoped environment, dispatching out to a
native function registry and typed FFI bridge for host operations.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// exitWithFault reports a Fault's breadcrumb to stderr and exits with the
// tag-specific process exit code.
func exitWithFault(f *faults.Fault) {
	fmt.Fprintln(os.Stderr, f.Format())
	os.Exit(f.ExitCode())
}
