package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vesper-lang/vesper/internal/config"
	"github.com/vesper-lang/vesper/internal/values"
	"github.com/vesper-lang/vesper/pkg/vesper"
)

const bundleEnvVar = "VESPER_BUNDLE_ASSET"

var (
	checkOnly  bool
	dumpAST    bool
	noOptimize bool
	configPath string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Vesper JSON AST document",
	Long: `Decode, validate, optimize, and evaluate a JSON-encoded AST document.

Examples:
  # Run a document from a file
  vesper run program.json

  # Validate without evaluating
  vesper run --check program.json

  # Re-encode the decoded tree without validating it (round-trip check)
  vesper run --dump-ast program.json

If no file is given and ` + bundleEnvVar + ` names an embedded asset, that
asset is evaluated instead of requiring a filesystem path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocument,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&checkOnly, "check", false, "validate the document without evaluating it")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the re-encoded document instead of evaluating it")
	runCmd.Flags().BoolVar(&noOptimize, "no-optimize", false, "evaluate the tree exactly as decoded, skipping the optimizer")
	runCmd.Flags().StringVar(&configPath, "config", "", "path to an optional YAML config file")
}

func runDocument(_ *cobra.Command, args []string) error {
	path, cleanup, err := resolveInputPath(args)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}
	if noOptimize {
		cfg.SkipOptimize = true
	}
	engine := vesper.NewWithConfig(cfg)

	if checkOnly {
		result, err := engine.Check(path)
		if err != nil {
			return err
		}
		for _, w := range result.Warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
		if !result.OK() {
			for _, f := range result.Faults {
				fmt.Fprintln(os.Stderr, f.Format())
			}
			os.Exit(1)
		}
		fmt.Println("ok")
		return nil
	}

	if dumpAST {
		doc, err := engine.DumpAST(path)
		if err != nil {
			return err
		}
		fmt.Println(string(doc))
		return nil
	}

	result, flt := engine.Run(path)
	if flt != nil {
		exitWithFault(flt)
	}
	if verbose {
		fmt.Fprintln(os.Stderr, "result:", values.Print(result))
	}
	return nil
}

// resolveInputPath returns a filesystem path to evaluate: the given
// argument, or, when none was given and VESPER_BUNDLE_ASSET is set, a
// temp file materialized from the embedded bundle. cleanup removes that
// temp file; it is a no-op when args supplied a real path.
func resolveInputPath(args []string) (path string, cleanup func(), err error) {
	if len(args) == 1 {
		return args[0], func() {}, nil
	}

	asset := os.Getenv(bundleEnvVar)
	if asset == "" {
		return "", nil, fmt.Errorf("either provide a file path or set %s", bundleEnvVar)
	}
	data, err := vesper.LoadBundledAsset(asset)
	if err != nil {
		return "", nil, fmt.Errorf("loading bundled asset %q: %w", asset, err)
	}
	tmp, err := os.CreateTemp("", "vesper-bundle-*.json")
	if err != nil {
		return "", nil, err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	tmp.Close()
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}
