// Package config loads the optional YAML configuration file that tunes an
// Engine run: the optimizer iteration bound, the type-check policy, the
// native module allowlist, and import search paths. Every field has a
// sensible default, so the file itself is optional; flags and env vars
// layered on top in cmd/vesper override whatever it sets.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/vesper-lang/vesper/internal/optimize"
)

// Config is the full set of runtime options an Engine accepts.
type Config struct {
	// MaxIterations bounds the optimizer's fold/dce fixed-point loop.
	MaxIterations int `yaml:"maxIterations"`
	// Policy is "warn" or "strict" for the optimizer's type inference pass.
	Policy string `yaml:"policy"`
	// NativeModules, when non-empty, restricts NativeCall/ExternCall
	// dispatch to this module name set; empty means every registered
	// module is reachable.
	NativeModules []string `yaml:"nativeModules"`
	// ImportPaths is the search-path fallback list the Import resolver
	// consults when a path can't be resolved relative to the importing
	// file.
	ImportPaths []string `yaml:"importPaths"`
	// BundleAsset is parsed from the file but not read by cmd/vesper's run,
	// which takes the embedded asset name from VESPER_BUNDLE_ASSET only.
	BundleAsset string `yaml:"bundleAsset"`
	// SkipOptimize bypasses the optimizer entirely, evaluating the tree
	// exactly as decoded.
	SkipOptimize bool `yaml:"skipOptimize"`
}

// Default returns the configuration an Engine uses when no file is
// supplied: an optimizer loop bounded at 8 iterations, warn-only type
// inference, every native module reachable, and the current directory as
// the only import search path.
func Default() Config {
	return Config{
		MaxIterations: 8,
		Policy:        "warn",
		ImportPaths:   []string{"."},
	}
}

// Load reads and parses a YAML config file, applying Default() for any
// field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = Default().MaxIterations
	}
	if len(cfg.ImportPaths) == 0 {
		cfg.ImportPaths = Default().ImportPaths
	}
	return cfg, nil
}

// OptimizePolicy maps the config's string policy to the optimizer's Policy
// enum, defaulting to warn on an unrecognized value.
func (c Config) OptimizePolicy() optimize.Policy {
	if c.Policy == "strict" {
		return optimize.PolicyStrict
	}
	return optimize.PolicyWarn
}
