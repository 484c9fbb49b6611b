package vesper

import "embed"

// bundledAssets holds documents the binary ships with, for invocations that
// run with no filesystem path. "hello.json" is the sample shipped by
// default; a caller distributing their own bundle embeds it in their own
// package and hands the bytes to Engine.Eval directly.
//
//go:embed assets
var bundledAssets embed.FS

// LoadBundledAsset reads name from the embedded asset payload. cmd/vesper's
// run command uses this when VESPER_BUNDLE_ASSET is set and no file
// argument was given.
func LoadBundledAsset(name string) ([]byte, error) {
	return bundledAssets.ReadFile("assets/" + name)
}
