// Package imports implements the program's Import resolver: path
// resolution relative to the importing file (falling back to a configured
// search-path list), content caching, and at-most-once evaluation. Cycle
// detection is not repeated here: the Validator already walks the entire
// Import graph with a grey set before the Evaluator ever runs.
package imports

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/astcodec"
	"github.com/vesper-lang/vesper/internal/faults"
)

// Resolver caches decoded import targets by resolved absolute path and
// tracks which paths have already been evaluated once, mirroring the
// searchPaths/units/loading shape of a unit registry keyed by search order
// rather than by declared unit name.
type Resolver struct {
	mu          sync.Mutex
	searchPaths []string
	documents   map[string]ast.Node
	evaluated   map[string]bool
}

// NewResolver builds a Resolver consulting searchPaths, in order, whenever
// a path cannot be resolved relative to the importing file. An empty list
// falls back to the current directory.
func NewResolver(searchPaths []string) *Resolver {
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}
	return &Resolver{
		searchPaths: searchPaths,
		documents:   make(map[string]ast.Node),
		evaluated:   make(map[string]bool),
	}
}

// Load resolves importPath relative to fromPath's directory (or against
// the configured search paths when fromPath is empty, as at the program
// root), decodes it on first sight, and caches the result by resolved
// path. It returns the resolved absolute path alongside the document so a
// caller can track it as the new "current file" for resolving any nested
// Import within the loaded document; resolving a grandchild import
// relative to the raw, possibly-relative importPath string would resolve
// it against the wrong directory once fromPath and importPath's directory
// differ. A path already evaluated once returns (resolved, nil, nil);
// the eval package treats a nil node as "nothing further to do".
func (r *Resolver) Load(fromPath, importPath string) (string, ast.Node, error) {
	resolved, err := r.resolve(fromPath, importPath)
	if err != nil {
		return "", nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.evaluated[resolved] {
		return resolved, nil, nil
	}
	r.evaluated[resolved] = true

	if doc, ok := r.documents[resolved]; ok {
		return resolved, doc, nil
	}

	content, err := os.ReadFile(resolved)
	if err != nil {
		return "", nil, faults.Wrap(faults.ImportNotFound, err, "cannot read import %q: %v", importPath, err)
	}
	doc, err := astcodec.Decode(content)
	if err != nil {
		return "", nil, faults.Wrap(faults.ImportNotFound, err, "import %q does not decode: %v", importPath, err)
	}
	r.documents[resolved] = doc
	return resolved, doc, nil
}

func (r *Resolver) resolve(fromPath, importPath string) (string, error) {
	if filepath.IsAbs(importPath) {
		if fileExists(importPath) {
			return filepath.Abs(importPath)
		}
	} else if fromPath != "" {
		candidate := filepath.Join(filepath.Dir(fromPath), importPath)
		if fileExists(candidate) {
			return filepath.Abs(candidate)
		}
	}
	for _, dir := range r.searchPaths {
		candidate := filepath.Join(dir, importPath)
		if fileExists(candidate) {
			return filepath.Abs(candidate)
		}
	}
	return "", faults.New(faults.ImportNotFound, "cannot resolve import %q against the importing file or any search path", importPath)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
