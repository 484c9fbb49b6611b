// Package validate implements the AST Validator: structural well-formedness
// checks plus cycle detection across the Import graph. Validation is a
// fail-fast precondition (evaluation never starts on a tree that fails
// here) but faults are accumulated across one module's pass rather than
// stopping at the first one, the one place in this runtime that recovers
// locally instead of failing fast.
package validate

import (
	"fmt"
	"path/filepath"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/astcodec"
	"github.com/vesper-lang/vesper/internal/faults"
)

// FileReader abstracts the filesystem so imports can be resolved against a
// real directory or an embedded bundle alike.
type FileReader func(path string) ([]byte, error)

// Result accumulates the faults and warnings from one validation pass.
type Result struct {
	Faults   []*faults.Fault
	Warnings []string
}

// OK reports whether the pass found no fatal faults.
func (r *Result) OK() bool { return len(r.Faults) == 0 }

type colour int

const (
	white colour = iota
	grey
	black
)

// Validate walks root, checking variant arity/shape, name non-emptiness,
// and the Import graph (resolved relative to baseDir via reader) for
// existence and cycles.
func Validate(root ast.Node, baseDir string, reader FileReader) *Result {
	v := &validator{
		result:  &Result{},
		reader:  reader,
		colours: make(map[string]colour),
		cache:   make(map[string]ast.Node),
	}
	v.walkShape(root, []string{"root"})
	v.walkImports(root, baseDir, []string{"root"})
	v.checkArrayNameUsage(root)
	return v.result
}

type validator struct {
	result  *Result
	reader  FileReader
	colours map[string]colour
	cache   map[string]ast.Node
}

func (v *validator) fail(path []string, tag faults.Tag, format string, args ...any) {
	f := faults.New(tag, format, args...)
	f.Path = append([]string{}, path...)
	v.result.Faults = append(v.result.Faults, f)
}

// walkShape checks arity/shape and name non-emptiness for every node,
// recursing into children regardless of whether the current node already
// failed, so a single pass surfaces every structural problem in the tree.
func (v *validator) walkShape(n ast.Node, path []string) {
	if n == nil {
		v.fail(path, faults.Structural, "unexpected nil node")
		return
	}
	switch t := n.(type) {
	case *ast.Identifier:
		if t.Name == "" {
			v.fail(path, faults.Structural, "Identifier name must not be empty")
		}
	case *ast.Assign:
		if t.Name == "" {
			v.fail(path, faults.Structural, "Assign target name must not be empty")
		}
		if t.Value == nil {
			v.fail(path, faults.Structural, "Assign is missing its value expression")
		}
	case *ast.FnDef:
		if t.Name == "" {
			v.fail(path, faults.Structural, "FnDef name must not be empty")
		}
		if t.Body == nil {
			v.fail(path, faults.Structural, "FnDef %q is missing a body", t.Name)
		}
	case *ast.Call:
		if t.Name == "" {
			v.fail(path, faults.Structural, "Call name must not be empty")
		}
	case *ast.If:
		if t.Cond == nil || t.Then == nil {
			v.fail(path, faults.Structural, "If requires a condition and a then-branch")
		}
	case *ast.Import:
		if t.Path == "" {
			v.fail(path, faults.Structural, "Import path must not be empty")
		}
	}

	for i, child := range n.Children() {
		if child == nil {
			continue
		}
		v.walkShape(child, append(path, fmt.Sprintf("%s[%d]", n.Kind(), i)))
	}
}

// walkImports resolves every Import node reachable from n and performs a
// DFS over the resulting graph with a grey set: re-entering a grey node is
// a cycle.
func (v *validator) walkImports(n ast.Node, baseDir string, path []string) {
	imp, ok := n.(*ast.Import)
	if ok {
		v.visitImport(imp.Path, baseDir, path)
		return
	}
	for _, child := range n.Children() {
		if child != nil {
			v.walkImports(child, baseDir, path)
		}
	}
}

func (v *validator) visitImport(importPath, baseDir string, path []string) {
	resolved := filepath.Clean(filepath.Join(baseDir, importPath))

	switch v.colours[resolved] {
	case grey:
		v.fail(path, faults.ImportCycle, "import cycle detected at %q", importPath)
		return
	case black:
		return // already fully explored along some other path
	}

	content, err := v.reader(resolved)
	if err != nil {
		v.fail(path, faults.ImportNotFound, "cannot resolve import %q: %v", importPath, err)
		return
	}

	tree, err := astcodec.Decode(content)
	if err != nil {
		v.fail(path, faults.Structural, "import %q does not decode: %v", importPath, err)
		return
	}
	v.cache[resolved] = tree

	v.colours[resolved] = grey
	v.walkShape(tree, append(path, importPath))
	v.walkImports(tree, filepath.Dir(resolved), append(path, importPath))
	v.colours[resolved] = black
}

// checkArrayNameUsage implements the non-fatal warning: ArrayGet/ArraySet/
// ArrayPush/ArrayLen should reference a name that appears somewhere as an
// Assign target in the compilation unit.
func (v *validator) checkArrayNameUsage(root ast.Node) {
	assigned := make(map[string]bool)
	collectAssignTargets(root, assigned)

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch t := n.(type) {
		case *ast.ArrayGet:
			v.warnIfUnassigned(t.Name, assigned)
		case *ast.ArraySet:
			v.warnIfUnassigned(t.Name, assigned)
		case *ast.ArrayPush:
			v.warnIfUnassigned(t.Name, assigned)
		case *ast.ArrayLen:
			v.warnIfUnassigned(t.Name, assigned)
		}
		for _, child := range n.Children() {
			if child != nil {
				walk(child)
			}
		}
	}
	walk(root)
}

func (v *validator) warnIfUnassigned(name string, assigned map[string]bool) {
	if !assigned[name] {
		v.result.Warnings = append(v.result.Warnings,
			fmt.Sprintf("array operation references %q, which is never an Assign target", name))
	}
}

func collectAssignTargets(n ast.Node, out map[string]bool) {
	if a, ok := n.(*ast.Assign); ok {
		out[a.Name] = true
	}
	for _, child := range n.Children() {
		if child != nil {
			collectAssignTargets(child, out)
		}
	}
}
