// Package vesper is the public entry point: an Engine that decodes,
// validates, optimizes, and evaluates a JSON AST document, with hooks for
// registering additional native functions and redirecting Print output.
package vesper

import (
	"io"
	"os"
	"path/filepath"

	"github.com/vesper-lang/vesper/internal/astcodec"
	"github.com/vesper-lang/vesper/internal/config"
	"github.com/vesper-lang/vesper/internal/eval"
	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/imports"
	"github.com/vesper-lang/vesper/internal/natives"
	"github.com/vesper-lang/vesper/internal/optimize"
	"github.com/vesper-lang/vesper/internal/validate"
	"github.com/vesper-lang/vesper/internal/values"
)

// Engine owns a native registry (read-only once built, safe to share
// across concurrent calls) and a configuration; every Eval/Run call
// constructs a fresh global frame, a fresh resource registry, and a fresh
// import resolver, one set of evaluator-visible state per call.
type Engine struct {
	cfg      config.Config
	registry *natives.Registry
	output   io.Writer
}

// New builds an Engine with the default configuration and the default
// native registry (math and the vector.normalize extern implemented; every
// other native module answers NativeError as an unimplemented external
// collaborator).
func New() *Engine {
	return &Engine{cfg: config.Default(), registry: natives.NewDefaultRegistry(), output: os.Stdout}
}

// NewWithConfig builds an Engine from an explicitly loaded configuration
// (see internal/config.Load), applying its NativeModules allowlist to the
// default registry.
func NewWithConfig(cfg config.Config) *Engine {
	registry := natives.NewDefaultRegistry()
	registry.Restrict(cfg.NativeModules)
	return &Engine{cfg: cfg, registry: registry, output: os.Stdout}
}

// SetOutput redirects Print output; the default is os.Stdout.
func (e *Engine) SetOutput(w io.Writer) { e.output = w }

// RegisterNative installs a whole native module, replacing any module
// already registered under the same name.
func (e *Engine) RegisterNative(m *natives.Module) { e.registry.Register(m) }

// RegisterFunction installs a single native function under module.name
// without disturbing any other function already registered on module.
func (e *Engine) RegisterFunction(module, name string, arity int, pure bool, fn natives.Fn) {
	e.registry.AddFunction(module, name, natives.Entry{Fn: fn, Arity: arity, Pure: pure})
}

// Eval decodes, validates, optimizes, and evaluates a JSON AST document
// with no associated file. The validator resolves imports against the
// current directory only, and an import it cannot find there fails
// validation with ImportNotFound; the evaluator's resolver then resolves
// against Config.ImportPaths.
func (e *Engine) Eval(doc []byte) (values.Value, *faults.Fault) {
	return e.run(doc, "", ".")
}

// Run reads, decodes, validates, optimizes, and evaluates the document at
// path. The validator resolves imports relative to path's directory only,
// so an import found only under Config.ImportPaths fails validation with
// ImportNotFound before the evaluator's resolver, which would fall back to
// those paths, is reached.
func (e *Engine) Run(path string) (values.Value, *faults.Fault) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.Wrap(faults.IOError, err, "reading %q: %v", path, err)
	}
	return e.run(doc, path, filepath.Dir(path))
}

func (e *Engine) run(doc []byte, file, baseDir string) (values.Value, *faults.Fault) {
	root, err := astcodec.Decode(doc)
	if err != nil {
		return nil, faults.Wrap(faults.Structural, err, "decoding document: %v", err)
	}

	vr := validate.Validate(root, baseDir, os.ReadFile)
	if !vr.OK() {
		return nil, vr.Faults[0]
	}

	opt, err := optimize.Optimize(root, optimize.Options{
		MaxIterations: e.cfg.MaxIterations,
		Policy:        e.cfg.OptimizePolicy(),
		Skip:          e.cfg.SkipOptimize,
	})
	if err != nil {
		return nil, faults.Wrap(faults.TypeMismatch, err, "%v", err)
	}

	resolver := imports.NewResolver(e.cfg.ImportPaths)
	handles := natives.NewHandleRegistry()
	defer handles.ReleaseAll()

	ev := eval.New(e.registry, handles, resolver, e.output)
	return ev.Run(opt.Tree, file)
}

// Check decodes and validates the document at path without evaluating it,
// surfacing both fatal faults and the validator's non-fatal warnings.
func (e *Engine) Check(path string) (*validate.Result, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := astcodec.Decode(doc)
	if err != nil {
		return nil, err
	}
	return validate.Validate(root, filepath.Dir(path), os.ReadFile), nil
}

// DumpAST decodes and re-encodes the document at path, exercising the
// round-trip law Decode(Encode(n)) == n as an operator-visible feature.
func (e *Engine) DumpAST(path string) ([]byte, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := astcodec.Decode(doc)
	if err != nil {
		return nil, err
	}
	return astcodec.Encode(root)
}
