package eval

import (
	"fmt"
	"os"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/natives"
	"github.com/vesper-lang/vesper/internal/runtime"
	"github.com/vesper-lang/vesper/internal/values"
)

func (e *Evaluator) evalPrint(node *ast.Print, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	v, sig, flt := e.Eval(node.Value, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	fmt.Fprintln(e.Output, values.Print(v))
	return v, nil, nil
}

func (e *Evaluator) evalFileRead(node *ast.FileRead, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	pathV, sig, flt := e.Eval(node.Path, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	path, ok := pathV.(values.String)
	if !ok {
		return nil, nil, faults.New(faults.TypeMismatch, "FileRead requires a String path, got %s", pathV.Type())
	}
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, nil, faults.Wrap(faults.IOError, err, "reading %q: %v", path, err)
	}
	return values.String(data), nil, nil
}

func (e *Evaluator) evalFileWrite(node *ast.FileWrite, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	pathV, sig, flt := e.Eval(node.Path, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	path, ok := pathV.(values.String)
	if !ok {
		return nil, nil, faults.New(faults.TypeMismatch, "FileWrite requires a String path, got %s", pathV.Type())
	}
	dataV, sig, flt := e.Eval(node.Data, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	data, ok := dataV.(values.String)
	if !ok {
		return nil, nil, faults.New(faults.TypeMismatch, "FileWrite requires String data, got %s", dataV.Type())
	}
	if err := os.WriteFile(string(path), []byte(data), 0o644); err != nil {
		return nil, nil, faults.Wrap(faults.IOError, err, "writing %q: %v", path, err)
	}
	return values.Void{}, nil, nil
}

// evalNativeCall evaluates Args left to right and dispatches the dotted
// Name through the Native Registry's default module resolution.
func (e *Evaluator) evalNativeCall(node *ast.NativeCall, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	args, sig, flt := e.evalArgs(node.Args, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	module, function := natives.SplitName(node.Name)
	result, err := e.Registry.Call(module, function, args)
	if err != nil {
		return nil, nil, toFault(faults.NativeError, err)
	}
	return result, nil, nil
}

// evalExternCall is NativeCall's typed sibling for a named module: the
// Native Registry's FFI bridge validates arguments and the return value
// against the extern's statically-recorded signature.
func (e *Evaluator) evalExternCall(node *ast.ExternCall, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	args, sig, flt := e.evalArgs(node.Args, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	result, err := e.Registry.CallExtern(node.Module, node.Name, args)
	if err != nil {
		return nil, nil, toFault(faults.FFIType, err)
	}
	return result, nil, nil
}

func (e *Evaluator) evalArgs(nodes []ast.Node, env *runtime.Environment) ([]values.Value, *signal, *faults.Fault) {
	args := make([]values.Value, len(nodes))
	for i, n := range nodes {
		v, sig, flt := e.Eval(n, env)
		if flt != nil || sig != nil {
			return nil, sig, flt
		}
		args[i] = v
	}
	return args, nil, nil
}

// toFault preserves a Fault's original tag if the native/extern
// implementation already returned one, otherwise wraps the plain error
// under fallback.
func toFault(fallback faults.Tag, err error) *faults.Fault {
	if f, ok := err.(*faults.Fault); ok {
		return f
	}
	return faults.Wrap(fallback, err, "%v", err)
}

// evalImport loads and, the first time a resolved path is seen, evaluates
// the target's top-level Block against the global frame, never against
// the importing frame, so imported bindings are visible program-wide
// ("merge-into-global").
func (e *Evaluator) evalImport(node *ast.Import, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	if e.Importer == nil {
		return nil, nil, faults.New(faults.ImportNotFound, "no importer configured, cannot resolve %q", node.Path)
	}
	resolved, target, err := e.Importer.Load(e.currentFile, node.Path)
	if err != nil {
		if f, ok := err.(*faults.Fault); ok {
			return nil, nil, f
		}
		return nil, nil, faults.Wrap(faults.ImportNotFound, err, "importing %q: %v", node.Path, err)
	}
	if target == nil {
		return values.Void{}, nil, nil
	}

	previousFile := e.currentFile
	e.currentFile = resolved
	defer func() { e.currentFile = previousFile }()

	_, sig, flt := e.Eval(target, env.Global())
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	return values.Void{}, nil, nil
}
