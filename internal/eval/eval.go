// Package eval implements the tree-walking Evaluator: a single logical
// thread of control that walks a validated, optimized AST against a
// mutable environment chain, invoking the Native Registry for extern
// operations and the import resolver for cross-file loads.
package eval

import (
	"io"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/natives"
	"github.com/vesper-lang/vesper/internal/runtime"
	"github.com/vesper-lang/vesper/internal/values"
)

// Importer resolves and evaluates Import nodes. internal/imports.Resolver
// implements this; it is expressed as an interface here so eval does not
// depend on imports' filesystem/caching concerns directly.
type Importer interface {
	// Load returns the resolved absolute path of importPath together with
	// its top-level Block, or a nil node if this path was already
	// evaluated earlier in this program execution (an Import path is
	// evaluated at most once). The resolved path lets the caller track it
	// as the new "current file" so a nested Import inside the loaded
	// document resolves relative to it, not to the raw importPath string.
	Load(fromPath, importPath string) (resolved string, doc ast.Node, err error)
}

// Evaluator holds everything shared across one top-level evaluation: the
// native dispatch table, the resource registry, the importer, and the
// stream Print writes to.
type Evaluator struct {
	Registry *natives.Registry
	Handles  *natives.HandleRegistry
	Importer Importer
	Output   io.Writer

	currentFile string
}

// New builds an Evaluator. registry and handles may be shared across
// concurrent evaluations (the registry is read-only; the handle registry
// is internally synchronized); importer and output should be fresh per
// top-level evaluation.
func New(registry *natives.Registry, handles *natives.HandleRegistry, importer Importer, output io.Writer) *Evaluator {
	return &Evaluator{Registry: registry, Handles: handles, Importer: importer, Output: output}
}

// signal is the control-flow value Return produces; it unwinds to the
// nearest Call boundary or the program root.
type signal struct {
	value values.Value
}

// Run evaluates root as the top-level document loaded from file against a
// fresh global environment, so no global frame is shared across top-level
// evaluations.
func (e *Evaluator) Run(root ast.Node, file string) (values.Value, *faults.Fault) {
	e.currentFile = file
	env := runtime.NewGlobal()
	v, sig, flt := e.Eval(root, env)
	if flt != nil {
		return nil, flt
	}
	if sig != nil {
		// A Return propagating past the root terminates the program
		// normally, carrying its value.
		return sig.value, nil
	}
	return v, nil
}

// Eval dispatches on the node's concrete type and evaluates it against
// env. A non-nil signal means a Return is unwinding; a non-nil fault means
// evaluation failed and is unwinding identically. Each recursion level
// prepends its node kind to an unwinding fault, so by the time the fault
// crosses the program boundary it carries the full root-to-node breadcrumb.
func (e *Evaluator) Eval(n ast.Node, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	v, sig, flt := e.evalNode(n, env)
	if flt != nil {
		return nil, nil, flt.WithPath(string(n.Kind()))
	}
	return v, sig, nil
}

func (e *Evaluator) evalNode(n ast.Node, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	switch node := n.(type) {
	case *ast.IntLiteral:
		return values.Int(node.Value), nil, nil
	case *ast.FloatLiteral:
		return values.Float(node.Value), nil, nil
	case *ast.BoolLiteral:
		return values.Bool(node.Value), nil, nil
	case *ast.StringLiteral:
		return values.String(node.Value), nil, nil
	case *ast.Time:
		return e.evalTime(), nil, nil

	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.Assign:
		return e.evalAssign(node, env)

	case *ast.Add, *ast.Sub, *ast.Mul, *ast.Div:
		return e.evalArithmetic(n, env)
	case *ast.Sin:
		return e.evalTrig(node.X, env, "Sin")
	case *ast.Cos:
		return e.evalTrig(node.X, env, "Cos")
	case *ast.Mat4Mul:
		return e.evalMat4Mul(node, env)
	case *ast.Eq:
		return e.evalEq(node, env)
	case *ast.Lt:
		return e.evalLt(node, env)
	case *ast.BitAnd, *ast.BitShiftLeft, *ast.BitShiftRight:
		return e.evalBitwise(n, env)
	case *ast.Concat:
		return e.evalConcat(node, env)

	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(node, env)
	case *ast.ArrayGet:
		return e.evalArrayGet(node, env)
	case *ast.ArraySet:
		return e.evalArraySet(node, env)
	case *ast.ArrayPush:
		return e.evalArrayPush(node, env)
	case *ast.ArrayLen:
		return e.evalArrayLen(node, env)
	case *ast.Index:
		return e.evalIndex(node, env)
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(node, env)
	case *ast.PropertyGet:
		return e.evalPropertyGet(node, env)

	case *ast.If:
		return e.evalIf(node, env)
	case *ast.While:
		return e.evalWhile(node, env)
	case *ast.Block:
		return e.evalBlock(node, env)
	case *ast.Return:
		return e.evalReturn(node, env)

	case *ast.FnDef:
		return e.evalFnDef(node, env)
	case *ast.Call:
		return e.evalCall(node, env)

	case *ast.Print:
		return e.evalPrint(node, env)
	case *ast.FileRead:
		return e.evalFileRead(node, env)
	case *ast.FileWrite:
		return e.evalFileWrite(node, env)
	case *ast.NativeCall:
		return e.evalNativeCall(node, env)
	case *ast.ExternCall:
		return e.evalExternCall(node, env)
	case *ast.Import:
		return e.evalImport(node, env)
	}
	return nil, nil, faults.New(faults.Structural, "unhandled node kind %T", n)
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	v, _, ok := env.Get(node.Name)
	if !ok {
		return nil, nil, faults.New(faults.UndefinedName, "undefined name %q", node.Name)
	}
	return v, nil, nil
}

func (e *Evaluator) evalAssign(node *ast.Assign, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	v, sig, flt := e.Eval(node.Value, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	t := v.Type()
	prev, existed := env.Assign(node.Name, v, t)
	if existed && !prev.Compatible(t) {
		return nil, nil, faults.New(faults.TypeMismatch, "cannot rebind %q from %s to %s", node.Name, prev, t)
	}
	return v, nil, nil
}

func (e *Evaluator) evalTime() values.Value {
	return values.Float(nowSeconds())
}
