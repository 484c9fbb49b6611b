package eval

import (
	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/runtime"
	"github.com/vesper-lang/vesper/internal/values"
)

// evalFnDef binds a Function value under Name in the current frame. The
// closure captures env itself, not a snapshot: a later assignment in an
// outer frame is visible to every closure over it ("closure by
// reference").
func (e *Evaluator) evalFnDef(node *ast.FnDef, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	fn := &values.Function{Name: node.Name, Params: node.Params, Body: node.Body, Scope: env}
	env.Define(node.Name, fn, values.TypeFunction)
	return fn, nil, nil
}

// evalCall resolves Name along the caller's chain (falling back implicitly
// to the global frame, since Get already walks all the way there),
// evaluates Args against the caller's frame left to right, then pushes a
// fresh frame parented on the function's captured scope, not the
// caller's frame, before evaluating Body.
func (e *Evaluator) evalCall(node *ast.Call, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	callee, _, ok := env.Get(node.Name)
	if !ok {
		return nil, nil, faults.New(faults.UndefinedName, "undefined function %q", node.Name)
	}
	fn, ok := callee.(*values.Function)
	if !ok {
		return nil, nil, faults.New(faults.TypeMismatch, "%q is not a function, it is a %s", node.Name, callee.Type())
	}
	if len(node.Args) != len(fn.Params) {
		return nil, nil, faults.New(faults.Arity, "function %q expects %d argument(s), got %d", node.Name, len(fn.Params), len(node.Args))
	}

	args := make([]values.Value, len(node.Args))
	for i, argNode := range node.Args {
		v, sig, flt := e.Eval(argNode, env)
		if flt != nil || sig != nil {
			return nil, sig, flt
		}
		args[i] = v
	}

	scope, ok := fn.Scope.(*runtime.Environment)
	if !ok {
		return nil, nil, faults.New(faults.Structural, "function %q has no captured scope", node.Name)
	}
	frame := scope.Push()
	for i, param := range fn.Params {
		frame.Define(param, args[i], args[i].Type())
	}

	result, sig, flt := e.Eval(fn.Body, frame)
	if flt != nil {
		return nil, nil, flt
	}
	if sig != nil {
		return sig.value, nil, nil
	}
	return result, nil, nil
}
