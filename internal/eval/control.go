package eval

import (
	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/runtime"
	"github.com/vesper-lang/vesper/internal/values"
)

func (e *Evaluator) evalIf(node *ast.If, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	cond, sig, flt := e.Eval(node.Cond, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	b, ok := cond.(values.Bool)
	if !ok {
		return nil, nil, faults.New(faults.TypeMismatch, "If condition requires Bool, got %s", cond.Type())
	}
	if bool(b) {
		return e.Eval(node.Then, env)
	}
	if node.Else == nil {
		return values.Void{}, nil, nil
	}
	return e.Eval(node.Else, env)
}

// evalWhile re-evaluates Cond before each iteration of Body; neither
// introduces a fresh frame (only Call pushes one).
func (e *Evaluator) evalWhile(node *ast.While, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	for {
		cond, sig, flt := e.Eval(node.Cond, env)
		if flt != nil || sig != nil {
			return nil, sig, flt
		}
		b, ok := cond.(values.Bool)
		if !ok {
			return nil, nil, faults.New(faults.TypeMismatch, "While condition requires Bool, got %s", cond.Type())
		}
		if !bool(b) {
			return values.Void{}, nil, nil
		}
		if _, sig, flt := e.Eval(node.Body, env); flt != nil || sig != nil {
			return nil, sig, flt
		}
	}
}

// evalBlock evaluates Statements in order against the same frame (blocks do
// not push) and yields the last statement's value, or Void when empty.
func (e *Evaluator) evalBlock(node *ast.Block, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	var result values.Value = values.Void{}
	for _, stmt := range node.Statements {
		v, sig, flt := e.Eval(stmt, env)
		if flt != nil || sig != nil {
			return nil, sig, flt
		}
		result = v
	}
	return result, nil, nil
}

// evalReturn evaluates Value and produces a signal that unwinds to the
// nearest enclosing Call boundary.
func (e *Evaluator) evalReturn(node *ast.Return, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	v, sig, flt := e.Eval(node.Value, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	return nil, &signal{value: v}, nil
}
