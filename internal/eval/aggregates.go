package eval

import (
	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/runtime"
	"github.com/vesper-lang/vesper/internal/values"
)

func (e *Evaluator) evalArrayLiteral(node *ast.ArrayLiteral, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	elements := make([]values.Value, len(node.Elements))
	for i, el := range node.Elements {
		v, sig, flt := e.Eval(el, env)
		if flt != nil || sig != nil {
			return nil, sig, flt
		}
		elements[i] = v
	}
	return values.NewArray(elements), nil, nil
}

// namedArray resolves the array-valued variable the ArrayGet/ArraySet/
// ArrayPush/ArrayLen family operates on by name.
func (e *Evaluator) namedArray(name string, env *runtime.Environment) (*values.Array, *faults.Fault) {
	v, _, ok := env.Get(name)
	if !ok {
		return nil, faults.New(faults.UndefinedName, "undefined name %q", name)
	}
	arr, ok := v.(*values.Array)
	if !ok {
		return nil, faults.New(faults.TypeMismatch, "%q is not an Array, it is a %s", name, v.Type())
	}
	return arr, nil
}

func (e *Evaluator) evalArrayGet(node *ast.ArrayGet, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	arr, flt := e.namedArray(node.Name, env)
	if flt != nil {
		return nil, nil, flt
	}
	idxV, sig, flt := e.Eval(node.Index, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	idx, ok := idxV.(values.Int)
	if !ok {
		return nil, nil, faults.New(faults.TypeMismatch, "array index requires Int, got %s", idxV.Type())
	}
	if int64(idx) < 0 || int(idx) >= len(arr.Elements) {
		return nil, nil, faults.New(faults.IndexOutOfRange, "index %d out of range for array of length %d", idx, len(arr.Elements))
	}
	return arr.Elements[idx], nil, nil
}

func (e *Evaluator) evalArraySet(node *ast.ArraySet, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	arr, flt := e.namedArray(node.Name, env)
	if flt != nil {
		return nil, nil, flt
	}
	idxV, sig, flt := e.Eval(node.Index, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	idx, ok := idxV.(values.Int)
	if !ok {
		return nil, nil, faults.New(faults.TypeMismatch, "array index requires Int, got %s", idxV.Type())
	}
	// ArraySet at exactly len(Elements) appends; only indices outside
	// [0, len] are out of range.
	if int64(idx) < 0 || int(idx) > len(arr.Elements) {
		return nil, nil, faults.New(faults.IndexOutOfRange, "index %d out of range for array of length %d", idx, len(arr.Elements))
	}
	v, sig, flt := e.Eval(node.Value, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	if int(idx) == len(arr.Elements) {
		arr.Elements = append(arr.Elements, v)
	} else {
		arr.Elements[idx] = v
	}
	return v, nil, nil
}

func (e *Evaluator) evalArrayPush(node *ast.ArrayPush, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	arr, flt := e.namedArray(node.Name, env)
	if flt != nil {
		return nil, nil, flt
	}
	v, sig, flt := e.Eval(node.Value, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	arr.Elements = append(arr.Elements, v)
	return v, nil, nil
}

func (e *Evaluator) evalArrayLen(node *ast.ArrayLen, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	arr, flt := e.namedArray(node.Name, env)
	if flt != nil {
		return nil, nil, flt
	}
	return values.Int(len(arr.Elements)), nil, nil
}

// evalIndex applies to an arbitrary array- or string-valued expression,
// unlike the name-bound Array* family above.
func (e *Evaluator) evalIndex(node *ast.Index, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	target, sig, flt := e.Eval(node.Target, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	idxV, sig, flt := e.Eval(node.At, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	idx, ok := idxV.(values.Int)
	if !ok {
		return nil, nil, faults.New(faults.TypeMismatch, "Index requires an Int offset, got %s", idxV.Type())
	}
	switch t := target.(type) {
	case *values.Array:
		if int64(idx) < 0 || int(idx) >= len(t.Elements) {
			return nil, nil, faults.New(faults.IndexOutOfRange, "index %d out of range for array of length %d", idx, len(t.Elements))
		}
		return t.Elements[idx], nil, nil
	case values.String:
		if int64(idx) < 0 || int(idx) >= t.Len() {
			return nil, nil, faults.New(faults.IndexOutOfRange, "index %d out of range for string of length %d", idx, t.Len())
		}
		return values.String(string(t)[idx]), nil, nil
	}
	return nil, nil, faults.New(faults.TypeMismatch, "Index requires an Array or String target, got %s", target.Type())
}

// evalObjectLiteral builds an insertion-ordered Object; a repeated key
// overwrites the earlier value in place rather than appending a duplicate,
// matching the ordered map's Set semantics.
func (e *Evaluator) evalObjectLiteral(node *ast.ObjectLiteral, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	obj := values.NewObject()
	for i, key := range node.Keys {
		v, sig, flt := e.Eval(node.Values[i], env)
		if flt != nil || sig != nil {
			return nil, sig, flt
		}
		obj.Fields.Set(key, v)
	}
	return obj, nil, nil
}

func (e *Evaluator) evalPropertyGet(node *ast.PropertyGet, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	target, sig, flt := e.Eval(node.Target, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	obj, ok := target.(*values.Object)
	if !ok {
		return nil, nil, faults.New(faults.TypeMismatch, "PropertyGet requires an Object target, got %s", target.Type())
	}
	v, present := obj.Fields.Get(node.Key)
	if !present {
		return nil, nil, faults.New(faults.MissingField, "object has no field %q", node.Key)
	}
	return v, nil, nil
}
