package eval

import (
	"math"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/runtime"
	"github.com/vesper-lang/vesper/internal/values"
)

// evalArithmetic handles Add/Sub/Mul/Div: Int op Int stays Int (two's
// complement wraparound, matching Go's native int64 arithmetic); any Float
// operand promotes the result to Float. Div by an Int zero faults;
// Float-involving division follows IEEE-754 (producing Inf or NaN).
func (e *Evaluator) evalArithmetic(n ast.Node, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	var left, right ast.Node
	var op string
	switch node := n.(type) {
	case *ast.Add:
		left, right, op = node.Left, node.Right, "+"
	case *ast.Sub:
		left, right, op = node.Left, node.Right, "-"
	case *ast.Mul:
		left, right, op = node.Left, node.Right, "*"
	case *ast.Div:
		left, right, op = node.Left, node.Right, "/"
	}

	lv, sig, flt := e.Eval(left, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	rv, sig, flt := e.Eval(right, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}

	li, lok := lv.(values.Int)
	ri, rok := rv.(values.Int)
	if lok && rok {
		if op == "/" && ri == 0 {
			return nil, nil, faults.New(faults.DivisionByZero, "integer division by zero")
		}
		switch op {
		case "+":
			return li + ri, nil, nil
		case "-":
			return li - ri, nil, nil
		case "*":
			return li * ri, nil, nil
		case "/":
			return li / ri, nil, nil
		}
	}

	lf, lok := asFloat(lv)
	rf, rok := asFloat(rv)
	if !lok || !rok {
		return nil, nil, faults.New(faults.TypeMismatch, "%s requires numeric operands, got %s and %s", op, lv.Type(), rv.Type())
	}
	switch op {
	case "+":
		return values.Float(lf + rf), nil, nil
	case "-":
		return values.Float(lf - rf), nil, nil
	case "*":
		return values.Float(lf * rf), nil, nil
	case "/":
		return values.Float(lf / rf), nil, nil
	}
	return nil, nil, faults.New(faults.Structural, "unreachable arithmetic operator %q", op)
}

func asFloat(v values.Value) (float64, bool) {
	switch n := v.(type) {
	case values.Int:
		return float64(n), true
	case values.Float:
		return float64(n), true
	}
	return 0, false
}

func (e *Evaluator) evalTrig(x ast.Node, env *runtime.Environment, which string) (values.Value, *signal, *faults.Fault) {
	v, sig, flt := e.Eval(x, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	f, ok := asFloat(v)
	if !ok {
		return nil, nil, faults.New(faults.TypeMismatch, "%s requires a numeric operand, got %s", which, v.Type())
	}
	if which == "Sin" {
		return values.Float(math.Sin(f)), nil, nil
	}
	return values.Float(math.Cos(f)), nil, nil
}

// evalMat4Mul multiplies two 16-element column-major Float matrices,
// mirroring the layout native graphics code expects.
func (e *Evaluator) evalMat4Mul(node *ast.Mat4Mul, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	lv, sig, flt := e.Eval(node.Left, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	rv, sig, flt := e.Eval(node.Right, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	a, ok := lv.(*values.Array)
	if !ok || len(a.Elements) != 16 {
		return nil, nil, faults.New(faults.TypeMismatch, "Mat4Mul requires a 16-element array operand")
	}
	b, ok := rv.(*values.Array)
	if !ok || len(b.Elements) != 16 {
		return nil, nil, faults.New(faults.TypeMismatch, "Mat4Mul requires a 16-element array operand")
	}
	am, err := matFloats(a)
	if err != nil {
		return nil, nil, err
	}
	bm, err := matFloats(b)
	if err != nil {
		return nil, nil, err
	}
	var out [16]float64
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += am[k*4+row] * bm[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	elems := make([]values.Value, 16)
	for i, f := range out {
		elems[i] = values.Float(f)
	}
	return values.NewArray(elems), nil, nil
}

func matFloats(a *values.Array) ([16]float64, *faults.Fault) {
	var out [16]float64
	for i, elem := range a.Elements {
		f, ok := asFloat(elem)
		if !ok {
			return out, faults.New(faults.TypeMismatch, "Mat4Mul element %d: expected a numeric value, got %s", i, elem.Type())
		}
		out[i] = f
	}
	return out, nil
}

func (e *Evaluator) evalEq(node *ast.Eq, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	lv, sig, flt := e.Eval(node.Left, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	rv, sig, flt := e.Eval(node.Right, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	return values.Bool(values.Equal(lv, rv)), nil, nil
}

func (e *Evaluator) evalLt(node *ast.Lt, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	lv, sig, flt := e.Eval(node.Left, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	rv, sig, flt := e.Eval(node.Right, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	result, defined := values.Less(lv, rv)
	if !defined {
		return nil, nil, faults.New(faults.TypeMismatch, "Lt is not defined between %s and %s", lv.Type(), rv.Type())
	}
	return values.Bool(result), nil, nil
}

// evalBitwise handles BitAnd/BitShiftLeft/BitShiftRight; both operands must
// be Int, and shift amounts are masked to 0..63 before being applied so a
// negative or oversized shift count never panics.
func (e *Evaluator) evalBitwise(n ast.Node, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	var left, right ast.Node
	var op string
	switch node := n.(type) {
	case *ast.BitAnd:
		left, right, op = node.Left, node.Right, "&"
	case *ast.BitShiftLeft:
		left, right, op = node.Left, node.Right, "<<"
	case *ast.BitShiftRight:
		left, right, op = node.Left, node.Right, ">>"
	}
	lv, sig, flt := e.Eval(left, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	rv, sig, flt := e.Eval(right, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	li, lok := lv.(values.Int)
	ri, rok := rv.(values.Int)
	if !lok || !rok {
		return nil, nil, faults.New(faults.TypeMismatch, "%s requires Int operands, got %s and %s", op, lv.Type(), rv.Type())
	}
	switch op {
	case "&":
		return li & ri, nil, nil
	case "<<":
		return li << (uint64(ri) & 63), nil, nil
	case ">>":
		return li >> (uint64(ri) & 63), nil, nil
	}
	return nil, nil, faults.New(faults.Structural, "unreachable bitwise operator %q", op)
}

// evalConcat joins two Strings, or two ArrayLiterals element-wise, chosen
// by the runtime type of the left operand rather than by AST shape.
func (e *Evaluator) evalConcat(node *ast.Concat, env *runtime.Environment) (values.Value, *signal, *faults.Fault) {
	lv, sig, flt := e.Eval(node.Left, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	rv, sig, flt := e.Eval(node.Right, env)
	if flt != nil || sig != nil {
		return nil, sig, flt
	}
	switch l := lv.(type) {
	case values.String:
		r, ok := rv.(values.String)
		if !ok {
			return nil, nil, faults.New(faults.TypeMismatch, "Concat requires matching operand types, got String and %s", rv.Type())
		}
		return l + r, nil, nil
	case *values.Array:
		r, ok := rv.(*values.Array)
		if !ok {
			return nil, nil, faults.New(faults.TypeMismatch, "Concat requires matching operand types, got Array and %s", rv.Type())
		}
		joined := make([]values.Value, 0, len(l.Elements)+len(r.Elements))
		joined = append(joined, l.Elements...)
		joined = append(joined, r.Elements...)
		return values.NewArray(joined), nil, nil
	}
	return nil, nil, faults.New(faults.TypeMismatch, "Concat requires String or Array operands, got %s", lv.Type())
}
