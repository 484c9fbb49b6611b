// Package optimize implements the pure, semantics-preserving AST rewriter:
// constant folding, algebraic dead-code elimination, and static type
// inference. It runs to a fixed point or a bounded iteration count before
// the evaluator ever sees the tree.
package optimize

import (
	"math"

	"github.com/vesper-lang/vesper/internal/ast"
)

// foldChildrenFirst rebuilds n with each child folded before attempting to
// fold n itself, per the recursion rule: fold children first, then attempt
// to fold the parent.
func foldChildrenFirst(n ast.Node) (ast.Node, bool) {
	if n == nil {
		return n, false
	}
	rebuilt, childChanged := rebuildWithFoldedChildren(n)
	folded, foldChanged := foldNode(rebuilt)
	rewritten, dceChanged := dceNode(folded)
	return rewritten, childChanged || foldChanged || dceChanged
}

func rebuildWithFoldedChildren(n ast.Node) (ast.Node, bool) {
	changed := false
	foldChild := func(c ast.Node) ast.Node {
		if c == nil {
			return nil
		}
		f, ch := foldChildrenFirst(c)
		if ch {
			changed = true
		}
		return f
	}

	switch t := n.(type) {
	case *ast.Add:
		t.Left, t.Right = foldChild(t.Left), foldChild(t.Right)
	case *ast.Sub:
		t.Left, t.Right = foldChild(t.Left), foldChild(t.Right)
	case *ast.Mul:
		t.Left, t.Right = foldChild(t.Left), foldChild(t.Right)
	case *ast.Div:
		t.Left, t.Right = foldChild(t.Left), foldChild(t.Right)
	case *ast.Eq:
		t.Left, t.Right = foldChild(t.Left), foldChild(t.Right)
	case *ast.Lt:
		t.Left, t.Right = foldChild(t.Left), foldChild(t.Right)
	case *ast.BitAnd:
		t.Left, t.Right = foldChild(t.Left), foldChild(t.Right)
	case *ast.BitShiftLeft:
		t.Left, t.Right = foldChild(t.Left), foldChild(t.Right)
	case *ast.BitShiftRight:
		t.Left, t.Right = foldChild(t.Left), foldChild(t.Right)
	case *ast.Concat:
		t.Left, t.Right = foldChild(t.Left), foldChild(t.Right)
	case *ast.Mat4Mul:
		t.Left, t.Right = foldChild(t.Left), foldChild(t.Right)
	case *ast.Sin:
		t.X = foldChild(t.X)
	case *ast.Cos:
		t.X = foldChild(t.X)
	case *ast.Assign:
		t.Value = foldChild(t.Value)
	case *ast.If:
		t.Cond, t.Then = foldChild(t.Cond), foldChild(t.Then)
		if t.Else != nil {
			t.Else = foldChild(t.Else)
		}
	case *ast.While:
		t.Cond, t.Body = foldChild(t.Cond), foldChild(t.Body)
	case *ast.Block:
		for i := range t.Statements {
			t.Statements[i] = foldChild(t.Statements[i])
		}
	case *ast.Return:
		t.Value = foldChild(t.Value)
	case *ast.FnDef:
		t.Body = foldChild(t.Body)
	case *ast.Call:
		for i := range t.Args {
			t.Args[i] = foldChild(t.Args[i])
		}
	case *ast.ArrayLiteral:
		for i := range t.Elements {
			t.Elements[i] = foldChild(t.Elements[i])
		}
	case *ast.ArrayGet:
		t.Index = foldChild(t.Index)
	case *ast.ArraySet:
		t.Index, t.Value = foldChild(t.Index), foldChild(t.Value)
	case *ast.ArrayPush:
		t.Value = foldChild(t.Value)
	case *ast.Index:
		t.Target, t.At = foldChild(t.Target), foldChild(t.At)
	case *ast.ObjectLiteral:
		for i := range t.Values {
			t.Values[i] = foldChild(t.Values[i])
		}
	case *ast.PropertyGet:
		t.Target = foldChild(t.Target)
	case *ast.Print:
		t.Value = foldChild(t.Value)
	case *ast.FileRead:
		t.Path = foldChild(t.Path)
	case *ast.FileWrite:
		t.Path, t.Data = foldChild(t.Path), foldChild(t.Data)
	case *ast.NativeCall:
		for i := range t.Args {
			t.Args[i] = foldChild(t.Args[i])
		}
	case *ast.ExternCall:
		for i := range t.Args {
			t.Args[i] = foldChild(t.Args[i])
		}
	}
	return n, changed
}

// foldNode attempts to fold a single node whose children are already in
// their final (folded) form. A node that cannot fold (non-literal operands,
// a literal zero divisor) is returned unchanged.
func foldNode(n ast.Node) (ast.Node, bool) {
	var folded ast.Node
	var ok bool
	switch t := n.(type) {
	case *ast.Add:
		folded, ok = foldArith(t.Left, t.Right, ast.KindAdd)
	case *ast.Sub:
		folded, ok = foldArith(t.Left, t.Right, ast.KindSub)
	case *ast.Mul:
		folded, ok = foldArith(t.Left, t.Right, ast.KindMul)
	case *ast.Div:
		folded, ok = foldArith(t.Left, t.Right, ast.KindDiv)
	case *ast.Eq:
		folded, ok = foldCompare(t.Left, t.Right, ast.KindEq)
	case *ast.Lt:
		folded, ok = foldCompare(t.Left, t.Right, ast.KindLt)
	case *ast.BitAnd:
		folded, ok = foldBitwise(t.Left, t.Right, ast.KindBitAnd)
	case *ast.BitShiftLeft:
		folded, ok = foldBitwise(t.Left, t.Right, ast.KindBitShiftLeft)
	case *ast.BitShiftRight:
		folded, ok = foldBitwise(t.Left, t.Right, ast.KindBitShiftRight)
	case *ast.Sin:
		folded, ok = foldTrig(t.X, math.Sin)
	case *ast.Cos:
		folded, ok = foldTrig(t.X, math.Cos)
	case *ast.Concat:
		folded, ok = foldConcat(t.Left, t.Right)
	}
	if !ok {
		return n, false
	}
	return folded, true
}

func asInt(n ast.Node) (int64, bool) {
	if lit, ok := n.(*ast.IntLiteral); ok {
		return lit.Value, true
	}
	return 0, false
}

func asFloat(n ast.Node) (float64, bool) {
	switch lit := n.(type) {
	case *ast.FloatLiteral:
		return lit.Value, true
	case *ast.IntLiteral:
		return float64(lit.Value), true
	}
	return 0, false
}

func isNumericLiteral(n ast.Node) bool {
	switch n.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral:
		return true
	}
	return false
}

func foldArith(left, right ast.Node, op ast.Kind) (ast.Node, bool) {
	if !isNumericLiteral(left) || !isNumericLiteral(right) {
		return nil, false
	}
	if rf, ok := asFloat(right); ok && op == ast.KindDiv && rf == 0 {
		// Division by a literal zero is never folded so the runtime fault
		// surfaces at the correct scope.
		return nil, false
	}
	li, liOK := asInt(left)
	ri, riOK := asInt(right)
	if liOK && riOK {
		return &ast.IntLiteral{Value: applyIntOp(li, ri, op)}, true
	}
	lf, _ := asFloat(left)
	rf, _ := asFloat(right)
	return &ast.FloatLiteral{Value: applyFloatOp(lf, rf, op)}, true
}

func applyIntOp(l, r int64, op ast.Kind) int64 {
	switch op {
	case ast.KindAdd:
		return l + r
	case ast.KindSub:
		return l - r
	case ast.KindMul:
		return l * r
	case ast.KindDiv:
		return l / r
	}
	panic("unreachable")
}

func applyFloatOp(l, r float64, op ast.Kind) float64 {
	switch op {
	case ast.KindAdd:
		return l + r
	case ast.KindSub:
		return l - r
	case ast.KindMul:
		return l * r
	case ast.KindDiv:
		return l / r
	}
	panic("unreachable")
}

func foldCompare(left, right ast.Node, op ast.Kind) (ast.Node, bool) {
	if isNumericLiteral(left) && isNumericLiteral(right) {
		lf, _ := asFloat(left)
		rf, _ := asFloat(right)
		if op == ast.KindEq {
			return &ast.BoolLiteral{Value: lf == rf}, true
		}
		return &ast.BoolLiteral{Value: lf < rf}, true
	}
	ls, lok := left.(*ast.StringLiteral)
	rs, rok := right.(*ast.StringLiteral)
	if lok && rok {
		if op == ast.KindEq {
			return &ast.BoolLiteral{Value: ls.Value == rs.Value}, true
		}
		return &ast.BoolLiteral{Value: ls.Value < rs.Value}, true
	}
	lb, lok := left.(*ast.BoolLiteral)
	rb, rok := right.(*ast.BoolLiteral)
	if op == ast.KindEq && lok && rok {
		return &ast.BoolLiteral{Value: lb.Value == rb.Value}, true
	}
	return nil, false
}

func foldBitwise(left, right ast.Node, op ast.Kind) (ast.Node, bool) {
	li, lok := asInt(left)
	ri, rok := asInt(right)
	if !lok || !rok {
		return nil, false
	}
	switch op {
	case ast.KindBitAnd:
		return &ast.IntLiteral{Value: li & ri}, true
	case ast.KindBitShiftLeft:
		return &ast.IntLiteral{Value: li << (uint64(ri) & 63)}, true
	case ast.KindBitShiftRight:
		return &ast.IntLiteral{Value: li >> (uint64(ri) & 63)}, true
	}
	panic("unreachable")
}

func foldTrig(x ast.Node, fn func(float64) float64) (ast.Node, bool) {
	f, ok := x.(*ast.FloatLiteral)
	if !ok {
		return nil, false
	}
	return &ast.FloatLiteral{Value: fn(f.Value)}, true
}

func foldConcat(left, right ast.Node) (ast.Node, bool) {
	ls, lok := left.(*ast.StringLiteral)
	rs, rok := right.(*ast.StringLiteral)
	if lok && rok {
		return &ast.StringLiteral{Value: ls.Value + rs.Value}, true
	}
	la, laok := left.(*ast.ArrayLiteral)
	ra, raok := right.(*ast.ArrayLiteral)
	if laok && raok && allLiteral(la.Elements) && allLiteral(ra.Elements) {
		elems := make([]ast.Node, 0, len(la.Elements)+len(ra.Elements))
		elems = append(elems, la.Elements...)
		elems = append(elems, ra.Elements...)
		return &ast.ArrayLiteral{Elements: elems}, true
	}
	return nil, false
}

func allLiteral(nodes []ast.Node) bool {
	for _, n := range nodes {
		switch n.(type) {
		case *ast.IntLiteral, *ast.FloatLiteral, *ast.BoolLiteral, *ast.StringLiteral:
		default:
			return false
		}
	}
	return true
}
