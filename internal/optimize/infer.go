package optimize

import (
	"fmt"

	"github.com/vesper-lang/vesper/internal/ast"
	"github.com/vesper-lang/vesper/internal/values"
)

// Policy controls what happens when a rebinding's inferred type disagrees
// with the type already recorded for that Assign target.
type Policy int

const (
	// PolicyWarn records a Diagnostic and lets evaluation proceed; the
	// evaluator enforces the same invariant at runtime via a fault.
	PolicyWarn Policy = iota
	// PolicyStrict fails optimization outright on the first mismatch.
	PolicyStrict
)

// Diagnostic is one type-mismatch finding from the inference pass.
type Diagnostic struct {
	Name     string
	Previous values.Type
	Found    values.Type
	Path     []string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: rebinding changes inferred type from %s to %s", d.Name, d.Previous, d.Found)
}

// InferResult carries the per-node inferred types plus any mismatch
// diagnostics found along the way.
type InferResult struct {
	Types       map[ast.Node]values.Type
	Diagnostics []Diagnostic
}

// Infer performs a forward pass over root, assigning an inferred type to
// every Assign target and expression subtree.
func Infer(root ast.Node, policy Policy) *InferResult {
	r := &InferResult{Types: make(map[ast.Node]values.Type)}
	bindings := make(map[string]values.Type)
	inferWalk(root, bindings, r, policy, []string{"root"})
	return r
}

func inferWalk(n ast.Node, bindings map[string]values.Type, r *InferResult, policy Policy, path []string) values.Type {
	if n == nil {
		return values.TypeAny
	}
	var t values.Type
	switch v := n.(type) {
	case *ast.IntLiteral:
		t = values.TypeInt
	case *ast.FloatLiteral:
		t = values.TypeFloat
	case *ast.BoolLiteral:
		t = values.TypeBool
	case *ast.StringLiteral:
		t = values.TypeString
	case *ast.Identifier:
		if bound, ok := bindings[v.Name]; ok {
			t = bound
		} else {
			t = values.TypeAny
		}
	case *ast.Time:
		t = values.TypeFloat
	case *ast.Add, *ast.Sub, *ast.Mul, *ast.Div:
		t = inferNumericBinary(n, bindings, r, policy, path)
	case *ast.Eq, *ast.Lt:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeBool
	case *ast.BitAnd, *ast.BitShiftLeft, *ast.BitShiftRight:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeInt
	case *ast.Sin, *ast.Cos:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeFloat
	case *ast.Mat4Mul:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeArray
	case *ast.Concat:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeAny
	case *ast.ArrayLiteral:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeArray
	case *ast.ObjectLiteral:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeObject
	case *ast.Index:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeAny
	case *ast.PropertyGet:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeAny
	case *ast.ArrayGet:
		inferWalk(v.Index, bindings, r, policy, path)
		t = values.TypeAny
	case *ast.ArrayLen:
		t = values.TypeInt
	case *ast.ArraySet:
		inferWalk(v.Index, bindings, r, policy, path)
		inferWalk(v.Value, bindings, r, policy, path)
		t = values.TypeVoid
	case *ast.ArrayPush:
		inferWalk(v.Value, bindings, r, policy, path)
		t = values.TypeVoid
	case *ast.Assign:
		found := inferWalk(v.Value, bindings, r, policy, path)
		if prev, ok := bindings[v.Name]; ok && !prev.Compatible(found) {
			r.Diagnostics = append(r.Diagnostics, Diagnostic{
				Name: v.Name, Previous: prev, Found: found, Path: append([]string{}, path...),
			})
		}
		bindings[v.Name] = found
		t = values.TypeVoid
	case *ast.If:
		inferWalk(v.Cond, bindings, r, policy, path)
		inferWalk(v.Then, bindings, r, policy, path)
		if v.Else != nil {
			inferWalk(v.Else, bindings, r, policy, path)
		}
		t = values.TypeAny
	case *ast.While:
		inferWalk(v.Cond, bindings, r, policy, path)
		inferWalk(v.Body, bindings, r, policy, path)
		t = values.TypeVoid
	case *ast.Block:
		t = values.TypeVoid
		for _, stmt := range v.Statements {
			t = inferWalk(stmt, bindings, r, policy, path)
		}
	case *ast.Return:
		inferWalk(v.Value, bindings, r, policy, path)
		t = values.TypeVoid
	case *ast.FnDef:
		bindings[v.Name] = values.TypeFunction
		inner := make(map[string]values.Type, len(bindings))
		for k, val := range bindings {
			inner[k] = val
		}
		for _, p := range v.Params {
			inner[p] = values.TypeAny
		}
		inferWalk(v.Body, inner, r, policy, path)
		t = values.TypeVoid
	case *ast.Call:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeAny
	case *ast.Print:
		inferWalk(v.Value, bindings, r, policy, path)
		t = values.TypeVoid
	case *ast.FileRead:
		inferWalk(v.Path, bindings, r, policy, path)
		t = values.TypeString
	case *ast.FileWrite:
		inferWalk(v.Path, bindings, r, policy, path)
		inferWalk(v.Data, bindings, r, policy, path)
		t = values.TypeVoid
	case *ast.NativeCall:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeAny
	case *ast.ExternCall:
		inferChildrenOf(n, bindings, r, policy, path)
		t = values.TypeAny
	case *ast.Import:
		t = values.TypeVoid
	default:
		t = values.TypeAny
	}
	r.Types[n] = t
	return t
}

func inferNumericBinary(n ast.Node, bindings map[string]values.Type, r *InferResult, policy Policy, path []string) values.Type {
	left, right := binaryOperands(n)
	lt := inferWalk(left, bindings, r, policy, path)
	rt := inferWalk(right, bindings, r, policy, path)
	if lt == values.TypeFloat || rt == values.TypeFloat {
		return values.TypeFloat
	}
	if lt == values.TypeInt && rt == values.TypeInt {
		return values.TypeInt
	}
	return values.TypeAny
}

func binaryOperands(n ast.Node) (ast.Node, ast.Node) {
	children := n.Children()
	if len(children) != 2 {
		return nil, nil
	}
	return children[0], children[1]
}

func inferChildrenOf(n ast.Node, bindings map[string]values.Type, r *InferResult, policy Policy, path []string) {
	for _, c := range n.Children() {
		inferWalk(c, bindings, r, policy, path)
	}
}
