// Package astcodec decodes and encodes the wire JSON AST document described
// by the external interface: a variant is a single-key object whose key is
// the variant name, with zero-arity variants additionally permitted as a
// bare string. Decoding walks the document with tidwall/gjson instead of
// unmarshalling into interface{} via encoding/json, keeping the hot startup
// path free of reflection.
package astcodec

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/vesper-lang/vesper/internal/ast"
)

// Decode parses a JSON AST document into a Node tree. It performs no
// semantic validation (that is the job of internal/validate), only enough
// shape-checking to build well-typed Go values.
func Decode(document []byte) (ast.Node, error) {
	if !gjson.ValidBytes(document) {
		return nil, fmt.Errorf("document is not valid JSON")
	}
	return decodeValue(gjson.ParseBytes(document))
}

func decodeValue(v gjson.Result) (ast.Node, error) {
	if v.Type == gjson.String {
		// Bare-string shorthand for a zero-arity, payload-unit variant.
		return decodeBareKind(ast.Kind(v.Str))
	}
	if !v.IsObject() {
		return nil, fmt.Errorf("expected an object or a variant-name string, got %s", v.Type)
	}

	var kind ast.Kind
	var payload gjson.Result
	count := 0
	v.ForEach(func(key, value gjson.Result) bool {
		kind = ast.Kind(key.Str)
		payload = value
		count++
		return count < 2 // stop once a second pair is seen; extra keys are malformed
	})
	if count != 1 {
		return nil, fmt.Errorf("variant object must have exactly one key, got %d", count)
	}
	return decodeVariant(kind, payload)
}

func decodeBareKind(kind ast.Kind) (ast.Node, error) {
	switch kind {
	case ast.KindTime:
		return &ast.Time{}, nil
	default:
		return nil, fmt.Errorf("%q is not a valid zero-arity variant name", kind)
	}
}

func decodeVariant(kind ast.Kind, p gjson.Result) (ast.Node, error) {
	switch kind {
	case ast.KindIntLiteral:
		return &ast.IntLiteral{Value: p.Int()}, nil
	case ast.KindFloatLiteral:
		return &ast.FloatLiteral{Value: p.Float()}, nil
	case ast.KindBoolLiteral:
		return &ast.BoolLiteral{Value: p.Bool()}, nil
	case ast.KindStringLiteral:
		return &ast.StringLiteral{Value: p.Str}, nil
	case ast.KindIdentifier:
		return &ast.Identifier{Name: p.Str}, nil
	case ast.KindTime:
		return &ast.Time{}, nil

	case ast.KindAssign:
		return decodeAssign(p)
	case ast.KindAdd, ast.KindSub, ast.KindMul, ast.KindDiv,
		ast.KindEq, ast.KindLt, ast.KindBitAnd, ast.KindBitShiftLeft,
		ast.KindBitShiftRight, ast.KindConcat, ast.KindMat4Mul:
		return decodeBinary(kind, p)
	case ast.KindSin, ast.KindCos:
		return decodeUnary(kind, p)

	case ast.KindArrayLiteral:
		return decodeArrayLiteral(p)
	case ast.KindArrayGet:
		return decodeArrayGet(p)
	case ast.KindArraySet:
		return decodeArraySet(p)
	case ast.KindArrayPush:
		return decodeArrayPush(p)
	case ast.KindArrayLen:
		return &ast.ArrayLen{Name: p.Str}, nil
	case ast.KindIndex:
		return decodeIndex(p)
	case ast.KindObjectLiteral:
		return decodeObjectLiteral(p)
	case ast.KindPropertyGet:
		return decodePropertyGet(p)

	case ast.KindIf:
		return decodeIf(p)
	case ast.KindWhile:
		return decodeWhile(p)
	case ast.KindBlock:
		return decodeBlock(p)
	case ast.KindReturn:
		child, err := decodeValue(p)
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: child}, nil

	case ast.KindFnDef:
		return decodeFnDef(p)
	case ast.KindCall:
		return decodeCall(p)

	case ast.KindPrint:
		child, err := decodeValue(p)
		if err != nil {
			return nil, err
		}
		return &ast.Print{Value: child}, nil
	case ast.KindFileRead:
		child, err := decodeValue(p)
		if err != nil {
			return nil, err
		}
		return &ast.FileRead{Path: child}, nil
	case ast.KindFileWrite:
		return decodeFileWrite(p)
	case ast.KindNativeCall:
		return decodeNativeCall(p)
	case ast.KindExternCall:
		return decodeExternCall(p)
	case ast.KindImport:
		return &ast.Import{Path: p.Str}, nil
	}
	return nil, fmt.Errorf("unknown variant %q", kind)
}

func decodeAssign(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 2 {
		return nil, fmt.Errorf("Assign expects [name, value], got %d elements", len(arr))
	}
	value, err := decodeValue(arr[1])
	if err != nil {
		return nil, err
	}
	return &ast.Assign{Name: arr[0].Str, Value: value}, nil
}

func decodeBinary(kind ast.Kind, p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 2 {
		return nil, fmt.Errorf("%s expects [left, right], got %d elements", kind, len(arr))
	}
	left, err := decodeValue(arr[0])
	if err != nil {
		return nil, err
	}
	right, err := decodeValue(arr[1])
	if err != nil {
		return nil, err
	}
	switch kind {
	case ast.KindAdd:
		return &ast.Add{Binary: ast.Binary{Left: left, Right: right}}, nil
	case ast.KindSub:
		return &ast.Sub{Binary: ast.Binary{Left: left, Right: right}}, nil
	case ast.KindMul:
		return &ast.Mul{Binary: ast.Binary{Left: left, Right: right}}, nil
	case ast.KindDiv:
		return &ast.Div{Binary: ast.Binary{Left: left, Right: right}}, nil
	case ast.KindEq:
		return &ast.Eq{Binary: ast.Binary{Left: left, Right: right}}, nil
	case ast.KindLt:
		return &ast.Lt{Binary: ast.Binary{Left: left, Right: right}}, nil
	case ast.KindBitAnd:
		return &ast.BitAnd{Binary: ast.Binary{Left: left, Right: right}}, nil
	case ast.KindBitShiftLeft:
		return &ast.BitShiftLeft{Binary: ast.Binary{Left: left, Right: right}}, nil
	case ast.KindBitShiftRight:
		return &ast.BitShiftRight{Binary: ast.Binary{Left: left, Right: right}}, nil
	case ast.KindConcat:
		return &ast.Concat{Binary: ast.Binary{Left: left, Right: right}}, nil
	case ast.KindMat4Mul:
		return &ast.Mat4Mul{Binary: ast.Binary{Left: left, Right: right}}, nil
	}
	panic("unreachable")
}

func decodeUnary(kind ast.Kind, p gjson.Result) (ast.Node, error) {
	x, err := decodeValue(p)
	if err != nil {
		return nil, err
	}
	switch kind {
	case ast.KindSin:
		return &ast.Sin{Unary: ast.Unary{X: x}}, nil
	case ast.KindCos:
		return &ast.Cos{Unary: ast.Unary{X: x}}, nil
	}
	panic("unreachable")
}

func decodeArrayLiteral(p gjson.Result) (ast.Node, error) {
	elements, err := decodeNodeArray(p)
	if err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Elements: elements}, nil
}

func decodeArrayGet(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 2 {
		return nil, fmt.Errorf("ArrayGet expects [name, index], got %d elements", len(arr))
	}
	idx, err := decodeValue(arr[1])
	if err != nil {
		return nil, err
	}
	return &ast.ArrayGet{Name: arr[0].Str, Index: idx}, nil
}

func decodeArraySet(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 3 {
		return nil, fmt.Errorf("ArraySet expects [name, index, value], got %d elements", len(arr))
	}
	idx, err := decodeValue(arr[1])
	if err != nil {
		return nil, err
	}
	val, err := decodeValue(arr[2])
	if err != nil {
		return nil, err
	}
	return &ast.ArraySet{Name: arr[0].Str, Index: idx, Value: val}, nil
}

func decodeArrayPush(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 2 {
		return nil, fmt.Errorf("ArrayPush expects [name, value], got %d elements", len(arr))
	}
	val, err := decodeValue(arr[1])
	if err != nil {
		return nil, err
	}
	return &ast.ArrayPush{Name: arr[0].Str, Value: val}, nil
}

func decodeIndex(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 2 {
		return nil, fmt.Errorf("Index expects [target, at], got %d elements", len(arr))
	}
	target, err := decodeValue(arr[0])
	if err != nil {
		return nil, err
	}
	at, err := decodeValue(arr[1])
	if err != nil {
		return nil, err
	}
	return &ast.Index{Target: target, At: at}, nil
}

func decodeObjectLiteral(p gjson.Result) (ast.Node, error) {
	if !p.IsObject() {
		return nil, fmt.Errorf("ObjectLiteral payload must be a JSON object")
	}
	obj := &ast.ObjectLiteral{}
	var decodeErr error
	p.ForEach(func(key, value gjson.Result) bool {
		node, err := decodeValue(value)
		if err != nil {
			decodeErr = err
			return false
		}
		obj.Keys = append(obj.Keys, key.Str)
		obj.Values = append(obj.Values, node)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return obj, nil
}

func decodePropertyGet(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 2 {
		return nil, fmt.Errorf("PropertyGet expects [target, key], got %d elements", len(arr))
	}
	target, err := decodeValue(arr[0])
	if err != nil {
		return nil, err
	}
	return &ast.PropertyGet{Target: target, Key: arr[1].Str}, nil
}

func decodeIf(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 2 && len(arr) != 3 {
		return nil, fmt.Errorf("If expects [cond, then] or [cond, then, else], got %d elements", len(arr))
	}
	cond, err := decodeValue(arr[0])
	if err != nil {
		return nil, err
	}
	then, err := decodeValue(arr[1])
	if err != nil {
		return nil, err
	}
	node := &ast.If{Cond: cond, Then: then}
	if len(arr) == 3 {
		els, err := decodeValue(arr[2])
		if err != nil {
			return nil, err
		}
		node.Else = els
	}
	return node, nil
}

func decodeWhile(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 2 {
		return nil, fmt.Errorf("While expects [cond, body], got %d elements", len(arr))
	}
	cond, err := decodeValue(arr[0])
	if err != nil {
		return nil, err
	}
	body, err := decodeValue(arr[1])
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

func decodeBlock(p gjson.Result) (ast.Node, error) {
	statements, err := decodeNodeArray(p)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Statements: statements}, nil
}

func decodeFnDef(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 3 {
		return nil, fmt.Errorf("FnDef expects [name, params, body], got %d elements", len(arr))
	}
	params := decodeStringArray(arr[1])
	body, err := decodeValue(arr[2])
	if err != nil {
		return nil, err
	}
	return &ast.FnDef{Name: arr[0].Str, Params: params, Body: body}, nil
}

func decodeCall(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 2 {
		return nil, fmt.Errorf("Call expects [name, args], got %d elements", len(arr))
	}
	args, err := decodeNodeArray(arr[1])
	if err != nil {
		return nil, err
	}
	return &ast.Call{Name: arr[0].Str, Args: args}, nil
}

func decodeFileWrite(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 2 {
		return nil, fmt.Errorf("FileWrite expects [path, data], got %d elements", len(arr))
	}
	path, err := decodeValue(arr[0])
	if err != nil {
		return nil, err
	}
	data, err := decodeValue(arr[1])
	if err != nil {
		return nil, err
	}
	return &ast.FileWrite{Path: path, Data: data}, nil
}

func decodeNativeCall(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 2 {
		return nil, fmt.Errorf("NativeCall expects [name, args], got %d elements", len(arr))
	}
	args, err := decodeNodeArray(arr[1])
	if err != nil {
		return nil, err
	}
	return &ast.NativeCall{Name: arr[0].Str, Args: args}, nil
}

// decodeExternCall reads the 3-element [module, name, args] form. The
// module is listed first so a reader scanning the payload sees the
// dispatch target before the call name, matching ExternCall's "typed
// sibling of NativeCall for a named module" framing.
func decodeExternCall(p gjson.Result) (ast.Node, error) {
	arr := p.Array()
	if len(arr) != 3 {
		return nil, fmt.Errorf("ExternCall expects [module, name, args], got %d elements", len(arr))
	}
	args, err := decodeNodeArray(arr[2])
	if err != nil {
		return nil, err
	}
	return &ast.ExternCall{Module: arr[0].Str, Name: arr[1].Str, Args: args}, nil
}

func decodeNodeArray(p gjson.Result) ([]ast.Node, error) {
	arr := p.Array()
	nodes := make([]ast.Node, 0, len(arr))
	for _, el := range arr {
		node, err := decodeValue(el)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func decodeStringArray(p gjson.Result) []string {
	arr := p.Array()
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		out = append(out, el.Str)
	}
	return out
}
