package astcodec

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/vesper-lang/vesper/internal/ast"
)

// Encode renders a Node tree back to its canonical JSON document form,
// satisfying the round-trip law Decode(Encode(n)) == n (node-structurally).
// It builds the document incrementally with sjson rather than constructing
// an intermediate map[string]any tree, the same reason the decoder avoids
// encoding/json's reflection-based unmarshalling: this path runs on every
// --dump-ast invocation and every round-trip test.
func Encode(n ast.Node) ([]byte, error) {
	return encodeValue(n)
}

func encodeValue(n ast.Node) ([]byte, error) {
	switch v := n.(type) {
	case *ast.IntLiteral:
		return wrapScalar(ast.KindIntLiteral, v.Value)
	case *ast.FloatLiteral:
		return wrapScalar(ast.KindFloatLiteral, v.Value)
	case *ast.BoolLiteral:
		return wrapScalar(ast.KindBoolLiteral, v.Value)
	case *ast.StringLiteral:
		return wrapScalar(ast.KindStringLiteral, v.Value)
	case *ast.Identifier:
		return wrapScalar(ast.KindIdentifier, v.Name)
	case *ast.Time:
		return []byte(`"Time"`), nil

	case *ast.Assign:
		return wrapArray(ast.KindAssign, v.Name, nodeElem(v.Value))
	case *ast.Add:
		return encodeBinary(ast.KindAdd, v.Left, v.Right)
	case *ast.Sub:
		return encodeBinary(ast.KindSub, v.Left, v.Right)
	case *ast.Mul:
		return encodeBinary(ast.KindMul, v.Left, v.Right)
	case *ast.Div:
		return encodeBinary(ast.KindDiv, v.Left, v.Right)
	case *ast.Eq:
		return encodeBinary(ast.KindEq, v.Left, v.Right)
	case *ast.Lt:
		return encodeBinary(ast.KindLt, v.Left, v.Right)
	case *ast.BitAnd:
		return encodeBinary(ast.KindBitAnd, v.Left, v.Right)
	case *ast.BitShiftLeft:
		return encodeBinary(ast.KindBitShiftLeft, v.Left, v.Right)
	case *ast.BitShiftRight:
		return encodeBinary(ast.KindBitShiftRight, v.Left, v.Right)
	case *ast.Concat:
		return encodeBinary(ast.KindConcat, v.Left, v.Right)
	case *ast.Mat4Mul:
		return encodeBinary(ast.KindMat4Mul, v.Left, v.Right)
	case *ast.Sin:
		return wrapNode(ast.KindSin, v.X)
	case *ast.Cos:
		return wrapNode(ast.KindCos, v.X)

	case *ast.ArrayLiteral:
		return wrapArrayRaw(ast.KindArrayLiteral, nodeArrayElem(v.Elements))
	case *ast.ArrayGet:
		return wrapArray(ast.KindArrayGet, v.Name, nodeElem(v.Index))
	case *ast.ArraySet:
		return wrapArray(ast.KindArraySet, v.Name, nodeElem(v.Index), nodeElem(v.Value))
	case *ast.ArrayPush:
		return wrapArray(ast.KindArrayPush, v.Name, nodeElem(v.Value))
	case *ast.ArrayLen:
		return wrapScalar(ast.KindArrayLen, v.Name)
	case *ast.Index:
		return wrapArray(ast.KindIndex, nodeElem(v.Target), nodeElem(v.At))
	case *ast.ObjectLiteral:
		return wrapObject(ast.KindObjectLiteral, v.Keys, v.Values)
	case *ast.PropertyGet:
		return wrapArray(ast.KindPropertyGet, nodeElem(v.Target), v.Key)

	case *ast.If:
		if v.Else == nil {
			return wrapArray(ast.KindIf, nodeElem(v.Cond), nodeElem(v.Then))
		}
		return wrapArray(ast.KindIf, nodeElem(v.Cond), nodeElem(v.Then), nodeElem(v.Else))
	case *ast.While:
		return wrapArray(ast.KindWhile, nodeElem(v.Cond), nodeElem(v.Body))
	case *ast.Block:
		return wrapArrayRaw(ast.KindBlock, nodeArrayElem(v.Statements))
	case *ast.Return:
		return wrapNode(ast.KindReturn, v.Value)

	case *ast.FnDef:
		return wrapArray(ast.KindFnDef, v.Name, stringArrayElem(v.Params), nodeElem(v.Body))
	case *ast.Call:
		return wrapArray(ast.KindCall, v.Name, nodeArrayElem(v.Args))

	case *ast.Print:
		return wrapNode(ast.KindPrint, v.Value)
	case *ast.FileRead:
		return wrapNode(ast.KindFileRead, v.Path)
	case *ast.FileWrite:
		return wrapArray(ast.KindFileWrite, nodeElem(v.Path), nodeElem(v.Data))
	case *ast.NativeCall:
		return wrapArray(ast.KindNativeCall, v.Name, nodeArrayElem(v.Args))
	case *ast.ExternCall:
		return wrapArray(ast.KindExternCall, v.Module, v.Name, nodeArrayElem(v.Args))
	case *ast.Import:
		return wrapScalar(ast.KindImport, v.Path)
	}
	return nil, fmt.Errorf("astcodec: unknown node type %T", n)
}

// nodeElem and nodeArrayElem defer encoding of a sub-node (or sub-node
// slice) until appendElement actually needs its bytes, so a single error
// return can short-circuit the whole payload build.
type deferredElem func() ([]byte, error)

func nodeElem(n ast.Node) deferredElem {
	return func() ([]byte, error) { return encodeValue(n) }
}

func nodeArrayElem(nodes []ast.Node) deferredElem {
	return func() ([]byte, error) { return encodeNodeArray(nodes) }
}

func stringArrayElem(strs []string) deferredElem {
	return func() ([]byte, error) {
		arr := []byte("[]")
		var err error
		for _, s := range strs {
			arr, err = sjson.SetBytes(arr, "-1", s)
			if err != nil {
				return nil, err
			}
		}
		return arr, nil
	}
}

func encodeNodeArray(nodes []ast.Node) ([]byte, error) {
	arr := []byte("[]")
	for _, n := range nodes {
		b, err := encodeValue(n)
		if err != nil {
			return nil, err
		}
		arr, err = sjson.SetRawBytes(arr, "-1", b)
		if err != nil {
			return nil, err
		}
	}
	return arr, nil
}

// appendElement appends one payload element to arr: a deferredElem or a
// raw []byte is set as already-encoded JSON, anything else (string, bool,
// a numeric literal) is handed to sjson to marshal and escape itself.
func appendElement(arr []byte, elem any) ([]byte, error) {
	switch v := elem.(type) {
	case deferredElem:
		b, err := v()
		if err != nil {
			return nil, err
		}
		return sjson.SetRawBytes(arr, "-1", b)
	case []byte:
		return sjson.SetRawBytes(arr, "-1", v)
	default:
		return sjson.SetBytes(arr, "-1", v)
	}
}

func encodeBinary(kind ast.Kind, left, right ast.Node) ([]byte, error) {
	return wrapArray(kind, nodeElem(left), nodeElem(right))
}

func wrapNode(kind ast.Kind, child ast.Node) ([]byte, error) {
	payload, err := encodeValue(child)
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes([]byte("{}"), string(kind), payload)
}

// wrapArray builds a payload array element by element via sjson's "-1"
// append path, then sets it as the single key of the kind object.
func wrapArray(kind ast.Kind, elems ...any) ([]byte, error) {
	arr := []byte("[]")
	var err error
	for _, elem := range elems {
		arr, err = appendElement(arr, elem)
		if err != nil {
			return nil, err
		}
	}
	return sjson.SetRawBytes([]byte("{}"), string(kind), arr)
}

// wrapArrayRaw is wrapArray's sibling for the rarer case where the array
// payload itself is built elsewhere (ArrayLiteral/Block's statement list).
func wrapArrayRaw(kind ast.Kind, arr deferredElem) ([]byte, error) {
	payload, err := arr()
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes([]byte("{}"), string(kind), payload)
}

func wrapScalar(kind ast.Kind, value any) ([]byte, error) {
	return sjson.SetBytes([]byte("{}"), string(kind), value)
}

// wrapObject builds ObjectLiteral's payload as a native JSON object, one
// key at a time; keys are escaped for sjson's path syntax since, unlike
// every other payload shape here, an object key is arbitrary user data
// rather than a fixed field name.
func wrapObject(kind ast.Kind, keys []string, values []ast.Node) ([]byte, error) {
	obj := []byte("{}")
	for i, key := range keys {
		valBytes, err := encodeValue(values[i])
		if err != nil {
			return nil, err
		}
		obj, err = sjson.SetRawBytes(obj, escapePathKey(key), valBytes)
		if err != nil {
			return nil, err
		}
	}
	return sjson.SetRawBytes([]byte("{}"), string(kind), obj)
}

// escapePathKey backslash-escapes the characters sjson's path syntax
// treats specially, so an Object key like "a.b" or "x*" sets a literal
// JSON key rather than being parsed as a nested path or wildcard.
func escapePathKey(key string) string {
	var sb strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
