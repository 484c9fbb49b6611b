// Package ast defines the closed sum type of AST nodes that make up the
// entire surface language: a fixed catalogue of variants, each with a fixed
// arity and child shape. There is no lexer and no parser here: the tree is
// always decoded from a JSON document by internal/astcodec.
package ast

// Kind names one variant of the closed sum type. The set of Kind values is
// exactly the variant catalogue of the wire format.
type Kind string

// Node is the base interface every AST variant implements. Children exposes
// the variant's sub-nodes in declared order so the validator and optimizer
// can walk the tree generically without a type switch at every call site;
// individual passes still type-switch on Kind() to apply variant-specific
// rules.
type Node interface {
	Kind() Kind
	Children() []Node
}

// Literal and control-flow kinds.
const (
	KindIntLiteral    Kind = "IntLiteral"
	KindFloatLiteral  Kind = "FloatLiteral"
	KindBoolLiteral   Kind = "BoolLiteral"
	KindStringLiteral Kind = "StringLiteral"

	KindIdentifier Kind = "Identifier"
	KindAssign     Kind = "Assign"

	KindAdd     Kind = "Add"
	KindSub     Kind = "Sub"
	KindMul     Kind = "Mul"
	KindDiv     Kind = "Div"
	KindSin     Kind = "Sin"
	KindCos     Kind = "Cos"
	KindMat4Mul Kind = "Mat4Mul"
	KindTime    Kind = "Time"
	KindEq      Kind = "Eq"
	KindLt      Kind = "Lt"

	KindBitAnd        Kind = "BitAnd"
	KindBitShiftLeft  Kind = "BitShiftLeft"
	KindBitShiftRight Kind = "BitShiftRight"

	KindArrayLiteral  Kind = "ArrayLiteral"
	KindArrayGet      Kind = "ArrayGet"
	KindArraySet      Kind = "ArraySet"
	KindArrayPush     Kind = "ArrayPush"
	KindArrayLen      Kind = "ArrayLen"
	KindIndex         Kind = "Index"
	KindConcat        Kind = "Concat"
	KindObjectLiteral Kind = "ObjectLiteral"
	KindPropertyGet   Kind = "PropertyGet"

	KindIf     Kind = "If"
	KindWhile  Kind = "While"
	KindBlock  Kind = "Block"
	KindReturn Kind = "Return"

	KindFnDef Kind = "FnDef"
	KindCall  Kind = "Call"

	KindPrint      Kind = "Print"
	KindFileRead   Kind = "FileRead"
	KindFileWrite  Kind = "FileWrite"
	KindNativeCall Kind = "NativeCall"
	KindExternCall Kind = "ExternCall"
	KindImport     Kind = "Import"
)

// noChildren is embedded by zero-arity variants so they satisfy Node
// without repeating an empty slice literal everywhere.
type noChildren struct{}

func (noChildren) Children() []Node { return nil }
