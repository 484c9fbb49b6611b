package natives

import (
	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/values"
)

// FieldType describes one declared parameter or return slot of an extern
// signature: either a primitive Type, or, when Aggregate is non-nil, an
// Object shape naming each required field's Type.
type FieldType struct {
	Primitive values.Type
	Aggregate map[string]values.Type
}

// ExternSignature is the statically-recorded type signature ExternCall
// validates its arguments and return value against.
type ExternSignature struct {
	Params []FieldType
	Return FieldType
}

// ExternEntry pairs a signature with its host implementation.
type ExternEntry struct {
	Signature ExternSignature
	Fn        Fn
}

// CallExtern validates args against the declared signature, invokes fn,
// and packs an aggregate return into exactly the declared field set.
func CallExtern(entry ExternEntry, args []values.Value) (values.Value, error) {
	if len(args) != len(entry.Signature.Params) {
		return nil, faults.New(faults.Arity, "extern call expects %d argument(s), got %d", len(entry.Signature.Params), len(args))
	}
	for i, param := range entry.Signature.Params {
		if err := checkField(param, args[i], i); err != nil {
			return nil, err
		}
	}
	result, err := entry.Fn(args)
	if err != nil {
		return nil, err
	}
	return packReturn(entry.Signature.Return, result)
}

func checkField(spec FieldType, arg values.Value, index int) error {
	if spec.Aggregate == nil {
		if arg.Type() != spec.Primitive {
			return faults.New(faults.FFIType, "argument %d: expected %s, got %s", index, spec.Primitive, arg.Type())
		}
		return nil
	}
	obj, ok := arg.(*values.Object)
	if !ok {
		return faults.New(faults.FFIType, "argument %d: expected an aggregate, got %s", index, arg.Type())
	}
	for field, wantType := range spec.Aggregate {
		val, present := obj.Fields.Get(field)
		if !present {
			return faults.New(faults.FFIField, "argument %d: missing required field %q", index, field)
		}
		if val.Type() != wantType {
			return faults.New(faults.FFIField, "argument %d: field %q expected %s, got %s", index, field, wantType, val.Type())
		}
	}
	return nil
}

// packReturn rebuilds an aggregate return so it exposes exactly the
// signature's declared key set, dropping anything the host implementation
// added beyond it.
func packReturn(spec FieldType, result values.Value) (values.Value, error) {
	if spec.Aggregate == nil {
		return result, nil
	}
	obj, ok := result.(*values.Object)
	if !ok {
		return nil, faults.New(faults.FFIType, "extern return: expected an aggregate, got %s", result.Type())
	}
	packed := values.NewObject()
	for field := range spec.Aggregate {
		val, present := obj.Fields.Get(field)
		if !present {
			return nil, faults.New(faults.FFIField, "extern return: missing required field %q", field)
		}
		packed.Fields.Set(field, val)
	}
	return packed, nil
}
