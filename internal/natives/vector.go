package natives

import (
	"math"

	"github.com/vesper-lang/vesper/internal/values"
)

// vectorModule implements the one extern call wired end to end:
// normalize(Object{x,y,z:Float}) -> Object{x,y,z:Float}, round-tripped
// through the FFI bridge's aggregate unpack/repack.
func vectorModule() *Module {
	xyz := map[string]values.Type{"x": values.TypeFloat, "y": values.TypeFloat, "z": values.TypeFloat}
	return &Module{
		Name:    "vector",
		Entries: map[string]Entry{},
		Externs: map[string]ExternEntry{
			"normalize": {
				Signature: ExternSignature{
					Params: []FieldType{{Aggregate: xyz}},
					Return: FieldType{Aggregate: xyz},
				},
				Fn: func(args []values.Value) (values.Value, error) {
					obj := args[0].(*values.Object)
					x := fieldFloat(obj, "x")
					y := fieldFloat(obj, "y")
					z := fieldFloat(obj, "z")
					length := math.Sqrt(x*x + y*y + z*z)
					out := values.NewObject()
					if length == 0 {
						out.Fields.Set("x", values.Float(0))
						out.Fields.Set("y", values.Float(0))
						out.Fields.Set("z", values.Float(0))
						return out, nil
					}
					out.Fields.Set("x", values.Float(x/length))
					out.Fields.Set("y", values.Float(y/length))
					out.Fields.Set("z", values.Float(z/length))
					return out, nil
				},
			},
		},
	}
}

func fieldFloat(obj *values.Object, name string) float64 {
	v, _ := obj.Fields.Get(name)
	switch f := v.(type) {
	case values.Float:
		return float64(f)
	case values.Int:
		return float64(f)
	default:
		return 0
	}
}
