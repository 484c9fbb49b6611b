package natives

import (
	"math"

	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/values"
)

// mathModule is the fully-implemented native module of plain functions:
// pure, host-independent functions, unlike the stub modules which only
// record the shape of an external collaborator. The optimizer does not
// fold calls to it; they always run at evaluation time.
func mathModule() *Module {
	one := func(fn func(float64) float64) Fn {
		return func(args []values.Value) (values.Value, error) {
			f, err := floatArg(args, 0)
			if err != nil {
				return nil, err
			}
			return values.Float(fn(f)), nil
		}
	}
	return &Module{
		Name: "math",
		Entries: map[string]Entry{
			"sqrt":  {Fn: one(math.Sqrt), Arity: 1, Pure: true, Params: []values.Type{values.TypeFloat}, Return: values.TypeFloat},
			"abs":   {Fn: one(math.Abs), Arity: 1, Pure: true, Params: []values.Type{values.TypeFloat}, Return: values.TypeFloat},
			"floor": {Fn: one(math.Floor), Arity: 1, Pure: true, Params: []values.Type{values.TypeFloat}, Return: values.TypeFloat},
			"ceil":  {Fn: one(math.Ceil), Arity: 1, Pure: true, Params: []values.Type{values.TypeFloat}, Return: values.TypeFloat},
			"pow": {
				Fn: func(args []values.Value) (values.Value, error) {
					base, err := floatArg(args, 0)
					if err != nil {
						return nil, err
					}
					exp, err := floatArg(args, 1)
					if err != nil {
						return nil, err
					}
					return values.Float(math.Pow(base, exp)), nil
				},
				Arity: 2, Pure: true,
				Params: []values.Type{values.TypeFloat, values.TypeFloat}, Return: values.TypeFloat,
			},
			"min": {
				Fn: func(args []values.Value) (values.Value, error) {
					a, err := floatArg(args, 0)
					if err != nil {
						return nil, err
					}
					b, err := floatArg(args, 1)
					if err != nil {
						return nil, err
					}
					return values.Float(math.Min(a, b)), nil
				},
				Arity: 2, Pure: true,
				Params: []values.Type{values.TypeFloat, values.TypeFloat}, Return: values.TypeFloat,
			},
			"max": {
				Fn: func(args []values.Value) (values.Value, error) {
					a, err := floatArg(args, 0)
					if err != nil {
						return nil, err
					}
					b, err := floatArg(args, 1)
					if err != nil {
						return nil, err
					}
					return values.Float(math.Max(a, b)), nil
				},
				Arity: 2, Pure: true,
				Params: []values.Type{values.TypeFloat, values.TypeFloat}, Return: values.TypeFloat,
			},
		},
	}
}

func floatArg(args []values.Value, i int) (float64, error) {
	if i >= len(args) {
		return 0, faults.New(faults.Arity, "missing argument %d", i)
	}
	switch v := args[i].(type) {
	case values.Float:
		return float64(v), nil
	case values.Int:
		return float64(v), nil
	default:
		return 0, faults.New(faults.FFIType, "argument %d must be numeric, got %s", i, v.Type())
	}
}
