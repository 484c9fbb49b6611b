package values

import "math"

// Equal implements Eq's deep structural equality. NaN never equals
// anything, including itself; Array/Object equality is element-wise and
// order-sensitive for arrays, key/value-sensitive for objects.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Int:
		switch bv := b.(type) {
		case Int:
			return av == bv
		case Float:
			return Float(av) == bv
		}
		return false
	case Float:
		if math.IsNaN(float64(av)) {
			return false
		}
		switch bv := b.(type) {
		case Int:
			return av == Float(bv)
		case Float:
			if math.IsNaN(float64(bv)) {
				return false
			}
			return av == bv
		}
		return false
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Void:
		_, ok := b.(Void)
		return ok
	case Handle:
		bv, ok := b.(Handle)
		return ok && av == bv
	case *Array:
		bv, ok := b.(*Array)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Fields.Len() != bv.Fields.Len() {
			return false
		}
		equal := true
		av.Fields.Each(func(key string, value Value) bool {
			other, present := bv.Fields.Get(key)
			if !present || !Equal(value, other) {
				equal = false
				return false
			}
			return true
		})
		return equal
	case *Function:
		bv, ok := b.(*Function)
		return ok && av == bv
	}
	return false
}

// Less implements Lt, which is defined only for numeric pairs and string
// pairs (lexicographic on byte sequence). NaN comparisons are always false.
func Less(a, b Value) (bool, bool) {
	switch av := a.(type) {
	case Int:
		switch bv := b.(type) {
		case Int:
			return av < bv, true
		case Float:
			return Float(av) < bv, true
		}
	case Float:
		if math.IsNaN(float64(av)) {
			return false, true
		}
		switch bv := b.(type) {
		case Int:
			return av < Float(bv), true
		case Float:
			if math.IsNaN(float64(bv)) {
				return false, true
			}
			return av < bv, true
		}
	case String:
		if bv, ok := b.(String); ok {
			return av < bv, true
		}
	}
	return false, false
}
