package eval_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vesper-lang/vesper/internal/astcodec"
	"github.com/vesper-lang/vesper/internal/eval"
	"github.com/vesper-lang/vesper/internal/natives"
	"github.com/vesper-lang/vesper/internal/values"
)

func mustEval(t *testing.T, doc string) (values.Value, *bytes.Buffer) {
	t.Helper()
	root, err := astcodec.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	var out bytes.Buffer
	ev := eval.New(natives.NewDefaultRegistry(), natives.NewHandleRegistry(), nil, &out)
	v, flt := ev.Run(root, "<test>")
	if flt != nil {
		t.Fatalf("Run: %v", flt)
	}
	return v, &out
}

// TestRecursiveFactorial exercises recursive Call/FnDef, If-as-guard, and
// arithmetic: fact(5) == 120.
func TestRecursiveFactorial(t *testing.T) {
	doc := `{"Block": [
		{"FnDef": ["fact", ["n"], {"If": [
			{"Lt": [{"Identifier": "n"}, {"IntLiteral": 2}]},
			{"Return": {"IntLiteral": 1}},
			{"Return": {"Mul": [{"Identifier": "n"}, {"Call": ["fact", [{"Sub": [{"Identifier": "n"}, {"IntLiteral": 1}]}]]}]}}
		]}]},
		{"Call": ["fact", [{"IntLiteral": 5}]]}
	]}`
	v, _ := mustEval(t, doc)
	if v != values.Int(120) {
		t.Fatalf("fact(5) = %v, want 120", v)
	}
}

// TestClosureCapturesByReference builds a counter closure: makeCounter
// returns an increment function capturing its own call frame's "count"
// binding, and repeated calls through that captured reference observe each
// other's mutations rather than a value snapshot.
func TestClosureCapturesByReference(t *testing.T) {
	doc := `{"Block": [
		{"FnDef": ["makeCounter", [], {"Block": [
			{"Assign": ["count", {"IntLiteral": 0}]},
			{"FnDef": ["increment", [], {"Block": [
				{"Assign": ["count", {"Add": [{"Identifier": "count"}, {"IntLiteral": 1}]}]},
				{"Return": {"Identifier": "count"}}
			]}]},
			{"Return": {"Identifier": "increment"}}
		]}]},
		{"Assign": ["counterFn", {"Call": ["makeCounter", []]}]},
		{"Call": ["counterFn", []]},
		{"Call": ["counterFn", []]},
		{"Call": ["counterFn", []]}
	]}`
	v, _ := mustEval(t, doc)
	if v != values.Int(3) {
		t.Fatalf("third call through the captured closure = %v, want 3", v)
	}
}

func TestDivisionByZeroFaults(t *testing.T) {
	root, err := astcodec.Decode([]byte(`{"Div": [{"IntLiteral": 1}, {"IntLiteral": 0}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ev := eval.New(natives.NewDefaultRegistry(), natives.NewHandleRegistry(), nil, &bytes.Buffer{})
	_, flt := ev.Run(root, "<test>")
	if flt == nil {
		t.Fatal("expected a DivisionByZero fault")
	}
	if flt.Tag != "DivisionByZero" {
		t.Fatalf("fault tag = %s, want DivisionByZero", flt.Tag)
	}
}

func TestArrayIndexOutOfRangeFaults(t *testing.T) {
	doc := `{"Block": [
		{"Assign": ["xs", {"ArrayLiteral": [{"IntLiteral": 1}]}]},
		{"ArrayGet": ["xs", {"IntLiteral": 5}]}
	]}`
	root, err := astcodec.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ev := eval.New(natives.NewDefaultRegistry(), natives.NewHandleRegistry(), nil, &bytes.Buffer{})
	_, flt := ev.Run(root, "<test>")
	if flt == nil || flt.Tag != "IndexOutOfRange" {
		t.Fatalf("expected IndexOutOfRange, got %v", flt)
	}
}

// TestArraySetAtLengthAppends exercises the documented ArraySet edge case:
// setting exactly at len(Elements) appends rather than faulting, while any
// higher index is still out of range.
func TestArraySetAtLengthAppends(t *testing.T) {
	doc := `{"Block": [
		{"Assign": ["xs", {"ArrayLiteral": [{"IntLiteral": 1}, {"IntLiteral": 2}]}]},
		{"ArraySet": ["xs", {"IntLiteral": 2}, {"IntLiteral": 3}]},
		{"ArrayGet": ["xs", {"IntLiteral": 2}]}
	]}`
	v, _ := mustEval(t, doc)
	if v != values.Int(3) {
		t.Fatalf("ArrayGet after append-via-ArraySet = %v, want 3", v)
	}
}

func TestArraySetPastLengthFaults(t *testing.T) {
	doc := `{"Block": [
		{"Assign": ["xs", {"ArrayLiteral": [{"IntLiteral": 1}]}]},
		{"ArraySet": ["xs", {"IntLiteral": 5}, {"IntLiteral": 9}]}
	]}`
	root, err := astcodec.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ev := eval.New(natives.NewDefaultRegistry(), natives.NewHandleRegistry(), nil, &bytes.Buffer{})
	_, flt := ev.Run(root, "<test>")
	if flt == nil || flt.Tag != "IndexOutOfRange" {
		t.Fatalf("expected IndexOutOfRange, got %v", flt)
	}
}

func TestPrintWritesCanonicalRendering(t *testing.T) {
	_, out := mustEval(t, `{"Print": {"FloatLiteral": 2.0}}`)
	if got := strings.TrimSpace(out.String()); got != "2.0" {
		t.Fatalf("printed %q, want \"2.0\"", got)
	}
}

func TestStubNativeModuleFaultsUnimplemented(t *testing.T) {
	root, err := astcodec.Decode([]byte(`{"NativeCall": ["audio.play", []]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ev := eval.New(natives.NewDefaultRegistry(), natives.NewHandleRegistry(), nil, &bytes.Buffer{})
	_, flt := ev.Run(root, "<test>")
	if flt == nil || flt.Tag != "NativeError" {
		t.Fatalf("expected NativeError from the audio stub, got %v", flt)
	}
}
