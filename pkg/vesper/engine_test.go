package vesper_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vesper-lang/vesper/internal/config"
	"github.com/vesper-lang/vesper/internal/values"
	"github.com/vesper-lang/vesper/pkg/vesper"
)

func TestEvalRunsAnEndToEndDocument(t *testing.T) {
	engine := vesper.New()
	var out bytes.Buffer
	engine.SetOutput(&out)

	doc := []byte(`{"Block": [
		{"Print": {"Add": [{"IntLiteral": 2}, {"IntLiteral": 3}]}},
		{"Print": {"StringLiteral": "done"}}
	]}`)
	_, flt := engine.Eval(doc)
	if flt != nil {
		t.Fatalf("Eval: %v", flt)
	}
	got := strings.TrimSpace(out.String())
	want := "5\ndone"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestEvalSurfacesValidationFaultsBeforeEvaluating(t *testing.T) {
	engine := vesper.New()
	// An Import that cannot be resolved: this fails validation rather than
	// reaching the evaluator, so the fault tag must be ImportNotFound, not
	// a generic runtime error.
	_, flt := engine.Eval([]byte(`{"Import": "nope.json"}`))
	if flt == nil {
		t.Fatal("expected a validation fault")
	}
	if flt.Tag != "ImportNotFound" {
		t.Fatalf("fault tag = %s, want ImportNotFound", flt.Tag)
	}
}

func TestRunResolvesImportsRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	libPath := filepath.Join(dir, "lib.json")
	if err := os.WriteFile(libPath, []byte(`{"Assign": ["greeting", {"StringLiteral": "hi from lib"}]}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	mainPath := filepath.Join(dir, "main.json")
	mainDoc := `{"Block": [
		{"Import": "lib.json"},
		{"Print": {"Identifier": "greeting"}}
	]}`
	if err := os.WriteFile(mainPath, []byte(mainDoc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	engine := vesper.New()
	var out bytes.Buffer
	engine.SetOutput(&out)
	_, flt := engine.Run(mainPath)
	if flt != nil {
		t.Fatalf("Run: %v", flt)
	}
	if got := strings.TrimSpace(out.String()); got != "hi from lib" {
		t.Fatalf("output = %q, want %q", got, "hi from lib")
	}
}

// TestRunResolvesNestedImportsRelativeToTheirOwnFile exercises a second
// level of Import: main.json (in dir) imports sub/b.json, which in turn
// imports c.json; c.json must resolve relative to sub/, the directory of
// the file that declared it, not relative to dir or the process's cwd.
func TestRunResolvesNestedImportsRelativeToTheirOwnFile(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, "sub")
	if err := os.Mkdir(subDir, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	cPath := filepath.Join(subDir, "c.json")
	if err := os.WriteFile(cPath, []byte(`{"Assign": ["greeting", {"StringLiteral": "hi from c"}]}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	bPath := filepath.Join(subDir, "b.json")
	if err := os.WriteFile(bPath, []byte(`{"Import": "c.json"}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	mainPath := filepath.Join(dir, "main.json")
	mainDoc := `{"Block": [
		{"Import": "sub/b.json"},
		{"Print": {"Identifier": "greeting"}}
	]}`
	if err := os.WriteFile(mainPath, []byte(mainDoc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	engine := vesper.New()
	var out bytes.Buffer
	engine.SetOutput(&out)
	_, flt := engine.Run(mainPath)
	if flt != nil {
		t.Fatalf("Run: %v", flt)
	}
	if got := strings.TrimSpace(out.String()); got != "hi from c" {
		t.Fatalf("output = %q, want %q", got, "hi from c")
	}
}

func TestRegisterFunctionExtendsTheDefaultRegistry(t *testing.T) {
	engine := vesper.New()
	engine.RegisterFunction("custom", "double", 1, true, func(args []values.Value) (values.Value, error) {
		i := args[0].(values.Int)
		return values.Int(i * 2), nil
	})

	var out bytes.Buffer
	engine.SetOutput(&out)
	_, flt := engine.Eval([]byte(`{"Print": {"NativeCall": ["custom.double", [{"IntLiteral": 21}]]}}`))
	if flt != nil {
		t.Fatalf("Eval: %v", flt)
	}
	if got := strings.TrimSpace(out.String()); got != "42" {
		t.Fatalf("output = %q, want 42", got)
	}
}

func TestNativeModuleAllowlistRejectsModulesNotListed(t *testing.T) {
	cfg := config.Default()
	cfg.NativeModules = []string{"vector"} // math is deliberately left out
	engine := vesper.NewWithConfig(cfg)

	var out bytes.Buffer
	engine.SetOutput(&out)
	_, flt := engine.Eval([]byte(`{"NativeCall": ["math.sqrt", [{"FloatLiteral": 4.0}]]}`))
	if flt == nil {
		t.Fatal("expected a NativeError: math is not in the configured allowlist")
	}
	if flt.Tag != "NativeError" {
		t.Fatalf("fault tag = %s, want NativeError", flt.Tag)
	}
}

func TestCheckReportsWithoutEvaluating(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.json")
	if err := os.WriteFile(path, []byte(`{"ArrayGet": ["xs", {"IntLiteral": 0}]}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	engine := vesper.New()
	result, err := engine.Check(path)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !result.OK() {
		t.Fatalf("expected Check to pass structurally, got faults: %v", result.Faults)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning about the unassigned array name")
	}
}

func TestDumpASTRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.json")
	source := `{"IntLiteral":7}`
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	engine := vesper.New()
	out, err := engine.DumpAST(path)
	if err != nil {
		t.Fatalf("DumpAST: %v", err)
	}
	if string(out) != source {
		t.Fatalf("DumpAST = %s, want %s", out, source)
	}
}

// TestRecursiveFactorialPrints runs the canonical recursive-factorial
// document end to end through decode, optimize, and evaluate: f(10) prints
// 3628800.
func TestRecursiveFactorialPrints(t *testing.T) {
	engine := vesper.New()
	var out bytes.Buffer
	engine.SetOutput(&out)

	doc := []byte(`{"Block": [
		{"FnDef": ["f", ["n"], {"If": [
			{"Lt": [{"Identifier": "n"}, {"IntLiteral": 2}]},
			{"IntLiteral": 1},
			{"Mul": [{"Identifier": "n"}, {"Call": ["f", [{"Sub": [{"Identifier": "n"}, {"IntLiteral": 1}]}]]}]}
		]}]},
		{"Print": {"Call": ["f", [{"IntLiteral": 10}]]}}
	]}`)
	if _, flt := engine.Eval(doc); flt != nil {
		t.Fatalf("Eval: %v", flt)
	}
	if got := strings.TrimSpace(out.String()); got != "3628800" {
		t.Fatalf("output = %q, want 3628800", got)
	}
}

// TestClosureSeesLaterAssignment pins the closure-over-frame semantics: g
// captures the frame chain, not a value snapshot, so reassigning x after g
// is defined is visible when g is finally called.
func TestClosureSeesLaterAssignment(t *testing.T) {
	engine := vesper.New()
	var out bytes.Buffer
	engine.SetOutput(&out)

	doc := []byte(`{"Block": [
		{"Assign": ["x", {"IntLiteral": 10}]},
		{"FnDef": ["g", [], {"Identifier": "x"}]},
		{"Assign": ["x", {"IntLiteral": 20}]},
		{"Print": {"Call": ["g", []]}}
	]}`)
	if _, flt := engine.Eval(doc); flt != nil {
		t.Fatalf("Eval: %v", flt)
	}
	if got := strings.TrimSpace(out.String()); got != "20" {
		t.Fatalf("output = %q, want 20 (closures capture the frame chain, not values)", got)
	}
}

// TestExternStructRoundTrip drives the FFI bridge from a document: an
// ExternCall to vector.normalize unpacks the {x,y,z} aggregate, normalizes,
// repacks, and PropertyGet reads the x component back out.
func TestExternStructRoundTrip(t *testing.T) {
	engine := vesper.New()
	var out bytes.Buffer
	engine.SetOutput(&out)

	doc := []byte(`{"Print": {"PropertyGet": [
		{"ExternCall": ["vector", "normalize", [{"ObjectLiteral": {
			"x": {"FloatLiteral": 3.0},
			"y": {"FloatLiteral": 4.0},
			"z": {"FloatLiteral": 0.0}
		}}]]},
		"x"
	]}}`)
	if _, flt := engine.Eval(doc); flt != nil {
		t.Fatalf("Eval: %v", flt)
	}
	if got := strings.TrimSpace(out.String()); got != "0.6" {
		t.Fatalf("output = %q, want 0.6", got)
	}
}

// TestDeadCodeEliminationPreservesObservableOutput evaluates the same
// document with and without the optimizer: both runs must print exactly
// B then C, whether the dead then-branch was eliminated up front or merely
// never taken.
func TestDeadCodeEliminationPreservesObservableOutput(t *testing.T) {
	doc := []byte(`{"Block": [
		{"If": [{"BoolLiteral": false}, {"Print": {"StringLiteral": "A"}}, {"Print": {"StringLiteral": "B"}}]},
		{"Print": {"StringLiteral": "C"}}
	]}`)

	run := func(skip bool) string {
		cfg := config.Default()
		cfg.SkipOptimize = skip
		engine := vesper.NewWithConfig(cfg)
		var out bytes.Buffer
		engine.SetOutput(&out)
		if _, flt := engine.Eval(doc); flt != nil {
			t.Fatalf("Eval(skip=%v): %v", skip, flt)
		}
		return out.String()
	}

	optimized := run(false)
	unoptimized := run(true)
	if optimized != unoptimized {
		t.Fatalf("optimizer changed observable output: %q != %q", optimized, unoptimized)
	}
	if strings.TrimSpace(optimized) != "B\nC" {
		t.Fatalf("output = %q, want B then C", optimized)
	}
}

// TestRuntimeFaultCarriesNodePath checks that a fault surfacing from deep
// inside the tree reports the breadcrumb from the root down to the
// offending node.
func TestRuntimeFaultCarriesNodePath(t *testing.T) {
	engine := vesper.New()
	var out bytes.Buffer
	engine.SetOutput(&out)

	doc := []byte(`{"Block": [{"Print": {"Div": [{"IntLiteral": 1}, {"Sub": [{"IntLiteral": 2}, {"IntLiteral": 2}]}]}}]}`)
	_, flt := engine.Eval(doc)
	if flt == nil {
		t.Fatal("expected a DivisionByZero fault")
	}
	if flt.Tag != "DivisionByZero" {
		t.Fatalf("fault tag = %s, want DivisionByZero", flt.Tag)
	}
	if len(flt.Path) == 0 || flt.Path[0] != "Block" {
		t.Fatalf("fault path = %v, want a breadcrumb starting at Block", flt.Path)
	}
}
