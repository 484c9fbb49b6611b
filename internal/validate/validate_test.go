package validate_test

import (
	"fmt"
	"testing"

	"github.com/vesper-lang/vesper/internal/astcodec"
	"github.com/vesper-lang/vesper/internal/faults"
	"github.com/vesper-lang/vesper/internal/validate"
)

// fakeFS lets a test wire up an in-memory set of "files" resolved by their
// cleaned, baseDir-joined path, mirroring what a real FileReader would see.
type fakeFS map[string]string

func (fs fakeFS) read(path string) ([]byte, error) {
	doc, ok := fs[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return []byte(doc), nil
}

// TestImportCycleDetected checks cycle detection: the root document imports a.json,
// which imports b.json, which imports a.json back, forming a 2-cycle that
// the grey-set DFS must catch on the re-entry rather than recursing
// forever.
func TestImportCycleDetected(t *testing.T) {
	fs := fakeFS{
		"a.json": `{"Import": "b.json"}`,
		"b.json": `{"Import": "a.json"}`,
	}
	root, err := astcodec.Decode([]byte(`{"Import": "a.json"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result := validate.Validate(root, ".", fs.read)
	if result.OK() {
		t.Fatal("expected an ImportCycle fault, got none")
	}
	found := false
	for _, f := range result.Faults {
		if f.Tag == faults.ImportCycle {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an ImportCycle fault among %v", result.Faults)
	}
}

// TestImportDiamondIsNotACycle: root imports both a and b, and a and b each
// import c. c is visited twice (once via a, once via b) but never while
// grey, so this must validate cleanly.
func TestImportDiamondIsNotACycle(t *testing.T) {
	fs := fakeFS{
		"a.json": `{"Import": "c.json"}`,
		"b.json": `{"Import": "c.json"}`,
		"c.json": `{"Print": {"StringLiteral": "leaf"}}`,
	}
	root, err := astcodec.Decode([]byte(`{"Block": [{"Import": "a.json"}, {"Import": "b.json"}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result := validate.Validate(root, ".", fs.read)
	if !result.OK() {
		t.Fatalf("diamond import graph should validate cleanly, got faults: %v", result.Faults)
	}
}

func TestImportNotFoundFaults(t *testing.T) {
	fs := fakeFS{}
	root, err := astcodec.Decode([]byte(`{"Import": "missing.json"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result := validate.Validate(root, ".", fs.read)
	if result.OK() {
		t.Fatal("expected an ImportNotFound fault")
	}
	if result.Faults[0].Tag != faults.ImportNotFound {
		t.Fatalf("fault tag = %s, want ImportNotFound", result.Faults[0].Tag)
	}
}

func TestStructuralFaultsAccumulateAcrossTheWholeTree(t *testing.T) {
	// Two independent structural problems: an empty Identifier name and an
	// empty Call name. Both must be reported in one pass, not just the first.
	doc := `{"Block": [
		{"Identifier": ""},
		{"Call": ["", []]}
	]}`
	root, err := astcodec.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result := validate.Validate(root, ".", fakeFS{}.read)
	if len(result.Faults) < 2 {
		t.Fatalf("expected at least 2 structural faults accumulated in one pass, got %d: %v", len(result.Faults), result.Faults)
	}
}

func TestArrayUsageWithoutAssignWarns(t *testing.T) {
	doc := `{"ArrayGet": ["xs", {"IntLiteral": 0}]}`
	root, err := astcodec.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result := validate.Validate(root, ".", fakeFS{}.read)
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning about referencing an unassigned array name")
	}
}
