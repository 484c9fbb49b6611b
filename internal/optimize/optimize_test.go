package optimize_test

import (
	"testing"

	"github.com/vesper-lang/vesper/internal/astcodec"
	"github.com/vesper-lang/vesper/internal/optimize"
)

// TestConstantFoldingReducesNodeCount checks that Add(Mul(10,5),3) folds
// to a single IntLiteral(53), taking the tree from 5 nodes to 1.
func TestConstantFoldingReducesNodeCount(t *testing.T) {
	root, err := astcodec.Decode([]byte(`{"Add": [{"Mul": [{"IntLiteral": 10}, {"IntLiteral": 5}]}, {"IntLiteral": 3}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	before := optimize.CountNodes(root)
	if before != 5 {
		t.Fatalf("node count before = %d, want 5", before)
	}

	result, err := optimize.Optimize(root, optimize.Options{})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if result.Stats.NodesAfter != 1 {
		t.Fatalf("node count after = %d, want 1", result.Stats.NodesAfter)
	}

	encoded, err := astcodec.Encode(result.Tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(encoded) != `{"IntLiteral":53}` {
		t.Fatalf("folded document = %s, want {\"IntLiteral\":53}", encoded)
	}
}

// TestOptimizeIsIdempotent checks Optimize(Optimize(t)) == Optimize(t).
func TestOptimizeIsIdempotent(t *testing.T) {
	root, err := astcodec.Decode([]byte(`{"Block": [
		{"If": [{"BoolLiteral": false}, {"Print": {"StringLiteral": "A"}}, {"Print": {"StringLiteral": "B"}}]},
		{"Print": {"StringLiteral": "C"}}
	]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	first, err := optimize.Optimize(root, optimize.Options{})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	second, err := optimize.Optimize(first.Tree, optimize.Options{})
	if err != nil {
		t.Fatalf("Optimize (second pass): %v", err)
	}
	firstEncoded, err := astcodec.Encode(first.Tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	secondEncoded, err := astcodec.Encode(second.Tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(firstEncoded) != string(secondEncoded) {
		t.Fatalf("optimize is not idempotent: %s != %s", firstEncoded, secondEncoded)
	}
	if second.Stats.NodesAfter != first.Stats.NodesAfter {
		t.Fatalf("second pass changed node count: %d != %d", second.Stats.NodesAfter, first.Stats.NodesAfter)
	}
}

// TestDeadBranchElimination checks that If(false, A, B) collapses to B,
// dropping the unreachable then-branch from the tree entirely.
func TestDeadBranchElimination(t *testing.T) {
	root, err := astcodec.Decode([]byte(`{"If": [{"BoolLiteral": false}, {"Print": {"StringLiteral": "A"}}, {"Print": {"StringLiteral": "B"}}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result, err := optimize.Optimize(root, optimize.Options{})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	encoded, err := astcodec.Encode(result.Tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"Print":{"StringLiteral":"B"}}`
	if string(encoded) != want {
		t.Fatalf("optimized tree = %s, want %s", encoded, want)
	}
}

func TestDivisionByZeroIsNotFolded(t *testing.T) {
	root, err := astcodec.Decode([]byte(`{"Div": [{"IntLiteral": 1}, {"IntLiteral": 0}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result, err := optimize.Optimize(root, optimize.Options{})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if result.Stats.NodesAfter != 3 {
		t.Fatalf("a Div by a literal zero must survive folding unchanged, got %d nodes", result.Stats.NodesAfter)
	}
}

// TestDeadCodeEliminationPreservesFaultingStatements guards the
// eval(optimize(A)) == eval(A) invariant: a discarded, non-last Block
// statement that can fault at runtime (here, integer division by zero)
// must survive dead-code elimination rather than being silently dropped
// as "pure and effect-free".
func TestDeadCodeEliminationPreservesFaultingStatements(t *testing.T) {
	root, err := astcodec.Decode([]byte(`{"Block": [
		{"Div": [{"IntLiteral": 5}, {"IntLiteral": 0}]},
		{"IntLiteral": 1}
	]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result, err := optimize.Optimize(root, optimize.Options{})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	encoded, err := astcodec.Encode(result.Tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"Block":[{"Div":[{"IntLiteral":5},{"IntLiteral":0}]},{"IntLiteral":1}]}`
	if string(encoded) != want {
		t.Fatalf("a faulting non-last statement must not be eliminated, got %s, want %s", encoded, want)
	}
}

// TestDeadCodeEliminationDropsProvablyTotalLiterals checks the rule still
// fires for the case it's actually sound for: a discarded literal (or
// literal aggregate) that can never fault.
func TestDeadCodeEliminationDropsProvablyTotalLiterals(t *testing.T) {
	root, err := astcodec.Decode([]byte(`{"Block": [
		{"IntLiteral": 5},
		{"ArrayLiteral": [{"IntLiteral": 1}, {"IntLiteral": 2}]},
		{"IntLiteral": 9}
	]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result, err := optimize.Optimize(root, optimize.Options{})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	encoded, err := astcodec.Encode(result.Tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"IntLiteral":9}`
	if string(encoded) != want {
		t.Fatalf("discarded total literals must still be eliminated, got %s, want %s", encoded, want)
	}
}

func TestSkipOptionBypassesOptimization(t *testing.T) {
	root, err := astcodec.Decode([]byte(`{"Add": [{"IntLiteral": 1}, {"IntLiteral": 2}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	result, err := optimize.Optimize(root, optimize.Options{Skip: true})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if result.Stats.NodesAfter != result.Stats.NodesBefore {
		t.Fatalf("Skip=true must leave the tree untouched, got %d -> %d", result.Stats.NodesBefore, result.Stats.NodesAfter)
	}
}
