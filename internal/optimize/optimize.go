package optimize

import "github.com/vesper-lang/vesper/internal/ast"

// defaultMaxIterations bounds the fixed-point loop when folding and DCE
// keep finding new rewrites.
const defaultMaxIterations = 8

// Options configures one optimization pass.
type Options struct {
	MaxIterations int
	Policy        Policy
	Skip          bool // an explicit "skip" flag bypasses optimization entirely
}

// Stats reports the node-count reduction and iteration count of a pass, so
// callers (and tests asserting the node-count reduction) can observe the
// fixed-point and idempotency properties directly.
type Stats struct {
	NodesBefore int
	NodesAfter  int
	Iterations  int
}

// Result is the output of one Optimize call.
type Result struct {
	Tree        ast.Node
	Stats       Stats
	Diagnostics []Diagnostic
}

// Optimize runs constant folding and dead-code elimination to a fixed
// point (or Options.MaxIterations), then a single static type-inference
// pass over the result. It is idempotent: Optimize(Optimize(t)) produces
// the same tree as Optimize(t).
func Optimize(root ast.Node, opts Options) (*Result, error) {
	stats := Stats{NodesBefore: CountNodes(root)}

	if opts.Skip {
		return &Result{Tree: root, Stats: Stats{NodesBefore: stats.NodesBefore, NodesAfter: stats.NodesBefore}}, nil
	}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	tree := root
	for i := 0; i < maxIter; i++ {
		stats.Iterations++
		rewritten, changed := foldChildrenFirst(tree)
		tree = rewritten
		if !changed {
			break
		}
	}

	inference := Infer(tree, opts.Policy)
	stats.NodesAfter = CountNodes(tree)

	result := &Result{Tree: tree, Stats: stats, Diagnostics: inference.Diagnostics}
	if opts.Policy == PolicyStrict && len(inference.Diagnostics) > 0 {
		return result, &StrictPolicyError{Diagnostics: inference.Diagnostics}
	}
	return result, nil
}

// CountNodes returns the total number of nodes in the tree, used for
// node-count assertions and for Stats.
func CountNodes(n ast.Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, c := range n.Children() {
		count += CountNodes(c)
	}
	return count
}

// StrictPolicyError is returned by Optimize when PolicyStrict is active and
// the inference pass found at least one type-mismatch diagnostic.
type StrictPolicyError struct {
	Diagnostics []Diagnostic
}

func (e *StrictPolicyError) Error() string {
	if len(e.Diagnostics) == 0 {
		return "optimize: strict type policy violated"
	}
	return "optimize: strict type policy violated: " + e.Diagnostics[0].String()
}
