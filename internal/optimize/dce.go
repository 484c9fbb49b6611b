package optimize

import "github.com/vesper-lang/vesper/internal/ast"

// dceNode applies one dead-code elimination rule to a node whose children
// have already been folded/rewritten.
func dceNode(n ast.Node) (ast.Node, bool) {
	switch t := n.(type) {
	case *ast.If:
		if cond, ok := t.Cond.(*ast.BoolLiteral); ok {
			if cond.Value {
				return t.Then, true
			}
			if t.Else != nil {
				return t.Else, true
			}
			return &ast.Block{}, true
		}
	case *ast.While:
		if cond, ok := t.Cond.(*ast.BoolLiteral); ok && !cond.Value {
			return &ast.Block{}, true
		}
	case *ast.Block:
		return dceBlock(t)
	}
	return n, false
}

// dceBlock drops statements after an unconditional Return, and collapses a
// block of pure, effect-free statements down to its last statement.
func dceBlock(b *ast.Block) (ast.Node, bool) {
	changed := false

	// Drop everything after the first Return: those statements are
	// unreachable.
	stmts := b.Statements
	for i, stmt := range stmts {
		if _, ok := stmt.(*ast.Return); ok && i < len(stmts)-1 {
			stmts = stmts[:i+1]
			changed = true
			break
		}
	}

	// Drop pure, effect-free non-last statements: their result is
	// discarded and they cannot be observed.
	if len(stmts) > 1 {
		kept := make([]ast.Node, 0, len(stmts))
		for i, stmt := range stmts {
			if i < len(stmts)-1 && isPureNoEffect(stmt) {
				changed = true
				continue
			}
			kept = append(kept, stmt)
		}
		stmts = kept
	}

	if !changed {
		return b, false
	}
	if len(stmts) == 1 {
		return stmts[0], true
	}
	return &ast.Block{Statements: stmts}, true
}

// isPureNoEffect reports whether evaluating n can be skipped entirely
// because it has no side effects, its result (if discarded) is
// unobservable, AND it is statically guaranteed not to fault. This is
// intentionally conservative in both directions: anything that can
// assign, call, print, or touch the host is never considered pure, and
// so is anything whose evaluation can raise a Fault (DivisionByZero,
// UndefinedName, IndexOutOfRange, MissingField, TypeMismatch, ...),
// since dropping a faulting statement would change the program's
// observable fault behavior, not just discard an unused value.
// Only scalar literals and literal aggregates built entirely from them
// are provably total, so this rule only ever recurses into those.
func isPureNoEffect(n ast.Node) bool {
	switch t := n.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.BoolLiteral, *ast.StringLiteral:
		return true
	case *ast.ArrayLiteral:
		for _, e := range t.Elements {
			if !isPureNoEffect(e) {
				return false
			}
		}
		return true
	case *ast.ObjectLiteral:
		for _, v := range t.Values {
			if !isPureNoEffect(v) {
				return false
			}
		}
		return true
	case *ast.Block:
		for _, s := range t.Statements {
			if !isPureNoEffect(s) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
