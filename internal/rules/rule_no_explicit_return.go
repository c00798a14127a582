package rules

import "github.com/codewithboateng/scalint/internal/ir"

func init() {
	MustRegister(Rule{
		ID:       "no-explicit-return",
		Category: ir.CategoryStyle,
		Severity: ir.SeverityWarning,
		Summary:  "Explicit return outside the tail position of a function body.",
		Docs:     "return breaks expression-oriented control flow and behaves surprisingly inside closures.",
		Kinds:    []ir.Kind{ir.KindReturn},
		Eval:     evalNoExplicitReturn,
	})
}

// A Return is tolerated only as the final statement of the body block of the
// outermost function; anywhere else it is an early exit.
func evalNoExplicitReturn(n *ir.Node, rctx *Context) []ir.Finding {
	if tailOfOutermostFunc(n, rctx) {
		return nil
	}
	fn := rctx.Nearest(ir.KindFuncDecl)
	name := fn.Attr("name")
	if name == "" {
		name = "anonymous function"
	}
	return []ir.Finding{{
		RuleID:  "no-explicit-return",
		Loc:     rctx.Locate(n),
		Message: "explicit return in " + name + " is not in tail position; rewrite as an expression",
	}}
}

func tailOfOutermostFunc(n *ir.Node, rctx *Context) bool {
	anc := rctx.Ancestors()
	if len(anc) < 2 {
		return false
	}
	parent := anc[len(anc)-1]
	grand := anc[len(anc)-2]
	if parent.Kind != ir.KindBlock || grand.Kind != ir.KindFuncDecl {
		return false
	}
	if grand.ChildByRole("body") != parent || parent.LastChild() != n {
		return false
	}
	// Nested functions never get a tail-return allowance.
	for _, a := range anc[:len(anc)-2] {
		if a.Kind == ir.KindFuncDecl {
			return false
		}
	}
	return true
}
