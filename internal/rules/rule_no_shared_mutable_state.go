package rules

import "github.com/codewithboateng/scalint/internal/ir"

func init() {
	MustRegister(Rule{
		ID:       "no-shared-mutable-state",
		Category: ir.CategorySafety,
		Severity: ir.SeverityWarning,
		Summary:  "Mutable binding at object, trait or file scope.",
		Docs:     "a var outside any function is shared state visible to every caller and every thread.",
		Kinds:    []ir.Kind{ir.KindVarDecl},
		Eval:     evalNoSharedMutableState,
	})
}

func evalNoSharedMutableState(n *ir.Node, rctx *Context) []ir.Finding {
	if rctx.Within(ir.KindFuncDecl) {
		return nil
	}
	return []ir.Finding{{
		RuleID:  "no-shared-mutable-state",
		Loc:     rctx.Locate(n),
		Message: "mutable binding " + n.Attr("name") + " is declared outside any function and is shared state; make it a val or move it into a function",
	}}
}
