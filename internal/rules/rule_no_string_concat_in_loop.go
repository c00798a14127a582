package rules

import "github.com/codewithboateng/scalint/internal/ir"

func init() {
	MustRegister(Rule{
		ID:       "no-string-concat-in-loop",
		Category: ir.CategoryPerformance,
		Severity: ir.SeverityInfo,
		Summary:  "String accumulated by concatenation inside a loop.",
		Docs:     "each += copies the whole string; use a StringBuilder or mkString.",
		Kinds:    []ir.Kind{ir.KindAssign},
		Eval:     evalNoStringConcatInLoop,
	})
}

func evalNoStringConcatInLoop(n *ir.Node, rctx *Context) []ir.Finding {
	if n.Attr("op") != "+=" || n.Attr("type") != "String" {
		return nil
	}
	if !rctx.Within(ir.KindLoop) {
		return nil
	}
	return []ir.Finding{{
		RuleID:  "no-string-concat-in-loop",
		Loc:     rctx.Locate(n),
		Message: "string " + n.Attr("name") + " grows by concatenation inside a loop; use a StringBuilder",
	}}
}
