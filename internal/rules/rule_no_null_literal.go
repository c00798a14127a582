package rules

import "github.com/codewithboateng/scalint/internal/ir"

func init() {
	MustRegister(Rule{
		ID:       "no-null-literal",
		Category: ir.CategorySafety,
		Severity: ir.SeverityWarning,
		Summary:  "Null literal outside an external interop boundary.",
		Docs:     "model absence with Option; null is only defensible when a non-null-safe API demands it.",
		Kinds:    []ir.Kind{ir.KindNullLiteral},
		Eval:     evalNoNullLiteral,
	})
}

func evalNoNullLiteral(n *ir.Node, rctx *Context) []ir.Finding {
	// The parser marks calls into non-null-safe external APIs; nulls fed
	// into those positions are accepted interop.
	for _, a := range rctx.Ancestors() {
		if a.Attr("interop") == "true" {
			return nil
		}
	}
	return []ir.Finding{{
		RuleID:  "no-null-literal",
		Loc:     rctx.Locate(n),
		Message: "null literal; model absence with Option",
	}}
}
