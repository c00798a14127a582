package rules

import "github.com/codewithboateng/scalint/internal/ir"

func init() {
	MustRegister(Rule{
		ID:       "no-catch-all-throwable",
		Category: ir.CategorySafety,
		Severity: ir.SeverityError,
		Summary:  "Catch clause matches the universal throwable supertype.",
		Docs:     "catching Throwable swallows fatal VM errors; match a NonFatal-filtered subtype instead.",
		Kinds:    []ir.Kind{ir.KindCatchClause},
		Eval:     evalNoCatchAllThrowable,
	})
}

var universalThrowables = map[string]bool{
	"Throwable":           true,
	"java.lang.Throwable": true,
	"scala.Throwable":     true,
}

func evalNoCatchAllThrowable(n *ir.Node, rctx *Context) []ir.Finding {
	t := n.ChildByRole("type")
	if t == nil || !universalThrowables[t.Attr("name")] {
		return nil
	}
	return []ir.Finding{{
		RuleID:  "no-catch-all-throwable",
		Loc:     rctx.Locate(n),
		Message: "catch clause matches " + t.Attr("name") + ", which covers fatal errors; catch NonFatal(_) instead",
	}}
}
