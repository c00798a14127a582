package rules

import "github.com/codewithboateng/scalint/internal/ir"

func init() {
	MustRegister(Rule{
		ID:       "no-unsafe-cast",
		Category: ir.CategorySafety,
		Severity: ir.SeverityWarning,
		Summary:  "Cast or instance check against the universal top type.",
		Docs:     "isInstanceOf/asInstanceOf on Any defeats the type checker; match on a sealed hierarchy.",
		Kinds:    []ir.Kind{ir.KindInstanceCheck, ir.KindCast},
		Eval:     evalNoUnsafeCast,
	})
}

var topTypes = map[string]bool{
	"Any":              true,
	"AnyRef":           true,
	"Object":           true,
	"java.lang.Object": true,
}

func evalNoUnsafeCast(n *ir.Node, rctx *Context) []ir.Finding {
	t := n.ChildByRole("type")
	if t == nil || !topTypes[t.Attr("name")] {
		return nil
	}
	op := "cast"
	if n.Kind == ir.KindInstanceCheck {
		op = "instance check"
	}
	return []ir.Finding{{
		RuleID:  "no-unsafe-cast",
		Loc:     rctx.Locate(n),
		Message: op + " targets universal type " + t.Attr("name") + "; pattern match on a sealed hierarchy instead",
	}}
}
