package rules

import "github.com/codewithboateng/scalint/internal/ir"

func init() {
	MustRegister(Rule{
		ID:       "no-abstract-stored-member",
		Category: ir.CategoryCorrectness,
		Severity: ir.SeverityWarning,
		Summary:  "Abstract member declared as a stored binding rather than a def.",
		Docs:     "abstract vals interact badly with initialization order; a def leaves storage to implementors.",
		Kinds:    []ir.Kind{ir.KindAbstractMember},
		Eval:     evalNoAbstractStoredMember,
	})
}

func evalNoAbstractStoredMember(n *ir.Node, rctx *Context) []ir.Finding {
	binding := n.Attr("binding")
	switch binding {
	case "val", "var", "lazy":
	default:
		return nil
	}
	return []ir.Finding{{
		RuleID:  "no-abstract-stored-member",
		Loc:     rctx.Locate(n),
		Message: "abstract member " + n.Attr("name") + " is declared as stored " + binding + "; declare it as a def",
	}}
}
