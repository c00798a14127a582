package rules

import "github.com/codewithboateng/scalint/internal/ir"

func init() {
	MustRegister(Rule{
		ID:       "no-var-in-case-class",
		Category: ir.CategoryCorrectness,
		Severity: ir.SeverityError,
		Summary:  "Mutable binding among the primary constructor parameters of a case class.",
		Docs:     "case classes derive equality and hashing from their fields; a var field breaks both.",
		Kinds:    []ir.Kind{ir.KindCaseClassDecl},
		Eval:     evalNoVarInCaseClass,
	})
}

func evalNoVarInCaseClass(n *ir.Node, rctx *Context) []ir.Finding {
	var out []ir.Finding
	class := n.Attr("name")
	for _, p := range n.ChildrenByRole("param") {
		if p.Attr("binding") != "var" {
			continue
		}
		out = append(out, ir.Finding{
			RuleID:  "no-var-in-case-class",
			Loc:     rctx.Locate(p),
			Message: "case class " + class + " declares mutable field " + p.Attr("name") + "; make it a val",
		})
	}
	return out
}
