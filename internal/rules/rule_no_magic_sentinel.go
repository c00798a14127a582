package rules

import "github.com/codewithboateng/scalint/internal/ir"

func init() {
	MustRegister(Rule{
		ID:       "no-magic-sentinel",
		Category: ir.CategoryStyle,
		Severity: ir.SeverityInfo,
		Summary:  "Literal sentinel as the or-else fallback where the declared type stays optional.",
		Docs:     "getOrElse(-1) re-encodes absence as a magic value; keep the Option if the signature allows it.",
		Kinds:    []ir.Kind{ir.KindMethodCall},
		Eval:     evalNoMagicSentinel,
	})
}

func evalNoMagicSentinel(n *ir.Node, rctx *Context) []ir.Finding {
	switch n.Attr("name") {
	case "getOrElse", "orElse":
	default:
		return nil
	}
	d := n.ChildByRole("default")
	if d == nil || (d.Kind != ir.KindNumberLit && d.Kind != ir.KindStringLit) {
		return nil
	}
	fn := rctx.Nearest(ir.KindFuncDecl)
	if fn == nil {
		return nil
	}
	rt := fn.ChildByRole("type")
	if rt == nil || rt.Attr("optional") != "true" {
		return nil
	}
	return []ir.Finding{{
		RuleID:  "no-magic-sentinel",
		Loc:     rctx.Locate(n),
		Message: "literal " + d.Attr("value") + " used as or-else fallback although the declared return type is optional; return the Option",
	}}
}
