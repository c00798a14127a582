package rules

import "github.com/codewithboateng/scalint/internal/ir"

func init() {
	MustRegister(Rule{
		ID:       "no-mutable-loop-accumulation",
		Category: ir.CategoryStyle,
		Severity: ir.SeverityWarning,
		Summary:  "Mutable binding declared outside a loop is reassigned inside its body.",
		Docs:     "accumulate with a fold or recursion instead of mutating an outer var.",
		Kinds:    []ir.Kind{ir.KindLoop},
		Eval:     evalNoMutableLoopAccumulation,
	})
}

func evalNoMutableLoopAccumulation(n *ir.Node, rctx *Context) []ir.Finding {
	body := n.ChildByRole("body")
	if body == nil {
		return nil
	}

	// Names of mutable bindings visible from outside the loop: vars declared
	// directly in any enclosing block.
	outer := map[string]bool{}
	for _, a := range rctx.Ancestors() {
		if a.Kind != ir.KindBlock {
			continue
		}
		for _, c := range a.Children {
			if c.Node.Kind == ir.KindVarDecl {
				if name := c.Node.Attr("name"); name != "" {
					outer[name] = true
				}
			}
		}
	}
	if len(outer) == 0 {
		return nil
	}

	var out []ir.Finding
	var visit func(node *ir.Node)
	visit = func(node *ir.Node) {
		// A nested function captures its own scope; assignments there are
		// the closure's business, not this loop's.
		if node.Kind == ir.KindFuncDecl {
			return
		}
		if node.Kind == ir.KindAssign {
			if name := node.Attr("name"); outer[name] {
				out = append(out, ir.Finding{
					RuleID:  "no-mutable-loop-accumulation",
					Loc:     rctx.Locate(node),
					Message: "mutable binding " + name + " declared outside the loop accumulates inside it; use a fold",
				})
			}
		}
		for _, c := range node.Children {
			visit(c.Node)
		}
	}
	visit(body)
	return out
}
