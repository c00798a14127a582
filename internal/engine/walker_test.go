package engine_test

import (
	"strings"
	"testing"

	"github.com/codewithboateng/scalint/internal/engine"
	"github.com/codewithboateng/scalint/internal/ir"
	"github.com/codewithboateng/scalint/internal/rules"
)

func node(kind ir.Kind, line, col int, attrs map[string]string, children ...ir.Child) *ir.Node {
	return &ir.Node{Kind: kind, Loc: ir.Loc{Line: line, Col: col}, Attrs: attrs, Children: children}
}

func role(r string, n *ir.Node) ir.Child { return ir.Child{Role: r, Node: n} }

func active(id string, sev ir.Severity, kinds []ir.Kind, eval func(*ir.Node, *rules.Context) []ir.Finding) rules.Active {
	return rules.Active{
		Rule:     rules.Rule{ID: id, Severity: sev, Kinds: kinds, Eval: eval},
		Severity: sev,
	}
}

func flagEverything(id string) func(*ir.Node, *rules.Context) []ir.Finding {
	return func(n *ir.Node, rctx *rules.Context) []ir.Finding {
		return []ir.Finding{{RuleID: id, Loc: rctx.Locate(n), Message: "hit"}}
	}
}

func TestWalkerDispatchesByInterestSet(t *testing.T) {
	tree := node(ir.KindFile, 1, 1, nil,
		role("decl", node(ir.KindNullLiteral, 2, 1, nil)),
		role("decl", node(ir.KindValDecl, 3, 1, nil,
			role("value", node(ir.KindNullLiteral, 3, 9, nil)))),
	)
	var visited []ir.Kind
	a := rules.Active{Rule: rules.Rule{
		ID:    "only-nulls",
		Kinds: []ir.Kind{ir.KindNullLiteral},
		Eval: func(n *ir.Node, rctx *rules.Context) []ir.Finding {
			visited = append(visited, n.Kind)
			return nil
		},
	}}
	w := engine.NewWalker([]rules.Active{a})
	col := engine.NewCollector("a.scala")
	w.Walk(ir.SourceUnit{Path: "a.scala", Root: tree}, col)
	if len(visited) != 2 {
		t.Fatalf("rule evaluated %d times, want 2 (one per NullLiteral)", len(visited))
	}
	for _, k := range visited {
		if k != ir.KindNullLiteral {
			t.Fatalf("rule evaluated on %s", k)
		}
	}
}

func TestWalkerStampsResolvedSeverity(t *testing.T) {
	tree := node(ir.KindNullLiteral, 1, 1, nil)
	a := active("r", ir.SeverityError, []ir.Kind{ir.KindNullLiteral}, flagEverything("r"))
	w := engine.NewWalker([]rules.Active{a})
	col := engine.NewCollector("a.scala")
	w.Walk(ir.SourceUnit{Path: "a.scala", Root: tree}, col)
	got := col.Seal()
	if len(got) != 1 || got[0].Severity != ir.SeverityError {
		t.Fatalf("per-run severity not applied: %+v", got)
	}
	if got[0].Loc.File != "a.scala" {
		t.Fatalf("unit path not stamped: %q", got[0].Loc.File)
	}
}

func TestWalkerRecoversRulePanic(t *testing.T) {
	tree := node(ir.KindFile, 1, 1, nil,
		role("decl", node(ir.KindNullLiteral, 2, 1, nil)),
	)
	broken := active("broken-rule", ir.SeverityWarning, []ir.Kind{ir.KindNullLiteral},
		func(*ir.Node, *rules.Context) []ir.Finding { panic("boom") })
	healthy := active("healthy-rule", ir.SeverityInfo, []ir.Kind{ir.KindNullLiteral}, flagEverything("healthy-rule"))

	w := engine.NewWalker([]rules.Active{broken, healthy})
	col := engine.NewCollector("a.scala")
	w.Walk(ir.SourceUnit{Path: "a.scala", Root: tree}, col)
	got := col.Seal()
	if len(got) != 2 {
		t.Fatalf("got %d findings, want panic diagnostic plus healthy finding", len(got))
	}
	var panicFinding *ir.Finding
	for i := range got {
		if got[i].RuleID == "broken-rule" {
			panicFinding = &got[i]
		}
	}
	if panicFinding == nil {
		t.Fatal("panic diagnostic missing")
	}
	if panicFinding.Severity != ir.SeverityError {
		t.Fatalf("panic diagnostic severity: %v", panicFinding.Severity)
	}
	if !strings.Contains(panicFinding.Message, engine.RuleInternalErrorID) || !strings.Contains(panicFinding.Message, "boom") {
		t.Fatalf("panic diagnostic message: %q", panicFinding.Message)
	}
}

func TestWalkerNilRootIsNoop(t *testing.T) {
	w := engine.NewWalker(nil)
	col := engine.NewCollector("a.scala")
	w.Walk(ir.SourceUnit{Path: "a.scala"}, col)
	if got := col.Seal(); len(got) != 0 {
		t.Fatalf("unexpected findings: %+v", got)
	}
}
