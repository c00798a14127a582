// Package engine runs rule snapshots over parsed source units and merges the
// results into one deterministic report.
package engine

import (
	"fmt"

	"github.com/codewithboateng/scalint/internal/ir"
	"github.com/codewithboateng/scalint/internal/rules"
)

// RuleInternalErrorID tags findings produced when a rule predicate panics.
// One broken rule must never prevent the others from reporting.
const RuleInternalErrorID = "rule-internal-error"

// Walker performs a single pre-order traversal of a unit's tree, dispatching
// each node to the active rules whose interest set includes its kind.
// Cost is O(nodes x interested-rules), not O(nodes x all-rules).
type Walker struct {
	dispatch map[ir.Kind][]rules.Active
}

func NewWalker(active []rules.Active) *Walker {
	w := &Walker{dispatch: make(map[ir.Kind][]rules.Active)}
	for _, a := range active {
		for _, k := range a.Kinds {
			w.dispatch[k] = append(w.dispatch[k], a)
		}
	}
	return w
}

// Walk visits every node reachable from the unit root in fixed child-role
// order and appends all findings to the collector. It never mutates the tree
// and never stops at the first finding.
func (w *Walker) Walk(unit ir.SourceUnit, col *Collector) {
	if unit.Root == nil {
		return
	}
	rctx := rules.NewContext(unit.Path)
	w.visit(unit.Root, rctx, col)
}

func (w *Walker) visit(n *ir.Node, rctx *rules.Context, col *Collector) {
	for _, a := range w.dispatch[n.Kind] {
		for _, f := range w.evalSafe(a, n, rctx) {
			f.Loc.File = unitPath(rctx, f.Loc.File)
			col.Add(f)
		}
	}
	rctx.Push(n)
	for _, c := range n.Children {
		w.visit(c.Node, rctx, col)
	}
	rctx.Pop()
}

// evalSafe confines a rule panic to the single evaluation that raised it,
// converting it into a finding tagged with the offending rule.
func (w *Walker) evalSafe(a rules.Active, n *ir.Node, rctx *rules.Context) (out []ir.Finding) {
	defer func() {
		if r := recover(); r != nil {
			loc := n.Loc
			loc.File = rctx.Path
			out = []ir.Finding{{
				RuleID:   a.ID,
				Severity: ir.SeverityError,
				Loc:      loc,
				Message:  fmt.Sprintf("%s: rule %s panicked: %v", RuleInternalErrorID, a.ID, r),
			}}
		}
	}()
	out = a.Eval(n, rctx)
	for i := range out {
		out[i].Severity = a.Severity // resolved per-run severity wins
	}
	return out
}

func unitPath(rctx *rules.Context, file string) string {
	if file == "" {
		return rctx.Path
	}
	return file
}
