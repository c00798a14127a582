package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codewithboateng/scalint/internal/ir"
	"github.com/codewithboateng/scalint/internal/rules"
)

// RuleTimeoutID tags the diagnostic recorded for a unit whose traversal
// exceeded the per-unit budget. The unit's other findings are discarded as
// incomplete; the rest of the run proceeds.
const RuleTimeoutID = "rule-timeout"

// Config is the per-run analysis configuration. It is loaded once and never
// mutated while a run is in flight.
type Config struct {
	EnabledRules      []string // empty = all registered
	SeverityOverrides map[string]ir.Severity
	FailThreshold     ir.Severity
	MaxConcurrency    int
	PerUnitTimeout    time.Duration
}

// DefaultConfig matches the documented option defaults.
func DefaultConfig() Config {
	return Config{
		FailThreshold:  ir.SeverityError,
		MaxConcurrency: runtime.NumCPU(),
		PerUnitTimeout: 10 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = runtime.NumCPU()
	}
	if c.PerUnitTimeout <= 0 {
		c.PerUnitTimeout = 10 * time.Second
	}
	return c
}

// Analyze resolves the active rule snapshot once and runs it over all units.
// Only registry misuse (an unknown rule id in the configuration) is fatal;
// everything per-unit is recovered and recorded.
func Analyze(ctx context.Context, units []ir.SourceUnit, cfg Config) (ir.Report, error) {
	active, err := rules.Snapshot(cfg.EnabledRules, cfg.SeverityOverrides)
	if err != nil {
		return ir.Report{}, err
	}
	return AnalyzeWithRules(ctx, units, cfg, active)
}

// AnalyzeWithRules runs a pre-resolved snapshot. Units are analyzed in
// parallel on a bounded pool; fragments are merged in unit order and then
// canonically sorted, so the report never depends on scheduling order.
// The caller stamps run identity (ID, StartedAt, Source) afterwards.
func AnalyzeWithRules(ctx context.Context, units []ir.SourceUnit, cfg Config, active []rules.Active) (ir.Report, error) {
	cfg = cfg.withDefaults()
	w := NewWalker(active)

	fragments := make([][]ir.Finding, len(units))
	failures := make([]*ir.ParseFailure, len(units))

	g := new(errgroup.Group)
	g.SetLimit(cfg.MaxConcurrency)
	for i := range units {
		if ctx.Err() != nil {
			break // unscheduled units are dropped on cancellation
		}
		i, u := i, units[i]
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if u.Failure != nil {
				failures[i] = u.Failure
				return nil
			}
			fragments[i] = analyzeUnit(w, u, cfg.PerUnitTimeout)
			return nil
		})
	}
	_ = g.Wait()

	var all []ir.Finding
	var fails []ir.ParseFailure
	for i := range units {
		all = append(all, fragments[i]...)
		if failures[i] != nil {
			fails = append(fails, *failures[i])
		}
	}
	ir.SortFindings(all)

	rep := ir.Report{
		IRVersion:     ir.Version,
		FailThreshold: cfg.FailThreshold,
		Findings:      all,
		Failures:      fails,
		Summary:       ir.Summarize(all),
		Status:        ir.ComputeStatus(all, cfg.FailThreshold, ctx.Err() != nil),
	}
	return rep, nil
}

// analyzeUnit runs one traversal to completion on this worker, bounded by
// the per-unit timeout. Traversal is pure computation with no suspension
// points; an abandoned walk finishes on its own and its buffered result is
// simply dropped.
func analyzeUnit(w *Walker, u ir.SourceUnit, timeout time.Duration) []ir.Finding {
	done := make(chan []ir.Finding, 1)
	go func() {
		col := NewCollector(u.Path)
		w.Walk(u, col)
		done <- col.Seal()
	}()

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case fs := <-done:
		return fs
	case <-t.C:
		return []ir.Finding{{
			RuleID:   RuleTimeoutID,
			Severity: ir.SeverityError,
			Loc:      ir.Loc{File: u.Path},
			Message:  fmt.Sprintf("unit traversal exceeded %s; findings for this unit are incomplete", timeout),
		}}
	}
}
