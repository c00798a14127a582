package rules_test

import (
	"errors"
	"testing"

	"github.com/codewithboateng/scalint/internal/ir"
	"github.com/codewithboateng/scalint/internal/rules"
)

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := rules.Rule{
		ID:    "registry-test-dup",
		Kinds: []ir.Kind{ir.KindFile},
		Eval:  func(*ir.Node, *rules.Context) []ir.Finding { return nil },
	}
	if err := rules.Register(r); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	err := rules.Register(r)
	if !errors.Is(err, rules.ErrDuplicateRuleID) {
		t.Fatalf("second registration: got %v, want ErrDuplicateRuleID", err)
	}
	// Ids are case-insensitive.
	r.ID = "Registry-Test-DUP"
	if err := rules.Register(r); !errors.Is(err, rules.ErrDuplicateRuleID) {
		t.Fatalf("case-variant registration: got %v, want ErrDuplicateRuleID", err)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := rules.Lookup("no-such-rule")
	if !errors.Is(err, rules.ErrUnknownRuleID) {
		t.Fatalf("got %v, want ErrUnknownRuleID", err)
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	r, err := rules.Lookup("NO-NULL-LITERAL")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if r.ID != "no-null-literal" {
		t.Fatalf("got %q", r.ID)
	}
}

func TestAllIsSortedAndContainsCatalog(t *testing.T) {
	all := rules.All()
	if len(all) < 10 {
		t.Fatalf("catalog too small: %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Fatalf("not sorted at %d: %q >= %q", i, all[i-1].ID, all[i].ID)
		}
	}
}

func TestSnapshotUnknownIDFailsRun(t *testing.T) {
	if _, err := rules.Snapshot([]string{"no-null-literal", "bogus"}, nil); !errors.Is(err, rules.ErrUnknownRuleID) {
		t.Fatalf("enabled: got %v, want ErrUnknownRuleID", err)
	}
	if _, err := rules.Snapshot(nil, map[string]ir.Severity{"bogus": ir.SeverityInfo}); !errors.Is(err, rules.ErrUnknownRuleID) {
		t.Fatalf("override: got %v, want ErrUnknownRuleID", err)
	}
}

func TestSnapshotSubsetAndOverride(t *testing.T) {
	active, err := rules.Snapshot(
		[]string{"no-unsafe-cast", "no-null-literal", "no-null-literal"},
		map[string]ir.Severity{"no-null-literal": ir.SeverityError},
	)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("duplicate enabled id must collapse: got %d rules", len(active))
	}
	if active[0].ID != "no-null-literal" || active[1].ID != "no-unsafe-cast" {
		t.Fatalf("snapshot not ordered by id: %q, %q", active[0].ID, active[1].ID)
	}
	if active[0].Severity != ir.SeverityError {
		t.Fatalf("override not applied: %v", active[0].Severity)
	}
	if active[1].Severity != ir.SeverityWarning {
		t.Fatalf("default severity disturbed: %v", active[1].Severity)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	a, err := rules.Snapshot(nil, map[string]ir.Severity{"no-magic-sentinel": ir.SeverityError})
	if err != nil {
		t.Fatalf("snapshot a: %v", err)
	}
	b, err := rules.Snapshot(nil, nil)
	if err != nil {
		t.Fatalf("snapshot b: %v", err)
	}
	find := func(as []rules.Active, id string) rules.Active {
		for _, x := range as {
			if x.ID == id {
				return x
			}
		}
		t.Fatalf("rule %q missing from snapshot", id)
		return rules.Active{}
	}
	if find(a, "no-magic-sentinel").Severity != ir.SeverityError {
		t.Fatal("override missing in its own snapshot")
	}
	if find(b, "no-magic-sentinel").Severity != ir.SeverityInfo {
		t.Fatal("override leaked across snapshots")
	}
}
