package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/codewithboateng/scalint/internal/ir"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "scalint_test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.CreateSchema(); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

func sampleReport(id string, started time.Time) *ir.Report {
	return &ir.Report{
		ID:            id,
		StartedAt:     started,
		Source:        "./ast",
		IRVersion:     ir.Version,
		FailThreshold: ir.SeverityError,
		Findings: []ir.Finding{
			{RuleID: "no-catch-all-throwable", Severity: ir.SeverityError,
				Loc: ir.Loc{File: "a.scala", Line: 4, Col: 5}, Message: "catch-all"},
			{RuleID: "no-null-literal", Severity: ir.SeverityWarning,
				Loc: ir.Loc{File: "a.scala", Line: 9, Col: 3}, Message: "null"},
		},
		Failures: []ir.ParseFailure{{Path: "bad.scala", Reason: "truncated"}},
		Summary:  ir.Summary{Error: 1, Warning: 1},
		Status:   ir.StatusFailing,
	}
}

func TestSaveAndLoadReport(t *testing.T) {
	db := openTestDB(t)
	rep := sampleReport("run-1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	if err := db.SaveReport(rep); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.LoadReport("run-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != "run-1" || got.Status != ir.StatusFailing {
		t.Fatalf("roundtrip: %+v", got)
	}
	if len(got.Findings) != 2 || len(got.Failures) != 1 {
		t.Fatalf("roundtrip lost rows: %d findings, %d failures", len(got.Findings), len(got.Failures))
	}
	if got.Findings[0].Severity != ir.SeverityError {
		t.Fatalf("severity roundtrip: %v", got.Findings[0].Severity)
	}

	ok, err := db.HasRun("run-1")
	if err != nil || !ok {
		t.Fatalf("HasRun: %v %v", ok, err)
	}
	ok, err = db.HasRun("run-404")
	if err != nil || ok {
		t.Fatalf("HasRun missing: %v %v", ok, err)
	}
}

func TestSaveReportUpsert(t *testing.T) {
	db := openTestDB(t)
	rep := sampleReport("run-1", time.Now().UTC())
	if err := db.SaveReport(rep); err != nil {
		t.Fatalf("save: %v", err)
	}
	rep.Findings = rep.Findings[:1]
	rep.Status = ir.StatusPassing
	if err := db.SaveReport(rep); err != nil {
		t.Fatalf("resave: %v", err)
	}
	got, err := db.LoadReport("run-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Findings) != 1 || got.Status != ir.StatusPassing {
		t.Fatalf("upsert did not replace: %+v", got)
	}
	fs, err := db.ListFindings("run-1", "info")
	if err != nil {
		t.Fatalf("list findings: %v", err)
	}
	if len(fs) != 1 {
		t.Fatalf("stale finding rows survived upsert: %d", len(fs))
	}
}

func TestListRunsAndLatest(t *testing.T) {
	db := openTestDB(t)
	older := sampleReport("run-old", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := sampleReport("run-new", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	for _, r := range []*ir.Report{older, newer} {
		if err := db.SaveReport(r); err != nil {
			t.Fatalf("save %s: %v", r.ID, err)
		}
	}

	runs, err := db.ListRuns(10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-new" || runs[1].ID != "run-old" {
		t.Fatalf("runs not newest-first: %+v", runs)
	}
	if runs[0].Findings != 2 {
		t.Fatalf("finding count: %d", runs[0].Findings)
	}

	latest, err := db.LoadLatestReport()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != "run-new" {
		t.Fatalf("latest: %q", latest.ID)
	}
}

func TestListFindingsSeverityFloor(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveReport(sampleReport("run-1", time.Now().UTC())); err != nil {
		t.Fatalf("save: %v", err)
	}
	fs, err := db.ListFindings("run-1", "error")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(fs) != 1 || fs[0].RuleID != "no-catch-all-throwable" {
		t.Fatalf("floor filter: %+v", fs)
	}
	fs, err = db.ListFindings("run-1", "info")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(fs) != 2 {
		t.Fatalf("info floor should return all: %d", len(fs))
	}
}

func TestWaiverLifecycle(t *testing.T) {
	db := openTestDB(t)
	id, err := db.CreateWaiver("no-null-literal", "src/legacy/", "", "interop migration", "alice",
		time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	expired, err := db.CreateWaiver("no-unsafe-cast", "", "", "old code", "alice",
		time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("create expired: %v", err)
	}

	active, err := db.ListWaivers(true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != id {
		t.Fatalf("active waivers: %+v", active)
	}
	if active[0].Path != "src/legacy/" || active[0].RuleID != "no-null-literal" {
		t.Fatalf("waiver fields: %+v", active[0])
	}

	all, err := db.ListWaivers(false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all waivers: %d", len(all))
	}
	_ = expired

	if err := db.RevokeWaiver(id, "bob"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	active, err = db.ListWaivers(true)
	if err != nil {
		t.Fatalf("list after revoke: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("revoked waiver still active: %+v", active)
	}
}
