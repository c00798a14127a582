package reporting

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/codewithboateng/scalint/internal/ir"
)

func TestWriteDiffJSON(t *testing.T) {
	find := func(rule, file string, line int, sev ir.Severity, msg string) ir.Finding {
		return ir.Finding{RuleID: rule, Severity: sev, Loc: ir.Loc{File: file, Line: line, Col: 1}, Message: msg}
	}
	base := &ir.Report{Findings: []ir.Finding{
		find("no-null-literal", "a.scala", 3, ir.SeverityWarning, "m1"),
		find("no-unsafe-cast", "a.scala", 9, ir.SeverityWarning, "m2"),
	}}
	head := &ir.Report{Findings: []ir.Finding{
		find("no-null-literal", "a.scala", 3, ir.SeverityError, "m1"), // severity moved
		find("no-explicit-return", "b.scala", 2, ir.SeverityWarning, "m3"),
	}}

	outDir := t.TempDir()
	path, err := WriteDiffJSON("run-1", "run-2", outDir, base, head)
	if err != nil {
		t.Fatalf("WriteDiffJSON: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read diff: %v", err)
	}
	var payload struct {
		Summary struct {
			New     int `json:"new"`
			Fixed   int `json:"fixed"`
			Changed int `json:"changed"`
		} `json:"summary"`
		New []struct {
			RuleID string `json:"rule_id"`
			File   string `json:"file"`
		} `json:"new"`
		Fixed []struct {
			RuleID string `json:"rule_id"`
		} `json:"fixed"`
		Changed []struct {
			Changed []string `json:"fields_changed"`
		} `json:"changed"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Summary.New != 1 || payload.Summary.Fixed != 1 || payload.Summary.Changed != 1 {
		t.Fatalf("summary: %+v", payload.Summary)
	}
	if payload.New[0].RuleID != "no-explicit-return" || payload.New[0].File != "b.scala" {
		t.Fatalf("new: %+v", payload.New)
	}
	if payload.Fixed[0].RuleID != "no-unsafe-cast" {
		t.Fatalf("fixed: %+v", payload.Fixed)
	}
	if len(payload.Changed[0].Changed) != 1 || payload.Changed[0].Changed[0] != "severity" {
		t.Fatalf("changed: %+v", payload.Changed)
	}
}
