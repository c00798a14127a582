package reporting

import (
	"strings"
	"testing"

	"github.com/codewithboateng/scalint/internal/ir"
)

func TestWriteText(t *testing.T) {
	rep := &ir.Report{
		Findings: []ir.Finding{
			{RuleID: "no-null-literal", Severity: ir.SeverityWarning,
				Loc: ir.Loc{File: "a.scala", Line: 3, Col: 7}, Message: "null literal; model absence with Option"},
			{RuleID: "no-catch-all-throwable", Severity: ir.SeverityError,
				Loc: ir.Loc{File: "b.scala", Line: 10, Col: 5}, Message: "catch clause matches Throwable, which covers fatal errors; catch NonFatal(_) instead"},
		},
		Failures: []ir.ParseFailure{{Path: "broken.scala", Reason: "unexpected token"}},
		Summary:  ir.Summary{Error: 1, Warning: 1},
		Status:   ir.StatusFailing,
	}
	var sb strings.Builder
	if err := WriteText(&sb, rep); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	want := "a.scala:3:7 [warning] no-null-literal: null literal; model absence with Option\n" +
		"b.scala:10:5 [error] no-catch-all-throwable: catch clause matches Throwable, which covers fatal errors; catch NonFatal(_) instead\n" +
		"broken.scala: parse failure: unexpected token\n" +
		"1 error(s), 1 warning(s), 0 info: failing\n"
	if sb.String() != want {
		t.Fatalf("output mismatch:\n got: %q\nwant: %q", sb.String(), want)
	}
}

func TestWriteTextEmptyRun(t *testing.T) {
	var sb strings.Builder
	if err := WriteText(&sb, &ir.Report{Status: ir.StatusPassing}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if sb.String() != "0 error(s), 0 warning(s), 0 info: passing\n" {
		t.Fatalf("got %q", sb.String())
	}
}
