package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/codewithboateng/scalint/internal/ir"
	"github.com/codewithboateng/scalint/internal/rules"
)

func WriteHTML(runID, outDir string, rep *ir.Report) (string, error) {
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Head + styles
	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .error{color:#b00020} .warning{color:#9a6700} .info{color:#666}</style>")
	fmt.Fprint(f, "</head><body>")

	// Title + summary
	fmt.Fprintf(f, "<h1>scalint report <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	fmt.Fprintf(f, "<p>Status: <b>%s</b> &nbsp; Findings: %d &nbsp; Parse failures: %d</p>",
		html.EscapeString(string(rep.Status)), len(rep.Findings), len(rep.Failures))
	fmt.Fprintf(f, "<p class='dim'>Errors: %d &nbsp; Warnings: %d &nbsp; Info: %d &nbsp; Fail threshold: %s</p>",
		rep.Summary.Error, rep.Summary.Warning, rep.Summary.Info, rep.FailThreshold)

	// Findings table
	fmt.Fprint(f, "<h2>Findings</h2>")
	if len(rep.Findings) == 0 {
		fmt.Fprint(f, "<p class='dim'>none</p>")
	} else {
		fmt.Fprint(f, "<table><tr><th>Location</th><th>Severity</th><th>Rule</th><th>Message</th></tr>")
		for _, fd := range rep.Findings {
			title := fd.RuleID
			if r, err := rules.Lookup(fd.RuleID); err == nil && r.Summary != "" {
				title = r.Summary
			}
			fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td class='%s'>%s</td><td title='%s'>%s</td><td>%s</td></tr>",
				html.EscapeString(fd.Loc.String()),
				fd.Severity, fd.Severity,
				html.EscapeString(title),
				html.EscapeString(fd.RuleID),
				html.EscapeString(fd.Message),
			)
		}
		fmt.Fprint(f, "</table>")
	}

	// Parse failures
	if len(rep.Failures) > 0 {
		fmt.Fprint(f, "<h2>Parse failures</h2><table><tr><th>Path</th><th>Reason</th></tr>")
		for _, pf := range rep.Failures {
			fmt.Fprintf(f, "<tr><td class='mono'>%s</td><td>%s</td></tr>",
				html.EscapeString(pf.Path), html.EscapeString(pf.Reason))
		}
		fmt.Fprint(f, "</table>")
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
