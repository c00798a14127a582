package reporting

import (
	"fmt"
	"io"

	"github.com/codewithboateng/scalint/internal/ir"
)

// WriteText renders the line-oriented human-readable listing:
// path:line:col [severity] ruleId: message
func WriteText(w io.Writer, rep *ir.Report) error {
	for _, f := range rep.Findings {
		if _, err := fmt.Fprintf(w, "%s [%s] %s: %s\n", f.Loc, f.Severity, f.RuleID, f.Message); err != nil {
			return err
		}
	}
	for _, pf := range rep.Failures {
		if _, err := fmt.Fprintf(w, "%s: parse failure: %s\n", pf.Path, pf.Reason); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d error(s), %d warning(s), %d info: %s\n",
		rep.Summary.Error, rep.Summary.Warning, rep.Summary.Info, rep.Status)
	return err
}
