package rules

import (
	"strings"

	"github.com/codewithboateng/scalint/internal/ir"
	"github.com/codewithboateng/scalint/internal/storage"
)

// ApplyWaivers filters out findings that match any active waiver.
// Returns (kept, waivedCount).
func ApplyWaivers(in []ir.Finding, waivers []storage.Waiver) ([]ir.Finding, int) {
	if len(waivers) == 0 || len(in) == 0 {
		return in, 0
	}
	kept := make([]ir.Finding, 0, len(in))
	waived := 0
nextFinding:
	for _, f := range in {
		for _, w := range waivers {
			if !strings.EqualFold(strings.TrimSpace(f.RuleID), strings.TrimSpace(w.RuleID)) {
				continue
			}
			if w.Path != "" && !strings.HasPrefix(f.Loc.File, w.Path) {
				continue
			}
			if w.PatternSub != "" {
				ps := strings.ToLower(w.PatternSub)
				if !strings.Contains(strings.ToLower(f.Message), ps) &&
					!strings.Contains(strings.ToLower(f.Snippet), ps) {
					continue
				}
			}
			waived++
			continue nextFinding
		}
		kept = append(kept, f)
	}
	return kept, waived
}
