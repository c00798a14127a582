package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codewithboateng/scalint/internal/ir"
)

type diffPayload struct {
	BaseID  string        `json:"base_id"`
	HeadID  string        `json:"head_id"`
	Summary diffSummary   `json:"summary"`
	New     []diffFinding `json:"new"`
	Fixed   []diffFinding `json:"fixed"`
	Changed []diffChanged `json:"changed"`
}

type diffSummary struct {
	NewCount     int `json:"new"`
	FixedCount   int `json:"fixed"`
	ChangedCount int `json:"changed"`
}

type diffFinding struct {
	RuleID   string `json:"rule_id"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Col      int    `json:"col"`
	Severity string `json:"severity,omitempty"`
	Message  string `json:"message,omitempty"`
}

type diffChanged struct {
	Key     string      `json:"key"`
	Base    diffFinding `json:"base"`
	Head    diffFinding `json:"head"`
	Changed []string    `json:"fields_changed"`
}

// WriteDiffJSON compares two archived runs: findings present only in head
// are new, only in base are fixed, and same-identity findings whose severity
// moved are changed.
func WriteDiffJSON(baseID, headID, outDir string, base, head *ir.Report) (string, error) {
	path := filepath.Join(outDir, "diff_"+baseID+"__"+headID+".json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	bm := map[string]ir.Finding{}
	hm := map[string]ir.Finding{}
	for _, f := range base.Findings {
		bm[keyOf(f)] = f
	}
	for _, f := range head.Findings {
		hm[keyOf(f)] = f
	}

	var added []diffFinding
	var fixed []diffFinding
	var changed []diffChanged

	for k, hf := range hm {
		bf, ok := bm[k]
		if !ok {
			added = append(added, asDiff(hf))
			continue
		}
		if bf.Severity != hf.Severity {
			changed = append(changed, diffChanged{
				Key:     k,
				Base:    asDiff(bf),
				Head:    asDiff(hf),
				Changed: []string{"severity"},
			})
		}
	}
	for k, bf := range bm {
		if _, ok := hm[k]; !ok {
			fixed = append(fixed, asDiff(bf))
		}
	}

	sort.Slice(added, func(i, j int) bool { return diffLess(added[i], added[j]) })
	sort.Slice(fixed, func(i, j int) bool { return diffLess(fixed[i], fixed[j]) })
	sort.Slice(changed, func(i, j int) bool { return changed[i].Key < changed[j].Key })

	payload := diffPayload{
		BaseID: baseID, HeadID: headID,
		Summary: diffSummary{
			NewCount:     len(added),
			FixedCount:   len(fixed),
			ChangedCount: len(changed),
		},
		New:     added,
		Fixed:   fixed,
		Changed: changed,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

// keyOf is the logical finding identity across runs: rule + position +
// message, severity excluded so overrides show up as "changed".
func keyOf(f ir.Finding) string {
	var sb strings.Builder
	sb.WriteString(f.RuleID)
	sb.WriteByte('|')
	sb.WriteString(f.Loc.String())
	sb.WriteByte('|')
	sb.WriteString(f.Message)
	return sb.String()
}

func asDiff(f ir.Finding) diffFinding {
	return diffFinding{
		RuleID:   f.RuleID,
		File:     f.Loc.File,
		Line:     f.Loc.Line,
		Col:      f.Loc.Col,
		Severity: f.Severity.String(),
		Message:  f.Message,
	}
}

func diffLess(a, b diffFinding) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	if a.Col != b.Col {
		return a.Col < b.Col
	}
	return a.RuleID < b.RuleID
}
