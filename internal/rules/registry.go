package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/codewithboateng/scalint/internal/ir"
)

var (
	ErrDuplicateRuleID = errors.New("duplicate rule id")
	ErrUnknownRuleID   = errors.New("unknown rule id")
)

var (
	registry  []Rule
	ruleIndex = map[string]int{} // lower(ruleID) -> index
)

func key(id string) string { return strings.ToLower(strings.TrimSpace(id)) }

// Register adds a rule to the catalog. Registering an id twice is a
// configuration bug and fails immediately.
func Register(r Rule) error {
	k := key(r.ID)
	if k == "" {
		return fmt.Errorf("register: empty rule id")
	}
	if _, ok := ruleIndex[k]; ok {
		return fmt.Errorf("register %q: %w", r.ID, ErrDuplicateRuleID)
	}
	registry = append(registry, r)
	ruleIndex[k] = len(registry) - 1
	return nil
}

// MustRegister is the init-time form used by the built-in catalog.
func MustRegister(r Rule) {
	if err := Register(r); err != nil {
		panic(err)
	}
}

// Lookup returns the registered rule with the given id.
func Lookup(id string) (Rule, error) {
	idx, ok := ruleIndex[key(id)]
	if !ok {
		return Rule{}, fmt.Errorf("lookup %q: %w", id, ErrUnknownRuleID)
	}
	return registry[idx], nil
}

// All returns every registered rule ordered by id.
func All() []Rule {
	out := make([]Rule, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Active is a rule with its per-run resolved severity.
type Active struct {
	Rule
	Severity ir.Severity
}

// Snapshot resolves the active rule list for exactly one run: enabled rules
// only, severities overridden per configuration, ordered by id. The result
// is never shared mutable state; concurrent runs take their own snapshots.
// An enabled or overridden id that is not registered fails the whole run.
func Snapshot(enabled []string, overrides map[string]ir.Severity) ([]Active, error) {
	var picked []Rule
	if len(enabled) == 0 {
		picked = All()
	} else {
		seen := map[string]struct{}{}
		for _, id := range enabled {
			r, err := Lookup(id)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[key(r.ID)]; dup {
				continue
			}
			seen[key(r.ID)] = struct{}{}
			picked = append(picked, r)
		}
		sort.Slice(picked, func(i, j int) bool { return picked[i].ID < picked[j].ID })
	}

	resolved := map[string]ir.Severity{}
	for id, sev := range overrides {
		r, err := Lookup(id)
		if err != nil {
			return nil, err
		}
		resolved[key(r.ID)] = sev
	}

	out := make([]Active, 0, len(picked))
	for _, r := range picked {
		sev := r.Severity
		if o, ok := resolved[key(r.ID)]; ok {
			sev = o
		}
		out = append(out, Active{Rule: r, Severity: sev})
	}
	return out, nil
}
