package engine

import "github.com/codewithboateng/scalint/internal/ir"

// Collector accumulates one unit's findings. Each parallel task owns its
// collector exclusively, so no locking is needed; structurally identical
// findings collapse to one.
type Collector struct {
	path     string
	seen     map[string]struct{}
	findings []ir.Finding
	sealed   bool
}

func NewCollector(path string) *Collector {
	return &Collector{path: path, seen: make(map[string]struct{})}
}

// Add appends a finding unless an identical one was already recorded.
// Adding to a sealed collector is a programming error.
func (c *Collector) Add(f ir.Finding) {
	if c.sealed {
		panic("collector: add after seal")
	}
	k := f.Key()
	if _, dup := c.seen[k]; dup {
		return
	}
	c.seen[k] = struct{}{}
	c.findings = append(c.findings, f)
}

// Seal freezes the collector and returns the per-unit fragment in traversal
// order. The final canonical sort happens at merge time.
func (c *Collector) Seal() []ir.Finding {
	c.sealed = true
	out := make([]ir.Finding, len(c.findings))
	copy(out, c.findings)
	return out
}
