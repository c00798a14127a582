// Package rulesdsl registers rules defined declaratively in YAML packs.
// A pack rule matches nodes of one kind whose attributes satisfy a set of
// regular expressions; it covers the simple "flag this construct" checks
// without writing Go.
package rulesdsl

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/codewithboateng/scalint/internal/ir"
	"github.com/codewithboateng/scalint/internal/rules"
)

type dslPack struct {
	Rules []dslRule `yaml:"rules"`
}

type dslRule struct {
	ID       string `yaml:"id"`
	Summary  string `yaml:"summary"`
	Category string `yaml:"category"` // style|correctness|safety|performance
	Severity string `yaml:"severity"` // info|warning|error
	Message  string `yaml:"message"`

	Where struct {
		Kind  string            `yaml:"kind"`  // node kind, e.g. MethodCall
		Attrs map[string]string `yaml:"attrs"` // attr name -> regex
	} `yaml:"where"`
}

type compiled struct {
	rule    dslRule
	kind    ir.Kind
	sev     ir.Severity
	reAttrs map[string]*regexp.Regexp
}

// LoadAndRegister compiles a pack file and registers each rule beside the
// built-ins. Returns how many rules were added.
func LoadAndRegister(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rules pack: %w", err)
	}
	var pack dslPack
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}
	var n int
	for _, r := range pack.Rules {
		cr, err := compile(r)
		if err != nil {
			return n, fmt.Errorf("compile rule %q: %w", r.ID, err)
		}
		if err := registerCompiled(*cr); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func compile(r dslRule) (*compiled, error) {
	if r.ID == "" || r.Severity == "" || r.Message == "" {
		return nil, fmt.Errorf("missing required fields (id/severity/message)")
	}
	if r.Where.Kind == "" {
		return nil, fmt.Errorf("where.kind is required")
	}
	sev, ok := ir.ParseSeverity(r.Severity)
	if !ok {
		return nil, fmt.Errorf("unknown severity %q", r.Severity)
	}
	c := &compiled{
		rule:    r,
		kind:    ir.Kind(r.Where.Kind),
		sev:     sev,
		reAttrs: map[string]*regexp.Regexp{},
	}
	for attr, pat := range r.Where.Attrs {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("attrs[%s]: %w", attr, err)
		}
		c.reAttrs[attr] = re
	}
	return c, nil
}

func registerCompiled(c compiled) error {
	category := ir.Category(c.rule.Category)
	if category == "" {
		category = ir.CategoryStyle
	}
	return rules.Register(rules.Rule{
		ID:       c.rule.ID,
		Category: category,
		Severity: c.sev,
		Summary:  c.rule.Summary,
		Kinds:    []ir.Kind{c.kind},
		Eval: func(n *ir.Node, rctx *rules.Context) []ir.Finding {
			for attr, re := range c.reAttrs {
				if !re.MatchString(n.Attr(attr)) {
					return nil
				}
			}
			return []ir.Finding{{
				RuleID:  c.rule.ID,
				Loc:     rctx.Locate(n),
				Message: c.rule.Message,
			}}
		},
	})
}
