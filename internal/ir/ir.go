// Package ir defines the language-agnostic tree and report shapes shared by
// the loader, the rule engine and the reporting/storage layers.
package ir

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

const Version = "1.0"

// Kind tags one syntactic construct. The external parser emits these tags;
// rules declare interest sets over them.
type Kind string

const (
	KindFile           Kind = "File"
	KindFuncDecl       Kind = "FuncDecl"
	KindBlock          Kind = "Block"
	KindReturn         Kind = "Return"
	KindVarDecl        Kind = "VarDecl"
	KindValDecl        Kind = "ValDecl"
	KindAssign         Kind = "Assign"
	KindCaseClassDecl  Kind = "CaseClassDecl"
	KindObjectDecl     Kind = "ObjectDecl"
	KindTraitDecl      Kind = "TraitDecl"
	KindParam          Kind = "Param"
	KindTryCatch       Kind = "TryCatch"
	KindCatchClause    Kind = "CatchClause"
	KindInstanceCheck  Kind = "InstanceCheck"
	KindCast           Kind = "Cast"
	KindNullLiteral    Kind = "NullLiteral"
	KindNumberLit      Kind = "NumberLit"
	KindStringLit      Kind = "StringLit"
	KindAbstractMember Kind = "AbstractMember"
	KindTypeRef        Kind = "TypeRef"
	KindMethodCall     Kind = "MethodCall"
	KindBinaryOp       Kind = "BinaryOp"
	KindLoop           Kind = "Loop"
	KindIf             Kind = "If"
)

// Loc is a source position. File is filled in from the owning unit.
type Loc struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	EndLine int    `json:"end_line,omitempty"`
	EndCol  int    `json:"end_col,omitempty"`
}

func (l Loc) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// Less orders locations by (file, line, col).
func (l Loc) Less(o Loc) bool {
	if l.File != o.File {
		return l.File < o.File
	}
	if l.Line != o.Line {
		return l.Line < o.Line
	}
	return l.Col < o.Col
}

// Child pairs a role name with an owned child node. Children keep the
// parser's role order so traversal is deterministic.
type Child struct {
	Role string `json:"role"`
	Node *Node  `json:"node"`
}

// Node is one construct in the tree. The parent exclusively owns its
// children; a built tree is never mutated.
type Node struct {
	Kind     Kind              `json:"kind"`
	Loc      Loc               `json:"loc"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []Child           `json:"children,omitempty"`
}

// Attr returns the named captured attribute, or "".
func (n *Node) Attr(key string) string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	return n.Attrs[key]
}

// ChildByRole returns the first child with the given role, or nil.
func (n *Node) ChildByRole(role string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Role == role {
			return c.Node
		}
	}
	return nil
}

// ChildrenByRole returns all children with the given role, in order.
func (n *Node) ChildrenByRole(role string) []*Node {
	var out []*Node
	if n == nil {
		return out
	}
	for _, c := range n.Children {
		if c.Role == role {
			out = append(out, c.Node)
		}
	}
	return out
}

// LastChild returns the final child node, or nil.
func (n *Node) LastChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1].Node
}

// Severity is the ordered diagnostic classification: info < warning < error.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// ParseSeverity maps a config string to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return SeverityInfo, true
	case "warning", "warn":
		return SeverityWarning, true
	case "error":
		return SeverityError, true
	}
	return SeverityInfo, false
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	v, ok := ParseSeverity(str)
	if !ok {
		return fmt.Errorf("unknown severity %q", str)
	}
	*s = v
	return nil
}

// Category groups rules for reporting and rule metadata.
type Category string

const (
	CategoryStyle       Category = "style"
	CategoryCorrectness Category = "correctness"
	CategorySafety      Category = "safety"
	CategoryPerformance Category = "performance"
)

// Finding is one reported rule violation. Equality is structural over
// (RuleID, Loc, Message); the collector dedups on Key.
type Finding struct {
	RuleID   string   `json:"rule_id"`
	Severity Severity `json:"severity"`
	Loc      Loc      `json:"loc"`
	Message  string   `json:"message"`
	Snippet  string   `json:"snippet,omitempty"`
}

// Key is the structural identity used for deduplication.
func (f Finding) Key() string {
	return f.RuleID + "|" + f.Loc.String() + "|" + f.Message
}

// SortFindings applies the canonical (file, line, col, ruleId) order; message
// is the final tiebreak so the order is total.
func SortFindings(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.Loc != b.Loc {
			return a.Loc.Less(b.Loc)
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Message < b.Message
	})
}

// ParseFailure records a unit the external parser could not deliver.
// It is not a Finding and never affects pass/fail policy.
type ParseFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// SourceUnit is one analyzable input: a path plus either a parsed root or a
// parse failure.
type SourceUnit struct {
	Path    string
	Root    *Node
	Failure *ParseFailure
}

// Status is the run outcome contract. Exit codes: 0 / 1 / 130.
type Status string

const (
	StatusPassing   Status = "passing"
	StatusFailing   Status = "failing"
	StatusCancelled Status = "cancelled"
)

// ComputeStatus applies the pass/fail policy: failing when any finding is at
// or above the threshold, cancellation winning over both.
func ComputeStatus(fs []Finding, threshold Severity, cancelled bool) Status {
	if cancelled {
		return StatusCancelled
	}
	for _, f := range fs {
		if f.Severity >= threshold {
			return StatusFailing
		}
	}
	return StatusPassing
}

func (s Status) ExitCode() int {
	switch s {
	case StatusFailing:
		return 1
	case StatusCancelled:
		return 130
	default:
		return 0
	}
}

// Summary counts findings per severity.
type Summary struct {
	Info    int `json:"info"`
	Warning int `json:"warning"`
	Error   int `json:"error"`
}

func (s *Summary) add(sev Severity) {
	switch sev {
	case SeverityError:
		s.Error++
	case SeverityWarning:
		s.Warning++
	default:
		s.Info++
	}
}

// Summarize recounts a finding list.
func Summarize(fs []Finding) Summary {
	var s Summary
	for _, f := range fs {
		s.add(f.Severity)
	}
	return s
}

// Report is the merged, canonically ordered result of one run. It is
// append-only while the orchestrator builds it and immutable once returned.
type Report struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source,omitempty"`
	IRVersion string    `json:"ir_version,omitempty"`

	FailThreshold Severity       `json:"fail_threshold"`
	Findings      []Finding      `json:"findings,omitempty"`
	Failures      []ParseFailure `json:"parse_failures,omitempty"`
	Summary       Summary        `json:"summary"`
	Status        Status         `json:"status"`
}
