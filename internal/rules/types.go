package rules

import "github.com/codewithboateng/scalint/internal/ir"

// Rule is a single self-contained check: a pure predicate over tree nodes
// plus metadata. Rules never mutate the tree and never depend on another
// rule's output, which is what allows parallel dispatch.
type Rule struct {
	ID       string
	Category ir.Category
	Severity ir.Severity // default; overridable per run
	Summary  string
	Docs     string
	// Kinds is the interest set: the engine only calls Eval for nodes of
	// these kinds.
	Kinds []ir.Kind
	// Eval inspects the node in its lexical context and returns findings.
	// An empty result means the condition does not hold.
	Eval func(n *ir.Node, rctx *Context) []ir.Finding
}

// Context carries the lexical surroundings of the node under evaluation.
// It is owned by one traversal and valid only for the duration of the Eval
// call; rules must not retain it.
type Context struct {
	Path      string
	ancestors []*ir.Node // root first, immediate parent last
}

// NewContext builds a context for one unit traversal. The engine mutates the
// ancestor stack between Eval calls.
func NewContext(path string) *Context {
	return &Context{Path: path}
}

// Push and Pop maintain the ancestor stack during the walk.
func (c *Context) Push(n *ir.Node) { c.ancestors = append(c.ancestors, n) }
func (c *Context) Pop()            { c.ancestors = c.ancestors[:len(c.ancestors)-1] }

// Parent returns the immediate parent of the current node, or nil at root.
func (c *Context) Parent() *ir.Node {
	if len(c.ancestors) == 0 {
		return nil
	}
	return c.ancestors[len(c.ancestors)-1]
}

// Ancestors returns the ancestor chain, root first.
func (c *Context) Ancestors() []*ir.Node { return c.ancestors }

// Nearest returns the closest ancestor of the given kind, or nil.
func (c *Context) Nearest(kind ir.Kind) *ir.Node {
	for i := len(c.ancestors) - 1; i >= 0; i-- {
		if c.ancestors[i].Kind == kind {
			return c.ancestors[i]
		}
	}
	return nil
}

// Within reports whether any ancestor has the given kind.
func (c *Context) Within(kind ir.Kind) bool { return c.Nearest(kind) != nil }

// Locate stamps the unit path onto a node location.
func (c *Context) Locate(n *ir.Node) ir.Loc {
	loc := n.Loc
	loc.File = c.Path
	return loc
}
