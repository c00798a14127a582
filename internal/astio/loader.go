// Package astio reads the AST documents produced by the external parser
// frontend. scalint never parses source text itself; it consumes one
// serialized tree per source file.
package astio

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codewithboateng/scalint/internal/ir"
)

// DocSuffix is the file suffix the frontend writes, one document per unit.
const DocSuffix = ".ast.json"

type document struct {
	Path string   `json:"path"`
	Root *ir.Node `json:"root"`
}

// LoadDir collects every AST document under path into source units, in
// lexical path order. A malformed document becomes a ParseFailure unit; it
// never aborts the load.
func LoadDir(path string) ([]ir.SourceUnit, error) {
	var files []string
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), DocSuffix) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	sort.Strings(files)

	units := make([]ir.SourceUnit, 0, len(files))
	for _, p := range files {
		units = append(units, LoadFile(p))
	}
	return units, nil
}

// LoadFile reads a single AST document.
func LoadFile(p string) ir.SourceUnit {
	f, err := os.Open(p)
	if err != nil {
		return failed(p, err.Error())
	}
	defer f.Close()
	return Decode(f, p)
}

// Decode reads one AST document from r. The unit path is the document's own
// path field when present, else the reader's path.
func Decode(r io.Reader, path string) ir.SourceUnit {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return failed(path, "invalid AST document: "+err.Error())
	}
	if doc.Path != "" {
		path = doc.Path
	}
	if doc.Root == nil {
		return failed(path, "AST document has no root node")
	}
	if err := validate(doc.Root); err != nil {
		return failed(path, err.Error())
	}
	return ir.SourceUnit{Path: path, Root: doc.Root}
}

func failed(path, reason string) ir.SourceUnit {
	return ir.SourceUnit{Path: path, Failure: &ir.ParseFailure{Path: path, Reason: reason}}
}

func validate(n *ir.Node) error {
	if n.Kind == "" {
		return fmt.Errorf("node at %d:%d has no kind", n.Loc.Line, n.Loc.Col)
	}
	for _, c := range n.Children {
		if c.Node == nil {
			return fmt.Errorf("child role %q of %s node has no node", c.Role, n.Kind)
		}
		if err := validate(c.Node); err != nil {
			return err
		}
	}
	return nil
}
