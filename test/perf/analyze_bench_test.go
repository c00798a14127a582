package perf

import (
	"context"
	"fmt"
	"testing"

	"github.com/codewithboateng/scalint/internal/engine"
	"github.com/codewithboateng/scalint/internal/ir"
)

// synthUnit builds a unit with the given number of function bodies, each
// containing constructs that exercise several rule interest sets.
func synthUnit(path string, funcs int) ir.SourceUnit {
	file := &ir.Node{Kind: ir.KindFile, Loc: ir.Loc{Line: 1, Col: 1}}
	line := 1
	for i := 0; i < funcs; i++ {
		line++
		body := &ir.Node{Kind: ir.KindBlock, Loc: ir.Loc{Line: line, Col: 10}, Children: []ir.Child{
			{Role: "stmt", Node: &ir.Node{Kind: ir.KindVarDecl, Loc: ir.Loc{Line: line + 1, Col: 3},
				Attrs: map[string]string{"name": fmt.Sprintf("acc%d", i)}}},
			{Role: "stmt", Node: &ir.Node{Kind: ir.KindLoop, Loc: ir.Loc{Line: line + 2, Col: 3}, Children: []ir.Child{
				{Role: "body", Node: &ir.Node{Kind: ir.KindBlock, Loc: ir.Loc{Line: line + 2, Col: 20}, Children: []ir.Child{
					{Role: "stmt", Node: &ir.Node{Kind: ir.KindAssign, Loc: ir.Loc{Line: line + 3, Col: 5},
						Attrs: map[string]string{"name": fmt.Sprintf("acc%d", i), "op": "+=", "type": "String"}}},
				}}},
			}}},
			{Role: "stmt", Node: &ir.Node{Kind: ir.KindNullLiteral, Loc: ir.Loc{Line: line + 4, Col: 5}}},
		}}
		file.Children = append(file.Children, ir.Child{Role: "decl", Node: &ir.Node{
			Kind: ir.KindFuncDecl, Loc: ir.Loc{Line: line, Col: 1},
			Attrs:    map[string]string{"name": fmt.Sprintf("f%d", i)},
			Children: []ir.Child{{Role: "body", Node: body}},
		}})
		line += 5
	}
	return ir.SourceUnit{Path: path, Root: file}
}

func benchmarkAnalyze(b *testing.B, unitCount, funcsPerUnit, workers int) {
	units := make([]ir.SourceUnit, unitCount)
	for i := range units {
		units[i] = synthUnit(fmt.Sprintf("bench/u%03d.scala", i), funcsPerUnit)
	}
	cfg := engine.DefaultConfig()
	cfg.MaxConcurrency = workers
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Analyze(ctx, units, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAnalyzeSmall(b *testing.B)        { benchmarkAnalyze(b, 4, 10, 1) }
func BenchmarkAnalyzeMedium(b *testing.B)       { benchmarkAnalyze(b, 32, 50, 1) }
func BenchmarkAnalyzeMediumPar4(b *testing.B)   { benchmarkAnalyze(b, 32, 50, 4) }
func BenchmarkAnalyzeLargeUnit(b *testing.B)    { benchmarkAnalyze(b, 1, 2000, 1) }
func BenchmarkAnalyzeManyUnitsPar(b *testing.B) { benchmarkAnalyze(b, 128, 20, 8) }
