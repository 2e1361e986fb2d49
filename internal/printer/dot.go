// Package printer holds pure consumers of an already-built CFG, call
// graph, and finding list. Nothing here parses source or computes
// dataflow; it only renders what internal/cfg, internal/callgraph, and
// internal/detect have already produced.
package printer

import (
	"fmt"
	"strings"

	"vmscan/internal/callgraph"
	"vmscan/internal/cfg"
)

// DOTGraph renders a program's CFG as a Graphviz DOT document. No
// third-party DOT-rendering library appears anywhere in the retrieved
// examples, so this builds the text directly with strings.Builder, the same
// "assemble a debug string by hand" idiom the rest of this module's
// disassembly helpers use.
func DOTGraph(g *cfg.Graph) string {
	var b strings.Builder
	b.WriteString("digraph cfg {\n")
	b.WriteString("  node [shape=box, fontname=monospace];\n")

	for _, blk := range g.Blocks {
		label := blockLabel(blk, g)
		fmt.Fprintf(&b, "  b%d [label=%q];\n", blk.ID, label)
	}
	for _, blk := range g.Blocks {
		for _, e := range blk.Succs {
			if e.To == cfg.NoTarget {
				continue
			}
			fmt.Fprintf(&b, "  b%d -> b%d [label=%q];\n", e.From, e.To, e.Kind.String())
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func blockLabel(blk *cfg.Block, g *cfg.Graph) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("block %d (sub %s)", blk.ID, blockSubroutine(blk)))
	for _, ins := range blk.Instructions(g.Program) {
		lines = append(lines, ins.String())
	}
	return strings.Join(lines, "\\l") + "\\l"
}

func blockSubroutine(blk *cfg.Block) string {
	if blk.Subroutine == "" {
		return "?"
	}
	return blk.Subroutine
}

// DOTCallGraph renders the recovered subroutine call graph as DOT.
func DOTCallGraph(cg *callgraph.CallGraph) string {
	var b strings.Builder
	b.WriteString("digraph callgraph {\n")
	b.WriteString("  node [shape=ellipse, fontname=monospace];\n")
	for name := range cg.Subroutines {
		fmt.Fprintf(&b, "  %q;\n", name)
	}
	for _, e := range cg.Edges {
		fmt.Fprintf(&b, "  %q -> %q [label=\"site b%d\"];\n", e.From, e.To, e.Site.ID)
	}
	b.WriteString("}\n")
	return b.String()
}
