// Package analysis wires the parser through the dataflow engine into the single per-program pipeline
// every CLI subcommand runs: parse, build the CFG, recover the call graph,
// then propagate dataflow facts. It is the one place that sequences those
// components; nothing downstream (detect, printer, regexscan) depends on it.
package analysis

import (
	"fmt"
	"os"

	"vmscan/internal/callgraph"
	"vmscan/internal/cfg"
	"vmscan/internal/dataflow"
	"vmscan/internal/parser"
)

// Result bundles one program's fully-analyzed pipeline output.
type Result struct {
	File      string
	Program   *parser.Program
	Graph     *cfg.Graph
	CallGraph *callgraph.CallGraph
	Engine    *dataflow.Engine
}

// Analyze runs parsing through dataflow over the program at path. seed, if
// non-nil, is the group-configuration-derived starting state for the entry
// block; pass nil for the ordinary all-⊤ default.
func Analyze(path string, seed dataflow.State) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("analysis: read %s: %w", path, err)
	}

	prog, err := parser.Parse(path, string(data))
	if err != nil {
		return nil, err // already a *parser.ParseError
	}

	graph, err := cfg.Build(prog)
	if err != nil {
		return nil, err // already a *cfg.Error
	}

	cg := callgraph.Recover(graph)

	eng := dataflow.NewEngine()
	eng.Seed = seed
	eng.Run(graph)

	return &Result{File: path, Program: prog, Graph: graph, CallGraph: cg, Engine: eng}, nil
}
