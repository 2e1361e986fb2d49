package detect

import (
	"vmscan/internal/callgraph"
	"vmscan/internal/cfg"
	"vmscan/internal/mode"
)

// stateChangingMnemonics are the opcodes EntryToStateChangingOp stops at
//.
var stateChangingMnemonics = map[string]bool{
	"app_global_put": true,
	"app_local_put":  true,
	"itxn_submit":    true,
}

func hasStateChangingOp(b *cfg.Block, g *cfg.Graph) bool {
	for _, ins := range b.Instructions(g.Program) {
		if stateChangingMnemonics[ins.Mnemonic] {
			return true
		}
	}
	return false
}

// isTerminal reports whether b has no successor that leads anywhere further
// (every outgoing edge is a Halt sentinel, or there are none at all — an
// unresolved retsub with no paired call-site, for instance).
func isTerminal(b *cfg.Block) bool {
	for _, e := range b.Succs {
		if e.To != cfg.NoTarget {
			return false
		}
	}
	return true
}

// walk performs the shared loop-suppressed DFS: stopAt reports whether a
// block ends the path there (without descending further); allowed, when
// non-nil, restricts which blocks may be entered at all.
func walk(g *cfg.Graph, start *cfg.Block, allowed map[int]bool, stopAt func(*cfg.Block) bool) []*Path {
	var out []*Path
	visited := map[int]bool{}
	var cur []*cfg.Block

	var dfs func(b *cfg.Block)
	dfs = func(b *cfg.Block) {
		visited[b.ID] = true
		cur = append(cur, b)
		defer func() {
			cur = cur[:len(cur)-1]
			visited[b.ID] = false
		}()

		if isTerminal(b) || stopAt(b) {
			out = append(out, &Path{Graph: g, Blocks: append([]*cfg.Block(nil), cur...)})
			return
		}

		advanced := false
		for _, e := range b.Succs {
			if e.To == cfg.NoTarget || visited[e.To] {
				continue
			}
			if allowed != nil && !allowed[e.To] {
				continue
			}
			advanced = true
			dfs(g.Blocks[e.To])
		}
		if !advanced {
			// Every successor was already on this path (a loop back-edge)
			// or filtered out: the path still ends here, evidence intact.
			out = append(out, &Path{Graph: g, Blocks: append([]*cfg.Block(nil), cur...)})
		}
	}

	dfs(start)
	return out
}

// PathsFor enumerates the paths a given Strategy produces over g/cg.
func PathsFor(strategy Strategy, g *cfg.Graph, cg *callgraph.CallGraph) []*Path {
	switch strategy {
	case EntryToReturn:
		return walk(g, g.Entry(), nil, func(b *cfg.Block) bool { return false })
	case EntryToStateChangingOp:
		return walk(g, g.Entry(), nil, func(b *cfg.Block) bool { return hasStateChangingOp(b, g) })
	case SubroutineInternal:
		var out []*Path
		for _, sub := range cg.Subroutines {
			out = append(out, walk(g, sub.Entry, sub.Owned, func(b *cfg.Block) bool { return false })...)
		}
		return out
	default:
		return nil
	}
}

// Run invokes every applicable detector in reg over g/cg's enumerated paths,
// deduplicating findings A detector whose Detect panics is
// considered a DetectorInternal failure: it is skipped and the rest proceed
// ( "Log, skip that detector, proceed with others" — the CLI layer does
// the logging; Run only guarantees it does not abort the batch).
func Run(g *cfg.Graph, cg *callgraph.CallGraph, progMode mode.Mode, reg *Registry) ([]Finding, []error) {
	pathCache := map[Strategy][]*Path{}
	seen := map[string]bool{}
	var findings []Finding
	var errs []error

	for _, d := range reg.All() {
		if !d.AppliesTo(progMode) {
			continue
		}
		paths, ok := pathCache[d.Strategy()]
		if !ok {
			paths = PathsFor(d.Strategy(), g, cg)
			pathCache[d.Strategy()] = paths
		}
		found, err := runDetectorSafely(d, paths, seen)
		findings = append(findings, found...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return findings, errs
}

func runDetectorSafely(d Detector, paths []*Path, seen map[string]bool) (out []Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = newInternalError(d.ID(), r)
		}
	}()
	for _, p := range paths {
		for _, f := range d.Detect(p) {
			key := f.dedupKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, f)
		}
	}
	return out, nil
}
