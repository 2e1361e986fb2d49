// Package callgraph implements the call-graph recoverer: it pairs each
// callsub with the retsubs reachable inside its callee, synthesizes the
// deferred retsub-to-return-site edges the CFG builder left as a
// placeholder, and produces the subroutine call graph.
package callgraph

import (
	"strconv"

	"vmscan/internal/cfg"
)

// MainSubroutine is the reserved name for the program's entry region, which
// is not itself introduced by a callsub.
const MainSubroutine = "main"

// Subroutine is one node of the CallGraph: an entry block, its owned blocks,
// and the call-sites that target it.
type Subroutine struct {
	Name    string
	Entry   *cfg.Block
	Owned   map[int]bool // block ID -> member
	CallSites []*cfg.Block
}

// CallEdge is one edge of the CallGraph: a call-site in From calling into To.
type CallEdge struct {
	From, To string
	Site     *cfg.Block
}

// CallGraph is the recovered subroutine call graph.
type CallGraph struct {
	Subroutines map[string]*Subroutine
	Edges       []CallEdge
}

// SubroutineOf returns the name of the subroutine owning block b.
func (g *CallGraph) SubroutineOf(b *cfg.Block) string { return b.Subroutine }

// Recover runs the call-graph recoverer over an already-built CFG. It mutates g's blocks in place
// (setting Subroutine tags and appending RetsubToReturnSite edges), matching
// 's "Blocks are built once by the CFG builder, then annotated in place" lifecycle.
func Recover(g *cfg.Graph) *CallGraph {
	entryName := labelEntryNames(g)

	cg := &CallGraph{Subroutines: map[string]*Subroutine{}}
	for id, name := range entryName {
		cg.Subroutines[name] = &Subroutine{Name: name, Entry: g.Blocks[id], Owned: map[int]bool{}}
	}

	// Reverse map: entry block ID -> subroutine name, for the "don't cross
	// into another subroutine's entry" ownership rule.
	entryBlockIDs := map[int]bool{}
	for id := range entryName {
		entryBlockIDs[id] = true
	}

	// entryName is a map, so this range runs in an unspecified order; if a
	// block were ever owned by two subroutines the last writer here would
	// win nondeterministically. That never happens in practice because
	// ownedBlocks stops at any other subroutine's entry, keeping owned sets
	// disjoint by construction, but that invariant lives in ownedBlocks,
	// not here.
	for id, name := range entryName {
		owned := ownedBlocks(g, id, entryBlockIDs)
		sub := cg.Subroutines[name]
		sub.Owned = owned
		for bid := range owned {
			g.Blocks[bid].Subroutine = name
		}
	}

	// Pair call-sites with callees and synthesize retsub-to-return-site
	// edges.
	for _, b := range g.Blocks {
		last := g.Program.Instructions[b.Last]
		if !last.IsCallsub {
			continue
		}
		var calleeEntryID int
		found := false
		for _, e := range b.Succs {
			if e.Kind == cfg.CallsubToEntry {
				calleeEntryID, found = e.To, true
				break
			}
		}
		if !found {
			continue
		}
		calleeName := entryName[calleeEntryID]
		callee := cg.Subroutines[calleeName]
		callerName := b.Subroutine
		callee.CallSites = append(callee.CallSites, b)
		cg.Edges = append(cg.Edges, CallEdge{From: callerName, To: calleeName, Site: b})

		fallthroughID, ok := fallthroughBlockID(g, b)
		if !ok {
			continue // no return site to wire (malformed tail call); leave unresolved
		}
		for bid := range callee.Owned {
			rb := g.Blocks[bid]
			if g.Program.Instructions[rb.Last].IsRetsub {
				edge := cfg.Edge{From: rb.ID, To: fallthroughID, Kind: cfg.RetsubToReturnSite}
				rb.Succs = append(rb.Succs, edge)
				g.Blocks[fallthroughID].Preds = append(g.Blocks[fallthroughID].Preds, edge)
			}
		}
	}

	return cg
}

func fallthroughBlockID(g *cfg.Graph, b *cfg.Block) (int, bool) {
	block, ok := g.BlockForInstruction(b.Last + 1)
	if !ok {
		return 0, false
	}
	return block.ID, true
}

// labelEntryNames returns, for block 0 (always "main") and every distinct
// callsub target block, the subroutine name to use: a label that resolves to
// that block's first instruction (Labels is a map, so when several aliases
// resolve there, which one is chosen is not defined), or a synthesized
// "sub<id>" if none does.
func labelEntryNames(g *cfg.Graph) map[int]string {
	out := map[int]string{0: MainSubroutine}
	for _, b := range g.Blocks {
		last := g.Program.Instructions[b.Last]
		if !last.IsCallsub {
			continue
		}
		for _, e := range b.Succs {
			if e.Kind != cfg.CallsubToEntry {
				continue
			}
			if _, ok := out[e.To]; ok {
				continue
			}
			out[e.To] = subroutineName(g, e.To)
		}
	}
	return out
}

func subroutineName(g *cfg.Graph, blockID int) string {
	target := g.Blocks[blockID]
	for name, idx := range g.Program.Labels {
		if idx == target.First {
			return name
		}
	}
	return blockName(blockID)
}

func blockName(id int) string {
	return "sub" + strconv.Itoa(id)
}

// ownedBlocks computes the set of blocks reachable from entryID without
// crossing a CallsubToEntry edge (callees are not owned; the call's
// return-site block is followed instead) and without traversing past a
// retsub block (no successors to follow there yet) or into another
// subroutine's entry block.
func ownedBlocks(g *cfg.Graph, entryID int, otherEntries map[int]bool) map[int]bool {
	owned := map[int]bool{entryID: true}
	stack := []int{entryID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b := g.Blocks[id]
		for _, e := range b.Succs {
			to := e.To
			if e.Kind == cfg.CallsubToEntry {
				ft, ok := fallthroughBlockID(g, b)
				if !ok {
					continue
				}
				to = ft
			}
			if to == cfg.NoTarget || owned[to] {
				continue
			}
			if otherEntries[to] && to != entryID {
				continue
			}
			owned[to] = true
			stack = append(stack, to)
		}
	}
	return owned
}
