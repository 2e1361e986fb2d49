package cfg

import (
	"sort"

	"vmscan/internal/parser"
)

// Build computes leaders, forms maximal blocks between them, then links
// each block's outgoing edges from its terminating instruction. callsub
// origins get only their CallsubToEntry edge here; the matching
// RetsubToReturnSite edge is synthesized by internal/callgraph once the
// call graph is known.
func Build(p *parser.Program) (*Graph, error) {
	leaders := computeLeaders(p)

	g := &Graph{
		Program:    p,
		blockOf:    make(map[int]int, len(p.Instructions)),
		blockOfLbl: make(map[string]int, len(p.Labels)),
	}

	for i, start := range leaders {
		end := len(p.Instructions) - 1
		if i+1 < len(leaders) {
			end = leaders[i+1] - 1
		}
		b := &Block{ID: i, First: start, Last: end, Subroutine: "main"}
		g.Blocks = append(g.Blocks, b)
		for idx := start; idx <= end; idx++ {
			g.blockOf[idx] = i
		}
	}
	for name, idx := range p.Labels {
		if id, ok := g.blockOf[idx]; ok {
			g.blockOfLbl[name] = id
		}
	}

	for _, b := range g.Blocks {
		if err := linkBlock(g, b, p); err != nil {
			return nil, err
		}
	}
	populatePredecessors(g)

	return g, nil
}

// computeLeaders returns the sorted, deduplicated set of leader instruction
// indices: index 0, every label target, and every instruction immediately
// following a terminator or branch ( step 1).
func computeLeaders(p *parser.Program) []int {
	set := map[int]bool{0: true}
	for _, idx := range p.Labels {
		set[idx] = true
	}
	for i, ins := range p.Instructions {
		if (ins.IsTerminator || ins.IsBranch) && i+1 < len(p.Instructions) {
			set[i+1] = true
		}
	}
	out := make([]int, 0, len(set))
	for idx := range set {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func linkBlock(g *Graph, b *Block, p *parser.Program) error {
	last := p.Instructions[b.Last]
	addSucc := func(to int, kind EdgeKind) {
		b.Succs = append(b.Succs, Edge{From: b.ID, To: to, Kind: kind})
	}

	switch {
	case last.IsErr, last.Mnemonic == "return":
		addSucc(NoTarget, Halt)
		return nil

	case last.IsRetsub:
		// No static successor yet; internal/callgraph resolves this once
		// call-sites are paired with their callees ( step 3, `retsub`).
		return nil

	case last.Mnemonic == "switch" || last.Mnemonic == "match":
		for _, imm := range last.Immediates {
			name := imm.(string)
			target, ok := g.BlockForLabel(name)
			if !ok {
				return newError(p.File, "switch/match target %q does not resolve to a block", name)
			}
			addSucc(target.ID, BranchTaken)
		}
		if fb, ok := fallthroughBlock(g, b); ok {
			addSucc(fb.ID, BranchNotTaken)
		}
		return nil

	case last.Mnemonic == "b":
		name := last.Immediates[0].(string)
		target, ok := g.BlockForLabel(name)
		if !ok {
			return newError(p.File, "jump target %q does not resolve to a block", name)
		}
		addSucc(target.ID, Jump)
		return nil

	case last.Mnemonic == "bnz" || last.Mnemonic == "bz":
		name := last.Immediates[0].(string)
		target, ok := g.BlockForLabel(name)
		if !ok {
			return newError(p.File, "branch target %q does not resolve to a block", name)
		}
		addSucc(target.ID, BranchTaken)
		fb, ok := fallthroughBlock(g, b)
		if !ok {
			return newError(p.File, "branch at line %d falls through off the end of the program", last.Line)
		}
		addSucc(fb.ID, BranchNotTaken)
		return nil

	case last.IsCallsub:
		name := last.Immediates[0].(string)
		target, ok := g.BlockForLabel(name)
		if !ok {
			return newError(p.File, "callsub target %q does not resolve to a block", name)
		}
		addSucc(target.ID, CallsubToEntry)
		return nil

	default:
		fb, ok := fallthroughBlock(g, b)
		if !ok {
			return newError(p.File, "program falls off the end at line %d without a terminator", last.Line)
		}
		addSucc(fb.ID, Fallthrough)
		return nil
	}
}

func fallthroughBlock(g *Graph, b *Block) (*Block, bool) {
	return g.BlockForInstruction(b.Last + 1)
}

func populatePredecessors(g *Graph) {
	for _, b := range g.Blocks {
		for _, e := range b.Succs {
			if e.To == NoTarget {
				continue
			}
			target := g.Blocks[e.To]
			target.Preds = append(target.Preds, Edge{From: b.ID, To: target.ID, Kind: e.Kind})
		}
	}
}
