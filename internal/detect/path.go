package detect

import (
	"vmscan/internal/cfg"
	"vmscan/internal/dataflow"
	"vmscan/internal/parser"
)

// Path is one enumerated walk through the CFG, from an entry block to a
// block satisfying a traversal strategy's stopping condition. A path never
// repeats a block.
type Path struct {
	Graph  *cfg.Graph
	Blocks []*cfg.Block
}

// Last returns the path's final block.
func (p *Path) Last() *cfg.Block {
	return p.Blocks[len(p.Blocks)-1]
}

// BlockIDs returns the path as a slice of block IDs, the evidence form
// stored on a Finding.
func (p *Path) BlockIDs() []int {
	ids := make([]int, len(p.Blocks))
	for i, b := range p.Blocks {
		ids[i] = b.ID
	}
	return ids
}

// StateAt returns the joined dataflow in-state in force at the i'th block of
// the path. The
// engine is context-insensitive, so this is simply the block's own computed
// in-state, not re-derived along this particular path.
func (p *Path) StateAt(i int) (dataflow.State, bool) {
	return dataflow.BlockIn(p.Blocks[i])
}

// StateAfter returns the state once the i'th block's own straight-line
// effects (any assert-guarded refinement it contains) have applied, so a
// guard living in that very block is visible to a detector inspecting it.
func (p *Path) StateAfter(i int) (dataflow.State, bool) {
	return dataflow.BlockOut(p.Blocks[i])
}

// Instructions returns every instruction along the path, in order, block by
// block.
func (p *Path) Instructions() []parser.Instruction {
	var out []parser.Instruction
	for _, b := range p.Blocks {
		out = append(out, b.Instructions(p.Graph.Program)...)
	}
	return out
}

// Contains reports whether block id appears anywhere on the path.
func (p *Path) Contains(id int) bool {
	for _, b := range p.Blocks {
		if b.ID == id {
			return true
		}
	}
	return false
}
