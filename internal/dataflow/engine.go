package dataflow

import (
	"vmscan/internal/cfg"
)

// DefaultWidening is the widening cap W (default 16).
const DefaultWidening = 16

// Engine runs the fixed-point worklist algorithm that propagates field
// refinements across a CFG until every block's in-state stops changing.
type Engine struct {
	// Widening is the per-field set-size cap W before a value collapses to
	// ⊤ ( "DataflowCap": silent, widen to ⊤).
	Widening int
	// Seed optionally overrides the entry block's otherwise-⊤ starting
	// state for fields an external group configuration has constrained
	//.
	Seed State

	capEvents []error
}

// NewEngine returns an Engine with the default widening cap and no seed.
func NewEngine() *Engine {
	return &Engine{Widening: DefaultWidening}
}

// CapEvents reports every DataflowCap occurrence from the most recent
// Run call, for the caller to log at Debug level.
func (e *Engine) CapEvents() []error { return e.capEvents }

// blockStates is what Block.Dataflow is asserted to after Run: the joined
// in-state and the transfer's resulting out-states, keyed by the edge kind
// they apply to (cfg.Fallthrough covers every edge kind with no override).
type blockStates struct {
	In  State
	Out transfer
}

// BlockIn returns block b's annotated in-state, or ok=false if Run has not
// been called on its graph (or b belongs to a different graph).
func BlockIn(b *cfg.Block) (State, bool) {
	bs, ok := b.Dataflow.(*blockStates)
	if !ok {
		return nil, false
	}
	return bs.In, true
}

// StateAlongEdge returns the out-state a block contributes along one
// specific outgoing edge, honoring any branch/switch-specific refinement.
func StateAlongEdge(b *cfg.Block, e cfg.Edge) (State, bool) {
	bs, ok := b.Dataflow.(*blockStates)
	if !ok {
		return nil, false
	}
	return bs.Out.forTarget(e.To, e.Kind), true
}

// BlockOut returns the state in force having just executed block b's own
// straight-line effects (its in-state plus any assert-guarded refinement
// found inside b), before any branch- or case-specific split. Detectors use
// this rather than BlockIn to observe a guard that lives in the very block
// they are inspecting ('s field-guard and structural-scan checks).
func BlockOut(b *cfg.Block) (State, bool) {
	bs, ok := b.Dataflow.(*blockStates)
	if !ok {
		return nil, false
	}
	return bs.Out.forKind(cfg.Fallthrough), true
}

// Run computes the fixed point over g and writes each block's Dataflow slot
// in place. It terminates because
// the per-field lattice has finite height (W+2) and there are finitely many
// blocks and fields.
func (e *Engine) Run(g *cfg.Graph) {
	w := e.Widening
	if w <= 0 {
		w = DefaultWidening
	}

	in := make([]State, len(g.Blocks))
	for i := range in {
		in[i] = NewBottomState()
	}
	entryState := NewTopState()
	if e.Seed != nil {
		for f := range entryState {
			if f < len(e.Seed) && e.Seed[f].Kind != KindBottom {
				entryState[f] = e.Seed[f]
			}
		}
	}
	in[g.Entry().ID] = entryState

	queue := []int{g.Entry().ID}
	queued := map[int]bool{g.Entry().ID: true}

	transfers := make([]transfer, len(g.Blocks))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		queued[id] = false

		b := g.Blocks[id]
		tr := computeTransfer(b, g, in[id], w)
		transfers[id] = tr

		for _, edge := range b.Succs {
			if edge.To == cfg.NoTarget {
				continue // halt edge: contributes nothing further
			}
			contribution := tr.forTarget(edge.To, edge.Kind)
			joined := e.joinWithCapTracking(in[edge.To], contribution, edge.To, w)
			if !EqualStates(joined, in[edge.To]) {
				in[edge.To] = joined
				if !queued[edge.To] {
					queue = append(queue, edge.To)
					queued[edge.To] = true
				}
			}
		}
	}

	for _, b := range g.Blocks {
		b.Dataflow = &blockStates{In: in[b.ID], Out: transfers[b.ID]}
	}
}

// joinWithCapTracking is JoinStates plus a CapError recorded for any field
// that newly widened to ⊤ purely because the union exceeded w (as opposed to
// a contribution that was already ⊤).
func (e *Engine) joinWithCapTracking(a, b State, blockID, w int) State {
	out := make(State, len(a))
	for i := range a {
		out[i] = Join(a[i], b[i], w)
		if out[i].Kind == KindTop && a[i].Kind == KindSet && b[i].Kind == KindSet {
			e.capEvents = append(e.capEvents, newCapError(Field(i), blockID))
		}
	}
	return out
}

// transfer is one block's computed contribution to its successors: a base
// state for edge kinds with no specific refinement, plus overrides for edge
// kinds that do (branch-taken/not-taken, or per-case switch/match edges).
type transfer struct {
	base      State
	overrides map[cfg.EdgeKind]State
	// bySucc holds per-successor overrides for switch/match, where every
	// case edge has the same Kind (BranchTaken) but a different target and
	// refinement; keyed by the successor block ID.
	bySucc map[int]State
}

func (t transfer) forKind(k cfg.EdgeKind) State {
	if s, ok := t.overrides[k]; ok {
		return s
	}
	return t.base
}

func (t transfer) forTarget(blockID int, k cfg.EdgeKind) State {
	if s, ok := t.bySucc[blockID]; ok {
		return s
	}
	return t.forKind(k)
}

// computeTransfer implements the per-block transfer function: it
// applies assert-guarded refinements to the running state, then computes any
// branch- or case-specific override on top of that base.
func computeTransfer(b *cfg.Block, g *cfg.Graph, inState State, w int) transfer {
	instrs := b.Instructions(g.Program)
	base := inState.Clone()
	applyAssertClauses(instrs, base)

	t := transfer{base: base, overrides: map[cfg.EdgeKind]State{}}

	last := instrs[len(instrs)-1]
	switch last.Mnemonic {
	case "bnz", "bz":
		field, whenTaken, whenNotTaken, ok := branchRefinement(instrs)
		if ok {
			taken := base.Clone()
			taken[field] = whenTaken
			notTaken := base.Clone()
			notTaken[field] = whenNotTaken
			t.overrides[cfg.BranchTaken] = taken
			t.overrides[cfg.BranchNotTaken] = notTaken
		}
	case "switch", "match":
		if field, ok := selectorAccessor(instrs); ok {
			t.bySucc = map[int]State{}
			caseIdx := 0
			for _, e := range b.Succs {
				if e.Kind != cfg.BranchTaken {
					continue
				}
				s := base.Clone()
				s[field] = Single(itoaSmall(caseIdx))
				t.bySucc[e.To] = s
				caseIdx++
			}
		}
	}

	return t
}

func itoaSmall(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
