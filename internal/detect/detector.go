package detect

import "vmscan/internal/mode"

// Strategy names one of the three prebuilt traversal strategies a detector
// can request.
type Strategy int

const (
	// EntryToReturn enumerates every loop-suppressed path from the entry
	// block to any block whose last instruction is a terminator that is
	// not itself a callsub/retsub (return, err, or an unresolved halt).
	EntryToReturn Strategy = iota
	// EntryToStateChangingOp enumerates paths from the entry block that
	// stop as soon as they reach a block performing a state-changing
	// operation (app_global_put, app_local_put, itxn_submit).
	EntryToStateChangingOp
	// SubroutineInternal enumerates, independently per subroutine, paths
	// from that subroutine's entry to any of its own local terminators,
	// never leaving the subroutine's owned blocks.
	SubroutineInternal
)

// Detector is one registered check: a stable identity, its
// classification, and the function invoked once per enumerated path that
// its Strategy produces.
type Detector interface {
	ID() string
	Category() Category
	Severity() Severity
	Confidence() Confidence
	Strategy() Strategy
	// AppliesTo reports whether this detector is meaningful for programs of
	// the given mode; the framework skips the detector entirely otherwise.
	AppliesTo(m mode.Mode) bool
	// Detect inspects one path and returns zero or more Findings. It must
	// not mutate path or any block it reaches.
	Detect(path *Path) []Finding
}
