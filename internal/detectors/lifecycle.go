// Package detectors is the built-in detector library: each check is
// grounded on a single field or pattern the dataflow engine
// (internal/dataflow) or parser (internal/parser) already exposes.
package detectors

import (
	"fmt"

	"vmscan/internal/dataflow"
	"vmscan/internal/detect"
	"vmscan/internal/mode"
)

// onCompletionDeleteUpdate are the numeric OnCompletion values that mutate or
// remove the application itself.
var onCompletionDeleteUpdate = map[string]string{
	"5": "DeleteApplication",
	"4": "UpdateApplication",
}

type deletableDetector struct{ id string; wanted string; unprotected bool }

func (d deletableDetector) ID() string               { return d.id }
func (d deletableDetector) Category() detect.Category { return detect.CategorySecurity }
func (d deletableDetector) Severity() detect.Severity {
	if d.unprotected {
		return detect.High
	}
	return detect.Medium
}
func (d deletableDetector) Confidence() detect.Confidence { return detect.ConfidenceMedium }
func (d deletableDetector) Strategy() detect.Strategy     { return detect.EntryToReturn }
func (d deletableDetector) AppliesTo(m mode.Mode) bool    { return m == mode.Stateful }

func (d deletableDetector) Detect(path *detect.Path) []detect.Finding {
	oc, ok := dataflow.LookupField("OnCompletion")
	if !ok {
		return nil
	}
	last := len(path.Blocks) - 1
	state, ok := path.StateAfter(last)
	if !ok || !state[oc].Contains(d.wanted) {
		return nil
	}
	if d.unprotected {
		sender, ok := dataflow.LookupField("Sender")
		if !ok {
			return nil
		}
		if _, singleton := state[sender].IsSingleton(); singleton {
			return nil // Sender is pinned to one address: not unprotected
		}
	}
	label := onCompletionDeleteUpdate[d.wanted]
	desc := fmt.Sprintf("path reaches a terminator with OnCompletion=%s still reachable", label)
	if d.unprotected {
		desc += ", unguarded by a Sender check"
	}
	return []detect.Finding{{
		DetectorID:  d.id,
		Category:    d.Category(),
		Severity:    d.Severity(),
		Confidence:  d.Confidence(),
		Description: desc,
		Path:        path.BlockIDs(),
	}}
}

// IsDeletable reports paths where DeleteApplication remains a reachable
// OnCompletion value.
func IsDeletable() detect.Detector { return deletableDetector{id: "is-deletable", wanted: "5"} }

// IsUpdatable reports paths where UpdateApplication remains reachable.
func IsUpdatable() detect.Detector { return deletableDetector{id: "is-updatable", wanted: "4"} }

// UnprotectedDeletable is IsDeletable further gated on no Sender refinement.
func UnprotectedDeletable() detect.Detector {
	return deletableDetector{id: "unprotected-deletable", wanted: "5", unprotected: true}
}

// UnprotectedUpdatable is IsUpdatable further gated on no Sender refinement.
func UnprotectedUpdatable() detect.Detector {
	return deletableDetector{id: "unprotected-updatable", wanted: "4", unprotected: true}
}
