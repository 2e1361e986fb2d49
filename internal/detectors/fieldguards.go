package detectors

import (
	"fmt"

	"vmscan/internal/dataflow"
	"vmscan/internal/detect"
	"vmscan/internal/mode"
)

// unguardedFieldDetector reports any path reaching a terminator where the
// named field is still unconstrained.
type unguardedFieldDetector struct {
	id, field, phrase string
}

func (d unguardedFieldDetector) ID() string                { return d.id }
func (d unguardedFieldDetector) Category() detect.Category { return detect.CategorySecurity }
func (d unguardedFieldDetector) Severity() detect.Severity { return detect.High }
func (d unguardedFieldDetector) Confidence() detect.Confidence { return detect.ConfidenceMedium }
func (d unguardedFieldDetector) Strategy() detect.Strategy     { return detect.EntryToReturn }
func (d unguardedFieldDetector) AppliesTo(mode.Mode) bool       { return true }

func (d unguardedFieldDetector) Detect(path *detect.Path) []detect.Finding {
	f, ok := dataflow.LookupField(d.field)
	if !ok {
		return nil
	}
	last := len(path.Blocks) - 1
	state, ok := path.StateAfter(last)
	if !ok {
		return nil
	}
	if state[f].Kind != dataflow.KindTop {
		return nil // already narrowed by some assert along the path
	}
	return []detect.Finding{{
		DetectorID:  d.id,
		Category:    d.Category(),
		Severity:    d.Severity(),
		Confidence:  d.Confidence(),
		Description: fmt.Sprintf("path reaches a terminator without any check on %s: %s", d.field, d.phrase),
		Path:        path.BlockIDs(),
	}}
}

// CanCloseAccount reports paths where CloseRemainderTo is never checked.
func CanCloseAccount() detect.Detector {
	return unguardedFieldDetector{id: "can-close-account", field: "CloseRemainderTo", phrase: "the transaction could close the sender's account to any address"}
}

// CanCloseAsset reports paths where AssetCloseTo is never checked.
func CanCloseAsset() detect.Detector {
	return unguardedFieldDetector{id: "can-close-asset", field: "AssetCloseTo", phrase: "the transaction could close the sender's asset holding to any address"}
}

// MissingFeeCheck reports paths where Fee is never checked.
func MissingFeeCheck() detect.Detector {
	return unguardedFieldDetector{id: "missing-fee-check", field: "Fee", phrase: "the transaction's fee is unconstrained"}
}

// RekeyTo reports paths where RekeyTo is never checked.
func RekeyTo() detect.Detector {
	return unguardedFieldDetector{id: "rekey-to", field: "RekeyTo", phrase: "the transaction could rekey the sender's account"}
}
