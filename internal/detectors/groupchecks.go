package detectors

import (
	"fmt"

	"vmscan/internal/dataflow"
	"vmscan/internal/detect"
	"vmscan/internal/mode"
	"vmscan/internal/parser"
)

// gtxnArgs reads a gtxn instruction's (index, field) immediates.
func gtxnArgs(ins parser.Instruction) (index uint64, field string, ok bool) {
	if ins.Mnemonic != "gtxn" || len(ins.Immediates) != 2 {
		return 0, "", false
	}
	idx, ok1 := ins.Immediates[0].(uint64)
	f, ok2 := ins.Immediates[1].(string)
	return idx, f, ok1 && ok2
}

type groupSizeCheckDetector struct{}

func (groupSizeCheckDetector) ID() string                  { return "group-size-check" }
func (groupSizeCheckDetector) Category() detect.Category   { return detect.CategorySecurity }
func (groupSizeCheckDetector) Severity() detect.Severity   { return detect.Medium }
func (groupSizeCheckDetector) Confidence() detect.Confidence { return detect.ConfidenceMedium }
func (groupSizeCheckDetector) Strategy() detect.Strategy     { return detect.EntryToReturn }
func (groupSizeCheckDetector) AppliesTo(mode.Mode) bool      { return true }

func (groupSizeCheckDetector) Detect(path *detect.Path) []detect.Finding {
	groupSize, ok := dataflow.LookupField("GroupSize")
	if !ok {
		return nil
	}
	var out []detect.Finding
	for bi, b := range path.Blocks {
		state, ok := path.StateAfter(bi)
		if !ok {
			continue
		}
		for _, ins := range b.Instructions(path.Graph.Program) {
			idx, _, isGtxn := gtxnArgs(ins)
			if !isGtxn {
				continue
			}
			if state[groupSize].Kind != dataflow.KindTop {
				// Any narrowing at all suppresses the finding here, not just
				// a narrowing that actually covers idx+1. The flat
				// GroupSize field carries no per-index membership, only a
				// set of admissible sizes, so this is an approximation of
				// "never constrained to include idx+1" rather than the
				// exact property.
				continue
			}
			out = append(out, detect.Finding{
				DetectorID:  "group-size-check",
				Category:    detect.CategorySecurity,
				Severity:    detect.Medium,
				Confidence:  detect.ConfidenceMedium,
				Description: fmt.Sprintf("gtxn %d accessed at line %d without GroupSize ever being constrained to include index %d", idx, ins.Line, idx),
				Path:        path.BlockIDs(),
				Evidence:    []string{ins.String()},
			})
		}
	}
	return out
}

// GroupSizeCheck reports gtxn accesses at a literal sibling index reached
// without GroupSize ever being narrowed.
func GroupSizeCheck() detect.Detector { return groupSizeCheckDetector{} }

type constantGtxnDetector struct{}

func (constantGtxnDetector) ID() string                  { return "constant-gtxn" }
func (constantGtxnDetector) Category() detect.Category   { return detect.CategoryOptimization }
func (constantGtxnDetector) Severity() detect.Severity   { return detect.Optimization }
func (constantGtxnDetector) Confidence() detect.Confidence { return detect.ConfidenceHigh }
func (constantGtxnDetector) Strategy() detect.Strategy     { return detect.EntryToReturn }
func (constantGtxnDetector) AppliesTo(mode.Mode) bool      { return true }

// Detect flags a block that fetches the same (index, field) sibling-txn
// field more than once: a pure structural scan, no dataflow involved.
func (constantGtxnDetector) Detect(path *detect.Path) []detect.Finding {
	var out []detect.Finding
	for _, b := range path.Blocks {
		seen := map[string]bool{}
		for _, ins := range b.Instructions(path.Graph.Program) {
			idx, field, ok := gtxnArgs(ins)
			if !ok {
				continue
			}
			key := fmt.Sprintf("%d:%s", idx, field)
			if seen[key] {
				out = append(out, detect.Finding{
					DetectorID:  "constant-gtxn",
					Category:    detect.CategoryOptimization,
					Severity:    detect.Optimization,
					Confidence:  detect.ConfidenceHigh,
					Description: fmt.Sprintf("gtxn %d %s fetched more than once in block %d; cache it in a scratch slot", idx, field, b.ID),
					Path:        path.BlockIDs(),
					Evidence:    []string{ins.String()},
				})
				continue
			}
			seen[key] = true
		}
	}
	return out
}

// ConstantGtxn reports repeated fetches of the same sibling-transaction
// field within one block.
func ConstantGtxn() detect.Detector { return constantGtxnDetector{} }

type selfAccessDetector struct{}

func (selfAccessDetector) ID() string                  { return "self-access" }
func (selfAccessDetector) Category() detect.Category   { return detect.CategoryOptimization }
func (selfAccessDetector) Severity() detect.Severity   { return detect.Optimization }
func (selfAccessDetector) Confidence() detect.Confidence { return detect.ConfidenceMedium }
func (selfAccessDetector) Strategy() detect.Strategy     { return detect.EntryToReturn }
func (selfAccessDetector) AppliesTo(mode.Mode) bool      { return true }

// Detect flags `gtxn i F` where GroupIndex is already known to equal i: a
// plain `txn F` would read the same value.
func (selfAccessDetector) Detect(path *detect.Path) []detect.Finding {
	groupIndex, ok := dataflow.LookupField("GroupIndex")
	if !ok {
		return nil
	}
	var out []detect.Finding
	for bi, b := range path.Blocks {
		state, ok := path.StateAfter(bi)
		if !ok {
			continue
		}
		self, isSingleton := state[groupIndex].IsSingleton()
		if !isSingleton {
			continue
		}
		for _, ins := range b.Instructions(path.Graph.Program) {
			idx, field, isGtxn := gtxnArgs(ins)
			if !isGtxn {
				continue
			}
			if fmt.Sprintf("%d", idx) != self {
				continue
			}
			out = append(out, detect.Finding{
				DetectorID:  "self-access",
				Category:    detect.CategoryOptimization,
				Severity:    detect.Optimization,
				Confidence:  detect.ConfidenceMedium,
				Description: fmt.Sprintf("gtxn %d %s at line %d accesses this transaction's own slot; use txn %s instead", idx, field, ins.Line, field),
				Path:        path.BlockIDs(),
				Evidence:    []string{ins.String()},
			})
		}
	}
	return out
}

// SelfAccess reports gtxn accesses of the program's own GroupIndex slot.
func SelfAccess() detect.Detector { return selfAccessDetector{} }

type senderAccessDetector struct{}

func (senderAccessDetector) ID() string                  { return "sender-access" }
func (senderAccessDetector) Category() detect.Category   { return detect.CategoryOptimization }
func (senderAccessDetector) Severity() detect.Severity   { return detect.Optimization }
func (senderAccessDetector) Confidence() detect.Confidence { return detect.ConfidenceLow }
func (senderAccessDetector) Strategy() detect.Strategy     { return detect.EntryToReturn }
func (senderAccessDetector) AppliesTo(mode.Mode) bool      { return true }

// Detect flags a block that reads both a sibling's Sender (via gtxn) and its
// own Sender (via txn): worth auditing, since comparing the two is the usual
// reason to fetch both, and a direct `gtxn i Sender; txn Sender; ==` could
// instead be phrased against a cached value.
func (senderAccessDetector) Detect(path *detect.Path) []detect.Finding {
	var out []detect.Finding
	for _, b := range path.Blocks {
		sawGtxnSender, sawOwnSender := false, false
		for _, ins := range b.Instructions(path.Graph.Program) {
			if _, field, ok := gtxnArgs(ins); ok && field == "Sender" {
				sawGtxnSender = true
			}
			if ins.Mnemonic == "txn" && len(ins.Immediates) == 1 {
				if name, _ := ins.Immediates[0].(string); name == "Sender" {
					sawOwnSender = true
				}
			}
		}
		if sawGtxnSender && sawOwnSender {
			out = append(out, detect.Finding{
				DetectorID:  "sender-access",
				Category:    detect.CategoryOptimization,
				Severity:    detect.Optimization,
				Confidence:  detect.ConfidenceLow,
				Description: fmt.Sprintf("block %d reads both its own Sender and a sibling's Sender; verify the comparison is intentional", b.ID),
				Path:        path.BlockIDs(),
			})
		}
	}
	return out
}

// SenderAccess reports blocks that read both the program's own Sender and a
// sibling transaction's Sender.
func SenderAccess() detect.Detector { return senderAccessDetector{} }
