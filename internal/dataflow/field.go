// Package dataflow propagates, for each tracked transaction-context field
// and each basic block, a lattice value across the CFG built by
// internal/cfg and internal/callgraph.
package dataflow

import "vmscan/internal/catalogue"

// Field is a dense index into the fixed set of tracked transaction-context
// fields, in catalogue.TxnFields order.
type Field int

var (
	fieldNames  = append([]string(nil), catalogue.TxnFields...)
	fieldByName = func() map[string]Field {
		m := make(map[string]Field, len(fieldNames))
		for i, n := range fieldNames {
			m[n] = Field(i)
		}
		return m
	}()
)

// NumFields is the width of a State array.
var NumFields = len(fieldNames)

// LookupField resolves a transaction/global field name to its tracked Field
// index. Fields outside the closed set are simply not found here; callers
// widen to ⊤ rather than track them.
func LookupField(name string) (Field, bool) {
	f, ok := fieldByName[name]
	return f, ok
}

func (f Field) String() string {
	if int(f) < 0 || int(f) >= len(fieldNames) {
		return "?"
	}
	return fieldNames[f]
}

// boundedDomain returns the finite set of legal numeric values for fields
// whose domain is known in advance, and whether one exists. This is the
// mechanism behind the "enumerate within a known domain, else widen" subset
// of interval refinement
func boundedDomain(f Field) ([]uint64, bool) {
	switch fieldNames[f] {
	case "OnCompletion":
		return []uint64{0, 1, 2, 3, 4, 5}, true
	case "TypeEnum":
		return []uint64{1, 2, 3, 4, 5, 6}, true
	default:
		return nil, false
	}
}
