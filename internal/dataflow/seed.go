package dataflow

import (
	"strconv"

	"vmscan/internal/catalogue"
	"vmscan/internal/groupconfig"
)

// SeedForEntry builds the entry-block starting State implied by a group
// configuration's template for one dispatch slot: GroupSize is pinned to
// the template's transaction count, GroupIndex to the slot's position, and
// TypeEnum to the slot's declared txn_type, exactly as if an equality
// assert had already run. Fields the template says nothing about remain ⊤,
// the ordinary unseeded default.
func SeedForEntry(tmpl groupconfig.GroupTemplate, txnID string) (State, bool) {
	pos := -1
	for i, e := range tmpl.Entries {
		if e.TxnID == txnID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, false
	}

	seed := NewTopState()
	if groupSize, ok := LookupField("GroupSize"); ok {
		seed[groupSize] = Single(strconv.Itoa(len(tmpl.Entries)))
	}
	if groupIndex, ok := LookupField("GroupIndex"); ok {
		seed[groupIndex] = Single(strconv.Itoa(pos))
	}
	if typeEnum, ok := LookupField("TypeEnum"); ok {
		if v, ok := catalogue.TxnTypeConstants[tmpl.Entries[pos].TxnType]; ok {
			seed[typeEnum] = Single(strconv.FormatUint(v, 10))
		}
	}
	return seed, true
}
