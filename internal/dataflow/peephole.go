package dataflow

import (
	"strconv"

	"vmscan/internal/parser"
)

// clause is one recognized "accessor compared to a constant" window:
// `txn F; int c; ==` and its gtxn/global/reordered variants, reduced to
// the field it constrains and the comparison.
type clause struct {
	field Field
	op    string
	value string
}

var comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

// flipOp swaps an operator's operand order: `a < b` reordered as `b > a`.
func flipOp(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	default:
		return op // == and != are symmetric
	}
}

// accessorField reports the tracked field an instruction reads, if any.
// `gtxn i F` and `txn F` are treated as referring to the same flat field slot
// data model, which tracks 11 fields total rather than one set per
// group index — a deliberate simplification noted in DESIGN.md.
func accessorField(ins parser.Instruction) (Field, bool) {
	switch ins.Mnemonic {
	case "txn":
		name, _ := ins.Immediates[0].(string)
		return LookupField(name)
	case "gtxn":
		name, _ := ins.Immediates[1].(string)
		return LookupField(name)
	case "global":
		name, _ := ins.Immediates[0].(string)
		if name == "GroupSize" {
			return LookupField(name)
		}
		return 0, false
	default:
		return 0, false
	}
}

// constantValue reports the canonical string form of an instruction that
// pushes a known constant, if any.
func constantValue(ins parser.Instruction) (string, bool) {
	switch ins.Mnemonic {
	case "int":
		v, _ := ins.Immediates[0].(uint64)
		return strconv.FormatUint(v, 10), true
	case "byte", "addr":
		lit, _ := ins.Immediates[0].(parser.ByteLiteral)
		return lit.Text, true
	case "global":
		name, _ := ins.Immediates[0].(string)
		if name == "ZeroAddress" {
			return "ZeroAddress", true
		}
		return "", false
	default:
		return "", false
	}
}

// matchClause tries to read three consecutive instructions as an accessor
// compared against a constant, in either operand order.
func matchClause(a, b, cmp parser.Instruction) (clause, bool) {
	if !comparisonOps[cmp.Mnemonic] {
		return clause{}, false
	}
	if f, ok := accessorField(a); ok {
		if v, ok := constantValue(b); ok {
			return clause{field: f, op: cmp.Mnemonic, value: v}, true
		}
	}
	if f, ok := accessorField(b); ok {
		if v, ok := constantValue(a); ok {
			return clause{field: f, op: flipOp(cmp.Mnemonic), value: v}, true
		}
	}
	return clause{}, false
}

// refine returns the value a field takes on the "clause holds" branch and on
// the "clause does not hold" branch, implementing the bounded-enumeration
// subset of interval refinement
func refine(c clause) (whenTrue, whenFalse Value) {
	domain, bounded := boundedDomain(c.field)
	if !bounded {
		switch c.op {
		case "==":
			return Single(c.value), Top()
		case "!=":
			return Top(), Single(c.value)
		default:
			return Top(), Top()
		}
	}

	target, err := strconv.ParseUint(c.value, 10, 64)
	if err != nil {
		return Top(), Top()
	}
	var trueSet, falseSet []string
	for _, d := range domain {
		if satisfies(d, c.op, target) {
			trueSet = append(trueSet, strconv.FormatUint(d, 10))
		} else {
			falseSet = append(falseSet, strconv.FormatUint(d, 10))
		}
	}
	return FromSlice(trueSet...), FromSlice(falseSet...)
}

func satisfies(d uint64, op string, c uint64) bool {
	switch op {
	case "==":
		return d == c
	case "!=":
		return d != c
	case "<":
		return d < c
	case "<=":
		return d <= c
	case ">":
		return d > c
	case ">=":
		return d >= c
	default:
		return false
	}
}

// applyAssertClauses scans a block's instructions for the
// `accessor; const; cmpOp; assert` idiom (and its disjunction variant,
// `accessor; const; cmpOp; accessor; const; cmpOp; ||; assert`, since both
// comparisons must be pushed before the `||` that pops them) and applies
// every match's "clause holds" refinement to state in place, since reaching
// any later instruction in the block implies every preceding assert passed.
func applyAssertClauses(instrs []parser.Instruction, state State) {
	for i := 0; i+3 < len(instrs); i++ {
		c, ok := matchClause(instrs[i], instrs[i+1], instrs[i+2])
		if !ok {
			continue
		}
		if instrs[i+3].Mnemonic == "assert" {
			whenTrue, _ := refine(c)
			state[c.field] = whenTrue
			i += 3
			continue
		}
		if j, ok2, combined := matchDisjunction(instrs, i, c); ok2 {
			state[c.field] = combined
			i = j
		}
	}
}

// matchDisjunction extends a single clause with one sibling clause on the
// same field, joined by a `||` or `&&` that follows both clauses: supported
// only when each disjunct is a recognized equality, in which case the union
// of refinements is used for `||`. `&&` over two distinct equality constants
// on the same field can never both hold, so that combination is left
// unrefined (the field keeps its incoming value) rather than asserted as ⊥, to avoid over-claiming
// unreachability from a pattern this narrow a matcher might have misread.
func matchDisjunction(instrs []parser.Instruction, i int, first clause) (next int, ok bool, combined Value) {
	if i+7 >= len(instrs) {
		return 0, false, Value{}
	}
	second, ok2 := matchClause(instrs[i+3], instrs[i+4], instrs[i+5])
	if !ok2 || second.field != first.field {
		return 0, false, Value{}
	}
	combinator := instrs[i+6].Mnemonic
	if combinator != "||" && combinator != "&&" {
		return 0, false, Value{}
	}
	if instrs[i+7].Mnemonic != "assert" {
		return 0, false, Value{}
	}
	if first.op != "==" || second.op != "==" {
		return 0, false, Value{}
	}
	if combinator == "||" {
		return i + 7, true, FromSlice(first.value, second.value)
	}
	return 0, false, Value{}
}

// branchRefinement reports the field and true/false-branch values implied by
// a trailing `accessor; const; cmpOp` window immediately before a block's
// `bnz`/`bz` terminator.
func branchRefinement(instrs []parser.Instruction) (field Field, whenTaken, whenNotTaken Value, ok bool) {
	n := len(instrs)
	if n < 4 {
		return 0, Value{}, Value{}, false
	}
	term := instrs[n-1]
	if term.Mnemonic != "bnz" && term.Mnemonic != "bz" {
		return 0, Value{}, Value{}, false
	}
	c, matched := matchClause(instrs[n-4], instrs[n-3], instrs[n-2])
	if !matched {
		return 0, Value{}, Value{}, false
	}
	whenTrue, whenFalse := refine(c)
	if term.Mnemonic == "bnz" {
		return c.field, whenTrue, whenFalse, true
	}
	return c.field, whenFalse, whenTrue, true
}

// selectorAccessor reports the field a `switch`/`match` terminator's
// immediately preceding accessor reads, used to refine each case edge to its
// positional constant.
func selectorAccessor(instrs []parser.Instruction) (Field, bool) {
	n := len(instrs)
	if n < 2 {
		return 0, false
	}
	return accessorField(instrs[n-2])
}
