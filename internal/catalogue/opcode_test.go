package catalogue

import "testing"

func TestLookupKnownMnemonics(t *testing.T) {
	for _, m := range []string{"txn", "gtxn", "global", "bnz", "bz", "callsub", "retsub", "switch", "match", "assert", "int", "byte"} {
		if _, ok := Lookup(m); !ok {
			t.Fatalf("expected %q to be registered", m)
		}
	}
}

func TestLookupUnknownMnemonic(t *testing.T) {
	if _, ok := Lookup("definitely_not_an_opcode"); ok {
		t.Fatalf("expected unknown mnemonic to not be found")
	}
}

func TestTerminatorsAndBranches(t *testing.T) {
	cases := []struct {
		mnemonic               string
		terminator, branch     bool
		isCallsub, isRetsub bool
	}{
		{"return", true, false, false, false},
		{"err", true, false, false, false},
		{"retsub", true, true, false, true},
		{"b", true, true, false, false},
		{"bnz", false, true, false, false},
		{"callsub", false, true, true, false},
	}
	for _, c := range cases {
		op, ok := Lookup(c.mnemonic)
		if !ok {
			t.Fatalf("mnemonic %q not registered", c.mnemonic)
		}
		if op.IsTerminator != c.terminator {
			t.Errorf("%s: IsTerminator = %v, want %v", c.mnemonic, op.IsTerminator, c.terminator)
		}
		if op.IsBranch != c.branch {
			t.Errorf("%s: IsBranch = %v, want %v", c.mnemonic, op.IsBranch, c.branch)
		}
		if op.IsCallsub != c.isCallsub {
			t.Errorf("%s: IsCallsub = %v, want %v", c.mnemonic, op.IsCallsub, c.isCallsub)
		}
		if op.IsRetsub != c.isRetsub {
			t.Errorf("%s: IsRetsub = %v, want %v", c.mnemonic, op.IsRetsub, c.isRetsub)
		}
	}
}

func TestSwitchMatchVariableArity(t *testing.T) {
	for _, m := range []string{"switch", "match"} {
		op, ok := Lookup(m)
		if !ok {
			t.Fatalf("%s not registered", m)
		}
		if op.Pops != VarArity {
			t.Fatalf("%s: Pops = %d, want VarArity", m, op.Pops)
		}
		if got := op.PopsFor([]any{uint64(1), uint64(2), uint64(3)}); got != 1 {
			t.Fatalf("%s: PopsFor(...) = %d, want 1", m, got)
		}
	}
}

func TestModeAffinity(t *testing.T) {
	arg, ok := Lookup("arg")
	if !ok || arg.Mode != ModeStatelessOnly {
		t.Fatalf("arg should be stateless-only")
	}
	put, ok := Lookup("app_global_put")
	if !ok || put.Mode != ModeStatefulOnly {
		t.Fatalf("app_global_put should be stateful-only")
	}
	plus, ok := Lookup("+")
	if !ok || plus.Mode != ModeEither {
		t.Fatalf("+ should be usable in either mode")
	}
}

func TestAllReturnsEveryRegisteredOpcode(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("All() returned no opcodes")
	}
	seen := map[string]bool{}
	for _, op := range all {
		if seen[op.Mnemonic] {
			t.Fatalf("duplicate mnemonic %q in All()", op.Mnemonic)
		}
		seen[op.Mnemonic] = true
	}
}
