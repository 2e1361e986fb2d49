package catalogue

// registerTxnAndGlobal registers the transaction/global field accessors the
// dataflow engine's peephole matcher recognizes, plus the sibling-group
// accessor `gtxn`.
func registerTxnAndGlobal() {
	register(Opcode{Mnemonic: "txn", IntroducedIn: 1, Pops: 0, Pushes: 1,
		Immediates: []ImmediateKind{ImmNamedField}, NamedFieldEnum: "txn", Mode: ModeEither})
	register(Opcode{Mnemonic: "gtxn", IntroducedIn: 1, Pops: 0, Pushes: 1,
		Immediates: []ImmediateKind{ImmUint64, ImmNamedField}, NamedFieldEnum: "txn", Mode: ModeEither})
	register(Opcode{Mnemonic: "global", IntroducedIn: 1, Pops: 0, Pushes: 1,
		Immediates: []ImmediateKind{ImmNamedField}, NamedFieldEnum: "global", Mode: ModeEither})

	// arg is the stateless-only analogue of txn: it reads LogicSig arguments
	// and never appears in an application's approval/clear-state program.
	register(Opcode{Mnemonic: "arg", IntroducedIn: 1, Pops: 0, Pushes: 1,
		Immediates: []ImmediateKind{ImmUint64}, Mode: ModeStatelessOnly})
}

// TxnFields enumerates the transaction field names this analyzer tracks as
// lattice dimensions. Additional real fields exist in the target language
// but are deliberately not catalogued here: anything not in this set is
// reported as ⊤, so omitting them is equivalent to supporting them with an
// always-top lattice.
var TxnFields = []string{
	"GroupSize", "GroupIndex", "TypeEnum", "Sender", "Receiver",
	"CloseRemainderTo", "AssetCloseTo", "RekeyTo", "ApplicationID",
	"OnCompletion", "Fee",
}

// GlobalFields mirrors TxnFields for opcodes reading `global F` instead of
// `txn F`/`gtxn i F`. Only GroupSize and ZeroAddress are both a global field
// and one this analyzer assigns lattice meaning to; ZeroAddress is a constant
// the RekeyTo detector compares against rather than a tracked dimension.
var GlobalFields = []string{"GroupSize", "ZeroAddress", "CurrentApplicationID"}

// TxnTypeConstants resolves the named `int` constants for the TypeEnum field
// (`int pay`, `int appl`, ...) to their numeric values, exactly as the parser
// resolves `int OptIn` for on-completion below.
var TxnTypeConstants = map[string]uint64{
	"unknown": 0,
	"pay":     1,
	"keyreg":  2,
	"acfg":    3,
	"axfer":   4,
	"afrz":    5,
	"appl":    6,
}

// OnCompletionConstants resolves the named `int` constants for OnCompletion.
var OnCompletionConstants = map[string]uint64{
	"NoOp":              0,
	"OptIn":             1,
	"CloseOut":          2,
	"ClearState":        3,
	"UpdateApplication": 4,
	"DeleteApplication": 5,
}
