package catalogue

// registerArithmeticAndLogic registers the comparison and boolean opcodes
// the dataflow engine's peephole matcher looks for, plus plain arithmetic
// that detectors never need to interpret directly.
func registerArithmeticAndLogic() {
	for _, m := range []string{"+", "-", "*", "/", "%"} {
		register(Opcode{Mnemonic: m, IntroducedIn: 1, Pops: 2, Pushes: 1, Mode: ModeEither})
	}
	for _, m := range []string{"==", "!=", "<", "<=", ">", ">="} {
		register(Opcode{Mnemonic: m, IntroducedIn: 1, Pops: 2, Pushes: 1, Mode: ModeEither})
	}
	register(Opcode{Mnemonic: "&&", IntroducedIn: 1, Pops: 2, Pushes: 1, Mode: ModeEither})
	register(Opcode{Mnemonic: "||", IntroducedIn: 1, Pops: 2, Pushes: 1, Mode: ModeEither})
	register(Opcode{Mnemonic: "!", IntroducedIn: 1, Pops: 1, Pushes: 1, Mode: ModeEither})

	register(Opcode{Mnemonic: "assert", IntroducedIn: 3, Pops: 1, Pushes: 0, Mode: ModeEither})
}
