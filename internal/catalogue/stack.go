package catalogue

// registerStackAndConst registers opcodes that push constants or manipulate
// the stack directly without touching transaction/global state.
func registerStackAndConst() {
	register(Opcode{Mnemonic: "int", IntroducedIn: 1, Pops: 0, Pushes: 1,
		Immediates: []ImmediateKind{ImmUint64}, Mode: ModeEither})
	register(Opcode{Mnemonic: "byte", IntroducedIn: 1, Pops: 0, Pushes: 1,
		Immediates: []ImmediateKind{ImmByteLiteral}, Mode: ModeEither})
	register(Opcode{Mnemonic: "addr", IntroducedIn: 1, Pops: 0, Pushes: 1,
		Immediates: []ImmediateKind{ImmByteLiteral}, Mode: ModeEither})
	register(Opcode{Mnemonic: "method", IntroducedIn: 2, Pops: 0, Pushes: 1,
		Immediates: []ImmediateKind{ImmByteLiteral}, Mode: ModeEither})

	register(Opcode{Mnemonic: "pop", IntroducedIn: 1, Pops: 1, Pushes: 0, Mode: ModeEither})
	register(Opcode{Mnemonic: "dup", IntroducedIn: 1, Pops: 1, Pushes: 2, Mode: ModeEither})
	register(Opcode{Mnemonic: "dup2", IntroducedIn: 2, Pops: 2, Pushes: 4, Mode: ModeEither})
	register(Opcode{Mnemonic: "swap", IntroducedIn: 3, Pops: 2, Pushes: 2, Mode: ModeEither})

	register(Opcode{Mnemonic: "load", IntroducedIn: 1, Pops: 0, Pushes: 1,
		Immediates: []ImmediateKind{ImmUint64}, Mode: ModeEither})
	register(Opcode{Mnemonic: "store", IntroducedIn: 1, Pops: 1, Pushes: 0,
		Immediates: []ImmediateKind{ImmUint64}, Mode: ModeEither})
}
