package catalogue

// registerControlFlow registers every opcode the CFG builder inspects when
// deciding a block's outgoing edges. IsTerminator/IsBranch/IsCallsub/IsRetsub
// are exactly the booleans the builder needs from the catalogue.
func registerControlFlow() {
	register(Opcode{Mnemonic: "b", IntroducedIn: 1, Pops: 0, Pushes: 0,
		Immediates: []ImmediateKind{ImmLabel}, IsTerminator: true, IsBranch: true, Mode: ModeEither})
	register(Opcode{Mnemonic: "bnz", IntroducedIn: 1, Pops: 1, Pushes: 0,
		Immediates: []ImmediateKind{ImmLabel}, IsBranch: true, Mode: ModeEither})
	register(Opcode{Mnemonic: "bz", IntroducedIn: 1, Pops: 1, Pushes: 0,
		Immediates: []ImmediateKind{ImmLabel}, IsBranch: true, Mode: ModeEither})

	// switch/match pop exactly one selector value regardless of how many
	// label immediates follow; see Opcode.PopsFor.
	register(Opcode{Mnemonic: "switch", IntroducedIn: 8, Pops: VarArity, Pushes: 0,
		Immediates: []ImmediateKind{ImmLabel}, IsBranch: true, Mode: ModeEither})
	register(Opcode{Mnemonic: "match", IntroducedIn: 8, Pops: VarArity, Pushes: 0,
		Immediates: []ImmediateKind{ImmLabel}, IsBranch: true, Mode: ModeEither})

	register(Opcode{Mnemonic: "callsub", IntroducedIn: 4, Pops: 0, Pushes: 0,
		Immediates: []ImmediateKind{ImmSubroutineLabel}, IsBranch: true, IsCallsub: true, Mode: ModeEither})
	register(Opcode{Mnemonic: "retsub", IntroducedIn: 4, Pops: 0, Pushes: 0,
		IsTerminator: true, IsBranch: true, IsRetsub: true, Mode: ModeEither})

	register(Opcode{Mnemonic: "return", IntroducedIn: 2, Pops: 1, Pushes: 0, IsTerminator: true, Mode: ModeEither})
	register(Opcode{Mnemonic: "err", IntroducedIn: 1, Pops: 0, Pushes: 0, IsTerminator: true, IsErr: true, Mode: ModeEither})
}
