package catalogue

// registerStateOps registers the stateful-only global/local state accessors
// the mode detector uses to classify a program as an application rather than a logic
// signature.
func registerStateOps() {
	register(Opcode{Mnemonic: "app_global_get", IntroducedIn: 2, Pops: 1, Pushes: 1, Mode: ModeStatefulOnly})
	register(Opcode{Mnemonic: "app_global_put", IntroducedIn: 2, Pops: 2, Pushes: 0, Mode: ModeStatefulOnly})
	register(Opcode{Mnemonic: "app_local_get", IntroducedIn: 2, Pops: 2, Pushes: 1, Mode: ModeStatefulOnly})
	register(Opcode{Mnemonic: "app_local_put", IntroducedIn: 2, Pops: 3, Pushes: 0, Mode: ModeStatefulOnly})
	register(Opcode{Mnemonic: "app_opted_in", IntroducedIn: 2, Pops: 2, Pushes: 1, Mode: ModeStatefulOnly})
	register(Opcode{Mnemonic: "asset_holding_get", IntroducedIn: 2, Pops: 2, Pushes: 2,
		Immediates: []ImmediateKind{ImmNamedField}, NamedFieldEnum: "asset_holding", Mode: ModeStatefulOnly})
	register(Opcode{Mnemonic: "asset_params_get", IntroducedIn: 2, Pops: 1, Pushes: 2,
		Immediates: []ImmediateKind{ImmNamedField}, NamedFieldEnum: "asset_params", Mode: ModeStatefulOnly})

	register(Opcode{Mnemonic: "itxn_begin", IntroducedIn: 5, Pops: 0, Pushes: 0, Mode: ModeStatefulOnly})
	register(Opcode{Mnemonic: "itxn_field", IntroducedIn: 5, Pops: 1, Pushes: 0,
		Immediates: []ImmediateKind{ImmNamedField}, NamedFieldEnum: "txn", Mode: ModeStatefulOnly})
	register(Opcode{Mnemonic: "itxn_submit", IntroducedIn: 5, Pops: 0, Pushes: 0, Mode: ModeStatefulOnly})
}
