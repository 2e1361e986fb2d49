// Package mode implements the mode detector: it classifies a parsed program
// as stateful (application) or stateless (logic signature) purely from
// which mode-exclusive opcodes appear in its instruction stream.
package mode

import "vmscan/internal/catalogue"

// Mode is the classification tag attached to a Program.
type Mode int

const (
	Stateless Mode = iota
	Stateful
)

func (m Mode) String() string {
	if m == Stateful {
		return "stateful"
	}
	return "stateless"
}

// Mnemonics is the minimal interface the detector needs from a parsed
// program: just the list of opcode mnemonics it used, in order.
type Mnemonics interface {
	Mnemonics() []string
}

// Detect scans mnemonics for stateful-only and stateless-only opcodes:
// stateful wins a conflict (with a warning), stateless is the default when
// neither family appears.
func Detect(p Mnemonics) (m Mode, warning string) {
	sawStateful, sawStateless := false, false
	for _, mn := range p.Mnemonics() {
		op, ok := catalogue.Lookup(mn)
		if !ok {
			continue
		}
		switch op.Mode {
		case catalogue.ModeStatefulOnly:
			sawStateful = true
		case catalogue.ModeStatelessOnly:
			sawStateless = true
		}
	}
	switch {
	case sawStateful && sawStateless:
		return Stateful, "program uses both stateful-only and stateless-only opcodes; defaulting to stateful"
	case sawStateful:
		return Stateful, ""
	default:
		return Stateless, ""
	}
}
