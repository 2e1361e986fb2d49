package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"vmscan/internal/catalogue"
	"vmscan/internal/mode"
)

var pragmaPattern = regexp.MustCompile(`^#pragma\s+version\s+(\d+)\s*$`)

// Parse turns the text of one source file into a Program. It returns
// the first ParseError encountered for the fatal kinds (unknown mnemonic,
// arity mismatch, version gating, duplicate label); version gating applies
// only when the file declares a `#pragma version`, while a file without one
// still reports Version 1. Undefined-label
// references are collected and reported only after the whole file has been
// scanned, "deferred to end-of-parse" rule.
func Parse(file string, text string) (*Program, error) {
	p := &Program{File: file, Labels: map[string]int{}, Version: 1}

	rawLines := strings.Split(text, "\n")
	firstContent := true
	declaredVersion := false
	pendingLabelRefs := map[string]int{} // label name -> a line number that referenced it, for error reporting

	for lineNo, raw := range rawLines {
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if firstContent {
			firstContent = false
			if m := pragmaPattern.FindStringSubmatch(line); m != nil {
				v, _ := strconv.Atoi(m[1])
				p.Version = v
				declaredVersion = true
				continue
			}
		}
		if strings.HasPrefix(line, "#pragma") {
			return nil, newParseError(file, lineNo+1, "pragma directives are only permitted on the first non-blank line")
		}

		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			label := strings.TrimSuffix(line, ":")
			if _, dup := p.Labels[label]; dup {
				return nil, newParseError(file, lineNo+1, "duplicate label %q", label)
			}
			p.Labels[label] = len(p.Instructions)
			continue
		}

		mnemonic, argsText := splitMnemonicAndArgs(line)
		op, ok := catalogue.Lookup(mnemonic)
		if !ok {
			return nil, newParseError(file, lineNo+1, "unknown mnemonic %q", mnemonic)
		}
		if declaredVersion && op.IntroducedIn > p.Version {
			return nil, newParseError(file, lineNo+1,
				"%q introduced in version %d, program declares version %d", mnemonic, op.IntroducedIn, p.Version)
		}

		immediates, labelRefs, err := parseImmediates(op, argsText)
		if err != nil {
			return nil, newParseError(file, lineNo+1, "%s: %s", mnemonic, err)
		}
		for _, name := range labelRefs {
			pendingLabelRefs[name] = lineNo + 1
		}

		p.Instructions = append(p.Instructions, Instruction{
			Mnemonic:     mnemonic,
			Line:         lineNo + 1,
			Immediates:   immediates,
			Pops:         op.PopsFor(immediates),
			Pushes:       op.PushesFor(immediates),
			IsTerminator: op.IsTerminator,
			IsBranch:     op.IsBranch,
			IsCallsub:    op.IsCallsub,
			IsRetsub:     op.IsRetsub,
			IsErr:        op.IsErr,
		})
	}

	for name, lineNo := range pendingLabelRefs {
		if _, ok := p.Labels[name]; !ok {
			return nil, newParseError(file, lineNo, "reference to undefined label %q", name)
		}
	}

	p.Mode, p.ModeWarning = mode.Detect(p)
	return p, nil
}

// parseImmediates dispatches to per-opcode immediate parsing based on the
// catalogue's declared immediate kinds, enforcing arity as it goes.
// It returns the parsed immediates plus any label/subroutine-label names that
// still need end-of-parse resolution.
func parseImmediates(op catalogue.Opcode, argsText string) (immediates []any, labelRefs []string, err error) {
	toks := recombineByteLiteralTokens(op, fields(argsText))

	switch {
	case op.Mnemonic == "switch" || op.Mnemonic == "match":
		if len(toks) == 0 {
			return nil, nil, fmt.Errorf("requires at least one label")
		}
		for _, t := range toks {
			immediates = append(immediates, t)
			labelRefs = append(labelRefs, t)
		}
		return immediates, labelRefs, nil

	case len(op.Immediates) == 0:
		if len(toks) != 0 {
			return nil, nil, fmt.Errorf("does not accept an operand")
		}
		return nil, nil, nil
	}

	if len(toks) != len(op.Immediates) {
		return nil, nil, fmt.Errorf("expects %d operand(s), got %d", len(op.Immediates), len(toks))
	}

	for i, kind := range op.Immediates {
		tok := toks[i]
		switch kind {
		case catalogue.ImmUint64:
			v, e := parseUint(tok)
			if e != nil {
				return nil, nil, e
			}
			immediates = append(immediates, v)
		case catalogue.ImmByteLiteral:
			v, e := parseByteLiteral(tok)
			if e != nil {
				return nil, nil, e
			}
			immediates = append(immediates, v)
		case catalogue.ImmNamedField:
			immediates = append(immediates, tok)
		case catalogue.ImmLabel, catalogue.ImmSubroutineLabel:
			immediates = append(immediates, tok)
			labelRefs = append(labelRefs, tok)
		}
	}
	return immediates, labelRefs, nil
}
