package detect

import (
	"testing"

	"vmscan/internal/callgraph"
	"vmscan/internal/cfg"
	"vmscan/internal/dataflow"
	"vmscan/internal/mode"
	"vmscan/internal/parser"
)

func mustAnalyze(t *testing.T, src string) (*cfg.Graph, *callgraph.CallGraph) {
	t.Helper()
	p, err := parser.Parse("t.teal", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	g, err := cfg.Build(p)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	cg := callgraph.Recover(g)
	dataflow.NewEngine().Run(g)
	return g, cg
}

func TestPathsForEntryToReturnCoversEveryBranch(t *testing.T) {
	g, _ := mustAnalyze(t, `
int 1
bnz target
int 0
return
target:
int 1
return
`)
	paths := PathsFor(EntryToReturn, g, nil)
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2 (one per branch)", len(paths))
	}
	for _, p := range paths {
		last := p.Last()
		if !isTerminal(last) {
			t.Fatalf("path ended on non-terminal block %d", last.ID)
		}
	}
}

func TestPathsForEntryToStateChangingOpStopsEarly(t *testing.T) {
	g, _ := mustAnalyze(t, `
int 1
int 2
app_global_put
int 1
return
`)
	paths := PathsFor(EntryToStateChangingOp, g, nil)
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	if !hasStateChangingOp(paths[0].Last(), g) {
		t.Fatal("path should stop at the block containing app_global_put")
	}
}

func TestPathsForSuppressesInfiniteLoops(t *testing.T) {
	g, _ := mustAnalyze(t, `
loop:
int 1
bnz loop
int 0
return
`)
	paths := PathsFor(EntryToReturn, g, nil)
	if len(paths) == 0 {
		t.Fatal("expected at least one path even though the loop never exits on its own")
	}
	for _, p := range paths {
		seen := map[int]bool{}
		for _, b := range p.Blocks {
			if seen[b.ID] {
				t.Fatalf("path revisits block %d: loop suppression failed", b.ID)
			}
			seen[b.ID] = true
		}
	}
}

func TestPathsForSubroutineInternalStaysWithinOwnedBlocks(t *testing.T) {
	g, cg := mustAnalyze(t, `
#pragma version 4
callsub helper
return
helper:
int 1
retsub
`)
	paths := PathsFor(SubroutineInternal, g, cg)
	for _, p := range paths {
		sub := cg.SubroutineOf(p.Blocks[0])
		for _, b := range p.Blocks {
			if cg.SubroutineOf(b) != sub {
				t.Fatalf("SubroutineInternal path crossed from %s into %s", sub, cg.SubroutineOf(b))
			}
		}
	}
}

type stubDetector struct {
	id         string
	findings   []Finding
	panics     bool
	wantMode   mode.Mode
	modeLocked bool
}

func (s stubDetector) ID() string            { return s.id }
func (s stubDetector) Category() Category    { return CategorySecurity }
func (s stubDetector) Severity() Severity    { return Medium }
func (s stubDetector) Confidence() Confidence { return ConfidenceMedium }
func (s stubDetector) Strategy() Strategy     { return EntryToReturn }
func (s stubDetector) AppliesTo(m mode.Mode) bool {
	if !s.modeLocked {
		return true
	}
	return m == s.wantMode
}
func (s stubDetector) Detect(path *Path) []Finding {
	if s.panics {
		panic("boom")
	}
	return s.findings
}

func TestRunRecoversFromPanickingDetectorAndKeepsOthers(t *testing.T) {
	g, cg := mustAnalyze(t, "int 1\nreturn\n")

	reg := NewRegistry()
	reg.Register(stubDetector{id: "broken", panics: true})
	reg.Register(stubDetector{id: "fine", findings: []Finding{{DetectorID: "fine", Path: []int{0}}}})

	findings, errs := Run(g, cg, mode.Stateless, reg)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1 from the panicking detector", len(errs))
	}
	if len(findings) != 1 || findings[0].DetectorID != "fine" {
		t.Fatalf("expected the well-behaved detector's finding to survive, got %+v", findings)
	}
}

func TestRunDeduplicatesIdenticalFindings(t *testing.T) {
	g, cg := mustAnalyze(t, "int 1\nreturn\n")

	reg := NewRegistry()
	dup := Finding{DetectorID: "dup", Path: []int{0}}
	reg.Register(stubDetector{id: "dup", findings: []Finding{dup, dup}})

	findings, errs := Run(g, cg, mode.Stateless, reg)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1 after dedup", len(findings))
	}
}

func TestRunSkipsDetectorsNotApplicableToMode(t *testing.T) {
	g, cg := mustAnalyze(t, "int 1\nreturn\n")

	reg := NewRegistry()
	reg.Register(stubDetector{
		id:         "stateful-only",
		findings:   []Finding{{DetectorID: "stateful-only", Path: []int{0}}},
		modeLocked: true,
		wantMode:   mode.Stateful,
	})

	findings, _ := Run(g, cg, mode.Stateless, reg)
	if len(findings) != 0 {
		t.Fatalf("expected no findings from a detector restricted to stateful mode, got %+v", findings)
	}
}
