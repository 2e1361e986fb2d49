package printer

import (
	"strconv"
	"strings"
	"testing"

	"vmscan/internal/callgraph"
	"vmscan/internal/cfg"
	"vmscan/internal/detect"
	"vmscan/internal/parser"
)

func mustBuild(t *testing.T, src string) *cfg.Graph {
	t.Helper()
	p, err := parser.Parse("t.teal", src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	g, err := cfg.Build(p)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	return g
}

func TestDOTGraphIncludesEveryBlockAndEdge(t *testing.T) {
	g := mustBuild(t, `
int 1
bnz taken
int 0
return
taken:
int 2
return
`)
	out := DOTGraph(g)
	if !strings.HasPrefix(out, "digraph cfg {") {
		t.Fatalf("expected a digraph header, got %q", out)
	}
	for _, blk := range g.Blocks {
		want := "b" + strconv.Itoa(blk.ID) + " [label="
		if !strings.Contains(out, want) {
			t.Fatalf("missing node declaration for block %d:\n%s", blk.ID, out)
		}
	}
	if !strings.Contains(out, "branch-taken") || !strings.Contains(out, "branch-not-taken") {
		t.Fatalf("expected both branch edge kinds labeled, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Fatalf("expected the document to close with a brace, got %q", out)
	}
}

func TestDOTGraphSkipsHaltEdges(t *testing.T) {
	g := mustBuild(t, "int 1\nreturn\n")
	out := DOTGraph(g)
	if strings.Contains(out, "-1") {
		t.Fatalf("expected no edge pointing at the NoTarget sentinel, got:\n%s", out)
	}
}

func TestDOTCallGraphListsSubroutinesAndEdges(t *testing.T) {
	g := mustBuild(t, `
#pragma version 4
int 1
callsub double
return
double:
dup
+
retsub
`)
	cg := callgraph.Recover(g)
	out := DOTCallGraph(cg)
	if !strings.HasPrefix(out, "digraph callgraph {") {
		t.Fatalf("expected a digraph header, got %q", out)
	}
	if !strings.Contains(out, `"main"`) || !strings.Contains(out, `"double"`) {
		t.Fatalf("expected both subroutine names declared, got:\n%s", out)
	}
	if !strings.Contains(out, `"main" -> "double"`) {
		t.Fatalf("expected a call edge from main to double, got:\n%s", out)
	}
}

func TestFindingsTableReportsNoFindings(t *testing.T) {
	out := FindingsTable(nil)
	if out != "(no findings)\n" {
		t.Fatalf("got %q", out)
	}
}

func TestFindingsTableRendersHeaderAndRows(t *testing.T) {
	findings := []detect.Finding{
		{
			DetectorID:  "unprotected-deletable",
			Severity:    detect.High,
			Confidence:  detect.ConfidenceMedium,
			Description: "DeleteApplication reachable without a Sender check",
			Path:        []int{0, 2},
		},
		{
			DetectorID:  "constant-gtxn",
			Severity:    detect.Optimization,
			Confidence:  detect.ConfidenceHigh,
			Description: "gtxn 0 Sender fetched twice",
			Path:        []int{1},
		},
	}
	out := FindingsTable(findings)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want a header plus two rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "DETECTOR") {
		t.Fatalf("expected a header row, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "unprotected-deletable") || !strings.Contains(lines[1], "b0->b2") {
		t.Fatalf("expected the first row to name the detector and path, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "constant-gtxn") || !strings.Contains(lines[2], "b1") {
		t.Fatalf("expected the second row to name the detector and path, got %q", lines[2])
	}
}

func TestProgramSummaryCountsBlocksEdgesAndFindings(t *testing.T) {
	g := mustBuild(t, `
int 1
bnz taken
int 0
return
taken:
int 2
return
`)
	cg := callgraph.Recover(g)
	findings := []detect.Finding{
		{DetectorID: "a", Severity: detect.High},
		{DetectorID: "b", Severity: detect.High},
		{DetectorID: "c", Severity: detect.Low},
	}
	out := ProgramSummary("stateless", g, cg, findings)
	wantLines := []string{
		"mode: stateless",
		"blocks: 3",
		"findings: 3",
		"  high: 2",
		"  low: 1",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Fatalf("expected summary to contain %q, got:\n%s", want, out)
		}
	}
}

func TestProgramSummaryOmitsZeroSeverityLines(t *testing.T) {
	g := mustBuild(t, "int 1\nreturn\n")
	cg := callgraph.Recover(g)
	out := ProgramSummary("stateless", g, cg, nil)
	if strings.Contains(out, "high:") || strings.Contains(out, "medium:") {
		t.Fatalf("expected no per-severity lines when there are no findings, got:\n%s", out)
	}
}
