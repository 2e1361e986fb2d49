package printer

import (
	"fmt"
	"strings"

	"vmscan/internal/callgraph"
	"vmscan/internal/cfg"
	"vmscan/internal/detect"
)

// FindingsTable renders findings as a fixed-width table: detector id,
// severity, confidence, block path, description.
func FindingsTable(findings []detect.Finding) string {
	if len(findings) == 0 {
		return "(no findings)\n"
	}

	idWidth, sevWidth, confWidth := len("DETECTOR"), len("SEVERITY"), len("CONFIDENCE")
	for _, f := range findings {
		idWidth = max(idWidth, len(f.DetectorID))
		sevWidth = max(sevWidth, len(f.Severity.String()))
		confWidth = max(confWidth, len(f.Confidence.String()))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  %-*s  %-*s  %-16s  %s\n", idWidth, "DETECTOR", sevWidth, "SEVERITY", confWidth, "CONFIDENCE", "PATH", "DESCRIPTION")
	for _, f := range findings {
		fmt.Fprintf(&b, "%-*s  %-*s  %-*s  %-16s  %s\n", idWidth, f.DetectorID, sevWidth, f.Severity.String(), confWidth, f.Confidence.String(), pathString(f.Path), f.Description)
	}
	return b.String()
}

func pathString(path []int) string {
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = fmt.Sprintf("b%d", id)
	}
	return strings.Join(parts, "->")
}

// ProgramSummary renders a per-program plain-text summary: mode, block/edge/
// subroutine counts, and finding counts by severity.
func ProgramSummary(modeName string, g *cfg.Graph, cg *callgraph.CallGraph, findings []detect.Finding) string {
	edges := 0
	for _, b := range g.Blocks {
		edges += len(b.Succs)
	}

	bySeverity := map[detect.Severity]int{}
	for _, f := range findings {
		bySeverity[f.Severity]++
	}

	var b strings.Builder
	fmt.Fprintf(&b, "mode: %s\n", modeName)
	fmt.Fprintf(&b, "blocks: %d\n", len(g.Blocks))
	fmt.Fprintf(&b, "edges: %d\n", edges)
	fmt.Fprintf(&b, "subroutines: %d\n", len(cg.Subroutines))
	fmt.Fprintf(&b, "findings: %d\n", len(findings))
	for _, sev := range []detect.Severity{detect.High, detect.Medium, detect.Low, detect.Optimization, detect.Informational} {
		if n := bySeverity[sev]; n > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", sev, n)
		}
	}
	return b.String()
}
