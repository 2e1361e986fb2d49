package main

import (
	"os"

	"vmscan/internal/analysis"
	"vmscan/internal/dataflow"
	"vmscan/internal/detect"
	"vmscan/internal/groupconfig"
)

var (
	exitCode = 0
	osExit   = os.Exit
)

// analysisBundle is what every subcommand ultimately needs: the analyzed
// program plus whatever findings the detector framework produced for it.
type analysisBundle struct {
	result   *analysis.Result
	findings []detect.Finding
}

// resolveSeed implements the one concrete matching rule this CLI uses for
// "a contract's dispatch path matches a prefix of blocks reachable from
// entry": a file is seeded when the group configuration declares a
// contract whose Path equals the file being analyzed, and some template
// references that contract by name. The first such reference found is used.
func resolveSeed(gc *groupconfig.GroupConfig, file string) (dataflow.State, bool) {
	if gc == nil {
		return nil, false
	}
	var contractName string
	for name, c := range gc.Contracts {
		if c.Path == file {
			contractName = name
			break
		}
	}
	if contractName == "" {
		return nil, false
	}
	for _, tmpl := range gc.Templates {
		for _, e := range tmpl.Entries {
			if e.Application != nil && e.Application.Contract == contractName {
				return dataflow.SeedForEntry(tmpl, e.TxnID)
			}
		}
	}
	return nil, false
}
