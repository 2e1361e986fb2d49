package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"vmscan/internal/analysis"
	"vmscan/internal/cfg"
	"vmscan/internal/detect"
	"vmscan/internal/groupconfig"
	"vmscan/internal/logging"
	"vmscan/internal/parser"
	"vmscan/internal/printer"
)

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "run the detector library over one or more programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect()
		},
	}
}

func runDetect() error {
	var gc *groupconfig.GroupConfig
	if groupConfigFlag != "" {
		loaded, err := groupconfig.Load(groupConfigFlag)
		if err != nil {
			return err
		}
		gc = loaded
	}

	chosen := selectedDetectors()
	subset := detect.NewRegistry()
	for _, d := range chosen {
		subset.Register(d)
	}

	type outcome struct {
		file    string
		bundle  *analysisBundle
		failure error
	}

	results := runPooled(contractsFlag, func(file string) outcome {
		seed, _ := resolveSeed(gc, file)
		res, err := analysis.Analyze(file, seed)
		if err != nil {
			return outcome{file: file, failure: err}
		}
		findings, detErrs := detect.Run(res.Graph, res.CallGraph, res.Program.Mode, subset)
		logging.DataflowCaps(log, file, res.Engine.CapEvents())
		logging.DetectorFailures(log, file, detErrs)
		return outcome{file: file, bundle: &analysisBundle{result: res, findings: findings}}
	})

	failed := false
	for _, r := range results {
		if r.failure != nil {
			logParseOrCFGFailure(r.file, r.failure)
			failed = true
			continue
		}
		fmt.Printf("== %s ==\n", r.file)
		fmt.Print(printer.FindingsTable(r.bundle.findings))
		fmt.Print(printer.ProgramSummary(r.bundle.result.Program.Mode.String(), r.bundle.result.Graph, r.bundle.result.CallGraph, r.bundle.findings))
	}
	if failed {
		exitCode = 1
	}
	return nil
}

func logParseOrCFGFailure(file string, err error) {
	var parseErr *parser.ParseError
	var cfgErr *cfg.Error
	switch {
	case errors.As(err, &parseErr):
		logging.ParseFailure(log, file, err)
	case errors.As(err, &cfgErr):
		logging.CFGFailure(log, file, err)
	default:
		logging.ParseFailure(log, file, err)
	}
}
