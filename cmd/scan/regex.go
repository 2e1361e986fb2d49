package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vmscan/internal/analysis"
	"vmscan/internal/printer"
	"vmscan/internal/regexscan"
)

func newRegexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regex <regex-file>",
		Short: "scan each program's basic blocks against a mnemonic pattern file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegex(args[0])
		},
	}
}

func runRegex(ruleFile string) error {
	text, err := os.ReadFile(ruleFile)
	if err != nil {
		return fmt.Errorf("scan regex: %w", err)
	}
	rules, err := regexscan.LoadRules(string(text))
	if err != nil {
		return err
	}

	type outcome struct {
		file     string
		findings []byte
		failure  error
	}

	results := runPooled(contractsFlag, func(file string) outcome {
		res, err := analysis.Analyze(file, nil)
		if err != nil {
			return outcome{file: file, failure: err}
		}
		matches := regexscan.Scan(res.Graph, rules)
		return outcome{file: file, findings: []byte(printer.FindingsTable(matches))}
	})

	failed := false
	for _, r := range results {
		if r.failure != nil {
			logParseOrCFGFailure(r.file, r.failure)
			failed = true
			continue
		}
		fmt.Printf("== %s ==\n", r.file)
		fmt.Print(string(r.findings))
	}
	if failed {
		exitCode = 1
	}
	return nil
}
