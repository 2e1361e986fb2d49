package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vmscan/internal/detect"
	"vmscan/internal/detectors"
	"vmscan/internal/logging"
	"vmscan/internal/printer"
)

var (
	contractsFlag   []string
	groupConfigFlag string
	detectorsFlag   []string
	excludeFlag     []string

	log *logrus.Logger
	reg *detect.Registry
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scan",
		Short:         "static analyzer for target-language smart-contract bytecode",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&contractsFlag, "contracts", nil, "comma-separated list of program files to analyze")
	root.PersistentFlags().StringVar(&groupConfigFlag, "group-config", "", "optional YAML group-configuration file")
	root.PersistentFlags().StringSliceVar(&detectorsFlag, "detectors", nil, "comma-separated allow-list of detector ids (default: all)")
	root.PersistentFlags().StringSliceVar(&excludeFlag, "exclude", nil, "comma-separated deny-list of detector ids")

	root.AddCommand(newDetectCmd(), newPrintCmd(), newRegexCmd())
	return root
}

func main() {
	log = logging.New()
	reg = detect.NewRegistry()
	detectors.RegisterBuiltins(reg)

	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		exitCode = 1
	}
	osExit(exitCode)
}

// selectedDetectors applies --detectors/--exclude over reg, in the order
// they were registered.
func selectedDetectors() []detect.Detector {
	allow := toSet(detectorsFlag)
	deny := toSet(excludeFlag)

	var out []detect.Detector
	for _, d := range reg.All() {
		if len(allow) > 0 && !allow[d.ID()] {
			continue
		}
		if deny[d.ID()] {
			continue
		}
		out = append(out, d)
	}
	return out
}

func toSet(vals []string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

// printerByName resolves one of the built-in renderers by flag-facing name.
// The set is a fixed switch: unlike detectors (detect.Registry), printers
// have no registration table, so a host cannot add printers here.
func printerByName(name string) (func(a *analysisBundle) string, bool) {
	switch name {
	case "dot-cfg":
		return func(a *analysisBundle) string { return printer.DOTGraph(a.result.Graph) }, true
	case "dot-callgraph":
		return func(a *analysisBundle) string { return printer.DOTCallGraph(a.result.CallGraph) }, true
	case "summary":
		return func(a *analysisBundle) string {
			return printer.ProgramSummary(a.result.Program.Mode.String(), a.result.Graph, a.result.CallGraph, a.findings)
		}, true
	default:
		return nil, false
	}
}
