// Package logging provides structured, leveled logging of parse/analysis
// progress and the four error kinds, consistent across every program
// processed in one CLI invocation.
package logging

import (
	"github.com/sirupsen/logrus"
)

// New returns a text-formatted logger, one per CLI invocation, matching the
// component-tagged style the rest of this package's callers rely on.
func New() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

// ParseFailure logs a ParseError at Error level: fatal for that program,
// print file:line and mnemonic, continue with the next program.
func ParseFailure(log *logrus.Logger, file string, err error) {
	log.WithFields(logrus.Fields{"component": "parser", "file": file}).Error(err)
}

// CFGFailure logs a CFGError at Error level: fatal for that program.
func CFGFailure(log *logrus.Logger, file string, err error) {
	log.WithFields(logrus.Fields{"component": "cfg", "file": file}).Error(err)
}

// DataflowCaps logs every CapEvent at Debug level: these never fail the
// program, and the logger New returns (default Info level) does not print
// them.
func DataflowCaps(log *logrus.Logger, file string, caps []error) {
	for _, err := range caps {
		log.WithFields(logrus.Fields{"component": "dataflow", "file": file}).Debug(err)
	}
}

// DetectorFailures logs every DetectorInternal at Warn level and notes that
// detector was skipped for the rest of this program.
func DetectorFailures(log *logrus.Logger, file string, errs []error) {
	for _, err := range errs {
		log.WithFields(logrus.Fields{"component": "detect", "file": file}).Warn(err)
	}
}
