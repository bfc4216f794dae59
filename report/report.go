// Package report defines the diagnostic interface used by section file
// loaders and the remote fetcher, with a logrus-backed default.
//
// Loading a section file is a batch operation over possibly dirty captures:
// callers usually want one error return plus a trail of per-section warnings
// rather than a hard stop at the first oddity. A Reporter receives that
// trail.
package report

import (
	"github.com/sirupsen/logrus"
)

// Reporter receives diagnostics emitted while processing section files.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warning(format string, args ...any)
	Error(format string, args ...any)
}

// logReporter forwards diagnostics to a logrus logger.
type logReporter struct {
	entry *logrus.Entry
}

var _ Reporter = (*logReporter)(nil)

// New returns a Reporter writing to the standard logrus logger, tagged with
// the given component name.
func New(component string) Reporter {
	return FromLogger(logrus.StandardLogger(), component)
}

// FromLogger returns a Reporter writing to an existing logrus logger.
func FromLogger(logger *logrus.Logger, component string) Reporter {
	return &logReporter{entry: logger.WithField("component", component)}
}

func (r *logReporter) Debug(format string, args ...any)   { r.entry.Debugf(format, args...) }
func (r *logReporter) Info(format string, args ...any)    { r.entry.Infof(format, args...) }
func (r *logReporter) Warning(format string, args ...any) { r.entry.Warnf(format, args...) }
func (r *logReporter) Error(format string, args ...any)   { r.entry.Errorf(format, args...) }

// nullReporter drops every diagnostic.
type nullReporter struct{}

var _ Reporter = nullReporter{}

// Null returns a Reporter that discards all diagnostics. It is the default
// of APIs that take an optional Reporter.
func Null() Reporter {
	return nullReporter{}
}

func (nullReporter) Debug(string, ...any)   {}
func (nullReporter) Info(string, ...any)    {}
func (nullReporter) Warning(string, ...any) {}
func (nullReporter) Error(string, ...any)   {}
