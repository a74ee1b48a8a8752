// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

type (
	// Options configures a Logger.
	Options struct {
		// Workflow enables workflow commands on the command writer.
		Workflow bool
		// Verbose lowers the level to debug.
		Verbose bool
		// Prefix is prepended to every log line.
		Prefix string
	}

	// Logger writes human log lines to stderr and, inside a workflow,
	// workflow commands to stdout.
	Logger struct {
		log      *log.Logger
		commands io.Writer
		workflow bool
	}
)

// NewLogger creates a Logger. stderr receives log lines, stdout receives
// workflow commands.
func NewLogger(stderr, stdout io.Writer, opts Options) *Logger {
	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}

	return &Logger{
		log: log.NewWithOptions(stderr, log.Options{
			Level:  level,
			Prefix: opts.Prefix,
		}),
		commands: stdout,
		workflow: opts.Workflow,
	}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewLogger(io.Discard, io.Discard, Options{})
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.log.Debug(msg, keyvals...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.log.Info(msg, keyvals...)
}

// Warning logs at warn level and raises a warning annotation.
func (l *Logger) Warning(msg string, keyvals ...any) {
	l.log.Warn(msg, keyvals...)
	if l.workflow {
		_ = IssueCommand(l.commands, "warning", msg)
	}
}

// Mask registers secret with the runner so it is redacted from the job
// log. Empty and whitespace-only values are ignored.
func (l *Logger) Mask(secret string) {
	if !l.workflow || strings.TrimSpace(secret) == "" {
		return
	}
	_ = IssueCommand(l.commands, "add-mask", secret)
}

// Group folds the log lines that follow into a collapsible section and
// returns the function closing it.
func (l *Logger) Group(name string) func() {
	if !l.workflow {
		l.log.Debug("begin", "group", name)
		return func() { l.log.Debug("end", "group", name) }
	}
	_ = IssueCommand(l.commands, "group", name)
	return func() { _ = IssueCommand(l.commands, "endgroup", "") }
}
