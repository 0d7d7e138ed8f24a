package vault

import (
	"context"
	"fmt"
	"time"

	"github.com/croqaz/private-briefcase/store"
)

// logDateLayout is the format used for _logs_ and _info_ timestamps.
const logDateLayout = "2006-01-02 15:04:05"

// Verbosity controls which log levels are mirrored to the host's
// diagnostic sink. The on-disk log always receives both levels
// regardless of verbosity.
type Verbosity int

const (
	VerbositySilent Verbosity = iota
	VerbosityErrors
	VerbosityAll
)

// DiagnosticSink is the host-provided mirror for log output, e.g. the
// CLI's IOStreams.
type DiagnosticSink interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type discardSink struct{}

func (discardSink) Infof(string, ...any)  {}
func (discardSink) Errorf(string, ...any) {}

// Logger is the append-only action journal persisted inside the vault.
type Logger struct {
	sink      DiagnosticSink
	verbosity Verbosity
}

func newLogger(sink DiagnosticSink, verbosity Verbosity) *Logger {
	if sink == nil {
		sink = discardSink{}
	}

	return &Logger{sink: sink, verbosity: verbosity}
}

// Info appends an info-level record to s and mirrors it to the diagnostic
// sink when verbosity is VerbosityAll. s may be a transaction-scoped Store
// so the record commits atomically with the mutation it describes.
func (l *Logger) Info(ctx context.Context, s *store.Store, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)

	if l.verbosity >= VerbosityAll {
		l.sink.Infof("%s\n", msg)
	}

	return s.AppendLog(ctx, time.Now().Format(logDateLayout), msg)
}

// Error appends an error-level record and mirrors it when verbosity is at
// least VerbosityErrors. Error records are journaled even when the
// mutation that triggered them was rolled back, which is why callers pass
// the vault's base (auto-commit) Store here rather than a doomed
// transaction.
func (l *Logger) Error(ctx context.Context, s *store.Store, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)

	if l.verbosity >= VerbosityErrors {
		l.sink.Errorf("%s\n", msg)
	}

	return s.AppendLog(ctx, time.Now().Format(logDateLayout), "ERROR: "+msg)
}
