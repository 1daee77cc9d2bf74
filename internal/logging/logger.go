// Package logging provides the console logger used across the gateway.
// It wraps pkg/colors with a label-scoped Logger so a device's log lines
// can be tagged with its device ID without threading a prefix through
// every call site, mirroring how the gateway's Python predecessor
// contextualized loguru with a log_label.
package logging

import (
	"fmt"
	"os"

	"github.com/intelcon-group/gt06-gateway/pkg/colors"
)

// Logger emits console lines optionally tagged with a label. The zero
// value is a valid unlabeled logger.
type Logger struct {
	label string
}

// New returns an unlabeled Logger.
func New() *Logger {
	return &Logger{}
}

// With returns a copy of l scoped to label. Typical use is one With per
// device ID, so every line a session or input mapper logs for that
// device carries its ID.
func (l *Logger) With(label string) *Logger {
	return &Logger{label: label}
}

func (l *Logger) tag(format string) string {
	if l == nil || l.label == "" {
		return format
	}
	return fmt.Sprintf("[%s] %s", l.label, format)
}

func (l *Logger) Info(format string, args ...interface{}) {
	colors.PrintInfo(l.tag(format), args...)
}

func (l *Logger) Success(format string, args ...interface{}) {
	colors.PrintSuccess(l.tag(format), args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	colors.PrintWarning(l.tag(format), args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	colors.PrintError(l.tag(format), args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	colors.PrintDebug(l.tag(format), args...)
}

// Fatal logs a permanent startup error and terminates the process. It is
// reserved for errors the spec classifies as Permanent: a device-state
// store that cannot be reached at boot leaves the gateway unable to do
// anything useful, so there is no supervised retry to fall back to.
func Fatal(format string, args ...interface{}) {
	colors.PrintError(format, args...)
	os.Exit(1)
}
