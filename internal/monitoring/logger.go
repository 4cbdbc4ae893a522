package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf receives verbose traces: metafile contents, process invocations,
// enumeration sizes. It is a no-op until SetDebugLogger installs a sink.
var Debugf func(format string, v ...interface{}) = nop

func nop(string, ...interface{}) {}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = nop
		return
	}
	Logf = f
}

// SetDebugLogger replaces the debug logger. Passing nil mutes it again.
func SetDebugLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Debugf = nop
		return
	}
	Debugf = f
}

// DebugLogger forwards Debugf calls to the current package debug logger,
// looked up at call time so later SetDebugLogger calls take effect.
type DebugLogger struct{}

// Debugf implements the Debugf-only logger interfaces used by runners.
func (DebugLogger) Debugf(format string, v ...interface{}) { Debugf(format, v...) }
