// Package runner executes external grid-generation tools.
package runner

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/banshee-data/dggrs/internal/timeutil"
)

// Logger defines the interface for debug logging.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// LoggerFunc adapts a printf-style function to Logger.
type LoggerFunc func(format string, args ...interface{})

// Debugf calls f.
func (f LoggerFunc) Debugf(format string, args ...interface{}) { f(format, args...) }

// nopLogger is a no-op logger implementation.
type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...interface{}) {}

// Runner runs one executable to completion and returns its combined output.
type Runner interface {
	Run(name string, args ...string) (string, error)
}

// Func adapts a plain function to Runner.
type Func func(name string, args ...string) (string, error)

// Run calls f.
func (f Func) Run(name string, args ...string) (string, error) { return f(name, args...) }

// Executor runs commands on the local host.
type Executor struct {
	// Dir is the working directory of started processes. Empty means the
	// caller's working directory.
	Dir    string
	Logger Logger
	// Clock times each process for the debug log.
	Clock timeutil.Clock
}

// NewExecutor creates a new command executor.
func NewExecutor(dir string) *Executor {
	return &Executor{Dir: dir, Logger: nopLogger{}, Clock: timeutil.RealClock{}}
}

// SetLogger sets the debug logger for the executor.
func (e *Executor) SetLogger(logger Logger) {
	if logger != nil {
		e.Logger = logger
	}
}

// Run executes name with args and waits for it to exit. A non-zero exit is
// reported as an error that carries the process output.
func (e *Executor) Run(name string, args ...string) (string, error) {
	logger := e.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	clock := e.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	logger.Debugf("Executing: %s %s (dir=%s)", name, strings.Join(args, " "), e.Dir)

	start := clock.Now()
	cmd := exec.Command(name, args...)
	cmd.Dir = e.Dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		logger.Debugf("Command failed after %s: %v, output: %s", clock.Since(start), err, output)
		return string(output), &ExitError{Name: name, Output: string(output), Err: err}
	}
	logger.Debugf("Command finished in %s", clock.Since(start))
	return string(output), nil
}

// ExitError reports a process that could not start or exited unsuccessfully.
type ExitError struct {
	Name   string
	Output string
	Err    error
}

func (e *ExitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
	const maxOutput = 512
	if len(out) > maxOutput {
		out = out[len(out)-maxOutput:]
	}
	return fmt.Sprintf("%s: %v, output: %s", e.Name, e.Err, out)
}

func (e *ExitError) Unwrap() error { return e.Err }
