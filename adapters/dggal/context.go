package dggal

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/banshee-data/dggrs/internal/monitoring"
	"github.com/banshee-data/dggrs/model"
)

// libContext owns the one application and library the native code allows
// per process. Every call into the library happens with mu held.
type libContext struct {
	mu sync.Mutex

	// binding returns the binding to initialise from; nil means none yet.
	binding func() Binding

	app      Application
	lib      Library
	poisoned bool
}

// shared is the process-wide context used by adapters built with New.
var shared = &libContext{binding: registered}

var errNoBinding = errors.New("no DGGAL binding registered")

// withGrid locks the context, initialises it on first use, resolves the
// named grid and runs fn. A panic inside fn leaves the library in an unknown
// state, so the context is marked poisoned and every later call fails.
func (c *libContext) withGrid(name string, args []string, fn func(Grid) error) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned {
		return fmt.Errorf("%w: context poisoned by an earlier panic", model.ErrLockFailure)
	}
	defer func() {
		if r := recover(); r != nil {
			c.poisoned = true
			monitoring.Logf("dggal: panic in native call on %s, context unusable: %v", name, r)
			err = fmt.Errorf("%w: panic in native call: %v", model.ErrLockFailure, r)
		}
	}()

	if err := c.init(args); err != nil {
		return &model.BackendError{Backend: backendName, Op: "init", Err: err}
	}
	g, err := c.lib.Grid(name)
	if err == nil && g == nil {
		err = errors.New("no handle returned")
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrUnknownGrid, name, err)
	}
	return fn(g)
}

// init creates the application and library if they do not exist yet. A
// failed attempt leaves the context empty so the next call retries.
func (c *libContext) init(args []string) error {
	if c.lib != nil {
		return nil
	}
	b := c.binding()
	if b == nil {
		return errNoBinding
	}
	if c.app == nil {
		if args == nil {
			args = os.Args
		}
		app, err := b.NewApplication(args)
		if err != nil {
			return fmt.Errorf("creating application: %w", err)
		}
		c.app = app
	}
	lib, err := c.app.NewLibrary()
	if err != nil {
		return fmt.Errorf("creating library: %w", err)
	}
	c.lib = lib
	monitoring.Logf("dggal: library context initialised")
	return nil
}
