// Package dggrs routes a discrete global grid identifier to the adapter that
// answers queries for it.
//
// Each entry of the registry names a grid and the tool that computes it. Get
// builds the matching adapter:
//
//	p, err := dggrs.Get(registry.H3H3O)
//	if err != nil {
//		return err
//	}
//	zs, err := p.ZoneFromPoint(level, orb.Point{lon, lat}, port.DefaultQueryConfig())
//
// DGGAL grids need a binding registered with dggal.Register first.
package dggrs

import (
	"fmt"

	"github.com/banshee-data/dggrs/adapters/dggal"
	"github.com/banshee-data/dggrs/adapters/dggrid"
	"github.com/banshee-data/dggrs/adapters/h3"
	"github.com/banshee-data/dggrs/config"
	"github.com/banshee-data/dggrs/internal/monitoring"
	"github.com/banshee-data/dggrs/internal/version"
	"github.com/banshee-data/dggrs/model"
	"github.com/banshee-data/dggrs/port"
	"github.com/banshee-data/dggrs/registry"
)

// Get returns the adapter for id with default configuration.
func Get(id registry.UID) (port.Port, error) {
	return GetWithConfig(id, nil)
}

// GetWithConfig returns the adapter for id. cfg may be nil.
func GetWithConfig(id registry.UID, cfg *config.Config) (port.Port, error) {
	spec, err := registry.Lookup(id)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config for %s: %w", spec.ID, err)
		}
	}
	monitoring.Debugf("dggrs: opening %s with %s", spec.ID, spec.Tool)

	switch spec.Tool {
	case registry.DGGRID:
		a, err := dggrid.New(id, cfg)
		if err != nil {
			return nil, err
		}
		return a, nil
	case registry.DGGAL:
		a, err := dggal.New(id, cfg)
		if err != nil {
			return nil, err
		}
		return a, nil
	case registry.H3O:
		a, err := h3.New(cfg)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%s: no adapter for tool %s: %w", spec.ID, spec.Tool, model.ErrUnsupported)
	}
}

// Open resolves name with registry.ParseUID and returns its adapter.
func Open(name string, cfg *config.Config) (port.Port, error) {
	id, err := registry.ParseUID(name)
	if err != nil {
		return nil, err
	}
	return GetWithConfig(id, cfg)
}

// Registry lists every known grid in table order.
func Registry() []registry.Spec {
	return registry.Specs()
}

// SetLogger replaces the diagnostic logger used by every adapter. nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	monitoring.SetLogger(f)
}

// SetDebugLogger installs a sink for verbose traces such as metafile
// contents and process invocations. nil mutes it.
func SetDebugLogger(f func(format string, v ...interface{})) {
	monitoring.SetDebugLogger(f)
}

// Version reports the module release.
func Version() string {
	return version.String()
}
