// Package dggrid implements port.Port by driving the DGGRID executable.
//
// Each call writes a metafile and its inputs to uniquely named temp files in
// a work directory, runs DGGRID once with the metafile as its only argument,
// parses the polygon and id-list outputs and removes every temp file before
// returning. Calls share no state and may run concurrently.
package dggrid

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/banshee-data/dggrs/config"
	"github.com/banshee-data/dggrs/internal/fsutil"
	"github.com/banshee-data/dggrs/internal/geometry"
	"github.com/banshee-data/dggrs/internal/monitoring"
	"github.com/banshee-data/dggrs/internal/runner"
	"github.com/banshee-data/dggrs/model"
	"github.com/banshee-data/dggrs/port"
	"github.com/banshee-data/dggrs/registry"
)

const backendName = "dggrid"

// family holds the directives that select one DGGRID grid.
type family struct {
	dggsType string
	aperture int
	codec    Codec
	extra    [][2]string
}

var families = map[registry.Name]family{
	registry.ISEA3H: {dggsType: "ISEA3H", aperture: 3, codec: Z3, extra: [][2]string{{"z3_invalid_digit", "3"}}},
	registry.IGEO7:  {dggsType: "IGEO7", aperture: 7, codec: Z7},
}

func (f family) appendTo(m *metafile) {
	m.set("dggs_type", f.dggsType)
	m.set("dggs_aperture", f.aperture)
	m.set("output_address_type", f.codec.Name())
	for _, kv := range f.extra {
		m.set(kv[0], kv[1])
	}
}

// Adapter answers port queries for one DGGRID-backed grid.
type Adapter struct {
	registry.Spec

	family            family
	executable        string
	workdir           string
	densification     int
	clipDensification int

	fs       fsutil.FileSystem
	runner   runner.Runner
	newToken func() string
}

// Option customises an Adapter.
type Option func(*Adapter)

// WithFileSystem replaces the filesystem used for temp files.
func WithFileSystem(fs fsutil.FileSystem) Option {
	return func(a *Adapter) { a.fs = fs }
}

// WithRunner replaces the process runner.
func WithRunner(r runner.Runner) Option {
	return func(a *Adapter) { a.runner = r }
}

// WithTokenSource replaces the temp-file token generator.
func WithTokenSource(f func() string) Option {
	return func(a *Adapter) { a.newToken = f }
}

// New returns the adapter for a DGGRID-backed registry entry. cfg may be nil.
func New(id registry.UID, cfg *config.Config, opts ...Option) (*Adapter, error) {
	spec, err := registry.Lookup(id)
	if err != nil {
		return nil, err
	}
	fam, ok := families[spec.Name]
	if spec.Tool != registry.DGGRID || !ok {
		return nil, fmt.Errorf("%w: %s has no DGGRID adapter", model.ErrUnsupported, id)
	}
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	ex := runner.NewExecutor("")
	ex.SetLogger(monitoring.DebugLogger{})

	a := &Adapter{
		Spec:              spec,
		family:            fam,
		executable:        cfg.GetDGGRIDExecutable(),
		workdir:           cfg.GetDGGRIDWorkdir(),
		densification:     cfg.GetDGGRIDDensification(),
		clipDensification: cfg.GetDGGRIDClipCellDensification(),
		fs:                fsutil.OSFileSystem{},
		runner:            ex,
		newToken:          randomToken,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// NewISEA3H returns the ISEA3H adapter.
func NewISEA3H(cfg *config.Config, opts ...Option) (*Adapter, error) {
	return New(registry.ISEA3HDGGRID, cfg, opts...)
}

// NewIGEO7 returns the IGEO7 adapter.
func NewIGEO7(cfg *config.Config, opts ...Option) (*Adapter, error) {
	return New(registry.IGEO7DGGRID, cfg, opts...)
}

// Workdir returns the directory temp files are written to.
func (a *Adapter) Workdir() string { return a.workdir }

// ZonesFromBbox implements port.Port.
func (a *Adapter) ZonesFromBbox(level model.RefinementLevel, bbox *orb.Bound, cfg port.QueryConfig) (model.Zones, error) {
	if err := a.CheckLevel(level); err != nil {
		return nil, err
	}
	return a.query("bbox", level, cfg, func(ts *tempSet, m *metafile) error {
		if bbox == nil {
			m.set("clip_subset_type", "WHOLE_EARTH")
			return nil
		}
		if err := a.write(ts.bbox, bboxFile(*bbox)); err != nil {
			return err
		}
		m.set("clip_subset_type", "AIGEN")
		m.set("clip_region_files", ts.bbox)
		return nil
	})
}

// ZoneFromPoint implements port.Port.
func (a *Adapter) ZoneFromPoint(level model.RefinementLevel, p orb.Point, cfg port.QueryConfig) (model.Zones, error) {
	if err := a.CheckLevel(level); err != nil {
		return nil, err
	}
	zs, err := a.query("point", level, cfg, func(ts *tempSet, m *metafile) error {
		if err := a.write(ts.input, pointFile(p)); err != nil {
			return err
		}
		m.set("dggrid_operation", "TRANSFORM_POINTS")
		m.set("input_address_type", "GEO")
		m.set("input_file_name", ts.input)
		return nil
	})
	return port.Single(backendName, "point", zs, err)
}

// ZonesFromParent implements port.Port. The parent's resolution is decoded
// from its packed address.
func (a *Adapter) ZonesFromParent(depth model.RelativeDepth, parent model.ZoneID, cfg port.QueryConfig) (model.Zones, error) {
	parentLevel, err := a.family.codec.Resolution(parent)
	if err != nil {
		return nil, err
	}
	label, err := a.family.codec.Label(parent)
	if err != nil {
		return nil, err
	}
	target, err := a.CheckTarget(parentLevel, depth)
	if err != nil {
		return nil, err
	}
	return a.query("parent", target, cfg, func(ts *tempSet, m *metafile) error {
		m.set("clip_subset_type", "COARSE_CELLS")
		m.set("clip_cell_res", parentLevel.Get())
		m.set("clip_cell_densification", a.clipDensification)
		m.set("clip_cell_addresses", fmt.Sprintf("%q", label))
		m.set("input_address_type", a.family.codec.Name())
		return nil
	})
}

// ZoneFromID implements port.Port.
func (a *Adapter) ZoneFromID(id model.ZoneID, cfg port.QueryConfig) (model.Zones, error) {
	level, err := a.family.codec.Resolution(id)
	if err != nil {
		return nil, err
	}
	if err := a.CheckLevel(level); err != nil {
		return nil, err
	}
	label, err := a.family.codec.Label(id)
	if err != nil {
		return nil, err
	}
	zs, err := a.query("id", level, cfg, func(ts *tempSet, m *metafile) error {
		if err := a.write(ts.input, []byte(label+"\n")); err != nil {
			return err
		}
		m.set("dggrid_operation", "TRANSFORM_POINTS")
		m.set("input_address_type", a.family.codec.Name())
		m.set("input_file_name", ts.input)
		return nil
	})
	return port.Single(backendName, "id", zs, err)
}

// query runs one DGGRID invocation. prepare writes operation inputs and
// appends the operation's directives after the family block.
func (a *Adapter) query(op string, level model.RefinementLevel, cfg port.QueryConfig, prepare func(*tempSet, *metafile) error) (model.Zones, error) {
	ts, err := newTempSet(a.workdir, a.newToken())
	if err != nil {
		return nil, &model.BackendError{Backend: backendName, Op: op, Err: err}
	}
	defer ts.cleanup(a.fs)

	m := newMetafile(level, ts, cfg, a.densification)
	a.family.appendTo(m)
	if err := prepare(ts, m); err != nil {
		return nil, &model.BackendError{Backend: backendName, Op: op, Err: err}
	}
	if err := a.write(ts.meta, m.Bytes()); err != nil {
		return nil, &model.BackendError{Backend: backendName, Op: op, Err: err}
	}
	monitoring.Debugf("dggrid %s metafile %s:\n%s", op, ts.meta, m)

	if _, err := a.runner.Run(a.executable, ts.meta); err != nil {
		monitoring.Logf("dggrid %s: %s %s failed: %v", op, a.executable, ts.meta, err)
		return nil, &model.BackendError{Backend: backendName, Op: op, Err: err}
	}
	return a.collect(op, ts, cfg)
}

func (a *Adapter) write(path string, data []byte) error {
	return a.fs.WriteFile(path, data, 0o600)
}

func (a *Adapter) read(op, path string) ([]byte, error) {
	data, err := a.fs.ReadFile(path)
	if err != nil {
		return nil, &model.BackendError{Backend: backendName, Op: op, Err: err}
	}
	return data, nil
}

// collect parses the outputs of a finished run and applies the field
// selection of cfg.
func (a *Adapter) collect(op string, ts *tempSet, cfg port.QueryConfig) (model.Zones, error) {
	data, err := a.read(op, ts.gen)
	if err != nil {
		return nil, err
	}
	cells, err := parseAIGEN(data)
	if err != nil {
		return nil, err
	}

	var children, neighbors map[string][]model.ZoneID
	if cfg.Children {
		if children, err = a.readIDLists(op, ts.chd); err != nil {
			return nil, err
		}
	}
	if cfg.Neighbors {
		if neighbors, err = a.readIDLists(op, ts.nbr); err != nil {
			return nil, err
		}
	}

	zones := make(model.Zones, 0, len(cells))
	for _, c := range cells {
		z := model.Zone{ID: c.id}
		poly := orb.Polygon{c.ring}
		if cfg.VertexCount {
			n := geometry.VertexCount(poly)
			z.VertexCount = &n
		}
		if cfg.AreaSqm {
			area := geometry.Area(poly)
			z.AreaSqm = &area
		}
		if cfg.Region {
			z.Region = poly
		}
		if cfg.Center {
			center := c.center
			z.Center = &center
		}
		if ids, ok := children[c.id.String()]; ok {
			z.Children = ids
		}
		if ids, ok := neighbors[c.id.String()]; ok {
			z.Neighbors = ids
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func (a *Adapter) readIDLists(op, path string) (map[string][]model.ZoneID, error) {
	data, err := a.read(op, path)
	if err != nil {
		return nil, err
	}
	return parseIDLists(data)
}

var _ port.Port = (*Adapter)(nil)
