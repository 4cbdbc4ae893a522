// Package dggal implements port.Port on top of the DGGAL native library.
//
// The library permits one application context per process, so every
// adapter shares a single lazily created context guarded by a mutex. The
// lock is held only while raw zone data is read from the library; zones and
// areas are assembled after it is released.
//
// The cgo binding lives outside this module and hooks in through Register,
// the way database/sql drivers do.
package dggal

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/banshee-data/dggrs/config"
	"github.com/banshee-data/dggrs/internal/geometry"
	"github.com/banshee-data/dggrs/internal/monitoring"
	"github.com/banshee-data/dggrs/model"
	"github.com/banshee-data/dggrs/port"
	"github.com/banshee-data/dggrs/registry"
)

const backendName = "dggal"

// Adapter answers port queries for one DGGAL grid.
type Adapter struct {
	registry.Spec

	grid string
	args []string
	ctx  *libContext
}

// New returns the adapter for a DGGAL-backed registry entry. It fails with
// model.ErrUnsupported when no binding has been registered. cfg may be nil.
func New(id registry.UID, cfg *config.Config) (*Adapter, error) {
	spec, err := registry.Lookup(id)
	if err != nil {
		return nil, err
	}
	if spec.Tool != registry.DGGAL {
		return nil, fmt.Errorf("%w: %s has no DGGAL adapter", model.ErrUnsupported, id)
	}
	if registered() == nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrUnsupported, id, errNoBinding)
	}
	return newAdapter(spec, cfg, shared), nil
}

func newAdapter(spec registry.Spec, cfg *config.Config, ctx *libContext) *Adapter {
	return &Adapter{
		Spec: spec,
		grid: string(spec.Name),
		args: cfg.GetDGGALArgs(),
		ctx:  ctx,
	}
}

func NewISEA3H(cfg *config.Config) (*Adapter, error) { return New(registry.ISEA3HDGGAL, cfg) }
func NewIVEA3H(cfg *config.Config) (*Adapter, error) { return New(registry.IVEA3HDGGAL, cfg) }
func NewISEA9R(cfg *config.Config) (*Adapter, error) { return New(registry.ISEA9RDGGAL, cfg) }
func NewIVEA9R(cfg *config.Config) (*Adapter, error) { return New(registry.IVEA9RDGGAL, cfg) }
func NewRTEA3H(cfg *config.Config) (*Adapter, error) { return New(registry.RTEA3HDGGAL, cfg) }
func NewRTEA9R(cfg *config.Config) (*Adapter, error) { return New(registry.RTEA9RDGGAL, cfg) }

// ZonesFromBbox implements port.Port.
func (a *Adapter) ZonesFromBbox(level model.RefinementLevel, bbox *orb.Bound, cfg port.QueryConfig) (model.Zones, error) {
	if err := a.CheckLevel(level); err != nil {
		return nil, err
	}
	extent := toGeoExtent(port.ResolveBbox(bbox))

	var raw []rawZone
	err := a.ctx.withGrid(a.grid, a.args, func(g Grid) error {
		raw = collect(g, g.ListZones(level.Int(), extent), cfg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	monitoring.Debugf("dggal %s: %d zones at level %s in %v", a.grid, len(raw), level, port.ResolveBbox(bbox))
	return build(raw, cfg)
}

// ZoneFromPoint implements port.Port.
func (a *Adapter) ZoneFromPoint(level model.RefinementLevel, p orb.Point, cfg port.QueryConfig) (model.Zones, error) {
	if err := a.CheckLevel(level); err != nil {
		return nil, err
	}

	var raw []rawZone
	err := a.ctx.withGrid(a.grid, a.args, func(g Grid) error {
		z := g.ZoneFromWGS84Centroid(level.Int(), toGeoPoint(p))
		if z == NullZone {
			return &model.BackendError{
				Backend: backendName,
				Op:      "point",
				Err:     fmt.Errorf("no %s zone at level %s contains %v", a.grid, level, p),
			}
		}
		raw = collect(g, []ZoneIndex{z}, cfg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	zs, err := build(raw, cfg)
	return port.Single(backendName, "point", zs, err)
}

// ZonesFromParent implements port.Port. The parent's level is read from the
// library.
func (a *Adapter) ZonesFromParent(depth model.RelativeDepth, parent model.ZoneID, cfg port.QueryConfig) (model.Zones, error) {
	if err := a.CheckRelativeDepth(depth); err != nil {
		return nil, err
	}
	p, err := zoneIndex(parent)
	if err != nil {
		return nil, err
	}

	var raw []rawZone
	err = a.ctx.withGrid(a.grid, a.args, func(g Grid) error {
		parentLevel, err := a.levelOf(g, parent, p)
		if err != nil {
			return err
		}
		if _, err := a.CheckTarget(parentLevel, depth); err != nil {
			return err
		}
		raw = collect(g, g.SubZones(p, depth.Int()), cfg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	monitoring.Debugf("dggal %s: %d zones %s levels below %s", a.grid, len(raw), depth, parent)
	return build(raw, cfg)
}

// ZoneFromID implements port.Port.
func (a *Adapter) ZoneFromID(id model.ZoneID, cfg port.QueryConfig) (model.Zones, error) {
	z, err := zoneIndex(id)
	if err != nil {
		return nil, err
	}

	var raw []rawZone
	err = a.ctx.withGrid(a.grid, a.args, func(g Grid) error {
		if _, err := a.levelOf(g, id, z); err != nil {
			return err
		}
		raw = collect(g, []ZoneIndex{z}, cfg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	zs, err := build(raw, cfg)
	return port.Single(backendName, "id", zs, err)
}

// MaxRefinementLevel implements port.Port by asking the library.
func (a *Adapter) MaxRefinementLevel() (model.RefinementLevel, error) {
	var depth int
	err := a.ctx.withGrid(a.grid, a.args, func(g Grid) error {
		depth = g.MaxDepth()
		return nil
	})
	if err != nil {
		return model.RefinementLevel{}, err
	}
	return model.NewRefinementLevel(depth)
}

func (a *Adapter) levelOf(g Grid, id model.ZoneID, z ZoneIndex) (model.RefinementLevel, error) {
	lvl := g.ZoneLevel(z)
	if lvl < 0 {
		return model.RefinementLevel{}, model.Formatf(id.String(), "not a %s zone", a.grid)
	}
	return model.NewRefinementLevel(lvl)
}

// zoneIndex accepts integer ids and decimal text.
func zoneIndex(id model.ZoneID) (ZoneIndex, error) {
	if n, ok := id.AsUint64(); ok {
		return n, nil
	}
	n, err := strconv.ParseUint(id.String(), 10, 64)
	if err != nil {
		return 0, model.Formatf(id.String(), "DGGAL zone ids are unsigned decimal integers")
	}
	return n, nil
}

// rawZone is what is read from the library for one zone while the lock is
// held.
type rawZone struct {
	index     ZoneIndex
	vertices  []GeoPoint
	centroid  GeoPoint
	edges     int
	children  []ZoneIndex
	neighbors []ZoneIndex
}

func collect(g Grid, ids []ZoneIndex, cfg port.QueryConfig) []rawZone {
	out := make([]rawZone, len(ids))
	for i, z := range ids {
		r := rawZone{index: z}
		if cfg.Region || cfg.AreaSqm {
			if cfg.Densify {
				r.vertices = g.ZoneRefinedWGS84Vertices(z, 0)
			} else {
				r.vertices = g.ZoneWGS84Vertices(z)
			}
		}
		if cfg.Center {
			r.centroid = g.ZoneWGS84Centroid(z)
		}
		if cfg.VertexCount {
			r.edges = g.CountZoneEdges(z)
		}
		if cfg.Children {
			r.children = g.ZoneChildren(z)
		}
		if cfg.Neighbors {
			// Relation codes are not exposed on model.Zone.
			r.neighbors, _ = g.ZoneNeighbors(z)
		}
		out[i] = r
	}
	return out
}

func build(raw []rawZone, cfg port.QueryConfig) (model.Zones, error) {
	zones := make(model.Zones, 0, len(raw))
	for _, r := range raw {
		z := model.Zone{ID: model.NewIntID(r.index)}
		if cfg.VertexCount {
			if r.edges < 0 || uint64(r.edges) > math.MaxUint32 {
				return nil, fmt.Errorf("%w: edge count %d of zone %d does not fit in 32 bits", model.ErrOverflow, r.edges, r.index)
			}
			n := uint32(r.edges)
			z.VertexCount = &n
		}
		if cfg.Region || cfg.AreaSqm {
			ring := geometry.CloseRing(toRing(r.vertices))
			if len(ring) < 4 {
				return nil, &model.BackendError{
					Backend: backendName,
					Op:      "vertices",
					Err:     fmt.Errorf("zone %d has %d vertices", r.index, len(r.vertices)),
				}
			}
			poly := orb.Polygon{ring}
			if cfg.Region {
				z.Region = poly
			}
			if cfg.AreaSqm {
				area := geometry.Area(poly)
				z.AreaSqm = &area
			}
		}
		if cfg.Center {
			c := toPoint(r.centroid)
			z.Center = &c
		}
		if cfg.Children {
			z.Children = toIDs(r.children)
		}
		if cfg.Neighbors {
			z.Neighbors = toIDs(r.neighbors)
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func toIDs(zs []ZoneIndex) []model.ZoneID {
	ids := make([]model.ZoneID, len(zs))
	for i, z := range zs {
		ids[i] = model.NewIntID(z)
	}
	return ids
}

var _ port.Port = (*Adapter)(nil)
