// Package h3 implements port.Port in process with Uber's H3 library.
//
// The library keeps no state between calls, so an Adapter is safe for any
// number of concurrent callers.
package h3

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	h3go "github.com/uber/h3-go/v4"

	"github.com/banshee-data/dggrs/config"
	"github.com/banshee-data/dggrs/internal/geometry"
	"github.com/banshee-data/dggrs/internal/monitoring"
	"github.com/banshee-data/dggrs/model"
	"github.com/banshee-data/dggrs/port"
	"github.com/banshee-data/dggrs/registry"
)

const (
	backendName = "h3"

	// maxResolution is the finest resolution H3 defines.
	maxResolution = 15
)

// Adapter answers port queries for the H3 grid.
type Adapter struct {
	registry.Spec

	globalMaxLevel int
	densification  int
}

// New returns the H3 adapter. cfg may be nil.
func New(cfg *config.Config) (*Adapter, error) {
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return &Adapter{
		Spec:           registry.MustLookup(registry.H3H3O),
		globalMaxLevel: cfg.GetH3GlobalMaxLevel(),
		densification:  cfg.GetH3Densification(),
	}, nil
}

// ZonesFromBbox implements port.Port. Without a bbox every cell at level is
// listed, which is refused above the configured global ceiling.
func (a *Adapter) ZonesFromBbox(level model.RefinementLevel, bbox *orb.Bound, cfg port.QueryConfig) (model.Zones, error) {
	if err := a.CheckLevel(level); err != nil {
		return nil, err
	}

	var cells []h3go.Cell
	if bbox == nil {
		if level.Int() > a.globalMaxLevel {
			return nil, &model.LimitError{
				Grid:      a.ID.String(),
				Quantity:  "whole-earth refinement level",
				Requested: level.Int64(),
				Minimum:   a.MinLevel.Int64(),
				Maximum:   int64(a.globalMaxLevel),
			}
		}
		cells = globalCells(level.Int())
	} else {
		cells = coverBound(level.Int(), *bbox)
	}
	monitoring.Debugf("h3: %d cells at level %s in %v", len(cells), level, port.ResolveBbox(bbox))
	return a.zones(cells, cfg)
}

// ZoneFromPoint implements port.Port.
func (a *Adapter) ZoneFromPoint(level model.RefinementLevel, p orb.Point, cfg port.QueryConfig) (model.Zones, error) {
	if err := a.CheckLevel(level); err != nil {
		return nil, err
	}
	c := h3go.LatLngToCell(h3go.NewLatLng(p.Lat(), p.Lon()), level.Int())
	zs, err := a.zones([]h3go.Cell{c}, cfg)
	return port.Single(backendName, "point", zs, err)
}

// ZonesFromParent implements port.Port.
func (a *Adapter) ZonesFromParent(depth model.RelativeDepth, parent model.ZoneID, cfg port.QueryConfig) (model.Zones, error) {
	c, err := parseCell(parent)
	if err != nil {
		return nil, err
	}
	parentLevel, err := model.NewRefinementLevel(c.Resolution())
	if err != nil {
		return nil, err
	}
	target, err := a.CheckTarget(parentLevel, depth)
	if err != nil {
		return nil, err
	}
	cells := c.Children(target.Int())
	monitoring.Debugf("h3: %d cells %s levels below %s", len(cells), depth, c)
	return a.zones(cells, cfg)
}

// ZoneFromID implements port.Port.
func (a *Adapter) ZoneFromID(id model.ZoneID, cfg port.QueryConfig) (model.Zones, error) {
	c, err := parseCell(id)
	if err != nil {
		return nil, err
	}
	zs, err := a.zones([]h3go.Cell{c}, cfg)
	return port.Single(backendName, "id", zs, err)
}

// parseCell reads an H3 index. Integer ids are taken as the raw index; an
// all-decimal hex string also parses as an integer id, so its text is tried
// as hex when the number is not a cell.
func parseCell(id model.ZoneID) (h3go.Cell, error) {
	if n, ok := id.AsUint64(); ok {
		if c := h3go.Cell(n); c.IsValid() {
			return c, nil
		}
	}
	text := strings.TrimPrefix(strings.ToLower(id.String()), "0x")
	c := h3go.Cell(h3go.IndexFromString(text))
	if !c.IsValid() {
		return 0, model.Formatf(id.String(), "not a valid H3 cell")
	}
	return c, nil
}

// globalCells lists every cell at res by expanding the 122 base cells.
func globalCells(res int) []h3go.Cell {
	var out []h3go.Cell
	for _, base := range h3go.Res0Cells() {
		out = append(out, base.Children(res)...)
	}
	return out
}

// coverBound returns every cell at res whose boundary intersects b. The
// polygon tiler only yields cells whose centre lies inside b, so its result
// and the cell under the bbox centre seed a walk over neighbours that keeps
// each cell touching b.
func coverBound(res int, b orb.Bound) []h3go.Cell {
	loop := make(h3go.GeoLoop, 0, 4)
	for _, p := range geometry.BoundRing(b)[:4] {
		loop = append(loop, h3go.NewLatLng(p.Lat(), p.Lon()))
	}
	seeds := h3go.PolygonToCells(h3go.GeoPolygon{GeoLoop: loop}, res)
	center := b.Center()
	seeds = append(seeds, h3go.LatLngToCell(h3go.NewLatLng(center.Lat(), center.Lon()), res))

	seen := make(map[h3go.Cell]bool, len(seeds))
	var out, queue []h3go.Cell
	visit := func(c h3go.Cell) {
		if seen[c] {
			return
		}
		seen[c] = true
		if touches(c, b) {
			out = append(out, c)
			queue = append(queue, c)
		}
	}
	for _, c := range seeds {
		visit(c)
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, n := range h3go.GridDisk(c, 1) {
			visit(n)
		}
	}
	return out
}

// touches reports whether the boundary of c intersects b, trying unwrapped
// antimeridian cells at both of their longitudes.
func touches(c h3go.Cell, b orb.Bound) bool {
	r := boundary(c)
	if geometry.RingIntersectsBound(r, b) {
		return true
	}
	if r.Bound().Max[0] <= 180 {
		return false
	}
	west := make(orb.Ring, len(r))
	for i, p := range r {
		west[i] = orb.Point{p[0] - 360, p[1]}
	}
	return geometry.RingIntersectsBound(west, b)
}

// boundary returns the closed cell boundary in degrees. Cells crossing the
// antimeridian have their western longitudes shifted east by 360.
func boundary(c h3go.Cell) orb.Ring {
	cb := c.Boundary()
	ring := make(orb.Ring, 0, len(cb)+1)
	minLon, maxLon := 180.0, -180.0
	for _, ll := range cb {
		ring = append(ring, orb.Point{ll.Lng, ll.Lat})
		minLon = min(minLon, ll.Lng)
		maxLon = max(maxLon, ll.Lng)
	}
	if maxLon-minLon > 180 {
		for i := range ring {
			if ring[i][0] < 0 {
				ring[i][0] += 360
			}
		}
	}
	return geometry.CloseRing(ring)
}

func (a *Adapter) zones(cells []h3go.Cell, cfg port.QueryConfig) (model.Zones, error) {
	zones := make(model.Zones, 0, len(cells))
	for _, c := range cells {
		z, err := a.zone(c, cfg)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

func (a *Adapter) zone(c h3go.Cell, cfg port.QueryConfig) (model.Zone, error) {
	id, err := cellID(c)
	if err != nil {
		return model.Zone{}, err
	}
	z := model.Zone{ID: id}

	if cfg.NeedsGeometry() {
		ring := boundary(c)
		if cfg.VertexCount {
			// H3 boundaries list exactly the cell's corners.
			n := uint32(len(ring) - 1)
			z.VertexCount = &n
		}
		if cfg.Densify && a.densification > 0 {
			ring = geometry.Densify(ring, a.densification)
		}
		poly := orb.Polygon{ring}
		if cfg.AreaSqm {
			area := geometry.Area(poly)
			z.AreaSqm = &area
		}
		if cfg.Region {
			z.Region = poly
		}
	}
	if cfg.Center {
		ll := c.LatLng()
		z.Center = &orb.Point{ll.Lng, ll.Lat}
	}
	if cfg.Children {
		if c.Resolution() >= maxResolution {
			return model.Zone{}, &model.LimitError{
				Grid:      a.ID.String(),
				Quantity:  "refinement level",
				Requested: int64(c.Resolution() + 1),
				Minimum:   a.MinLevel.Int64(),
				Maximum:   maxResolution,
			}
		}
		if z.Children, err = cellIDs(c.Children(c.Resolution() + 1)); err != nil {
			return model.Zone{}, err
		}
	}
	if cfg.Neighbors {
		var ring []h3go.Cell
		for _, n := range h3go.GridDisk(c, 1) {
			if n != c {
				ring = append(ring, n)
			}
		}
		if z.Neighbors, err = cellIDs(ring); err != nil {
			return model.Zone{}, err
		}
	}
	return z, nil
}

func cellID(c h3go.Cell) (model.ZoneID, error) {
	id, err := model.NewHexID(c.String())
	if err != nil {
		return model.ZoneID{}, &model.BackendError{Backend: backendName, Op: "id", Err: fmt.Errorf("cell %d: %w", uint64(c), err)}
	}
	return id, nil
}

func cellIDs(cells []h3go.Cell) ([]model.ZoneID, error) {
	ids := make([]model.ZoneID, 0, len(cells))
	for _, c := range cells {
		id, err := cellID(c)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var _ port.Port = (*Adapter)(nil)
