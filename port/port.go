// Package port defines the query interface every grid backend implements.
package port

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/banshee-data/dggrs/model"
)

// WholeEarth is the bound used when a bbox query is given no bbox.
var WholeEarth = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

// Port is the query surface of one grid. Implementations are safe for
// concurrent use. Points and bounds are in degrees, X = longitude,
// Y = latitude.
type Port interface {
	// ZonesFromBbox lists every zone at level intersecting bbox. A nil bbox
	// means WholeEarth.
	ZonesFromBbox(level model.RefinementLevel, bbox *orb.Bound, cfg QueryConfig) (model.Zones, error)

	// ZoneFromPoint returns the one zone at level containing p.
	ZoneFromPoint(level model.RefinementLevel, p orb.Point, cfg QueryConfig) (model.Zones, error)

	// ZonesFromParent lists the descendants of parent depth levels below it.
	ZonesFromParent(depth model.RelativeDepth, parent model.ZoneID, cfg QueryConfig) (model.Zones, error)

	// ZoneFromID returns the zone named by id.
	ZoneFromID(id model.ZoneID, cfg QueryConfig) (model.Zones, error)

	MinRefinementLevel() (model.RefinementLevel, error)
	MaxRefinementLevel() (model.RefinementLevel, error)
	DefaultRefinementLevel() (model.RefinementLevel, error)
	MaxRelativeDepth() (model.RelativeDepth, error)
	DefaultRelativeDepth() (model.RelativeDepth, error)
}

// QueryConfig selects which optional zone fields a query computes.
type QueryConfig struct {
	Region      bool `json:"region"`
	Center      bool `json:"center"`
	VertexCount bool `json:"vertex_count"`
	Children    bool `json:"children"`
	Neighbors   bool `json:"neighbors"`
	AreaSqm     bool `json:"area_sqm"`
	Densify     bool `json:"densify"`
}

// DefaultQueryConfig enables every field.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		Region:      true,
		Center:      true,
		VertexCount: true,
		Children:    true,
		Neighbors:   true,
		AreaSqm:     true,
		Densify:     true,
	}
}

// IDOnly disables every optional field.
func IDOnly() QueryConfig { return QueryConfig{} }

// NeedsGeometry reports whether any field derived from the zone boundary is
// requested.
func (c QueryConfig) NeedsGeometry() bool {
	return c.Region || c.VertexCount || c.AreaSqm
}

// ResolveBbox returns *bbox, or WholeEarth when bbox is nil.
func ResolveBbox(bbox *orb.Bound) orb.Bound {
	if bbox == nil {
		return WholeEarth
	}
	return *bbox
}

// Single enforces the one-zone result of point and id queries.
func Single(backend, op string, zs model.Zones, err error) (model.Zones, error) {
	if err != nil {
		return nil, err
	}
	if len(zs) != 1 {
		return nil, &model.BackendError{
			Backend: backend,
			Op:      op,
			Err:     fmt.Errorf("expected exactly one zone, got %d", len(zs)),
		}
	}
	return zs, nil
}
