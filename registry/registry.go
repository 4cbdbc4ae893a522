// Package registry holds the static table of supported grids: which tool
// backs each one and the refinement bounds every adapter enforces.
package registry

import (
	"fmt"

	"github.com/banshee-data/dggrs/model"
)

// Spec is one immutable registry entry. Adapters embed it to answer the
// capability queries of port.Port.
type Spec struct {
	ID          UID
	Name        Name
	Tool        Tool
	Title       string
	Description string
	URI         string
	CRS         string

	MinLevel        model.RefinementLevel
	MaxLevel        model.RefinementLevel
	DefaultLevel    model.RefinementLevel
	MaxRelDepth     model.RelativeDepth
	DefaultRelDepth model.RelativeDepth
}

const crs84 = "http://www.opengis.net/def/crs/OGC/1.3/CRS84"

var (
	lv = model.MustRefinementLevel
	rd = model.MustRelativeDepth
)

// table is indexed by UID.
var table = [numUIDs]Spec{
	ISEA3HDGGRID: {
		ID: ISEA3HDGGRID, Name: ISEA3H, Tool: DGGRID,
		Title:       "ISEA3H (DGGRID)",
		Description: "Icosahedral Snyder equal-area aperture 3 hexagonal grid, Z3 addressing",
		URI:         "https://github.com/sahrk/DGGRID",
		CRS:         crs84,
		MinLevel:    lv(0), MaxLevel: lv(30), DefaultLevel: lv(3),
		MaxRelDepth: rd(8), DefaultRelDepth: rd(5),
	},
	IGEO7DGGRID: {
		ID: IGEO7DGGRID, Name: IGEO7, Tool: DGGRID,
		Title:       "IGEO7 (DGGRID)",
		Description: "Icosahedral Snyder equal-area aperture 7 hexagonal grid, Z7 addressing",
		URI:         "https://github.com/sahrk/DGGRID",
		CRS:         crs84,
		MinLevel:    lv(0), MaxLevel: lv(20), DefaultLevel: lv(2),
		MaxRelDepth: rd(5), DefaultRelDepth: rd(3),
	},
	H3H3O: {
		ID: H3H3O, Name: H3, Tool: H3O,
		Title:       "H3",
		Description: "Uber H3 aperture 7 hexagonal hierarchical grid",
		URI:         "https://h3geo.org",
		CRS:         crs84,
		MinLevel:    lv(0), MaxLevel: lv(15), DefaultLevel: lv(2),
		MaxRelDepth: rd(6), DefaultRelDepth: rd(4),
	},
	ISEA3HDGGAL: {
		ID: ISEA3HDGGAL, Name: ISEA3H, Tool: DGGAL,
		Title:       "ISEA3H (DGGAL)",
		Description: "Icosahedral Snyder equal-area aperture 3 hexagonal grid",
		URI:         "https://dggal.org",
		CRS:         crs84,
		MinLevel:    lv(0), MaxLevel: lv(33), DefaultLevel: lv(3),
		MaxRelDepth: rd(11), DefaultRelDepth: rd(8),
	},
	IVEA3HDGGAL: {
		ID: IVEA3HDGGAL, Name: IVEA3H, Tool: DGGAL,
		Title:       "IVEA3H (DGGAL)",
		Description: "Icosahedral vertex-oriented great circle equal-area aperture 3 hexagonal grid",
		URI:         "https://dggal.org",
		CRS:         crs84,
		MinLevel:    lv(0), MaxLevel: lv(33), DefaultLevel: lv(3),
		MaxRelDepth: rd(11), DefaultRelDepth: rd(8),
	},
	ISEA9RDGGAL: {
		ID: ISEA9RDGGAL, Name: ISEA9R, Tool: DGGAL,
		Title:       "ISEA9R (DGGAL)",
		Description: "Icosahedral Snyder equal-area aperture 9 rhombic grid",
		URI:         "https://dggal.org",
		CRS:         crs84,
		MinLevel:    lv(0), MaxLevel: lv(16), DefaultLevel: lv(2),
		MaxRelDepth: rd(8), DefaultRelDepth: rd(2),
	},
	IVEA9RDGGAL: {
		ID: IVEA9RDGGAL, Name: IVEA9R, Tool: DGGAL,
		Title:       "IVEA9R (DGGAL)",
		Description: "Icosahedral vertex-oriented great circle equal-area aperture 9 rhombic grid",
		URI:         "https://dggal.org",
		CRS:         crs84,
		MinLevel:    lv(0), MaxLevel: lv(16), DefaultLevel: lv(2),
		MaxRelDepth: rd(6), DefaultRelDepth: rd(4),
	},
	RTEA3HDGGAL: {
		ID: RTEA3HDGGAL, Name: RTEA3H, Tool: DGGAL,
		Title:       "RTEA3H (DGGAL)",
		Description: "Rhombic triacontahedron equal-area aperture 3 hexagonal grid",
		URI:         "https://dggal.org",
		CRS:         crs84,
		MinLevel:    lv(0), MaxLevel: lv(33), DefaultLevel: lv(2),
		MaxRelDepth: rd(11), DefaultRelDepth: rd(8),
	},
	RTEA9RDGGAL: {
		ID: RTEA9RDGGAL, Name: RTEA9R, Tool: DGGAL,
		Title:       "RTEA9R (DGGAL)",
		Description: "Rhombic triacontahedron equal-area aperture 9 rhombic grid",
		URI:         "https://dggal.org",
		CRS:         crs84,
		MinLevel:    lv(0), MaxLevel: lv(16), DefaultLevel: lv(2),
		MaxRelDepth: rd(6), DefaultRelDepth: rd(4),
	},
}

// Specs returns a copy of the table in registry order.
func Specs() []Spec {
	out := make([]Spec, len(table))
	copy(out, table[:])
	return out
}

// All returns every UID in registry order.
func All() []UID {
	out := make([]UID, numUIDs)
	for i := range out {
		out[i] = UID(i)
	}
	return out
}

// Lookup returns the entry for u.
func Lookup(u UID) (Spec, error) {
	if !u.Valid() {
		return Spec{}, fmt.Errorf("%w: %d", model.ErrUnknownGrid, uint8(u))
	}
	return table[u], nil
}

// MustLookup is Lookup for the package's own constants.
func MustLookup(u UID) Spec {
	s, err := Lookup(u)
	if err != nil {
		panic(err)
	}
	return s
}

// MinRefinementLevel reports the coarsest level of the grid.
func (s Spec) MinRefinementLevel() (model.RefinementLevel, error) { return s.MinLevel, nil }

// MaxRefinementLevel reports the finest level of the grid.
func (s Spec) MaxRefinementLevel() (model.RefinementLevel, error) { return s.MaxLevel, nil }

// DefaultRefinementLevel reports the level used when the caller has none.
func (s Spec) DefaultRefinementLevel() (model.RefinementLevel, error) { return s.DefaultLevel, nil }

// MaxRelativeDepth reports the deepest subtree query allowed.
func (s Spec) MaxRelativeDepth() (model.RelativeDepth, error) { return s.MaxRelDepth, nil }

// DefaultRelativeDepth reports the subtree depth used when the caller has none.
func (s Spec) DefaultRelativeDepth() (model.RelativeDepth, error) { return s.DefaultRelDepth, nil }

// CheckLevel fails with a *model.LimitError when level is outside the
// grid's bounds.
func (s Spec) CheckLevel(level model.RefinementLevel) error {
	if level.Compare(s.MinLevel) < 0 || level.Compare(s.MaxLevel) > 0 {
		return &model.LimitError{
			Grid:      s.ID.String(),
			Quantity:  "refinement level",
			Requested: level.Int64(),
			Minimum:   s.MinLevel.Int64(),
			Maximum:   s.MaxLevel.Int64(),
		}
	}
	return nil
}

// CheckRelativeDepth fails with a *model.LimitError when depth is deeper
// than the grid allows.
func (s Spec) CheckRelativeDepth(depth model.RelativeDepth) error {
	if depth.Get() > s.MaxRelDepth.Get() {
		return &model.LimitError{
			Grid:      s.ID.String(),
			Quantity:  "relative depth",
			Requested: depth.Int64(),
			Maximum:   s.MaxRelDepth.Int64(),
		}
	}
	return nil
}

// CheckTarget validates a subtree query below a zone at parent and returns
// the absolute level of the requested descendants.
func (s Spec) CheckTarget(parent model.RefinementLevel, depth model.RelativeDepth) (model.RefinementLevel, error) {
	if err := s.CheckRelativeDepth(depth); err != nil {
		return model.RefinementLevel{}, err
	}
	target, err := parent.Add(depth)
	if err != nil {
		return model.RefinementLevel{}, err
	}
	if err := s.CheckLevel(target); err != nil {
		return model.RefinementLevel{}, err
	}
	return target, nil
}
