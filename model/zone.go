// Package model holds the value types shared by every grid backend.
package model

import "github.com/paulmach/orb"

// Zone is one cell of a grid. Only ID is always set; every other field is
// populated when the query asked for it and left nil otherwise.
type Zone struct {
	ID ZoneID `json:"id"`

	// Region is the closed boundary in degrees (lon, lat). The first vertex
	// is repeated at the end of the outer ring.
	Region orb.Polygon `json:"region,omitempty"`

	Center      *orb.Point `json:"center,omitempty"`
	VertexCount *uint32    `json:"vertex_count,omitempty"`
	Children    []ZoneID   `json:"children,omitempty"`
	Neighbors   []ZoneID   `json:"neighbors,omitempty"`
	AreaSqm     *float64   `json:"area_sqm,omitempty"`
}

// Zones is an ordered result set. The order is the backend's own
// enumeration order.
type Zones []Zone

// IDs returns the identifiers of zs in order.
func (zs Zones) IDs() []ZoneID {
	out := make([]ZoneID, len(zs))
	for i := range zs {
		out[i] = zs[i].ID
	}
	return out
}

// Find returns the zone with the given id.
func (zs Zones) Find(id ZoneID) (Zone, bool) {
	for i := range zs {
		if zs[i].ID == id {
			return zs[i], true
		}
	}
	return Zone{}, false
}
