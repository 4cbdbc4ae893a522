package dggal

import (
	"math"
	"sync"

	"github.com/paulmach/orb"
)

// ZoneIndex is DGGAL's 64-bit zone handle.
type ZoneIndex = uint64

// NullZone is returned by the library when no zone matches.
const NullZone ZoneIndex = math.MaxUint64

// GeoPoint is a geographic position in radians, as the library takes it.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// GeoExtent is a lower-left / upper-right rectangle in radians.
type GeoExtent struct {
	LL GeoPoint
	UR GeoPoint
}

// Binding opens the native library. A cgo package implements it and calls
// Register from its init function.
type Binding interface {
	// NewApplication creates the process-wide application context. The
	// library allows one per process.
	NewApplication(args []string) (Application, error)
}

// Application is the native application context.
type Application interface {
	NewLibrary() (Library, error)
}

// Library resolves grids by name.
type Library interface {
	// Grid returns the handle for a named grid such as "ISEA3H".
	Grid(name string) (Grid, error)
}

// Grid is one DGGRS inside the library. Handles are only valid while the
// shared context lock is held.
type Grid interface {
	MaxDepth() int
	ZoneLevel(z ZoneIndex) int
	ListZones(level int, extent GeoExtent) []ZoneIndex
	ZoneFromWGS84Centroid(level int, p GeoPoint) ZoneIndex
	SubZones(parent ZoneIndex, depth int) []ZoneIndex
	ZoneChildren(z ZoneIndex) []ZoneIndex
	// ZoneNeighbors returns the neighbors of z and a relation code for each.
	ZoneNeighbors(z ZoneIndex) ([]ZoneIndex, []int32)
	CountZoneEdges(z ZoneIndex) int
	ZoneWGS84Vertices(z ZoneIndex) []GeoPoint
	// ZoneRefinedWGS84Vertices returns the boundary with each edge split into
	// segments. edgeRefinement 0 selects the library default.
	ZoneRefinedWGS84Vertices(z ZoneIndex, edgeRefinement int) []GeoPoint
	ZoneWGS84Centroid(z ZoneIndex) GeoPoint
}

var (
	bindingMu sync.RWMutex
	binding   Binding
)

// Register makes a native binding available to adapters. It panics if b is
// nil or a binding is already registered.
func Register(b Binding) {
	bindingMu.Lock()
	defer bindingMu.Unlock()
	if b == nil {
		panic("dggal: Register binding is nil")
	}
	if binding != nil {
		panic("dggal: Register called twice")
	}
	binding = b
}

func registered() Binding {
	bindingMu.RLock()
	defer bindingMu.RUnlock()
	return binding
}

func toGeoPoint(p orb.Point) GeoPoint {
	return GeoPoint{Lat: radians(p.Lat()), Lon: radians(p.Lon())}
}

func toGeoExtent(b orb.Bound) GeoExtent {
	return GeoExtent{LL: toGeoPoint(b.Min), UR: toGeoPoint(b.Max)}
}

func toPoint(g GeoPoint) orb.Point {
	return orb.Point{degrees(g.Lon), degrees(g.Lat)}
}

func toRing(pts []GeoPoint) orb.Ring {
	ring := make(orb.Ring, 0, len(pts)+1)
	for _, g := range pts {
		ring = append(ring, toPoint(g))
	}
	return ring
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
