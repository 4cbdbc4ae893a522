package dggal

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// fakeBinding is an in-memory stand-in for the native library. Zone indexes
// pack the level into the top byte and a position into the rest.
type fakeBinding struct {
	mu        sync.Mutex
	apps      int
	libs      int
	args      []string
	failApps  int // NewApplication fails this many times first
	grid      *fakeGrid
	gridNames map[string]bool
}

func newFakeBinding() *fakeBinding {
	return &fakeBinding{
		grid: &fakeGrid{maxDepth: 33, edges: 6},
		gridNames: map[string]bool{
			"ISEA3H": true, "IVEA3H": true, "ISEA9R": true,
			"IVEA9R": true, "RTEA3H": true, "RTEA9R": true,
		},
	}
}

func (b *fakeBinding) NewApplication(args []string) (Application, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failApps > 0 {
		b.failApps--
		return nil, errors.New("application refused to start")
	}
	b.apps++
	b.args = args
	return fakeApp{b}, nil
}

type fakeApp struct{ b *fakeBinding }

func (a fakeApp) NewLibrary() (Library, error) {
	a.b.mu.Lock()
	defer a.b.mu.Unlock()
	a.b.libs++
	return fakeLibrary{a.b}, nil
}

type fakeLibrary struct{ b *fakeBinding }

func (l fakeLibrary) Grid(name string) (Grid, error) {
	if !l.b.gridNames[name] {
		return nil, fmt.Errorf("no grid named %q", name)
	}
	return l.b.grid, nil
}

type fakeGrid struct {
	maxDepth int
	edges    int
	// panicOn names a method that panics when called.
	panicOn string

	inFlight   atomic.Int32
	overlapped atomic.Bool
	refined    atomic.Int32
	lastExtent GeoExtent
}

func fakeZone(level, pos int) ZoneIndex { return ZoneIndex(level)<<56 | ZoneIndex(pos) }

func fakeLevel(z ZoneIndex) int { return int(z >> 56) }

// enter records overlapping calls; the shared lock must prevent them.
func (g *fakeGrid) enter(method string) func() {
	if g.inFlight.Add(1) > 1 {
		g.overlapped.Store(true)
	}
	if g.panicOn == method {
		g.inFlight.Add(-1)
		panic("native crash in " + method)
	}
	return func() { g.inFlight.Add(-1) }
}

func (g *fakeGrid) MaxDepth() int {
	defer g.enter("MaxDepth")()
	return g.maxDepth
}

func (g *fakeGrid) ZoneLevel(z ZoneIndex) int {
	defer g.enter("ZoneLevel")()
	if z == NullZone || fakeLevel(z) > g.maxDepth {
		return -1
	}
	return fakeLevel(z)
}

// ListZones returns 20 zones for extents wider than a radian and one
// otherwise.
func (g *fakeGrid) ListZones(level int, extent GeoExtent) []ZoneIndex {
	defer g.enter("ListZones")()
	g.lastExtent = extent
	n := 1
	if extent.UR.Lon-extent.LL.Lon > 1 {
		n = 20
	}
	out := make([]ZoneIndex, n)
	for i := range out {
		out[i] = fakeZone(level, i)
	}
	return out
}

func (g *fakeGrid) ZoneFromWGS84Centroid(level int, p GeoPoint) ZoneIndex {
	defer g.enter("ZoneFromWGS84Centroid")()
	if math.Abs(p.Lat) > math.Pi/2 {
		return NullZone
	}
	return fakeZone(level, 7)
}

// SubZones returns 3^depth zones.
func (g *fakeGrid) SubZones(parent ZoneIndex, depth int) []ZoneIndex {
	defer g.enter("SubZones")()
	n := int(math.Pow(3, float64(depth)))
	out := make([]ZoneIndex, n)
	for i := range out {
		out[i] = fakeZone(fakeLevel(parent)+depth, i)
	}
	return out
}

func (g *fakeGrid) ZoneChildren(z ZoneIndex) []ZoneIndex {
	defer g.enter("ZoneChildren")()
	pos := int(z & (1<<56 - 1))
	return []ZoneIndex{
		fakeZone(fakeLevel(z)+1, pos*3),
		fakeZone(fakeLevel(z)+1, pos*3+1),
		fakeZone(fakeLevel(z)+1, pos*3+2),
	}
}

func (g *fakeGrid) ZoneNeighbors(z ZoneIndex) ([]ZoneIndex, []int32) {
	defer g.enter("ZoneNeighbors")()
	ids := make([]ZoneIndex, 6)
	codes := make([]int32, 6)
	for i := range ids {
		ids[i] = z + ZoneIndex(i) + 1
		codes[i] = int32(i)
	}
	return ids, codes
}

func (g *fakeGrid) CountZoneEdges(ZoneIndex) int {
	defer g.enter("CountZoneEdges")()
	return g.edges
}

// ZoneWGS84Vertices returns an open hexagon of radius 1 degree around the
// zone centroid.
func (g *fakeGrid) ZoneWGS84Vertices(z ZoneIndex) []GeoPoint {
	defer g.enter("ZoneWGS84Vertices")()
	return hexagon(g.centroid(z), 1)
}

func (g *fakeGrid) ZoneRefinedWGS84Vertices(z ZoneIndex, _ int) []GeoPoint {
	defer g.enter("ZoneRefinedWGS84Vertices")()
	g.refined.Add(1)
	return hexagon(g.centroid(z), 4)
}

func (g *fakeGrid) ZoneWGS84Centroid(z ZoneIndex) GeoPoint {
	defer g.enter("ZoneWGS84Centroid")()
	return g.centroid(z)
}

func (g *fakeGrid) centroid(z ZoneIndex) GeoPoint {
	pos := int(z & 0xff)
	return GeoPoint{Lat: radians(float64(pos%16) * 5), Lon: radians(float64(pos%32)*10 - 150)}
}

// hexagon returns the six corners of a hexagon, each edge split into perEdge
// segments.
func hexagon(c GeoPoint, perEdge int) []GeoPoint {
	var out []GeoPoint
	r := radians(1)
	for i := 0; i < 6; i++ {
		a0 := float64(i) * math.Pi / 3
		a1 := float64(i+1) * math.Pi / 3
		x0, y0 := c.Lon+r*math.Cos(a0), c.Lat+r*math.Sin(a0)
		x1, y1 := c.Lon+r*math.Cos(a1), c.Lat+r*math.Sin(a1)
		for s := 0; s < perEdge; s++ {
			t := float64(s) / float64(perEdge)
			out = append(out, GeoPoint{Lat: y0 + (y1-y0)*t, Lon: x0 + (x1-x0)*t})
		}
	}
	return out
}
