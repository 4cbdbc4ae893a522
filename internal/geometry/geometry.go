// Package geometry holds the zone geometry routines shared by every adapter,
// so area and vertex counts agree across backends.
package geometry

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// simplifyFraction is the Douglas-Peucker tolerance relative to the
	// projected extent of a ring.
	simplifyFraction = 1e-3
	// simplifyFloor is 1e-7 degrees in tangent-plane units, the coordinate
	// precision of DGGRID output.
	simplifyFloor = 1e-7 * math.Pi / 180
	// mergeFraction joins hull vertices closer than this share of the extent
	// into one corner.
	mergeFraction = 0.02
	// minCornerTurn is the smallest exterior angle counted as a corner.
	minCornerTurn = 15 * math.Pi / 180
)

// CloseRing returns r with its first vertex repeated at the end. A ring that
// is already closed is returned unchanged.
func CloseRing(r orb.Ring) orb.Ring {
	if len(r) == 0 || (len(r) > 1 && r[0] == r[len(r)-1]) {
		return r
	}
	out := make(orb.Ring, len(r), len(r)+1)
	copy(out, r)
	return append(out, r[0])
}

// Area returns the area of p in square meters on the WGS84 mean sphere.
func Area(p orb.Polygon) float64 {
	if len(p) == 0 {
		return 0
	}
	return math.Abs(geo.Area(p))
}

// VertexCount counts the corners of the outer ring of p. The ring is
// projected onto the plane tangent at its centroid, where great-circle edges
// are straight, and simplified before its convex hull is taken. Points that
// only densify an edge, and coordinate rounding near a corner, do not count.
func VertexCount(p orb.Polygon) uint32 {
	if len(p) == 0 {
		return 0
	}
	pts := uniquePoints(p[0])
	if len(pts) < 3 {
		return uint32(len(pts))
	}
	plane, ok := tangentPlane(pts)
	if !ok {
		plane = make([]r2.Vec, len(pts))
		for i, pt := range pts {
			plane[i] = r2.Vec{X: pt[0] * math.Pi / 180, Y: pt[1] * math.Pi / 180}
		}
	}
	hull := convexHull(simplifyRing(plane))
	return uint32(countCorners(hull))
}

func uniquePoints(r orb.Ring) []orb.Point {
	seen := make(map[orb.Point]struct{}, len(r))
	out := make([]orb.Point, 0, len(r))
	for _, pt := range r {
		if _, ok := seen[pt]; ok {
			continue
		}
		seen[pt] = struct{}{}
		out = append(out, pt)
	}
	return out
}

// tangentPlane is the gnomonic projection of pts about their centroid on the
// unit sphere. It fails when a point lies a quarter turn or more from the
// centroid.
func tangentPlane(pts []orb.Point) ([]r2.Vec, bool) {
	vs := make([]r3.Vec, len(pts))
	var sum r3.Vec
	for i, pt := range pts {
		lon, lat := pt[0]*math.Pi/180, pt[1]*math.Pi/180
		vs[i] = r3.Vec{X: math.Cos(lat) * math.Cos(lon), Y: math.Cos(lat) * math.Sin(lon), Z: math.Sin(lat)}
		sum = r3.Add(sum, vs[i])
	}
	if r3.Norm(sum) == 0 {
		return nil, false
	}
	c := r3.Unit(sum)
	east := r3.Vec{X: -c.Y, Y: c.X}
	if r3.Norm(east) < 1e-12 {
		east = r3.Vec{Y: 1}
	} else {
		east = r3.Unit(east)
	}
	north := r3.Cross(c, east)

	out := make([]r2.Vec, len(vs))
	for i, v := range vs {
		d := r3.Dot(v, c)
		if d <= 0 {
			return nil, false
		}
		out[i] = r2.Vec{X: r3.Dot(v, east) / d, Y: r3.Dot(v, north) / d}
	}
	return out, true
}

// simplifyRing drops points within a small tolerance of the closed ring
// through pts. The result is open.
func simplifyRing(pts []r2.Vec) []r2.Vec {
	ls := make(orb.LineString, 0, len(pts)+1)
	for _, v := range pts {
		ls = append(ls, orb.Point{v.X, v.Y})
	}
	ls = append(ls, ls[0])
	tol := math.Max(simplifyFraction*extent(pts), simplifyFloor)
	ls = simplify.DouglasPeucker(tol).LineString(ls)

	out := make([]r2.Vec, 0, len(ls))
	for _, pt := range ls[:len(ls)-1] {
		out = append(out, r2.Vec{X: pt[0], Y: pt[1]})
	}
	return out
}

// extent is the diagonal of the bounding box of pts.
func extent(pts []r2.Vec) float64 {
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = r2.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y)}
		hi = r2.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y)}
	}
	return r2.Norm(r2.Sub(hi, lo))
}

// convexHull is Andrew's monotone chain. The result is counter-clockwise and
// excludes exactly collinear points.
func convexHull(pts []r2.Vec) []r2.Vec {
	if len(pts) < 3 {
		return pts
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	turn := func(o, a, b r2.Vec) float64 {
		return r2.Cross(r2.Sub(a, o), r2.Sub(b, o))
	}

	hull := make([]r2.Vec, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && turn(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// countCorners groups runs of nearby hull vertices and counts the groups
// whose exterior angle, measured between the edges entering and leaving the
// group, reaches minCornerTurn.
func countCorners(hull []r2.Vec) int {
	n := len(hull)
	if n <= 3 {
		return n
	}

	// Start after the longest edge so no group wraps around the end.
	start, longest := 0, -1.0
	for i := range hull {
		if d := r2.Norm(r2.Sub(hull[i], hull[(i+n-1)%n])); d > longest {
			start, longest = i, d
		}
	}

	type group struct{ first, last r2.Vec }
	merge := mergeFraction * extent(hull)
	var groups []group
	for k := 0; k < n; k++ {
		p := hull[(start+k)%n]
		if len(groups) > 0 && r2.Norm(r2.Sub(p, groups[len(groups)-1].last)) < merge {
			groups[len(groups)-1].last = p
			continue
		}
		groups = append(groups, group{first: p, last: p})
	}

	m := len(groups)
	if m <= 3 {
		return m
	}
	corners := 0
	for i, g := range groups {
		in := r2.Sub(g.first, groups[(i+m-1)%m].last)
		out := r2.Sub(groups[(i+1)%m].first, g.last)
		if math.Abs(math.Atan2(r2.Cross(in, out), r2.Dot(in, out))) >= minCornerTurn {
			corners++
		}
	}
	return corners
}

// Densify inserts perEdge evenly spaced points on every edge of the closed
// ring r. The result is closed.
func Densify(r orb.Ring, perEdge int) orb.Ring {
	r = CloseRing(r)
	if perEdge <= 0 || len(r) < 2 {
		return r
	}
	out := make(orb.Ring, 0, (len(r)-1)*(perEdge+1)+1)
	for i := 0; i < len(r)-1; i++ {
		a, b := r[i], r[i+1]
		out = append(out, a)
		for k := 1; k <= perEdge; k++ {
			f := float64(k) / float64(perEdge+1)
			out = append(out, orb.Point{a[0] + (b[0]-a[0])*f, a[1] + (b[1]-a[1])*f})
		}
	}
	return append(out, r[len(r)-1])
}

// BoundRing returns the closed five-vertex ring of b, counter-clockwise from
// the lower-left corner.
func BoundRing(b orb.Bound) orb.Ring {
	return orb.Ring{
		{b.Min[0], b.Min[1]},
		{b.Max[0], b.Min[1]},
		{b.Max[0], b.Max[1]},
		{b.Min[0], b.Max[1]},
		{b.Min[0], b.Min[1]},
	}
}

// RingIntersectsBound reports whether the area enclosed by r and b overlap.
func RingIntersectsBound(r orb.Ring, b orb.Bound) bool {
	if len(r) == 0 {
		return false
	}
	if !r.Bound().Intersects(b) {
		return false
	}
	for _, pt := range r {
		if b.Contains(pt) {
			return true
		}
	}
	box := BoundRing(b)
	for _, c := range box[:4] {
		if planar.RingContains(r, c) {
			return true
		}
	}
	closed := CloseRing(r)
	for i := 0; i < len(closed)-1; i++ {
		for j := 0; j < 4; j++ {
			if segmentsIntersect(closed[i], closed[i+1], box[j], box[j+1]) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	a, b := r2.Vec{X: p1[0], Y: p1[1]}, r2.Vec{X: p2[0], Y: p2[1]}
	c, d := r2.Vec{X: q1[0], Y: q1[1]}, r2.Vec{X: q2[0], Y: q2[1]}
	d1 := r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
	d2 := r2.Cross(r2.Sub(b, a), r2.Sub(d, a))
	d3 := r2.Cross(r2.Sub(d, c), r2.Sub(a, c))
	d4 := r2.Cross(r2.Sub(d, c), r2.Sub(b, c))
	return ((d1 > 0) != (d2 > 0)) && ((d3 > 0) != (d4 > 0)) && d1 != 0 && d2 != 0 && d3 != 0 && d4 != 0
}
