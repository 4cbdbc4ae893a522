// Package testutil provides shared test assertions for zone results.
//
// Every adapter test checks the same properties of a Zones value (field
// gating, ring closure, single results), so the checks live here.
package testutil

import (
	"testing"

	"github.com/banshee-data/dggrs/model"
)

// AssertSingle fails unless zs holds exactly one zone.
func AssertSingle(t testing.TB, zs model.Zones) {
	t.Helper()
	if len(zs) != 1 {
		t.Fatalf("got %d zones, want exactly 1", len(zs))
	}
}

// AssertOnlyID fails if any zone carries an optional field. VertexCount is
// allowed when withVertexCount is set.
func AssertOnlyID(t testing.TB, zs model.Zones, withVertexCount bool) {
	t.Helper()
	for i, z := range zs {
		if z.ID.IsZero() {
			t.Errorf("zone %d has no id", i)
		}
		if z.Region != nil || z.Center != nil || z.Children != nil || z.Neighbors != nil || z.AreaSqm != nil {
			t.Errorf("zone %s carries fields that were not requested: %+v", z.ID, z)
		}
		if (z.VertexCount != nil) != withVertexCount {
			t.Errorf("zone %s vertex count present = %v, want %v", z.ID, z.VertexCount != nil, withVertexCount)
		}
	}
}

// AssertClosedRegions fails unless every zone has a closed outer ring of at
// least four points.
func AssertClosedRegions(t testing.TB, zs model.Zones) {
	t.Helper()
	for _, z := range zs {
		if len(z.Region) == 0 {
			t.Errorf("zone %s has no region", z.ID)
			continue
		}
		ring := z.Region[0]
		if len(ring) < 4 || ring[0] != ring[len(ring)-1] {
			t.Errorf("zone %s ring is not closed: %v", z.ID, ring)
		}
	}
}
