package testutil

import (
	"fmt"
	"testing"

	"github.com/paulmach/orb"

	"github.com/banshee-data/dggrs/model"
)

// recorder captures failures instead of stopping the test.
type recorder struct {
	testing.TB
	failed bool
	msgs   []string
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.failed = true
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
}

func (r *recorder) Fatalf(format string, args ...any) { r.Errorf(format, args...) }

func TestAssertSingle(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	AssertSingle(r, model.Zones{{ID: model.NewIntID(1)}})
	if r.failed {
		t.Error("expected no failure for one zone")
	}
	AssertSingle(r, model.Zones{})
	if !r.failed {
		t.Error("expected failure for empty zones")
	}
}

func TestAssertOnlyID(t *testing.T) {
	t.Parallel()

	n := uint32(6)
	bare := model.Zones{{ID: model.NewIntID(1)}}
	counted := model.Zones{{ID: model.NewIntID(1), VertexCount: &n}}
	withCenter := model.Zones{{ID: model.NewIntID(1), Center: &orb.Point{1, 2}}}

	tests := []struct {
		name       string
		zs         model.Zones
		withCount  bool
		wantFailed bool
	}{
		{"bare", bare, false, false},
		{"counted allowed", counted, true, false},
		{"counted not allowed", counted, false, true},
		{"count missing", bare, true, true},
		{"center present", withCenter, false, true},
		{"zero id", model.Zones{{}}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recorder{}
			AssertOnlyID(r, tt.zs, tt.withCount)
			if r.failed != tt.wantFailed {
				t.Errorf("failed = %v, want %v (%v)", r.failed, tt.wantFailed, r.msgs)
			}
		})
	}
}

func TestAssertClosedRegions(t *testing.T) {
	t.Parallel()

	closed := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}
	open := orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}}}

	r := &recorder{}
	AssertClosedRegions(r, model.Zones{{ID: model.NewIntID(1), Region: closed}})
	if r.failed {
		t.Errorf("unexpected failure: %v", r.msgs)
	}

	r = &recorder{}
	AssertClosedRegions(r, model.Zones{{ID: model.NewIntID(1), Region: open}})
	if !r.failed {
		t.Error("expected failure for open ring")
	}

	r = &recorder{}
	AssertClosedRegions(r, model.Zones{{ID: model.NewIntID(1)}})
	if !r.failed {
		t.Error("expected failure for missing region")
	}
}
