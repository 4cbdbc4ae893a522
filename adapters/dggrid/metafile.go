package dggrid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/banshee-data/dggrs/internal/geometry"
	"github.com/banshee-data/dggrs/model"
	"github.com/banshee-data/dggrs/port"
)

// metafile accumulates DGGRID directives, one "key value" per line, in the
// order they are set.
type metafile struct {
	lines []string
}

func (m *metafile) set(key string, value any) {
	m.lines = append(m.lines, fmt.Sprintf("%s %v", key, value))
}

func (m *metafile) String() string {
	return strings.Join(m.lines, "\n") + "\n"
}

func (m *metafile) Bytes() []byte { return []byte(m.String()) }

// newMetafile writes the directives shared by every operation: output
// format, precision, target resolution and the optional side outputs.
func newMetafile(level model.RefinementLevel, ts *tempSet, cfg port.QueryConfig, densification int) *metafile {
	m := &metafile{}
	m.set("longitude_wrap_mode", "UNWRAP_EAST")
	m.set("cell_output_type", "AIGEN")
	m.set("unwrap_points", "FALSE")
	m.set("output_cell_label_type", "OUTPUT_ADDRESS_TYPE")
	m.set("precision", 7)
	m.set("dggs_res_spec", level.Get())
	m.set("cell_output_file_name", stem(ts.gen))
	if cfg.Neighbors {
		m.set("neighbor_output_type", "TEXT")
		m.set("neighbor_output_file_name", stem(ts.nbr))
	}
	if cfg.Children {
		m.set("children_output_type", "TEXT")
		m.set("children_output_file_name", stem(ts.chd))
	}
	if cfg.Densify && densification > 0 {
		m.set("densification", densification)
	}
	return m
}

// bboxFile renders b as a one-record AIGEN clip region: a header with the
// bbox centre, the five ring vertices, then the record and file terminators.
func bboxFile(b orb.Bound) []byte {
	var sb strings.Builder
	c := b.Center()
	fmt.Fprintf(&sb, "1 %.7f %.7f\n", c[0], c[1])
	for _, p := range geometry.BoundRing(b) {
		fmt.Fprintf(&sb, "%.7f %.7f\n", p[0], p[1])
	}
	sb.WriteString("END\nEND\n")
	return []byte(sb.String())
}

// pointFile renders p as a GEO input record, latitude first.
func pointFile(p orb.Point) []byte {
	lat := strconv.FormatFloat(p.Lat(), 'f', -1, 64)
	lon := strconv.FormatFloat(p.Lon(), 'f', -1, 64)
	return []byte(lat + " " + lon + "\n")
}
