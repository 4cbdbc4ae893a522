package dggrid

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/banshee-data/dggrs/internal/geometry"
	"github.com/banshee-data/dggrs/model"
)

// cell is one AIGEN record before the query's field selection is applied.
type cell struct {
	id     model.ZoneID
	center orb.Point
	ring   orb.Ring
}

// parseAIGEN reads DGGRID's polygon output. Each record is a three-token
// header "id x y", one "x y" line per vertex and an END line. A lone END
// outside a record terminates the file.
func parseAIGEN(data []byte) ([]cell, error) {
	var (
		cells []cell
		cur   *cell
		line  int
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line++
		text := sc.Text()
		fields := strings.Fields(text)
		switch {
		case len(fields) == 0:
			continue

		case len(fields) == 1 && fields[0] == "END":
			if cur == nil {
				return cells, nil
			}
			if len(cur.ring) < 3 {
				return nil, model.Formatf(text, "line %d: zone %s has %d vertices", line, cur.id, len(cur.ring))
			}
			cur.ring = geometry.CloseRing(cur.ring)
			cells = append(cells, *cur)
			cur = nil

		case len(fields) == 3:
			if cur != nil {
				return nil, model.Formatf(text, "line %d: header inside zone %s", line, cur.id)
			}
			id, err := model.NewHexID(fields[0])
			if err != nil {
				return nil, err
			}
			x, y, err := parsePair(fields[1], fields[2])
			if err != nil {
				return nil, model.Formatf(text, "line %d: %v", line, err)
			}
			cur = &cell{id: id, center: orb.Point{x, y}}

		case len(fields) == 2:
			if cur == nil {
				return nil, model.Formatf(text, "line %d: vertex outside a zone", line)
			}
			x, y, err := parsePair(fields[0], fields[1])
			if err != nil {
				return nil, model.Formatf(text, "line %d: %v", line, err)
			}
			cur.ring = append(cur.ring, orb.Point{x, y})

		default:
			return nil, model.Formatf(text, "line %d: unexpected %d tokens", line, len(fields))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, model.Formatf("", "reading polygon output: %v", err)
	}
	if cur != nil {
		return nil, model.Formatf("", "polygon output ends inside zone %s", cur.id)
	}
	return cells, nil
}

func parsePair(a, b string) (float64, float64, error) {
	x, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.ParseFloat(b, 64)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// parseIDLists reads a children or neighbor file: one line per zone, the
// zone's id followed by related ids. Keys must be unique.
func parseIDLists(data []byte) (map[string][]model.ZoneID, error) {
	out := make(map[string][]model.ZoneID)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		key := fields[0]
		if _, dup := out[key]; dup {
			return nil, model.Formatf(key, "duplicate zone in id list")
		}
		ids := make([]model.ZoneID, 0, len(fields)-1)
		for _, f := range fields[1:] {
			id, err := model.NewHexID(f)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		out[key] = ids
	}
	if err := sc.Err(); err != nil {
		return nil, model.Formatf("", "reading id list: %v", err)
	}
	return out, nil
}
