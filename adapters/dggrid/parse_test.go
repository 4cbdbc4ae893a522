package dggrid

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"

	"github.com/banshee-data/dggrs/model"
)

const twoZones = `0a7fffffffffffff 10.0 20.0
9.0 19.0
11.0 19.0
11.0 21.0
9.0 21.0
9.0 19.0
END
0a5fffffffffffff -30.5 -45.25
-31 -46
-30 -46
-30.5 -45
END
END
`

func TestParseAIGEN(t *testing.T) {
	cells, err := parseAIGEN([]byte(twoZones))
	if err != nil {
		t.Fatalf("parseAIGEN: %v", err)
	}
	if len(cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(cells))
	}

	if cells[0].id.String() != "0a7fffffffffffff" || cells[0].id.Kind() != model.HexKind {
		t.Errorf("first id = %v (%v)", cells[0].id, cells[0].id.Kind())
	}
	if cells[0].center != (orb.Point{10, 20}) {
		t.Errorf("first center = %v", cells[0].center)
	}
	wantRing := orb.Ring{{9, 19}, {11, 19}, {11, 21}, {9, 21}, {9, 19}}
	if diff := cmp.Diff(wantRing, cells[0].ring); diff != "" {
		t.Errorf("first ring mismatch (-want +got):\n%s", diff)
	}

	// The second record is not closed in the file and gets closed.
	second := cells[1].ring
	if len(second) != 4 || second[0] != second[3] {
		t.Errorf("second ring not closed: %v", second)
	}
}

func TestParseAIGENWithoutTerminator(t *testing.T) {
	data := strings.TrimSuffix(twoZones, "END\n")
	cells, err := parseAIGEN([]byte(data))
	if err != nil || len(cells) != 2 {
		t.Errorf("parseAIGEN without final END = %d cells, %v", len(cells), err)
	}

	cells, err = parseAIGEN([]byte("END\n"))
	if err != nil || len(cells) != 0 {
		t.Errorf("parseAIGEN(END) = %v, %v", cells, err)
	}
}

func TestParseAIGENErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"vertex outside zone", "1 2\nEND\n"},
		{"header inside zone", "0a 1 2\n1 1\n0b 3 4\n"},
		{"four tokens", "0a 1 2\n1 1 1 1\nEND\n"},
		{"bad float in header", "0a x 2\n"},
		{"bad float in vertex", "0a 1 2\n1 y\nEND\n"},
		{"bad id", "zz 1 2\n1 1\n2 2\n3 3\nEND\n"},
		{"ends inside zone", "0a 1 2\n1 1\n2 2\n"},
		{"too few vertices", "0a 1 2\n1 1\n2 2\nEND\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAIGEN([]byte(tt.data))
			if !errors.Is(err, model.ErrFormat) {
				t.Errorf("parseAIGEN error = %v, want ErrFormat", err)
			}
		})
	}
}

func TestParseIDLists(t *testing.T) {
	data := "0a7fffffffffffff 0a1fffffffffffff 0a5fffffffffffff\n\n0a5fffffffffffff\n"
	got, err := parseIDLists([]byte(data))
	if err != nil {
		t.Fatalf("parseIDLists: %v", err)
	}
	want := map[string][]model.ZoneID{
		"0a7fffffffffffff": {model.MustParseZoneID("0a1fffffffffffff"), model.MustParseZoneID("0a5fffffffffffff")},
		"0a5fffffffffffff": {},
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b model.ZoneID) bool { return a == b })); diff != "" {
		t.Errorf("parseIDLists mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIDListsErrors(t *testing.T) {
	_, err := parseIDLists([]byte("0a 0b\n0a 0c\n"))
	if !errors.Is(err, model.ErrFormat) {
		t.Errorf("duplicate key error = %v, want ErrFormat", err)
	}
	_, err = parseIDLists([]byte("0a nothex!\n"))
	if !errors.Is(err, model.ErrFormat) {
		t.Errorf("bad id error = %v, want ErrFormat", err)
	}
}

func TestBboxFile(t *testing.T) {
	got := string(bboxFile(orb.Bound{Min: orb.Point{-10, 40}, Max: orb.Point{-9, 41}}))
	want := `1 -9.5000000 40.5000000
-10.0000000 40.0000000
-9.0000000 40.0000000
-9.0000000 41.0000000
-10.0000000 41.0000000
-10.0000000 40.0000000
END
END
`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bboxFile mismatch (-want +got):\n%s", diff)
	}

	// The clip file is itself valid AIGEN.
	cells, err := parseAIGEN([]byte(got))
	if err != nil || len(cells) != 1 {
		t.Errorf("bbox file does not parse as AIGEN: %v", err)
	}
}

func TestPointFile(t *testing.T) {
	got := string(pointFile(orb.Point{-9.1393, 38.7223}))
	if got != "38.7223 -9.1393\n" {
		t.Errorf("pointFile = %q, want lat before lon", got)
	}
}
