package dggrid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/banshee-data/dggrs/internal/fsutil"
	"github.com/banshee-data/dggrs/internal/runner"
)

// fakeDGGRID stands in for the executable. It reads the metafile from an
// in-memory filesystem and writes the outputs DGGRID would for the requested
// operation, with synthetic hexagons as cell boundaries.
type fakeDGGRID struct {
	fs *fsutil.MemoryFileSystem

	// wholeEarth is the number of cells emitted for WHOLE_EARTH runs.
	wholeEarth int
	// fail makes every run exit unsuccessfully after writing partial output.
	fail bool
	// corrupt writes a truncated polygon file.
	corrupt bool

	calls atomic.Int32

	mu    sync.Mutex
	metas []string
}

func newFake(fs *fsutil.MemoryFileSystem) *fakeDGGRID {
	return &fakeDGGRID{fs: fs, wholeEarth: 12}
}

func (f *fakeDGGRID) lastMeta() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.metas) == 0 {
		return ""
	}
	return f.metas[len(f.metas)-1]
}

func (f *fakeDGGRID) Run(name string, args ...string) (string, error) {
	f.calls.Add(1)
	if len(args) != 1 {
		return "", fmt.Errorf("expected one argument, got %d", len(args))
	}
	raw, err := f.fs.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.metas = append(f.metas, string(raw))
	f.mu.Unlock()

	meta := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		k, v, _ := strings.Cut(line, " ")
		meta[k] = v
	}

	codec := Z3
	if meta["output_address_type"] == "Z7" {
		codec = Z7
	}
	res, _ := strconv.Atoi(meta["dggs_res_spec"])

	var ids []uint64
	switch {
	case meta["dggrid_operation"] == "TRANSFORM_POINTS" && meta["input_address_type"] == "GEO":
		in, err := f.fs.ReadFile(meta["input_file_name"])
		if err != nil {
			return "", err
		}
		if len(strings.Fields(string(in))) != 2 {
			return "", fmt.Errorf("bad point input %q", in)
		}
		id, _ := codec.Encode(1, make([]uint8, res))
		ids = append(ids, id)

	case meta["dggrid_operation"] == "TRANSFORM_POINTS":
		in, err := f.fs.ReadFile(meta["input_file_name"])
		if err != nil {
			return "", err
		}
		v, err := strconv.ParseUint(strings.TrimSpace(string(in)), 16, 64)
		if err != nil {
			return "", err
		}
		ids = append(ids, v)

	case meta["clip_subset_type"] == "WHOLE_EARTH":
		for i := 0; i < f.wholeEarth; i++ {
			path := make([]uint8, res)
			if res > 0 {
				path[res-1] = uint8(i / 12 % int(codec.padding))
			}
			id, _ := codec.Encode(uint8(i%12), path)
			ids = append(ids, id)
		}

	case meta["clip_subset_type"] == "AIGEN":
		if !f.fs.Exists(meta["clip_region_files"]) {
			return "", errors.New("clip region file missing")
		}
		id, _ := codec.Encode(2, make([]uint8, res))
		ids = append(ids, id)

	case meta["clip_subset_type"] == "COARSE_CELLS":
		parent, err := strconv.ParseUint(strings.Trim(meta["clip_cell_addresses"], `"`), 16, 64)
		if err != nil {
			return "", err
		}
		parentRes, _ := strconv.Atoi(meta["clip_cell_res"])
		ids = descendants(codec, parent, parentRes, res)

	default:
		return "", errors.New("unknown operation")
	}

	if f.corrupt {
		_ = f.fs.WriteFile(meta["cell_output_file_name"]+".gen", []byte("0100000000000000 1 2\n1 1\n"), 0o644)
		return "", nil
	}

	var gen strings.Builder
	for i, id := range ids {
		writeHexagon(&gen, codec.Format(id), float64(i%36)*10-175, float64(i/36%8)*5-20)
	}
	gen.WriteString("END\n")
	_ = f.fs.WriteFile(meta["cell_output_file_name"]+".gen", []byte(gen.String()), 0o644)

	if name, ok := meta["children_output_file_name"]; ok {
		var sb strings.Builder
		for _, id := range ids {
			_, r, _ := codec.Decode(id)
			sb.WriteString(codec.Format(id))
			for _, c := range descendants(codec, id, r, r+1) {
				sb.WriteString(" " + codec.Format(c))
			}
			sb.WriteString("\n")
		}
		_ = f.fs.WriteFile(name+".chd", []byte(sb.String()), 0o644)
	}
	if name, ok := meta["neighbor_output_file_name"]; ok {
		var sb strings.Builder
		for i, id := range ids {
			fmt.Fprintf(&sb, "%s %s\n", codec.Format(id), codec.Format(ids[(i+1)%len(ids)]))
		}
		_ = f.fs.WriteFile(name+".nbr", []byte(sb.String()), 0o644)
	}

	if f.fail {
		out := "ERROR: invalid metafile\n"
		return out, &runner.ExitError{Name: name, Output: out, Err: errors.New("exit status 1")}
	}
	return "", nil
}

// descendants enumerates every address below parent at res.
func descendants(c Codec, parent uint64, parentRes, res int) []uint64 {
	if res > c.digits {
		return nil
	}
	base := uint8(parent >> digitBits)
	mask := uint64(1)<<c.bits - 1
	prefix := make([]uint8, parentRes)
	for i := range prefix {
		prefix[i] = uint8(parent >> (uint(digitBits) - c.bits*uint(i+1)) & mask)
	}
	out := []uint64{}
	var walk func(path []uint8)
	walk = func(path []uint8) {
		if len(path) == res {
			v, err := c.Encode(base, path)
			if err == nil {
				out = append(out, v)
			}
			return
		}
		for d := uint8(0); uint64(d) < c.padding; d++ {
			walk(append(append([]uint8{}, path...), d))
		}
	}
	walk(prefix)
	return out
}

// writeHexagon writes one closed AIGEN record for a hexagon of radius 1
// degree around (cx, cy).
func writeHexagon(sb *strings.Builder, id string, cx, cy float64) {
	fmt.Fprintf(sb, "%s %.7f %.7f\n", id, cx, cy)
	var first string
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		line := fmt.Sprintf("%.7f %.7f\n", cx+math.Cos(a), cy+math.Sin(a))
		if i == 0 {
			first = line
		}
		sb.WriteString(line)
	}
	sb.WriteString(first)
	sb.WriteString("END\n")
}
