package registry

import (
	"fmt"
	"strings"

	"github.com/banshee-data/dggrs/model"
)

// Tool names the backend family that implements a grid.
type Tool uint8

const (
	// DGGRID drives the external DGGRID executable through temp files.
	DGGRID Tool = iota + 1
	// DGGAL binds the native DGGAL library through one process-wide context.
	DGGAL
	// H3O computes H3 cells in process.
	H3O
	// Native is reserved for grids computed by this module itself. No
	// adapter exists for it yet.
	Native
)

func (t Tool) String() string {
	switch t {
	case DGGRID:
		return "DGGRID"
	case DGGAL:
		return "DGGAL"
	case H3O:
		return "H3O"
	case Native:
		return "NATIVE"
	default:
		return fmt.Sprintf("Tool(%d)", uint8(t))
	}
}

// Name is the grid family name shared by every tool that implements it.
type Name string

const (
	ISEA3H Name = "ISEA3H"
	IGEO7  Name = "IGEO7"
	H3     Name = "H3"
	IVEA3H Name = "IVEA3H"
	ISEA9R Name = "ISEA9R"
	IVEA9R Name = "IVEA9R"
	RTEA3H Name = "RTEA3H"
	RTEA9R Name = "RTEA9R"
)

// UID identifies one (grid, tool) pairing. Its value is the index of the
// entry in the registry table.
type UID uint8

const (
	ISEA3HDGGRID UID = iota
	IGEO7DGGRID
	H3H3O
	ISEA3HDGGAL
	IVEA3HDGGAL
	ISEA9RDGGAL
	IVEA9RDGGAL
	RTEA3HDGGAL
	RTEA9RDGGAL

	numUIDs
)

// Valid reports whether u names an entry of the table.
func (u UID) Valid() bool { return u < numUIDs }

// String renders the canonical NAME-TOOL form. Native grids render as NAME.
func (u UID) String() string {
	if !u.Valid() {
		return fmt.Sprintf("UID(%d)", uint8(u))
	}
	s := &table[u]
	if s.Tool == Native {
		return string(s.Name)
	}
	return string(s.Name) + "-" + s.Tool.String()
}

// MarshalText implements encoding.TextMarshaler.
func (u UID) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("%w: %d", model.ErrUnknownGrid, uint8(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseUID.
func (u *UID) UnmarshalText(b []byte) error {
	v, err := ParseUID(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// UIDError reports text that names no grid, or a short name that matches
// more than one.
type UIDError struct {
	Input      string
	Candidates []UID
	Ambiguous  bool
}

func (e *UIDError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.String()
	}
	if e.Ambiguous {
		return fmt.Sprintf("grid name %q is ambiguous, use one of: %s", e.Input, strings.Join(names, ", "))
	}
	return fmt.Sprintf("unknown grid %q, expected one of: %s", e.Input, strings.Join(names, ", "))
}

func (e *UIDError) Unwrap() error { return model.ErrUnknownGrid }

// ParseUID resolves free text to a grid. It accepts NAME-TOOL, NAME_TOOL and
// NAMETOOL in any case, and a bare NAME when exactly one tool implements it.
func ParseUID(s string) (UID, error) {
	norm := normalise(s)
	if norm == "" {
		return 0, &UIDError{Input: s, Candidates: All()}
	}

	var short []UID
	for i := range table {
		spec := &table[i]
		if norm == normalise(string(spec.Name)+spec.Tool.String()) {
			return spec.ID, nil
		}
		if norm == normalise(string(spec.Name)) {
			short = append(short, spec.ID)
		}
	}

	switch len(short) {
	case 0:
		return 0, &UIDError{Input: s, Candidates: All()}
	case 1:
		return short[0], nil
	default:
		return 0, &UIDError{Input: s, Candidates: short, Ambiguous: true}
	}
}

func normalise(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
