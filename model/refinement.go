package model

import (
	"fmt"
	"math"
	"strconv"
)

// RefinementLevel is the absolute hierarchy depth (resolution) of a grid.
// It is never negative.
type RefinementLevel struct{ v int32 }

// NewRefinementLevel validates and wraps v.
func NewRefinementLevel(v int) (RefinementLevel, error) {
	if v < 0 {
		return RefinementLevel{}, &LimitError{Quantity: "refinement level", Requested: int64(v), Maximum: math.MaxInt32}
	}
	if v > math.MaxInt32 {
		return RefinementLevel{}, fmt.Errorf("%w: refinement level %d does not fit 32 bits", ErrOverflow, v)
	}
	return RefinementLevel{v: int32(v)}, nil
}

// MustRefinementLevel is NewRefinementLevel for static tables.
func MustRefinementLevel(v int) RefinementLevel {
	l, err := NewRefinementLevel(v)
	if err != nil {
		panic(err)
	}
	return l
}

// RefinementLevelFromUint8 widens without loss.
func RefinementLevelFromUint8(v uint8) RefinementLevel { return RefinementLevel{v: int32(v)} }

// RefinementLevelFromUint16 widens without loss.
func RefinementLevelFromUint16(v uint16) RefinementLevel { return RefinementLevel{v: int32(v)} }

// Get returns the level.
func (l RefinementLevel) Get() int32 { return l.v }

// Int returns the level as an int.
func (l RefinementLevel) Int() int { return int(l.v) }

// Int64 widens the level.
func (l RefinementLevel) Int64() int64 { return int64(l.v) }

// Uint8 narrows the level, failing with ErrOverflow above 255.
func (l RefinementLevel) Uint8() (uint8, error) {
	if l.v > math.MaxUint8 {
		return 0, fmt.Errorf("%w: refinement level %d does not fit 8 bits", ErrOverflow, l.v)
	}
	return uint8(l.v), nil
}

// Add returns l + d as a new absolute level. It is used to turn a parent
// resolution plus a relative depth into the target resolution of a subtree
// query.
func (l RefinementLevel) Add(d RelativeDepth) (RefinementLevel, error) {
	return NewRefinementLevel(int(int64(l.v) + int64(d.v)))
}

// Compare returns -1, 0 or +1.
func (l RefinementLevel) Compare(o RefinementLevel) int {
	switch {
	case l.v < o.v:
		return -1
	case l.v > o.v:
		return 1
	}
	return 0
}

func (l RefinementLevel) String() string { return strconv.Itoa(int(l.v)) }

// MarshalText implements encoding.TextMarshaler.
func (l RefinementLevel) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *RefinementLevel) UnmarshalText(b []byte) error {
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return Formatf(string(b), "refinement level is not an integer")
	}
	nl, err := NewRefinementLevel(v)
	if err != nil {
		return err
	}
	*l = nl
	return nil
}

// RelativeDepth is a non-negative depth offset below a parent zone.
type RelativeDepth struct{ v int32 }

// NewRelativeDepth validates and wraps v.
func NewRelativeDepth(v int) (RelativeDepth, error) {
	if v < 0 {
		return RelativeDepth{}, &LimitError{Quantity: "relative depth", Requested: int64(v), Maximum: math.MaxInt32}
	}
	if v > math.MaxInt32 {
		return RelativeDepth{}, fmt.Errorf("%w: relative depth %d does not fit 32 bits", ErrOverflow, v)
	}
	return RelativeDepth{v: int32(v)}, nil
}

// MustRelativeDepth is NewRelativeDepth for static tables.
func MustRelativeDepth(v int) RelativeDepth {
	d, err := NewRelativeDepth(v)
	if err != nil {
		panic(err)
	}
	return d
}

// RelativeDepthFromUint8 widens without loss.
func RelativeDepthFromUint8(v uint8) RelativeDepth { return RelativeDepth{v: int32(v)} }

// RelativeDepthFromUint16 widens without loss.
func RelativeDepthFromUint16(v uint16) RelativeDepth { return RelativeDepth{v: int32(v)} }

func (d RelativeDepth) Get() int32   { return d.v }
func (d RelativeDepth) Int() int     { return int(d.v) }
func (d RelativeDepth) Int64() int64 { return int64(d.v) }

// Uint8 narrows the depth, failing with ErrOverflow above 255.
func (d RelativeDepth) Uint8() (uint8, error) {
	if d.v > math.MaxUint8 {
		return 0, fmt.Errorf("%w: relative depth %d does not fit 8 bits", ErrOverflow, d.v)
	}
	return uint8(d.v), nil
}

func (d RelativeDepth) String() string { return strconv.Itoa(int(d.v)) }

// MarshalText implements encoding.TextMarshaler.
func (d RelativeDepth) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *RelativeDepth) UnmarshalText(b []byte) error {
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return Formatf(string(b), "relative depth is not an integer")
	}
	nd, err := NewRelativeDepth(v)
	if err != nil {
		return err
	}
	*d = nd
	return nil
}
