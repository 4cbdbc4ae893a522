package model

import (
	"strconv"
	"strings"
)

// IDKind tags the variant held by a ZoneID.
type IDKind uint8

const (
	// StrKind is an opaque backend label of 1 to 32 characters.
	StrKind IDKind = iota + 1
	// HexKind is 1 to 16 hexadecimal characters.
	HexKind
	// IntKind is a packed unsigned 64-bit identifier.
	IntKind
)

func (k IDKind) String() string {
	switch k {
	case StrKind:
		return "str"
	case HexKind:
		return "hex"
	case IntKind:
		return "int"
	default:
		return "invalid"
	}
}

const (
	maxStrIDLen = 32
	maxHexIDLen = 16
	defaultHex  = "0000000000000000"
)

// ZoneID identifies one zone. The three variants are never interchangeable
// without an explicit conversion by the caller; use the As* accessors to
// narrow. ZoneID is comparable and may be used as a map key.
type ZoneID struct {
	kind IDKind
	text string
	num  uint64
}

// DefaultZoneID returns the all-zero 16-character hex id.
func DefaultZoneID() ZoneID {
	return ZoneID{kind: HexKind, text: defaultHex}
}

// NewStrID returns a string id. s must be 1 to 32 characters long.
func NewStrID(s string) (ZoneID, error) {
	if n := len(s); n < 1 || n > maxStrIDLen {
		return ZoneID{}, Formatf(s, "string zone id must be between 1 and %d characters", maxStrIDLen)
	}
	return ZoneID{kind: StrKind, text: s}, nil
}

// NewHexID returns a hex id. s must be 1 to 16 hexadecimal characters.
func NewHexID(s string) (ZoneID, error) {
	if n := len(s); n < 1 || n > maxHexIDLen || !isHex(s) {
		return ZoneID{}, Formatf(s, "hex zone id must be 1 to %d hexadecimal characters", maxHexIDLen)
	}
	return ZoneID{kind: HexKind, text: s}, nil
}

// NewIntID returns an integer id.
func NewIntID(n uint64) ZoneID {
	return ZoneID{kind: IntKind, num: n}
}

// ParseZoneID reads the textual form of a zone id. Input made only of
// decimal digits becomes an integer id, input made only of hex digits a hex
// id, and anything else a string id. Decimal text with a leading zero is
// kept as hex so that fixed-width hex codes survive a round trip.
func ParseZoneID(s string) (ZoneID, error) {
	s = strings.TrimSpace(s)

	if isDecimal(s) && (len(s) == 1 || s[0] != '0') {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			return NewIntID(v), nil
		}
	}

	if isHex(s) {
		if id, err := NewHexID(s); err == nil {
			return id, nil
		}
	}

	return NewStrID(s)
}

// MustParseZoneID is ParseZoneID for static inputs; it panics on error.
func MustParseZoneID(s string) ZoneID {
	id, err := ParseZoneID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Kind reports the variant. The zero ZoneID has no valid kind.
func (z ZoneID) Kind() IDKind { return z.kind }

// IsZero reports whether z is the unset zero value.
func (z ZoneID) IsZero() bool { return z.kind == 0 }

// AsStr returns the label of a string id.
func (z ZoneID) AsStr() (string, bool) {
	if z.kind != StrKind {
		return "", false
	}
	return z.text, true
}

// AsHex returns the digits of a hex id.
func (z ZoneID) AsHex() (string, bool) {
	if z.kind != HexKind {
		return "", false
	}
	return z.text, true
}

// AsUint64 returns the value of an integer id.
func (z ZoneID) AsUint64() (uint64, bool) {
	if z.kind != IntKind {
		return 0, false
	}
	return z.num, true
}

// String renders the bare textual form of the id without a variant tag.
func (z ZoneID) String() string {
	if z.kind == IntKind {
		return strconv.FormatUint(z.num, 10)
	}
	return z.text
}

// MarshalText implements encoding.TextMarshaler.
func (z ZoneID) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseZoneID.
func (z *ZoneID) UnmarshalText(b []byte) error {
	id, err := ParseZoneID(string(b))
	if err != nil {
		return err
	}
	*z = id
	return nil
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
