package dggrid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/dggrs/model"
)

const (
	baseCellBits = 4
	maxBaseCell  = 11
	digitBits    = 64 - baseCellBits
)

// Codec reads DGGRID's packed 64-bit hierarchical addresses (Z3, Z7): a
// 4-bit base cell followed by fixed-width digits, most significant first.
// The first digit equal to the padding value marks the end of the address.
type Codec struct {
	name    string
	bits    uint
	digits  int
	padding uint64
}

var (
	// Z3 packs 30 two-bit digits; 3 is padding.
	Z3 = Codec{name: "Z3", bits: 2, digits: 30, padding: 3}
	// Z7 packs 20 three-bit digits; 7 is padding.
	Z7 = Codec{name: "Z7", bits: 3, digits: 20, padding: 7}
)

// Name returns the DGGRID address type, e.g. "Z3".
func (c Codec) Name() string { return c.name }

// Digits returns the number of digit slots, which is also the finest
// resolution the encoding can express.
func (c Codec) Digits() int { return c.digits }

// Resolution decodes the refinement level encoded in id.
func (c Codec) Resolution(id model.ZoneID) (model.RefinementLevel, error) {
	v, err := c.value(id)
	if err != nil {
		return model.RefinementLevel{}, err
	}
	_, res, err := c.Decode(v)
	if err != nil {
		return model.RefinementLevel{}, model.Formatf(id.String(), "%v", err)
	}
	return model.NewRefinementLevel(res)
}

// Decode splits a packed address into its base cell and resolution.
func (c Codec) Decode(v uint64) (base uint8, res int, err error) {
	base = uint8(v >> digitBits)
	if base > maxBaseCell {
		return 0, 0, fmt.Errorf("invalid %s base cell %d (>%d)", c.name, base, maxBaseCell)
	}
	mask := uint64(1)<<c.bits - 1
	for i := 0; i < c.digits; i++ {
		shift := uint(digitBits) - c.bits*uint(i+1)
		if (v>>shift)&mask == c.padding {
			return base, i, nil
		}
	}
	return base, c.digits, nil
}

// Encode packs a base cell and digit path. Slots beyond len(path) are
// filled with padding.
func (c Codec) Encode(base uint8, path []uint8) (uint64, error) {
	if base > maxBaseCell {
		return 0, fmt.Errorf("invalid %s base cell %d (>%d)", c.name, base, maxBaseCell)
	}
	if len(path) > c.digits {
		return 0, fmt.Errorf("%s path of %d digits exceeds %d", c.name, len(path), c.digits)
	}
	v := uint64(base) << digitBits
	for i := 0; i < c.digits; i++ {
		d := c.padding
		if i < len(path) {
			d = uint64(path[i])
			if d >= c.padding {
				return 0, fmt.Errorf("invalid %s digit %d at position %d", c.name, d, i)
			}
		}
		v |= d << (uint(digitBits) - c.bits*uint(i+1))
	}
	return v, nil
}

const labelDigits = 16

// Format renders v the way DGGRID labels cells: 16 lower-case hex digits.
func (c Codec) Format(v uint64) string {
	return fmt.Sprintf("%016x", v)
}

// Label returns the 16-digit hex label DGGRID uses for id.
func (c Codec) Label(id model.ZoneID) (string, error) {
	v, err := c.value(id)
	if err != nil {
		return "", err
	}
	return c.Format(v), nil
}

// value reads the packed address of id. Hex and string ids carry the hex
// label. An integer id is the packed value itself, except when its decimal
// text is exactly label length: that is a label made only of decimal digits.
func (c Codec) value(id model.ZoneID) (uint64, error) {
	if n, ok := id.AsUint64(); ok && len(id.String()) != labelDigits {
		return n, nil
	}
	return c.parse(id.String())
}

func (c Codec) parse(text string) (uint64, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, model.Formatf(text, "invalid hex for %s address", c.name)
	}
	return v, nil
}
