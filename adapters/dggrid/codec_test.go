package dggrid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/dggrs/model"
)

// pack builds an address from raw digit values without validation.
func pack(c Codec, base uint8, digits []uint64) uint64 {
	v := uint64(base) << digitBits
	for i, d := range digits {
		v |= d << (uint(digitBits) - c.bits*uint(i+1))
	}
	return v
}

func TestZ3ResolutionExample(t *testing.T) {
	v := pack(Z3, 5, []uint64{0, 1, 2, 0, 1, 2, 0, 1, 2, 3})
	id, err := model.NewHexID(Z3.Format(v))
	require.NoError(t, err)

	res, err := Z3.Resolution(id)
	require.NoError(t, err)
	assert.Equal(t, int32(9), res.Get())
}

func TestResolution(t *testing.T) {
	tests := []struct {
		name  string
		codec Codec
		value uint64
		want  int
	}{
		{"z3 base cell only", Z3, pack(Z3, 0, fill(30, 3)), 0},
		{"z3 no padding", Z3, pack(Z3, 11, nil), 30},
		{"z3 res 4", Z3, pack(Z3, 3, append([]uint64{2, 2, 1, 0}, fill(26, 3)...)), 4},
		{"z7 base cell only", Z7, pack(Z7, 0, fill(20, 7)), 0},
		{"z7 res 6", Z7, pack(Z7, 8, append([]uint64{6, 5, 4, 3, 2, 1}, fill(14, 7)...)), 6},
		{"z7 no padding", Z7, pack(Z7, 2, nil), 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := model.MustParseZoneID(tt.codec.Format(tt.value))
			res, err := tt.codec.Resolution(id)
			require.NoError(t, err)
			assert.Equal(t, int32(tt.want), res.Get())
		})
	}
}

func fill(n int, d uint64) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = d
	}
	return out
}

func TestResolutionAcceptsAnyVariant(t *testing.T) {
	// A full-depth address can be all decimal digits and then parses as an
	// integer id; its text is still the hex address.
	id := model.MustParseZoneID("1000000000000000")
	require.Equal(t, model.IntKind, id.Kind())
	res, err := Z3.Resolution(id)
	require.NoError(t, err)
	assert.Equal(t, int32(30), res.Get())

	v := pack(Z3, 1, append([]uint64{0, 1, 2, 2, 2, 1, 2, 2, 0, 1, 2, 2, 2, 1}, fill(16, 3)...))
	prefixed, err := model.NewStrID("0x" + Z3.Format(v))
	require.NoError(t, err)
	res, err = Z3.Resolution(prefixed)
	require.NoError(t, err)
	assert.Equal(t, int32(14), res.Get())
}

func TestIntegerIDIsPackedValue(t *testing.T) {
	v := pack(Z3, 5, append([]uint64{0, 1, 2}, fill(27, 3)...))
	id := model.NewIntID(v)
	require.Greater(t, len(id.String()), 16)

	res, err := Z3.Resolution(id)
	require.NoError(t, err)
	assert.Equal(t, int32(3), res.Get())

	label, err := Z3.Label(id)
	require.NoError(t, err)
	assert.Equal(t, Z3.Format(v), label)

	// Sixteen decimal digits read as a label.
	label, err = Z3.Label(model.MustParseZoneID("1000000000000000"))
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000", label)
}

func TestResolutionErrors(t *testing.T) {
	badBase := model.MustParseZoneID(Z7.Format(pack(Z7, 12, fill(20, 7))))
	_, err := Z7.Resolution(badBase)
	assert.ErrorIs(t, err, model.ErrFormat)

	str, _ := model.NewStrID("not-a-z3-address")
	_, err = Z3.Resolution(str)
	var fe *model.FormatError
	assert.True(t, errors.As(err, &fe))
}

func TestEncodeDecode(t *testing.T) {
	for _, c := range []Codec{Z3, Z7} {
		path := []uint8{1, 0, 1, 1}
		v, err := c.Encode(7, path)
		require.NoError(t, err)
		base, res, err := c.Decode(v)
		require.NoError(t, err)
		assert.Equal(t, uint8(7), base)
		assert.Equal(t, len(path), res)

		_, err = c.Encode(12, nil)
		assert.Error(t, err, "base cell 12")
		_, err = c.Encode(0, []uint8{uint8(c.padding)})
		assert.Error(t, err, "padding as digit")
		_, err = c.Encode(0, make([]uint8, c.Digits()+1))
		assert.Error(t, err, "too many digits")
	}
	assert.Equal(t, "Z3", Z3.Name())
	assert.Equal(t, "0000000000000000", Z3.Format(0))
}
