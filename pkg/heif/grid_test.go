package heif

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGridUnmarshal(t *testing.T) {
	for _, ca := range []struct {
		name string
		buf  []byte
		grid Grid
	}{
		{
			"16-bit dimensions",
			[]byte{0x00, 0x00, 0x03, 0x01, 0x0f, 0x00, 0x0b, 0x40},
			Grid{
				Rows:         4,
				Columns:      2,
				OutputWidth:  3840,
				OutputHeight: 2880,
			},
		},
		{
			"32-bit dimensions",
			[]byte{
				0x00, 0x01, 0x00, 0x01,
				0x00, 0x01, 0x00, 0x00,
				0x00, 0x00, 0xc0, 0x00,
			},
			Grid{
				Rows:         1,
				Columns:      2,
				OutputWidth:  65536,
				OutputHeight: 49152,
			},
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			var grid Grid
			err := grid.Unmarshal(ca.buf)
			require.NoError(t, err)
			require.Equal(t, ca.grid, grid)
		})
	}
}

func TestGridUnmarshalErrors(t *testing.T) {
	for _, ca := range []struct {
		name string
		buf  []byte
		err  string
	}{
		{
			"empty",
			nil,
			"buffer is too short",
		},
		{
			"unsupported version",
			[]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			"unsupported grid version (1)",
		},
		{
			"truncated 16-bit dimensions",
			[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			"buffer is too short",
		},
		{
			"truncated 32-bit dimensions",
			[]byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			"buffer is too short",
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			var grid Grid
			err := grid.Unmarshal(ca.buf)
			require.EqualError(t, err, ca.err)
		})
	}
}
