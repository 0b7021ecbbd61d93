package nalstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var casesDemux = []struct {
	name  string
	buf   []byte
	units [][]byte
}{
	{
		"empty buffer",
		nil,
		nil,
	},
	{
		"single unit",
		[]byte{0x00, 0x00, 0x00, 0x04, 0x01, 0x02, 0x03, 0x04},
		[][]byte{{0x01, 0x02, 0x03, 0x04}},
	},
	{
		"multiple units",
		[]byte{
			0x00, 0x00, 0x00, 0x03, 0x40, 0x01, 0x0c,
			0x00, 0x00, 0x00, 0x02, 0x42, 0x01,
			0x00, 0x00, 0x00, 0x04, 0x26, 0x01, 0xaf, 0x08,
		},
		[][]byte{
			{0x40, 0x01, 0x0c},
			{0x42, 0x01},
			{0x26, 0x01, 0xaf, 0x08},
		},
	},
	{
		"empty unit",
		[]byte{0x00, 0x00, 0x00, 0x02, 0xaa, 0xbb, 0x00, 0x00, 0x00, 0x00},
		[][]byte{{0xaa, 0xbb}, {}},
	},
	{
		"unit ending at buffer end",
		[]byte{0x00, 0x00, 0x00, 0x03, 0x01, 0x02, 0x03},
		[][]byte{{0x01, 0x02, 0x03}},
	},
}

func TestDemux(t *testing.T) {
	for _, ca := range casesDemux {
		t.Run(ca.name, func(t *testing.T) {
			var units [][]byte

			err := Demux(ca.buf, SinkFunc(func(unit []byte, pts int64) {
				require.Equal(t, PTSUnknown, pts)
				units = append(units, unit)
			}))
			require.NoError(t, err)
			require.Equal(t, ca.units, units)
		})
	}
}

func TestDemuxErrors(t *testing.T) {
	for _, ca := range []struct {
		name  string
		buf   []byte
		err   error
		units [][]byte
	}{
		{
			"truncated prefix",
			[]byte{0x00, 0x00, 0x00},
			ErrTruncatedHeader{Offset: 0, BufferSize: 3},
			nil,
		},
		{
			"truncated prefix after valid unit",
			[]byte{0x00, 0x00, 0x00, 0x01, 0xaa, 0x00, 0x00},
			ErrTruncatedHeader{Offset: 5, BufferSize: 7},
			[][]byte{{0xaa}},
		},
		{
			"truncated payload",
			[]byte{0x00, 0x00, 0x00, 0x05, 0x01, 0x02},
			ErrTruncatedPayload{Offset: 4, UnitSize: 5, BufferSize: 6},
			nil,
		},
		{
			"truncated payload after valid unit",
			[]byte{0x00, 0x00, 0x00, 0x01, 0xaa, 0x00, 0x00, 0x00, 0x09, 0xbb},
			ErrTruncatedPayload{Offset: 9, UnitSize: 9, BufferSize: 10},
			[][]byte{{0xaa}},
		},
		{
			"size that would wrap 32-bit arithmetic",
			[]byte{0xff, 0xff, 0xff, 0xff, 0x01},
			ErrTruncatedPayload{Offset: 4, UnitSize: 4294967295, BufferSize: 5},
			nil,
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			var units [][]byte

			err := Demux(ca.buf, SinkFunc(func(unit []byte, _ int64) {
				units = append(units, unit)
			}))
			require.Equal(t, ca.err, err)
			require.Equal(t, ca.units, units)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	require.EqualError(t, ErrTruncatedHeader{Offset: 5, BufferSize: 7},
		"truncated length prefix at offset 5 (buffer is 7 bytes)")

	require.EqualError(t, ErrTruncatedPayload{Offset: 4, UnitSize: 4294967295, BufferSize: 5},
		"NAL unit at offset 4 is truncated: declared size is 4294967295, buffer is 5 bytes")

	require.EqualError(t, ErrUnitTooLong{Size: 4294967296},
		"NAL unit size (4294967296) exceeds the maximum representable size (4294967295)")
}

func TestSplit(t *testing.T) {
	for _, ca := range casesDemux {
		t.Run(ca.name, func(t *testing.T) {
			units, err := Split(ca.buf)
			require.NoError(t, err)
			require.Equal(t, ca.units, units)
		})
	}
}

func FuzzDemux(f *testing.F) {
	for _, ca := range casesDemux {
		f.Add(ca.buf)
	}

	f.Fuzz(func(t *testing.T, buf []byte) {
		units, err := Split(buf)
		if err != nil {
			return
		}

		buf2, err := Marshal(units)
		require.NoError(t, err)
		require.Equal(t, buf, buf2)
	})
}
