package bmff

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func mergeBytes(vals ...[]byte) []byte {
	size := 0
	for _, v := range vals {
		size += len(v)
	}
	res := make([]byte, size)

	pos := 0
	for _, v := range vals {
		n := copy(res[pos:], v)
		pos += n
	}

	return res
}

func buildBox(typ string, payload []byte) []byte {
	b := make([]byte, 8+len(payload))
	binary.BigEndian.PutUint32(b, uint32(8+len(payload)))
	copy(b[4:], typ)
	copy(b[8:], payload)
	return b
}

func buildFullBox(typ string, version uint8, flags uint32, payload []byte) []byte {
	fb := make([]byte, 4+len(payload))
	fb[0] = version
	fb[1] = byte(flags >> 16)
	fb[2] = byte(flags >> 8)
	fb[3] = byte(flags)
	copy(fb[4:], payload)
	return buildBox(typ, fb)
}

func TestFileType(t *testing.T) {
	var ft FileType
	err := ft.Unmarshal(mergeBytes(
		[]byte("heic"),
		[]byte{0x00, 0x00, 0x00, 0x00},
		[]byte("mif1heic"),
	))
	require.NoError(t, err)
	require.Equal(t, FileType{
		MajorBrand:   BoxType{'h', 'e', 'i', 'c'},
		MinorVersion: 0,
		CompatibleBrands: []BoxType{
			{'m', 'i', 'f', '1'},
			{'h', 'e', 'i', 'c'},
		},
	}, ft)

	require.True(t, ft.HasBrand(BoxType{'h', 'e', 'i', 'c'}))
	require.True(t, ft.HasBrand(BoxType{'m', 'i', 'f', '1'}))
	require.False(t, ft.HasBrand(BoxType{'a', 'v', 'i', 'f'}))
}

func TestFileTypeErrors(t *testing.T) {
	for _, ca := range []struct {
		name string
		buf  []byte
	}{
		{
			"empty",
			nil,
		},
		{
			"missing minor version",
			[]byte("heic"),
		},
		{
			"partial brand",
			mergeBytes([]byte("heic"), []byte{0x00, 0x00, 0x00, 0x00}, []byte("mi")),
		},
	} {
		t.Run(ca.name, func(t *testing.T) {
			var ft FileType
			err := ft.Unmarshal(ca.buf)
			require.Error(t, err)
		})
	}
}
