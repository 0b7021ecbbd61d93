package goheiflib

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bluenviron/goheiflib/pkg/nalstream"
)

type mockNALDecoder struct {
	resetErr   error
	flushImage image.Image
	flushErr   error

	resetCount int
	flushCount int
	closed     bool
	units      [][]byte
	ptss       []int64
}

func (d *mockNALDecoder) Reset() error {
	d.resetCount++
	d.units = nil
	d.ptss = nil
	return d.resetErr
}

func (d *mockNALDecoder) SubmitNAL(unit []byte, pts int64) {
	d.units = append(d.units, unit)
	d.ptss = append(d.ptss, pts)
}

func (d *mockNALDecoder) Flush() (image.Image, error) {
	d.flushCount++
	return d.flushImage, d.flushErr
}

func (d *mockNALDecoder) Close() {
	d.closed = true
}

func TestNALItemDecoder(t *testing.T) {
	expected := image.NewYCbCr(image.Rect(0, 0, 8, 8), image.YCbCrSubsampleRatio420)
	mock := &mockNALDecoder{flushImage: expected}
	dec := NewNALItemDecoder(mock)

	config, err := nalstream.Marshal([][]byte{
		{0x40, 0x01},
		{0x42, 0x01},
		{0x44, 0x01},
	})
	require.NoError(t, err)

	data := []byte{
		0x00, 0x00, 0x00, 0x02, 0xaa, 0xbb,
		0x00, 0x00, 0x00, 0x00,
	}

	img, err := dec.DecodeItem(config, data)
	require.NoError(t, err)
	require.Equal(t, expected, img)

	require.Equal(t, 1, mock.resetCount)
	require.Equal(t, 1, mock.flushCount)
	require.Equal(t, [][]byte{
		{0x40, 0x01},
		{0x42, 0x01},
		{0x44, 0x01},
		{0xaa, 0xbb},
		{},
	}, mock.units)

	for _, pts := range mock.ptss {
		require.Equal(t, nalstream.PTSUnknown, pts)
	}

	dec.Close()
	require.True(t, mock.closed)
}

func TestNALItemDecoderTruncatedConfig(t *testing.T) {
	mock := &mockNALDecoder{}
	dec := NewNALItemDecoder(mock)

	_, err := dec.DecodeItem([]byte{0x00, 0x00, 0x00}, nil)
	require.EqualError(t, err,
		"invalid configuration stream: truncated length prefix at offset 0 (buffer is 3 bytes)")
	require.Empty(t, mock.units)
	require.Equal(t, 0, mock.flushCount)
}

func TestNALItemDecoderTruncatedData(t *testing.T) {
	mock := &mockNALDecoder{}
	dec := NewNALItemDecoder(mock)

	config := []byte{0x00, 0x00, 0x00, 0x02, 0x42, 0x01}
	data := []byte{0x00, 0x00, 0x00, 0x01, 0xaa, 0x00, 0x00, 0x00}

	_, err := dec.DecodeItem(config, data)
	require.EqualError(t, err,
		"invalid item stream: truncated length prefix at offset 5 (buffer is 8 bytes)")

	// units submitted before the error are not withdrawn.
	require.Equal(t, [][]byte{{0x42, 0x01}, {0xaa}}, mock.units)
	require.Equal(t, 0, mock.flushCount)
}

func TestNALItemDecoderResetError(t *testing.T) {
	mock := &mockNALDecoder{resetErr: errTest}
	dec := NewNALItemDecoder(mock)

	_, err := dec.DecodeItem(nil, nil)
	require.Equal(t, errTest, err)
	require.Empty(t, mock.units)
}
