// Package bmff contains a reader of the ISO base media file format,
// restricted to the boxes needed by HEIF / AVIF still images.
package bmff

import (
	"encoding/binary"
	"fmt"
)

// BoxType is the 4-character type of a box.
type BoxType [4]byte

// Common box types.
var (
	TypeFtyp = BoxType{'f', 't', 'y', 'p'}
	TypeMeta = BoxType{'m', 'e', 't', 'a'}
	TypeMdat = BoxType{'m', 'd', 'a', 't'}
)

// String implements fmt.Stringer.
func (t BoxType) String() string {
	return string(t[:])
}

// parseBoxes walks the boxes contained in buf and calls cb once per box,
// with the box payload.
func parseBoxes(buf []byte, cb func(typ BoxType, payload []byte) error) error {
	size := uint64(len(buf))
	pos := uint64(0)

	for pos < size {
		if (size - pos) < 8 {
			return fmt.Errorf("truncated box header")
		}

		boxSize := uint64(binary.BigEndian.Uint32(buf[pos:]))

		var typ BoxType
		copy(typ[:], buf[pos+4:])

		headerSize := uint64(8)

		switch boxSize {
		case 0: // box extends to the end of the container
			boxSize = size - pos

		case 1: // 64-bit size
			if (size - pos) < 16 {
				return fmt.Errorf("truncated box header")
			}
			boxSize = binary.BigEndian.Uint64(buf[pos+8:])
			headerSize = 16
		}

		if boxSize < headerSize || boxSize > (size-pos) {
			return fmt.Errorf("invalid size of box %q", typ)
		}

		err := cb(typ, buf[pos+headerSize:pos+boxSize])
		if err != nil {
			return err
		}

		pos += boxSize
	}

	return nil
}

// parseFullBoxHeader extracts version and flags from the payload of a full box.
func parseFullBoxHeader(buf []byte) (uint8, uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, 0, nil, fmt.Errorf("truncated full box header")
	}
	version := buf[0]
	flags := uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	return version, flags, buf[4:], nil
}

func readUint8(buf []byte, pos *int) (uint8, error) {
	if (len(buf) - *pos) < 1 {
		return 0, fmt.Errorf("buffer is too short")
	}
	v := buf[*pos]
	*pos++
	return v, nil
}

func readUint16(buf []byte, pos *int) (uint16, error) {
	if (len(buf) - *pos) < 2 {
		return 0, fmt.Errorf("buffer is too short")
	}
	v := binary.BigEndian.Uint16(buf[*pos:])
	*pos += 2
	return v, nil
}

func readUint32(buf []byte, pos *int) (uint32, error) {
	if (len(buf) - *pos) < 4 {
		return 0, fmt.Errorf("buffer is too short")
	}
	v := binary.BigEndian.Uint32(buf[*pos:])
	*pos += 4
	return v, nil
}

func readUint64(buf []byte, pos *int) (uint64, error) {
	if (len(buf) - *pos) < 8 {
		return 0, fmt.Errorf("buffer is too short")
	}
	v := binary.BigEndian.Uint64(buf[*pos:])
	*pos += 8
	return v, nil
}

// readUintN reads an unsigned integer stored on n bytes, where n is one of
// the sizes allowed by the "iloc" box (0, 4 or 8).
func readUintN(buf []byte, pos *int, n uint8) (uint64, error) {
	switch n {
	case 0:
		return 0, nil

	case 4:
		v, err := readUint32(buf, pos)
		return uint64(v), err

	case 8:
		return readUint64(buf, pos)
	}

	return 0, fmt.Errorf("invalid field size (%d)", n)
}

func readBoxType(buf []byte, pos *int) (BoxType, error) {
	if (len(buf) - *pos) < 4 {
		return BoxType{}, fmt.Errorf("buffer is too short")
	}
	var t BoxType
	copy(t[:], buf[*pos:])
	*pos += 4
	return t, nil
}

// readString reads a null-terminated string. The terminator can be missing
// when the string is the last field of a box.
func readString(buf []byte, pos *int) string {
	start := *pos
	for *pos < len(buf) {
		if buf[*pos] == 0 {
			s := string(buf[start:*pos])
			*pos++
			return s
		}
		*pos++
	}
	return string(buf[start:])
}
