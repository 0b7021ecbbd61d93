package heif

import (
	"encoding/binary"
	"fmt"
)

// Grid is the payload of a "grid" item: a derived image obtained by
// stitching a matrix of tiles, then cropping to the output size.
//
// Specification: ISO 23008-12, section 6.6.2.3.2
type Grid struct {
	Rows         int
	Columns      int
	OutputWidth  uint32
	OutputHeight uint32
}

// Unmarshal parses the payload of a "grid" item.
func (g *Grid) Unmarshal(buf []byte) error {
	if len(buf) < 4 {
		return fmt.Errorf("buffer is too short")
	}

	if buf[0] != 0 {
		return fmt.Errorf("unsupported grid version (%d)", buf[0])
	}

	flags := buf[1]
	g.Rows = int(buf[2]) + 1
	g.Columns = int(buf[3]) + 1

	if (flags & 1) != 0 { // 32-bit output dimensions
		if len(buf) < 12 {
			return fmt.Errorf("buffer is too short")
		}
		g.OutputWidth = binary.BigEndian.Uint32(buf[4:])
		g.OutputHeight = binary.BigEndian.Uint32(buf[8:])
	} else {
		if len(buf) < 8 {
			return fmt.Errorf("buffer is too short")
		}
		g.OutputWidth = uint32(binary.BigEndian.Uint16(buf[4:]))
		g.OutputHeight = uint32(binary.BigEndian.Uint16(buf[6:]))
	}

	return nil
}
