package nalstream

import (
	"encoding/binary"
	"math"
)

const maxUnitSize uint64 = math.MaxUint32

// Marshal encodes NAL units into a length-prefixed stream.
//
// Specification: ISO 14496-15, section 5.3.4.2.1
func Marshal(units [][]byte) ([]byte, error) {
	n := 0
	for _, unit := range units {
		if uint64(len(unit)) > maxUnitSize {
			return nil, ErrUnitTooLong{Size: uint64(len(unit))}
		}
		n += 4 + len(unit)
	}

	buf := make([]byte, n)
	pos := 0

	for _, unit := range units {
		binary.BigEndian.PutUint32(buf[pos:], uint32(len(unit)))
		pos += 4
		pos += copy(buf[pos:], unit)
	}

	return buf, nil
}
