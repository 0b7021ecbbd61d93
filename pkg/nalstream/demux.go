package nalstream

import (
	"encoding/binary"
)

// Demux walks a length-prefixed NAL unit stream and forwards each unit to sink,
// in stream order. Each unit is preceded by a 4-byte big-endian size; units can
// be empty. An empty buffer is a valid stream with zero units.
//
// On error, units before the malformed one have already been submitted.
//
// Specification: ISO 14496-15, section 5.3.4.2.1
func Demux(buf []byte, sink Sink) error {
	size := uint64(len(buf))
	pos := uint64(0)

	for pos < size {
		if (size - pos) < 4 {
			return ErrTruncatedHeader{Offset: pos, BufferSize: size}
		}

		unitSize := uint64(binary.BigEndian.Uint32(buf[pos:]))
		pos += 4

		if unitSize > (size - pos) {
			return ErrTruncatedPayload{Offset: pos, UnitSize: unitSize, BufferSize: size}
		}

		sink.SubmitNAL(buf[pos:pos+unitSize], PTSUnknown)
		pos += unitSize
	}

	return nil
}

// Split collects the NAL units of a length-prefixed stream into a slice.
// Returned units reference the input buffer.
func Split(buf []byte) ([][]byte, error) {
	var units [][]byte

	err := Demux(buf, SinkFunc(func(unit []byte, _ int64) {
		units = append(units, unit)
	}))
	if err != nil {
		return nil, err
	}

	return units, nil
}
