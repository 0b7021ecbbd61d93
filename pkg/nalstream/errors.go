package nalstream

import (
	"fmt"
)

// ErrTruncatedHeader is returned when a stream ends in the middle of a length prefix.
// Offset is the position of the incomplete prefix.
type ErrTruncatedHeader struct {
	Offset     uint64
	BufferSize uint64
}

// Error implements the error interface.
func (e ErrTruncatedHeader) Error() string {
	return fmt.Sprintf("truncated length prefix at offset %d (buffer is %d bytes)",
		e.Offset, e.BufferSize)
}

// ErrTruncatedPayload is returned when a length prefix declares more bytes than
// the stream contains. Offset is the position of the unit payload.
type ErrTruncatedPayload struct {
	Offset     uint64
	UnitSize   uint64
	BufferSize uint64
}

// Error implements the error interface.
func (e ErrTruncatedPayload) Error() string {
	return fmt.Sprintf("NAL unit at offset %d is truncated: declared size is %d, buffer is %d bytes",
		e.Offset, e.UnitSize, e.BufferSize)
}

// ErrUnitTooLong is returned when a NAL unit cannot be represented by a 4-byte
// length prefix.
type ErrUnitTooLong struct {
	Size uint64
}

// Error implements the error interface.
func (e ErrUnitTooLong) Error() string {
	return fmt.Sprintf("NAL unit size (%d) exceeds the maximum representable size (%d)",
		e.Size, maxUnitSize)
}
