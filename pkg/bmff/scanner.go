package bmff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// BoxHeader describes a top-level box.
type BoxHeader struct {
	Type          BoxType
	Offset        int64
	PayloadOffset int64

	// PayloadSize is -1 when the box extends to the end of the file.
	PayloadSize int64
}

// Scanner walks the top-level boxes of a file, without reading their
// payloads. It allows to reach the "meta" box of large files without
// loading "mdat" into memory.
type Scanner struct {
	r   io.ReaderAt
	pos int64

	// a box with size 0 extends to the end of the file
	lastBoxSeen bool
}

// NewScanner allocates a Scanner.
func NewScanner(r io.ReaderAt) *Scanner {
	return &Scanner{r: r}
}

func (s *Scanner) readAt(buf []byte, off int64) error {
	n, err := s.r.ReadAt(buf, off)
	if n < len(buf) {
		if errors.Is(err, io.EOF) {
			if n == 0 && off == s.pos {
				return io.EOF
			}
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// Next returns the header of the next top-level box.
// At the end of the file, it returns io.EOF.
func (s *Scanner) Next() (*BoxHeader, error) {
	if s.lastBoxSeen {
		return nil, io.EOF
	}

	var buf [8]byte
	err := s.readAt(buf[:], s.pos)
	if err != nil {
		return nil, err
	}

	hdr := &BoxHeader{
		Offset: s.pos,
	}
	copy(hdr.Type[:], buf[4:8])

	boxSize := uint64(binary.BigEndian.Uint32(buf[:4]))
	headerSize := int64(8)

	switch boxSize {
	case 0:
		s.lastBoxSeen = true
		hdr.PayloadOffset = s.pos + headerSize
		hdr.PayloadSize = -1
		return hdr, nil

	case 1:
		err = s.readAt(buf[:], s.pos+8)
		if err != nil {
			return nil, err
		}
		boxSize = binary.BigEndian.Uint64(buf[:])
		headerSize = 16
	}

	if boxSize < uint64(headerSize) || boxSize > math.MaxInt64 {
		return nil, fmt.Errorf("invalid size of box %q", hdr.Type)
	}

	hdr.PayloadOffset = s.pos + headerSize
	hdr.PayloadSize = int64(boxSize) - headerSize
	s.pos += int64(boxSize)

	return hdr, nil
}
