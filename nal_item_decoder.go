package goheiflib

import (
	"fmt"
	"image"

	"github.com/bluenviron/goheiflib/pkg/nalstream"
)

// NALDecoder is a push-based decoder of NAL units, like libde265.
// Use NewNALItemDecoder to obtain an ItemDecoder from it.
type NALDecoder interface {
	nalstream.Sink

	// Reset restores the initial state of the decoder.
	Reset() error

	// Flush terminates the stream and returns the decoded image.
	// Errors of NAL units submitted earlier are reported here.
	Flush() (image.Image, error)

	// Close releases the resources of the decoder.
	Close()
}

type nalItemDecoder struct {
	d NALDecoder
}

// NewNALItemDecoder turns a push-based NAL unit decoder into an ItemDecoder.
//
// Both the codec configuration and the payload of HEVC image items are
// length-prefixed NAL unit streams; DecodeItem demuxes them, pushes every
// NAL unit into the decoder in order, then flushes it.
func NewNALItemDecoder(d NALDecoder) ItemDecoder {
	return &nalItemDecoder{d: d}
}

func (n *nalItemDecoder) DecodeItem(config []byte, data []byte) (image.Image, error) {
	err := n.d.Reset()
	if err != nil {
		return nil, err
	}

	err = nalstream.Demux(config, n.d)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration stream: %w", err)
	}

	err = nalstream.Demux(data, n.d)
	if err != nil {
		return nil, fmt.Errorf("invalid item stream: %w", err)
	}

	return n.d.Flush()
}

func (n *nalItemDecoder) Close() {
	n.d.Close()
}
