/*
Package goheiflib is a HEIF / AVIF image extraction library for the Go
programming language.

It parses the ISO base media file format structure of HEIF files, extracts
encoded image items together with their decoder configurations, and hands
them to codecs registered through RegisterCodec.

Examples are available at https://github.com/bluenviron/goheiflib/tree/main/examples
*/
package goheiflib

import (
	"fmt"
	"image"
	"runtime"
	"sync"
)

// ItemDecoder is a decoder of encoded image items.
// Instances are allocated by Decode through the registered DecoderFactory,
// one per image item, and are never used concurrently.
type ItemDecoder interface {
	// DecodeItem decodes a single image item.
	// config contains the codec configuration (for HEVC, the parameter sets
	// of the hvcC box as a length-prefixed NAL unit stream; for AV1, the
	// configOBUs of the av1C box), data contains the coded item payload.
	DecodeItem(config []byte, data []byte) (image.Image, error)

	// Close releases the resources of the decoder.
	Close()
}

// DecoderFactory allocates an ItemDecoder.
type DecoderFactory func() (ItemDecoder, error)

// ErrNoDecoder is returned by Decode when no decoder
// is registered for the item type of an image item.
type ErrNoDecoder struct {
	ItemType string
}

// Error implements the error interface.
func (e ErrNoDecoder) Error() string {
	return fmt.Sprintf("no decoder is registered for item type '%s'", e.ItemType)
}

// TileConcurrency is the maximum number of tiles of a grid image
// that are decoded in parallel.
var TileConcurrency = runtime.NumCPU()

var codecMutex sync.RWMutex
var codecs = make(map[string]DecoderFactory)

// RegisterCodec registers a decoder factory for the given item type
// (for instance "hvc1" or "av01"). It is typically called by the init
// function of a codec package.
func RegisterCodec(itemType string, factory DecoderFactory) {
	codecMutex.Lock()
	defer codecMutex.Unlock()
	codecs[itemType] = factory
}

func decoderFactory(itemType string) (DecoderFactory, bool) {
	codecMutex.RLock()
	defer codecMutex.RUnlock()
	factory, ok := codecs[itemType]
	return factory, ok
}
