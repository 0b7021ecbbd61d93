package bmff

import (
	"fmt"

	"github.com/bluenviron/mediacommon/v2/pkg/bits"
)

// AV1Config is an "av1C" property: an AV1 codec configuration record.
//
// Specification: AV1 Codec ISO Media File Format Binding, section 2.3
type AV1Config struct {
	Version                          uint8
	SeqProfile                       uint8
	SeqLevelIdx0                     uint8
	SeqTier0                         bool
	HighBitdepth                     bool
	TwelveBit                        bool
	Monochrome                       bool
	ChromaSubsamplingX               bool
	ChromaSubsamplingY               bool
	ChromaSamplePosition             uint8
	InitialPresentationDelayPresent  bool
	InitialPresentationDelayMinusOne uint8
	ConfigOBUs                       []byte
}

// PropertyType implements the Property interface.
func (c *AV1Config) PropertyType() BoxType {
	return BoxType{'a', 'v', '1', 'C'}
}

// Unmarshal parses the payload of an "av1C" property.
func (c *AV1Config) Unmarshal(buf []byte) error {
	err := bits.HasSpace(buf, 0, 32)
	if err != nil {
		return err
	}

	pos := 0

	marker := bits.ReadFlagUnsafe(buf, &pos)
	if !marker {
		return fmt.Errorf("invalid marker")
	}

	c.Version = uint8(bits.ReadBitsUnsafe(buf, &pos, 7))
	if c.Version != 1 {
		return fmt.Errorf("unsupported version (%d)", c.Version)
	}

	c.SeqProfile = uint8(bits.ReadBitsUnsafe(buf, &pos, 3))
	c.SeqLevelIdx0 = uint8(bits.ReadBitsUnsafe(buf, &pos, 5))
	c.SeqTier0 = bits.ReadFlagUnsafe(buf, &pos)
	c.HighBitdepth = bits.ReadFlagUnsafe(buf, &pos)
	c.TwelveBit = bits.ReadFlagUnsafe(buf, &pos)
	c.Monochrome = bits.ReadFlagUnsafe(buf, &pos)
	c.ChromaSubsamplingX = bits.ReadFlagUnsafe(buf, &pos)
	c.ChromaSubsamplingY = bits.ReadFlagUnsafe(buf, &pos)
	c.ChromaSamplePosition = uint8(bits.ReadBitsUnsafe(buf, &pos, 2))

	bits.ReadBitsUnsafe(buf, &pos, 3) // reserved

	c.InitialPresentationDelayPresent = bits.ReadFlagUnsafe(buf, &pos)
	if c.InitialPresentationDelayPresent {
		c.InitialPresentationDelayMinusOne = uint8(bits.ReadBitsUnsafe(buf, &pos, 4))
	} else {
		bits.ReadBitsUnsafe(buf, &pos, 4) // reserved
	}

	c.ConfigOBUs = buf[4:]

	return nil
}
