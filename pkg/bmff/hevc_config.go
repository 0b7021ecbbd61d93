package bmff

import (
	"bytes"
	"io"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h265"
	"github.com/icza/bitio"

	"github.com/bluenviron/goheiflib/pkg/nalstream"
)

// HEVCNALUnitArray is an array of parameter sets of a given type, stored
// inside a HEVC configuration.
type HEVCNALUnitArray struct {
	Completeness bool
	NALUnitType  h265.NALUType
	Units        [][]byte
}

// HEVCConfig is a "hvcC" property: a HEVC decoder configuration record.
//
// Specification: ISO 14496-15, section 8.3.3.1
type HEVCConfig struct {
	ConfigurationVersion             uint8
	GeneralProfileSpace              uint8
	GeneralTierFlag                  bool
	GeneralProfileIdc                uint8
	GeneralProfileCompatibilityFlags uint32
	GeneralConstraintIndicatorFlags  uint64
	GeneralLevelIdc                  uint8
	MinSpatialSegmentationIdc        uint16
	ParallelismType                  uint8
	ChromaFormatIdc                  uint8
	BitDepthLumaMinus8               uint8
	BitDepthChromaMinus8             uint8
	AvgFrameRate                     uint16
	ConstantFrameRate                uint8
	NumTemporalLayers                uint8
	TemporalIDNested                 bool
	LengthSizeMinusOne               uint8
	Arrays                           []*HEVCNALUnitArray
}

// PropertyType implements the Property interface.
func (c *HEVCConfig) PropertyType() BoxType {
	return BoxType{'h', 'v', 'c', 'C'}
}

// Unmarshal parses the payload of a "hvcC" property.
func (c *HEVCConfig) Unmarshal(buf []byte) error {
	br := bitio.NewReader(bytes.NewReader(buf))

	tmp, err := br.ReadBits(8)
	if err != nil {
		return err
	}
	c.ConfigurationVersion = uint8(tmp)

	tmp, err = br.ReadBits(2)
	if err != nil {
		return err
	}
	c.GeneralProfileSpace = uint8(tmp)

	tmp, err = br.ReadBits(1)
	if err != nil {
		return err
	}
	c.GeneralTierFlag = (tmp == 1)

	tmp, err = br.ReadBits(5)
	if err != nil {
		return err
	}
	c.GeneralProfileIdc = uint8(tmp)

	tmp, err = br.ReadBits(32)
	if err != nil {
		return err
	}
	c.GeneralProfileCompatibilityFlags = uint32(tmp)

	c.GeneralConstraintIndicatorFlags, err = br.ReadBits(48)
	if err != nil {
		return err
	}

	tmp, err = br.ReadBits(8)
	if err != nil {
		return err
	}
	c.GeneralLevelIdc = uint8(tmp)

	_, err = br.ReadBits(4) // reserved
	if err != nil {
		return err
	}

	tmp, err = br.ReadBits(12)
	if err != nil {
		return err
	}
	c.MinSpatialSegmentationIdc = uint16(tmp)

	_, err = br.ReadBits(6) // reserved
	if err != nil {
		return err
	}

	tmp, err = br.ReadBits(2)
	if err != nil {
		return err
	}
	c.ParallelismType = uint8(tmp)

	_, err = br.ReadBits(6) // reserved
	if err != nil {
		return err
	}

	tmp, err = br.ReadBits(2)
	if err != nil {
		return err
	}
	c.ChromaFormatIdc = uint8(tmp)

	_, err = br.ReadBits(5) // reserved
	if err != nil {
		return err
	}

	tmp, err = br.ReadBits(3)
	if err != nil {
		return err
	}
	c.BitDepthLumaMinus8 = uint8(tmp)

	_, err = br.ReadBits(5) // reserved
	if err != nil {
		return err
	}

	tmp, err = br.ReadBits(3)
	if err != nil {
		return err
	}
	c.BitDepthChromaMinus8 = uint8(tmp)

	tmp, err = br.ReadBits(16)
	if err != nil {
		return err
	}
	c.AvgFrameRate = uint16(tmp)

	tmp, err = br.ReadBits(2)
	if err != nil {
		return err
	}
	c.ConstantFrameRate = uint8(tmp)

	tmp, err = br.ReadBits(3)
	if err != nil {
		return err
	}
	c.NumTemporalLayers = uint8(tmp)

	tmp, err = br.ReadBits(1)
	if err != nil {
		return err
	}
	c.TemporalIDNested = (tmp == 1)

	tmp, err = br.ReadBits(2)
	if err != nil {
		return err
	}
	c.LengthSizeMinusOne = uint8(tmp)

	numArrays, err := br.ReadBits(8)
	if err != nil {
		return err
	}

	for i := uint64(0); i < numArrays; i++ {
		arr := &HEVCNALUnitArray{}

		tmp, err = br.ReadBits(1)
		if err != nil {
			return err
		}
		arr.Completeness = (tmp == 1)

		_, err = br.ReadBits(1) // reserved
		if err != nil {
			return err
		}

		tmp, err = br.ReadBits(6)
		if err != nil {
			return err
		}
		arr.NALUnitType = h265.NALUType(tmp)

		numUnits, err2 := br.ReadBits(16)
		if err2 != nil {
			return err2
		}

		for j := uint64(0); j < numUnits; j++ {
			tmp, err = br.ReadBits(16)
			if err != nil {
				return err
			}

			if tmp == 0 { // skip empty units
				continue
			}

			unit := make([]byte, tmp)
			_, err = io.ReadFull(br, unit)
			if err != nil {
				return err
			}

			arr.Units = append(arr.Units, unit)
		}

		c.Arrays = append(c.Arrays, arr)
	}

	return nil
}

// SPS returns the first sequence parameter set of the configuration,
// or nil if there is none.
func (c *HEVCConfig) SPS() []byte {
	for _, arr := range c.Arrays {
		if arr.NALUnitType == h265.NALUType_SPS_NUT && len(arr.Units) > 0 {
			return arr.Units[0]
		}
	}
	return nil
}

// NALStream returns the parameter sets of the configuration, framed as a
// length-prefixed stream ready to be fed to a decoder.
func (c *HEVCConfig) NALStream() []byte {
	var units [][]byte
	for _, arr := range c.Arrays {
		units = append(units, arr.Units...)
	}

	buf, _ := nalstream.Marshal(units) // unit sizes are bounded by uint16
	return buf
}
