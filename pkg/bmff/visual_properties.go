package bmff

import (
	"fmt"
)

// ImageSpatialExtents is an "ispe" property: the declared width and height
// of an item.
//
// Specification: ISO 23008-12, section 6.5.3
type ImageSpatialExtents struct {
	Width  uint32
	Height uint32
}

// PropertyType implements the Property interface.
func (p *ImageSpatialExtents) PropertyType() BoxType {
	return BoxType{'i', 's', 'p', 'e'}
}

// Unmarshal parses the payload of an "ispe" property.
func (p *ImageSpatialExtents) Unmarshal(buf []byte) error {
	_, _, buf, err := parseFullBoxHeader(buf)
	if err != nil {
		return err
	}

	pos := 0

	p.Width, err = readUint32(buf, &pos)
	if err != nil {
		return err
	}

	p.Height, err = readUint32(buf, &pos)
	return err
}

// ImageRotation is an "irot" property. Angle is in units of 90 degrees,
// counter-clockwise.
//
// Specification: ISO 23008-12, section 6.5.10
type ImageRotation struct {
	Angle uint8
}

// PropertyType implements the Property interface.
func (p *ImageRotation) PropertyType() BoxType {
	return BoxType{'i', 'r', 'o', 't'}
}

// Unmarshal parses the payload of an "irot" property.
func (p *ImageRotation) Unmarshal(buf []byte) error {
	if len(buf) < 1 {
		return fmt.Errorf("buffer is too short")
	}
	p.Angle = buf[0] & 0x3
	return nil
}

// Mirroring axes.
const (
	AxisVertical   uint8 = 0 // left and right are swapped
	AxisHorizontal uint8 = 1 // top and bottom are swapped
)

// ImageMirror is an "imir" property.
//
// Specification: ISO 23008-12, section 6.5.12
type ImageMirror struct {
	Axis uint8
}

// PropertyType implements the Property interface.
func (p *ImageMirror) PropertyType() BoxType {
	return BoxType{'i', 'm', 'i', 'r'}
}

// Unmarshal parses the payload of an "imir" property.
func (p *ImageMirror) Unmarshal(buf []byte) error {
	if len(buf) < 1 {
		return fmt.Errorf("buffer is too short")
	}
	p.Axis = buf[0] & 0x1
	return nil
}
