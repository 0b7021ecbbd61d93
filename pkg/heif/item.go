package heif

import (
	"github.com/bluenviron/goheiflib/pkg/bmff"
)

// Item is an item of a HEIF file: a coded image, a derived image or a
// metadata blob.
type Item struct {
	ID         uint32
	Info       *bmff.ItemInfoEntry
	Location   *bmff.ItemLocationEntry
	Properties []bmff.Property
	References []*bmff.ItemReference
}

// Type returns the item type.
func (it *Item) Type() bmff.BoxType {
	return it.Info.ItemType
}

// Reference returns the first reference of the given type that originates
// from this item.
func (it *Item) Reference(typ bmff.BoxType) (*bmff.ItemReference, bool) {
	for _, ref := range it.References {
		if ref.Type == typ {
			return ref, true
		}
	}
	return nil, false
}

// SpatialExtents returns the declared width and height of the item,
// not corrected for rotation.
func (it *Item) SpatialExtents() (int, int, bool) {
	for _, p := range it.Properties {
		if p, ok := p.(*bmff.ImageSpatialExtents); ok {
			return int(p.Width), int(p.Height), true
		}
	}
	return 0, 0, false
}

// Rotations returns the number of 90 degree counter-clockwise rotations
// that the decoded image must be rendered at, in the range [0, 3].
func (it *Item) Rotations() int {
	for _, p := range it.Properties {
		if p, ok := p.(*bmff.ImageRotation); ok {
			return int(p.Angle)
		}
	}
	return 0
}

// Mirror returns the mirroring axis of the item, if any.
func (it *Item) Mirror() (uint8, bool) {
	for _, p := range it.Properties {
		if p, ok := p.(*bmff.ImageMirror); ok {
			return p.Axis, true
		}
	}
	return 0, false
}

// VisualDimensions returns the width and height of the item after
// correcting for rotation.
func (it *Item) VisualDimensions() (int, int, bool) {
	width, height, ok := it.SpatialExtents()
	if (it.Rotations() % 2) != 0 {
		width, height = height, width
	}
	return width, height, ok
}

// HEVCConfig returns the HEVC decoder configuration of the item, if any.
func (it *Item) HEVCConfig() (*bmff.HEVCConfig, bool) {
	for _, p := range it.Properties {
		if p, ok := p.(*bmff.HEVCConfig); ok {
			return p, true
		}
	}
	return nil, false
}

// AV1Config returns the AV1 codec configuration of the item, if any.
func (it *Item) AV1Config() (*bmff.AV1Config, bool) {
	for _, p := range it.Properties {
		if p, ok := p.(*bmff.AV1Config); ok {
			return p, true
		}
	}
	return nil, false
}
