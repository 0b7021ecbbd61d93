package bmff

import (
	"fmt"
)

// Construction methods of an "iloc" entry.
const (
	ConstructionFile uint8 = 0 // extents are file offsets
	ConstructionIdat uint8 = 1 // extents are offsets into the "idat" box
	ConstructionItem uint8 = 2 // extents are offsets into another item
)

// Extent is a data extent of an "iloc" entry.
type Extent struct {
	Index  uint64
	Offset uint64
	Length uint64
}

// ItemLocationEntry locates the data of a single item.
type ItemLocationEntry struct {
	ItemID             uint32
	ConstructionMethod uint8
	DataReferenceIndex uint16
	BaseOffset         uint64
	Extents            []Extent
}

// ItemLocation is an "iloc" box.
//
// Specification: ISO 14496-12, section 8.11.3
type ItemLocation struct {
	Version uint8
	Items   []*ItemLocationEntry
}

// Unmarshal parses the payload of an "iloc" box.
func (l *ItemLocation) Unmarshal(buf []byte) error {
	version, _, buf, err := parseFullBoxHeader(buf)
	if err != nil {
		return err
	}
	l.Version = version

	if version > 2 {
		return fmt.Errorf("unsupported iloc version (%d)", version)
	}

	pos := 0

	var sizes uint16
	sizes, err = readUint16(buf, &pos)
	if err != nil {
		return err
	}

	offsetSize := uint8(sizes >> 12)
	lengthSize := uint8(sizes >> 8 & 0xf)
	baseOffsetSize := uint8(sizes >> 4 & 0xf)

	var indexSize uint8
	if version > 0 {
		indexSize = uint8(sizes & 0xf)
	}

	var itemCount uint32
	if version < 2 {
		var c uint16
		c, err = readUint16(buf, &pos)
		itemCount = uint32(c)
	} else {
		itemCount, err = readUint32(buf, &pos)
	}
	if err != nil {
		return err
	}

	for i := uint32(0); i < itemCount; i++ {
		ent := &ItemLocationEntry{}

		if version < 2 {
			var id uint16
			id, err = readUint16(buf, &pos)
			ent.ItemID = uint32(id)
		} else {
			ent.ItemID, err = readUint32(buf, &pos)
		}
		if err != nil {
			return err
		}

		if version > 0 {
			var cmeth uint16
			cmeth, err = readUint16(buf, &pos)
			if err != nil {
				return err
			}
			ent.ConstructionMethod = uint8(cmeth & 0xf)
		}

		ent.DataReferenceIndex, err = readUint16(buf, &pos)
		if err != nil {
			return err
		}

		ent.BaseOffset, err = readUintN(buf, &pos, baseOffsetSize)
		if err != nil {
			return err
		}

		var extentCount uint16
		extentCount, err = readUint16(buf, &pos)
		if err != nil {
			return err
		}

		for j := uint16(0); j < extentCount; j++ {
			var ext Extent

			if version > 0 && indexSize > 0 {
				ext.Index, err = readUintN(buf, &pos, indexSize)
				if err != nil {
					return err
				}
			}

			ext.Offset, err = readUintN(buf, &pos, offsetSize)
			if err != nil {
				return err
			}

			ext.Length, err = readUintN(buf, &pos, lengthSize)
			if err != nil {
				return err
			}

			ent.Extents = append(ent.Extents, ext)
		}

		l.Items = append(l.Items, ent)
	}

	return nil
}

// Item returns the location entry of the given item.
func (l *ItemLocation) Item(itemID uint32) (*ItemLocationEntry, bool) {
	for _, ent := range l.Items {
		if ent.ItemID == itemID {
			return ent, true
		}
	}
	return nil, false
}
