package bmff

import (
	"fmt"
)

// Property is a parsed item property, stored inside an "ipco" box.
type Property interface {
	// PropertyType returns the 4-character type of the property.
	PropertyType() BoxType
}

// RawProperty is a property of a type this package does not parse.
// It keeps its slot in the container, since associations refer to
// properties by position.
type RawProperty struct {
	Type    BoxType
	Payload []byte
}

// PropertyType implements the Property interface.
func (p *RawProperty) PropertyType() BoxType {
	return p.Type
}

// PropertyAssociation associates an item with a property of the container.
// Index is 1-based; 0 means no property.
type PropertyAssociation struct {
	Essential bool
	Index     uint16
}

// ItemPropertyAssociationEntry lists the properties associated with an item.
type ItemPropertyAssociationEntry struct {
	ItemID       uint32
	Associations []PropertyAssociation
}

// ItemPropertyAssociation is an "ipma" box.
//
// Specification: ISO 23008-12, section 9.3.2
type ItemPropertyAssociation struct {
	Version uint8
	Flags   uint32
	Entries []*ItemPropertyAssociationEntry
}

// Unmarshal parses the payload of an "ipma" box.
func (a *ItemPropertyAssociation) Unmarshal(buf []byte) error {
	version, flags, buf, err := parseFullBoxHeader(buf)
	if err != nil {
		return err
	}
	a.Version = version
	a.Flags = flags

	pos := 0

	var entryCount uint32
	entryCount, err = readUint32(buf, &pos)
	if err != nil {
		return err
	}

	for i := uint32(0); i < entryCount; i++ {
		entry := &ItemPropertyAssociationEntry{}

		if version < 1 {
			var id uint16
			id, err = readUint16(buf, &pos)
			entry.ItemID = uint32(id)
		} else {
			entry.ItemID, err = readUint32(buf, &pos)
		}
		if err != nil {
			return err
		}

		var assocCount uint8
		assocCount, err = readUint8(buf, &pos)
		if err != nil {
			return err
		}

		for j := uint8(0); j < assocCount; j++ {
			var first uint8
			first, err = readUint8(buf, &pos)
			if err != nil {
				return err
			}

			assoc := PropertyAssociation{
				Essential: (first & 0x80) != 0,
			}

			if (flags & 1) != 0 { // 15-bit indexes
				var second uint8
				second, err = readUint8(buf, &pos)
				if err != nil {
					return err
				}
				assoc.Index = uint16(first&0x7f)<<8 | uint16(second)
			} else {
				assoc.Index = uint16(first & 0x7f)
			}

			entry.Associations = append(entry.Associations, assoc)
		}

		a.Entries = append(a.Entries, entry)
	}

	return nil
}

// ItemProperties is an "iprp" box: a property container followed by one or
// more association boxes.
//
// Specification: ISO 23008-12, section 9.3
type ItemProperties struct {
	Container    []Property
	Associations []*ItemPropertyAssociation
}

// Unmarshal parses the payload of an "iprp" box.
func (p *ItemProperties) Unmarshal(buf []byte) error {
	err := parseBoxes(buf, func(typ BoxType, payload []byte) error {
		switch typ.String() {
		case "ipco":
			return parseBoxes(payload, func(ptyp BoxType, ppayload []byte) error {
				prop, err2 := parseProperty(ptyp, ppayload)
				if err2 != nil {
					return fmt.Errorf("invalid %q property: %w", ptyp, err2)
				}
				p.Container = append(p.Container, prop)
				return nil
			})

		case "ipma":
			ipma := &ItemPropertyAssociation{}
			err2 := ipma.Unmarshal(payload)
			if err2 != nil {
				return fmt.Errorf("invalid ipma box: %w", err2)
			}
			p.Associations = append(p.Associations, ipma)
			return nil
		}

		return nil
	})
	if err != nil {
		return err
	}

	if len(p.Associations) == 0 {
		return fmt.Errorf("iprp box contains no associations")
	}

	return nil
}

// ItemProperties returns the properties associated with an item,
// in association order.
func (p *ItemProperties) ItemProperties(itemID uint32) []Property {
	var ret []Property

	for _, ipma := range p.Associations {
		for _, entry := range ipma.Entries {
			if entry.ItemID != itemID {
				continue
			}
			for _, assoc := range entry.Associations {
				if assoc.Index < 1 || int(assoc.Index) > len(p.Container) {
					continue
				}
				ret = append(ret, p.Container[assoc.Index-1])
			}
		}
	}

	return ret
}

func parseProperty(typ BoxType, payload []byte) (Property, error) {
	switch typ.String() {
	case "ispe":
		prop := &ImageSpatialExtents{}
		err := prop.Unmarshal(payload)
		if err != nil {
			return nil, err
		}
		return prop, nil

	case "irot":
		prop := &ImageRotation{}
		err := prop.Unmarshal(payload)
		if err != nil {
			return nil, err
		}
		return prop, nil

	case "imir":
		prop := &ImageMirror{}
		err := prop.Unmarshal(payload)
		if err != nil {
			return nil, err
		}
		return prop, nil

	case "hvcC":
		prop := &HEVCConfig{}
		err := prop.Unmarshal(payload)
		if err != nil {
			return nil, err
		}
		return prop, nil

	case "av1C":
		prop := &AV1Config{}
		err := prop.Unmarshal(payload)
		if err != nil {
			return nil, err
		}
		return prop, nil
	}

	return &RawProperty{Type: typ, Payload: payload}, nil
}
