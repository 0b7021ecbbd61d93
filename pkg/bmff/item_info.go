package bmff

import (
	"fmt"
)

// ItemInfoEntry is an "infe" box.
//
// Specification: ISO 14496-12, section 8.11.6
type ItemInfoEntry struct {
	Version         uint8
	ItemID          uint32
	ProtectionIndex uint16
	ItemType        BoxType
	Name            string

	// in case of item type "mime"
	ContentType     string
	ContentEncoding string

	// in case of item type "uri "
	ItemURIType string
}

// Unmarshal parses the payload of an "infe" box.
func (e *ItemInfoEntry) Unmarshal(buf []byte) error {
	version, _, buf, err := parseFullBoxHeader(buf)
	if err != nil {
		return err
	}
	e.Version = version

	// versions 0 and 1 belong to plain ISO-BMFF files and do not carry an
	// item type, which HEIF requires.
	if version < 2 {
		return fmt.Errorf("unsupported infe version (%d)", version)
	}

	pos := 0

	if version == 2 {
		var id uint16
		id, err = readUint16(buf, &pos)
		if err != nil {
			return err
		}
		e.ItemID = uint32(id)
	} else {
		e.ItemID, err = readUint32(buf, &pos)
		if err != nil {
			return err
		}
	}

	e.ProtectionIndex, err = readUint16(buf, &pos)
	if err != nil {
		return err
	}

	e.ItemType, err = readBoxType(buf, &pos)
	if err != nil {
		return err
	}

	e.Name = readString(buf, &pos)

	switch e.ItemType.String() {
	case "mime":
		e.ContentType = readString(buf, &pos)
		if pos < len(buf) {
			e.ContentEncoding = readString(buf, &pos)
		}

	case "uri ":
		e.ItemURIType = readString(buf, &pos)
	}

	return nil
}

// ItemInfo is an "iinf" box.
//
// Specification: ISO 14496-12, section 8.11.6
type ItemInfo struct {
	Version uint8
	Entries []*ItemInfoEntry
}

// Unmarshal parses the payload of an "iinf" box.
func (i *ItemInfo) Unmarshal(buf []byte) error {
	version, _, buf, err := parseFullBoxHeader(buf)
	if err != nil {
		return err
	}
	i.Version = version

	pos := 0

	var count uint32
	if version == 0 {
		var c uint16
		c, err = readUint16(buf, &pos)
		count = uint32(c)
	} else {
		count, err = readUint32(buf, &pos)
	}
	if err != nil {
		return err
	}

	err = parseBoxes(buf[pos:], func(typ BoxType, payload []byte) error {
		if typ.String() != "infe" {
			return nil
		}
		entry := &ItemInfoEntry{}
		err2 := entry.Unmarshal(payload)
		if err2 != nil {
			return fmt.Errorf("invalid infe box: %w", err2)
		}
		i.Entries = append(i.Entries, entry)
		return nil
	})
	if err != nil {
		return err
	}

	if len(i.Entries) != int(count) {
		return fmt.Errorf("declared %d items, found %d", count, len(i.Entries))
	}

	return nil
}
