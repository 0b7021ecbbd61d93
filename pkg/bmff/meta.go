package bmff

import (
	"fmt"
)

// Meta is a "meta" box: the metadata container of a HEIF file.
// Child boxes that this package does not parse are skipped.
//
// Specification: ISO 14496-12, section 8.11.1
type Meta struct {
	Handler       *Handler
	PrimaryItemID uint32
	ItemInfos     []*ItemInfoEntry
	Location      *ItemLocation
	Properties    *ItemProperties
	References    []*ItemReference
	ItemData      []byte
}

// Unmarshal parses the payload of a "meta" box.
func (m *Meta) Unmarshal(buf []byte) error {
	_, _, buf, err := parseFullBoxHeader(buf)
	if err != nil {
		return err
	}

	return parseBoxes(buf, func(typ BoxType, payload []byte) error {
		switch typ.String() {
		case "hdlr":
			m.Handler = &Handler{}
			err2 := m.Handler.Unmarshal(payload)
			if err2 != nil {
				return fmt.Errorf("invalid hdlr box: %w", err2)
			}

		case "pitm":
			var pitm PrimaryItem
			err2 := pitm.Unmarshal(payload)
			if err2 != nil {
				return fmt.Errorf("invalid pitm box: %w", err2)
			}
			m.PrimaryItemID = pitm.ItemID

		case "iinf":
			var iinf ItemInfo
			err2 := iinf.Unmarshal(payload)
			if err2 != nil {
				return fmt.Errorf("invalid iinf box: %w", err2)
			}
			m.ItemInfos = iinf.Entries

		case "iloc":
			m.Location = &ItemLocation{}
			err2 := m.Location.Unmarshal(payload)
			if err2 != nil {
				return fmt.Errorf("invalid iloc box: %w", err2)
			}

		case "iprp":
			m.Properties = &ItemProperties{}
			err2 := m.Properties.Unmarshal(payload)
			if err2 != nil {
				return fmt.Errorf("invalid iprp box: %w", err2)
			}

		case "iref":
			var iref ItemReferences
			err2 := iref.Unmarshal(payload)
			if err2 != nil {
				return fmt.Errorf("invalid iref box: %w", err2)
			}
			m.References = iref.References

		case "idat":
			m.ItemData = payload
		}

		return nil
	})
}
