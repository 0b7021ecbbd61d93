package bmff

// ItemReference is an entry of an "iref" box. Type describes the nature of
// the reference: "dimg" (derived image), "thmb" (thumbnail), "cdsc"
// (content description), etc.
//
// Specification: ISO 14496-12, section 8.11.12
type ItemReference struct {
	Type       BoxType
	FromItemID uint32
	ToItemIDs  []uint32
}

// ItemReferences is an "iref" box, flattened into a list of references.
type ItemReferences struct {
	Version    uint8
	References []*ItemReference
}

// Unmarshal parses the payload of an "iref" box.
func (r *ItemReferences) Unmarshal(buf []byte) error {
	version, _, buf, err := parseFullBoxHeader(buf)
	if err != nil {
		return err
	}
	r.Version = version

	return parseBoxes(buf, func(typ BoxType, payload []byte) error {
		ref := &ItemReference{Type: typ}
		pos := 0

		var err2 error
		if version == 0 {
			var id uint16
			id, err2 = readUint16(payload, &pos)
			ref.FromItemID = uint32(id)
		} else {
			ref.FromItemID, err2 = readUint32(payload, &pos)
		}
		if err2 != nil {
			return err2
		}

		var count uint16
		count, err2 = readUint16(payload, &pos)
		if err2 != nil {
			return err2
		}

		for i := uint16(0); i < count; i++ {
			var id uint32
			if version == 0 {
				var id16 uint16
				id16, err2 = readUint16(payload, &pos)
				id = uint32(id16)
			} else {
				id, err2 = readUint32(payload, &pos)
			}
			if err2 != nil {
				return err2
			}
			ref.ToItemIDs = append(ref.ToItemIDs, id)
		}

		r.References = append(r.References, ref)
		return nil
	})
}
