package bmff

// PrimaryItem is a "pitm" box.
//
// Specification: ISO 14496-12, section 8.11.4
type PrimaryItem struct {
	Version uint8
	ItemID  uint32
}

// Unmarshal parses the payload of a "pitm" box.
func (p *PrimaryItem) Unmarshal(buf []byte) error {
	version, _, buf, err := parseFullBoxHeader(buf)
	if err != nil {
		return err
	}
	p.Version = version

	pos := 0

	if version == 0 {
		var id uint16
		id, err = readUint16(buf, &pos)
		p.ItemID = uint32(id)
	} else {
		p.ItemID, err = readUint32(buf, &pos)
	}

	return err
}
