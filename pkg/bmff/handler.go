package bmff

// Handler is a "hdlr" box.
//
// Specification: ISO 14496-12, section 8.4.3
type Handler struct {
	HandlerType BoxType // "pict" for still images
	Name        string
}

// Unmarshal parses the payload of a "hdlr" box.
func (h *Handler) Unmarshal(buf []byte) error {
	_, _, buf, err := parseFullBoxHeader(buf)
	if err != nil {
		return err
	}

	pos := 0

	_, err = readUint32(buf, &pos) // pre_defined
	if err != nil {
		return err
	}

	h.HandlerType, err = readBoxType(buf, &pos)
	if err != nil {
		return err
	}

	// reserved
	for i := 0; i < 3; i++ {
		_, err = readUint32(buf, &pos)
		if err != nil {
			return err
		}
	}

	h.Name = readString(buf, &pos)

	return nil
}
