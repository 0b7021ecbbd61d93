package bmff

import (
	"fmt"
)

// FileType is a "ftyp" box.
//
// Specification: ISO 14496-12, section 4.3
type FileType struct {
	MajorBrand       BoxType
	MinorVersion     uint32
	CompatibleBrands []BoxType
}

// Unmarshal parses the payload of a "ftyp" box.
func (f *FileType) Unmarshal(buf []byte) error {
	pos := 0

	var err error
	f.MajorBrand, err = readBoxType(buf, &pos)
	if err != nil {
		return err
	}

	f.MinorVersion, err = readUint32(buf, &pos)
	if err != nil {
		return err
	}

	if ((len(buf) - pos) % 4) != 0 {
		return fmt.Errorf("invalid size of compatible brands")
	}

	for pos < len(buf) {
		var brand BoxType
		brand, err = readBoxType(buf, &pos)
		if err != nil {
			return err
		}
		f.CompatibleBrands = append(f.CompatibleBrands, brand)
	}

	return nil
}

// HasBrand reports whether b is the major brand or a compatible brand.
func (f *FileType) HasBrand(b BoxType) bool {
	if f.MajorBrand == b {
		return true
	}
	for _, cb := range f.CompatibleBrands {
		if cb == b {
			return true
		}
	}
	return false
}
