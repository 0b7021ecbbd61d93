// Package heif provides access to the items of HEIF / AVIF image files.
// It does not decode images; it reads metadata and coded item payloads.
package heif

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/bluenviron/goheiflib/pkg/bmff"
)

// Common item types.
var (
	ItemTypeHVC1 = bmff.BoxType{'h', 'v', 'c', '1'}
	ItemTypeAV01 = bmff.BoxType{'a', 'v', '0', '1'}
	ItemTypeGrid = bmff.BoxType{'g', 'r', 'i', 'd'}
	ItemTypeExif = bmff.BoxType{'E', 'x', 'i', 'f'}
)

// Common item reference types.
var (
	ReferenceTypeDimg = bmff.BoxType{'d', 'i', 'm', 'g'}
	ReferenceTypeCdsc = bmff.BoxType{'c', 'd', 's', 'c'}
	ReferenceTypeThmb = bmff.BoxType{'t', 'h', 'm', 'b'}
)

// ErrNoEXIF is returned by File.EXIF when the file contains no EXIF item.
var ErrNoEXIF = errors.New("no EXIF data")

// ErrUnknownItem is returned by File.ItemByID for unknown item IDs.
var ErrUnknownItem = errors.New("unknown item")

// boxes and item payloads larger than this are treated as malformed
const maxPayloadSize = 200 * 1024 * 1024

// File is a parsed HEIF file.
//
// Methods on File can be called concurrently, since the file is parsed
// entirely by Open.
type File struct {
	ra       io.ReaderAt
	fileType *bmff.FileType
	meta     *bmff.Meta
}

// Open parses the structure of a HEIF file. Item payloads are not read
// until requested.
func Open(ra io.ReaderAt) (*File, error) {
	f := &File{ra: ra}

	sc := bmff.NewScanner(ra)

	hdr, err := sc.Next()
	if err != nil {
		return nil, fmt.Errorf("unable to read ftyp box: %w", err)
	}
	if hdr.Type != bmff.TypeFtyp {
		return nil, fmt.Errorf("first box is %q, expected ftyp", hdr.Type)
	}

	buf, err := f.readPayload(hdr)
	if err != nil {
		return nil, err
	}

	f.fileType = &bmff.FileType{}
	err = f.fileType.Unmarshal(buf)
	if err != nil {
		return nil, fmt.Errorf("invalid ftyp box: %w", err)
	}

	for {
		hdr, err = sc.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("meta box not found")
		}
		if err != nil {
			return nil, err
		}
		if hdr.Type == bmff.TypeMeta {
			break
		}
	}

	buf, err = f.readPayload(hdr)
	if err != nil {
		return nil, err
	}

	f.meta = &bmff.Meta{}
	err = f.meta.Unmarshal(buf)
	if err != nil {
		return nil, fmt.Errorf("invalid meta box: %w", err)
	}

	return f, nil
}

func (f *File) readPayload(hdr *bmff.BoxHeader) ([]byte, error) {
	if hdr.PayloadSize < 0 || hdr.PayloadSize > maxPayloadSize {
		return nil, fmt.Errorf("invalid size of box %q (%d)", hdr.Type, hdr.PayloadSize)
	}

	buf := make([]byte, hdr.PayloadSize)
	_, err := io.ReadFull(io.NewSectionReader(f.ra, hdr.PayloadOffset, hdr.PayloadSize), buf)
	if err != nil {
		return nil, fmt.Errorf("unable to read box %q: %w", hdr.Type, err)
	}

	return buf, nil
}

// FileType returns the parsed "ftyp" box.
func (f *File) FileType() *bmff.FileType {
	return f.fileType
}

// PrimaryItem returns the primary item of the file.
func (f *File) PrimaryItem() (*Item, error) {
	if f.meta.PrimaryItemID == 0 {
		return nil, fmt.Errorf("file has no primary item")
	}
	return f.ItemByID(f.meta.PrimaryItemID)
}

// ItemByID returns the item with the given ID.
func (f *File) ItemByID(id uint32) (*Item, error) {
	it := &Item{ID: id}

	for _, info := range f.meta.ItemInfos {
		if info.ItemID == id {
			it.Info = info
		}
	}
	if it.Info == nil {
		return nil, ErrUnknownItem
	}

	if f.meta.Location != nil {
		it.Location, _ = f.meta.Location.Item(id)
	}

	for _, ref := range f.meta.References {
		if ref.FromItemID == id {
			it.References = append(it.References, ref)
		}
	}

	if f.meta.Properties != nil {
		it.Properties = f.meta.Properties.ItemProperties(id)
	}

	return it, nil
}

// Items returns all the items of the file, in declaration order.
func (f *File) Items() []*Item {
	ret := make([]*Item, 0, len(f.meta.ItemInfos))
	for _, info := range f.meta.ItemInfos {
		it, err := f.ItemByID(info.ItemID)
		if err != nil {
			continue
		}
		ret = append(ret, it)
	}
	return ret
}

// ItemData reads the data of an item, concatenating its extents.
func (f *File) ItemData(it *Item) ([]byte, error) {
	loc := it.Location
	if loc == nil {
		return nil, fmt.Errorf("item has no location")
	}
	if len(loc.Extents) == 0 {
		return nil, fmt.Errorf("item has no extents")
	}

	var size uint64
	for _, ext := range loc.Extents {
		if ext.Length > maxPayloadSize || (size+ext.Length) > maxPayloadSize {
			return nil, fmt.Errorf("declared size exceeds threshold of %d bytes", maxPayloadSize)
		}
		size += ext.Length
	}

	buf := make([]byte, 0, size)

	for _, ext := range loc.Extents {
		switch loc.ConstructionMethod {
		case bmff.ConstructionFile:
			off := loc.BaseOffset + ext.Offset
			if off < loc.BaseOffset || off > math.MaxInt64 {
				return nil, fmt.Errorf("invalid extent offset (%d + %d)", loc.BaseOffset, ext.Offset)
			}

			chunk := make([]byte, ext.Length)
			_, err := io.ReadFull(io.NewSectionReader(f.ra, int64(off), int64(ext.Length)), chunk)
			if err != nil {
				return nil, fmt.Errorf("unable to read item data: %w", err)
			}
			buf = append(buf, chunk...)

		case bmff.ConstructionIdat:
			idat := f.meta.ItemData
			if idat == nil {
				return nil, fmt.Errorf("file has no idat box")
			}
			if ext.Offset > uint64(len(idat)) || ext.Length > uint64(len(idat))-ext.Offset {
				return nil, fmt.Errorf("extent is outside of the idat box")
			}
			buf = append(buf, idat[ext.Offset:ext.Offset+ext.Length]...)

		default:
			return nil, fmt.Errorf("unsupported construction method (%d)", loc.ConstructionMethod)
		}
	}

	return buf, nil
}

// EXIF returns the EXIF data of the file, stripped of the HEIF-specific
// header. When the file has no EXIF item, it returns ErrNoEXIF.
func (f *File) EXIF() ([]byte, error) {
	var exifID uint32
	for _, info := range f.meta.ItemInfos {
		if info.ItemType == ItemTypeExif {
			exifID = info.ItemID
			break
		}
	}
	if exifID == 0 {
		return nil, ErrNoEXIF
	}

	it, err := f.ItemByID(exifID)
	if err != nil {
		return nil, err
	}

	data, err := f.ItemData(it)
	if err != nil {
		return nil, err
	}

	// the payload starts with a 4-byte offset of the TIFF header,
	// relative to the end of the offset field itself
	if len(data) < 4 {
		return nil, fmt.Errorf("EXIF data is too short")
	}
	off := uint64(binary.BigEndian.Uint32(data))
	if (4 + off) > uint64(len(data)) {
		return nil, fmt.Errorf("invalid EXIF header offset (%d)", off)
	}

	return data[4+off:], nil
}
