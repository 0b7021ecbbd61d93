package goheiflib

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h265"
	"golang.org/x/sync/errgroup"

	"github.com/bluenviron/goheiflib/pkg/heif"
)

func asReaderAt(r io.Reader) (io.ReaderAt, error) {
	if ra, ok := r.(io.ReaderAt); ok {
		return ra, nil
	}

	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(buf), nil
}

// itemConfig returns the codec configuration of an item
// in the form expected by its decoder.
func itemConfig(it *heif.Item) []byte {
	if cfg, ok := it.HEVCConfig(); ok {
		return cfg.NALStream()
	}

	if cfg, ok := it.AV1Config(); ok {
		return cfg.ConfigOBUs
	}

	return nil
}

func decodeItem(fl *heif.File, it *heif.Item) (image.Image, error) {
	if it.Type() == heif.ItemTypeGrid {
		return decodeGrid(fl, it)
	}

	factory, ok := decoderFactory(it.Type().String())
	if !ok {
		return nil, ErrNoDecoder{ItemType: it.Type().String()}
	}

	dec, err := factory()
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	data, err := fl.ItemData(it)
	if err != nil {
		return nil, err
	}

	return dec.DecodeItem(itemConfig(it), data)
}

func decodeGrid(fl *heif.File, it *heif.Item) (image.Image, error) {
	payload, err := fl.ItemData(it)
	if err != nil {
		return nil, err
	}

	var grid heif.Grid
	err = grid.Unmarshal(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid grid item: %w", err)
	}

	ref, ok := it.Reference(heif.ReferenceTypeDimg)
	if !ok {
		return nil, fmt.Errorf("grid item has no tile references")
	}

	count := grid.Rows * grid.Columns
	if len(ref.ToItemIDs) != count {
		return nil, fmt.Errorf("grid declares %d tiles, found %d references",
			count, len(ref.ToItemIDs))
	}

	// tiles are independent; decode them in parallel,
	// each with its own decoder instance.
	tiles := make([]*image.YCbCr, count)

	var g errgroup.Group
	g.SetLimit(TileConcurrency)

	for i, id := range ref.ToItemIDs {
		g.Go(func() error {
			tile, err2 := fl.ItemByID(id)
			if err2 != nil {
				return err2
			}

			img, err2 := decodeItem(fl, tile)
			if err2 != nil {
				return fmt.Errorf("unable to decode tile %d: %w", id, err2)
			}

			ycc, ok2 := img.(*image.YCbCr)
			if !ok2 {
				return fmt.Errorf("tile %d is not a YCbCr image", id)
			}

			tiles[i] = ycc
			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		return nil, err
	}

	return stitchTiles(&grid, it, tiles)
}

// chromaDims returns the size of the chroma planes
// of a YCbCr image with the given luma size.
func chromaDims(ratio image.YCbCrSubsampleRatio, w int, h int) (int, int) {
	switch ratio {
	case image.YCbCrSubsampleRatio422:
		return (w + 1) / 2, h

	case image.YCbCrSubsampleRatio420:
		return (w + 1) / 2, (h + 1) / 2

	case image.YCbCrSubsampleRatio440:
		return w, (h + 1) / 2

	case image.YCbCrSubsampleRatio411:
		return (w + 3) / 4, h

	case image.YCbCrSubsampleRatio410:
		return (w + 3) / 4, (h + 1) / 2
	}

	return w, h
}

func stitchTiles(grid *heif.Grid, it *heif.Item, tiles []*image.YCbCr) (image.Image, error) {
	tw := tiles[0].Rect.Dx()
	th := tiles[0].Rect.Dy()
	ratio := tiles[0].SubsampleRatio

	for _, tile := range tiles {
		if tile.Rect.Dx() != tw || tile.Rect.Dy() != th {
			return nil, fmt.Errorf("tiles have inconsistent dimensions")
		}
		if tile.SubsampleRatio != ratio {
			return nil, fmt.Errorf("tiles have inconsistent chroma subsampling")
		}
	}

	outW := grid.Columns * tw
	outH := grid.Rows * th

	cw, ch := chromaDims(ratio, tw, th)
	outCW, outCH := chromaDims(ratio, outW, outH)

	if grid.Columns*cw != outCW || grid.Rows*ch != outCH {
		return nil, fmt.Errorf("tile size %dx%d is not aligned with chroma subsampling", tw, th)
	}

	out := image.NewYCbCr(image.Rect(0, 0, outW, outH), ratio)

	for i, tile := range tiles {
		x := (i % grid.Columns) * tw
		y := (i / grid.Columns) * th

		for j := 0; j < th; j++ {
			copy(out.Y[(y+j)*out.YStride+x:], tile.Y[j*tile.YStride:j*tile.YStride+tw])
		}

		cx := (i % grid.Columns) * cw
		cy := (i / grid.Columns) * ch

		for j := 0; j < ch; j++ {
			copy(out.Cb[(cy+j)*out.CStride+cx:], tile.Cb[j*tile.CStride:j*tile.CStride+cw])
			copy(out.Cr[(cy+j)*out.CStride+cx:], tile.Cr[j*tile.CStride:j*tile.CStride+cw])
		}
	}

	cropW, cropH, ok := it.SpatialExtents()
	if !ok {
		cropW = int(grid.OutputWidth)
		cropH = int(grid.OutputHeight)
	}

	if cropW > outW || cropH > outH {
		return nil, fmt.Errorf("declared size %dx%d exceeds the stitched size %dx%d",
			cropW, cropH, outW, outH)
	}

	if cropW == outW && cropH == outH {
		return out, nil
	}

	return out.SubImage(image.Rect(0, 0, cropW, cropH)), nil
}

// Decode decodes the primary image of a HEIF / AVIF file.
//
// A decoder for the codec of the image must be registered
// in advance through RegisterCodec.
func Decode(r io.Reader) (image.Image, error) {
	ra, err := asReaderAt(r)
	if err != nil {
		return nil, err
	}

	fl, err := heif.Open(ra)
	if err != nil {
		return nil, err
	}

	it, err := fl.PrimaryItem()
	if err != nil {
		return nil, err
	}

	return decodeItem(fl, it)
}

func dimensionsFromSPS(it *heif.Item) (int, int, error) {
	cfg, ok := it.HEVCConfig()
	if !ok {
		return 0, 0, fmt.Errorf("item has no spatial extents")
	}

	buf := cfg.SPS()
	if buf == nil {
		return 0, 0, fmt.Errorf("decoder configuration contains no SPS")
	}

	var sps h265.SPS
	err := sps.Unmarshal(buf)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid SPS: %w", err)
	}

	return sps.Width(), sps.Height(), nil
}

// DecodeConfig returns the color model and dimensions of the primary
// image of a HEIF / AVIF file without decoding it.
func DecodeConfig(r io.Reader) (image.Config, error) {
	ra, err := asReaderAt(r)
	if err != nil {
		return image.Config{}, err
	}

	fl, err := heif.Open(ra)
	if err != nil {
		return image.Config{}, err
	}

	it, err := fl.PrimaryItem()
	if err != nil {
		return image.Config{}, err
	}

	width, height, ok := it.SpatialExtents()
	if !ok {
		width, height, err = dimensionsFromSPS(it)
		if err != nil {
			return image.Config{}, err
		}
	}

	return image.Config{
		ColorModel: color.YCbCrModel,
		Width:      width,
		Height:     height,
	}, nil
}

// ExtractExif extracts the EXIF data of a HEIF / AVIF file.
func ExtractExif(ra io.ReaderAt) ([]byte, error) {
	fl, err := heif.Open(ra)
	if err != nil {
		return nil, err
	}

	return fl.EXIF()
}

func init() {
	// the signature checks the ftyp box type at offset 4, like libheif does.
	image.RegisterFormat("heic", "????ftyp", Decode, DecodeConfig)
}
