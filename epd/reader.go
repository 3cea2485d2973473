package epd

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
)

var (
	errNotBitmap   = errors.New("epd: not a BMP file")
	errUnsupported = errors.New("epd: unsupported BMP variant")
	errNotEnough   = errors.New("epd: not enough image data")
	errBadPalette  = errors.New("epd: pixel index outside color table")
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

type decoder struct {
	r io.Reader

	width, height int
	offset        int
	palette       color.Palette

	image *image.Paletted

	tmp [fileHeaderSize + infoHeaderSize]byte
}

func (d *decoder) readHeaders() error {
	if err := readFull(d.r, d.tmp[:]); err != nil {
		return err
	}

	if d.tmp[0] != 'B' || d.tmp[1] != 'M' {
		return errNotBitmap
	}
	d.offset = int(binary.LittleEndian.Uint32(d.tmp[10:14]))

	infoSize := binary.LittleEndian.Uint32(d.tmp[14:18])
	d.width = int(int32(binary.LittleEndian.Uint32(d.tmp[18:22])))
	d.height = int(int32(binary.LittleEndian.Uint32(d.tmp[22:26])))
	planes := binary.LittleEndian.Uint16(d.tmp[26:28])
	bpp := binary.LittleEndian.Uint16(d.tmp[28:30])
	compression := binary.LittleEndian.Uint32(d.tmp[30:34])
	colors := int(binary.LittleEndian.Uint32(d.tmp[46:50]))

	// Only the single format the panel understands: uncompressed 8-bit
	// indexed with bottom-up rows.
	if infoSize != infoHeaderSize || planes != 1 || bpp != 8 || compression != 0 {
		return errUnsupported
	}
	if d.width <= 0 || d.height <= 0 {
		return errUnsupported
	}
	if colors == 0 {
		colors = 256
	}
	if d.offset != fileHeaderSize+infoHeaderSize+colors*4 {
		return errUnsupported
	}

	d.palette = make(color.Palette, colors)
	var entry [4]byte
	for i := range d.palette {
		if err := readFull(d.r, entry[:]); err != nil {
			return err
		}
		d.palette[i] = color.RGBA{entry[2], entry[1], entry[0], 0xff}
	}

	return nil
}

func (d *decoder) readPixels() error {
	rowSize := (d.width + 3) &^ 3

	d.image = image.NewPaletted(image.Rect(0, 0, d.width, d.height), d.palette)

	row := make([]byte, rowSize)
	for y := d.height - 1; y >= 0; y-- {
		if err := readFull(d.r, row); err != nil {
			return err
		}
		for _, b := range row[:d.width] {
			if int(b) >= len(d.palette) {
				return errBadPalette
			}
		}
		copy(d.image.Pix[y*d.image.Stride:], row[:d.width])
	}

	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeaders(); err != nil {
		if err == io.ErrUnexpectedEOF {
			return errNotEnough
		}
		return err
	}

	if configOnly {
		return nil
	}

	if err := d.readPixels(); err != nil {
		if err == io.ErrUnexpectedEOF {
			return errNotEnough
		}
		return err
	}

	return nil
}

// Decode reads a panel bitmap from r and returns it as an image.Image.
// The returned image is an *image.Paletted whose palette is the color
// table stored in the file.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color table and dimensions of a panel bitmap
// without decoding the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: d.palette,
		Width:      d.width,
		Height:     d.height,
	}, nil
}
