package epd

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

var (
	errWrongSize = errors.New("epd: bitmap is wrong size")
	errBadIndex  = errors.New("epd: pixel index outside palette")
)

type encoder struct {
	w io.Writer
}

func (e *encoder) writeHeaders(q *QuantizedRaster, v Variant) error {
	b := new(bytes.Buffer)

	// BITMAPFILEHEADER
	b.WriteString("BM")
	binary.Write(b, binary.LittleEndian, uint32(dataOffset+q.Width*q.Height))
	binary.Write(b, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(b, binary.LittleEndian, uint16(0)) // reserved
	binary.Write(b, binary.LittleEndian, uint32(dataOffset))

	// BITMAPINFOHEADER
	binary.Write(b, binary.LittleEndian, uint32(infoHeaderSize))
	binary.Write(b, binary.LittleEndian, int32(q.Width))
	binary.Write(b, binary.LittleEndian, int32(q.Height)) // positive height, bottom-up rows
	binary.Write(b, binary.LittleEndian, uint16(1))       // planes
	binary.Write(b, binary.LittleEndian, uint16(8))       // bits per pixel
	binary.Write(b, binary.LittleEndian, uint32(0))       // BI_RGB, no compression
	binary.Write(b, binary.LittleEndian, uint32(q.Width*q.Height))
	binary.Write(b, binary.LittleEndian, int32(2835)) // 72 DPI
	binary.Write(b, binary.LittleEndian, int32(2835))
	binary.Write(b, binary.LittleEndian, uint32(colorTableSize))
	binary.Write(b, binary.LittleEndian, uint32(numColors))

	// Color table, stored as BGR0
	for _, entry := range Palette {
		rgb := entry.RGB(v)
		b.Write([]byte{rgb[2], rgb[1], rgb[0], 0x00})
	}
	for i := numColors; i < colorTableSize; i++ {
		b.Write([]byte{0x00, 0x00, 0x00, 0x00})
	}

	_, err := e.w.Write(b.Bytes())
	return err
}

func (e *encoder) writePixels(q *QuantizedRaster) error {
	// Rows are stored bottom to top. DisplayWidth is a multiple of
	// four so rows need no padding.
	for y := q.Height - 1; y >= 0; y-- {
		if _, err := e.w.Write(q.Index[y*q.Width : (y+1)*q.Width]); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes q to w as an uncompressed 8-bit indexed BMP using the
// given palette variant for the color table. The raster must be exactly
// DisplayWidth by DisplayHeight and every index must refer to a palette
// slot.
func Encode(w io.Writer, q *QuantizedRaster, v Variant) error {
	if q.Width != DisplayWidth || q.Height != DisplayHeight {
		return errWrongSize
	}
	if len(q.Index) != q.Width*q.Height {
		return errBadRaster
	}
	for _, i := range q.Index {
		if i >= numColors {
			return errBadIndex
		}
	}

	e := encoder{w: w}

	if err := e.writeHeaders(q, v); err != nil {
		return err
	}

	return e.writePixels(q)
}
