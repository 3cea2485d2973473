/*
Package epd implements the palette, ditherer and bitmap codec for a
7-color electrophoretic display panel.

The panel is 800 by 480 pixels exactly and can show seven fixed colors;
one of the seven hardware slots is reserved and never used for image
data. Bitmaps are stored as uncompressed 8-bit indexed Windows BMP
files: a 14 byte file header, a 40 byte BITMAPINFOHEADER, a color table
of eight 4-byte BGR0 entries (the seven palette colors in slot order
plus one unused pad entry) and one byte of pixel index data per pixel,
rows written bottom to top. At 800 pixels a row is already a multiple
of four bytes so no row padding is required and the file is always
86 + 800*480 bytes. The on-device decoder maps each index straight to a
panel color, so the index data must round-trip byte for byte.
*/
package epd

const (
	// DisplayWidth and DisplayHeight are the fixed panel dimensions.
	DisplayWidth  = 800
	DisplayHeight = 480

	numColors      = 7
	colorTableSize = 8 // next power of two, last entry unused

	fileHeaderSize = 14
	infoHeaderSize = 40
	dataOffset     = fileHeaderSize + infoHeaderSize + colorTableSize*4
)
