package epd

import (
	"fmt"
	"image/color"
)

// Variant selects which set of palette RGB values is used, both for the
// nearest-color search while dithering and for the color table written
// into the bitmap.
type Variant string

const (
	// Theoretical is the idealized palette the panel is meant to show.
	Theoretical Variant = "theoretical"
	// Measured is the palette as actually captured from the panel
	// under ambient lighting. Noticeably darker, especially white.
	Measured Variant = "measured"
)

// ParseVariant converts a user supplied palette name into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case Theoretical, Measured:
		return Variant(s), nil
	}
	return "", fmt.Errorf("epd: unknown palette variant %q", s)
}

// PaletteEntry is one hardware color slot. Its position in Palette is
// the index written into the bitmap and is stable across runs.
type PaletteEntry struct {
	Name        string
	Theoretical [3]uint8
	Measured    [3]uint8

	// Reserved slots exist in the hardware color table but must never
	// be produced by the ditherer.
	Reserved bool
}

// RGB returns the entry color for the given variant.
func (e PaletteEntry) RGB(v Variant) [3]uint8 {
	if v == Measured {
		return e.Measured
	}
	return e.Theoretical
}

// Palette is the fixed panel palette in hardware slot order. Slot 4 is
// reserved by the panel controller.
var Palette = [numColors]PaletteEntry{
	{Name: "black", Theoretical: [3]uint8{0x00, 0x00, 0x00}, Measured: [3]uint8{2, 2, 2}},
	{Name: "white", Theoretical: [3]uint8{0xff, 0xff, 0xff}, Measured: [3]uint8{185, 185, 185}},
	{Name: "yellow", Theoretical: [3]uint8{0xff, 0xff, 0x00}, Measured: [3]uint8{195, 184, 0}},
	{Name: "red", Theoretical: [3]uint8{0xff, 0x00, 0x00}, Measured: [3]uint8{117, 5, 0}},
	{Name: "reserved", Reserved: true},
	{Name: "blue", Theoretical: [3]uint8{0x00, 0x00, 0xff}, Measured: [3]uint8{0, 47, 107}},
	{Name: "green", Theoretical: [3]uint8{0x00, 0xff, 0x00}, Measured: [3]uint8{35, 70, 40}},
}

// ColorPalette returns the palette for the given variant as a stdlib
// color.Palette, in slot order.
func ColorPalette(v Variant) color.Palette {
	p := make(color.Palette, numColors)
	for i, e := range Palette {
		rgb := e.RGB(v)
		p[i] = color.RGBA{rgb[0], rgb[1], rgb[2], 0xff}
	}
	return p
}
