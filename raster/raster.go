/*
Package raster implements the geometric and color adjustment stages of
the photo conversion pipeline.

Geometry (orientation and cover scaling) operates on stdlib images so
that decoded photos of any size can be normalized cheaply. Once an
image is at panel size it is converted to a Raster, a dense float64 RGB
buffer; the color stages all run in floating point so that rounding
errors do not compound from stage to stage. No stage mutates its input,
each returns a fresh value.
*/
package raster

import (
	"errors"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// ErrEmpty is returned when a geometric stage is handed an image with a
// zero-sized dimension.
var ErrEmpty = errors.New("raster: empty image")

// Raster is a dense row-major RGB buffer with one float64 per channel.
// Channel values are on the [0,255] scale.
type Raster struct {
	Width, Height int
	Pix           []float64 // Width*Height*3 values
}

// New returns a zeroed raster of the given dimensions.
func New(w, h int) *Raster {
	return &Raster{
		Width:  w,
		Height: h,
		Pix:    make([]float64, w*h*3),
	}
}

// FromImage converts an image into a Raster, dropping any alpha.
func FromImage(img image.Image) *Raster {
	rgba := toRGBA(img)
	b := rgba.Bounds()

	r := New(b.Dx(), b.Dy())
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			s := rgba.PixOffset(b.Min.X+x, b.Min.Y+y)
			i := (y*r.Width + x) * 3
			r.Pix[i+0] = float64(rgba.Pix[s+0])
			r.Pix[i+1] = float64(rgba.Pix[s+1])
			r.Pix[i+2] = float64(rgba.Pix[s+2])
		}
	}
	return r
}

// Image renders the raster back into an 8-bit RGBA image, rounding and
// clamping each channel.
func (r *Raster) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			i := (y*r.Width + x) * 3
			s := img.PixOffset(x, y)
			img.Pix[s+0] = round255(r.Pix[i+0])
			img.Pix[s+1] = round255(r.Pix[i+1])
			img.Pix[s+2] = round255(r.Pix[i+2])
			img.Pix[s+3] = 0xff
		}
	}
	return img
}

func (r *Raster) clone() *Raster {
	out := New(r.Width, r.Height)
	copy(out.Pix, r.Pix)
	return out
}

// Orient rotates portrait images 90 degrees clockwise so that every
// subsequent stage sees a landscape buffer. Landscape and square images
// pass through unchanged.
func Orient(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dy() <= b.Dx() {
		return img
	}

	src := toRGBA(img)
	w, h := b.Dx(), b.Dy()

	// Pixel (x,y) moves to (h-1-y, x) in the rotated image.
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			d := dst.PixOffset(h-1-y, x)
			copy(dst.Pix[d:d+4], src.Pix[s:s+4])
		}
	}
	return dst
}

// CoverScale resizes img so that it completely fills tw by th and
// center-crops the overflow, always returning an image of exactly the
// target dimensions.
func CoverScale(img image.Image, tw, th int) (*image.RGBA, error) {
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return nil, ErrEmpty
	}

	scale := math.Max(float64(tw)/float64(sw), float64(th)/float64(sh))
	scaledW := int(math.Round(float64(sw) * scale))
	scaledH := int(math.Round(float64(sh) * scale))
	if scaledW < tw {
		scaledW = tw
	}
	if scaledH < th {
		scaledH = th
	}

	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, xdraw.Src, nil)

	cropX := (scaledW - tw) / 2
	cropY := (scaledH - th) / 2

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(dst, dst.Bounds(), scaled, image.Pt(cropX, cropY), draw.Src)

	return dst, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}

func round255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
