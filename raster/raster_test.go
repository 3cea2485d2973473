package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), uint8((x + y) % 256), 0xff})
		}
	}
	return img
}

func TestOrientPortrait(t *testing.T) {
	src := gradient(2, 3)

	dst := Orient(src)
	b := dst.Bounds()
	require.Equal(t, 3, b.Dx())
	require.Equal(t, 2, b.Dy())

	// Pixel (x,y) must land at (h-1-y, x).
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, src.At(x, y), dst.At(3-1-y, x), "source pixel (%d,%d)", x, y)
		}
	}
}

func TestOrientLandscape(t *testing.T) {
	src := gradient(3, 2)
	assert.Equal(t, image.Image(src), Orient(src))
}

func TestOrientSquare(t *testing.T) {
	src := gradient(2, 2)
	assert.Equal(t, image.Image(src), Orient(src))
}

func TestCoverScaleDimensions(t *testing.T) {
	tests := []struct {
		srcW, srcH int
	}{
		{4000, 3000},
		{2000, 1000},
		{800, 480},
		{801, 481},
		{640, 480},
		{3000, 400},
		{10, 10},
	}

	for _, tt := range tests {
		dst, err := CoverScale(gradient(tt.srcW, tt.srcH), 800, 480)
		require.NoError(t, err)
		assert.Equal(t, 800, dst.Bounds().Dx(), "%dx%d", tt.srcW, tt.srcH)
		assert.Equal(t, 480, dst.Bounds().Dy(), "%dx%d", tt.srcW, tt.srcH)
	}
}

func TestCoverScaleEmpty(t *testing.T) {
	_, err := CoverScale(image.NewRGBA(image.Rect(0, 0, 0, 0)), 800, 480)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCoverScaleSolid(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}

	dst, err := CoverScale(src, 80, 48)
	require.NoError(t, err)
	for _, p := range dst.Pix {
		require.Equal(t, uint8(0xff), p)
	}
}

func TestFromImageRoundTrip(t *testing.T) {
	src := gradient(16, 8)

	r := FromImage(src)
	require.Equal(t, 16, r.Width)
	require.Equal(t, 8, r.Height)
	require.Len(t, r.Pix, 16*8*3)

	assert.Equal(t, src.Pix, r.Image().Pix)
}
