package photoframe_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epdphoto/photoframe"
	"github.com/epdphoto/photoframe/epd"
)

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func decodeBitmap(t *testing.T, path string) *image.Paletted {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	m, err := epd.Decode(f)
	require.NoError(t, err)
	return m.(*image.Paletted)
}

func TestConvertSolidWhite(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "white.png")
	writePNG(t, input, 1000, 600, color.RGBA{0xff, 0xff, 0xff, 0xff})

	p := photoframe.DefaultParams()
	p.OutputDir = dir

	pf := photoframe.New(nil, nil)
	res, err := pf.Convert(input, p)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "white.bmp"), res.Bitmap)
	assert.Equal(t, filepath.Join(dir, "white.jpg"), res.Thumbnail)

	m := decodeBitmap(t, res.Bitmap)
	assert.Equal(t, epd.DisplayWidth, m.Bounds().Dx())
	assert.Equal(t, epd.DisplayHeight, m.Bounds().Dy())
	for _, idx := range m.Pix {
		require.Equal(t, uint8(1), idx, "pure white must dither to the white slot")
	}

	tf, err := os.Open(res.Thumbnail)
	require.NoError(t, err)
	defer tf.Close()
	cfg, format, err := image.DecodeConfig(tf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 160, cfg.Width)
	assert.Equal(t, 96, cfg.Height)
}

func TestConvertSolidBlackStock(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "black.png")
	writePNG(t, input, 800, 480, color.RGBA{0, 0, 0, 0xff})

	p := photoframe.DefaultParams()
	p.OutputDir = dir
	p.Mode = photoframe.ModeStock
	p.Thumbnail = false

	pf := photoframe.New(nil, nil)
	res, err := pf.Convert(input, p)
	require.NoError(t, err)
	assert.Empty(t, res.Thumbnail)

	for _, idx := range decodeBitmap(t, res.Bitmap).Pix {
		require.Equal(t, uint8(0), idx, "pure black must dither to the black slot")
	}

	_, err = os.Stat(filepath.Join(dir, "black.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertPortrait(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "portrait.png")
	writePNG(t, input, 600, 1000, color.RGBA{0xff, 0xff, 0xff, 0xff})

	p := photoframe.DefaultParams()
	p.OutputDir = dir
	p.Thumbnail = false

	pf := photoframe.New(nil, nil)
	res, err := pf.Convert(input, p)
	require.NoError(t, err)

	m := decodeBitmap(t, res.Bitmap)
	assert.Equal(t, epd.DisplayWidth, m.Bounds().Dx())
	assert.Equal(t, epd.DisplayHeight, m.Bounds().Dy())
}

func TestConvertMeasuredColorTable(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.png")
	writePNG(t, input, 800, 480, color.RGBA{0x80, 0x80, 0x80, 0xff})

	p := photoframe.DefaultParams()
	p.OutputDir = dir
	p.Thumbnail = false

	pf := photoframe.New(nil, nil)
	resT, err := pf.Convert(input, p)
	require.NoError(t, err)

	p.Palette = epd.Measured
	p.Suffix = "_preview"
	resM, err := pf.Convert(input, p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "photo_preview.bmp"), resM.Bitmap)

	tableOf := func(path string) color.Palette {
		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		cfg, err := epd.DecodeConfig(f)
		require.NoError(t, err)
		return cfg.ColorModel.(color.Palette)
	}

	assert.NotEqual(t, tableOf(resT.Bitmap), tableOf(resM.Bitmap))
	assert.Equal(t, epd.ColorPalette(epd.Measured), tableOf(resM.Bitmap)[:7])
}

func TestConvertInvalidParameter(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "photo.png")
	writePNG(t, input, 100, 100, color.RGBA{0xff, 0, 0, 0xff})

	p := photoframe.DefaultParams()
	p.OutputDir = dir
	p.Strength = 2

	pf := photoframe.New(nil, nil)
	_, err := pf.Convert(input, p)
	assert.ErrorIs(t, err, photoframe.ErrInvalidParameter)

	// No partial output may be left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "photo.png", entries[0].Name())
}

func TestConvertMissingInput(t *testing.T) {
	pf := photoframe.New(nil, nil)
	_, err := pf.Convert(filepath.Join(t.TempDir(), "nope.png"), photoframe.DefaultParams())
	assert.Error(t, err)
}

func TestConvertCorruptInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "garbage.jpg")
	require.NoError(t, os.WriteFile(input, []byte("not an image"), 0o644))

	p := photoframe.DefaultParams()
	p.OutputDir = dir

	pf := photoframe.New(nil, nil)
	_, err := pf.Convert(input, p)
	assert.ErrorIs(t, err, photoframe.ErrDecode)
}

func TestConvertDir(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()

	writePNG(t, filepath.Join(src, "white.png"), 400, 240, color.RGBA{0xff, 0xff, 0xff, 0xff})
	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested"), 0o755))
	writePNG(t, filepath.Join(src, "nested", "black.png"), 400, 240, color.RGBA{0, 0, 0, 0xff})
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip me"), 0o644))

	p := photoframe.DefaultParams()
	p.OutputDir = out

	pf := photoframe.New(nil, nil)
	require.NoError(t, pf.ConvertDir(src, p))

	for _, name := range []string{"white.bmp", "white.jpg", "black.bmp", "black.jpg"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}
