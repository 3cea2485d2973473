package photoframe

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/epdphoto/photoframe/epd"
	"github.com/epdphoto/photoframe/raster"
)

// ErrDecode is returned when the input file cannot be decoded as an
// image.
var ErrDecode = errors.New("photoframe: cannot decode input")

const (
	thumbWidth   = 160
	thumbHeight  = 96
	thumbQuality = 85
)

// Result names the files written by one conversion.
type Result struct {
	Bitmap    string
	Thumbnail string
}

// Convert runs the full pipeline on one photo: decode, orient, cover
// scale to panel size, optionally adjust saturation and tone, dither
// against the panel palette and write the indexed bitmap plus an
// optional JPEG thumbnail of the pre-dither raster. Output files are
// written to a temporary name and renamed into place so a failed run
// never leaves a partial file behind.
func (pf *PhotoFrame) Convert(input string, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, input, err)
	}
	pf.logger.Debug("decoded", "input", input, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	img = raster.Orient(img)

	screen, err := raster.CoverScale(img, epd.DisplayWidth, epd.DisplayHeight)
	if err != nil {
		return nil, fmt.Errorf("cover scale: %w", err)
	}
	pf.logger.Debug("scaled", "width", epd.DisplayWidth, "height", epd.DisplayHeight)

	rast := raster.FromImage(screen)
	if p.Mode == ModeEnhanced {
		rast = rast.AdjustSaturation(p.Saturation)
		rast = rast.MapTones(raster.Curve{
			Midpoint:          p.Midpoint,
			Strength:          p.Strength,
			ShadowBoost:       p.ShadowBoost,
			HighlightCompress: p.HighlightCompress,
		})
		pf.logger.Debug("adjusted", "saturation", p.Saturation,
			"strength", p.Strength, "midpoint", p.Midpoint)
	}

	q, err := epd.Dither(rast, p.Palette)
	if err != nil {
		return nil, fmt.Errorf("dither: %w", err)
	}
	pf.logger.Debug("dithered", "palette", p.Palette)

	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	res := &Result{
		Bitmap: filepath.Join(p.OutputDir, stem+p.Suffix+".bmp"),
	}
	if err := writeAtomic(res.Bitmap, func(w io.Writer) error {
		return epd.Encode(w, q, p.Palette)
	}); err != nil {
		return nil, fmt.Errorf("write bitmap: %w", err)
	}
	pf.logger.Debug("wrote bitmap", "path", res.Bitmap)

	if p.Thumbnail {
		thumb, err := raster.CoverScale(screen, thumbWidth, thumbHeight)
		if err != nil {
			return nil, fmt.Errorf("thumbnail scale: %w", err)
		}

		res.Thumbnail = filepath.Join(p.OutputDir, stem+p.Suffix+".jpg")
		if err := writeAtomic(res.Thumbnail, func(w io.Writer) error {
			return jpeg.Encode(w, thumb, &jpeg.Options{Quality: thumbQuality})
		}); err != nil {
			return nil, fmt.Errorf("write thumbnail: %w", err)
		}
		pf.logger.Debug("wrote thumbnail", "path", res.Thumbnail)
	}

	return res, nil
}

// writeAtomic encodes into a temporary file next to path and renames it
// into place only once the encoder has finished without error.
func writeAtomic(path string, encode func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	if err := encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
