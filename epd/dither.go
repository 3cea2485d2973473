package epd

import (
	"errors"

	"github.com/epdphoto/photoframe/raster"
)

var errBadRaster = errors.New("epd: raster buffer does not match its dimensions")

// QuantizedRaster holds one palette index per pixel, row-major from the
// top-left corner. Every index refers to a slot of Palette.
type QuantizedRaster struct {
	Width, Height int
	Index         []uint8
}

// Dither quantizes r against the panel palette using Floyd-Steinberg
// error diffusion and returns the resulting index raster.
//
// Pixels are visited row-major, left to right and top to bottom. The
// accumulated error is added to each pixel and the sum clamped to
// [0,255] before both the nearest-color search and the error
// calculation; the quantization error of the clamped value is then
// diffused to the unvisited neighbors with the classic 7/16, 3/16,
// 5/16, 1/16 weights, dropping any share that falls outside the image.
// Ties in the nearest-color search go to the lowest slot and reserved
// slots are never selected.
func Dither(r *raster.Raster, v Variant) (*QuantizedRaster, error) {
	w, h := r.Width, r.Height
	if len(r.Pix) != w*h*3 {
		return nil, errBadRaster
	}

	var pal [numColors][3]float64
	for i, e := range Palette {
		rgb := e.RGB(v)
		pal[i] = [3]float64{float64(rgb[0]), float64(rgb[1]), float64(rgb[2])}
	}

	q := &QuantizedRaster{
		Width:  w,
		Height: h,
		Index:  make([]uint8, w*h),
	}

	// Diffused error accumulator, local to this one conversion.
	errs := make([]float64, w*h*3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3

			old := [3]float64{
				clamp255(r.Pix[i+0] + errs[i+0]),
				clamp255(r.Pix[i+1] + errs[i+1]),
				clamp255(r.Pix[i+2] + errs[i+2]),
			}

			idx := nearest(old, &pal)
			q.Index[y*w+x] = idx

			var qerr [3]float64
			for c := 0; c < 3; c++ {
				qerr[c] = old[c] - pal[idx][c]
			}

			if x+1 < w {
				diffuse(errs, i+3, qerr, 7.0/16)
			}
			if y+1 < h {
				if x > 0 {
					diffuse(errs, i+(w-1)*3, qerr, 3.0/16)
				}
				diffuse(errs, i+w*3, qerr, 5.0/16)
				if x+1 < w {
					diffuse(errs, i+(w+1)*3, qerr, 1.0/16)
				}
			}
		}
	}

	return q, nil
}

// nearest returns the slot of the palette color with the smallest
// squared Euclidean RGB distance to p, skipping reserved slots. A
// strict comparison keeps the lowest slot on ties.
func nearest(p [3]float64, pal *[numColors][3]float64) uint8 {
	best := uint8(1)
	bestDist := -1.0
	for i := 0; i < numColors; i++ {
		if Palette[i].Reserved {
			continue
		}
		dr := p[0] - pal[i][0]
		dg := p[1] - pal[i][1]
		db := p[2] - pal[i][2]
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best, bestDist = uint8(i), dist
		}
	}
	return best
}

func diffuse(errs []float64, i int, qerr [3]float64, weight float64) {
	errs[i+0] += qerr[0] * weight
	errs[i+1] += qerr[1] * weight
	errs[i+2] += qerr[2] * weight
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
