package raster

import "math"

// AdjustSaturation scales the saturation of every pixel by mult in HSL
// space, leaving hue and lightness untouched. A multiplier of 1 returns
// an unchanged copy; values above 1 increase vibrancy, below 1
// desaturate.
func (r *Raster) AdjustSaturation(mult float64) *Raster {
	if mult == 1 {
		return r.clone()
	}

	out := New(r.Width, r.Height)
	for i := 0; i < len(r.Pix); i += 3 {
		h, s, l := rgbToHSL(r.Pix[i]/255, r.Pix[i+1]/255, r.Pix[i+2]/255)

		s *= mult
		if s < 0 {
			s = 0
		} else if s > 1 {
			s = 1
		}

		red, green, blue := hslToRGB(h, s, l)
		out.Pix[i+0] = clampChannel(red * 255)
		out.Pix[i+1] = clampChannel(green * 255)
		out.Pix[i+2] = clampChannel(blue * 255)
	}
	return out
}

// rgbToHSL converts normalized RGB to hue [0,1), saturation [0,1] and
// lightness [0,1].
func rgbToHSL(r, g, b float64) (h, s, l float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	if max == min {
		return 0, 0, l // achromatic
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h /= 6

	return h, s, l
}

func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r = hueToChannel(p, q, h+1.0/3)
	g = hueToChannel(p, q, h)
	b = hueToChannel(p, q, h-1.0/3)
	return r, g, b
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func clampChannel(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
