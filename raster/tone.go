package raster

import "math"

// Curve is a parametric S-curve applied to each channel before
// quantization. It is built from two power-law branches that meet at
// the midpoint, so f(0)=0, f(1)=1 and f(m)=m hold for every parameter
// combination and the curve is monotonic over the whole [0,1] domain.
type Curve struct {
	// Midpoint is the intensity mapped to itself, in (0,1).
	Midpoint float64
	// Strength scales the overall curvature; 0 is the identity.
	Strength float64
	// ShadowBoost lifts values below the midpoint independently of
	// Strength.
	ShadowBoost float64
	// HighlightCompress scales how hard values above the midpoint are
	// pushed toward 1.
	HighlightCompress float64
}

// Apply maps a normalized intensity through the curve.
func (c Curve) Apply(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	m := c.Midpoint
	if x <= m {
		// Shadow branch: exponent above 1 deepens shadows, the boost
		// divides it back down to lift them.
		gamma := (1 + c.Strength) / (1 + c.ShadowBoost)
		return m * math.Pow(x/m, gamma)
	}

	// Highlight branch, mirrored around the midpoint.
	gamma := 1 + c.Strength*c.HighlightCompress
	return 1 - (1-m)*math.Pow((1-x)/(1-m), gamma)
}

// MapTones applies the curve to every channel of the raster.
func (r *Raster) MapTones(c Curve) *Raster {
	out := New(r.Width, r.Height)
	for i, v := range r.Pix {
		out.Pix[i] = c.Apply(v/255) * 255
	}
	return out
}
