package raster

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomTestRaster(w, h int, seed int64) *Raster {
	rng := rand.New(rand.NewSource(seed))
	r := New(w, h)
	for i := range r.Pix {
		r.Pix[i] = float64(rng.Intn(256))
	}
	return r
}

func TestAdjustSaturationIdentity(t *testing.T) {
	r := randomTestRaster(64, 48, 1)

	out := r.AdjustSaturation(1.0)
	assert.Equal(t, r.Pix, out.Pix)

	// The copy must not share its buffer with the input.
	out.Pix[0] = r.Pix[0] + 1
	assert.NotEqual(t, r.Pix[0], out.Pix[0])
}

func TestAdjustSaturationGrayUnchanged(t *testing.T) {
	r := New(8, 8)
	for i := range r.Pix {
		r.Pix[i] = 100
	}

	for _, mult := range []float64{0, 0.5, 1.3, 3} {
		out := r.AdjustSaturation(mult)
		for _, v := range out.Pix {
			require.InDelta(t, 100, v, 1e-9, "multiplier %v", mult)
		}
	}
}

func TestAdjustSaturationPreservesHueAndLightness(t *testing.T) {
	r := New(1, 1)
	r.Pix[0], r.Pix[1], r.Pix[2] = 200, 100, 100

	h0, s0, l0 := rgbToHSL(200.0/255, 100.0/255, 100.0/255)

	out := r.AdjustSaturation(1.5)
	h1, s1, l1 := rgbToHSL(out.Pix[0]/255, out.Pix[1]/255, out.Pix[2]/255)

	assert.InDelta(t, h0, h1, 1e-9)
	assert.InDelta(t, l0, l1, 1e-9)
	assert.InDelta(t, s0*1.5, s1, 1e-9)
}

func TestAdjustSaturationDesaturate(t *testing.T) {
	r := New(1, 1)
	r.Pix[0], r.Pix[1], r.Pix[2] = 30, 180, 90

	out := r.AdjustSaturation(0)
	assert.InDelta(t, out.Pix[0], out.Pix[1], 1e-9)
	assert.InDelta(t, out.Pix[1], out.Pix[2], 1e-9)
}

func TestAdjustSaturationClamps(t *testing.T) {
	r := New(1, 1)
	r.Pix[0], r.Pix[1], r.Pix[2] = 200, 100, 100

	out := r.AdjustSaturation(100)
	_, s, _ := rgbToHSL(out.Pix[0]/255, out.Pix[1]/255, out.Pix[2]/255)
	assert.LessOrEqual(t, s, 1.0)
	for _, v := range out.Pix {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 255.0)
	}
}

func TestHSLRoundTrip(t *testing.T) {
	tests := [][3]float64{
		{0, 0, 0},
		{1, 1, 1},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0.5, 0.5, 0.5},
		{0.8, 0.4, 0.1},
		{0.1, 0.7, 0.3},
	}

	for _, tt := range tests {
		h, s, l := rgbToHSL(tt[0], tt[1], tt[2])
		r, g, b := hslToRGB(h, s, l)
		assert.InDelta(t, tt[0], r, 1e-9)
		assert.InDelta(t, tt[1], g, 1e-9)
		assert.InDelta(t, tt[2], b, 1e-9)
	}
}
