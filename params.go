package photoframe

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/epdphoto/photoframe/epd"
)

// ErrInvalidParameter is returned when a processing parameter falls
// outside its documented range.
var ErrInvalidParameter = errors.New("photoframe: invalid parameter")

// Mode selects which adjustment stages run before dithering.
type Mode string

const (
	// ModeEnhanced applies saturation adjustment and the tone curve.
	ModeEnhanced Mode = "enhanced"
	// ModeStock dithers the scaled photo as-is.
	ModeStock Mode = "stock"
)

// ParseMode converts a user supplied mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeEnhanced, ModeStock:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidParameter, s)
}

// Params holds every knob of one conversion run. A value is validated
// once before any pixel work starts and never mutated afterwards.
type Params struct {
	// Strength is the overall contrast of the tone curve, 0 disables it.
	Strength float64 `validate:"min=0,max=1"`
	// ShadowBoost lifts values below the tone curve midpoint.
	ShadowBoost float64 `validate:"min=0,max=1"`
	// HighlightCompress pushes values above the midpoint toward white.
	HighlightCompress float64 `validate:"min=0.5,max=3"`
	// Midpoint is the intensity the tone curve maps to itself.
	Midpoint float64 `validate:"min=0.3,max=0.7"`
	// Saturation multiplies HSL saturation; 1 leaves colors alone.
	Saturation float64 `validate:"min=0,max=3"`

	Mode    Mode        `validate:"oneof=enhanced stock"`
	Palette epd.Variant `validate:"oneof=theoretical measured"`

	// OutputDir receives the bitmap and thumbnail files.
	OutputDir string
	// Suffix is appended to the input stem when naming output files.
	Suffix string
	// Thumbnail controls whether the JPEG preview is written.
	Thumbnail bool
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		Strength:          0.9,
		ShadowBoost:       0.0,
		HighlightCompress: 1.6,
		Midpoint:          0.5,
		Saturation:        1.3,
		Mode:              ModeEnhanced,
		Palette:           epd.Theoretical,
		OutputDir:         ".",
		Thumbnail:         true,
	}
}

var validate = validator.New()

// Validate range-checks every parameter, reporting the first offending
// field and value.
func (p Params) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Errorf("%w: %s=%v outside documented range", ErrInvalidParameter, verrs[0].Field(), verrs[0].Value())
	}
	return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
}
