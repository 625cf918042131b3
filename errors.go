package overlay

import (
	"errors"
	"math"
)

// Precondition errors. Constructors and setters wrap these so callers can
// test with errors.Is.
var (
	ErrInvalidCanvas   = errors.New("invalid canvas context")
	ErrInvalidSize     = errors.New("entity size must be positive after padding")
	ErrInvalidScale    = errors.New("scale must be positive")
	ErrNonFinite       = errors.New("value must be finite")
	ErrInvalidStyle    = errors.New("stroke widths must be finite and non-negative")
	ErrEmptyText       = errors.New("text must not be empty")
	ErrInvalidFontSize = errors.New("font size must be positive")
	ErrModeConflict    = errors.New("entity already holds other content")
	ErrUnknownFont     = errors.New("unknown font family")
	ErrUnknownAsset    = errors.New("unknown asset reference")
)

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
