package overlay

import "fmt"

// CanvasContext is the fixed frame an entity is placed on. Width and Height
// are in canvas pixels; ScreenScale is the device-pixel ratio between screen
// points and canvas pixels. The context is copied into every entity and never
// changes afterwards.
type CanvasContext struct {
	Width, Height    int
	CenterX, CenterY float64
	ScreenScale      float64
	BorderPadding    float64
}

// NewCanvasContext returns a context centered on the canvas.
func NewCanvasContext(width, height int, screenScale, borderPadding float64) CanvasContext {
	return CanvasContext{
		Width:         width,
		Height:        height,
		CenterX:       float64(width) * 0.5,
		CenterY:       float64(height) * 0.5,
		ScreenScale:   screenScale,
		BorderPadding: borderPadding,
	}
}

// Validate reports whether the context can anchor an entity.
func (c CanvasContext) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("overlay: canvas %dx%d: %w", c.Width, c.Height, ErrInvalidCanvas)
	case !finite(c.CenterX, c.CenterY, c.ScreenScale, c.BorderPadding):
		return fmt.Errorf("overlay: canvas parameters: %w", ErrNonFinite)
	case c.ScreenScale <= 0:
		return fmt.Errorf("overlay: screen scale %v: %w", c.ScreenScale, ErrInvalidCanvas)
	case c.BorderPadding < 0:
		return fmt.Errorf("overlay: border padding %v: %w", c.BorderPadding, ErrInvalidCanvas)
	}
	return nil
}

// Center returns the canvas center point.
func (c CanvasContext) Center() Vec2 {
	return Vec2{c.CenterX, c.CenterY}
}

// Bounds returns the canvas rectangle.
func (c CanvasContext) Bounds() Rect {
	return Rect{Width: float64(c.Width), Height: float64(c.Height)}
}

// ScreenToCanvas converts a point in screen points to canvas pixels.
func (c CanvasContext) ScreenToCanvas(p Vec2) Vec2 {
	return Vec2{p.X * c.ScreenScale, p.Y * c.ScreenScale}
}

// CanvasToScreen converts a point in canvas pixels to screen points.
func (c CanvasContext) CanvasToScreen(p Vec2) Vec2 {
	return Vec2{p.X / c.ScreenScale, p.Y / c.ScreenScale}
}
