package overlay

import (
	"fmt"
	"math"
)

// Shape is a plain geometric entity: rectangle, square, circle, triangle or
// any other kind whose hit area is a fixed region of its local frame.
type Shape struct {
	Motion
	hit HitShape
}

// NewShape creates a shape entity of the given kind centered on the canvas.
// Squares use the smaller of the two requested sides. Measurement entities
// are built with NewMeasurement instead.
func NewShape(kind Kind, canvas CanvasContext, opts EntityOptions) (*Shape, error) {
	if kind == KindMeasurement {
		return nil, fmt.Errorf("overlay: NewShape cannot build %s entities", kind)
	}
	if kind == KindSquare {
		side := opts.Width
		if opts.Height > 0 && (side == 0 || opts.Height < side) {
			side = opts.Height
		}
		if side == 0 {
			side = math.Min(float64(canvas.Width), float64(canvas.Height))
		}
		opts.Width, opts.Height = side, side
	}
	m, err := newMotion(kind, canvas, opts)
	if err != nil {
		return nil, err
	}
	s := &Shape{Motion: m}
	s.hit = localHitShape(kind, m.width, m.height)
	return s, nil
}

// localHitShape returns the hit region for kind in a frame centered on the
// origin with the given base size.
func localHitShape(kind Kind, w, h float64) HitShape {
	hw, hh := w*0.5, h*0.5
	switch kind {
	case KindCircle:
		return HitCircle{Radius: math.Min(hw, hh)}
	case KindTriangle:
		return HitPolygon{Points: []Vec2{{0, -hh}, {hw, hh}, {-hw, hh}}}
	default:
		return HitRect{X: -hw, Y: -hh, Width: w, Height: h}
	}
}

// HitShape returns the shape's local hit region.
func (s *Shape) HitShape() HitShape { return s.hit }

// IsPointInEntity reports whether the canvas point p falls inside the shape.
func (s *Shape) IsPointInEntity(p Vec2) bool {
	l := s.CanvasToLocal(p)
	return s.hit.Contains(l.X, l.Y)
}
