package overlay

import (
	"fmt"
	"math"
)

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeEntityTransform computes the affine matrix mapping an entity's local
// frame (origin at its center, unscaled) to canvas coordinates.
// Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Scale -> Rotate -> Translate(center)
func computeEntityTransform(center Vec2, rotation, scale float64) [6]float64 {
	sin, cos := math.Sincos(rotation)
	return [6]float64{
		cos * scale, sin * scale,
		-sin * scale, cos * scale,
		center.X, center.Y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// --- Transform property setters ---

// SetCenter moves the entity so its center sits at (x, y).
func (m *Motion) SetCenter(x, y float64) error {
	if !finite(x, y) {
		return fmt.Errorf("overlay: center (%v, %v): %w", x, y, ErrNonFinite)
	}
	m.center = Vec2{x, y}
	return nil
}

// Translate moves the entity center by (dx, dy).
func (m *Motion) Translate(dx, dy float64) error {
	return m.SetCenter(m.center.X+dx, m.center.Y+dy)
}

// MoveToCanvasCenter moves the entity back to the center of its canvas.
func (m *Motion) MoveToCanvasCenter() {
	m.center = m.canvas.Center()
}

// SetRotation sets the rotation in radians. The angle is stored as given.
func (m *Motion) SetRotation(r float64) error {
	if !finite(r) {
		return fmt.Errorf("overlay: rotation %v: %w", r, ErrNonFinite)
	}
	m.rotation = r
	return nil
}

// SetScale sets the uniform scale factor. Factors that are not strictly
// positive are rejected and leave the scale unchanged.
func (m *Motion) SetScale(f float64) error {
	if !finite(f) {
		return fmt.Errorf("overlay: scale %v: %w", f, ErrNonFinite)
	}
	if f <= 0 {
		return fmt.Errorf("overlay: scale %v: %w", f, ErrInvalidScale)
	}
	m.scale = f
	return nil
}

// --- Derived geometry ---

// Transform returns the matrix mapping the local frame to canvas coordinates.
// It is recomputed from center, rotation and scale on every call.
func (m *Motion) Transform() [6]float64 {
	return computeEntityTransform(m.center, m.rotation, m.scale)
}

// Corners returns the corners of the transformed entity rectangle in canvas
// coordinates, starting at the local top-left corner and going clockwise.
func (m *Motion) Corners() [4]Vec2 {
	hw := m.width * m.scale * 0.5
	hh := m.height * m.scale * 0.5
	sin, cos := math.Sincos(m.rotation)
	local := [4]Vec2{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	var out [4]Vec2
	for i, p := range local {
		out[i] = Vec2{
			X: p.X*cos - p.Y*sin + m.center.X,
			Y: p.X*sin + p.Y*cos + m.center.Y,
		}
	}
	return out
}

// Bounds returns the axis-aligned bounding box of Corners.
func (m *Motion) Bounds() Rect {
	c := m.Corners()
	return boundingRect(c[:])
}

// boundingRect returns the smallest axis-aligned rect holding every point.
// pts must not be empty.
func boundingRect(pts []Vec2) Rect {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// containsTransformed reports whether p lies inside the transformed entity
// rectangle, edges included. p is moved into the entity frame by undoing the
// translation and then the rotation, and compared against the scaled extents.
func (m *Motion) containsTransformed(p Vec2) bool {
	dx := p.X - m.center.X
	dy := p.Y - m.center.Y
	sin, cos := math.Sincos(-m.rotation)
	lx := dx*cos - dy*sin
	ly := dx*sin + dy*cos
	hw := m.width * m.scale * 0.5
	hh := m.height * m.scale * 0.5
	return lx >= -hw && lx <= hw && ly >= -hh && ly <= hh
}

// --- Coordinate conversion ---

// CanvasToLocal converts a canvas point to the entity's unscaled local frame.
func (m *Motion) CanvasToLocal(p Vec2) Vec2 {
	inv := invertAffine(m.Transform())
	x, y := transformPoint(inv, p.X, p.Y)
	return Vec2{x, y}
}

// LocalToCanvas converts a point in the entity's local frame to canvas space.
func (m *Motion) LocalToCanvas(p Vec2) Vec2 {
	x, y := transformPoint(m.Transform(), p.X, p.Y)
	return Vec2{x, y}
}
