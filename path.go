package overlay

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

func toR2(v Vec2) r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// segmentDistance returns the distance from p to the closed segment ab.
func segmentDistance(p, a, b Vec2) float64 {
	ap := r2.Sub(toR2(p), toR2(a))
	ab := r2.Sub(toR2(b), toR2(a))
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return r2.Norm(ap)
	}
	t := r2.Dot(ap, ab) / l2
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(toR2(a), r2.Scale(t, ab))
	return r2.Norm(r2.Sub(toR2(p), closest))
}

// polylineDistance returns the distance from p to the nearest point of the
// open path through pts. An empty path is infinitely far away.
func polylineDistance(p Vec2, pts []Vec2) float64 {
	switch len(pts) {
	case 0:
		return math.Inf(1)
	case 1:
		return r2.Norm(r2.Sub(toR2(p), toR2(pts[0])))
	}
	best := math.Inf(1)
	for i := 1; i < len(pts); i++ {
		best = math.Min(best, segmentDistance(p, pts[i-1], pts[i]))
	}
	return best
}

// polylineLength returns the summed length of the path segments.
func polylineLength(pts []Vec2) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += r2.Norm(r2.Sub(toR2(pts[i]), toR2(pts[i-1])))
	}
	return total
}

// vertexAngle returns the unsigned angle in [0, π] at vertex at between the
// rays towards prev and next. Degenerate rays give 0.
func vertexAngle(prev, at, next Vec2) float64 {
	u := r2.Sub(toR2(prev), toR2(at))
	v := r2.Sub(toR2(next), toR2(at))
	if r2.Norm2(u) == 0 || r2.Norm2(v) == 0 {
		return 0
	}
	return math.Atan2(math.Abs(r2.Cross(u, v)), r2.Dot(u, v))
}
