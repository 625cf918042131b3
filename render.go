package overlay

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandLine   CommandType = iota // stroked segment From -> To
	CommandDisc                      // filled circle at From
	CommandRing                      // stroked circle at From
	CommandImage                     // asset image mapped by Transform onto Size
)

// RenderCommand is a single draw instruction built from an entity. Points
// are in canvas coordinates.
type RenderCommand struct {
	Type     CommandType
	From, To Vec2
	Radius   float64
	Width    float64
	Color    Color

	// Image fields (CommandImage)
	Image     AssetRef
	Transform [6]float64 // maps image-local (0,0)-(Size) to canvas
	Size      Vec2
}

// AppendCommands appends the draw commands for e to buf and returns the
// extended slice. The entity body comes first, the selection border last.
func AppendCommands(buf []RenderCommand, e Entity, cfg RenderConfig) []RenderCommand {
	switch x := e.(type) {
	case *Measurement:
		buf = appendMeasurement(buf, x, cfg)
	case *Shape:
		buf = appendShape(buf, x)
	}
	return appendBorder(buf, e, cfg)
}

// BuildCommands returns the commands for every entity on the canvas,
// bottom to top.
func (c *Canvas) BuildCommands() []RenderCommand {
	var buf []RenderCommand
	for _, e := range c.entities {
		buf = AppendCommands(buf, e, c.cfg.Render)
	}
	return buf
}

func appendMeasurement(buf []RenderCommand, m *Measurement, cfg RenderConfig) []RenderCommand {
	if m.background != NoAsset {
		// Image-local origin at the top-left of the base rectangle.
		offset := [6]float64{1, 0, 0, 1, -m.width * 0.5, -m.height * 0.5}
		buf = append(buf, RenderCommand{
			Type:      CommandImage,
			Image:     m.background,
			Transform: multiplyAffine(m.Transform(), offset),
			Size:      Vec2{m.width, m.height},
		})
	}

	pts := m.Points()
	st := m.style
	for i := 1; i < len(pts); i++ {
		buf = append(buf, RenderCommand{
			Type: CommandLine, From: pts[i-1], To: pts[i],
			Width: st.StrokeWidth, Color: st.StrokeColor,
		})
	}
	for i, p := range pts {
		endpoint := i == 0 || i == len(pts)-1
		if endpoint && m.endpoint != NoAsset {
			r := cfg.MarkerRingRadius
			buf = append(buf, RenderCommand{
				Type:      CommandImage,
				Image:     m.endpoint,
				Transform: [6]float64{1, 0, 0, 1, p.X - r, p.Y - r},
				Size:      Vec2{2 * r, 2 * r},
			})
			continue
		}
		buf = append(buf,
			RenderCommand{Type: CommandDisc, From: p, Radius: cfg.MarkerRadius, Color: st.StrokeColor},
			RenderCommand{Type: CommandRing, From: p, Radius: cfg.MarkerRingRadius, Width: cfg.MarkerRingWidth, Color: st.StrokeColor},
		)
	}
	return buf
}

func appendShape(buf []RenderCommand, s *Shape) []RenderCommand {
	st := s.style
	switch h := s.hit.(type) {
	case HitCircle:
		return append(buf, RenderCommand{
			Type: CommandRing, From: s.center, Radius: h.Radius * s.scale,
			Width: st.StrokeWidth, Color: st.StrokeColor,
		})
	case HitPolygon:
		pts := make([]Vec2, len(h.Points))
		for i, p := range h.Points {
			pts[i] = s.LocalToCanvas(p)
		}
		return appendClosed(buf, pts, st.StrokeWidth, st.StrokeColor)
	default:
		c := s.Corners()
		return appendClosed(buf, c[:], st.StrokeWidth, st.StrokeColor)
	}
}

func appendClosed(buf []RenderCommand, pts []Vec2, width float64, clr Color) []RenderCommand {
	for i := range pts {
		buf = append(buf, RenderCommand{
			Type: CommandLine, From: pts[i], To: pts[(i+1)%len(pts)],
			Width: width, Color: clr,
		})
	}
	return buf
}

// appendBorder strokes the transformed rectangle of a selected entity.
// Transparent borders and BorderNone draw nothing.
func appendBorder(buf []RenderCommand, e Entity, cfg RenderConfig) []RenderCommand {
	st := e.Style()
	if !e.Selected() || st.BorderStyle == BorderNone || st.BorderColor.A == 0 {
		return buf
	}
	c := e.Corners()
	if st.BorderStyle == BorderSolid || cfg.DashLength <= 0 {
		return appendClosed(buf, c[:], st.BorderStrokeWidth, st.BorderColor)
	}
	for i := range c {
		buf = appendDashed(buf, c[i], c[(i+1)%len(c)], cfg.DashLength, st.BorderStrokeWidth, st.BorderColor)
	}
	return buf
}

// appendDashed splits a->b into alternating on/off runs of length dash,
// starting with an "on" run.
func appendDashed(buf []RenderCommand, a, b Vec2, dash, width float64, clr Color) []RenderCommand {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return buf
	}
	ux, uy := dx/length, dy/length
	for t := 0.0; t < length; t += 2 * dash {
		end := math.Min(t+dash, length)
		buf = append(buf, RenderCommand{
			Type:  CommandLine,
			From:  Vec2{a.X + ux*t, a.Y + uy*t},
			To:    Vec2{a.X + ux*end, a.Y + uy*end},
			Width: width,
			Color: clr,
		})
	}
	return buf
}

// DrawCommands submits cmds to dst. view maps canvas coordinates to dst
// pixels; pass the identity {1, 0, 0, 1, 0, 0} when they coincide. Image
// commands whose asset cannot be resolved are skipped.
func DrawCommands(dst *ebiten.Image, cmds []RenderCommand, assets *AssetTable, view [6]float64) {
	// Uniform view scale, used for widths and radii.
	vs := math.Sqrt(math.Abs(view[0]*view[3] - view[2]*view[1]))
	for i := range cmds {
		cmd := &cmds[i]
		switch cmd.Type {
		case CommandLine:
			x0, y0 := transformPoint(view, cmd.From.X, cmd.From.Y)
			x1, y1 := transformPoint(view, cmd.To.X, cmd.To.Y)
			vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1),
				float32(cmd.Width*vs), cmd.Color.toRGBA(), true)
		case CommandDisc:
			x, y := transformPoint(view, cmd.From.X, cmd.From.Y)
			vector.DrawFilledCircle(dst, float32(x), float32(y), float32(cmd.Radius*vs), cmd.Color.toRGBA(), true)
		case CommandRing:
			x, y := transformPoint(view, cmd.From.X, cmd.From.Y)
			vector.StrokeCircle(dst, float32(x), float32(y), float32(cmd.Radius*vs),
				float32(cmd.Width*vs), cmd.Color.toRGBA(), true)
		case CommandImage:
			if assets == nil {
				continue
			}
			img, ok := assets.Image(cmd.Image)
			if !ok {
				continue
			}
			b := img.Bounds()
			if b.Dx() == 0 || b.Dy() == 0 {
				continue
			}
			m := multiplyAffine(view, cmd.Transform)
			var op ebiten.DrawImageOptions
			op.GeoM.Scale(cmd.Size.X/float64(b.Dx()), cmd.Size.Y/float64(b.Dy()))
			var g ebiten.GeoM
			g.SetElement(0, 0, m[0])
			g.SetElement(0, 1, m[2])
			g.SetElement(0, 2, m[4])
			g.SetElement(1, 0, m[1])
			g.SetElement(1, 1, m[3])
			g.SetElement(1, 2, m[5])
			op.GeoM.Concat(g)
			op.Filter = ebiten.FilterLinear
			dst.DrawImage(img, &op)
		}
	}
}

// ViewTransform returns the matrix mapping canvas pixels to screen points
// for ctx, suitable for DrawCommands on a screen-sized image.
func ViewTransform(ctx CanvasContext) [6]float64 {
	s := 1 / ctx.ScreenScale
	return [6]float64{s, 0, 0, s, 0, 0}
}
