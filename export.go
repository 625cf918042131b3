package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// DefaultExportDir is where queued exports are written unless changed with
// SetExportDir.
const DefaultExportDir = "exports"

// SetExportDir sets the directory FlushExports writes into.
func (c *Canvas) SetExportDir(dir string) { c.exportDir = dir }

// QueueExport queues a labeled PNG export of the next frame passed to
// FlushExports. Safe to call from Update or Draw.
func (c *Canvas) QueueExport(label string) {
	c.exportQueue = append(c.exportQueue, label)
}

// PendingExports returns the number of queued exports.
func (c *Canvas) PendingExports() int { return len(c.exportQueue) }

// Rasterize draws base (which may be nil) and every entity onto a new
// offscreen image at full canvas resolution, giving the annotated image.
func (c *Canvas) Rasterize(base *ebiten.Image, assets *AssetTable) *ebiten.Image {
	img := ebiten.NewImage(c.ctx.Width, c.ctx.Height)
	if base != nil {
		b := base.Bounds()
		var op ebiten.DrawImageOptions
		if b.Dx() > 0 && b.Dy() > 0 {
			op.GeoM.Scale(float64(c.ctx.Width)/float64(b.Dx()), float64(c.ctx.Height)/float64(b.Dy()))
		}
		op.Filter = ebiten.FilterLinear
		img.DrawImage(base, &op)
	}
	DrawCommands(img, c.BuildCommands(), assets, identityTransform)
	return img
}

// FlushExports writes frame as a PNG for every queued label and clears the
// queue. Files are named <timestamp>_<label>.png inside the export
// directory. It returns the written paths and the first error.
func (c *Canvas) FlushExports(frame *ebiten.Image) ([]string, error) {
	if len(c.exportQueue) == 0 {
		return nil, nil
	}
	defer func() { c.exportQueue = c.exportQueue[:0] }()

	dir := c.exportDir
	if dir == "" {
		dir = DefaultExportDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("overlay: export: mkdir %s: %w", dir, err)
	}

	b := frame.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	frame.ReadPixels(pixels)
	img := unpremultiply(pixels, b.Dx(), b.Dy())

	stamp := time.Now().Format("20060102_150405")
	var paths []string
	var errs []error
	for _, label := range c.exportQueue {
		path := filepath.Join(dir, exportName(stamp, label))
		if err := writePNG(path, img); err != nil {
			errs = append(errs, err)
			continue
		}
		c.debugLog("exported", slog.String("path", path))
		paths = append(paths, path)
	}
	if len(errs) > 0 {
		return paths, fmt.Errorf("overlay: export: %w", errors.Join(errs...))
	}
	return paths, nil
}

// unpremultiply converts premultiplied RGBA pixels to straight-alpha NRGBA.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func exportName(stamp, label string) string {
	return stamp + "_" + sanitizeLabel(label) + ".png"
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
