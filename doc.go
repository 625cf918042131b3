// Package overlay is the geometry and hit-test core for overlay entities
// placed on an edited image: shapes, rulers, text and multi-point
// measurements that users drag, pinch, rotate and tap.
//
// # Entities
//
// Every entity embeds a [Motion]: a base rectangle anchored to a
// [CanvasContext] and placed by center, rotation (radians) and a uniform
// scale. Geometry is always recomputed from those three values, so
// [Motion.Corners] and hit tests agree no matter the order of setter calls.
//
//	ctx := overlay.NewCanvasContext(1000, 1000, 2.0, 10)
//	m, err := overlay.NewMeasurement(ctx, overlay.MeasurementOptions{})
//	if err != nil {
//		return err
//	}
//	m.AddPoint(overlay.Vec2{X: 100, Y: 100})
//	m.AddPoint(overlay.Vec2{X: 200, Y: 200})
//	hit := m.IsPointInEntity(overlay.Vec2{X: 150, Y: 150})
//
// A [Measurement] holds either a point path or a text label, never both: its
// [Mode] is fixed by the first accepted [Measurement.AddPoint] or
// [Measurement.AddText]. Its [HitPolicy] chooses between the transformed
// rectangle, proximity to the drawn path, or either.
//
// # Canvas
//
// A [Canvas] keeps entities in bottom-to-top order, routes taps to the active
// measurement or to selection, and reports edits to an optional [EventSink]
// (see the ecs sub-module for a Donburi bridge). Defaults come from a YAML
// [Config] overlaid on embedded defaults.
//
// # Collaborators
//
// Entities never draw, decode images or lay out text. [AppendCommands] turns
// an entity into line, disc, ring and image commands that [DrawCommands]
// submits to an ebiten image; images are referenced through an [AssetTable];
// text sizes come from a [TextMeasurer] such as [TTFMeasurer].
//
// # Viewing and export
//
// A [View] holds the editor's pan, zoom and rotation and always stays over
// the canvas. Its matrix feeds
// [DrawCommands], [View.ScreenToCanvas] maps pointer input back onto the
// canvas, and [Canvas.BuildVisibleCommands] skips entities outside the
// visible area. [Canvas.Rasterize] burns the overlays into a full-resolution
// copy of the image and [Canvas.QueueExport] writes rendered frames as PNG.
package overlay
