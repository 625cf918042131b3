// Package ecs provides ECS adapters for overlay's canvas event system.
//
// [NewDonburiStore] bridges canvas events (entity added or removed,
// selection changes, measurement points) into a [Donburi] world as typed
// events. Subscribe to [CanvasEventType] in your ECS systems to receive them.
//
// [Mirror] goes one step further and keeps a Donburi entity with an
// [EntityData] component for every entity on the canvas.
//
// Usage:
//
//	world := donburi.NewWorld()
//	mirror := ecs.NewMirror(world)
//	canvas.SetEventSink(ecs.Fanout(mirror, ecs.NewDonburiStore(world)))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
