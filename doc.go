// Package terra is an orbital camera and hotspot engine for interactive
// 3D globes.
//
// Terra drives the camera of a globe viewer: it keeps the camera on a
// continuously evolving elliptical orbit, maps scroll and keyboard input
// to smoothed orbital speed, converts geographic coordinates to sphere
// positions and back, decides every frame which hotspot markers are
// visible or occluded by the globe, lays out their 2D screen labels and
// connectors, and governs the locked "focus" camera mode on a single
// hotspot.
//
// Terra does not render. It computes camera poses and pixel-space label
// placements; the host application draws the globe with whatever surface
// it likes and positions labels through a [LabelSink].
//
// # Quick start
//
//	engine, err := terra.New(terra.DefaultConfig(), sink)
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = engine.SetHotspots([]terra.Hotspot{
//		{ID: "reykjavik", Title: "Reykjavík", Geo: terra.GeoPosition{Lat: 64.15, Lng: -21.94}},
//	})
//	// each frame:
//	engine.Update(dt)
//	pose := engine.CameraPose()
//
// Input flows in through [Engine.Scroll], [Engine.Nudge], [Engine.Click],
// [Engine.Zoom], and the convenience [InputAdapter] for [Ebitengine]
// applications. Hotspot focus transitions are animated with [gween]
// tweens and reported through [Engine.OnHotspotActivated] and
// [Engine.OnHotspotExited].
//
// # Frame model
//
// The engine is single-threaded and cooperative. Call [Engine.Update]
// once per rendered frame; within the frame, input is applied before the
// camera pose is recomputed, which happens before hotspot visibility and
// label layout. Animation timelines (focus flights, field-of-view
// changes, zoom restores) span frames but never block one.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package terra
