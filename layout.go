package terra

import "math"

// LabelPlacement is the computed 2D layout for one visible hotspot: where
// the marker sits on screen, where its label anchors, and the connector
// joining the two.
type LabelPlacement struct {
	// Marker is the hotspot's projected screen position in pixels.
	Marker Vec2
	// Label is the label's anchor point in pixels.
	Label Vec2
	// Connector is the vector from Marker to Label.
	Connector Vec2
	// ConnectorLength and ConnectorAngle are derived from Connector.
	ConnectorLength float64
	ConnectorAngle  float64
	// FlippedX is true when the label sits left of the marker to avoid
	// overflowing the right edge; FlippedY when it sits above the marker to
	// avoid the bottom edge. Radial (clear-zone) placements never flip.
	FlippedX, FlippedY bool
}

// LabelSink receives label layout results each frame. Implementations
// position DOM elements, canvas overlays, or native UI by pixel
// coordinates. Hidden labels are toggled, never removed, so the sink can
// avoid reflow cost.
type LabelSink interface {
	// SetPlacement positions the label and connector for a hotspot.
	// Only called while the hotspot is visible.
	SetPlacement(id string, p LabelPlacement)
	// SetVisible toggles the label and connector. Called only on
	// visibility changes, not every frame.
	SetVisible(id string, visible bool)
}

// labelLayout computes the label placement for a marker at the given
// screen position.
//
// Inside the clear zone around the screen center the label fans out
// radially: a fixed extended distance plus a small oscillating offset that
// spreads nearby labels apart. Outside it, the label sits beside the
// marker, offset by a distance proportional to the title length, flipping
// to the opposite side of a viewport edge it would overflow. Either way
// the anchor is clamped to the edge margin.
func labelLayout(marker Vec2, title string, vp Viewport, cfg *Config) LabelPlacement {
	p := LabelPlacement{Marker: marker}

	center := vp.Center()
	fromCenter := Vec2{X: marker.X - center.X, Y: marker.Y - center.Y}
	clearRadius := cfg.ClearZoneRatio * math.Min(vp.Width, vp.Height) / 2

	if fromCenter.Length() < clearRadius {
		p.Label = radialLabel(center, fromCenter, cfg)
	} else {
		p.Label, p.FlippedX, p.FlippedY = sideLabel(marker, title, vp, cfg)
	}

	p.Label.X = clamp(p.Label.X, cfg.LabelMargin, vp.Width-cfg.LabelMargin)
	p.Label.Y = clamp(p.Label.Y, cfg.LabelMargin, vp.Height-cfg.LabelMargin)

	p.Connector = Vec2{X: p.Label.X - marker.X, Y: p.Label.Y - marker.Y}
	p.ConnectorLength = p.Connector.Length()
	p.ConnectorAngle = p.Connector.Angle()
	return p
}

// radialLabel places a clear-zone label along the direction from the
// screen center through the marker, at the base radial distance plus an
// oscillating offset. The oscillation is a function of the radial angle,
// so labels at different bearings extend to slightly different radii and
// fan out instead of stacking.
func radialLabel(center, fromCenter Vec2, cfg *Config) Vec2 {
	dir := Vec2{X: 1, Y: 0} // default radial direction for a dead-center marker
	if d := fromCenter.Length(); d > 1e-9 {
		dir = Vec2{X: fromCenter.X / d, Y: fromCenter.Y / d}
	}
	angle := dir.Angle()
	dist := cfg.LabelRadialDistance + math.Sin(angle*3)*cfg.LabelOscillation
	return Vec2{
		X: center.X + dir.X*dist,
		Y: center.Y + dir.Y*dist,
	}
}

// sideLabel places an edge-region label beside its marker. The horizontal
// extent is proportional to the title length so long titles flip sooner.
func sideLabel(marker Vec2, title string, vp Viewport, cfg *Config) (label Vec2, flippedX, flippedY bool) {
	width := float64(len(title)) * cfg.LabelCharWidth

	label = Vec2{X: marker.X + cfg.LabelGap, Y: marker.Y}
	if label.X+width > vp.Width-cfg.LabelMargin {
		label.X = marker.X - cfg.LabelGap - width
		flippedX = true
	}
	if label.Y+cfg.LabelHeight > vp.Height-cfg.LabelMargin {
		label.Y = marker.Y - cfg.LabelGap - cfg.LabelHeight
		flippedY = true
	}
	return label, flippedX, flippedY
}
