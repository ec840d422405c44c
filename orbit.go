package terra

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// historySize bounds the camera position trail kept for telemetry.
const historySize = 100

// Orbit holds the orbital camera state and advances it each frame. It is
// the single owner of the orbit parameters; other components only read
// them. All mutation happens on the frame tick.
type Orbit struct {
	// Angle is the current position on the ellipse in radians, wrapped to
	// [0, 2π).
	Angle float64
	// CurrentSpeed is the orbital speed in radians per second. Invariant:
	// BaseSpeed/2 <= CurrentSpeed <= MaxSpeed.
	CurrentSpeed float64
	// BaseSpeed is the resting speed the mapper decays back to.
	BaseSpeed float64
	// MaxSpeed caps scroll acceleration.
	MaxSpeed float64

	// MajorAxis and MinorAxis are the ellipse semi-axes before zoom scaling.
	MajorAxis, MinorAxis float64
	// Inclination tilts the orbital plane about the X axis, clamped to
	// [MinInclination, MaxInclination].
	Inclination float64

	// ZoomLevel scales both semi-axes. Invariant:
	// MinZoomLevel <= ZoomLevel <= MaxZoomLevel.
	ZoomLevel                  float64
	MinZoomLevel, MaxZoomLevel float64

	// Position is the camera position computed from the ellipse at the
	// last advance or nudge.
	Position mgl64.Vec3

	// Manual-override suspension. While suspended the time-driven advance
	// is skipped; nudges recompute the position immediately.
	suspended   bool
	resumeTimer float64
	resumeDelay float64

	history [historySize]mgl64.Vec3
	head    int
	count   int
}

// NewOrbit creates an Orbit from the config, positioned at angle 0.
func NewOrbit(cfg Config) *Orbit {
	o := &Orbit{
		CurrentSpeed: cfg.BaseSpeed,
		BaseSpeed:    cfg.BaseSpeed,
		MaxSpeed:     cfg.MaxSpeed,
		MajorAxis:    cfg.EllipseMajorAxis,
		MinorAxis:    cfg.EllipseMinorAxis,
		Inclination:  clamp(cfg.Inclination, MinInclination, MaxInclination),
		ZoomLevel:    1,
		MinZoomLevel: cfg.MinZoomLevel,
		MaxZoomLevel: cfg.MaxZoomLevel,
		resumeDelay:  cfg.ManualResumeDelay.Seconds(),
	}
	o.recompute()
	return o
}

// ellipsePoint evaluates the orbital ellipse at the given angle. Both the
// time-driven advance and the manual-override nudges go through this one
// formula, so the two paths can never produce a visible discontinuity.
//
// The ellipse is centered on the globe, with its major axis along X and
// its minor axis tilted out of the equatorial plane by the inclination.
func (o *Orbit) ellipsePoint(angle float64) mgl64.Vec3 {
	a := o.MajorAxis * o.ZoomLevel
	b := o.MinorAxis * o.ZoomLevel
	sin, cos := math.Sincos(angle)
	sinI, cosI := math.Sincos(o.Inclination)
	return mgl64.Vec3{
		a * cos,
		b * sin * sinI,
		b * sin * cosI,
	}
}

// recompute updates Position from the current angle and records it in the
// history trail.
func (o *Orbit) recompute() {
	o.Position = o.ellipsePoint(o.Angle)
	o.pushHistory(o.Position)
}

// Advance moves the camera along the ellipse for an elapsed frame time in
// seconds. No-op while manually suspended; the suspension timer still
// counts down so orbiting resumes after the configured delay.
func (o *Orbit) Advance(dt float64) {
	if o.suspended {
		o.resumeTimer -= dt
		if o.resumeTimer <= 0 {
			o.suspended = false
		}
		return
	}
	o.Angle = wrapAngle(o.Angle + o.CurrentSpeed*dt)
	o.recompute()
}

// SetZoom multiplies the zoom level by factor and clamps it to the
// configured range. The camera position is rescaled at the current angle
// immediately, so zooming stays centered on the globe.
func (o *Orbit) SetZoom(factor float64) {
	o.ZoomLevel = clamp(o.ZoomLevel*factor, o.MinZoomLevel, o.MaxZoomLevel)
	o.recompute()
}

// SetZoomLevel sets the zoom level directly (clamped) and recomputes the
// camera position. Used by animated zoom restores.
func (o *Orbit) SetZoomLevel(level float64) {
	o.ZoomLevel = clamp(level, o.MinZoomLevel, o.MaxZoomLevel)
	o.recompute()
}

// SetSpeed sets the orbital speed, clamped to [BaseSpeed/2, MaxSpeed].
func (o *Orbit) SetSpeed(speed float64) {
	o.CurrentSpeed = clamp(speed, o.BaseSpeed*0.5, o.MaxSpeed)
}

// ResetToBaseline restores zoom and speed to their resting values. The
// angle is preserved so the camera does not visually jump.
func (o *Orbit) ResetToBaseline() {
	o.ZoomLevel = 1
	o.CurrentSpeed = o.BaseSpeed
	o.recompute()
}

// NudgeAngle steps the orbit angle by delta radians, recomputes the camera
// immediately, and suspends the time-driven advance for the resume delay.
func (o *Orbit) NudgeAngle(delta float64) {
	o.suspend()
	o.Angle = wrapAngle(o.Angle + delta)
	o.recompute()
}

// NudgeInclination steps the orbital plane tilt by delta radians, clamped
// to the legal range, recomputes the camera immediately, and suspends the
// time-driven advance for the resume delay.
func (o *Orbit) NudgeInclination(delta float64) {
	o.suspend()
	o.Inclination = clamp(o.Inclination+delta, MinInclination, MaxInclination)
	o.recompute()
}

func (o *Orbit) suspend() {
	o.suspended = true
	o.resumeTimer = o.resumeDelay
}

// Suspended reports whether the time-driven advance is currently paused by
// a manual override.
func (o *Orbit) Suspended() bool {
	return o.suspended
}

// --- History trail ---

func (o *Orbit) pushHistory(p mgl64.Vec3) {
	o.history[o.head] = p
	o.head = (o.head + 1) % historySize
	if o.count < historySize {
		o.count++
	}
}

// Trail returns the recorded camera positions, oldest first. The trail is
// bounded at 100 entries and is used for telemetry only; it has no effect
// on camera behavior.
func (o *Orbit) Trail() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, o.count)
	start := o.head - o.count
	if start < 0 {
		start += historySize
	}
	for i := 0; i < o.count; i++ {
		out = append(out, o.history[(start+i)%historySize])
	}
	return out
}
