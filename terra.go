package terra

import (
	"fmt"
	"math"
	"time"
)

// Vec2 is a 2D vector used for screen positions, label offsets, and
// connector directions throughout the API.
type Vec2 struct {
	X, Y float64
}

// Length returns the Euclidean length of the vector.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Angle returns the vector's direction in radians, measured from +X
// toward +Y (screen space: clockwise, since Y grows downward).
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Viewport is the pixel dimensions of the rendering surface. The coordinate
// system has its origin at the top-left, with Y increasing downward.
type Viewport struct {
	Width, Height float64
}

// Center returns the viewport's center point in pixels.
func (vp Viewport) Center() Vec2 {
	return Vec2{X: vp.Width / 2, Y: vp.Height / 2}
}

// Mode identifies the engine's camera mode.
type Mode uint8

const (
	// ModeOrbiting is the free-orbit mode: the camera advances along the
	// orbital ellipse every frame. Initial mode.
	ModeOrbiting Mode = iota
	// ModeTransitioningToFocus is the animated flight toward a hotspot.
	ModeTransitioningToFocus
	// ModeLocked is the hotspot focus lock: orbiting is suspended and the
	// camera holds position on the hotspot's outward normal.
	ModeLocked
	// ModeTransitioningToOrbit is the animated return to the orbital ellipse.
	ModeTransitioningToOrbit
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeOrbiting:
		return "orbiting"
	case ModeTransitioningToFocus:
		return "transitioning-to-focus"
	case ModeLocked:
		return "locked"
	case ModeTransitioningToOrbit:
		return "transitioning-to-orbit"
	default:
		return "unknown"
	}
}

// EventType identifies a kind of engine event.
type EventType uint8

const (
	EventHotspotActivated EventType = iota // fires when a focus transition completes
	EventHotspotExited                     // fires when the camera returns to free orbit
)

// Config holds every tunable of the engine. Zero values are not usable;
// start from DefaultConfig and override fields as needed.
type Config struct {
	// GlobeRadius is the radius of the globe sphere in world units.
	GlobeRadius float64
	// MarkerElevation lifts hotspot markers off the surface so they do not
	// z-fight with the globe geometry.
	MarkerElevation float64

	// Viewport is the initial rendering surface size in pixels.
	// Engine.SetViewport updates it on resize.
	Viewport Viewport

	// FOV is the camera's vertical field of view in radians while orbiting.
	FOV float64
	// NearPlane and FarPlane bound the visible frustum depth range.
	NearPlane, FarPlane float64

	// BaseSpeed is the resting orbital speed in radians per second.
	// MaxSpeed caps scroll acceleration; the floor is BaseSpeed/2.
	BaseSpeed, MaxSpeed float64
	// AccelerationFactor and DecelerationFactor are the per-input-tick
	// multiplicative speed adjustments (accel > 1, decel < 1).
	AccelerationFactor, DecelerationFactor float64

	// EllipseMajorAxis and EllipseMinorAxis are the orbital ellipse
	// semi-axes in world units, before zoom scaling.
	EllipseMajorAxis, EllipseMinorAxis float64
	// Inclination tilts the orbital plane, in radians.
	// Clamped to [MinInclination, MaxInclination].
	Inclination float64

	// MinZoomLevel and MaxZoomLevel bound the orbital zoom multiplier.
	MinZoomLevel, MaxZoomLevel float64
	// ZoomInStep and ZoomOutStep are the per-command zoom factors.
	ZoomInStep, ZoomOutStep float64

	// ScrollDebounce coalesces scroll deltas arriving closer together than
	// this window into a single speed adjustment.
	ScrollDebounce time.Duration
	// ScrollQuietTimeout is how long the mapper waits with no input before
	// easing the speed back to BaseSpeed over SpeedReturnDuration.
	ScrollQuietTimeout  time.Duration
	SpeedReturnDuration time.Duration

	// ManualStepAngle and ManualStepInclination are the per-keypress orbit
	// nudges in radians. ManualResumeDelay is how long orbiting stays
	// suspended after the last nudge.
	ManualStepAngle       float64
	ManualStepInclination float64
	ManualResumeDelay     time.Duration

	// FocusDistance is the camera's distance from the globe center while
	// locked on a hotspot. FocusFOV is the narrowed field of view.
	FocusDistance float64
	FocusFOV      float64
	// FocusDuration times the flight toward a hotspot; ExitFOVDuration the
	// field-of-view restore; ExitResumeDelay the pause before orbiting
	// resumes after an exit.
	FocusDuration   time.Duration
	ExitFOVDuration time.Duration
	ExitResumeDelay time.Duration
	// ExitScrollThreshold is the accumulated downward scroll delta that
	// exits focus lock.
	ExitScrollThreshold float64

	// DollyInStep and DollyOutStep scale the camera distance per zoom
	// command while locked. MinDollyDistance floors the approach.
	DollyInStep, DollyOutStep float64
	MinDollyDistance          float64

	// ResetDuration times the elastic zoom restore of ResetView.
	ResetDuration time.Duration

	// ClearZoneRatio is the fraction of the half-viewport around the screen
	// center where labels fan out radially instead of sitting beside their
	// marker.
	ClearZoneRatio float64
	// LabelRadialDistance is the base radial label distance in pixels;
	// LabelOscillation the amplitude of the angular fan-out offset.
	LabelRadialDistance float64
	LabelOscillation    float64
	// LabelCharWidth approximates rendered title width per character.
	LabelCharWidth float64
	LabelHeight    float64
	// LabelGap is the horizontal gap between a marker and its label.
	LabelGap float64
	// LabelMargin keeps labels this many pixels inside the viewport edges.
	LabelMargin float64
	// OcclusionTolerance avoids self-occlusion at grazing angles.
	OcclusionTolerance float64

	// PickRadius is the screen-space radius in pixels within which a click
	// selects a hotspot marker.
	PickRadius float64
}

// Inclination clamp range (radians).
const (
	MinInclination = 0.1
	MaxInclination = math.Pi / 3
)

// DefaultConfig returns a Config tuned for a 100-unit globe in a
// 1280x800 viewport.
func DefaultConfig() Config {
	return Config{
		GlobeRadius:     100,
		MarkerElevation: 1,
		Viewport:        Viewport{Width: 1280, Height: 800},

		FOV:       45 * math.Pi / 180,
		NearPlane: 0.1,
		FarPlane:  2000,

		BaseSpeed:          0.2,
		MaxSpeed:           1.2,
		AccelerationFactor: 1.1,
		DecelerationFactor: 0.9,

		EllipseMajorAxis: 260,
		EllipseMinorAxis: 200,
		Inclination:      0.35,

		MinZoomLevel: 0.55,
		MaxZoomLevel: 1.6,
		ZoomInStep:   0.85,
		ZoomOutStep:  1.15,

		ScrollDebounce:      50 * time.Millisecond,
		ScrollQuietTimeout:  3 * time.Second,
		SpeedReturnDuration: 1500 * time.Millisecond,

		ManualStepAngle:       0.08,
		ManualStepInclination: 0.04,
		ManualResumeDelay:     800 * time.Millisecond,

		FocusDistance:       180,
		FocusFOV:            30 * math.Pi / 180,
		FocusDuration:       2 * time.Second,
		ExitFOVDuration:     900 * time.Millisecond,
		ExitResumeDelay:     600 * time.Millisecond,
		ExitScrollThreshold: 260,

		DollyInStep:      0.92,
		DollyOutStep:     1.08,
		MinDollyDistance: 110,

		ResetDuration: 1200 * time.Millisecond,

		ClearZoneRatio:      0.6,
		LabelRadialDistance: 140,
		LabelOscillation:    18,
		LabelCharWidth:      7.2,
		LabelHeight:         16,
		LabelGap:            14,
		LabelMargin:         20,
		OcclusionTolerance:  0.1,

		PickRadius: 18,
	}
}

// validate rejects configs that would violate engine invariants.
func (c Config) validate() error {
	if c.GlobeRadius <= 0 {
		return fmt.Errorf("config: GlobeRadius must be positive, got %v", c.GlobeRadius)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("config: viewport must be positive, got %vx%v", c.Viewport.Width, c.Viewport.Height)
	}
	if c.BaseSpeed <= 0 || c.MaxSpeed < c.BaseSpeed {
		return fmt.Errorf("config: need 0 < BaseSpeed <= MaxSpeed, got base %v max %v", c.BaseSpeed, c.MaxSpeed)
	}
	if c.AccelerationFactor <= 1 {
		return fmt.Errorf("config: AccelerationFactor must exceed 1, got %v", c.AccelerationFactor)
	}
	if c.DecelerationFactor <= 0 || c.DecelerationFactor >= 1 {
		return fmt.Errorf("config: DecelerationFactor must be in (0, 1), got %v", c.DecelerationFactor)
	}
	if c.EllipseMajorAxis <= 0 || c.EllipseMinorAxis <= 0 {
		return fmt.Errorf("config: ellipse axes must be positive, got %v / %v", c.EllipseMajorAxis, c.EllipseMinorAxis)
	}
	if c.MinZoomLevel <= 0 || c.MaxZoomLevel < c.MinZoomLevel {
		return fmt.Errorf("config: need 0 < MinZoomLevel <= MaxZoomLevel, got %v / %v", c.MinZoomLevel, c.MaxZoomLevel)
	}
	if c.Inclination < MinInclination || c.Inclination > MaxInclination {
		return fmt.Errorf("config: Inclination %v outside [%v, %v]", c.Inclination, MinInclination, MaxInclination)
	}
	if c.FocusDistance <= c.GlobeRadius {
		return fmt.Errorf("config: FocusDistance %v must exceed GlobeRadius %v", c.FocusDistance, c.GlobeRadius)
	}
	return nil
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapAngle normalizes an angle to [0, 2π).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
