package terra

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GeoPosition is a geographic coordinate in degrees. Lat is measured from
// the equatorial plane, Lng eastward from the prime meridian.
type GeoPosition struct {
	Lat, Lng float64
}

// Validate reports whether the coordinate lies within geographic bounds.
// Invalid coordinates are rejected at catalog load and never enter the
// runtime set.
func (g GeoPosition) Validate() error {
	if math.IsNaN(g.Lat) || g.Lat < -90 || g.Lat > 90 {
		return fmt.Errorf("geo: latitude %v outside [-90, 90]", g.Lat)
	}
	if math.IsNaN(g.Lng) || g.Lng < -180 || g.Lng > 180 {
		return fmt.Errorf("geo: longitude %v outside [-180, 180]", g.Lng)
	}
	return nil
}

// GeoToSurface converts a geographic coordinate to a point on a sphere of
// the given radius. The sphere is Y-up: the north pole sits at +Y,
// (lat 0, lng 0) at +Z, and longitude increases eastward toward +X.
//
// SurfaceToGeo is the exact algebraic inverse, so geo -> 3D -> geo round
// trips within floating-point tolerance.
func GeoToSurface(geo GeoPosition, radius float64) mgl64.Vec3 {
	lat := mgl64.DegToRad(geo.Lat)
	lng := mgl64.DegToRad(geo.Lng)
	sinLat, cosLat := math.Sincos(lat)
	sinLng, cosLng := math.Sincos(lng)
	return mgl64.Vec3{
		radius * cosLat * sinLng,
		radius * sinLat,
		radius * cosLat * cosLng,
	}
}

// SurfaceToGeo converts a sphere-surface point back to a geographic
// coordinate. The point need not lie exactly on the radius; only its
// direction from the globe center matters. At the poles the longitude is
// degenerate and resolves to 0.
func SurfaceToGeo(p mgl64.Vec3, radius float64) GeoPosition {
	r := p.Len()
	if r == 0 {
		r = radius
	}
	lat := math.Asin(clamp(p.Y()/r, -1, 1))
	lng := math.Atan2(p.X(), p.Z())
	return GeoPosition{
		Lat: mgl64.RadToDeg(lat),
		Lng: mgl64.RadToDeg(lng),
	}
}

// CameraPose is the derived camera state for one frame. The look direction
// is always toward Target (the globe center); there is no independent
// camera rotation state.
type CameraPose struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	// FOV is the vertical field of view in radians.
	FOV float64
	// NearPlane and FarPlane bound the visible frustum.
	NearPlane, FarPlane float64
}

// viewProjection composes the pose's look-at and perspective matrices for
// the given viewport.
func (p CameraPose) viewProjection(vp Viewport) mgl64.Mat4 {
	view := mgl64.LookAtV(p.Position, p.Target, p.Up)
	proj := mgl64.Perspective(p.FOV, vp.Width/vp.Height, p.NearPlane, p.FarPlane)
	return proj.Mul4(view)
}

// ScreenPoint is the result of projecting a world-space point.
type ScreenPoint struct {
	// X and Y are pixel coordinates, origin top-left.
	X, Y float64
	// NDCX and NDCY are normalized device coordinates in [-1, 1] when the
	// point is on screen.
	NDCX, NDCY float64
	// Behind is true when the point falls outside the frustum's near/far
	// depth range and must not be rendered.
	Behind bool
}

// OnScreen reports whether the point is in front of the camera and within
// the normalized device bounds on both axes.
func (s ScreenPoint) OnScreen() bool {
	return !s.Behind &&
		s.NDCX >= -1 && s.NDCX <= 1 &&
		s.NDCY >= -1 && s.NDCY <= 1
}

// ProjectToScreen performs a perspective projection of a world-space point.
func ProjectToScreen(point mgl64.Vec3, pose CameraPose, vp Viewport) ScreenPoint {
	clip := pose.viewProjection(vp).Mul4x1(point.Vec4(1))
	w := clip.W()
	if w <= 0 {
		return ScreenPoint{Behind: true}
	}
	ndcX := clip.X() / w
	ndcY := clip.Y() / w
	ndcZ := clip.Z() / w
	return ScreenPoint{
		X:      (ndcX + 1) / 2 * vp.Width,
		Y:      (1 - ndcY) / 2 * vp.Height,
		NDCX:   ndcX,
		NDCY:   ndcY,
		Behind: ndcZ < -1 || ndcZ > 1,
	}
}

// PickSurface casts a ray from the camera through the given pixel and
// intersects it with the globe sphere. Returns the geographic coordinate
// of the hit point, or false when the ray misses the globe.
func PickSurface(x, y float64, pose CameraPose, vp Viewport, radius float64) (GeoPosition, bool) {
	inv := pose.viewProjection(vp).Inv()
	ndc := mgl64.Vec4{
		2*x/vp.Width - 1,
		1 - 2*y/vp.Height,
		-1,
		1,
	}
	near := inv.Mul4x1(ndc)
	if near.W() == 0 {
		return GeoPosition{}, false
	}
	nearPoint := near.Vec3().Mul(1 / near.W())

	dir := nearPoint.Sub(pose.Position)
	if dir.Len() < minDirectionLength {
		return GeoPosition{}, false
	}
	dir = dir.Normalize()

	t, ok := raySphere(pose.Position, dir, radius)
	if !ok {
		return GeoPosition{}, false
	}
	hit := pose.Position.Add(dir.Mul(t))
	return SurfaceToGeo(hit, radius), true
}

// minDirectionLength floors direction vectors before normalization to guard
// the degenerate camera-coincident-with-target case.
const minDirectionLength = 1e-9

// raySphere intersects a ray (origin, unit direction) with a sphere of the
// given radius centered on the origin. Returns the nearest non-negative hit
// distance.
func raySphere(origin, dir mgl64.Vec3, radius float64) (float64, bool) {
	b := origin.Dot(dir)
	c := origin.Dot(origin) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Occluded reports whether the globe's solid geometry blocks the line from
// the camera to the given world-space point. A point is occluded when the
// camera ray hits the sphere strictly closer than the point itself, minus a
// small tolerance that prevents self-occlusion at grazing angles.
func Occluded(camera, point mgl64.Vec3, radius, tolerance float64) bool {
	dir := point.Sub(camera)
	dist := dir.Len()
	if dist < minDirectionLength {
		return false
	}
	dir = dir.Mul(1 / dist)

	t, hit := raySphere(camera, dir, radius)
	if !hit {
		return false
	}
	return t < dist-tolerance
}
