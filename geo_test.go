package terra

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func approxVec3(a, b mgl64.Vec3, eps float64) bool {
	return approxEqual(a.X(), b.X(), eps) &&
		approxEqual(a.Y(), b.Y(), eps) &&
		approxEqual(a.Z(), b.Z(), eps)
}

func TestGeoValidate(t *testing.T) {
	valid := []GeoPosition{
		{0, 0}, {90, 180}, {-90, -180}, {64.15, -21.94},
	}
	for _, g := range valid {
		if err := g.Validate(); err != nil {
			t.Errorf("Validate(%v) = %v, want nil", g, err)
		}
	}
	invalid := []GeoPosition{
		{90.001, 0}, {-91, 0}, {0, 180.5}, {0, -200}, {math.NaN(), 0}, {0, math.NaN()},
	}
	for _, g := range invalid {
		if err := g.Validate(); err == nil {
			t.Errorf("Validate(%v) = nil, want error", g)
		}
	}
}

func TestGeoToSurfaceKnownPoints(t *testing.T) {
	const r = 100.0
	cases := []struct {
		geo  GeoPosition
		want mgl64.Vec3
	}{
		{GeoPosition{0, 0}, mgl64.Vec3{0, 0, r}},
		{GeoPosition{90, 0}, mgl64.Vec3{0, r, 0}},
		{GeoPosition{-90, 0}, mgl64.Vec3{0, -r, 0}},
		{GeoPosition{0, 90}, mgl64.Vec3{r, 0, 0}},
		{GeoPosition{0, -90}, mgl64.Vec3{-r, 0, 0}},
		{GeoPosition{0, 180}, mgl64.Vec3{0, 0, -r}},
	}
	for _, c := range cases {
		got := GeoToSurface(c.geo, r)
		if !approxVec3(got, c.want, 1e-9) {
			t.Errorf("GeoToSurface(%v) = %v, want %v", c.geo, got, c.want)
		}
	}
}

func TestGeoSurfaceRoundtrip(t *testing.T) {
	const r = 100.0
	lats := []float64{-89.9, -60, -33.3, 0, 12.5, 45, 89.9}
	lngs := []float64{-179.9, -120, -90, -0.1, 0, 57.2, 120, 179.9}
	for _, lat := range lats {
		for _, lng := range lngs {
			orig := GeoPosition{Lat: lat, Lng: lng}
			got := SurfaceToGeo(GeoToSurface(orig, r), r)
			if !approxEqual(got.Lat, lat, 1e-6) || !approxEqual(got.Lng, lng, 1e-6) {
				t.Errorf("roundtrip(%v) = %v", orig, got)
			}
		}
	}
}

func TestSurfaceToGeoPoles(t *testing.T) {
	// Longitude is degenerate at the poles; latitude must still recover.
	north := SurfaceToGeo(mgl64.Vec3{0, 100, 0}, 100)
	if !approxEqual(north.Lat, 90, 1e-9) {
		t.Errorf("north pole lat = %v, want 90", north.Lat)
	}
	south := SurfaceToGeo(mgl64.Vec3{0, -100, 0}, 100)
	if !approxEqual(south.Lat, -90, 1e-9) {
		t.Errorf("south pole lat = %v, want -90", south.Lat)
	}
}

func testPose(pos mgl64.Vec3) CameraPose {
	return CameraPose{
		Position:  pos,
		Target:    mgl64.Vec3{},
		Up:        mgl64.Vec3{0, 1, 0},
		FOV:       45 * math.Pi / 180,
		NearPlane: 0.1,
		FarPlane:  2000,
	}
}

func TestProjectToScreenCenter(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 800}
	pose := testPose(mgl64.Vec3{0, 0, 300})

	// A point on the view axis projects to the exact viewport center.
	sp := ProjectToScreen(mgl64.Vec3{0, 0, 100}, pose, vp)
	if sp.Behind {
		t.Fatal("point in front of camera reported Behind")
	}
	if !approxEqual(sp.X, 640, 1e-6) || !approxEqual(sp.Y, 400, 1e-6) {
		t.Errorf("projected = (%f, %f), want (640, 400)", sp.X, sp.Y)
	}
	if !approxEqual(sp.NDCX, 0, 1e-9) || !approxEqual(sp.NDCY, 0, 1e-9) {
		t.Errorf("NDC = (%f, %f), want (0, 0)", sp.NDCX, sp.NDCY)
	}
	if !sp.OnScreen() {
		t.Error("center point not OnScreen")
	}
}

func TestProjectToScreenBehindCamera(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 800}
	pose := testPose(mgl64.Vec3{0, 0, 300})

	sp := ProjectToScreen(mgl64.Vec3{0, 0, 500}, pose, vp)
	if !sp.Behind {
		t.Error("point behind camera not reported Behind")
	}
	if sp.OnScreen() {
		t.Error("point behind camera reported OnScreen")
	}
}

func TestProjectToScreenOffAxis(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 800}
	pose := testPose(mgl64.Vec3{0, 0, 300})

	// A point to the camera's right lands right of center; a point up
	// lands above center (screen Y grows downward).
	right := ProjectToScreen(mgl64.Vec3{50, 0, 100}, pose, vp)
	if right.X <= 640 {
		t.Errorf("right point X = %f, want > 640", right.X)
	}
	up := ProjectToScreen(mgl64.Vec3{0, 50, 100}, pose, vp)
	if up.Y >= 400 {
		t.Errorf("up point Y = %f, want < 400", up.Y)
	}
}

func TestPickSurfaceCenter(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 800}
	pose := testPose(mgl64.Vec3{0, 0, 300})

	// The screen center ray hits the sub-camera point (lat 0, lng 0).
	geo, ok := PickSurface(640, 400, pose, vp, 100)
	if !ok {
		t.Fatal("center pick missed the globe")
	}
	if !approxEqual(geo.Lat, 0, 1e-6) || !approxEqual(geo.Lng, 0, 1e-6) {
		t.Errorf("picked %v, want (0, 0)", geo)
	}
}

func TestPickSurfaceMiss(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 800}
	pose := testPose(mgl64.Vec3{0, 0, 300})

	if _, ok := PickSurface(5, 5, pose, vp, 100); ok {
		t.Error("corner pick hit the globe, want miss")
	}
}

func TestPickProjectRoundtrip(t *testing.T) {
	vp := Viewport{Width: 1280, Height: 800}
	pose := testPose(mgl64.Vec3{120, 80, 260})

	// Project a surface point, pick at the projected pixel, and compare.
	orig := GeoPosition{Lat: 20, Lng: 35}
	sp := ProjectToScreen(GeoToSurface(orig, 100), pose, vp)
	if !sp.OnScreen() {
		t.Fatal("test point not on screen")
	}
	geo, ok := PickSurface(sp.X, sp.Y, pose, vp, 100)
	if !ok {
		t.Fatal("pick missed")
	}
	if !approxEqual(geo.Lat, orig.Lat, 1e-6) || !approxEqual(geo.Lng, orig.Lng, 1e-6) {
		t.Errorf("pick roundtrip = %v, want %v", geo, orig)
	}
}

func TestOccluded(t *testing.T) {
	cam := mgl64.Vec3{0, 0, 300}

	// Marker facing the camera: the ray reaches it before the sphere.
	front := mgl64.Vec3{0, 0, 101}
	if Occluded(cam, front, 100, 0.1) {
		t.Error("front marker reported occluded")
	}

	// Antipodal marker: the sphere blocks the ray.
	back := mgl64.Vec3{0, 0, -101}
	if !Occluded(cam, back, 100, 0.1) {
		t.Error("antipodal marker not occluded")
	}

	// Point well off the sphere is never occluded.
	aside := mgl64.Vec3{250, 0, 0}
	if Occluded(cam, aside, 100, 0.1) {
		t.Error("off-sphere point reported occluded")
	}
}

func TestOccludedGrazing(t *testing.T) {
	// A marker near the limb as seen from the camera: the ray grazes the
	// sphere right at the marker's foot; the tolerance must keep it
	// visible.
	cam := mgl64.Vec3{0, 0, 300}
	limbLat := math.Acos(100.0/300.0) * 180 / math.Pi // horizon circle from the camera
	marker := GeoToSurface(GeoPosition{Lat: limbLat - 0.01, Lng: 0}, 101)
	if Occluded(cam, marker, 100, 0.1) {
		t.Error("limb marker self-occluded; tolerance not applied")
	}
}
