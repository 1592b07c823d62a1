package camera

import (
	"math"
	"testing"

	"github.com/averre/globeflow/geo"
)

func testCamera() *Camera {
	c := New(800, 600, 40, 1.5, 8)
	c.Pitch = 0
	return c
}

func TestProjectSubCameraPointHitsCenter(t *testing.T) {
	v := testCamera().View()
	x, y, ok := v.Project(geo.Vec3{X: 1})
	if !ok {
		t.Fatal("sub-camera point not projectable")
	}
	if math.Abs(x-400) > 1e-9 || math.Abs(y-300) > 1e-9 {
		t.Errorf("Project = (%f, %f), want viewport center (400, 300)", x, y)
	}
}

func TestProjectOrientation(t *testing.T) {
	v := testCamera().View()

	// East of the sub-camera point lands right of center, north lands
	// above center.
	ex, _, ok := v.Project(geo.SpherePoint(10, 0))
	if !ok || ex <= 400 {
		t.Errorf("east point x = %f (ok=%v), want > 400", ex, ok)
	}
	_, ny, ok := v.Project(geo.SpherePoint(0, 10))
	if !ok || ny >= 300 {
		t.Errorf("north point y = %f (ok=%v), want < 300", ny, ok)
	}
}

func TestProjectBehindCameraFails(t *testing.T) {
	v := testCamera().View()
	if _, _, ok := v.Project(geo.Vec3{X: 5}); ok {
		t.Error("point behind the eye reported as projectable")
	}
}

func TestRayThroughCenterHitsSubCameraPoint(t *testing.T) {
	c := testCamera()
	v := c.View()
	r := v.Ray(v.W/2, v.H/2)
	tHit, ok := geo.IntersectSphere(r, 1)
	if !ok {
		t.Fatal("center ray misses the globe")
	}
	if math.Abs(tHit-(c.Distance-1)) > 1e-9 {
		t.Errorf("center ray hit at t = %f, want %f", tHit, c.Distance-1)
	}
	p := r.Origin.Add(r.Dir.Scale(tHit))
	if math.Abs(p.X-1) > 1e-9 || math.Abs(p.Y) > 1e-9 || math.Abs(p.Z) > 1e-9 {
		t.Errorf("center ray hit %v, want (1, 0, 0)", p)
	}
}

func TestProjectRayRoundTrip(t *testing.T) {
	c := New(800, 600, 40, 1.5, 8)
	c.Yaw = 37
	c.Pitch = -22
	c.Distance = 2.6
	v := c.View()

	points := []struct{ lon, lat float64 }{
		{37, -22}, // sub-camera point
		{20, 0},
		{55, -40},
		{30, 10},
	}
	for _, pt := range points {
		p := geo.SpherePoint(pt.lon, pt.lat)
		px, py, ok := v.Project(p)
		if !ok {
			t.Fatalf("Project(%f, %f) failed", pt.lon, pt.lat)
		}
		r := v.Ray(px, py)
		tHit, ok := geo.IntersectSphere(r, 1)
		if !ok {
			t.Fatalf("ray back through (%f, %f) misses the globe", px, py)
		}
		hit := r.Origin.Add(r.Dir.Scale(tHit))
		if hit.Sub(p).Length() > 1e-9 {
			t.Errorf("round trip (%f, %f): hit %v, want %v", pt.lon, pt.lat, hit, p)
		}
	}
}

func TestOrbitClampsPitch(t *testing.T) {
	c := testCamera()
	c.Orbit(0, 200)
	if c.Pitch != 89 {
		t.Errorf("Pitch after over-rotation = %f, want 89", c.Pitch)
	}
	c.Orbit(0, -500)
	if c.Pitch != -89 {
		t.Errorf("Pitch after under-rotation = %f, want -89", c.Pitch)
	}
	c.Orbit(350, 0)
	if c.Yaw < -180 || c.Yaw >= 180 {
		t.Errorf("Yaw after wrap = %f, want [-180, 180)", c.Yaw)
	}
}

func TestDollyClampsDistance(t *testing.T) {
	c := testCamera()
	c.Dolly(0.01)
	if c.Distance != c.MinDistance {
		t.Errorf("Distance after dolly in = %f, want %f", c.Distance, c.MinDistance)
	}
	c.Dolly(100)
	if c.Distance != c.MaxDistance {
		t.Errorf("Distance after dolly out = %f, want %f", c.Distance, c.MaxDistance)
	}
}

func TestMoved(t *testing.T) {
	c := testCamera()
	a := c.Snapshot()

	if Moved(a, a, 0.01, 0.01) {
		t.Error("identical snapshots reported as moved")
	}

	c.Orbit(0.05, 0)
	small := c.Snapshot()
	if Moved(a, small, 0.01, 0.01) {
		t.Error("sub-threshold jitter reported as moved")
	}

	c.Orbit(20, 0)
	big := c.Snapshot()
	if !Moved(a, big, 0.01, 0.01) {
		t.Error("large orbit not reported as moved")
	}

	resized := a
	resized.W = 1024
	if !Moved(a, resized, 0.01, 0.01) {
		t.Error("viewport change not reported as moved")
	}
}
