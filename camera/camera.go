// Package camera provides the orbital camera above the globe:
// perspective projection to screen space, screen-to-ray unprojection
// for the overlay ray caster, and movement detection used to
// invalidate trails and the overlay after the view changes.
package camera

import (
	"math"

	"github.com/averre/globeflow/geo"
)

// Camera orbits the origin-centered unit sphere and always looks at
// the origin. Yaw and Pitch are the geographic coordinates of the
// point the camera hovers over, in degrees; Distance is in globe
// radii.
type Camera struct {
	Yaw, Pitch float64
	Distance   float64

	// Vertical field of view in degrees.
	FOV float64

	// Viewport dimensions in pixels.
	ViewportW, ViewportH float64

	// Distance constraints in globe radii.
	MinDistance, MaxDistance float64
}

// New creates a camera over the prime meridian at a comfortable
// starting distance.
func New(viewportW, viewportH, fov, minDistance, maxDistance float64) *Camera {
	return &Camera{
		Yaw:         0,
		Pitch:       15,
		Distance:    3.0,
		FOV:         fov,
		ViewportW:   viewportW,
		ViewportH:   viewportH,
		MinDistance: minDistance,
		MaxDistance: maxDistance,
	}
}

// Position returns the eye point in world space.
func (c *Camera) Position() geo.Vec3 {
	return geo.SpherePoint(c.Yaw, c.Pitch).Scale(c.Distance)
}

// Orbit rotates the camera around the globe by the given deltas in
// degrees. Pitch is clamped short of the poles so the view basis
// never degenerates.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = geo.NormLon(c.Yaw + dYaw)
	c.Pitch = clamp(c.Pitch+dPitch, -89, 89)
}

// Dolly scales the camera distance by the given factor, clamped to
// the configured range. Factors below 1 move closer.
func (c *Camera) Dolly(factor float64) {
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Resize updates the viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to the starting orbit.
func (c *Camera) Reset() {
	c.Yaw = 0
	c.Pitch = 15
	c.Distance = 3.0
}

// View freezes the camera into the per-tick projection state: eye,
// orthonormal basis, and NDC scaling. Advection, overlay, and draw
// code all work from a View so the mutable camera is never shared.
type View struct {
	Eye     geo.Vec3
	Right   geo.Vec3
	Up      geo.Vec3
	Forward geo.Vec3

	// Half-extents of the image plane at unit depth.
	HalfW, HalfH float64

	// Viewport in pixels.
	W, H float64
}

// View derives the frozen projection state from the current orbit.
func (c *Camera) View() View {
	eye := c.Position()
	forward := eye.Scale(-1).Normalize()
	worldUp := geo.Vec3{Y: 1}
	right := worldUp.Cross(forward).Normalize()
	up := forward.Cross(right)
	halfH := math.Tan(geo.Rad(c.FOV) / 2)
	aspect := c.ViewportW / c.ViewportH
	return View{
		Eye:     eye,
		Right:   right,
		Up:      up,
		Forward: forward,
		HalfW:   halfH * aspect,
		HalfH:   halfH,
		W:       c.ViewportW,
		H:       c.ViewportH,
	}
}

// Project maps a world-space point to continuous screen coordinates.
// ok is false when the point lies on or behind the projection plane.
func (v *View) Project(p geo.Vec3) (x, y float64, ok bool) {
	rel := p.Sub(v.Eye)
	depth := rel.Dot(v.Forward)
	if depth <= 1e-6 {
		return 0, 0, false
	}
	ndcX := rel.Dot(v.Right) / (depth * v.HalfW)
	ndcY := rel.Dot(v.Up) / (depth * v.HalfH)
	return (ndcX + 1) / 2 * v.W, (1 - ndcY) / 2 * v.H, true
}

// Ray unprojects a continuous screen position into a world-space ray
// from the eye. Pass pixel centers (px+0.5, py+0.5) when iterating a
// pixel grid.
func (v *View) Ray(px, py float64) geo.Ray {
	ndcX := 2*px/v.W - 1
	ndcY := 1 - 2*py/v.H
	dir := v.Forward.
		Add(v.Right.Scale(ndcX * v.HalfW)).
		Add(v.Up.Scale(ndcY * v.HalfH)).
		Normalize()
	return geo.Ray{Origin: v.Eye, Dir: dir}
}

// Snapshot captures the view state compared across ticks for
// movement detection.
type Snapshot struct {
	Position geo.Vec3
	Target   geo.Vec3
	W, H     float64
}

// Snapshot returns the current view state. The look target is always
// the globe center for an orbital camera but is carried explicitly so
// the movement test covers it.
func (c *Camera) Snapshot() Snapshot {
	return Snapshot{
		Position: c.Position(),
		Target:   geo.Vec3{},
		W:        c.ViewportW,
		H:        c.ViewportH,
	}
}

// Moved reports whether the view changed significantly between two
// snapshots. Squared-distance thresholds on position and target keep
// sub-threshold jitter from invalidating trails and the overlay; any
// viewport change always counts as movement.
func Moved(a, b Snapshot, posThreshold, targetThreshold float64) bool {
	if a.W != b.W || a.H != b.H {
		return true
	}
	return distSq(a.Position, b.Position) > posThreshold*posThreshold ||
		distSq(a.Target, b.Target) > targetThreshold*targetThreshold
}

func distSq(a, b geo.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
