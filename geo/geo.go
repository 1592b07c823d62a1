// Package geo provides the spherical geometry primitives shared by the
// sampler, the camera, and the overlay ray caster: a small Vec3 type,
// conversions between geographic coordinates and unit-sphere points,
// and ray-sphere intersection.
package geo

import "math"

// Vec3 is a 3D vector in world space. The globe is the unit sphere
// centered at the origin with +Y through the north pole.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Ray is a half-line with a normalized direction.
type Ray struct {
	Origin, Dir Vec3
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }

// Rad converts degrees to radians.
func Rad(d float64) float64 { return toRad(d) }

// Deg converts radians to degrees.
func Deg(r float64) float64 { return toDeg(r) }

// NormLon normalizes a longitude into [-180, 180). Grid files use the
// 0-360 convention; everything downstream uses signed longitudes.
func NormLon(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon >= 180 {
		lon -= 360
	} else if lon < -180 {
		lon += 360
	}
	return lon
}

// SpherePoint maps geographic coordinates in degrees to a point on the
// unit sphere. Longitude 0 lies on +X, east is toward +Z, and +Y is
// the north pole.
func SpherePoint(lon, lat float64) Vec3 {
	phi := toRad(lat)
	lam := toRad(lon)
	c := math.Cos(phi)
	return Vec3{c * math.Cos(lam), math.Sin(phi), c * math.Sin(lam)}
}

// LonLat inverts SpherePoint for a point on (or near) the unit sphere.
func LonLat(p Vec3) (lon, lat float64) {
	y := p.Y
	if y > 1 {
		y = 1
	} else if y < -1 {
		y = -1
	}
	lat = toDeg(math.Asin(y))
	lon = toDeg(math.Atan2(p.Z, p.X))
	return lon, lat
}

// IntersectSphere returns the distance t along the ray where it first
// hits the origin-centered sphere of the given radius. Assumes Dir is
// normalized, so the quadratic's leading coefficient is 1.
func IntersectSphere(r Ray, radius float64) (float64, bool) {
	b := 2 * r.Origin.Dot(r.Dir)
	c := r.Origin.Dot(r.Origin) - radius*radius
	disc := b*b - 4*c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := math.Sqrt(disc)
	const epsilon = 1e-6
	if t := (-b - sqrtDisc) / 2; t > epsilon {
		return t, true
	}
	if t := (-b + sqrtDisc) / 2; t > epsilon {
		return t, true
	}
	return 0, false
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
