package systems

import (
	"math"
	"math/rand"

	"github.com/averre/globeflow/geo"
)

// poleLimit is how close to a pole a particle may sit after a
// crossing is clamped. Keeps 1/cos(lat) bounded for the next
// advection step.
const poleLimit = 89.95

// AdvectPosition moves a particle one tick through the local wind.
// The 1/cos(lat) term converts an eastward speed into angular
// longitude change, so apparent angular motion accelerates toward the
// poles. A latitude update past a pole is clamped just short of it
// with the longitude flipped to the antimeridian side; callers clear
// the trail and recycle such particles so no segment spans a pole.
func AdvectPosition(lon, lat, u, v, speedFactor float64) (newLon, newLat float64, crossedPole bool) {
	newLon = lon + u*speedFactor/math.Cos(geo.Rad(lat))
	newLat = lat + v*speedFactor
	if newLat >= 90 || newLat <= -90 {
		crossedPole = true
		if newLat > 0 {
			newLat = poleLimit
		} else {
			newLat = -poleLimit
		}
		newLon += 180
	}
	newLon = geo.NormLon(newLon)
	return newLon, newLat, crossedPole
}

// SpawnPosition draws a uniformly distributed point on the sphere.
// Latitude uses the arcsine distribution so the population does not
// bunch at the poles.
func SpawnPosition(rng *rand.Rand) (lon, lat float64) {
	lon = rng.Float64()*360 - 180
	lat = geo.Deg(math.Asin(2*rng.Float64() - 1))
	if lat > poleLimit {
		lat = poleLimit
	} else if lat < -poleLimit {
		lat = -poleLimit
	}
	return lon, lat
}

// AgeFade returns the alpha multiplier for a particle's age: solid
// through the front half of life, fading near-linearly to zero over
// the back half.
func AgeFade(age, lifetime float64) float64 {
	if lifetime <= 0 {
		return 0
	}
	half := lifetime / 2
	if age <= half {
		return 1
	}
	f := 1 - (age-half)/half
	if f < 0 {
		return 0
	}
	return f
}

// FacesCamera reports whether a point on the unit sphere is on the
// hemisphere turned toward the eye. eyeDir is the normalized
// direction from the globe center to the eye; the surface normal of
// the unit sphere at p is p itself.
func FacesCamera(p, eyeDir geo.Vec3) bool {
	return p.Dot(eyeDir) > 0
}

// SegmentTooLong guards against spurious streaks when a particle
// wraps the date line or jumps between disjoint visible regions.
func SegmentTooLong(x1, y1, x2, y2, maxLen float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx+dy*dy > maxLen*maxLen
}
