package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/averre/globeflow/camera"
	"github.com/averre/globeflow/geo"
	"github.com/averre/globeflow/geodata"
)

// Globe draws the sphere backdrop: a dark disc with a silhouette
// ring, a 30-degree graticule, and country border polylines clipped
// to the visible hemisphere.
type Globe struct {
	borders []geodata.Polyline

	discColor   rl.Color
	ringColor   rl.Color
	gratColor   rl.Color
	borderColor rl.Color
}

// NewGlobe creates the globe renderer. borders may be nil.
func NewGlobe(borders []geodata.Polyline) *Globe {
	return &Globe{
		borders:     borders,
		discColor:   rl.Color{R: 12, G: 16, B: 24, A: 255},
		ringColor:   rl.Color{R: 90, G: 110, B: 130, A: 255},
		gratColor:   rl.Color{R: 50, G: 60, B: 72, A: 160},
		borderColor: rl.Color{R: 130, G: 140, B: 150, A: 200},
	}
}

// DrawBase renders the disc and silhouette ring. Both overlay and
// trails draw on top of this.
func (g *Globe) DrawBase(view *camera.View) {
	cx, cy, ok := view.Project(geo.Vec3{})
	if !ok {
		return
	}
	r := silhouetteRadius(view)
	rl.DrawCircle(int32(cx), int32(cy), float32(r), g.discColor)
	rl.DrawCircleLines(int32(cx), int32(cy), float32(r), g.ringColor)
}

// DrawLines renders the graticule and borders. Called after the
// overlay so the line work stays readable on top of it.
func (g *Globe) DrawLines(view *camera.View) {
	g.drawGraticule(view)
	for _, line := range g.borders {
		g.drawPolyline(view, line, g.borderColor)
	}
}

// silhouetteRadius is the screen radius of the globe limb. The limb
// ray tilts asin(1/d) off the view axis for an eye at distance d.
func silhouetteRadius(view *camera.View) float64 {
	d := view.Eye.Length()
	if d <= 1 {
		return view.H
	}
	return math.Tan(math.Asin(1/d)) / view.HalfH * view.H / 2
}

// drawGraticule strokes meridians and parallels every 30 degrees,
// sampled finely enough that the great-circle arcs look smooth.
func (g *Globe) drawGraticule(view *camera.View) {
	const step = 2.0
	for lon := -180.0; lon < 180; lon += 30 {
		var line geodata.Polyline
		for lat := -88.0; lat <= 88; lat += step {
			line = append(line, geo.SpherePoint(lon, lat))
		}
		g.drawPolyline(view, line, g.gratColor)
	}
	for lat := -60.0; lat <= 60; lat += 30 {
		var line geodata.Polyline
		for lon := -180.0; lon <= 180; lon += step {
			line = append(line, geo.SpherePoint(lon, lat))
		}
		g.drawPolyline(view, line, g.gratColor)
	}
}

// drawPolyline strokes the chain segment by segment, skipping any
// segment with an endpoint on the far hemisphere or off screen. The
// small tolerance hides segments that graze the silhouette.
func (g *Globe) drawPolyline(view *camera.View, line geodata.Polyline, col rl.Color) {
	const faceTolerance = 0.02
	eyeDir := view.Eye.Normalize()

	havePrev := false
	var px, py float64
	for _, p := range line {
		if p.Dot(eyeDir) <= faceTolerance {
			havePrev = false
			continue
		}
		x, y, ok := view.Project(p)
		if !ok {
			havePrev = false
			continue
		}
		if havePrev {
			rl.DrawLineV(
				rl.Vector2{X: float32(px), Y: float32(py)},
				rl.Vector2{X: float32(x), Y: float32(y)},
				col,
			)
		}
		px, py = x, y
		havePrev = true
	}
}
