package systems

import (
	"image/color"

	"github.com/averre/globeflow/camera"
	"github.com/averre/globeflow/field"
)

// TrailSegment is one screen-space particle trail segment, ready to draw.
type TrailSegment struct {
	X1, Y1 float64
	X2, Y2 float64
	Color  color.RGBA
}

// RenderContext carries the per-tick state shared by advection, overlay
// computation, and drawing. The app rebuilds the mutable parts each tick;
// the View snapshot is taken once so every stage projects with the same
// camera even if input arrives mid-frame.
type RenderContext struct {
	Tick uint64
	View camera.View

	// Active fields for the selected level. Either may be nil when no
	// level of that kind is loaded.
	Wind *field.VectorField
	Temp *field.ScalarField

	// Segments is filled by the advection pass and consumed by the
	// trail renderer. Reused across ticks to avoid reallocation.
	Segments []TrailSegment
}

// Reset prepares the context for a new tick without dropping backing
// storage.
func (rc *RenderContext) Reset(tick uint64, view camera.View) {
	rc.Tick = tick
	rc.View = view
	rc.Segments = rc.Segments[:0]
}
