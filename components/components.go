// Package components defines ECS components for tracer particles.
package components

// Tracer is a particle advected through the active wind field.
// Lon stays in [-180, 180) and Lat in the open interval (-90, 90);
// the advection step clamps pole crossings to a near-pole epsilon.
type Tracer struct {
	Lon, Lat float64
	Age      float64
}

// Trail is the transient render state of a tracer: the screen
// position it was last drawn at. Invalidated wholesale when the
// camera moves significantly or the active level changes, and after
// pole crossings so no segment is drawn across a pole.
type Trail struct {
	HasPrev bool
	X, Y    float64
}
