// Package renderer adapts the computed visualization state to raylib
// draw calls: the particle trail accumulation texture, the overlay
// texture upload, and the globe line work (silhouette, graticule,
// borders).
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/averre/globeflow/systems"
)

// TrailCanvas accumulates particle trail segments on a persistent
// render texture. Each tick the canvas is faded toward black by a
// translucent rectangle instead of being cleared, which leaves the
// comet-tail afterglow, and the whole texture is composited
// additively over the globe.
type TrailCanvas struct {
	target rl.RenderTexture2D
	width  int32
	height int32
}

// NewTrailCanvas allocates the render texture at viewport size.
func NewTrailCanvas(width, height int32) *TrailCanvas {
	c := &TrailCanvas{
		target: rl.LoadRenderTexture(width, height),
		width:  width,
		height: height,
	}
	c.Clear()
	return c
}

// Clear wipes the canvas completely. Used when the camera moved
// significantly or the level changed, so stale trails never smear
// across a new viewpoint.
func (c *TrailCanvas) Clear() {
	rl.BeginTextureMode(c.target)
	rl.ClearBackground(rl.Blank)
	rl.EndTextureMode()
}

// Draw fades the canvas by fadeAlpha and strokes this tick's
// segments. Segment colors already carry their age-faded alpha.
func (c *TrailCanvas) Draw(segments []systems.TrailSegment, fadeAlpha uint8, lineWidth float32) {
	rl.BeginTextureMode(c.target)
	rl.DrawRectangle(0, 0, c.width, c.height, rl.Color{A: fadeAlpha})
	for i := range segments {
		s := &segments[i]
		rl.DrawLineEx(
			rl.Vector2{X: float32(s.X1), Y: float32(s.Y1)},
			rl.Vector2{X: float32(s.X2), Y: float32(s.Y2)},
			lineWidth,
			rl.Color{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: s.Color.A},
		)
	}
	rl.EndTextureMode()
}

// Composite draws the canvas over the scene with additive blending.
// Render textures are stored bottom-up, so the source rect flips Y.
func (c *TrailCanvas) Composite() {
	rl.BeginBlendMode(rl.BlendAdditive)
	rl.DrawTexturePro(
		c.target.Texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(c.width), Height: -float32(c.height)},
		rl.Rectangle{X: 0, Y: 0, Width: float32(c.width), Height: float32(c.height)},
		rl.Vector2{},
		0,
		rl.White,
	)
	rl.EndBlendMode()
}

// Resize reallocates the texture for a new viewport.
func (c *TrailCanvas) Resize(width, height int32) {
	if width == c.width && height == c.height {
		return
	}
	rl.UnloadRenderTexture(c.target)
	c.target = rl.LoadRenderTexture(width, height)
	c.width = width
	c.height = height
	c.Clear()
}

// Unload frees the render texture.
func (c *TrailCanvas) Unload() {
	rl.UnloadRenderTexture(c.target)
}
