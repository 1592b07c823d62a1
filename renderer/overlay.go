package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/averre/globeflow/systems"
)

// OverlayTexture holds the GPU copy of the published overlay raster.
// The CPU buffer is uploaded only when a new generation arrives, so
// steady frames cost a single textured quad.
type OverlayTexture struct {
	texture rl.Texture2D
	width   int32
	height  int32
	lastGen uint64
	hasData bool
}

// NewOverlayTexture allocates a transparent texture at viewport size.
func NewOverlayTexture(width, height int32) *OverlayTexture {
	img := rl.GenImageColor(int(width), int(height), rl.Blank)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	return &OverlayTexture{texture: tex, width: width, height: height}
}

// Update uploads the published image if it is new. A nil image hides
// the overlay (the scheduler cleared it); mismatched dimensions are
// skipped, a resize pass will replace the texture first.
func (o *OverlayTexture) Update(img *systems.OverlayImage) {
	if img == nil {
		o.hasData = false
		return
	}
	if int32(img.W) != o.width || int32(img.H) != o.height {
		return
	}
	if o.hasData && img.Gen == o.lastGen {
		return
	}
	rl.UpdateTexture(o.texture, img.Pix)
	o.lastGen = img.Gen
	o.hasData = true
}

// Draw composites the overlay over the globe. Alpha lives in the
// pixels themselves.
func (o *OverlayTexture) Draw() {
	if !o.hasData {
		return
	}
	rl.DrawTexture(o.texture, 0, 0, rl.White)
}

// Resize reallocates the texture for a new viewport and drops the
// stale image.
func (o *OverlayTexture) Resize(width, height int32) {
	if width == o.width && height == o.height {
		return
	}
	rl.UnloadTexture(o.texture)
	img := rl.GenImageColor(int(width), int(height), rl.Blank)
	o.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	o.width = width
	o.height = height
	o.hasData = false
}

// Unload frees the texture.
func (o *OverlayTexture) Unload() {
	rl.UnloadTexture(o.texture)
}
