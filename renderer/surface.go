package renderer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dissolve/viewport"
)

// Surface is the backing render texture the particles are drawn into. It is
// sized to the layout stage times the capped device pixel ratio and is
// composited onto the screen with the frame opacity.
type Surface struct {
	target rl.RenderTexture2D
	width  int32
	height int32
	loaded bool
}

// NewSurface creates an empty surface. Call Sync before the first Begin.
func NewSurface() *Surface {
	return &Surface{}
}

// Sync recreates the render texture when the backing size of vp changed.
// It reports whether a new texture was allocated.
func (s *Surface) Sync(vp *viewport.Viewport) bool {
	w, h := vp.BackingSize()
	if s.loaded && w == s.width && h == s.height {
		return false
	}
	s.Unload()
	s.target = rl.LoadRenderTexture(w, h)
	s.width, s.height = w, h
	s.loaded = s.target.ID != 0
	slog.Debug("surface resized", "width", w, "height", h, "scale", vp.Scale())
	return true
}

// Size returns the backing size in device pixels.
func (s *Surface) Size() (w, h int32) {
	return s.width, s.height
}

// Begin starts drawing into the surface and clears it to transparent.
func (s *Surface) Begin() {
	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Blank)
}

// End finishes drawing into the surface.
func (s *Surface) End() {
	rl.EndTextureMode()
}

// Composite draws the surface over dst (screen px) at the given opacity.
// The texture holds premultiplied color, so the tint scales every channel.
func (s *Surface) Composite(dst rl.Rectangle, opacity float32) {
	if !s.loaded || opacity <= 0 {
		return
	}
	if opacity > 1 {
		opacity = 1
	}
	o := uint8(opacity*255 + 0.5)

	// Render textures are stored upside down (OpenGL convention)
	src := rl.Rectangle{X: 0, Y: float32(s.height), Width: float32(s.width), Height: -float32(s.height)}
	rl.BeginBlendMode(rl.BlendAlphaPremultiply)
	rl.DrawTexturePro(s.target.Texture, src, dst, rl.Vector2{}, 0, rl.Color{R: o, G: o, B: o, A: o})
	rl.EndBlendMode()
}

// Image reads the surface back to an image, flipped upright.
// The caller must unload it.
func (s *Surface) Image() *rl.Image {
	img := rl.LoadImageFromTexture(s.target.Texture)
	rl.ImageFlipVertical(img)
	return img
}

// Unload releases the render texture.
func (s *Surface) Unload() {
	if s.loaded {
		rl.UnloadRenderTexture(s.target)
	}
	s.target = rl.RenderTexture2D{}
	s.loaded = false
}
