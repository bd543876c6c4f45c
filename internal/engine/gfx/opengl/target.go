package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Target is an offscreen render target with a color texture and a depth
// renderbuffer. The color texture can be shown by a UI toolkit.
type Target struct {
	fbo     uint32
	color   uint32
	depth   uint32
	width   int32
	height  int32
	prevFBO int32
	prevVP  [4]int32
}

// NewTarget creates a target of the given size in pixels. Sizes below one are clamped.
func (d *Device) NewTarget(width, height int) (*Target, error) {
	t := &Target{width: clampSize(width), height: clampSize(height)}

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	gl.GenTextures(1, &t.color)
	gl.GenRenderbuffers(1, &t.depth)
	t.allocate()
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.color, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depth)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Close()
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return t, nil
}

func clampSize(n int) int32 {
	if n < 1 {
		return 1
	}
	return int32(n)
}

func (t *Target) allocate() {
	gl.BindTexture(gl.TEXTURE_2D, t.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, t.width, t.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, t.width, t.height)
}

// Resize reallocates the attachments when the size changed.
func (t *Target) Resize(width, height int) {
	w, h := clampSize(width), clampSize(height)
	if w == t.width && h == t.height {
		return
	}
	t.width, t.height = w, h
	t.allocate()
}

// Begin makes the target current and sets the viewport to cover it.
// End restores the framebuffer and viewport that were current before.
func (t *Target) Begin() {
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &t.prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &t.prevVP[0])
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.width, t.height)
}

// End restores the state saved by Begin.
func (t *Target) End() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(t.prevFBO))
	gl.Viewport(t.prevVP[0], t.prevVP[1], t.prevVP[2], t.prevVP[3])
}

// Texture returns the color attachment.
func (t *Target) Texture() uint32 { return t.color }

// Size returns the target size in pixels.
func (t *Target) Size() (width, height int) { return int(t.width), int(t.height) }

// ReadPixels reads the color attachment as bottom-up RGBA rows.
func (t *Target) ReadPixels() []byte {
	pixels := make([]byte, int(t.width)*int(t.height)*4)

	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, t.width, t.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))

	return pixels
}

// Close deletes the framebuffer and its attachments.
func (t *Target) Close() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.color != 0 {
		gl.DeleteTextures(1, &t.color)
		t.color = 0
	}
	if t.depth != 0 {
		gl.DeleteRenderbuffers(1, &t.depth)
		t.depth = 0
	}
}
