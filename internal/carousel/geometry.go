package carousel

import "sync"

// Geometry is the render target a carousel reads its layout from and writes
// its scroll offset to. A browser viewport, a native view or a terminal can
// implement it.
type Geometry interface {
	ScrollOffset() float64
	ViewportWidth() float64
	ContentWidth() float64
	SetScrollOffset(x float64)
}

// ContentSizer is implemented by render targets that can re-layout the strip
// when the engine needs more copies.
type ContentSizer interface {
	SetContentWidth(w float64)
}

// Viewport is an in-memory Geometry. Like a browser scroller it clamps the
// offset to [0, content-viewport]. Safe for concurrent use.
type Viewport struct {
	mu       sync.Mutex
	offset   float64
	viewport float64
	content  float64
}

// NewViewport returns a Viewport of the given widths scrolled to 0.
func NewViewport(viewportWidth, contentWidth float64) *Viewport {
	return &Viewport{viewport: viewportWidth, content: contentWidth}
}

// ScrollOffset implements Geometry.
func (v *Viewport) ScrollOffset() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.offset
}

// ViewportWidth implements Geometry.
func (v *Viewport) ViewportWidth() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewport
}

// ContentWidth implements Geometry.
func (v *Viewport) ContentWidth() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.content
}

// SetScrollOffset implements Geometry.
func (v *Viewport) SetScrollOffset(x float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = v.clampLocked(x)
}

// SetContentWidth changes the content width after the strip is laid out
// again, re-clamping the offset.
func (v *Viewport) SetContentWidth(w float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.content = w
	v.offset = v.clampLocked(v.offset)
}

// Resize changes the widths and re-clamps the current offset.
func (v *Viewport) Resize(viewportWidth, contentWidth float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewport, v.content = viewportWidth, contentWidth
	v.offset = v.clampLocked(v.offset)
}

func (v *Viewport) clampLocked(x float64) float64 {
	max := v.content - v.viewport
	if max < 0 {
		max = 0
	}
	switch {
	case x < 0:
		return 0
	case x > max:
		return max
	}
	return x
}
