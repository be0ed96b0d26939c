// Package carousel drives an apparently infinite, auto-scrolling strip of
// media items.
//
// The item list is repeated LoopCopies times and a virtual scroll position
// moves across the repetition. Whenever the position leaves the wrap band it
// is moved by exactly one copy width, which lands on an identical frame, so
// the jump cannot be seen. Autoplay runs while the viewport is visible and not
// hovered; manual next/previous triggers a short boost.
package carousel

import (
	"math"
	"sync"

	"streamflux/internal/media"
)

// State is the lifecycle state of an Engine.
type State int

const (
	// StateUninitialized: no items; nothing is rendered.
	StateUninitialized State = iota
	// StateIdle: fewer items than MinItemsForAutoplay; rendered statically.
	StateIdle
	// StateRunning: autoplay advancing.
	StateRunning
	// StatePaused: hovered or off-screen.
	StatePaused
	// StateBoosted: temporary high-speed override after a manual next/previous.
	StateBoosted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateBoosted:
		return "boosted"
	}
	return "unknown"
}

// MarshalText lets State appear by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Engine owns the state of one carousel. All methods are safe for concurrent
// use; a Driver ticks it from its own goroutine while hover and visibility
// signals arrive from elsewhere.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	items     []media.Item
	itemWidth float64
	viewport  float64

	// copies and the wrap band in copies are the effective layout. For the
	// track policy they grow past the configured values so that a viewport
	// wider than one copy still has room to scroll.
	copies      int
	wrapLow     float64
	wrapHigh    float64
	defaultBand bool

	position  float64
	speed     float64
	boostLeft int
	hovered   bool
	visible   bool
}

// New returns an uninitialized Engine. The viewport starts out visible and
// not hovered.
func New(cfg Config) *Engine {
	cfg = cfg.normalized()
	e := &Engine{
		cfg:       cfg,
		itemWidth: cfg.ItemWidth,
		speed:     float64(cfg.Direction) * cfg.BaseSpeed,
		visible:   true,
		defaultBand: cfg.Policy == PolicyTrack &&
			cfg.WrapLow == 0.5 && cfg.WrapHigh == float64(cfg.LoopCopies)-1.5,
	}
	e.layoutLocked()
	return e
}

// Config returns the normalised configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Initialize loads items and resets the position to the start of the middle
// copy. An empty list leaves the engine uninitialized. Hover and visibility
// are properties of the viewport and survive re-initialisation.
func (e *Engine) Initialize(items []media.Item) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initializeLocked(items)
}

// SetItems re-initializes only when the id sequence differs from the current
// one, and reports whether it did.
func (e *Engine) SetItems(items []media.Item) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sameIDs(e.items, items) {
		return false
	}
	e.initializeLocked(items)
	return true
}

// Reset returns the engine to StateUninitialized, as when the list empties or
// the owning view goes away.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initializeLocked(nil)
}

func (e *Engine) initializeLocked(items []media.Item) {
	e.items = append([]media.Item(nil), items...)
	e.boostLeft = 0
	e.speed = float64(e.cfg.Direction) * e.cfg.BaseSpeed
	e.layoutLocked()
	e.position = e.middleLocked()
	if len(e.items) > 0 {
		e.wrapLocked()
	}
}

// Tick advances the position by speed*step and wraps it into the band.
// It does nothing unless the engine is running or boosted, except that a
// hovered, visible carousel creeps at HoverSlowdown*BaseSpeed when that is set.
// Each call counts as one tick of a boost.
func (e *Engine) Tick(step float64) {
	if !(step > 0) || math.IsInf(step, 0) {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.stateLocked() {
	case StateBoosted:
		e.advanceLocked(e.speed * step)
		e.boostLeft--
		if e.boostLeft == 0 {
			e.speed = float64(e.cfg.Direction) * e.cfg.BaseSpeed
		}
	case StateRunning:
		e.advanceLocked(e.speed * step)
	case StatePaused:
		if e.hovered && e.visible && e.cfg.HoverSlowdown > 0 {
			e.advanceLocked(e.speed * e.cfg.HoverSlowdown * step)
		}
	}
}

// Boost switches to BoostSpeed in the given direction for BoostTicks ticks;
// afterwards speed snaps back to the autoplay direction at BaseSpeed.
// A zero direction means the autoplay direction. Boosted ticks advance even
// while paused, since they answer an explicit user action.
func (e *Engine) Boost(direction int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.items) < e.cfg.MinItemsForAutoplay {
		return
	}
	e.speed = float64(sign(direction, e.cfg.Direction)) * e.cfg.BoostSpeed
	e.boostLeft = e.cfg.BoostTicks
}

// Nudge moves the strip by pixels in the given direction at once, like the
// previous/next arrows of a plain scroll row.
func (e *Engine) Nudge(direction int, pixels float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.items) == 0 || !(pixels > 0) || math.IsInf(pixels, 0) {
		return
	}
	e.advanceLocked(float64(sign(direction, e.cfg.Direction)) * pixels)
}

// SetHovered records pointer hover over the viewport.
func (e *Engine) SetHovered(hovered bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hovered = hovered
}

// SetVisible records whether the viewport is on screen.
func (e *Engine) SetVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = visible
}

// SetIntersection maps an intersection ratio (0..1) to visibility using
// VisibilityThreshold.
func (e *Engine) SetIntersection(ratio float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = ratio >= e.cfg.VisibilityThreshold
}

// JumpTo centers item index directly, without passing through the items in
// between. Out-of-range indexes wrap with a non-negative modulo.
func (e *Engine) JumpTo(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jumpLocked(index)
}

// SelectSlot re-centers on the slot offset positions away from the center,
// as when a non-center slot is clicked.
func (e *Engine) SelectSlot(offset int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.items) == 0 || offset == 0 {
		return
	}
	e.jumpLocked(e.centerIndexLocked() + offset)
}

func (e *Engine) jumpLocked(index int) {
	n := len(e.items)
	if n == 0 {
		return
	}
	e.position = e.middleLocked() + float64(mod(index, n))*e.itemWidth
	e.wrapLocked()
}

// Measure derives the item width from the rendered content width, which
// holds LoopCopies copies as currently laid out, and records the viewport
// width. The position is rescaled so the same item and sub-item offset stay
// in place. A track carousel may need more copies afterwards; renderers
// should lay out Looped again when LoopCopies changes.
func (e *Engine) Measure(g Geometry) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if v := g.ViewportWidth(); v > 0 && !math.IsInf(v, 0) {
		e.viewport = v
	}
	n := len(e.items)
	content := g.ContentWidth()
	if n > 0 && content > 0 && !math.IsInf(content, 0) {
		w := content / float64(e.copies*n)
		e.position = e.position / e.itemWidth * w
		e.itemWidth = w
	}
	e.relayoutLocked()
}

// SetViewportWidth records the viewport width without re-deriving the item
// width.
func (e *Engine) SetViewportWidth(width float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !(width > 0) || math.IsInf(width, 0) {
		return
	}
	e.viewport = width
	e.relayoutLocked()
}

// LoopCopies returns the number of copies currently laid out.
func (e *Engine) LoopCopies() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copies
}

// ContentWidth returns the width of the laid out strip.
func (e *Engine) ContentWidth() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.copies) * e.setWidthLocked()
}

// Sync adopts the native scroll offset of a track carousel, which may have
// been dragged by the user, and snaps it back into the wrap band. It writes
// the snapped offset back to g and reports whether a snap happened.
func (e *Engine) Sync(g Geometry) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cfg.Policy != PolicyTrack || len(e.items) == 0 {
		return false
	}
	// Renderers round the offset to whole pixels; differences below
	// syncTolerance are that rounding, not a drag, and keep the fraction.
	offset := g.ScrollOffset()
	if math.Abs(offset-e.position) <= syncTolerance {
		return false
	}
	e.position = offset
	e.wrapLocked()
	if e.position != offset {
		g.SetScrollOffset(e.position)
		return true
	}
	return false
}

const syncTolerance = 0.5

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Position returns the virtual scroll offset.
func (e *Engine) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

// Speed returns the signed speed in pixels per tick.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// Bounds returns the wrap band [low, high] in pixels.
func (e *Engine) Bounds() (low, high float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.boundsLocked()
}

// SingleSetWidth returns the width of one copy of the list.
func (e *Engine) SingleSetWidth() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setWidthLocked()
}

// LeadingIndex returns the item at the leading edge of the viewport.
func (e *Engine) LeadingIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.leadingIndexLocked()
}

// CenterIndex returns the logical centered item: the nearest item for the
// centered policy, the item under the viewport midpoint for the track policy
// (the leading item while the viewport width is unknown).
func (e *Engine) CenterIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.centerIndexLocked()
}

// Items returns a copy of the loaded items.
func (e *Engine) Items() []media.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]media.Item(nil), e.items...)
}

// Looped returns the items repeated LoopCopies times, as they are laid out.
func (e *Engine) Looped() []media.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]media.Item, 0, len(e.items)*e.copies)
	for i := 0; i < e.copies; i++ {
		out = append(out, e.items...)
	}
	return out
}

// Slot is one position of the centered window.
type Slot struct {
	Offset int    `json:"offset"`
	Index  int    `json:"index"`
	ItemID string `json:"itemId"`
	Visual Visual `json:"visual"`
}

// Slots returns the VisibleSlots window around the center, nearest first
// ordering left to right. Distances include the sub-item progress of the
// position so scale and opacity change smoothly between ticks.
func (e *Engine) Slots() []Slot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.slotsLocked()
}

func (e *Engine) slotsLocked() []Slot {
	n := len(e.items)
	if n == 0 {
		return nil
	}
	half := e.cfg.VisibleSlots / 2
	center := e.centerIndexLocked()
	frac := 0.0
	if e.cfg.Policy == PolicyCentered {
		x := e.position / e.itemWidth
		frac = x - math.Floor(x+0.5)
	}
	slots := make([]Slot, 0, e.cfg.VisibleSlots)
	for off := -half; off <= half; off++ {
		idx := mod(center+off, n)
		slots = append(slots, Slot{
			Offset: off,
			Index:  idx,
			ItemID: e.items[idx].ID,
			Visual: VisualParams(float64(off) - frac),
		})
	}
	return slots
}

// Snapshot is a read-only view of the engine for renderers and APIs.
type Snapshot struct {
	State          State   `json:"state"`
	Policy         Policy  `json:"policy"`
	ItemCount      int     `json:"itemCount"`
	LoopCopies     int     `json:"loopCopies"`
	LoopedLength   int     `json:"loopedLength"`
	ItemWidth      float64 `json:"itemWidth"`
	SingleSetWidth float64 `json:"singleSetWidth"`
	Position       float64 `json:"position"`
	WrapLow        float64 `json:"wrapLow"`
	WrapHigh       float64 `json:"wrapHigh"`
	Speed          float64 `json:"speed"`
	BoostLeft      int     `json:"boostLeft"`
	Hovered        bool    `json:"hovered"`
	Visible        bool    `json:"visible"`
	LeadingIndex   int     `json:"leadingIndex"`
	CenterIndex    int     `json:"centerIndex"`
	Slots          []Slot  `json:"slots,omitempty"`
}

// Snapshot captures the current state. Slots are filled for the centered policy.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	low, high := e.boundsLocked()
	s := Snapshot{
		State:          e.stateLocked(),
		Policy:         e.cfg.Policy,
		ItemCount:      len(e.items),
		LoopCopies:     e.copies,
		LoopedLength:   len(e.items) * e.copies,
		ItemWidth:      e.itemWidth,
		SingleSetWidth: e.setWidthLocked(),
		Position:       e.position,
		WrapLow:        low,
		WrapHigh:       high,
		Speed:          e.speed,
		BoostLeft:      e.boostLeft,
		Hovered:        e.hovered,
		Visible:        e.visible,
		LeadingIndex:   e.leadingIndexLocked(),
		CenterIndex:    e.centerIndexLocked(),
	}
	if e.cfg.Policy == PolicyCentered {
		s.Slots = e.slotsLocked()
	}
	return s
}

func (e *Engine) stateLocked() State {
	n := len(e.items)
	switch {
	case n == 0:
		return StateUninitialized
	case n < e.cfg.MinItemsForAutoplay:
		return StateIdle
	case e.boostLeft > 0:
		return StateBoosted
	case e.hovered || !e.visible:
		return StatePaused
	}
	return StateRunning
}

func (e *Engine) setWidthLocked() float64 {
	return float64(len(e.items)) * e.itemWidth
}

func (e *Engine) middleLocked() float64 {
	return e.setWidthLocked() * float64(e.copies/2)
}

func (e *Engine) boundsLocked() (float64, float64) {
	w := e.setWidthLocked()
	return w * e.wrapLow, w * e.wrapHigh
}

// layoutLocked derives the copy count and wrap band from the configuration,
// the item count and the viewport width.
//
// A track strip can only scroll to copies*W - viewport, so the band must end
// below that, half a copy short for slack, and still be a copy wide:
// copies >= 2 + v with v the viewport in copies. copies >= 2v also keeps the
// start of the middle copy inside the band.
func (e *Engine) layoutLocked() {
	e.copies = e.cfg.LoopCopies
	e.wrapLow, e.wrapHigh = e.cfg.WrapLow, e.cfg.WrapHigh

	w := e.setWidthLocked()
	if e.cfg.Policy != PolicyTrack || w <= 0 || e.viewport <= 0 {
		return
	}
	v := e.viewport / w
	need := math.Max(math.Ceil(2+v), math.Ceil(2*v))
	for float64(e.copies) < need {
		e.copies += 2
	}
	if e.defaultBand {
		e.wrapHigh = float64(e.copies) - 1.5
	}
	limit := float64(e.copies) - 0.5 - v
	if e.wrapHigh > limit {
		e.wrapHigh = limit
	}
	if e.wrapHigh-e.wrapLow < 1 {
		e.wrapLow, e.wrapHigh = 0.5, limit
	}
}

func (e *Engine) relayoutLocked() {
	e.layoutLocked()
	if len(e.items) > 0 {
		e.wrapLocked()
	}
}

func (e *Engine) advanceLocked(delta float64) {
	e.position += delta
	e.wrapLocked()
}

// wrapLocked teleports the position by whole copies until it is inside the
// band. The band is at least one copy wide, so a landing spot always exists.
func (e *Engine) wrapLocked() {
	w := e.setWidthLocked()
	if w <= 0 {
		e.position = 0
		return
	}
	low, high := e.boundsLocked()
	if e.position > high {
		k := math.Ceil((e.position - high) / w)
		e.position -= k * w
	}
	if e.position < low {
		k := math.Ceil((low - e.position) / w)
		e.position += k * w
	}
	// Guard against rounding at the band edges.
	for e.position > high {
		e.position -= w
	}
	for e.position < low {
		e.position += w
	}
}

func (e *Engine) leadingIndexLocked() int {
	n := len(e.items)
	if n == 0 {
		return 0
	}
	return mod(int(math.Floor(e.position/e.itemWidth)), n)
}

func (e *Engine) centerIndexLocked() int {
	n := len(e.items)
	if n == 0 {
		return 0
	}
	if e.cfg.Policy == PolicyCentered {
		return mod(int(math.Floor(e.position/e.itemWidth+0.5)), n)
	}
	if e.viewport <= 0 {
		return e.leadingIndexLocked()
	}
	return mod(int(math.Floor((e.position+e.viewport/2)/e.itemWidth)), n)
}

// mod is the non-negative remainder of a divided by n.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

func sameIDs(a, b []media.Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
