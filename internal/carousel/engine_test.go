package carousel

import (
	"math"
	"strconv"
	"testing"

	"streamflux/internal/media"
)

func matches(n int) []media.Item {
	items := make([]media.Item, n)
	for i := range items {
		items[i] = media.Item{
			ID:       strconv.Itoa(i + 1),
			Title:    "Match " + strconv.Itoa(i+1),
			Category: media.CategoryFootball,
		}
	}
	return items
}

func newEngine(t *testing.T, n int, mutate func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	e := New(cfg)
	e.Initialize(matches(n))
	return e
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// phase is the position modulo one copy: equal phases render the same frame.
func phase(pos, w float64) float64 {
	p := math.Mod(pos, w)
	if p < 0 {
		p += w
	}
	return p
}

func TestEngine_Initialize(t *testing.T) {
	t.Run("position_in_middle_copy", func(t *testing.T) {
		for _, n := range []int{3, 4, 5, 12, 40} {
			e := newEngine(t, n, nil)
			w := e.SingleSetWidth()
			pos := e.Position()
			if pos < w || pos > 2*w {
				t.Errorf("n=%d: position %v outside middle copy [%v, %v]", n, pos, w, 2*w)
			}
			if e.State() != StateRunning {
				t.Errorf("n=%d: expected running, got %v", n, e.State())
			}
		}
	})

	t.Run("empty_list_is_uninitialized", func(t *testing.T) {
		e := newEngine(t, 0, nil)
		if e.State() != StateUninitialized {
			t.Errorf("expected uninitialized, got %v", e.State())
		}
		e.Tick(1)
		e.Boost(1)
		e.JumpTo(3)
		if e.Position() != 0 {
			t.Errorf("expected position 0, got %v", e.Position())
		}
	})

	t.Run("larger_loop_starts_in_middle", func(t *testing.T) {
		e := newEngine(t, 4, func(c *Config) { c.LoopCopies = 5 })
		if want := 2 * e.SingleSetWidth(); e.Position() != want {
			t.Errorf("expected %v, got %v", want, e.Position())
		}
		if got := len(e.Looped()); got != 20 {
			t.Errorf("expected 20 looped items, got %d", got)
		}
	})

	t.Run("autoplay_threshold_inclusive", func(t *testing.T) {
		if s := newEngine(t, 2, nil).State(); s != StateIdle {
			t.Errorf("2 items: expected idle, got %v", s)
		}
		if s := newEngine(t, 3, nil).State(); s != StateRunning {
			t.Errorf("3 items: expected running, got %v", s)
		}
	})
}

func TestEngine_Tick_wraps_within_bounds(t *testing.T) {
	for _, policy := range []Policy{PolicyTrack, PolicyCentered} {
		for _, dir := range []int{1, -1} {
			name := string(policy) + "_dir_" + strconv.Itoa(dir)
			t.Run(name, func(t *testing.T) {
				e := newEngine(t, 5, func(c *Config) {
					c.Policy = policy
					c.Direction = dir
				})
				low, high := e.Bounds()
				w := e.SingleSetWidth()
				expected := e.Position()
				// Steps of varied size, some larger than a whole copy.
				steps := []float64{1, 3, 17.25, 600, 1, 5000, 0.5, 333, 9999, 2}
				for i := 0; i < 400; i++ {
					step := steps[i%len(steps)]
					e.Tick(step)
					expected += float64(dir) * e.Config().BaseSpeed * step
					pos := e.Position()
					if pos < low || pos > high {
						t.Fatalf("tick %d: position %v outside [%v, %v]", i, pos, low, high)
					}
					if d := math.Abs(phase(pos, w) - phase(expected, w)); d > 1e-6 && math.Abs(d-w) > 1e-6 {
						t.Fatalf("tick %d: wrap changed the visible frame: phase %v want %v", i, phase(pos, w), phase(expected, w))
					}
				}
			})
		}
	}
}

func TestEngine_Boost(t *testing.T) {
	t.Run("returns_to_base_after_boost_ticks", func(t *testing.T) {
		e := newEngine(t, 5, nil)
		cfg := e.Config()
		e.Boost(-1)
		if e.State() != StateBoosted {
			t.Fatalf("expected boosted, got %v", e.State())
		}
		if e.Speed() != -cfg.BoostSpeed {
			t.Errorf("expected speed %v, got %v", -cfg.BoostSpeed, e.Speed())
		}
		for i := 0; i < cfg.BoostTicks-1; i++ {
			e.Tick(1)
		}
		if e.State() != StateBoosted {
			t.Errorf("expected still boosted one tick before the end, got %v", e.State())
		}
		e.Tick(1)
		if e.Speed() != cfg.BaseSpeed {
			t.Errorf("expected speed %v after boost, got %v", cfg.BaseSpeed, e.Speed())
		}
		if e.State() != StateRunning {
			t.Errorf("expected running, got %v", e.State())
		}
	})

	t.Run("snaps_to_autoplay_direction", func(t *testing.T) {
		e := newEngine(t, 5, func(c *Config) { c.Direction = -1 })
		e.Boost(1)
		for i := 0; i < e.Config().BoostTicks; i++ {
			e.Tick(1)
		}
		if e.Speed() != -e.Config().BaseSpeed {
			t.Errorf("expected %v, got %v", -e.Config().BaseSpeed, e.Speed())
		}
	})

	t.Run("advances_while_hovered", func(t *testing.T) {
		e := newEngine(t, 5, nil)
		e.SetHovered(true)
		e.Boost(1)
		before := e.Position()
		e.Tick(1)
		if got := e.Position() - before; !near(got, e.Config().BoostSpeed) {
			t.Errorf("expected boosted advance %v, got %v", e.Config().BoostSpeed, got)
		}
		for i := 1; i < e.Config().BoostTicks; i++ {
			e.Tick(1)
		}
		if e.State() != StatePaused {
			t.Errorf("expected paused after boost while hovered, got %v", e.State())
		}
	})

	t.Run("idle_ignores_boost", func(t *testing.T) {
		e := newEngine(t, 2, nil)
		before := e.Position()
		e.Boost(1)
		e.Tick(1)
		if e.State() != StateIdle || e.Position() != before {
			t.Errorf("expected idle and unchanged, got %v at %v", e.State(), e.Position())
		}
	})
}

func TestEngine_Hover(t *testing.T) {
	e := newEngine(t, 5, nil)
	e.SetHovered(true)
	if e.State() != StatePaused {
		t.Fatalf("expected paused, got %v", e.State())
	}
	before := e.Position()
	e.Tick(1)
	e.Tick(600)
	if e.Position() != before {
		t.Errorf("hovered tick moved position from %v to %v", before, e.Position())
	}
	e.SetHovered(false)
	e.Tick(1)
	if !near(e.Position()-before, e.Config().BaseSpeed) {
		t.Errorf("expected to resume at base speed, moved %v", e.Position()-before)
	}
}

func TestEngine_HoverSlowdown(t *testing.T) {
	e := newEngine(t, 5, func(c *Config) { c.HoverSlowdown = 0.25 })
	e.SetHovered(true)
	before := e.Position()
	e.Tick(4)
	if want := 4 * 0.25 * e.Config().BaseSpeed; !near(e.Position()-before, want) {
		t.Errorf("expected slowed advance %v, got %v", want, e.Position()-before)
	}

	t.Run("no_creep_off_screen", func(t *testing.T) {
		e.SetVisible(false)
		before := e.Position()
		e.Tick(4)
		if e.Position() != before {
			t.Errorf("expected no movement while hidden")
		}
	})
}

func TestEngine_Visibility(t *testing.T) {
	e := newEngine(t, 5, nil)
	e.Tick(10)
	e.SetVisible(false)
	if e.State() != StatePaused {
		t.Fatalf("expected paused, got %v", e.State())
	}
	hidden := e.Position()
	e.Tick(10)
	if e.Position() != hidden {
		t.Errorf("hidden tick moved position")
	}
	e.SetVisible(true)
	if e.Position() != hidden {
		t.Errorf("becoming visible jumped from %v to %v", hidden, e.Position())
	}
	e.Tick(1)
	if !near(e.Position()-hidden, e.Config().BaseSpeed) {
		t.Errorf("expected resume from %v, got %v", hidden, e.Position())
	}

	t.Run("intersection_threshold", func(t *testing.T) {
		e.SetIntersection(0.29)
		if e.State() != StatePaused {
			t.Errorf("ratio 0.29: expected paused, got %v", e.State())
		}
		e.SetIntersection(0.3)
		if e.State() != StateRunning {
			t.Errorf("ratio 0.3: expected running, got %v", e.State())
		}
	})
}

func TestEngine_JumpTo(t *testing.T) {
	const n = 5
	for _, k := range []int{-11, -5, -1, 0, 3, 5, 7, 42} {
		a := newEngine(t, n, nil)
		b := newEngine(t, n, nil)
		a.JumpTo(k)
		b.JumpTo(mod(k, n))
		if a.Position() != b.Position() {
			t.Errorf("JumpTo(%d)=%v, JumpTo(%d)=%v", k, a.Position(), mod(k, n), b.Position())
		}
		if got := a.LeadingIndex(); got != mod(k, n) {
			t.Errorf("JumpTo(%d): leading index %d, want %d", k, got, mod(k, n))
		}
	}

	t.Run("centered", func(t *testing.T) {
		e := newEngine(t, n, func(c *Config) { c.Policy = PolicyCentered })
		e.JumpTo(-2)
		if got := e.CenterIndex(); got != 3 {
			t.Errorf("expected center 3, got %d", got)
		}
		low, high := e.Bounds()
		if p := e.Position(); p < low || p > high {
			t.Errorf("position %v outside [%v, %v]", p, low, high)
		}
	})
}

func TestEngine_SelectSlot(t *testing.T) {
	e := newEngine(t, 5, func(c *Config) { c.Policy = PolicyCentered })
	e.JumpTo(1)
	e.SelectSlot(2)
	if got := e.CenterIndex(); got != 3 {
		t.Errorf("expected center 3, got %d", got)
	}
	e.SelectSlot(-4)
	if got := e.CenterIndex(); got != 4 {
		t.Errorf("expected center 4, got %d", got)
	}
}

func TestEngine_Slots(t *testing.T) {
	e := newEngine(t, 5, func(c *Config) { c.Policy = PolicyCentered })
	e.JumpTo(0)
	slots := e.Slots()
	if len(slots) != 5 {
		t.Fatalf("expected 5 slots, got %d", len(slots))
	}
	wantIdx := []int{3, 4, 0, 1, 2}
	for i, s := range slots {
		if s.Index != wantIdx[i] {
			t.Errorf("slot %d: index %d, want %d", i, s.Index, wantIdx[i])
		}
	}
	if c := slots[2].Visual; c.Scale != 1 || c.Opacity != 1 {
		t.Errorf("center slot visual %+v", c)
	}
	if v := slots[0].Visual; v.Scale != 0.7 || v.Opacity != 0.5 || v.Blur != 2 {
		t.Errorf("edge slot visual %+v", v)
	}

	// A quarter item later the center has shrunk and the next slot grown.
	e.Tick(e.Config().ItemWidth / 4 / e.Config().BaseSpeed)
	slots = e.Slots()
	if slots[2].Visual.Scale >= 1 || slots[3].Visual.Scale <= 0.85 {
		t.Errorf("expected interpolated scales, got center %v next %v", slots[2].Visual.Scale, slots[3].Visual.Scale)
	}
}

func TestEngine_SetItems(t *testing.T) {
	e := newEngine(t, 5, nil)
	e.Tick(100)
	moved := e.Position()

	if e.SetItems(matches(5)) {
		t.Error("same ids should not re-initialize")
	}
	if e.Position() != moved {
		t.Error("position changed on identical list")
	}
	if !e.SetItems(matches(6)) {
		t.Error("changed ids should re-initialize")
	}
	if want := e.SingleSetWidth(); e.Position() != want {
		t.Errorf("expected %v, got %v", want, e.Position())
	}
	e.Reset()
	if e.State() != StateUninitialized {
		t.Errorf("expected uninitialized after reset, got %v", e.State())
	}
}

func TestEngine_Nudge(t *testing.T) {
	e := newEngine(t, 5, nil)
	start := e.Position()
	e.Nudge(-1, 400)
	if !near(phase(e.Position(), 1600), phase(start-400, 1600)) {
		t.Errorf("expected nudge by -400, got %v from %v", e.Position(), start)
	}
	low, high := e.Bounds()
	if p := e.Position(); p < low || p > high {
		t.Errorf("position %v outside [%v, %v]", p, low, high)
	}
}

func TestEngine_Measure(t *testing.T) {
	e := newEngine(t, 5, nil)
	e.JumpTo(2)
	before := e.LeadingIndex()
	e.Measure(NewViewport(1000, 3*5*200))
	if e.SingleSetWidth() != 1000 {
		t.Errorf("expected single set width 1000, got %v", e.SingleSetWidth())
	}
	if e.LeadingIndex() != before {
		t.Errorf("leading index changed from %d to %d", before, e.LeadingIndex())
	}
	// Viewport midpoint is 500px = 2.5 items past the leading edge.
	if got, want := e.CenterIndex(), mod(before+2, 5); got != want {
		t.Errorf("expected center %d, got %d", want, got)
	}
}

func TestEngine_Sync(t *testing.T) {
	e := newEngine(t, 5, nil)
	vp := NewViewport(1280, 3*1600)

	t.Run("adopts_drag_and_snaps", func(t *testing.T) {
		vp.SetScrollOffset(100)
		if !e.Sync(vp) {
			t.Fatal("expected a snap")
		}
		if e.Position() != 1700 || vp.ScrollOffset() != 1700 {
			t.Errorf("expected 1700, got engine %v viewport %v", e.Position(), vp.ScrollOffset())
		}
	})

	t.Run("ignores_rounding", func(t *testing.T) {
		e.Tick(1)
		vp.SetScrollOffset(math.Round(e.Position()))
		before := e.Position()
		if e.Sync(vp) || e.Position() != before {
			t.Errorf("sub-pixel difference should be ignored")
		}
	})

	t.Run("centered_policy_ignores_native_offset", func(t *testing.T) {
		c := newEngine(t, 5, func(c *Config) { c.Policy = PolicyCentered })
		before := c.Position()
		if c.Sync(vp) || c.Position() != before {
			t.Error("centered engine must not sync")
		}
	})
}

func TestEngine_Snapshot(t *testing.T) {
	e := newEngine(t, 5, func(c *Config) { c.Policy = PolicyCentered })
	s := e.Snapshot()
	if s.State != StateRunning || s.ItemCount != 5 || s.LoopedLength != 15 {
		t.Errorf("unexpected snapshot %+v", s)
	}
	if s.WrapLow != 1600 || s.WrapHigh != 3200 {
		t.Errorf("expected bounds [1600, 3200], got [%v, %v]", s.WrapLow, s.WrapHigh)
	}
	if len(s.Slots) != 5 {
		t.Errorf("expected 5 slots, got %d", len(s.Slots))
	}
	if len(newEngine(t, 5, nil).Snapshot().Slots) != 0 {
		t.Error("track snapshot should omit slots")
	}
}

func TestEndToEnd_five_matches_batch(t *testing.T) {
	e := newEngine(t, 5, func(c *Config) {
		c.MinItemsForAutoplay = 3
		c.BaseSpeed = 0.5
		c.ItemWidth = 320
	})
	start := e.Position()
	step := DefaultBatchStep / e.Config().BaseSpeed

	// 6000ms at a 3000ms batch interval.
	for elapsed := 3000; elapsed <= 6000; elapsed += 3000 {
		e.Tick(step)
	}

	w := e.SingleSetWidth()
	if !near(phase(e.Position(), w), phase(start+600, w)) {
		t.Errorf("expected net advance of 600px, got position %v from %v", e.Position(), start)
	}
	want := mod(int(math.Floor(e.Position()/320)), 5)
	if got := e.LeadingIndex(); got != want || got != 1 {
		t.Errorf("leading index %d, want %d (1)", got, want)
	}
}

func TestEndToEnd_single_item_idle(t *testing.T) {
	e := newEngine(t, 1, nil)
	if e.State() != StateIdle {
		t.Fatalf("expected idle, got %v", e.State())
	}
	before := e.Position()
	for i := 0; i < 10; i++ {
		e.Tick(600)
	}
	if e.Position() != before {
		t.Errorf("idle tick moved position")
	}
	if e.LeadingIndex() != 0 || e.CenterIndex() != 0 {
		t.Errorf("single item should always be shown")
	}
}

func TestState_String(t *testing.T) {
	if StateBoosted.String() != "boosted" || State(99).String() != "unknown" {
		t.Error("unexpected state names")
	}
}

func TestEngine_track_grows_copies_for_wide_viewport(t *testing.T) {
	e := newEngine(t, 3, func(c *Config) { c.ItemWidth = 192 })
	w := e.SingleSetWidth()
	e.SetViewportWidth(1280)

	if got := e.LoopCopies(); got != 5 {
		t.Fatalf("expected 5 copies, got %d", got)
	}
	if got := len(e.Looped()); got != 15 {
		t.Errorf("expected 15 looped items, got %d", got)
	}
	low, high := e.Bounds()
	if high-low < w {
		t.Errorf("band [%v, %v] narrower than one copy", low, high)
	}

	vp := NewViewport(1280, e.ContentWidth())
	vp.SetScrollOffset(e.Position())
	start := e.Position()
	const ticks = 2000
	for i := 0; i < ticks; i++ {
		e.Sync(vp)
		e.Tick(1)
		vp.SetScrollOffset(e.Position())
	}
	want := phase(start+ticks*e.Config().BaseSpeed, w)
	if got := phase(e.Position(), w); !near(got, want) {
		t.Errorf("expected phase %v after %d ticks, got %v (position %v)", want, ticks, got, e.Position())
	}
	if vp.ScrollOffset() != e.Position() {
		t.Errorf("viewport clamped to %v, engine at %v", vp.ScrollOffset(), e.Position())
	}

	t.Run("narrow_viewport_keeps_configured_layout", func(t *testing.T) {
		e := newEngine(t, 5, nil)
		e.SetViewportWidth(1280)
		low, high := e.Bounds()
		if e.LoopCopies() != 3 || low != 800 || high != 2400 {
			t.Errorf("expected 3 copies and [800, 2400], got %d and [%v, %v]", e.LoopCopies(), low, high)
		}
	})

	t.Run("centered_policy_ignores_viewport", func(t *testing.T) {
		e := newEngine(t, 3, func(c *Config) { c.ItemWidth = 192; c.Policy = PolicyCentered })
		e.SetViewportWidth(1280)
		if e.LoopCopies() != 3 {
			t.Errorf("expected 3 copies, got %d", e.LoopCopies())
		}
	})
}

func TestEngine_Nudge_rejects_non_finite(t *testing.T) {
	e := newEngine(t, 5, nil)
	before := e.Position()
	e.Nudge(1, math.Inf(1))
	e.Nudge(-1, math.NaN())
	if e.Position() != before || math.IsNaN(e.Position()) {
		t.Errorf("expected position %v unchanged, got %v", before, e.Position())
	}
}
