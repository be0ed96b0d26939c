package carousel

import "testing"

func TestVisualParams(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		want     Visual
	}{
		{"center", 0, Visual{Scale: 1, Opacity: 1, Blur: 0}},
		{"neighbour", 1, Visual{Scale: 0.85, Opacity: 0.7, Blur: 0}},
		{"neighbour_left", -1, Visual{Scale: 0.85, Opacity: 0.7, Blur: 0}},
		{"edge", 2, Visual{Scale: 0.7, Opacity: 0.5, Blur: 2}},
		{"halfway_to_edge", 1.5, Visual{Scale: 0.775, Opacity: 0.6, Blur: 1}},
		{"outside_window", 3, Visual{Scale: 0.7, Opacity: 0, Blur: 4}},
		{"far_outside", -12, Visual{Scale: 0.7, Opacity: 0, Blur: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisualParams(tt.distance)
			if !near(got.Scale, tt.want.Scale) || !near(got.Opacity, tt.want.Opacity) || !near(got.Blur, tt.want.Blur) {
				t.Errorf("VisualParams(%v) = %+v, want %+v", tt.distance, got, tt.want)
			}
		})
	}
}

func TestVisualFor(t *testing.T) {
	if got := VisualFor(4, 4); got.Scale != 1 {
		t.Errorf("centered slot scale %v", got.Scale)
	}
	if got := VisualFor(2, 4); got != VisualParams(2) {
		t.Errorf("VisualFor(2, 4) = %+v", got)
	}
}

func TestConfig_normalized(t *testing.T) {
	t.Run("zero_takes_defaults", func(t *testing.T) {
		c := Config{}.normalized()
		if c.ItemWidth != DefaultItemWidth || c.LoopCopies != 3 || c.MinItemsForAutoplay != 3 {
			t.Errorf("unexpected defaults %+v", c)
		}
		if c.Policy != PolicyTrack || c.WrapLow != 0.5 || c.WrapHigh != 1.5 {
			t.Errorf("unexpected track band [%v, %v]", c.WrapLow, c.WrapHigh)
		}
		if c.Direction != 1 {
			t.Errorf("expected forward direction, got %d", c.Direction)
		}
	})

	t.Run("centered_band", func(t *testing.T) {
		c := Config{Policy: PolicyCentered, LoopCopies: 5}.normalized()
		if c.WrapLow != 1 || c.WrapHigh != 4 {
			t.Errorf("expected [1, 4], got [%v, %v]", c.WrapLow, c.WrapHigh)
		}
	})

	t.Run("even_copies_made_odd", func(t *testing.T) {
		if c := (Config{LoopCopies: 4}).normalized(); c.LoopCopies != 5 {
			t.Errorf("expected 5, got %d", c.LoopCopies)
		}
	})

	t.Run("narrow_band_rejected", func(t *testing.T) {
		c := Config{Policy: PolicyCentered, WrapLow: 1, WrapHigh: 1.5}.normalized()
		if c.WrapLow != 1 || c.WrapHigh != 2 {
			t.Errorf("expected default band, got [%v, %v]", c.WrapLow, c.WrapHigh)
		}
	})

	t.Run("negative_speeds_flipped", func(t *testing.T) {
		c := Config{BaseSpeed: -2, BoostSpeed: -10, Direction: -7}.normalized()
		if c.BaseSpeed != 2 || c.BoostSpeed != 10 || c.Direction != -1 {
			t.Errorf("unexpected %+v", c)
		}
	})
}

func TestParsePolicy(t *testing.T) {
	if ParsePolicy("centered") != PolicyCentered || ParsePolicy("") != PolicyTrack || ParsePolicy("x") != PolicyTrack {
		t.Error("unexpected policy parsing")
	}
}
