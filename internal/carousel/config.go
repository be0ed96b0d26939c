package carousel

// Policy selects how the strip is laid out and moved.
type Policy string

const (
	// PolicyTrack is a single horizontally scrollable strip whose native
	// scroll offset follows the virtual position.
	PolicyTrack Policy = "track"

	// PolicyCentered keeps one logical item centered and scales neighbours
	// by their distance from it.
	PolicyCentered Policy = "centered"
)

// ParsePolicy returns PolicyCentered for "centered" and PolicyTrack otherwise.
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyCentered {
		return PolicyCentered
	}
	return PolicyTrack
}

const (
	DefaultItemWidth           = 320.0
	DefaultLoopCopies          = 3
	DefaultMinItemsForAutoplay = 3
	DefaultBaseSpeed           = 0.5
	DefaultBoostSpeed          = 8.0
	DefaultBoostTicks          = 60
	DefaultVisibleSlots        = 5
	DefaultVisibilityThreshold = 0.3
)

// Config tunes one carousel instance. Zero fields take the defaults above.
type Config struct {
	Policy Policy

	// ItemWidth is the width of one item including its gap, in pixels.
	// Measure replaces it with the width derived from the rendered content.
	ItemWidth float64

	// LoopCopies is how many times the list is repeated. Forced odd and >= 3.
	LoopCopies int

	// WrapLow and WrapHigh bound the virtual position, in copies of the list.
	// When both are zero the policy default applies: [1, L-1] for centered,
	// [0.5, L-1.5] for track. The band must be at least one copy wide.
	WrapLow  float64
	WrapHigh float64

	// MinItemsForAutoplay: lists shorter than this render statically.
	MinItemsForAutoplay int

	BaseSpeed  float64 // pixels per tick
	BoostSpeed float64 // pixels per tick while boosted
	BoostTicks int

	// Direction of autoplay: +1 scrolls forward, -1 backward.
	Direction int

	// HoverSlowdown is the fraction of BaseSpeed kept while hovered and
	// visible. Zero pauses completely.
	HoverSlowdown float64

	// VisibleSlots is the number of slots in the centered window. Forced odd.
	VisibleSlots int

	// VisibilityThreshold is the intersection ratio at which the viewport
	// counts as visible.
	VisibilityThreshold float64
}

// DefaultConfig returns the configuration used by the landing page rows.
func DefaultConfig() Config {
	return Config{
		Policy:              PolicyTrack,
		ItemWidth:           DefaultItemWidth,
		LoopCopies:          DefaultLoopCopies,
		MinItemsForAutoplay: DefaultMinItemsForAutoplay,
		BaseSpeed:           DefaultBaseSpeed,
		BoostSpeed:          DefaultBoostSpeed,
		BoostTicks:          DefaultBoostTicks,
		Direction:           1,
		VisibleSlots:        DefaultVisibleSlots,
		VisibilityThreshold: DefaultVisibilityThreshold,
	}
}

// normalized returns a copy with every field inside its valid range.
func (c Config) normalized() Config {
	if c.Policy != PolicyCentered {
		c.Policy = PolicyTrack
	}
	if c.ItemWidth <= 0 {
		c.ItemWidth = DefaultItemWidth
	}
	if c.LoopCopies < 3 {
		c.LoopCopies = DefaultLoopCopies
	}
	if c.LoopCopies%2 == 0 {
		c.LoopCopies++
	}
	if c.MinItemsForAutoplay <= 0 {
		c.MinItemsForAutoplay = DefaultMinItemsForAutoplay
	}
	if c.BaseSpeed < 0 {
		c.BaseSpeed = -c.BaseSpeed
	}
	if c.BaseSpeed == 0 {
		c.BaseSpeed = DefaultBaseSpeed
	}
	if c.BoostSpeed < 0 {
		c.BoostSpeed = -c.BoostSpeed
	}
	if c.BoostSpeed == 0 {
		c.BoostSpeed = DefaultBoostSpeed
	}
	if c.BoostTicks <= 0 {
		c.BoostTicks = DefaultBoostTicks
	}
	c.Direction = sign(c.Direction, 1)
	if c.HoverSlowdown < 0 || c.HoverSlowdown >= 1 {
		c.HoverSlowdown = 0
	}
	if c.VisibleSlots <= 0 {
		c.VisibleSlots = DefaultVisibleSlots
	}
	if c.VisibleSlots%2 == 0 {
		c.VisibleSlots++
	}
	if c.VisibilityThreshold <= 0 || c.VisibilityThreshold > 1 {
		c.VisibilityThreshold = DefaultVisibilityThreshold
	}

	maxHigh := float64(c.LoopCopies - 1)
	if c.WrapLow < 0 || c.WrapHigh > maxHigh || c.WrapHigh-c.WrapLow < 1 {
		c.WrapLow, c.WrapHigh = 0, 0
	}
	if c.WrapLow == 0 && c.WrapHigh == 0 {
		if c.Policy == PolicyTrack {
			c.WrapLow, c.WrapHigh = 0.5, maxHigh-0.5
		} else {
			c.WrapLow, c.WrapHigh = 1, maxHigh
		}
	}
	return c
}

// sign maps n to -1 or +1; zero maps to fallback.
func sign(n, fallback int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return fallback
}
