package carousel

import "math"

// Visual holds the rendering parameters of one slot.
type Visual struct {
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`
	Blur    float64 `json:"blur"` // pixels
}

// falloff lists the parameters at whole distances from the center.
// Past the last entry the slot is fully transparent.
var falloff = []Visual{
	{Scale: 1, Opacity: 1, Blur: 0},
	{Scale: 0.85, Opacity: 0.7, Blur: 0},
	{Scale: 0.7, Opacity: 0.5, Blur: 2},
	{Scale: 0.7, Opacity: 0, Blur: 4},
}

// VisualParams returns the scale, opacity and blur for a slot at the given
// distance from the center, interpolating linearly between whole distances.
// It depends on nothing but its argument.
func VisualParams(distance float64) Visual {
	d := math.Abs(distance)
	if math.IsNaN(d) {
		d = 0
	}
	last := len(falloff) - 1
	if d >= float64(last) {
		return falloff[last]
	}
	i := int(d)
	t := d - float64(i)
	a, b := falloff[i], falloff[i+1]
	return Visual{
		Scale:   lerp(a.Scale, b.Scale, t),
		Opacity: lerp(a.Opacity, b.Opacity, t),
		Blur:    lerp(a.Blur, b.Blur, t),
	}
}

// VisualFor is VisualParams for a slot at position while centerIndex is centered.
func VisualFor(position, centerIndex int) Visual {
	return VisualParams(float64(position - centerIndex))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
