package phys

// Bounds is the rectangular collision boundary, typically the render
// surface dimensions. The walls sit at x=0, x=Width, y=0 and y=Height.
type Bounds struct {
	Width  float64
	Height float64
}

// Floor returns the resting y coordinate for a body of the given radius.
func (b Bounds) Floor(radius float64) float64 {
	return b.Height - radius
}
