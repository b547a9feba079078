package component

import (
	"image/color"

	"github.com/milk9111/trackanim/compose"
)

// Animated is an object driven by its own curves and the tracks it names.
type Animated struct {
	Name     string
	Curves   *compose.Object
	Tracks   []string
	Spawn    float32
	Lifetime float32
	Color    color.Color

	// Time is the object's normalized time for the current frame, clamped to
	// [0,1]. Active is false before spawn and after the lifetime ends.
	Time   float32
	Active bool
}

// NormalizedTime maps scene time onto the object's lifetime.
func (a *Animated) NormalizedTime(sceneTime float32) (t float32, active bool) {
	if a.Lifetime <= 0 {
		return 0, false
	}
	t = (sceneTime - a.Spawn) / a.Lifetime
	active = t >= 0 && t <= 1
	return min(max(t, 0), 1), active
}

var AnimatedComponent = NewComponent[Animated]()
