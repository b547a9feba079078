package system

import (
	"github.com/milk9111/trackanim/ecs"
	"github.com/milk9111/trackanim/ecs/component"
)

// ClockSystem advances scene time by a fixed step per frame.
type ClockSystem struct {
	Step   float32
	Loop   bool
	Paused bool
}

func (s *ClockSystem) Update(w *ecs.World) {
	_, clock, ok := ecs.First(w, component.ClockComponent.Kind())
	if !ok || s.Paused {
		return
	}
	clock.Time += s.Step
	clock.Frame++
	if !s.Loop {
		return
	}
	if _, scene, ok := ecs.First(w, component.SceneComponent.Kind()); ok && scene.Duration > 0 && clock.Time > scene.Duration {
		clock.Time = 0
	}
}

// SetTime moves the clock to t. Every system is a function of time, so
// seeking in either direction is allowed.
func SetTime(w *ecs.World, t float32) {
	if _, clock, ok := ecs.First(w, component.ClockComponent.Kind()); ok {
		clock.Time = t
		clock.Frame++
	}
}

// Time reports the clock's current time.
func Time(w *ecs.World) float32 {
	if _, clock, ok := ecs.First(w, component.ClockComponent.Kind()); ok {
		return clock.Time
	}
	return 0
}
