package component

import (
	"github.com/milk9111/trackanim/compose"
	"github.com/milk9111/trackanim/track"
)

// Clock is the scene time. Systems read it; only the host or ClockSystem
// writes it.
type Clock struct {
	Time  float32
	Frame int
}

var ClockComponent = NewComponent[Clock]()

// Scene is the singleton carrying the shared track state.
type Scene struct {
	Name       string
	Duration   float32
	Registry   *track.Registry
	Driver     *track.Driver
	Compositor compose.Compositor
	// Snapshot is taken once per frame after every track writer ran.
	Snapshot track.Snapshot
	Debug    bool
}

var SceneComponent = NewComponent[Scene]()
