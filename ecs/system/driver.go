package system

import (
	"github.com/milk9111/trackanim/ecs"
	"github.com/milk9111/trackanim/ecs/component"
)

// TrackDriverSystem replays the scene's timed events for the current time.
type TrackDriverSystem struct{}

func (TrackDriverSystem) Update(w *ecs.World) {
	_, clock, ok := ecs.First(w, component.ClockComponent.Kind())
	if !ok {
		return
	}
	_, scene, ok := ecs.First(w, component.SceneComponent.Kind())
	if !ok || scene.Driver == nil {
		return
	}
	scene.Driver.Update(clock.Time)
}

// SnapshotSystem freezes every track once all writers ran, so readers in
// the rest of the frame see one consistent state.
type SnapshotSystem struct{}

func (SnapshotSystem) Update(w *ecs.World) {
	if _, scene, ok := ecs.First(w, component.SceneComponent.Kind()); ok {
		scene.Snapshot = scene.Registry.Snapshot()
	}
}
