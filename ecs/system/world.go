package system

import (
	"fmt"

	"github.com/milk9111/trackanim/compose"
	"github.com/milk9111/trackanim/ecs"
	"github.com/milk9111/trackanim/ecs/component"
	"github.com/milk9111/trackanim/prefabs"
)

type Options struct {
	// GridUnit is used when the scene does not set its own.
	GridUnit   float32
	LeftHanded bool
	Debug      bool
}

// BuildWorld spawns one entity per scene object plus the scene singleton,
// the player rig and the script drivers.
func BuildWorld(scene *prefabs.Scene, opts Options) (*ecs.World, error) {
	gridUnit := opts.GridUnit
	if scene.GridUnit > 0 {
		gridUnit = scene.GridUnit
	}
	if gridUnit <= 0 {
		return nil, fmt.Errorf("system: grid unit must be positive, got %v", gridUnit)
	}

	w := ecs.NewWorld()
	root := ecs.CreateEntity(w)
	if err := ecs.Add(w, root, component.ClockComponent.Kind(), &component.Clock{}); err != nil {
		return nil, err
	}
	sc := &component.Scene{
		Name:       scene.Name,
		Duration:   scene.Duration,
		Registry:   scene.Registry,
		Driver:     scene.Driver,
		Compositor: compose.Compositor{GridUnit: gridUnit, LeftHanded: opts.LeftHanded || scene.LeftHanded},
		Snapshot:   scene.Registry.Snapshot(),
		Debug:      opts.Debug,
	}
	if err := ecs.Add(w, root, component.SceneComponent.Kind(), sc); err != nil {
		return nil, err
	}

	for _, obj := range scene.Objects {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.AnimatedComponent.Kind(), &component.Animated{
			Name:     obj.Name,
			Curves:   obj.Curves,
			Tracks:   obj.Tracks,
			Spawn:    obj.Spawn,
			Lifetime: obj.Lifetime,
			Color:    obj.Color,
		}); err != nil {
			return nil, err
		}
		base := component.IdentityTransform()
		base.Position = obj.Base.Position
		base.Rotation = obj.Base.Rotation
		base.Scale = obj.Base.Scale
		if err := ecs.Add(w, e, component.BaseComponent.Kind(), &base); err != nil {
			return nil, err
		}
	}

	for _, s := range scene.Scripts {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Name: s.Name, File: s.File, Track: s.Track}); err != nil {
			return nil, err
		}
	}

	if p := scene.Player; p != nil {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{Track: p.Track, Start: p.Start, Pose: p.Start}); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// NewPipeline orders the systems so every track writer runs before the
// snapshot and every reader after it. A nil scripts system skips scripting.
func NewPipeline(clock ecs.System, scripts *ScriptSystem) *ecs.Scheduler {
	s := ecs.NewScheduler(clock, TrackDriverSystem{})
	if scripts != nil {
		s.Add(scripts)
	}
	s.Add(SnapshotSystem{})
	s.Add(&AnimationSystem{})
	s.Add(PlayerSystem{})
	s.Add(TransformSystem{})
	return s
}
