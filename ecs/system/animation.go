package system

import (
	"log"

	"github.com/milk9111/trackanim/compose"
	"github.com/milk9111/trackanim/ecs"
	"github.com/milk9111/trackanim/ecs/component"
)

// AnimationSystem resolves every animated object against the frame's track
// snapshot. An object naming a track missing from the snapshot is skipped
// and reported once.
type AnimationSystem struct {
	missing map[ecs.Entity]bool
}

func (s *AnimationSystem) Update(w *ecs.World) {
	_, clock, ok := ecs.First(w, component.ClockComponent.Kind())
	if !ok {
		return
	}
	_, scene, ok := ecs.First(w, component.SceneComponent.Kind())
	if !ok {
		return
	}

	ecs.ForEach(w, component.AnimatedComponent.Kind(), func(e ecs.Entity, a *component.Animated) {
		a.Time, a.Active = a.NormalizedTime(clock.Time)

		views, err := scene.Snapshot.Views(a.Tracks)
		if err != nil {
			if !s.missing[e] {
				if s.missing == nil {
					s.missing = map[ecs.Entity]bool{}
				}
				s.missing[e] = true
				log.Printf("animation: %s: %v", a.Name, err)
			}
			ecs.Remove(w, e, component.OffsetsComponent.Kind())
			return
		}
		delete(s.missing, e)
		off := scene.Compositor.Resolve(a.Curves, compose.Sources(views), a.Time)

		if o, ok := ecs.Get(w, e, component.OffsetsComponent.Kind()); ok {
			*o = off
		} else if err := ecs.Add(w, e, component.OffsetsComponent.Kind(), &off); err != nil {
			log.Printf("animation: %s: %v", a.Name, err)
		}

		if scene.Debug && clock.Frame%60 == 0 && off.Position != nil {
			log.Printf("animation: frame=%d %s t=%.3f position=%v", clock.Frame, a.Name, a.Time, *off.Position)
		}
	})
}

// PlayerSystem places the player rig from its track.
type PlayerSystem struct{}

func (PlayerSystem) Update(w *ecs.World) {
	_, scene, ok := ecs.First(w, component.SceneComponent.Kind())
	if !ok {
		return
	}
	ecs.ForEach(w, component.PlayerComponent.Kind(), func(_ ecs.Entity, p *component.Player) {
		view, _ := scene.Snapshot.View(p.Track)
		c := scene.Compositor
		p.Pose = compose.PlayerTransform(view, p.Start, c.GridUnit, c.LeftHanded)
	})
}
