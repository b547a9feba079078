package system

import (
	"github.com/milk9111/trackanim/compose"
	"github.com/milk9111/trackanim/ecs"
	"github.com/milk9111/trackanim/ecs/component"
)

// TransformSystem applies resolved offsets on top of each object's base
// transform.
type TransformSystem struct{}

func (TransformSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.BaseComponent.Kind(), component.OffsetsComponent.Kind(), func(e ecs.Entity, base *component.Transform, off *compose.Offsets) {
		out := ApplyOffsets(*base, *off)
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			*t = out
			return
		}
		_ = ecs.Add(w, e, component.TransformComponent.Kind(), &out)
	})
}

// ApplyOffsets combines a base transform with resolved offsets. Absent
// offsets leave the base untouched. A definite position replaces the
// regular offset.
func ApplyOffsets(base component.Transform, off compose.Offsets) component.Transform {
	out := base
	switch {
	case off.Definite != nil:
		out.Position = base.Position.Add(*off.Definite)
	case off.Position != nil:
		out.Position = base.Position.Add(*off.Position)
	}
	if off.Rotation != nil {
		out.Rotation = off.Rotation.Mul(base.Rotation)
	}
	if off.Scale != nil {
		out.Scale = compose.ComponentProduct(base.Scale, *off.Scale)
	}
	if off.LocalRotation != nil {
		out.LocalRotation = base.LocalRotation.Mul(*off.LocalRotation)
	}
	if off.Dissolve != nil {
		out.Dissolve = base.Dissolve * *off.Dissolve
	}
	if off.DissolveArrow != nil {
		out.DissolveArrow = base.DissolveArrow * *off.DissolveArrow
	}
	if off.Interactable != nil {
		out.Interactable = base.Interactable && *off.Interactable >= 1
	}
	return out
}
