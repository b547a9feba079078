// Package compose merges an object's own curves with the tracks it
// references into one offset per quantity.
//
// Each quantity is resolved from three layers: the object's local curve,
// the path values of its tracks, and the static values of its tracks. Local
// replaces the track paths; the result is then merged with the track statics
// using the quantity's reducer (sum for translation, quaternion product for
// rotations, component product for scale, product for scalars).
package compose

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/curve"
	"github.com/milk9111/trackanim/track"
)

// Source is what the compositor needs from a track. track.View implements
// it.
type Source interface {
	Vector3(p track.Property) *mgl32.Vec3
	Rotation(p track.Property) *mgl32.Quat
	Scalar(p track.Property) *float32
	PathVector3(p track.Property, t float32) *mgl32.Vec3
	PathRotation(p track.Property, t float32) *mgl32.Quat
	PathScalar(p track.Property, t float32) *float32
}

var _ Source = track.View{}

// Object holds the curves an object animates itself with. Nil fields are
// absent.
type Object struct {
	Position         *curve.Curve
	Rotation         *curve.Curve
	Scale            *curve.Curve
	LocalRotation    *curve.Curve
	Dissolve         *curve.Curve
	DissolveArrow    *curve.Curve
	Interactable     *curve.Curve
	DefinitePosition *curve.Curve
}

func (o *Object) curve(p track.Property) *curve.Curve {
	if o == nil {
		return nil
	}
	switch p {
	case track.Position:
		return o.Position
	case track.Rotation:
		return o.Rotation
	case track.Scale:
		return o.Scale
	case track.LocalRotation:
		return o.LocalRotation
	case track.Dissolve:
		return o.Dissolve
	case track.DissolveArrow:
		return o.DissolveArrow
	case track.Interactable:
		return o.Interactable
	case track.DefinitePosition:
		return o.DefinitePosition
	}
	return nil
}

// Set assigns the curve for p.
func (o *Object) Set(p track.Property, c *curve.Curve) error {
	if k := c.Kind(); k != curve.KindEmpty && k != p.Kind() {
		return fmt.Errorf("%w: %s curve for %s", track.ErrPropertyKind, k, p)
	}
	switch p {
	case track.Position:
		o.Position = c
	case track.Rotation:
		o.Rotation = c
	case track.Scale:
		o.Scale = c
	case track.LocalRotation:
		o.LocalRotation = c
	case track.Dissolve:
		o.Dissolve = c
	case track.DissolveArrow:
		o.DissolveArrow = c
	case track.Interactable:
		o.Interactable = c
	case track.DefinitePosition:
		o.DefinitePosition = c
	default:
		return fmt.Errorf("%w: %s is not an object curve", track.ErrPropertyKind, p)
	}
	return nil
}

// Validate checks every curve against its property's kind.
func (o *Object) Validate() error {
	for _, p := range track.Properties() {
		c := o.curve(p)
		if c == nil {
			continue
		}
		if k := c.Kind(); k != curve.KindEmpty && k != p.Kind() {
			return fmt.Errorf("%w: %s curve for %s", track.ErrPropertyKind, k, p)
		}
	}
	return nil
}

// Offsets is the resolved state of one object for one frame. A nil field
// means no layer produced a value and the caller supplies its own default.
type Offsets struct {
	Position      *mgl32.Vec3
	Rotation      *mgl32.Quat
	Scale         *mgl32.Vec3
	LocalRotation *mgl32.Quat
	Dissolve      *float32
	DissolveArrow *float32
	Interactable  *float32
	// Definite is set only when a definite position path exists.
	Definite *mgl32.Vec3
}

// Mirror returns o reflected for left-handed play. Only translation and
// rotation change.
func (o Offsets) Mirror() Offsets {
	o.Position = mirrorVec(o.Position)
	o.Definite = mirrorVec(o.Definite)
	o.Rotation = mirrorQuat(o.Rotation)
	o.LocalRotation = mirrorQuat(o.LocalRotation)
	return o
}

// Compositor resolves objects for one evaluation context.
type Compositor struct {
	// GridUnit scales translation after combination.
	GridUnit   float32
	LeftHanded bool
}

// Resolve computes every quantity of obj at time t. obj may be nil and
// sources may be empty.
func (c Compositor) Resolve(obj *Object, sources []Source, t float32) Offsets {
	position := positionQ.resolve(obj, sources, t)

	var definite *mgl32.Vec3
	if d := definiteQ.resolve(obj, sources, t); d != nil {
		definite = c.scale(Sum.Combine(position, d))
	}

	o := Offsets{
		Position:      c.scale(position),
		Rotation:      rotationQ.resolve(obj, sources, t),
		Scale:         scaleQ.resolve(obj, sources, t),
		LocalRotation: localRotationQ.resolve(obj, sources, t),
		Dissolve:      dissolveQ.resolve(obj, sources, t),
		DissolveArrow: arrowQ.resolve(obj, sources, t),
		Interactable:  interactableQ.resolve(obj, sources, t),
		Definite:      definite,
	}
	if c.LeftHanded {
		o = o.Mirror()
	}
	return o
}

// DefinitePosition resolves only the definite position of obj.
func (c Compositor) DefinitePosition(obj *Object, sources []Source, t float32) *mgl32.Vec3 {
	d := definiteQ.resolve(obj, sources, t)
	if d == nil {
		return nil
	}
	out := c.scale(Sum.Combine(positionQ.resolve(obj, sources, t), d))
	if c.LeftHanded {
		out = mirrorVec(out)
	}
	return out
}

func (c Compositor) scale(v *mgl32.Vec3) *mgl32.Vec3 {
	if v == nil {
		return nil
	}
	s := v.Mul(c.GridUnit)
	return &s
}

// Sources adapts track views to the compositor's input.
func Sources(views []track.View) []Source {
	if len(views) == 0 {
		return nil
	}
	out := make([]Source, len(views))
	for i, v := range views {
		out[i] = v
	}
	return out
}
