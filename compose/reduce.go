package compose

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/curve"
	"github.com/milk9111/trackanim/track"
)

// Reducer merges two values of one quantity.
type Reducer[T any] func(a, b T) T

var (
	Sum Reducer[mgl32.Vec3] = func(a, b mgl32.Vec3) mgl32.Vec3 {
		return a.Add(b)
	}
	ComponentProduct Reducer[mgl32.Vec3] = func(a, b mgl32.Vec3) mgl32.Vec3 {
		return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
	}
	QuatProduct Reducer[mgl32.Quat] = func(a, b mgl32.Quat) mgl32.Quat {
		return a.Mul(b)
	}
	Product Reducer[float32] = func(a, b float32) float32 {
		return a * b
	}
)

// Combine folds the present values left to right. It returns nil when every
// value is absent.
func (r Reducer[T]) Combine(values ...*T) *T {
	var acc *T
	for _, v := range values {
		if v == nil {
			continue
		}
		next := *v
		if acc != nil {
			next = r(*acc, next)
		}
		acc = &next
	}
	return acc
}

// quantity is one animatable attribute: where its three layers come from
// and how they merge.
type quantity[T any] struct {
	property track.Property
	reduce   Reducer[T]
	local    func(c *curve.Curve, t float32) T
	path     func(s Source, p track.Property, t float32) *T
	static   func(s Source, p track.Property) *T
}

// resolve yields static ⊕ (local ?? path). The track paths are only sampled
// when the object has no local curve for this quantity.
func (q quantity[T]) resolve(obj *Object, sources []Source, t float32) *T {
	var value *T
	if c := obj.curve(q.property); c != nil {
		v := q.local(c, t)
		value = &v
	}
	if len(sources) == 0 {
		return value
	}
	if value == nil {
		value = q.gather(sources, func(s Source) *T { return q.path(s, q.property, t) })
	}
	static := q.gather(sources, func(s Source) *T { return q.static(s, q.property) })
	return q.reduce.Combine(static, value)
}

func (q quantity[T]) gather(sources []Source, get func(Source) *T) *T {
	if len(sources) == 1 {
		return get(sources[0])
	}
	values := make([]*T, len(sources))
	for i, s := range sources {
		values[i] = get(s)
	}
	return q.reduce.Combine(values...)
}

func localVector3(c *curve.Curve, t float32) mgl32.Vec3 { return c.Vector3(t) }
func localRotation(c *curve.Curve, t float32) mgl32.Quat { return c.Rotation(t) }
func localScalar(c *curve.Curve, t float32) float32     { return c.Scalar(t) }

func pathVector3(s Source, p track.Property, t float32) *mgl32.Vec3 { return s.PathVector3(p, t) }
func pathRotation(s Source, p track.Property, t float32) *mgl32.Quat { return s.PathRotation(p, t) }
func pathScalar(s Source, p track.Property, t float32) *float32     { return s.PathScalar(p, t) }

func staticVector3(s Source, p track.Property) *mgl32.Vec3 { return s.Vector3(p) }
func staticRotation(s Source, p track.Property) *mgl32.Quat { return s.Rotation(p) }
func staticScalar(s Source, p track.Property) *float32     { return s.Scalar(p) }

func noStatic[T any](Source, track.Property) *T { return nil }

func vectorQuantity(p track.Property, r Reducer[mgl32.Vec3]) quantity[mgl32.Vec3] {
	return quantity[mgl32.Vec3]{property: p, reduce: r, local: localVector3, path: pathVector3, static: staticVector3}
}

func rotationQuantity(p track.Property) quantity[mgl32.Quat] {
	return quantity[mgl32.Quat]{property: p, reduce: QuatProduct, local: localRotation, path: pathRotation, static: staticRotation}
}

func scalarQuantity(p track.Property) quantity[float32] {
	return quantity[float32]{property: p, reduce: Product, local: localScalar, path: pathScalar, static: staticScalar}
}

var (
	positionQ      = vectorQuantity(track.Position, Sum)
	rotationQ      = rotationQuantity(track.Rotation)
	scaleQ         = vectorQuantity(track.Scale, ComponentProduct)
	localRotationQ = rotationQuantity(track.LocalRotation)
	dissolveQ      = scalarQuantity(track.Dissolve)
	arrowQ         = scalarQuantity(track.DissolveArrow)
	interactableQ  = scalarQuantity(track.Interactable)
	definiteQ      = quantity[mgl32.Vec3]{
		property: track.DefinitePosition,
		reduce:   Sum,
		local:    localVector3,
		path:     pathVector3,
		static:   noStatic[mgl32.Vec3],
	}
)
