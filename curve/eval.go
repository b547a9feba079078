package curve

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/common"
)

// Scalar evaluates a scalar curve at t. An empty curve yields 0.
func (c *Curve) Scalar(t float32) float32 {
	if c.Len() == 0 {
		return 0
	}
	c.mustBe(KindScalar)
	l, r, ok := c.bracket(t)
	if !ok {
		return c.points[l].Value[0]
	}
	f := c.fraction(l, r, t)
	return common.Lerp(c.points[l].Value[0], c.points[r].Value[0], f)
}

// Vector3 evaluates a vector3 curve at t. An empty curve yields the zero
// vector.
func (c *Curve) Vector3(t float32) mgl32.Vec3 {
	if c.Len() == 0 {
		return mgl32.Vec3{}
	}
	c.mustBe(KindVector3)
	l, r, ok := c.bracket(t)
	if !ok {
		return c.points[l].Value.Vec3()
	}
	f := c.fraction(l, r, t)
	if c.points[r].Smooth {
		return c.catmullRom(l, r, f)
	}
	return common.LerpVec3(c.points[l].Value.Vec3(), c.points[r].Value.Vec3(), f)
}

// Rotation reads a vector3 curve as Euler degrees and slerps between the
// bracketing keyframes. An empty curve yields identity.
func (c *Curve) Rotation(t float32) mgl32.Quat {
	if c.Len() == 0 {
		return mgl32.QuatIdent()
	}
	c.mustBe(KindVector3)
	l, r, ok := c.bracket(t)
	if !ok {
		return common.Euler(c.points[l].Value.Vec3())
	}
	f := c.fraction(l, r, t)
	return common.Slerp(common.Euler(c.points[l].Value.Vec3()), common.Euler(c.points[r].Value.Vec3()), f)
}

// Vector4 evaluates a vector4 curve at t. An empty curve yields the zero
// vector.
func (c *Curve) Vector4(t float32) mgl32.Vec4 {
	if c.Len() == 0 {
		return mgl32.Vec4{}
	}
	c.mustBe(KindVector4)
	l, r, ok := c.bracket(t)
	if !ok {
		return c.points[l].Value
	}
	f := c.fraction(l, r, t)
	return common.LerpVec4(c.points[l].Value, c.points[r].Value, f)
}

func (c *Curve) mustBe(want Kind) {
	if c.kind != want {
		panic(fmt.Errorf("%w: %s curve evaluated as %s", ErrKindMismatch, c.kind, want))
	}
}

// bracket returns the segment around t. ok is false when t lies on or
// outside either end, in which case l is the index of the boundary point.
func (c *Curve) bracket(t float32) (l, r int, ok bool) {
	last := len(c.points) - 1
	if t <= c.points[0].Time {
		return 0, 0, false
	}
	if t >= c.points[last].Time {
		return last, last, false
	}

	l, r = 0, len(c.points)
	for r-l > 1 {
		m := (l + r) / 2
		if c.points[m].Time < t {
			l = m
		} else {
			r = m
		}
	}
	return l, r, true
}

// fraction is the eased progress through segment (l, r). The right point's
// easing governs the segment; coincident times collapse to 0.
func (c *Curve) fraction(l, r int, t float32) float32 {
	var f float32
	if d := c.points[r].Time - c.points[l].Time; d != 0 {
		f = (t - c.points[l].Time) / d
	}
	return c.points[r].Easing.Apply(f)
}

func (c *Curve) catmullRom(l, r int, t float32) mgl32.Vec3 {
	p0 := c.points[max(l-1, 0)].Value.Vec3()
	p1 := c.points[l].Value.Vec3()
	p2 := c.points[r].Value.Vec3()
	p3 := c.points[min(r+1, len(c.points)-1)].Value.Vec3()

	tt := t * t
	ttt := tt * t

	q0 := -ttt + 2*tt - t
	q1 := 3*ttt - 5*tt + 2
	q2 := -3*ttt + 4*tt + t
	q3 := ttt - tt

	return p0.Mul(q0).Add(p1.Mul(q1)).Add(p2.Mul(q2)).Add(p3.Mul(q3)).Mul(0.5)
}
