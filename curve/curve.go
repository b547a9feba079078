// Package curve evaluates sparse, time-tagged control points.
//
// A Curve is built once from authored data and is read-only afterwards, so
// one Curve may be evaluated from any number of goroutines.
package curve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/easing"
)

var (
	ErrMalformedControlPoint = errors.New("curve: malformed control point")
	ErrUnsortedControlPoints = errors.New("curve: control points out of time order")
	ErrKindMismatch          = errors.New("curve: evaluator does not match curve kind")
)

// Kind is the value shape shared by every point of a Curve.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindScalar
	// KindVector3 also carries Euler rotations in degrees.
	KindVector3
	KindVector4
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindScalar:
		return "scalar"
	case KindVector3:
		return "vector3"
	case KindVector4:
		return "vector4"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Point is one keyframe. Scalars use Value[0]; vector3 points use Value[0:3].
type Point struct {
	Time   float32
	Value  mgl32.Vec4
	Easing easing.Func
	// Smooth selects Catmull-Rom for the segment ending at this point.
	Smooth bool
}

type Curve struct {
	kind   Kind
	points []Point
}

// New builds a curve from already typed points. Points must share kind and
// be in ascending time order.
func New(kind Kind, points []Point) (*Curve, error) {
	if len(points) == 0 {
		return &Curve{}, nil
	}
	if kind == KindEmpty {
		return nil, fmt.Errorf("%w: points without a kind", ErrMalformedControlPoint)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Time < points[i-1].Time {
			return nil, fmt.Errorf("%w: point %d at %v follows %v", ErrUnsortedControlPoints, i, points[i].Time, points[i-1].Time)
		}
	}
	copied := append([]Point(nil), points...)
	return &Curve{kind: kind, points: copied}, nil
}

func (c *Curve) Kind() Kind {
	if c == nil {
		return KindEmpty
	}
	return c.kind
}

func (c *Curve) Len() int {
	if c == nil {
		return 0
	}
	return len(c.points)
}

// Points returns a copy of the control points.
func (c *Curve) Points() []Point {
	if c == nil {
		return nil
	}
	return append([]Point(nil), c.points...)
}

func (c *Curve) String() string {
	var b strings.Builder
	b.WriteString("{ ")
	for _, p := range c.Points() {
		switch c.kind {
		case KindScalar:
			fmt.Fprintf(&b, "(%g, %g) ", p.Value[0], p.Time)
		case KindVector3:
			fmt.Fprintf(&b, "(%g, %g, %g, %g) ", p.Value[0], p.Value[1], p.Value[2], p.Time)
		default:
			fmt.Fprintf(&b, "(%g, %g, %g, %g, %g) ", p.Value[0], p.Value[1], p.Value[2], p.Value[3], p.Time)
		}
	}
	b.WriteByte('}')
	return b.String()
}
