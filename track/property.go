package track

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/trackanim/curve"
)

var (
	ErrUnknownProperty = errors.New("track: unknown property")
	ErrPropertyKind    = errors.New("track: value does not fit property")
	ErrUnknownTrack    = errors.New("track: unknown track")
)

// Property names one animatable quantity.
type Property uint8

const (
	Position Property = iota
	Rotation
	Scale
	LocalRotation
	Dissolve
	DissolveArrow
	Interactable
	DefinitePosition
	Time
	numProperties
)

var propertyNames = [numProperties]string{
	Position:         "position",
	Rotation:         "rotation",
	Scale:            "scale",
	LocalRotation:    "localRotation",
	Dissolve:         "dissolve",
	DissolveArrow:    "dissolveArrow",
	Interactable:     "interactable",
	DefinitePosition: "definitePosition",
	Time:             "time",
}

var propertyAliases = map[string]Property{
	"offsetPosition": Position,
	"worldRotation":  Rotation,
	"cuttable":       Interactable,
}

// ParseProperty accepts the current names, their aliases, and the older
// underscore-prefixed names ("_position", "_cuttable").
func ParseProperty(name string) (Property, error) {
	n := strings.TrimPrefix(name, "_")
	for i, pn := range propertyNames {
		if pn == n {
			return Property(i), nil
		}
	}
	if p, ok := propertyAliases[n]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
}

// Properties lists every property in declaration order.
func Properties() []Property {
	out := make([]Property, 0, numProperties)
	for p := Property(0); p < numProperties; p++ {
		out = append(out, p)
	}
	return out
}

func (p Property) String() string {
	if p >= numProperties {
		return fmt.Sprintf("property(%d)", uint8(p))
	}
	return propertyNames[p]
}

// Kind is the curve shape a path for p must have.
func (p Property) Kind() curve.Kind {
	switch p {
	case Position, Rotation, Scale, LocalRotation, DefinitePosition:
		return curve.KindVector3
	default:
		return curve.KindScalar
	}
}

// IsRotation reports whether p's vector3 curves hold Euler angles.
func (p Property) IsRotation() bool {
	return p == Rotation || p == LocalRotation
}

// HasStatic reports whether p can hold a static value. Definite position is
// path-only.
func (p Property) HasStatic() bool {
	return p < numProperties && p != DefinitePosition
}

// HasPath reports whether p can hold a path curve. Time is static-only.
func (p Property) HasPath() bool {
	return p < numProperties && p != Time
}
