// Package easing remaps normalized progress through named easing curves.
package easing

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Prefix marks a control point flag as an easing name.
const Prefix = "ease"

var ErrInvalidEasingName = errors.New("easing: invalid easing name")

// Func identifies one easing curve.
type Func uint8

const (
	Linear Func = iota
	Step
	InQuad
	OutQuad
	InOutQuad
	InCubic
	OutCubic
	InOutCubic
	InQuart
	OutQuart
	InOutQuart
	InQuint
	OutQuint
	InOutQuint
	InSine
	OutSine
	InOutSine
	InCirc
	OutCirc
	InOutCirc
	InExpo
	OutExpo
	InOutExpo
	InElastic
	OutElastic
	InOutElastic
	InBack
	OutBack
	InOutBack
	InBounce
	OutBounce
	InOutBounce
	numFuncs
)

var names = [numFuncs]string{
	Linear:       "easeLinear",
	Step:         "easeStep",
	InQuad:       "easeInQuad",
	OutQuad:      "easeOutQuad",
	InOutQuad:    "easeInOutQuad",
	InCubic:      "easeInCubic",
	OutCubic:     "easeOutCubic",
	InOutCubic:   "easeInOutCubic",
	InQuart:      "easeInQuart",
	OutQuart:     "easeOutQuart",
	InOutQuart:   "easeInOutQuart",
	InQuint:      "easeInQuint",
	OutQuint:     "easeOutQuint",
	InOutQuint:   "easeInOutQuint",
	InSine:       "easeInSine",
	OutSine:      "easeOutSine",
	InOutSine:    "easeInOutSine",
	InCirc:       "easeInCirc",
	OutCirc:      "easeOutCirc",
	InOutCirc:    "easeInOutCirc",
	InExpo:       "easeInExpo",
	OutExpo:      "easeOutExpo",
	InOutExpo:    "easeInOutExpo",
	InElastic:    "easeInElastic",
	OutElastic:   "easeOutElastic",
	InOutElastic: "easeInOutElastic",
	InBack:       "easeInBack",
	OutBack:      "easeOutBack",
	InOutBack:    "easeInOutBack",
	InBounce:     "easeInBounce",
	OutBounce:    "easeOutBounce",
	InOutBounce:  "easeInOutBounce",
}

var byName = func() map[string]Func {
	m := make(map[string]Func, numFuncs)
	for i, n := range names {
		m[n] = Func(i)
	}
	return m
}()

// HasPrefix reports whether a control point flag selects an easing.
func HasPrefix(flag string) bool {
	return strings.HasPrefix(flag, Prefix)
}

// Parse resolves an authored easing name such as "easeInOutQuad".
func Parse(name string) (Func, error) {
	f, ok := byName[name]
	if !ok {
		return Linear, fmt.Errorf("%w: %q", ErrInvalidEasingName, name)
	}
	return f, nil
}

// Names returns every known easing name in declaration order.
func Names() []string {
	out := make([]string, 0, numFuncs)
	return append(out, names[:]...)
}

func (f Func) String() string {
	if f >= numFuncs {
		return fmt.Sprintf("easing(%d)", uint8(f))
	}
	return names[f]
}

// Apply remaps p. Back and elastic curves overshoot [0,1].
func (f Func) Apply(p float32) float32 {
	return float32(apply(f, float64(p)))
}

func apply(f Func, p float64) float64 {
	switch f {
	case Step:
		return math.Floor(p)
	case InQuad:
		return p * p
	case OutQuad:
		return -(p * (p - 2))
	case InOutQuad:
		if p < 0.5 {
			return 2 * p * p
		}
		return (-2 * p * p) + (4 * p) - 1
	case InCubic:
		return p * p * p
	case OutCubic:
		q := p - 1
		return q*q*q + 1
	case InOutCubic:
		if p < 0.5 {
			return 4 * p * p * p
		}
		q := (2 * p) - 2
		return 0.5*q*q*q + 1
	case InQuart:
		return p * p * p * p
	case OutQuart:
		q := p - 1
		return q*q*q*(1-p) + 1
	case InOutQuart:
		if p < 0.5 {
			return 8 * p * p * p * p
		}
		q := p - 1
		return -8*q*q*q*q + 1
	case InQuint:
		return p * p * p * p * p
	case OutQuint:
		q := p - 1
		return q*q*q*q*q + 1
	case InOutQuint:
		if p < 0.5 {
			return 16 * p * p * p * p * p
		}
		q := (2 * p) - 2
		return 0.5*q*q*q*q*q + 1
	case InSine:
		return math.Sin((p-1)*math.Pi/2) + 1
	case OutSine:
		return math.Sin(p * math.Pi / 2)
	case InOutSine:
		return 0.5 * (1 - math.Cos(p*math.Pi))
	case InCirc:
		return 1 - math.Sqrt(1-(p*p))
	case OutCirc:
		return math.Sqrt((2 - p) * p)
	case InOutCirc:
		if p < 0.5 {
			return 0.5 * (1 - math.Sqrt(1-4*(p*p)))
		}
		return 0.5 * (math.Sqrt(-((2*p)-3)*((2*p)-1)) + 1)
	case InExpo:
		if p == 0 {
			return p
		}
		return math.Pow(2, 10*(p-1))
	case OutExpo:
		if p == 1 {
			return p
		}
		return 1 - math.Pow(2, -10*p)
	case InOutExpo:
		if p == 0 || p == 1 {
			return p
		}
		if p < 0.5 {
			return 0.5 * math.Pow(2, (20*p)-10)
		}
		return -0.5*math.Pow(2, (-20*p)+10) + 1
	case InElastic:
		return math.Sin(13*math.Pi/2*p) * math.Pow(2, 10*(p-1))
	case OutElastic:
		return math.Sin(-13*math.Pi/2*(p+1))*math.Pow(2, -10*p) + 1
	case InOutElastic:
		if p < 0.5 {
			return 0.5 * math.Sin(13*math.Pi/2*(2*p)) * math.Pow(2, 10*((2*p)-1))
		}
		return 0.5 * (math.Sin(-13*math.Pi/2*((2*p-1)+1))*math.Pow(2, -10*(2*p-1)) + 2)
	case InBack:
		return p*p*p - p*math.Sin(p*math.Pi)
	case OutBack:
		q := 1 - p
		return 1 - (q*q*q - q*math.Sin(q*math.Pi))
	case InOutBack:
		if p < 0.5 {
			q := 2 * p
			return 0.5 * (q*q*q - q*math.Sin(q*math.Pi))
		}
		q := 1 - (2*p - 1)
		return 0.5*(1-(q*q*q-q*math.Sin(q*math.Pi))) + 0.5
	case InBounce:
		return 1 - outBounce(1-p)
	case OutBounce:
		return outBounce(p)
	case InOutBounce:
		if p < 0.5 {
			return 0.5 * (1 - outBounce(1-p*2))
		}
		return 0.5*outBounce(p*2-1) + 0.5
	default:
		return p
	}
}

func outBounce(p float64) float64 {
	switch {
	case p < 4/11.0:
		return (121 * p * p) / 16.0
	case p < 8/11.0:
		return (363 / 40.0 * p * p) - (99 / 10.0 * p) + 17/5.0
	case p < 9/10.0:
		return (4356 / 361.0 * p * p) - (35442 / 1805.0 * p) + 16061/1805.0
	default:
		return (54 / 5.0 * p * p) - (513 / 25.0 * p) + 268/25.0
	}
}
