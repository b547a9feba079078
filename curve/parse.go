package curve

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/easing"
	"gopkg.in/yaml.v3"
)

// SplineCatmullRom is the only spline flag currently honoured.
const SplineCatmullRom = "splineCatmullRom"

const splinePrefix = "spline"

// Parse builds a curve from authored data: a list of numeric tuples, each
// optionally followed by string flags, e.g.
//
//	[[0, 0, 0, 0], [0, 1, 0, 1, "easeOutQuad", "splineCatmullRom"]]
//
// A flat tuple such as [0, 1, 0] is a single point at time 0.
func Parse(raw []any) (*Curve, error) {
	if len(raw) == 0 {
		return &Curve{}, nil
	}

	var rows [][]any
	if _, ok := raw[0].([]any); ok {
		rows = make([][]any, 0, len(raw))
		for i, r := range raw {
			row, ok := r.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: point %d is %T, not a list", ErrMalformedControlPoint, i, r)
			}
			rows = append(rows, row)
		}
	} else {
		rows = [][]any{withImplicitTime(raw)}
	}

	var kind Kind
	points := make([]Point, 0, len(rows))
	for i, row := range rows {
		p, k, err := parsePoint(row)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		if i == 0 {
			kind = k
		} else if k != kind {
			return nil, fmt.Errorf("%w: point %d is %s in a %s curve", ErrMalformedControlPoint, i, k, kind)
		}
		points = append(points, p)
	}

	return New(kind, points)
}

// MustParse is Parse for literals known to be valid.
func MustParse(raw []any) *Curve {
	c, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// flagStart returns the index of the first trailing string flag. Index 0 is
// never treated as a flag.
func flagStart(row []any) int {
	start := len(row)
	for i := len(row) - 1; i > 0; i-- {
		if _, ok := row[i].(string); !ok {
			break
		}
		start = i
	}
	return start
}

func withImplicitTime(row []any) []any {
	at := flagStart(row)
	out := make([]any, 0, len(row)+1)
	out = append(out, row[:at]...)
	out = append(out, float32(0))
	return append(out, row[at:]...)
}

func parsePoint(row []any) (Point, Kind, error) {
	at := flagStart(row)
	nums, flags := row[:at], row[at:]

	var p Point
	var splineFlag string
	easingSet, splineSet := false, false
	for _, f := range flags {
		flag := f.(string)
		if !easingSet && easing.HasPrefix(flag) {
			e, err := easing.Parse(flag)
			if err != nil {
				return Point{}, KindEmpty, err
			}
			p.Easing = e
			easingSet = true
		}
		if !splineSet && strings.HasPrefix(flag, splinePrefix) {
			splineFlag = flag
			splineSet = true
		}
	}

	values := make([]float32, len(nums))
	for i, n := range nums {
		v, ok := toFloat32(n)
		if !ok {
			return Point{}, KindEmpty, fmt.Errorf("%w: element %d is %T", ErrMalformedControlPoint, i, n)
		}
		values[i] = v
	}

	switch len(values) {
	case 2:
		p.Value = mgl32.Vec4{values[0]}
		p.Time = values[1]
		return p, KindScalar, nil
	case 4:
		p.Value = mgl32.Vec4{values[0], values[1], values[2]}
		p.Time = values[3]
		p.Smooth = splineFlag == SplineCatmullRom
		return p, KindVector3, nil
	case 5:
		p.Value = mgl32.Vec4{values[0], values[1], values[2], values[3]}
		p.Time = values[4]
		return p, KindVector4, nil
	default:
		return Point{}, KindEmpty, fmt.Errorf("%w: %d numeric elements", ErrMalformedControlPoint, len(values))
	}
}

func toFloat32(v any) (float32, bool) {
	switch n := v.(type) {
	case float32:
		return n, true
	case float64:
		return float32(n), true
	case int:
		return float32(n), true
	case int8:
		return float32(n), true
	case int16:
		return float32(n), true
	case int32:
		return float32(n), true
	case int64:
		return float32(n), true
	case uint:
		return float32(n), true
	case uint8:
		return float32(n), true
	case uint16:
		return float32(n), true
	case uint32:
		return float32(n), true
	case uint64:
		return float32(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return float32(f), true
	default:
		return 0, false
	}
}

// UnmarshalYAML lets a curve sit directly in a prefab file.
func (c *Curve) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: line %d: curve must be a sequence", ErrMalformedControlPoint, value.Line)
	}
	var raw []any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = *parsed
	return nil
}

func (c *Curve) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("curve: decode: %w", err)
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*c = *parsed
	return nil
}
