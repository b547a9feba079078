package curve

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/common"
	"github.com/milk9111/trackanim/easing"
	"gopkg.in/yaml.v3"
)

const eps = 1e-4

func pts(rows ...[]any) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func row(vals ...any) []any {
	return vals
}

func TestParseShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  []any
		kind Kind
		len  int
	}{
		{"empty", nil, KindEmpty, 0},
		{"scalar", pts(row(0, 0), row(1, 10)), KindScalar, 2},
		{"vector3", pts(row(0, 0, 0, 0), row(1, 2, 3, 1)), KindVector3, 2},
		{"vector4", pts(row(1, 0, 0, 1, 0), row(0, 1, 0, 1, 2.5)), KindVector4, 2},
		{"flat_vector3", row(1, 2, 3), KindVector3, 1},
		{"flat_scalar", row(0.5), KindScalar, 1},
		{"flags", pts(row(0, 0, 0, 0), row(1, 1, 1, 1, "easeInQuad", "splineCatmullRom")), KindVector3, 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Parse(c.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind() != c.kind {
				t.Fatalf("expected kind %s, got %s", c.kind, got.Kind())
			}
			if got.Len() != c.len {
				t.Fatalf("expected %d points, got %d", c.len, got.Len())
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	c := MustParse(pts(
		row(0, 0, 0, 0),
		row(1, 1, 1, 1, "splineCatmullRom", "easeOutCubic"),
		row(2, 2, 2, 2, "easeInSine"),
		row(3, 3, 3, 3, "splineBezier"),
	))
	p := c.Points()

	if p[1].Easing != easing.OutCubic || !p[1].Smooth {
		t.Fatalf("flags in any order should apply, got easing=%s smooth=%v", p[1].Easing, p[1].Smooth)
	}
	if p[2].Easing != easing.InSine || p[2].Smooth {
		t.Fatalf("expected easeInSine without smoothing, got %s smooth=%v", p[2].Easing, p[2].Smooth)
	}
	if p[3].Smooth {
		t.Fatalf("unsupported spline kinds must be ignored")
	}
	if p[0].Easing != easing.Linear {
		t.Fatalf("default easing should be linear, got %s", p[0].Easing)
	}
}

func TestParseFirstEasingWins(t *testing.T) {
	c := MustParse(pts(row(0, 0), row(1, 1, "easeInQuad", "easeOutQuad")))
	if got := c.Points()[1].Easing; got != easing.InQuad {
		t.Fatalf("expected first easing flag to win, got %s", got)
	}
}

// Smoothing is only honoured for vector3 points; this locks current behavior.
func TestParseSplineIgnoredOutsideVector3(t *testing.T) {
	scalar := MustParse(pts(row(0, 0, "splineCatmullRom"), row(1, 1, "splineCatmullRom")))
	for _, p := range scalar.Points() {
		if p.Smooth {
			t.Fatalf("scalar points must not be smoothed")
		}
	}
	vec4 := MustParse(pts(row(0, 0, 0, 0, 0, "splineCatmullRom"), row(1, 1, 1, 1, 1, "splineCatmullRom")))
	for _, p := range vec4.Points() {
		if p.Smooth {
			t.Fatalf("vector4 points must not be smoothed")
		}
	}
}

func TestParseFlatTupleWithFlags(t *testing.T) {
	c := MustParse(row(1, 2, 3, "easeInQuad"))
	p := c.Points()
	if c.Kind() != KindVector3 || p[0].Time != 0 || p[0].Easing != easing.InQuad {
		t.Fatalf("unexpected flat tuple parse: %s %+v", c.Kind(), p[0])
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  []any
		want error
	}{
		{"three_numbers", pts(row(0, 0, 0)), ErrMalformedControlPoint},
		{"six_numbers", pts(row(0, 0, 0, 0, 0, 0)), ErrMalformedControlPoint},
		{"one_number", pts(row(0)), ErrMalformedControlPoint},
		{"mixed_kinds", pts(row(0, 0), row(0, 0, 0, 1)), ErrMalformedControlPoint},
		{"non_numeric", pts(row(0, true)), ErrMalformedControlPoint},
		{"string_in_middle", pts(row(0, "easeInQuad", 1)), ErrMalformedControlPoint},
		{"non_list_point", []any{row(0, 0), 5}, ErrMalformedControlPoint},
		{"bad_easing", pts(row(0, 0, "easeSideways")), easing.ErrInvalidEasingName},
		{"unsorted", pts(row(0, 1), row(1, 0)), ErrUnsortedControlPoints},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.raw)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestParseNumericTypes(t *testing.T) {
	c := MustParse(pts(row(int64(1), uint8(0)), row(float32(2), 1.5)))
	if got := c.Scalar(1.5); got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
}

func TestEmptyCurve(t *testing.T) {
	c := MustParse(nil)
	if got := c.Scalar(3); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := c.Vector3(3); got != (mgl32.Vec3{}) {
		t.Fatalf("expected zero vector, got %v", got)
	}
	if got := c.Rotation(3); got != mgl32.QuatIdent() {
		t.Fatalf("expected identity, got %v", got)
	}
	if got := c.Vector4(3); got != (mgl32.Vec4{}) {
		t.Fatalf("expected zero vector, got %v", got)
	}

	var nilCurve *Curve
	if got := nilCurve.Scalar(1); got != 0 {
		t.Fatalf("nil curve should evaluate to 0, got %v", got)
	}
}

func TestScalarLinear(t *testing.T) {
	c := MustParse(pts(row(0, 0), row(1, 10)))

	cases := []struct {
		t    float32
		want float32
	}{
		{-5, 0},
		{0, 0},
		{2.5, 0.25},
		{5, 0.5},
		{10, 1},
		{20, 1},
	}
	for _, tc := range cases {
		if got := c.Scalar(tc.t); !mgl32.FloatEqualThreshold(got, tc.want, eps) {
			t.Fatalf("Scalar(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}
}

func TestBoundariesAreExact(t *testing.T) {
	c := MustParse(pts(
		row(1, 2, 3, 1, "easeOutBack"),
		row(4, 5, 6, 2, "easeInElastic", "splineCatmullRom"),
		row(7, 8, 9, 4, "easeInOutBounce"),
	))

	for _, tt := range []float32{-100, 0, 1} {
		if got := c.Vector3(tt); got != (mgl32.Vec3{1, 2, 3}) {
			t.Fatalf("Vector3(%v) = %v, want first point", tt, got)
		}
	}
	for _, tt := range []float32{4, 5, 1000} {
		if got := c.Vector3(tt); got != (mgl32.Vec3{7, 8, 9}) {
			t.Fatalf("Vector3(%v) = %v, want last point", tt, got)
		}
	}
}

func TestSinglePointIsConstant(t *testing.T) {
	scalar := MustParse(pts(row(3, 5)))
	vec4 := MustParse(pts(row(1, 2, 3, 4, 5)))
	rot := MustParse(pts(row(0, 90, 0, 5)))

	for _, tt := range []float32{-1, 0, 5, 6, 100} {
		if got := scalar.Scalar(tt); got != 3 {
			t.Fatalf("Scalar(%v) = %v", tt, got)
		}
		if got := vec4.Vector4(tt); got != (mgl32.Vec4{1, 2, 3, 4}) {
			t.Fatalf("Vector4(%v) = %v", tt, got)
		}
		if got := rot.Rotation(tt); !common.SameRotation(got, common.Euler(mgl32.Vec3{0, 90, 0}), eps) {
			t.Fatalf("Rotation(%v) = %v", tt, got)
		}
	}
}

func TestCoincidentTimesPickLeft(t *testing.T) {
	c := MustParse(pts(row(1, 0), row(2, 0)))
	if got := c.Scalar(0); got != 1 {
		t.Fatalf("expected left point value 1, got %v", got)
	}

	// A query at an interior shared time resolves to the earlier of the two
	// coincident points, never an average.
	c = MustParse(pts(row(0, 0), row(5, 1), row(9, 1), row(10, 2)))
	if got := c.Scalar(1); got != 5 {
		t.Fatalf("expected 5 at the shared time, got %v", got)
	}
}

func TestRightPointEasingGovernsSegment(t *testing.T) {
	c := MustParse(pts(row(0, 0, "easeInQuad"), row(1, 1, "easeOutQuad")))
	if got := c.Scalar(0.5); !mgl32.FloatEqualThreshold(got, 0.75, eps) {
		t.Fatalf("expected easeOutQuad(0.5)=0.75, got %v", got)
	}
}

func TestEasingOvershootIsNotClamped(t *testing.T) {
	c := MustParse(pts(row(0, 0), row(1, 1, "easeOutBack")))
	if got := c.Scalar(0.7); got <= 1 {
		t.Fatalf("expected overshoot above 1, got %v", got)
	}
}

func TestVector3Linear(t *testing.T) {
	c := MustParse(pts(row(0, 0, 0, 0), row(2, 4, -6, 2)))
	want := mgl32.Vec3{1, 2, -3}
	if got := c.Vector3(1); !got.ApproxEqualThreshold(want, eps) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBinarySearchIrregularSpacing(t *testing.T) {
	raw := pts(
		row(0, 0),
		row(1, 0.1),
		row(2, 0.2),
		row(3, 5),
		row(4, 5.5),
		row(5, 100),
		row(6, 101),
	)
	c := MustParse(raw)

	cases := []struct {
		t    float32
		want float32
	}{
		{0.05, 0.5},
		{0.2, 2},
		{4, 2 + 3.8/4.8},
		{5.25, 3.5},
		{50, 4 + 44.5/94.5},
		{100.5, 5.5},
	}
	for _, tc := range cases {
		if got := c.Scalar(tc.t); !mgl32.FloatEqualThreshold(got, tc.want, eps) {
			t.Fatalf("Scalar(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}
}

func TestCatmullRomHitsControlPoints(t *testing.T) {
	c := MustParse(pts(
		row(0, 0, 0, 0),
		row(1, 2, 0, 1, "splineCatmullRom"),
		row(3, 1, 2, 2, "splineCatmullRom"),
		row(4, 4, 1, 3, "splineCatmullRom"),
		row(6, 0, 0, 4, "splineCatmullRom"),
	))

	for _, p := range c.Points() {
		want := p.Value.Vec3()
		if got := c.Vector3(p.Time); !got.ApproxEqualThreshold(want, eps) {
			t.Fatalf("Vector3(%v) = %v, want %v", p.Time, got, want)
		}
	}
}

func TestCatmullRomIsContinuous(t *testing.T) {
	c := MustParse(pts(
		row(0, 0, 0, 0),
		row(1, 2, 0, 1, "splineCatmullRom"),
		row(3, 1, 2, 2, "splineCatmullRom"),
		row(4, 4, 1, 3, "splineCatmullRom"),
	))

	for _, boundary := range []float32{1, 2} {
		below := c.Vector3(boundary - 1e-3)
		above := c.Vector3(boundary + 1e-3)
		if below.Sub(above).Len() > 0.05 {
			t.Fatalf("discontinuity at %v: %v vs %v", boundary, below, above)
		}
	}
}

func TestCatmullRomDiffersFromLinear(t *testing.T) {
	raw := func(flag string) []any {
		last := row(4, 0, 0, 2)
		if flag != "" {
			last = row(4, 0, 0, 2, flag)
		}
		return pts(row(0, 0, 0, 0), row(1, 3, 0, 1), last, row(2, 5, 0, 3))
	}
	smooth := MustParse(raw("splineCatmullRom"))
	linear := MustParse(raw(""))

	if smooth.Vector3(1.5).ApproxEqualThreshold(linear.Vector3(1.5), eps) {
		t.Fatalf("expected smoothed segment to leave the straight line")
	}
	if !smooth.Vector3(0.5).ApproxEqualThreshold(linear.Vector3(0.5), eps) {
		t.Fatalf("segment without the smoothing flag should stay linear")
	}
}

func TestRotationSlerp(t *testing.T) {
	c := MustParse(pts(row(0, 0, 0, 0), row(0, 90, 0, 1)))
	want := common.Euler(mgl32.Vec3{0, 45, 0})
	if got := c.Rotation(0.5); !common.SameRotation(got, want, eps) {
		t.Fatalf("expected 45 degree yaw, got %v", got)
	}
}

func TestRotationEquivalentEulerAngles(t *testing.T) {
	a := MustParse(pts(row(0, 0, 0, 0), row(0, 90, 0, 1)))
	b := MustParse(pts(row(360, 0, 0, 0), row(0, 450, 0, 1)))
	c := MustParse(pts(row(0, -360, 0, 0), row(0, -270, 0, 1)))

	for _, tt := range []float32{0, 0.25, 0.5, 0.9, 1} {
		qa := a.Rotation(tt)
		if qb := b.Rotation(tt); !common.SameRotation(qa, qb, eps) {
			t.Fatalf("t=%v: %v vs %v", tt, qa, qb)
		}
		if qc := c.Rotation(tt); !common.SameRotation(qa, qc, eps) {
			t.Fatalf("t=%v: %v vs %v", tt, qa, qc)
		}
	}
}

func TestVector4(t *testing.T) {
	c := MustParse(pts(row(1, 0, 0, 1, 0), row(0, 0, 1, 0, 4)))
	want := mgl32.Vec4{0.5, 0, 0.5, 0.5}
	if got := c.Vector4(2); !got.ApproxEqualThreshold(want, eps) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestKindMismatchPanics(t *testing.T) {
	c := MustParse(pts(row(0, 0, 0, 0), row(1, 1, 1, 1)))

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrKindMismatch) {
			t.Fatalf("expected ErrKindMismatch panic, got %v", r)
		}
	}()
	c.Scalar(0.5)
}

func TestUnmarshalYAML(t *testing.T) {
	src := `
position: [[0, 0, 0, 0], [1, 2, 3, 1, "easeInOutQuad"]]
flat: [1, 2, 3]
`
	var doc struct {
		Position Curve `yaml:"position"`
		Flat     Curve `yaml:"flat"`
	}
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Position.Kind() != KindVector3 || doc.Position.Len() != 2 {
		t.Fatalf("unexpected curve %s", doc.Position.String())
	}
	if got := doc.Position.Vector3(0.5); !got.ApproxEqualThreshold(mgl32.Vec3{0.5, 1, 1.5}, eps) {
		t.Fatalf("unexpected midpoint %v", got)
	}
	if got := doc.Flat.Vector3(10); got != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("unexpected flat value %v", got)
	}

	bad := "position: [[0, 0, 0], [1, 1, 1]]"
	err := yaml.Unmarshal([]byte(bad), &doc)
	if !errors.Is(err, ErrMalformedControlPoint) {
		t.Fatalf("expected ErrMalformedControlPoint, got %v", err)
	}
}

func TestUnmarshalJSON(t *testing.T) {
	var c Curve
	if err := c.UnmarshalJSON([]byte(`[[0, 0], [1, 2, "easeStep"]]`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := c.Scalar(1.5); got != 0 {
		t.Fatalf("step easing should hold the left value, got %v", got)
	}
}

func TestString(t *testing.T) {
	c := MustParse(pts(row(0, 0), row(1, 10)))
	if s := c.String(); !strings.HasPrefix(s, "{ (0, 0)") {
		t.Fatalf("unexpected string %q", s)
	}
}

func TestConcurrentEvaluation(t *testing.T) {
	c := MustParse(pts(
		row(0, 0, 0, 0),
		row(1, 2, 0, 1, "splineCatmullRom"),
		row(3, 1, 2, 2, "easeInOutSine", "splineCatmullRom"),
		row(4, 0, 0, 4),
	))
	want := make([]mgl32.Vec3, 64)
	for i := range want {
		want[i] = c.Vector3(float32(i) / 16)
	}

	var wg sync.WaitGroup
	errs := make(chan string, len(want))
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range want {
				if got := c.Vector3(float32(i) / 16); got != want[i] {
					errs <- "concurrent evaluation diverged"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatal(msg)
	}
}

func TestParseErrorNamesPackageOnce(t *testing.T) {
	_, err := Parse(pts(row(0, 0, 0)))
	if err == nil {
		t.Fatal("expected an error")
	}
	if n := strings.Count(err.Error(), "curve:"); n != 1 {
		t.Fatalf("expected one package prefix, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "point 0") {
		t.Fatalf("error should name the point, got %q", err.Error())
	}
}
