package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/common"
	"github.com/milk9111/trackanim/compose"
	"github.com/milk9111/trackanim/curve"
	"github.com/milk9111/trackanim/easing"
	"github.com/milk9111/trackanim/track"
)

var ErrUnknownScene = errors.New("prefabs: unknown scene")

// Scene is a SceneSpec with every curve, property and event resolved.
type Scene struct {
	Name       string
	GridUnit   float32
	LeftHanded bool
	Duration   float32
	Background color.Color
	Registry   *track.Registry
	Driver     *track.Driver
	Objects    []Object
	Scripts    []ScriptSpec
	Player     *Player
}

// Object is one animated object. Its curves and the paths of its tracks are
// sampled at normalized time: 0 at Spawn, 1 at Spawn+Lifetime.
type Object struct {
	Name     string
	Curves   *compose.Object
	Tracks   []string
	Spawn    float32
	Lifetime float32
	Base     Base
	Color    color.Color
}

// Base is the transform offsets are applied to.
type Base struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type Player struct {
	Track string
	Start compose.Pose
}

func LoadScene(name string) (*Scene, error) {
	spec, err := LoadSceneSpec(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
		}
		return nil, err
	}
	scene, err := BuildScene(spec)
	if err != nil {
		return nil, fmt.Errorf("prefabs: build %s: %w", name, err)
	}
	return scene, nil
}

func BuildScene(spec SceneSpec) (*Scene, error) {
	reg := track.NewRegistry()
	for i, ts := range spec.Tracks {
		if ts.Name == "" {
			return nil, fmt.Errorf("track %d: missing name", i)
		}
		if err := seedTrack(reg.GetOrCreate(ts.Name), ts); err != nil {
			return nil, fmt.Errorf("track %q: %w", ts.Name, err)
		}
	}

	objects := make([]Object, 0, len(spec.Objects))
	for i, os := range spec.Objects {
		obj, err := buildObject(os, spec.Duration)
		if err != nil {
			return nil, fmt.Errorf("object %d %q: %w", i, os.Name, err)
		}
		if obj.Name == "" {
			obj.Name = fmt.Sprintf("object%d", i)
		}
		for _, name := range obj.Tracks {
			reg.GetOrCreate(name)
		}
		objects = append(objects, obj)
	}

	events, err := buildEvents(spec.Events)
	if err != nil {
		return nil, err
	}
	driver, err := track.NewDriver(reg, events)
	if err != nil {
		return nil, err
	}

	for i, s := range spec.Scripts {
		if s.File == "" || s.Track == "" {
			return nil, fmt.Errorf("script %d %q: file and track are required", i, s.Name)
		}
		reg.GetOrCreate(s.Track)
	}

	scene := &Scene{
		Name:       spec.Name,
		GridUnit:   spec.GridUnit,
		LeftHanded: spec.LeftHanded,
		Duration:   spec.Duration,
		Background: color.Black,
		Registry:   reg,
		Driver:     driver,
		Objects:    objects,
		Scripts:    slices.Clone(spec.Scripts),
	}
	if spec.Background != nil {
		scene.Background = spec.Background.Color
	}
	if p := spec.Player; p != nil {
		if p.Track == "" {
			return nil, fmt.Errorf("player: missing track")
		}
		reg.GetOrCreate(p.Track)
		scene.Player = &Player{
			Track: p.Track,
			Start: compose.Pose{
				Position: mgl32.Vec3(p.Position),
				Rotation: common.Euler(mgl32.Vec3(p.Rotation)),
			},
		}
	}
	if scene.Duration <= 0 {
		scene.Duration = lastEnd(scene)
	}
	return scene, nil
}

func seedTrack(tr *track.Track, ts TrackSpec) error {
	for _, name := range slices.Sorted(maps.Keys(ts.Static)) {
		p, err := track.ParseProperty(name)
		if err != nil {
			return err
		}
		if err := setStatic(tr, p, ts.Static[name]); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(ts.Paths)) {
		p, err := track.ParseProperty(name)
		if err != nil {
			return err
		}
		if err := tr.SetPath(p, ts.Paths[name]); err != nil {
			return err
		}
	}
	return nil
}

func setStatic(tr *track.Track, p track.Property, v Values) error {
	want := 1
	if p.Kind() == curve.KindVector3 {
		want = 3
	}
	if len(v) != want {
		return fmt.Errorf("%w: %s wants %d values, got %d", track.ErrPropertyKind, p, want, len(v))
	}
	switch {
	case p.IsRotation():
		return tr.SetRotation(p, common.Euler(mgl32.Vec3{v[0], v[1], v[2]}))
	case want == 3:
		return tr.SetVector3(p, mgl32.Vec3{v[0], v[1], v[2]})
	default:
		return tr.SetScalar(p, v[0])
	}
}

func buildObject(os ObjectSpec, sceneDuration float32) (Object, error) {
	curves := &compose.Object{}
	for _, name := range slices.Sorted(maps.Keys(os.Curves)) {
		p, err := track.ParseProperty(name)
		if err != nil {
			return Object{}, err
		}
		if err := curves.Set(p, os.Curves[name]); err != nil {
			return Object{}, err
		}
	}

	lifetime := os.Lifetime
	if lifetime <= 0 {
		lifetime = sceneDuration - os.Spawn
	}
	if lifetime <= 0 {
		return Object{}, fmt.Errorf("lifetime must be positive")
	}

	scale := mgl32.Vec3{1, 1, 1}
	if os.Base.Scale != nil {
		scale = mgl32.Vec3(*os.Base.Scale)
	}
	var c color.Color = color.White
	if os.Color != nil {
		c = os.Color.Color
	}
	return Object{
		Name:     os.Name,
		Curves:   curves,
		Tracks:   slices.Clone([]string(os.Tracks)),
		Spawn:    os.Spawn,
		Lifetime: lifetime,
		Base: Base{
			Position: mgl32.Vec3(os.Base.Position),
			Rotation: common.Euler(mgl32.Vec3(os.Base.Rotation)),
			Scale:    scale,
		},
		Color: c,
	}, nil
}

func buildEvents(specs []EventSpec) ([]track.Event, error) {
	var events []track.Event
	for i, es := range specs {
		kind, err := track.ParseEventKind(es.Type)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		ease := easing.Linear
		if es.Easing != "" {
			if ease, err = easing.Parse(es.Easing); err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
		}
		if es.Track == "" || len(es.Properties) == 0 {
			return nil, fmt.Errorf("event %d: track and properties are required", i)
		}
		for _, name := range slices.Sorted(maps.Keys(es.Properties)) {
			p, err := track.ParseProperty(name)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			events = append(events, track.Event{
				Kind:     kind,
				Track:    es.Track,
				Property: p,
				Start:    es.Start,
				Duration: es.Duration,
				Easing:   ease,
				Curve:    es.Properties[name],
			})
		}
	}
	return events, nil
}

func lastEnd(s *Scene) float32 {
	var end float32
	for _, o := range s.Objects {
		end = max(end, o.Spawn+o.Lifetime)
	}
	for _, ev := range s.Driver.Events() {
		end = max(end, ev.Start+ev.Duration)
	}
	return end
}
