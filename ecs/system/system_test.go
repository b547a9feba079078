package system

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/common"
	"github.com/milk9111/trackanim/compose"
	"github.com/milk9111/trackanim/ecs"
	"github.com/milk9111/trackanim/ecs/component"
	"github.com/milk9111/trackanim/prefabs"
	"github.com/milk9111/trackanim/track"
	"gopkg.in/yaml.v3"
)

const sceneYAML = `
duration: 10
tracks:
  - name: lane
    static:
      dissolve: 0.5
    paths:
      position:
        - [0, 0, 0, 0]
        - [0, 0, 10, 1]
  - name: rig
    static:
      position: [1, 0, 0]
objects:
  - name: mover
    track: lane
    spawn: 2
    lifetime: 4
    base:
      position: [1, 0, 0]
  - name: fader
    spawn: 0
    lifetime: 10
    curves:
      dissolve: [[1, 0], [0, 1]]
      definitePosition: [0, 5, 0]
events:
  - type: animateTrack
    track: lane
    start: 0
    duration: 10
    properties:
      interactable: [[1, 0], [0, 1]]
player:
  track: rig
  position: [0, 1, 0]
`

func buildTestWorld(t *testing.T, src string, opts Options) *ecs.World {
	t.Helper()
	var spec prefabs.SceneSpec
	if err := yaml.Unmarshal([]byte(src), &spec); err != nil {
		t.Fatal(err)
	}
	scene, err := prefabs.BuildScene(spec)
	if err != nil {
		t.Fatal(err)
	}
	w, err := BuildWorld(scene, opts)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func findAnimated(t *testing.T, w *ecs.World, name string) ecs.Entity {
	t.Helper()
	var found ecs.Entity
	ecs.ForEach(w, component.AnimatedComponent.Kind(), func(e ecs.Entity, a *component.Animated) {
		if a.Name == name {
			found = e
		}
	})
	if !found.Valid() {
		t.Fatalf("no object named %s", name)
	}
	return found
}

func TestPipelineResolvesObjects(t *testing.T) {
	w := buildTestWorld(t, sceneYAML, Options{GridUnit: 0.5})
	pipeline := NewPipeline(nil, nil)

	SetTime(w, 4)
	pipeline.Update(w)

	mover := findAnimated(t, w, "mover")
	a, _ := ecs.Get(w, mover, component.AnimatedComponent.Kind())
	if !a.Active || a.Time != 0.5 {
		t.Fatalf("expected active at half lifetime, got %+v", a)
	}
	tr, ok := ecs.Get(w, mover, component.TransformComponent.Kind())
	if !ok {
		t.Fatal("expected resolved transform")
	}
	if !tr.Position.ApproxEqualThreshold(mgl32.Vec3{1, 0, 2.5}, 1e-4) {
		t.Fatalf("expected base plus half path scaled by grid, got %v", tr.Position)
	}
	if !mgl32.FloatEqualThreshold(tr.Dissolve, 0.5, 1e-6) {
		t.Fatalf("expected track dissolve, got %v", tr.Dissolve)
	}
	if tr.Interactable {
		t.Fatalf("interactable driven to 0.6 should be off")
	}

	fader := findAnimated(t, w, "fader")
	ft, _ := ecs.Get(w, fader, component.TransformComponent.Kind())
	if !ft.Position.ApproxEqualThreshold(mgl32.Vec3{0, 2.5, 0}, 1e-4) {
		t.Fatalf("definite position should replace the offset, got %v", ft.Position)
	}
	if !mgl32.FloatEqualThreshold(ft.Dissolve, 0.6, 1e-5) {
		t.Fatalf("expected local dissolve 0.6, got %v", ft.Dissolve)
	}
}

func TestPipelineSeeksBackwards(t *testing.T) {
	w := buildTestWorld(t, sceneYAML, Options{GridUnit: 1})
	pipeline := NewPipeline(nil, nil)
	mover := findAnimated(t, w, "mover")

	sample := func(at float32) component.Transform {
		SetTime(w, at)
		pipeline.Update(w)
		tr, _ := ecs.Get(w, mover, component.TransformComponent.Kind())
		return *tr
	}

	early := sample(3)
	sample(9)
	again := sample(3)
	if early != again {
		t.Fatalf("same time should give the same state: %+v vs %+v", early, again)
	}
	if !sample(0).Interactable {
		t.Fatalf("interactable should be on before the event lowers it")
	}
}

func TestPlayerAndMirror(t *testing.T) {
	w := buildTestWorld(t, sceneYAML, Options{GridUnit: 2, LeftHanded: true})
	NewPipeline(nil, nil).Update(w)

	_, p, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		t.Fatal("expected player")
	}
	if !p.Pose.Position.ApproxEqualThreshold(mgl32.Vec3{-2, 1, 0}, 1e-5) {
		t.Fatalf("expected mirrored, scaled player offset, got %v", p.Pose.Position)
	}
}

func TestClockSystem(t *testing.T) {
	w := buildTestWorld(t, sceneYAML, Options{GridUnit: 1})
	clock := &ClockSystem{Step: 4, Loop: true}

	clock.Update(w)
	clock.Update(w)
	if got := Time(w); got != 8 {
		t.Fatalf("expected 8, got %v", got)
	}
	clock.Update(w)
	if got := Time(w); got != 0 {
		t.Fatalf("expected loop back to 0 past the duration, got %v", got)
	}
	clock.Paused = true
	clock.Update(w)
	if got := Time(w); got != 0 {
		t.Fatalf("paused clock moved to %v", got)
	}
}

func TestApplyOffsets(t *testing.T) {
	base := component.IdentityTransform()
	base.Position = mgl32.Vec3{1, 1, 1}
	base.Scale = mgl32.Vec3{2, 2, 2}

	if got := ApplyOffsets(base, compose.Offsets{}); got != base {
		t.Fatalf("no offsets should leave base untouched, got %+v", got)
	}

	rot := common.Euler(mgl32.Vec3{0, 90, 0})
	scale := mgl32.Vec3{1, 0.5, 2}
	dissolve := float32(0.25)
	zero := float32(0)
	got := ApplyOffsets(base, compose.Offsets{
		Rotation:     &rot,
		Scale:        &scale,
		Dissolve:     &dissolve,
		Interactable: &zero,
	})
	if !common.SameRotation(got.Rotation, rot, 1e-6) {
		t.Fatalf("unexpected rotation %v", got.Rotation)
	}
	if got.Scale != (mgl32.Vec3{2, 1, 4}) || got.Dissolve != 0.25 || got.Interactable {
		t.Fatalf("unexpected transform %+v", got)
	}
}

func TestScriptSystem(t *testing.T) {
	scripts := map[string]string{
		"grow.tengo": `
update := func(engine, t) {
	engine.set_vector3("scale", [t, t, t])
	engine.set_rotation("rotation", [0, 90, 0])
	engine.set_scalar("dissolve", engine.time / 10)
	if t > 5 {
		engine.clear("dissolve")
	}
	if !is_error(engine.set_scalar("position", 1)) {
		engine.set_scalar("dissolveArrow", 0)
	}
}
`,
		"broken.tengo": `update := func(engine, t) { nope( }`,
	}
	load := func(name string) ([]byte, error) {
		src, ok := scripts[name]
		if !ok {
			return nil, errors.New("missing")
		}
		return []byte(src), nil
	}

	src := sceneYAML + `
scripts:
  - file: grow.tengo
    track: lane
  - file: broken.tengo
    track: lane
  - file: absent.tengo
    track: lane
`
	w := buildTestWorld(t, src, Options{GridUnit: 1})
	sys := NewScriptSystem()
	sys.load = load
	pipeline := NewPipeline(nil, sys)

	SetTime(w, 2)
	pipeline.Update(w)

	_, scene, _ := ecs.First(w, component.SceneComponent.Kind())
	v, _ := scene.Snapshot.View("lane")
	if got := v.Vector3(track.Scale); got == nil || *got != (mgl32.Vec3{2, 2, 2}) {
		t.Fatalf("script should set scale, got %v", got)
	}
	if got := v.Scalar(track.Dissolve); got == nil || !mgl32.FloatEqualThreshold(*got, 0.2, 1e-6) {
		t.Fatalf("script should set dissolve from engine.time, got %v", got)
	}
	if v.Rotation(track.Rotation) == nil {
		t.Fatalf("script should set rotation")
	}
	if v.Scalar(track.DissolveArrow) != nil {
		t.Fatalf("a rejected setter should return an error value")
	}

	SetTime(w, 6)
	pipeline.Update(w)
	v, _ = scene.Snapshot.View("lane")
	if v.Scalar(track.Dissolve) != nil {
		t.Fatalf("clear should remove the value")
	}

	broken := 0
	for _, rt := range sys.runtimes {
		if rt.failed {
			broken++
		}
	}
	if broken != 2 {
		t.Fatalf("expected the broken and missing scripts to be disabled, got %d", broken)
	}

	scripts["broken.tengo"] = `update := func(engine, t) {}`
	sys.Reload("prefabs/scripts/broken.tengo")
	pipeline.Update(w)
	for _, rt := range sys.runtimes {
		if rt.file == "broken.tengo" && rt.failed {
			t.Fatalf("reload should recompile the fixed script")
		}
	}
}

func TestAnimationSkipsObjectWithMissingTrack(t *testing.T) {
	w := buildTestWorld(t, sceneYAML, Options{GridUnit: 1})
	mover := findAnimated(t, w, "mover")
	a, _ := ecs.Get(w, mover, component.AnimatedComponent.Kind())
	a.Tracks = append(a.Tracks, "ghost")

	anim := &AnimationSystem{}
	frame := ecs.NewScheduler(SnapshotSystem{}, anim)
	frame.Update(w)
	frame.Update(w)

	if ecs.Has(w, mover, component.OffsetsComponent.Kind()) {
		t.Fatalf("object with an unknown track should not be resolved")
	}
	if len(anim.missing) != 1 || !anim.missing[mover] {
		t.Fatalf("expected mover to be reported once, got %v", anim.missing)
	}
	if !ecs.Has(w, findAnimated(t, w, "fader"), component.OffsetsComponent.Kind()) {
		t.Fatalf("other objects should still resolve")
	}

	a.Tracks = a.Tracks[:len(a.Tracks)-1]
	frame.Update(w)
	if !ecs.Has(w, mover, component.OffsetsComponent.Kind()) {
		t.Fatalf("mover should resolve once its tracks exist")
	}
	if len(anim.missing) != 0 {
		t.Fatalf("expected the report to be cleared, got %v", anim.missing)
	}
}
