package system

import (
	"fmt"
	"log"
	"path"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/common"
	"github.com/milk9111/trackanim/ecs"
	"github.com/milk9111/trackanim/ecs/component"
	"github.com/milk9111/trackanim/prefabs"
	"github.com/milk9111/trackanim/track"
)

// ScriptSystem runs tengo scripts that write a track's static values. A
// script defines update(engine, t); engine exposes set_vector3,
// set_rotation, set_scalar, clear and time.
type ScriptSystem struct {
	runtimes map[ecs.Entity]*scriptRuntime
	load     func(name string) ([]byte, error)
}

type scriptRuntime struct {
	file     string
	compiled *tengo.Compiled
	// failed stops a broken script from logging every frame until reload.
	failed bool
}

const scriptDispatch = `
update(__engine, __time)
`

func NewScriptSystem() *ScriptSystem {
	return &ScriptSystem{
		runtimes: map[ecs.Entity]*scriptRuntime{},
		load:     prefabs.LoadScript,
	}
}

// Reload drops compiled copies of file so the next frame reads it again.
func (s *ScriptSystem) Reload(file string) {
	base := path.Base(file)
	for e, rt := range s.runtimes {
		if path.Base(rt.file) == base {
			delete(s.runtimes, e)
		}
	}
}

func (s *ScriptSystem) Update(w *ecs.World) {
	_, clock, ok := ecs.First(w, component.ClockComponent.Kind())
	if !ok {
		return
	}
	_, scene, ok := ecs.First(w, component.SceneComponent.Kind())
	if !ok {
		return
	}

	ecs.ForEach(w, component.ScriptComponent.Kind(), func(e ecs.Entity, sc *component.Script) {
		rt := s.runtime(e, sc)
		if rt.failed {
			return
		}
		tr := scene.Registry.GetOrCreate(sc.Track)
		if err := rt.run(buildScriptEngine(tr, clock.Time), clock.Time); err != nil {
			log.Printf("script: %s: update: %v", sc.File, err)
			rt.failed = true
		}
	})
}

func (s *ScriptSystem) runtime(e ecs.Entity, sc *component.Script) *scriptRuntime {
	if rt, ok := s.runtimes[e]; ok && rt.file == sc.File {
		return rt
	}
	rt, err := s.compile(sc.File)
	if err != nil {
		log.Printf("script: %s: %v", sc.File, err)
		rt = &scriptRuntime{file: sc.File, failed: true}
	}
	s.runtimes[e] = rt
	return rt
}

func (s *ScriptSystem) compile(file string) (*scriptRuntime, error) {
	src, err := s.load(file)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	script := tengo.NewScript(append(append([]byte{}, src...), scriptDispatch...))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__time", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return &scriptRuntime{file: file, compiled: compiled}, nil
}

func (rt *scriptRuntime) run(engine *tengo.ImmutableMap, t float32) error {
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__time", float64(t)); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildScriptEngine(tr *track.Track, t float32) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"time": &tengo.Float{Value: float64(t)},
	}

	values["set_vector3"] = &tengo.UserFunction{Name: "set_vector3", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p, v, err := propertyVector(args)
		if err == nil {
			err = tr.SetVector3(p, v)
		}
		return scriptResult(err)
	}}

	values["set_rotation"] = &tengo.UserFunction{Name: "set_rotation", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p, v, err := propertyVector(args)
		if err == nil {
			err = tr.SetRotation(p, common.Euler(v))
		}
		return scriptResult(err)
	}}

	values["set_scalar"] = &tengo.UserFunction{Name: "set_scalar", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, err := scriptProperty(args[0])
		if err != nil {
			return scriptResult(err)
		}
		f, ok := tengo.ToFloat64(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "value", Expected: "float", Found: args[1].TypeName()}
		}
		return scriptResult(tr.SetScalar(p, float32(f)))
	}}

	values["clear"] = &tengo.UserFunction{Name: "clear", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, err := scriptProperty(args[0])
		if err != nil {
			return scriptResult(err)
		}
		tr.Clear(p)
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

// scriptResult turns a setter failure into a tengo error value the script
// can test with is_error.
func scriptResult(err error) (tengo.Object, error) {
	if err != nil {
		return &tengo.Error{Value: &tengo.String{Value: err.Error()}}, nil
	}
	return tengo.TrueValue, nil
}

func scriptProperty(obj tengo.Object) (track.Property, error) {
	name, ok := tengo.ToString(obj)
	if !ok {
		return 0, fmt.Errorf("property name must be a string, got %s", obj.TypeName())
	}
	return track.ParseProperty(name)
}

func propertyVector(args []tengo.Object) (track.Property, mgl32.Vec3, error) {
	if len(args) != 2 {
		return 0, mgl32.Vec3{}, tengo.ErrWrongNumArguments
	}
	p, err := scriptProperty(args[0])
	if err != nil {
		return 0, mgl32.Vec3{}, err
	}
	var items []tengo.Object
	switch v := args[1].(type) {
	case *tengo.Array:
		items = v.Value
	case *tengo.ImmutableArray:
		items = v.Value
	}
	if len(items) != 3 {
		return 0, mgl32.Vec3{}, fmt.Errorf("%s wants an array of 3 numbers", p)
	}
	var out mgl32.Vec3
	for i, item := range items {
		f, ok := tengo.ToFloat64(item)
		if !ok {
			return 0, mgl32.Vec3{}, fmt.Errorf("%s[%d] is %s, not a number", p, i, item.TypeName())
		}
		out[i] = float32(f)
	}
	return p, out, nil
}
