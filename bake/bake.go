// Package bake samples a scene at a fixed frame rate without a window.
package bake

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/compose"
	"github.com/milk9111/trackanim/ecs"
	"github.com/milk9111/trackanim/ecs/component"
	"github.com/milk9111/trackanim/ecs/system"
	"github.com/milk9111/trackanim/prefabs"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type Options struct {
	FPS        int
	GridUnit   float32
	LeftHanded bool
	// Workers bounds how many objects are resolved at once. Zero uses
	// GOMAXPROCS.
	Workers int
}

// Frame is every object's resolved offsets at one sampled time.
type Frame struct {
	Index   int           `yaml:"frame"`
	Time    float32       `yaml:"time"`
	Objects []ObjectFrame `yaml:"objects"`
}

// ObjectFrame mirrors compose.Offsets with plain arrays so it encodes
// cleanly. Rotations are stored as [w, x, y, z].
type ObjectFrame struct {
	Name          string      `yaml:"name"`
	Active        bool        `yaml:"active"`
	Time          float32     `yaml:"t"`
	Position      *[3]float32 `yaml:"position,omitempty,flow"`
	Rotation      *[4]float32 `yaml:"rotation,omitempty,flow"`
	Scale         *[3]float32 `yaml:"scale,omitempty,flow"`
	LocalRotation *[4]float32 `yaml:"local_rotation,omitempty,flow"`
	Dissolve      *float32    `yaml:"dissolve,omitempty"`
	DissolveArrow *float32    `yaml:"dissolve_arrow,omitempty"`
	Interactable  *float32    `yaml:"interactable,omitempty"`
	Definite      *[3]float32 `yaml:"definite_position,omitempty,flow"`
}

// NewObjectFrame flattens one object's offsets.
func NewObjectFrame(name string, t float32, active bool, off compose.Offsets) ObjectFrame {
	return ObjectFrame{
		Name:          name,
		Active:        active,
		Time:          t,
		Position:      vec(off.Position),
		Rotation:      quat(off.Rotation),
		Scale:         vec(off.Scale),
		LocalRotation: quat(off.LocalRotation),
		Dissolve:      off.Dissolve,
		DissolveArrow: off.DissolveArrow,
		Interactable:  off.Interactable,
		Definite:      vec(off.Definite),
	}
}

func vec(v *mgl32.Vec3) *[3]float32 {
	if v == nil {
		return nil
	}
	a := [3]float32(*v)
	return &a
}

func quat(q *mgl32.Quat) *[4]float32 {
	if q == nil {
		return nil
	}
	return &[4]float32{q.W, q.V[0], q.V[1], q.V[2]}
}

// Run samples scene from time 0 to its duration inclusive. Track writers
// run in order for every frame; the objects of a frame are then resolved
// concurrently against the frame's snapshot.
func Run(ctx context.Context, scene *prefabs.Scene, opts Options) ([]Frame, error) {
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("bake: fps must be positive, got %d", opts.FPS)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	w, err := system.BuildWorld(scene, system.Options{GridUnit: opts.GridUnit, LeftHanded: opts.LeftHanded})
	if err != nil {
		return nil, err
	}
	writers := ecs.NewScheduler(system.TrackDriverSystem{}, system.NewScriptSystem(), system.SnapshotSystem{})

	var objects []*component.Animated
	ecs.ForEach(w, component.AnimatedComponent.Kind(), func(_ ecs.Entity, a *component.Animated) {
		objects = append(objects, a)
	})

	count := int(scene.Duration*float32(opts.FPS)) + 1
	frames := make([]Frame, 0, count)
	for i := range count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := float32(i) / float32(opts.FPS)
		system.SetTime(w, t)
		writers.Update(w)

		_, sc, _ := ecs.First(w, component.SceneComponent.Kind())
		frame, err := sampleFrame(ctx, sc, objects, t, workers)
		if err != nil {
			return nil, fmt.Errorf("bake: frame %d: %w", i, err)
		}
		frame.Index = i
		frames = append(frames, frame)
	}
	return frames, nil
}

func sampleFrame(ctx context.Context, sc *component.Scene, objects []*component.Animated, t float32, workers int) (Frame, error) {
	out := make([]ObjectFrame, len(objects))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, a := range objects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			views, err := sc.Snapshot.Views(a.Tracks)
			if err != nil {
				return fmt.Errorf("%s: %w", a.Name, err)
			}
			local, active := a.NormalizedTime(t)
			off := sc.Compositor.Resolve(a.Curves, compose.Sources(views), local)
			out[i] = NewObjectFrame(a.Name, local, active, off)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Frame{}, err
	}
	return Frame{Time: t, Objects: out}, nil
}

// Write encodes frames as a YAML document.
func Write(w io.Writer, frames []Frame) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(frames); err != nil {
		return fmt.Errorf("bake: encode: %w", err)
	}
	return enc.Close()
}
