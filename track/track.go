// Package track holds named animation channels shared by many objects.
//
// A Track is written by a single writer between frames (events, scripts).
// Readers never touch a Track directly; they take a View, an immutable copy
// of the track's values for one frame.
package track

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/trackanim/curve"
)

type Track struct {
	name    string
	vectors map[Property]mgl32.Vec3
	rots    map[Property]mgl32.Quat
	scalars map[Property]float32
	paths   map[Property]*curve.Curve
}

func New(name string) *Track {
	return &Track{
		name:    name,
		vectors: map[Property]mgl32.Vec3{},
		rots:    map[Property]mgl32.Quat{},
		scalars: map[Property]float32{},
		paths:   map[Property]*curve.Curve{},
	}
}

func (t *Track) Name() string {
	return t.name
}

// SetVector3 stores a static position or scale.
func (t *Track) SetVector3(p Property, v mgl32.Vec3) error {
	if !p.HasStatic() || p.Kind() != curve.KindVector3 || p.IsRotation() {
		return fmt.Errorf("%w: vector3 for %s", ErrPropertyKind, p)
	}
	t.vectors[p] = v
	return nil
}

// SetRotation stores a static world or local rotation.
func (t *Track) SetRotation(p Property, q mgl32.Quat) error {
	if !p.IsRotation() {
		return fmt.Errorf("%w: rotation for %s", ErrPropertyKind, p)
	}
	t.rots[p] = q
	return nil
}

// SetScalar stores a static dissolve, arrow dissolve, interactable or time.
func (t *Track) SetScalar(p Property, v float32) error {
	if !p.HasStatic() || p.Kind() != curve.KindScalar {
		return fmt.Errorf("%w: scalar for %s", ErrPropertyKind, p)
	}
	t.scalars[p] = v
	return nil
}

// SetPath installs a path curve; nil removes it. The curve's kind must match
// the property. Empty curves are accepted and evaluate to the zero value.
func (t *Track) SetPath(p Property, c *curve.Curve) error {
	if !p.HasPath() {
		return fmt.Errorf("%w: %s has no path", ErrPropertyKind, p)
	}
	if c == nil {
		delete(t.paths, p)
		return nil
	}
	if k := c.Kind(); k != curve.KindEmpty && k != p.Kind() {
		return fmt.Errorf("%w: %s path for %s", ErrPropertyKind, k, p)
	}
	t.paths[p] = c
	return nil
}

// Clear removes the static value of p.
func (t *Track) Clear(p Property) {
	delete(t.vectors, p)
	delete(t.rots, p)
	delete(t.scalars, p)
}

// ClearPath removes the path curve of p.
func (t *Track) ClearPath(p Property) {
	delete(t.paths, p)
}

// View copies the current values.
func (t *Track) View() View {
	return View{
		name:    t.name,
		vectors: maps.Clone(t.vectors),
		rots:    maps.Clone(t.rots),
		scalars: maps.Clone(t.scalars),
		paths:   maps.Clone(t.paths),
	}
}

// restore copies p's static value and path from a view.
func (t *Track) restore(p Property, from View) {
	t.Clear(p)
	t.ClearPath(p)
	if v, ok := from.vectors[p]; ok {
		t.vectors[p] = v
	}
	if q, ok := from.rots[p]; ok {
		t.rots[p] = q
	}
	if s, ok := from.scalars[p]; ok {
		t.scalars[p] = s
	}
	if c, ok := from.paths[p]; ok {
		t.paths[p] = c
	}
}

// View is a read-only snapshot of a Track. The zero View has no values.
type View struct {
	name    string
	vectors map[Property]mgl32.Vec3
	rots    map[Property]mgl32.Quat
	scalars map[Property]float32
	paths   map[Property]*curve.Curve
}

func (v View) Name() string {
	return v.name
}

func (v View) Vector3(p Property) *mgl32.Vec3 {
	val, ok := v.vectors[p]
	if !ok {
		return nil
	}
	return &val
}

func (v View) Rotation(p Property) *mgl32.Quat {
	val, ok := v.rots[p]
	if !ok {
		return nil
	}
	return &val
}

func (v View) Scalar(p Property) *float32 {
	val, ok := v.scalars[p]
	if !ok {
		return nil
	}
	return &val
}

func (v View) PathVector3(p Property, t float32) *mgl32.Vec3 {
	c, ok := v.paths[p]
	if !ok {
		return nil
	}
	val := c.Vector3(t)
	return &val
}

func (v View) PathRotation(p Property, t float32) *mgl32.Quat {
	c, ok := v.paths[p]
	if !ok {
		return nil
	}
	val := c.Rotation(t)
	return &val
}

func (v View) PathScalar(p Property, t float32) *float32 {
	c, ok := v.paths[p]
	if !ok {
		return nil
	}
	val := c.Scalar(t)
	return &val
}

// Path returns the raw path curve for p, if any.
func (v View) Path(p Property) (*curve.Curve, bool) {
	c, ok := v.paths[p]
	return c, ok
}

// Registry owns every track of a scene.
type Registry struct {
	tracks map[string]*Track
}

func NewRegistry() *Registry {
	return &Registry{tracks: map[string]*Track{}}
}

func (r *Registry) Get(name string) (*Track, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.tracks[name]
	return t, ok
}

func (r *Registry) GetOrCreate(name string) *Track {
	if t, ok := r.tracks[name]; ok {
		return t
	}
	t := New(name)
	r.tracks[name] = t
	return t
}

// Names returns the track names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.tracks))
}

// Snapshot takes one View of every track. Call it once per frame after all
// writers have run.
func (r *Registry) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	views := make(map[string]View, len(r.tracks))
	for name, t := range r.tracks {
		views[name] = t.View()
	}
	return Snapshot{views: views}
}

// Snapshot is the frame's read-only view of a registry.
type Snapshot struct {
	views map[string]View
}

func (s Snapshot) View(name string) (View, bool) {
	v, ok := s.views[name]
	return v, ok
}

// Views returns the views for names in order.
func (s Snapshot) Views(names []string) ([]View, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]View, 0, len(names))
	for _, n := range names {
		v, ok := s.views[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTrack, n)
		}
		out = append(out, v)
	}
	return out, nil
}
