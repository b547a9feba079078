package track

import (
	"fmt"
	"slices"
	"strings"

	"github.com/milk9111/trackanim/curve"
	"github.com/milk9111/trackanim/easing"
)

type EventKind uint8

const (
	// AnimateTrack drives a static property through a curve over Duration.
	// Curve times are normalized progress in [0,1].
	AnimateTrack EventKind = iota
	// AssignPath installs Curve as the property's path once Start is reached.
	AssignPath
)

func (k EventKind) String() string {
	switch k {
	case AnimateTrack:
		return "animateTrack"
	case AssignPath:
		return "assignPath"
	default:
		return fmt.Sprintf("event(%d)", uint8(k))
	}
}

// ParseEventKind accepts "animateTrack" and "assignPath" in any case, and
// the long form "assignPathAnimation".
func ParseEventKind(name string) (EventKind, error) {
	switch strings.ToLower(name) {
	case "animatetrack":
		return AnimateTrack, nil
	case "assignpath", "assignpathanimation":
		return AssignPath, nil
	}
	return 0, fmt.Errorf("track: unknown event type %q", name)
}

type Event struct {
	Kind     EventKind
	Track    string
	Property Property
	Start    float32
	Duration float32
	Easing   easing.Func
	Curve    *curve.Curve
}

type touched struct {
	track    *Track
	property Property
}

// Driver replays timed events onto a registry. Update is a function of t
// alone: every touched property is reset to its value at construction and
// all events that have started are applied again in start order, so seeking
// backwards works.
type Driver struct {
	registry *Registry
	events   []Event
	base     map[string]View
	touched  []touched
}

func NewDriver(r *Registry, events []Event) (*Driver, error) {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})

	d := &Driver{registry: r, events: sorted, base: map[string]View{}}
	seen := map[touched]bool{}
	for i, ev := range sorted {
		if err := validateEvent(ev); err != nil {
			return nil, fmt.Errorf("track: event %d: %w", i, err)
		}
		t := r.GetOrCreate(ev.Track)
		if _, ok := d.base[ev.Track]; !ok {
			d.base[ev.Track] = t.View()
		}
		key := touched{track: t, property: ev.Property}
		if !seen[key] {
			seen[key] = true
			d.touched = append(d.touched, key)
		}
	}
	return d, nil
}

func validateEvent(ev Event) error {
	if ev.Curve == nil {
		return fmt.Errorf("%s on %q has no curve", ev.Kind, ev.Track)
	}
	if k := ev.Curve.Kind(); k != curve.KindEmpty && k != ev.Property.Kind() {
		return fmt.Errorf("%w: %s curve for %s", ErrPropertyKind, k, ev.Property)
	}
	switch ev.Kind {
	case AnimateTrack:
		if !ev.Property.HasStatic() {
			return fmt.Errorf("%w: %s cannot be animated", ErrPropertyKind, ev.Property)
		}
	case AssignPath:
		if !ev.Property.HasPath() {
			return fmt.Errorf("%w: %s has no path", ErrPropertyKind, ev.Property)
		}
	default:
		return fmt.Errorf("unknown event kind %s", ev.Kind)
	}
	return nil
}

// Events returns the events in application order.
func (d *Driver) Events() []Event {
	return slices.Clone(d.events)
}

// Update writes the state of every touched property at time t.
func (d *Driver) Update(t float32) {
	if d == nil {
		return
	}
	for _, tp := range d.touched {
		tp.track.restore(tp.property, d.base[tp.track.name])
	}
	for _, ev := range d.events {
		if ev.Start > t {
			break
		}
		tr, ok := d.registry.Get(ev.Track)
		if !ok {
			continue
		}
		switch ev.Kind {
		case AnimateTrack:
			apply(tr, ev, ev.Easing.Apply(progress(ev, t)))
		case AssignPath:
			_ = tr.SetPath(ev.Property, ev.Curve)
		}
	}
}

func progress(ev Event, t float32) float32 {
	if ev.Duration <= 0 {
		return 1
	}
	p := (t - ev.Start) / ev.Duration
	if p > 1 {
		return 1
	}
	return p
}

func apply(tr *Track, ev Event, at float32) {
	p := ev.Property
	switch {
	case p.IsRotation():
		_ = tr.SetRotation(p, ev.Curve.Rotation(at))
	case p.Kind() == curve.KindVector3:
		_ = tr.SetVector3(p, ev.Curve.Vector3(at))
	default:
		_ = tr.SetScalar(p, ev.Curve.Scalar(at))
	}
}
