package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/trackanim/curve"
	"gopkg.in/yaml.v3"
)

// SceneSpec is the authored form of a scene: tracks, objects animated by
// them, timed events and scripted drivers.
type SceneSpec struct {
	Name string `yaml:"name"`
	// GridUnit overrides the configured grid unit when set.
	GridUnit   float32      `yaml:"grid_unit"`
	LeftHanded bool         `yaml:"left_handed"`
	Duration   float32      `yaml:"duration"`
	Background *YAMLColor   `yaml:"background"`
	Tracks     []TrackSpec  `yaml:"tracks"`
	Objects    []ObjectSpec `yaml:"objects"`
	Events     []EventSpec  `yaml:"events"`
	Scripts    []ScriptSpec `yaml:"scripts"`
	Player     *PlayerSpec  `yaml:"player"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadSceneSpec(filename string) (SceneSpec, error) {
	return LoadSpec[SceneSpec](filename)
}

// TrackSpec seeds a track. Static values are keyed by property name;
// rotations are Euler degrees.
type TrackSpec struct {
	Name   string                  `yaml:"name"`
	Static map[string]Values       `yaml:"static"`
	Paths  map[string]*curve.Curve `yaml:"paths"`
}

type ObjectSpec struct {
	Name     string                  `yaml:"name"`
	Tracks   TrackRefs               `yaml:"track"`
	Curves   map[string]*curve.Curve `yaml:"curves"`
	Spawn    float32                 `yaml:"spawn"`
	Lifetime float32                 `yaml:"lifetime"`
	Base     TransformSpec           `yaml:"base"`
	Color    *YAMLColor              `yaml:"color"`
}

// EventSpec is one timed event. Every entry in Properties becomes its own
// track event sharing the timing and easing.
type EventSpec struct {
	Type       string                  `yaml:"type"`
	Track      string                  `yaml:"track"`
	Start      float32                 `yaml:"start"`
	Duration   float32                 `yaml:"duration"`
	Easing     string                  `yaml:"easing"`
	Properties map[string]*curve.Curve `yaml:"properties"`
}

// ScriptSpec binds a tengo script to the track it drives.
type ScriptSpec struct {
	Name  string `yaml:"name"`
	File  string `yaml:"file"`
	Track string `yaml:"track"`
}

// PlayerSpec places a rig driven by a single track's static values.
type PlayerSpec struct {
	Track    string     `yaml:"track"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
}

type TransformSpec struct {
	Position [3]float32  `yaml:"position"`
	Rotation [3]float32  `yaml:"rotation"`
	Scale    *[3]float32 `yaml:"scale"`
}

// Values is a static value: a bare number or a list of numbers.
type Values []float32

func (v *Values) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var f float32
		if err := value.Decode(&f); err != nil {
			return err
		}
		*v = Values{f}
		return nil
	case yaml.SequenceNode:
		var fs []float32
		if err := value.Decode(&fs); err != nil {
			return err
		}
		*v = fs
		return nil
	}
	return fmt.Errorf("line %d: value must be a number or a list of numbers", value.Line)
}

// TrackRefs is a track name or a list of them.
type TrackRefs []string

func (r *TrackRefs) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*r = TrackRefs{value.Value}
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		*r = names
		return nil
	}
	return fmt.Errorf("line %d: track must be a name or a list of names", value.Line)
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	var rgba [4]uint8
	rgba[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := parse(i * 2)
		if err != nil {
			return fmt.Errorf("invalid color format: %s: %w", value.Value, err)
		}
		rgba[i] = v
	}

	c.Color = color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]}
	return nil
}
