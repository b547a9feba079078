package config

import (
	"flag"
	"io"
	"testing"
)

func TestParseEnvDefaults(t *testing.T) {
	cfg, err := ParseEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GridUnit != 0.6 || cfg.FPS != 60 || cfg.Scene != "demo.yaml" || cfg.LeftHanded {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("TRACKANIM_GRID_UNIT", "1.5")
	t.Setenv("TRACKANIM_LEFT_HANDED", "true")
	t.Setenv("TRACKANIM_FPS", "30")

	cfg, err := ParseEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.GridUnit != 1.5 || !cfg.LeftHanded || cfg.FPS != 30 {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	t.Setenv("TRACKANIM_SCENE", "env.yaml")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Parse(fs, []string{"-scene", "flag.yaml", "-grid-unit", "2"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scene != "flag.yaml" || cfg.GridUnit != 2 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad_env", map[string]string{"TRACKANIM_FPS": "fast"}, nil},
		{"zero_grid", nil, []string{"-grid-unit", "0"}},
		{"negative_fps", map[string]string{"TRACKANIM_FPS": "-1"}, nil},
		{"unknown_flag", nil, []string{"-nope"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			if _, err := Parse(fs, tc.args); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
