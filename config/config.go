// Package config loads runtime settings shared by the binaries.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config controls how a scene is evaluated and presented.
type Config struct {
	GridUnit   float32 `env:"TRACKANIM_GRID_UNIT" envDefault:"0.6"`
	LeftHanded bool    `env:"TRACKANIM_LEFT_HANDED"`
	Scene      string  `env:"TRACKANIM_SCENE" envDefault:"demo.yaml"`
	FPS        int     `env:"TRACKANIM_FPS" envDefault:"60"`
	Debug      bool    `env:"TRACKANIM_DEBUG"`
	Watch      bool    `env:"TRACKANIM_WATCH"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Parse loads the environment and then applies command-line flags on top.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg, err := ParseEnv()
	if err != nil {
		return Config{}, err
	}

	gridUnit := float64(cfg.GridUnit)
	fs.Float64Var(&gridUnit, "grid-unit", gridUnit, "world units per grid cell (default: TRACKANIM_GRID_UNIT or 0.6)")
	fs.BoolVar(&cfg.LeftHanded, "left-handed", cfg.LeftHanded, "mirror translation and rotation")
	fs.StringVar(&cfg.Scene, "scene", cfg.Scene, "scene file, embedded name or path on disk")
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "frames sampled per second of scene time")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log per-frame diagnostics")
	fs.BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload the scene when prefab files change")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.GridUnit = float32(gridUnit)
	return cfg, cfg.Validate()
}

// Validate rejects settings no binary can run with.
func (c Config) Validate() error {
	if c.GridUnit <= 0 {
		return fmt.Errorf("config: grid unit must be positive, got %v", c.GridUnit)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	if c.Scene == "" {
		return fmt.Errorf("config: scene is required")
	}
	return nil
}
