package main

import (
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/trackanim/bake"
	"github.com/milk9111/trackanim/config"
	"github.com/milk9111/trackanim/ecs"
	"github.com/milk9111/trackanim/ecs/component"
	"github.com/milk9111/trackanim/ecs/system"
	"github.com/milk9111/trackanim/prefabs"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	seekStep = 0.5
)

type Game struct {
	frames int
	cfg    config.Config

	world      *ecs.World
	pipeline   *ecs.Scheduler
	clock      *system.ClockSystem
	scripts    *system.ScriptSystem
	background color.Color

	watcher      *prefabs.Watcher
	hasClipboard bool

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI
	status  string
}

func NewGame(cfg config.Config) (*Game, error) {
	g := &Game{
		cfg:     cfg,
		clock:   &system.ClockSystem{Step: 1 / float32(cfg.FPS), Loop: true},
		scripts: system.NewScriptSystem(),
	}
	g.pipeline = system.NewPipeline(g.clock, g.scripts)
	if err := g.load(); err != nil {
		return nil, err
	}

	if cfg.Watch {
		w, err := prefabs.WatchPrefabs()
		if err != nil {
			log.Printf("watch prefabs: %v", err)
		} else {
			g.watcher = w
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.hasClipboard = true
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

// load builds the world for the configured scene, keeping the current time
// when reloading.
func (g *Game) load() error {
	scene, err := prefabs.LoadScene(g.cfg.Scene)
	if err != nil {
		return err
	}
	w, err := system.BuildWorld(scene, system.Options{
		GridUnit:   g.cfg.GridUnit,
		LeftHanded: g.cfg.LeftHanded,
		Debug:      g.cfg.Debug,
	})
	if err != nil {
		return err
	}
	if g.world != nil {
		system.SetTime(w, system.Time(g.world))
	}
	g.world = w
	g.background = scene.Background
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.frames++
	g.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.clock.Paused = !g.clock.Paused
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		system.SetTime(g.world, max(system.Time(g.world)-seekStep, 0))
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		system.SetTime(g.world, system.Time(g.world)+seekStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.toggleMirror()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		system.SetTime(g.world, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyFrame()
	}

	g.pipeline.Update(g.world)
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if prefabs.IsScriptFile(name) {
				g.scripts.Reload(name)
				g.status = "reloaded " + name
				continue
			}
			if err := g.load(); err != nil {
				log.Printf("reload %s: %v", name, err)
				g.status = "reload failed: " + err.Error()
				continue
			}
			g.status = "reloaded " + name
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) toggleMirror() {
	if _, sc, ok := ecs.First(g.world, component.SceneComponent.Kind()); ok {
		sc.Compositor.LeftHanded = !sc.Compositor.LeftHanded
	}
}

func (g *Game) leftHanded() bool {
	_, sc, ok := ecs.First(g.world, component.SceneComponent.Kind())
	return ok && sc.Compositor.LeftHanded
}

// copyFrame puts the current offsets of every object on the clipboard as
// YAML.
func (g *Game) copyFrame() {
	if !g.hasClipboard {
		g.status = "clipboard unavailable"
		return
	}
	var objects []bake.ObjectFrame
	ecs.ForEach(g.world, component.AnimatedComponent.Kind(), func(e ecs.Entity, a *component.Animated) {
		off, ok := ecs.Get(g.world, e, component.OffsetsComponent.Kind())
		if !ok {
			return
		}
		objects = append(objects, bake.NewObjectFrame(a.Name, a.Time, a.Active, *off))
	})
	data, err := yaml.Marshal(bake.Frame{Index: g.frames, Time: system.Time(g.world), Objects: objects})
	if err != nil {
		g.status = "copy failed: " + err.Error()
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.status = fmt.Sprintf("copied %d objects", len(objects))
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.background)

	drawGrid(screen)
	drawTrails(screen, g.world)
	drawObjects(screen, g.world)
	drawPlayer(screen, g.world)
	drawTimeline(screen, g.world)

	lines := []string{
		fmt.Sprintf("Frames: %d    FPS: %.2f    t=%.2f", g.frames, ebiten.ActualFPS(), system.Time(g.world)),
		"space: play/pause  left/right: seek  r: restart  m: mirror  c: copy  esc: menu",
	}
	if g.leftHanded() {
		lines = append(lines, "left-handed")
	}
	if g.clock.Paused {
		lines = append(lines, "paused")
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}
	ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
