package main

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/trackanim/common"
	"github.com/milk9111/trackanim/compose"
	"github.com/milk9111/trackanim/ecs"
	"github.com/milk9111/trackanim/ecs/component"
	"github.com/milk9111/trackanim/ecs/system"
	"golang.org/x/image/colornames"
)

const (
	pixelsPerUnit = 40
	trailSamples  = 48
	objectRadius  = 8
)

// toScreen projects a world position onto the top-down view: X right, Z up.
func toScreen(p mgl32.Vec3) (float32, float32) {
	return baseWidth/2 + p[0]*pixelsPerUnit, baseHeight/2 - p[2]*pixelsPerUnit
}

func drawGrid(screen *ebiten.Image) {
	for x := float32(0); x <= baseWidth; x += pixelsPerUnit {
		vector.StrokeLine(screen, x, 0, x, baseHeight, 1, colornames.Darkslategray, false)
	}
	for y := float32(0); y <= baseHeight; y += pixelsPerUnit {
		vector.StrokeLine(screen, 0, y, baseWidth, y, 1, colornames.Darkslategray, false)
	}
	vector.StrokeLine(screen, baseWidth/2, 0, baseWidth/2, baseHeight, 1, colornames.Slategray, false)
	vector.StrokeLine(screen, 0, baseHeight/2, baseWidth, baseHeight/2, 1, colornames.Slategray, false)
}

// drawTrails plots where each object travels over its whole lifetime
// against the current frame's track state.
func drawTrails(screen *ebiten.Image, w *ecs.World) {
	_, sc, ok := ecs.First(w, component.SceneComponent.Kind())
	if !ok {
		return
	}
	ecs.ForEach2(w, component.AnimatedComponent.Kind(), component.BaseComponent.Kind(), func(_ ecs.Entity, a *component.Animated, base *component.Transform) {
		views, err := sc.Snapshot.Views(a.Tracks)
		if err != nil {
			return
		}
		sources := compose.Sources(views)
		clr := withAlpha(a.Color, 0x60)

		var px, py float32
		for i := 0; i <= trailSamples; i++ {
			s := float32(i) / trailSamples
			pos := system.ApplyOffsets(*base, sc.Compositor.Resolve(a.Curves, sources, s)).Position
			x, y := toScreen(pos)
			if i > 0 {
				vector.StrokeLine(screen, px, py, x, y, 2, clr, true)
			}
			px, py = x, y
		}
	})
}

func drawObjects(screen *ebiten.Image, w *ecs.World) {
	ecs.ForEach2(w, component.AnimatedComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, a *component.Animated, t *component.Transform) {
		if !a.Active {
			return
		}
		x, y := toScreen(t.Position)
		radius := objectRadius * max(t.Scale[0], t.Scale[2])
		alpha := uint8(255 * common.Clamp01(t.Dissolve))
		vector.DrawFilledCircle(screen, x, y, radius, withAlpha(a.Color, alpha), true)
		if !t.Interactable {
			vector.StrokeCircle(screen, x, y, radius+3, 1, colornames.Gray, true)
		}

		heading := t.WorldRotation().Rotate(mgl32.Vec3{0, 0, 1})
		hx, hy := toScreen(t.Position.Add(heading.Mul(radius * 2 / pixelsPerUnit)))
		vector.StrokeLine(screen, x, y, hx, hy, 2, withAlpha(colornames.White, uint8(255*common.Clamp01(t.DissolveArrow))), true)
	})
}

func drawPlayer(screen *ebiten.Image, w *ecs.World) {
	_, p, ok := ecs.First(w, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	x, y := toScreen(p.Pose.Position)
	vector.DrawFilledRect(screen, x-6, y-6, 12, 12, colornames.Crimson, false)
	facing := p.Pose.Rotation.Rotate(mgl32.Vec3{0, 0, 1})
	fx, fy := toScreen(p.Pose.Position.Add(facing.Mul(0.75)))
	vector.StrokeLine(screen, x, y, fx, fy, 2, colornames.Crimson, true)
}

func drawTimeline(screen *ebiten.Image, w *ecs.World) {
	_, sc, ok := ecs.First(w, component.SceneComponent.Kind())
	if !ok || sc.Duration <= 0 {
		return
	}
	const (
		left   = 20
		height = 6
	)
	width := float32(baseWidth - 2*left)
	top := float32(baseHeight - 24)
	vector.DrawFilledRect(screen, left, top, width, height, colornames.Dimgray, false)
	progress := common.Clamp01(system.Time(w) / sc.Duration)
	vector.DrawFilledRect(screen, left, top, width*progress, height, colornames.Lightgray, false)

	ecs.ForEach(w, component.AnimatedComponent.Kind(), func(_ ecs.Entity, a *component.Animated) {
		start := left + width*common.Clamp01(a.Spawn/sc.Duration)
		end := left + width*common.Clamp01((a.Spawn+a.Lifetime)/sc.Duration)
		vector.StrokeLine(screen, start, top-4, end, top-4, 2, withAlpha(a.Color, 0xc0), false)
	})
}

func withAlpha(c color.Color, a uint8) color.Color {
	if c == nil {
		c = color.White
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = a
	return n
}
