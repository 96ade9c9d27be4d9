package main

import (
	"log"

	"github.com/damyanp/dplife/engine"
	"github.com/damyanp/dplife/engine/camera"
	"github.com/damyanp/dplife/engine/particlelife"
	"github.com/damyanp/dplife/engine/points"
	"github.com/damyanp/dplife/engine/renderer"
	"github.com/damyanp/dplife/engine/window"
)

func main() {
	win := window.NewWindow(
		window.WithTitle("Particle Life"),
		window.WithSize(1024, 768),
	)

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win)

	world, err := particlelife.NewWorld(r)
	if err != nil {
		log.Fatalf("failed to create world: %v", err)
	}

	pointsRenderer, err := points.NewPointsRenderer(r)
	if err != nil {
		log.Fatalf("failed to create points renderer: %v", err)
	}

	width, height := r.SurfaceSize()
	cam := camera.NewCamera(camera.Viewport{
		Width:  float32(width),
		Height: float32(height),
	})

	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithWorld(world),
		engine.WithPointsRenderer(pointsRenderer),
		engine.WithCamera(cam),
	)

	log.Printf("particle life: R regenerates rules, Space resets particles, P toggles the profiler, Esc quits")
	e.Run()

	r.WaitIdle()
	world.Release()
	pointsRenderer.Release()
	r.Shutdown()
}
