package main

import (
	"fmt"
	"image/color"
	"log"
	"time"

	core "ecsforge/internal/core"
	"ecsforge/internal/core/components"
	"ecsforge/internal/core/config"
	"ecsforge/internal/core/ecs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// demoGame adapts a Universe to ebiten.Game: ebiten owns the outer frame
// loop and calls Universe.Loop once per Update, exactly the role spec.md
// §6's RendererArgs hooks describe the renderer filling without the core
// package itself depending on ebiten.
type demoGame struct {
	universe *core.Universe
	lastTick time.Time
	status   ecs.Status
}

func newDemoGame() (*demoGame, error) {
	cfg := config.DefaultUniverseConfig()
	cfg.Title = "ecsforge demo"

	u, err := core.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("forge-demo: new universe: %w", err)
	}
	if err := u.Start(); err != nil {
		return nil, fmt.Errorf("forge-demo: start universe: %w", err)
	}
	if err := u.RegisterBuiltinComponents(
		components.PositionAttr(),
		components.VelocityAttr(),
	); err != nil {
		return nil, fmt.Errorf("forge-demo: register components: %w", err)
	}

	w := u.Scenes.Top().World
	e := w.CreateEntity()
	if err := w.AddComponent(e, components.TypePosition, &components.Position{}); err != nil {
		return nil, err
	}
	if err := w.AddComponent(e, components.TypeVelocity, &components.Velocity{X: 30, Y: 15}); err != nil {
		return nil, err
	}
	w.RegisterSystem(ecs.SystemDesc{
		Name:   "integrate-position",
		Reads:  []ecs.ComponentType{components.TypeVelocity},
		Writes: []ecs.ComponentType{components.TypePosition},
		Join:   ecs.JoinInner,
		Transform: func(w *ecs.World, frame ecs.Frame, instances []ecs.Instance) error {
			vel := instances[0].Component.(*components.Velocity)
			pos := instances[1].Component.(*components.Position)
			pos.X += vel.X * frame.DT
			pos.Y += vel.Y * frame.DT
			return nil
		},
	})

	return &demoGame{universe: u, lastTick: time.Now()}, nil
}

func (g *demoGame) Update() error {
	now := time.Now()
	dt := now.Sub(g.lastTick).Seconds()
	g.lastTick = now

	status, err := g.universe.Loop(core.Callbacks{}, func() float64 { return dt })
	if err != nil {
		return err
	}
	g.status = status
	return nil
}

func (g *demoGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 32, 255})
	ebitenutil.DebugPrint(screen, fmt.Sprintf("ecsforge demo — status: %s", g.status))
}

func (g *demoGame) Layout(_, _ int) (int, int) {
	return g.universe.Config.Width, g.universe.Config.Height
}

func main() {
	game, err := newDemoGame()
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowSize(game.universe.Config.Width, game.universe.Config.Height)
	ebiten.SetWindowTitle(game.universe.Config.Title)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
