package main

import (
	"flag"
	"image"
	"log"

	"github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/fonts"
	"github.com/automoto/emberwatch/scenes"
	"github.com/automoto/emberwatch/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

func NewGame() *Game {
	g := &Game{
		bounds: image.Rectangle{},
	}
	g.scene = scenes.NewLoginScene(g)
	return g
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	configPath := flag.String("config", "emberwatch.yaml", "optional YAML file overriding netsync, effects and network settings")
	server := flag.String("server", "", "default websocket URL of the game server when no profile is saved")
	flag.Parse()

	if err := config.LoadOverrides(*configPath); err != nil {
		log.Fatalf("Failed to load config overrides: %v", err)
	}
	if *server != "" {
		config.Network.ServerURL = *server
	}

	if err := fonts.LoadDefaults(); err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle("Emberwatch")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	// Persistence is optional; the login form just starts empty without it
	if err := systems.InitPersistence("emberwatch"); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}

	if err := ebiten.RunGame(NewGame()); err != nil {
		log.Fatal(err)
	}
}
