package scenes

import (
	"log"
	"sync"
	"time"

	cfg "github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/netsync"
	"github.com/automoto/emberwatch/network"
	"github.com/automoto/emberwatch/shared/messages"
	"github.com/automoto/emberwatch/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

const (
	layerWorld ecs.LayerID = iota
	layerOverlay
)

// WorldScene drives one session. Every Update drains the socket queue into
// the session before the ECS systems sample the frame, so snapshot handling
// and frame sampling never interleave.
type WorldScene struct {
	ecsWorld     *ecs.ECS
	sceneChanger SceneChanger
	netClient    *network.Client
	session      *netsync.Session
	planner      *network.ActionPlanner
	once         sync.Once
}

func NewWorldScene(sc SceneChanger, client *network.Client) *WorldScene {
	return &WorldScene{
		sceneChanger: sc,
		netClient:    client,
		planner:      network.NewActionPlanner(cfg.Network.ActionInterval()),
	}
}

func (ws *WorldScene) Update() {
	ws.once.Do(ws.configure)

	if ws.session.Pump(ws.netClient) {
		log.Printf("[world] connection %s, effects will finish locally", ws.netClient.State())
	}

	if ws.session.Closed() && inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		ws.netClient.Disconnect()
		ws.sceneChanger.ChangeScene(NewLoginScene(ws.sceneChanger))
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		cfg.Debug.ShowGrid = !cfg.Debug.ShowGrid
	}

	ws.ecsWorld.Update()
}

func (ws *WorldScene) Draw(screen *ebiten.Image) {
	screen.Fill(cfg.Palette.Background)

	if ws.ecsWorld == nil {
		return
	}
	ws.ecsWorld.Draw(screen)
}

func (ws *WorldScene) configure() {
	ws.ecsWorld = ecs.NewECS(donburi.NewWorld())

	ws.session = netsync.NewSession(netsync.ConfigFromGlobals(),
		netsync.WithSpawnFunc(systems.NewIgnitionShake(ws.ecsWorld)),
	)

	send := func(a messages.Action) error {
		if ws.session.Closed() {
			return nil
		}
		return ws.netClient.SendAction(a)
	}

	ws.ecsWorld.AddSystem(systems.NewFrameSystem(ws.session, ws.netClient))
	ws.ecsWorld.AddSystem(systems.UpdateNotificationFeed)
	ws.ecsWorld.AddSystem(systems.UpdateCamera)
	ws.ecsWorld.AddSystem(systems.NewActionSystem(ws.planner, send, time.Now))

	ws.ecsWorld.AddRenderer(layerWorld, systems.DrawWorld)
	ws.ecsWorld.AddRenderer(layerWorld, systems.DrawActors)
	ws.ecsWorld.AddRenderer(layerWorld, systems.DrawProjectiles)
	ws.ecsWorld.AddRenderer(layerWorld, systems.DrawDamageNumbers)
	ws.ecsWorld.AddRenderer(layerWorld, systems.DrawAnimations)
	ws.ecsWorld.AddRenderer(layerWorld, systems.DrawPendingSpells)
	ws.ecsWorld.AddRenderer(layerWorld, systems.DrawTargetPreview)
	ws.ecsWorld.AddRenderer(layerOverlay, systems.DrawHUD)
	ws.ecsWorld.AddRenderer(layerOverlay, systems.DrawNotificationFeed)
	ws.ecsWorld.AddRenderer(layerOverlay, systems.DrawDisconnected)
}
