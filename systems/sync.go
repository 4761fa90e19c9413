package systems

import (
	"github.com/automoto/emberwatch/components"
	"github.com/automoto/emberwatch/netsync"
	"github.com/automoto/emberwatch/network"
	"github.com/yohamta/donburi/ecs"
)

// FrameSource is the part of a session the frame system reads from.
type FrameSource interface {
	Frame() netsync.FrameModel
	DrainNotifications() []netsync.Notification
	Stats() netsync.Stats
	LastError() string
}

// NewFrameSystem returns an ECS system that advances the session by one
// display frame and publishes the result into the Frame singleton. Every
// renderer reads from that singleton, never from the session.
func NewFrameSystem(src FrameSource, client *network.Client) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		frame := getOrCreateFrame(e)
		frame.Model = src.Frame()

		feed := getOrCreateFeed(e)
		for _, n := range src.DrainNotifications() {
			PushNotification(feed, n)
		}

		input := getOrCreateInput(e)
		for _, p := range frame.Model.Players {
			if p.Local {
				input.Class = p.Label
				break
			}
		}

		conn := getOrCreateConnection(e)
		conn.Stats = src.Stats()
		conn.Error = src.LastError()
		if client != nil {
			conn.State = client.State().String()
			conn.PlayerID = string(client.PlayerID())
			if err := client.LastError(); err != nil {
				conn.Error = err.Error()
			}
		}
	}
}

func getOrCreateFrame(e *ecs.ECS) *components.FrameData {
	entry, ok := components.Frame.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.Frame))
	}
	return components.Frame.Get(entry)
}

func getOrCreateConnection(e *ecs.ECS) *components.ConnectionData {
	entry, ok := components.Connection.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.Connection))
	}
	return components.Connection.Get(entry)
}

func getOrCreateInput(e *ecs.ECS) *components.InputData {
	entry, ok := components.Input.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.Input))
	}
	return components.Input.Get(entry)
}

// currentFrame returns the model published this frame, or nil before the
// first frame system run.
func currentFrame(e *ecs.ECS) *netsync.FrameModel {
	entry, ok := components.Frame.First(e.World)
	if !ok {
		return nil
	}
	return &components.Frame.Get(entry).Model
}
