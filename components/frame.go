package components

import (
	"github.com/automoto/emberwatch/netsync"
	"github.com/yohamta/donburi"
)

// FrameData is a singleton holding the model produced by the session this frame
type FrameData struct {
	Model netsync.FrameModel
}

var Frame = donburi.NewComponentType[FrameData]()

// ConnectionData is a singleton mirroring the socket state for the HUD
type ConnectionData struct {
	State    string
	PlayerID string
	Error    string
	Stats    netsync.Stats
}

var Connection = donburi.NewComponentType[ConnectionData]()
