package components

import "github.com/yohamta/donburi"

// CastingData tracks spell targeting started from the keyboard and finished
// with a click
type CastingData struct {
	Spell     string
	Radius    int // Manhattan radius of the preview diamond
	Range     int
	HasTarget bool
	TargetX   int
	TargetY   int
	HoverX    int
	HoverY    int
}

// InputData is a singleton with the local player's control state
type InputData struct {
	Class   string // class last reported by the server for the local player
	Casting *CastingData
}

var Input = donburi.NewComponentType[InputData]()
