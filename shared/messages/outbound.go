package messages

// ClientHello is the first frame sent after the websocket opens.
type ClientHello struct {
	Token  string `json:"token"`
	Client string `json:"client"`
}

// Action type identifiers understood by the server.
const (
	ActionMove        = "move"
	ActionCast        = "cast"
	ActionRest        = "rest"
	ActionTalk        = "talk"
	ActionChooseClass = "choose_class"
)

// Action is a queued player intent. The server keeps at most one per player
// per tick, so the client sends at a fixed interval.
type Action struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type MovePayload struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

type CastPayload struct {
	Spell string `json:"spell"`
	TX    int    `json:"tx"`
	TY    int    `json:"ty"`
}

type ChooseClassPayload struct {
	Class string `json:"class"`
}

type TalkPayload struct {
	Text string `json:"text"`
}

func Move(dx, dy int) Action {
	return Action{Type: ActionMove, Payload: MovePayload{DX: dx, DY: dy}}
}

func Cast(spell string, tx, ty int) Action {
	return Action{Type: ActionCast, Payload: CastPayload{Spell: spell, TX: tx, TY: ty}}
}

func Rest() Action {
	return Action{Type: ActionRest, Payload: struct{}{}}
}

func Talk(text string) Action {
	return Action{Type: ActionTalk, Payload: TalkPayload{Text: text}}
}

func ChooseClass(class string) Action {
	return Action{Type: ActionChooseClass, Payload: ChooseClassPayload{Class: class}}
}
