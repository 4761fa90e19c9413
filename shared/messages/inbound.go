// Package messages defines the JSON wire protocol spoken with the game server.
// It must stay free of ebiten or any graphics dependency so headless tools can
// decode server traffic.
package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Inbound message type discriminants.
const (
	TypeConnected = "connected"
	TypeState     = "state"
	TypeError     = "error"
)

// ErrMissingType is returned when an inbound message carries no "type" field.
var ErrMissingType = errors.New("message has no type")

// Inbound is one decoded server message. The set of implementations is closed:
// Connected, StateUpdate, ServerError and Unknown.
type Inbound interface {
	MessageType() string
	inbound()
}

// Connected is the session handshake reply.
type Connected struct {
	PlayerID ID    `json:"playerId"`
	Tick     int64 `json:"tick"`
}

// StateUpdate carries one authoritative world snapshot.
type StateUpdate struct {
	Tick  int64    `json:"tick"`
	State Snapshot `json:"state"`
}

// ServerError is fatal for the current connection attempt.
type ServerError struct {
	Message string `json:"message"`
}

// Unknown is any message whose discriminant this client does not understand.
// Receivers treat it as a no-op.
type Unknown struct {
	Type string
	Raw  json.RawMessage
}

func (Connected) MessageType() string   { return TypeConnected }
func (StateUpdate) MessageType() string { return TypeState }
func (ServerError) MessageType() string { return TypeError }
func (u Unknown) MessageType() string   { return u.Type }

func (Connected) inbound()   {}
func (StateUpdate) inbound() {}
func (ServerError) inbound() {}
func (Unknown) inbound()     {}

type envelope struct {
	Type *string `json:"type"`
}

// DecodeInbound decodes a raw server frame into its typed message.
func DecodeInbound(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == nil {
		return nil, ErrMissingType
	}

	switch *env.Type {
	case TypeConnected:
		var msg Connected
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeConnected, err)
		}
		return msg, nil
	case TypeState:
		var msg StateUpdate
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeState, err)
		}
		return msg, nil
	case TypeError:
		var msg ServerError
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", TypeError, err)
		}
		return msg, nil
	default:
		return Unknown{Type: *env.Type, Raw: json.RawMessage(bytes.Clone(data))}, nil
	}
}

// ID identifies a player, monster or projectile. The server serializes some
// ids as JSON numbers and others (dictionary keys) as strings; both decode to
// the same ID.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}
