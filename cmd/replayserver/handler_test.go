package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/automoto/emberwatch/netsync"
	"github.com/automoto/emberwatch/network"
)

func newTestServer(t *testing.T, frames []string) (*httptest.Server, *Registry) {
	t.Helper()
	raw := make([]json.RawMessage, len(frames))
	for i, f := range frames {
		raw[i] = json.RawMessage(f)
	}
	reg := NewRegistry(time.Hour)
	t.Cleanup(reg.Stop)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", Login(reg))
	mux.HandleFunc("POST /auth/register", Register(reg))
	mux.HandleFunc("GET /ws", Stream(reg, StreamConfig{Frames: streamable(raw), Period: 10 * time.Millisecond}))
	mux.HandleFunc("GET /health", Health())

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, reg
}

func TestAuthEndpoints(t *testing.T) {
	srv, reg := newTestServer(t, nil)
	auth := network.NewAuthClient(srv.URL)
	ctx := context.Background()

	token, err := auth.Register(ctx, "ash", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user, ok := reg.Lookup(token); !ok || user != "ash" {
		t.Fatalf("lookup = %q %v", user, ok)
	}

	if _, err := auth.Register(ctx, "ash", "pw"); !errors.Is(err, network.ErrAuthFailed) {
		t.Fatalf("duplicate register err = %v", err)
	}
	if _, err := auth.Login(ctx, "ash", "wrong"); !errors.Is(err, network.ErrAuthFailed) {
		t.Fatalf("bad password err = %v", err)
	}
	if _, err := auth.Login(ctx, "ash", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

func TestStreamRejectsUnknownToken(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	c := network.NewClient(network.ClientConfig{Logger: log.New(io.Discard, "", 0)})
	c.Connect("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", "forged")

	deadline := time.Now().Add(2 * time.Second)
	for c.State() != network.StateError && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.State() != network.StateError {
		t.Fatalf("state = %v, want error", c.State())
	}
}

func TestStreamFeedsSession(t *testing.T) {
	srv, _ := newTestServer(t, []string{
		`{"type":"connected","playerId":99,"tick":0}`,
		`{"type":"state","tick":1,"state":{"players":{"1":{"x":0,"y":0}},"notifications":["hello"]}}`,
		`{"type":"state","tick":2,"state":{"players":{"1":{"x":1,"y":0}},"notifications":["hello"]}}`,
	})

	token, err := network.NewAuthClient(srv.URL).Register(context.Background(), "brin", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	c := network.NewClient(network.ClientConfig{Logger: log.New(io.Discard, "", 0)})
	c.Connect("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", token)
	defer c.Disconnect()

	s := netsync.NewSession(netsync.ConfigFromGlobals(), netsync.WithLogger(log.New(io.Discard, "", 0)))

	deadline := time.Now().Add(2 * time.Second)
	for s.Stats().Snapshots < 2 && time.Now().Before(deadline) {
		for _, msg := range c.DrainMessages() {
			if err := s.Handle(msg); err != nil {
				t.Fatalf("handle: %v", err)
			}
		}
		time.Sleep(5 * time.Millisecond)
	}

	if s.Stats().Snapshots < 2 {
		t.Fatalf("snapshots = %d, want 2", s.Stats().Snapshots)
	}
	if s.PlayerID() != "1" {
		t.Fatalf("player id = %q, want the server-assigned 1", s.PlayerID())
	}
	if got := s.DrainNotifications(); len(got) != 1 || got[0].Content != "hello" {
		t.Fatalf("notifications = %+v", got)
	}

	f := s.Frame()
	if len(f.Players) != 1 || !f.Players[0].Local {
		t.Fatalf("players = %+v", f.Players)
	}
}
