package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/netsync"
	"github.com/automoto/emberwatch/network"
	"github.com/automoto/emberwatch/shared/capture"
	"github.com/automoto/emberwatch/shared/messages"
	"github.com/automoto/emberwatch/timeline"
)

// maxDrainFrames bounds how long a closed session is stepped while its
// effects finish.
const maxDrainFrames = 600

// sessionOptions logs notifications and spawns, and forwards them to view
// when one is attached.
func sessionOptions(logger *log.Logger, view *View) []netsync.Option {
	return []netsync.Option{
		netsync.WithLogger(logger),
		netsync.WithNotifyFunc(func(n netsync.Notification) {
			logger.Printf("tick=%d notify %q", n.Tick, n.Content)
			if view != nil {
				view.Notify(n)
			}
		}),
		netsync.WithSpawnFunc(func(in timeline.Instance) {
			logger.Printf("spawn %s #%d at (%g,%g) for %s", in.Kind, in.ID, in.Origin.X, in.Origin.Y, in.Duration)
			if view != nil {
				view.Spawn(in)
			}
		}),
	}
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// Replay feeds msgs through a fresh session on a simulated clock, one
// message per tick period with display frames stepped in between. After the
// last message the session is closed and stepped until its effects finish.
func Replay(msgs []json.RawMessage, cfg netsync.Config, fps int, logger *log.Logger) netsync.Stats {
	now := time.Unix(0, 0)
	opts := append(sessionOptions(logger, nil), netsync.WithClock(func() time.Time { return now }))
	s := netsync.NewSession(cfg, opts...)

	step := frameInterval(fps)
	perTick := max(int(cfg.TickPeriod/step), 1)

	for i, raw := range msgs {
		msg, err := messages.DecodeInbound(raw)
		if err != nil {
			logger.Printf("message %d: %v", i, err)
			continue
		}
		if err := s.Handle(msg); err != nil {
			logger.Printf("message %d: %v", i, err)
		}
		for f := 0; f < perTick; f++ {
			now = now.Add(step)
			s.Frame()
		}
	}

	s.Close()
	for f := 0; f < maxDrainFrames && !s.Idle(); f++ {
		now = now.Add(step)
		s.Frame()
	}
	return s.Stats()
}

// Live connects to a server and runs the session at the display rate until
// ctx ends or the connection drops. Every frame is drawn to view when it is
// not nil.
func Live(ctx context.Context, url, token string, rec *capture.Recorder, view *View, fps int, logger *log.Logger) netsync.Stats {
	cfg := network.ClientConfig{
		ClientKind:  config.Network.ClientKind,
		ReadLimit:   config.Network.ReadLimitBytes,
		DialTimeout: config.Network.DialTimeout(),
		Logger:      logger,
	}
	if rec != nil {
		cfg.OnFrame = func(b []byte) {
			if err := rec.Record(b); err != nil {
				logger.Printf("record: %v", err)
			}
		}
	}
	client := network.NewClient(cfg)
	client.Connect(url, token)
	defer client.Disconnect()

	s := netsync.NewSession(netsync.ConfigFromGlobals(), sessionOptions(logger, view)...)

	ticker := time.NewTicker(frameInterval(fps))
	defer ticker.Stop()

	done := ctx.Done()
	drained := 0
	for {
		select {
		case <-done:
			done = nil
			if !s.Closed() {
				s.Close()
			}
			continue
		case <-ticker.C:
		}

		s.Pump(client)
		f := s.Frame()
		if view != nil {
			view.Draw(f)
		}

		if s.Closed() {
			drained++
			if s.Idle() || drained >= maxDrainFrames {
				return s.Stats()
			}
		}
	}
}
