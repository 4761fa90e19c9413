// Command snaptrace runs the snapshot reconciliation pipeline without a
// window. It either connects to a live server or replays a JSON-lines capture
// on a simulated clock, and logs every first-seen notification and every
// effect it starts. With -view a live trace is also drawn in the terminal.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/netsync"
	"github.com/automoto/emberwatch/network"
	"github.com/automoto/emberwatch/shared/capture"
	"github.com/gdamore/tcell/v2"
)

func main() {
	configPath := flag.String("config", "emberwatch.yaml", "optional YAML overrides")
	server := flag.String("server", "", "websocket URL (defaults to the configured server)")
	token := flag.String("token", "", "access token; if empty, -user and -pass are used to log in")
	user := flag.String("user", "", "username for /auth/login")
	pass := flag.String("pass", "", "password for /auth/login")
	replayPath := flag.String("replay", "", "replay a JSON-lines capture instead of connecting")
	recordPath := flag.String("record", "", "write every received frame to this JSON-lines file")
	fps := flag.Int("fps", 60, "simulated display refresh rate")
	duration := flag.Duration("duration", 0, "stop a live trace after this long (0 = until interrupted)")
	showView := flag.Bool("view", false, "draw the live world in the terminal (Esc or q quits)")
	sound := flag.Bool("sound", false, "with -view, chime on notifications and area ignitions")
	logPath := flag.String("logfile", "", "with -view, write the trace log here instead of discarding it")
	flag.Parse()

	if err := config.LoadOverrides(*configPath); err != nil {
		log.Fatalf("[trace] %v", err)
	}
	logger := log.New(os.Stderr, "[trace] ", log.LstdFlags|log.Lmicroseconds)
	if *showView && *replayPath == "" {
		// the terminal belongs to the view
		logger.SetOutput(io.Discard)
		if *logPath != "" {
			lf, err := os.Create(*logPath)
			if err != nil {
				log.Fatalf("[trace] %v", err)
			}
			defer lf.Close()
			logger.SetOutput(lf)
		}
	}

	if *replayPath != "" {
		f, err := os.Open(*replayPath)
		if err != nil {
			log.Fatalf("[trace] %v", err)
		}
		msgs, err := capture.ReadAll(f)
		f.Close()
		if err != nil {
			log.Fatalf("[trace] %v", err)
		}
		stats := Replay(msgs, netsync.ConfigFromGlobals(), *fps, logger)
		logger.Printf("done: %+v", stats)
		return
	}

	url := *server
	if url == "" {
		url = config.Network.ServerURL
	}
	tok := *token
	if tok == "" {
		authURL, err := network.AuthBaseURL(url)
		if err != nil {
			log.Fatalf("[trace] %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		tok, err = network.NewAuthClient(authURL).Login(ctx, *user, *pass)
		cancel()
		if err != nil {
			log.Fatalf("[trace] login: %v", err)
		}
	}

	var rec *capture.Recorder
	if *recordPath != "" {
		f, err := os.Create(*recordPath)
		if err != nil {
			log.Fatalf("[trace] %v", err)
		}
		defer f.Close()
		rec = capture.NewRecorder(f)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	var view *View
	if *showView {
		screen, err := tcell.NewScreen()
		if err != nil {
			log.Fatalf("[trace] %v", err)
		}
		if err := screen.Init(); err != nil {
			log.Fatalf("[trace] %v", err)
		}
		defer screen.Fini()

		var c *chime
		if *sound {
			c = newChime(logger)
		}
		view = NewView(screen, c)

		var quit context.CancelFunc
		ctx, quit = context.WithCancel(ctx)
		defer quit()
		go watchKeys(screen, quit)
	}

	stats := Live(ctx, url, tok, rec, view, *fps, logger)
	logger.Printf("done: %+v", stats)
}
