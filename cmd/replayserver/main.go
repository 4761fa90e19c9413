// Command replayserver is a local stand-in for the game server. It accepts
// any registered account and plays a JSON-lines capture to every client that
// connects, so the client can be exercised without the real backend.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/automoto/emberwatch/shared/capture"
)

func main() {
	port := flag.Int("port", 8000, "HTTP listen port")
	capturePath := flag.String("capture", "", "JSON-lines capture to play (required)")
	period := flag.Duration("period", 200*time.Millisecond, "delay between frames")
	loop := flag.Bool("loop", true, "restart the capture when it ends")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if *capturePath == "" {
		log.Fatal("[replay] -capture is required")
	}
	f, err := os.Open(*capturePath)
	if err != nil {
		log.Fatalf("[replay] %v", err)
	}
	frames, err := capture.ReadAll(f)
	f.Close()
	if err != nil {
		log.Fatalf("[replay] %v", err)
	}

	reg := NewRegistry(*ttl)
	defer reg.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", Login(reg))
	mux.HandleFunc("POST /auth/register", Register(reg))
	mux.HandleFunc("GET /ws", Stream(reg, StreamConfig{Frames: streamable(frames), Period: *period, Loop: *loop}))
	mux.HandleFunc("GET /health", Health())

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("[replay] serving %d frames from %s on %s (period=%s loop=%v)", len(frames), *capturePath, addr, *period, *loop)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[replay] fatal: %v", err)
	}
}
