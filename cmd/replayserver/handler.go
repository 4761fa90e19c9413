package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/automoto/emberwatch/shared/messages"
	"github.com/gorilla/websocket"
)

const maxRequestBody = 1 << 16 // 64 KB

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

type connectedMessage struct {
	Type     string `json:"type"`
	PlayerID int64  `json:"playerId"`
	Tick     int64  `json:"tick"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func Login(reg *Registry) http.HandlerFunc {
	return authHandler(reg.Login, http.StatusUnauthorized)
}

func Register(reg *Registry) http.HandlerFunc {
	return authHandler(reg.Register, http.StatusBadRequest)
}

func authHandler(issue func(user, pass string) (string, error), failStatus int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(detailResponse{Detail: "invalid json"})
			return
		}

		token, err := issue(req.Username, req.Password)
		if err != nil {
			status := failStatus
			if errors.Is(err, errEmptyFields) {
				status = http.StatusBadRequest
			}
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(detailResponse{Detail: err.Error()})
			return
		}

		log.Printf("[replay] issued token for %q via %s", req.Username, r.URL.Path)
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// StreamConfig controls how a capture is played to each client.
type StreamConfig struct {
	Frames       []json.RawMessage
	Period       time.Duration
	Loop         bool
	HelloTimeout time.Duration
	Logger       *log.Logger
}

// Stream upgrades to a websocket, checks the hello token and then plays the
// capture at one frame per period. Actions sent by the client are logged and
// otherwise ignored.
func Stream(reg *Registry, cfg StreamConfig) http.HandlerFunc {
	var nextPlayer atomic.Int64
	if cfg.HelloTimeout <= 0 {
		cfg.HelloTimeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Printf("[replay] upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		_ = conn.SetReadDeadline(time.Now().Add(cfg.HelloTimeout))
		var hello messages.ClientHello
		if err := conn.ReadJSON(&hello); err != nil {
			logger.Printf("[replay] no hello: %v", err)
			return
		}
		_ = conn.SetReadDeadline(time.Time{})

		user, ok := reg.Lookup(hello.Token)
		if !ok {
			_ = conn.WriteJSON(errorMessage{Type: messages.TypeError, Message: "invalid token"})
			message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid token")
			_ = conn.WriteMessage(websocket.CloseMessage, message)
			return
		}

		id := nextPlayer.Add(1)
		logger.Printf("[replay] %q joined as player %d (%s client)", user, id, hello.Client)
		if err := conn.WriteJSON(connectedMessage{Type: messages.TypeConnected, PlayerID: id}); err != nil {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go func() {
			defer cancel()
			for {
				_, payload, err := conn.ReadMessage()
				if err != nil {
					return
				}
				var a messages.Action
				if err := json.Unmarshal(payload, &a); err != nil {
					logger.Printf("[replay] discarding malformed message from player %d: %v", id, err)
					continue
				}
				logger.Printf("[replay] player %d: %s", id, a.Type)
			}
		}()

		if err := play(ctx, conn, cfg); err != nil {
			if ctx.Err() == nil {
				logger.Printf("[replay] player %d: %v", id, err)
			}
			return
		}
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "capture finished")
		_ = conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(time.Second))
	}
}

func play(ctx context.Context, conn *websocket.Conn, cfg StreamConfig) error {
	if len(cfg.Frames) == 0 {
		return nil
	}
	ticker := time.NewTicker(cfg.Period)
	defer ticker.Stop()

	for i := 0; ; i++ {
		if i == len(cfg.Frames) {
			if !cfg.Loop {
				return nil
			}
			i = 0
		}
		if err := conn.WriteMessage(websocket.TextMessage, cfg.Frames[i]); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// streamable drops recorded "connected" messages; each client gets its own.
func streamable(frames []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(frames))
	for _, f := range frames {
		msg, err := messages.DecodeInbound(f)
		if err != nil {
			log.Printf("[replay] skipping frame: %v", err)
			continue
		}
		if _, ok := msg.(messages.Connected); ok {
			continue
		}
		out = append(out, f)
	}
	return out
}
