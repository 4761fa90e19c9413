package scenes

import (
	"context"
	"errors"
	"image/color"
	"log"
	"strings"
	"sync"
	"time"

	cfg "github.com/automoto/emberwatch/config"
	"github.com/automoto/emberwatch/network"
	"github.com/automoto/emberwatch/systems"
	"github.com/automoto/emberwatch/ui"
	"github.com/hajimehoshi/ebiten/v2"
)

type LoginScene struct {
	sceneChanger SceneChanger
	loginUI      *ui.LoginUI
	netClient    *network.Client
	once         sync.Once

	mu       sync.Mutex
	token    string
	authErr  error
	authDone bool
	pending  ui.Credentials
}

func NewLoginScene(sc SceneChanger) *LoginScene {
	return &LoginScene{sceneChanger: sc}
}

func (s *LoginScene) Update() {
	s.once.Do(s.configure)

	s.loginUI.Update()

	// Apply auth results on the main goroutine
	s.mu.Lock()
	if s.authDone {
		token, err, creds := s.token, s.authErr, s.pending
		s.authDone = false
		s.token = ""
		s.authErr = nil
		s.mu.Unlock()

		if err != nil {
			s.loginUI.SetStatus(authMessage(err))
			s.loginUI.SetBusy(false)
		} else {
			s.connect(creds, token)
		}
	} else {
		s.mu.Unlock()
	}

	if s.netClient == nil {
		return
	}

	switch s.netClient.State() {
	case network.StateJoined:
		s.loginUI.SetStatus("Joined! Loading world...")
		client := s.netClient
		s.netClient = nil
		s.sceneChanger.ChangeScene(NewWorldScene(s.sceneChanger, client))

	case network.StateError:
		errMsg := "Connection failed"
		if err := s.netClient.LastError(); err != nil {
			errMsg = err.Error()
		}
		s.loginUI.SetStatus(errMsg)
		s.loginUI.SetBusy(false)
		s.netClient.Disconnect()
		s.netClient = nil

	case network.StateConnecting:
		s.loginUI.SetStatus("Connecting...")

	case network.StateConnected:
		s.loginUI.SetStatus("Connected, waiting for server...")

	case network.StateDisconnected:
		s.loginUI.SetStatus("Disconnected")
		s.loginUI.SetBusy(false)
		s.netClient = nil
	}
}

func (s *LoginScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 20, 30, 255})

	if s.loginUI == nil {
		return
	}
	s.loginUI.UI.Draw(screen)
}

func (s *LoginScene) configure() {
	serverURL, username := cfg.Network.ServerURL, ""
	if p := systems.LoadProfile(); p != nil {
		if p.ServerURL != "" {
			serverURL = p.ServerURL
		}
		username = p.Username
		cfg.Debug.ShowGrid = p.ShowGrid
	}
	s.loginUI = ui.NewLoginUI(serverURL, username, s.onSubmit)
}

func (s *LoginScene) onSubmit(creds ui.Credentials) {
	creds.ServerURL = strings.TrimSpace(creds.ServerURL)
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.ServerURL == "" {
		creds.ServerURL = cfg.Network.ServerURL
	}
	if creds.Username == "" || creds.Password == "" {
		s.loginUI.SetStatus("Username and password are required")
		return
	}

	authURL, err := network.AuthBaseURL(creds.ServerURL)
	if err != nil {
		log.Printf("[login] %v, falling back to %s", err, cfg.Network.AuthURL)
		authURL = cfg.Network.AuthURL
	}

	s.loginUI.SetBusy(true)
	if creds.Register {
		s.loginUI.SetStatus("Registering...")
	} else {
		s.loginUI.SetStatus("Logging in...")
	}

	go s.authenticate(network.NewAuthClient(authURL), creds)
}

func (s *LoginScene) authenticate(auth *network.AuthClient, creds ui.Credentials) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var token string
	var err error
	if creds.Register {
		token, err = auth.Register(ctx, creds.Username, creds.Password)
	} else {
		token, err = auth.Login(ctx, creds.Username, creds.Password)
	}
	if err != nil {
		log.Printf("[auth] %s: %v", creds.Username, err)
	}

	s.mu.Lock()
	s.token = token
	s.authErr = err
	s.pending = creds
	s.authDone = true
	s.mu.Unlock()
}

func (s *LoginScene) connect(creds ui.Credentials, token string) {
	_ = systems.SaveProfile(systems.SavedProfile{
		ServerURL: creds.ServerURL,
		Username:  creds.Username,
		ShowGrid:  cfg.Debug.ShowGrid,
	})

	if s.netClient != nil {
		s.netClient.Disconnect()
	}
	s.netClient = network.NewClient(network.ClientConfig{
		ClientKind:  cfg.Network.ClientKind,
		ReadLimit:   cfg.Network.ReadLimitBytes,
		DialTimeout: cfg.Network.DialTimeout(),
	})
	s.netClient.Connect(creds.ServerURL, token)
}

func authMessage(err error) string {
	if errors.Is(err, network.ErrAuthFailed) {
		return "Login rejected: " + strings.TrimPrefix(err.Error(), network.ErrAuthFailed.Error()+": ")
	}
	return "Auth server unreachable"
}
