package config

import (
	"image/color"
	"time"
)

// Config holds general client configuration
type Config struct {
	Width    int
	Height   int
	TileSize int // pixels per grid unit
}

// NetSyncConfig contains snapshot reconciliation tunables
type NetSyncConfig struct {
	// Server publish cadence. Interpolation phase reaches 1 after one period.
	TickPeriodMs int `yaml:"tickPeriodMs"`

	// Fraction of a tile a newly sighted projectile is pulled back along its
	// direction of travel, so it emerges instead of popping in.
	SpawnBackoff float64 `yaml:"spawnBackoff"`

	// Ticks a shown notification stays suppressed. Slightly larger than the
	// server's own notification TTL (20 ticks).
	NotificationWindowTicks int `yaml:"notificationWindowTicks"`
	MaxSuppressedRecords    int `yaml:"maxSuppressedRecords"`

	// A damage event whose server ttl is at or above this value was created
	// this tick. The server starts damage ttl at 60.
	DamageFreshThreshold int     `yaml:"damageFreshThreshold"`
	DamageMaxFrames      int     `yaml:"damageMaxFrames"` // client-side lifetime, ~1s at 60fps
	DamageRisePixels     float64 `yaml:"damageRisePixels"`
}

// EffectsConfig contains client-only visual effect durations
type EffectsConfig struct {
	AreaIgnitionMs int `yaml:"areaIgnitionMs"`
	PointImpactMs  int `yaml:"pointImpactMs"`
}

// NetworkConfig contains connection settings
type NetworkConfig struct {
	ServerURL        string `yaml:"serverURL"` // websocket endpoint
	AuthURL          string `yaml:"authURL"`   // base URL for /auth/login and /auth/register
	ClientKind       string `yaml:"clientKind"`
	ActionIntervalMs int    `yaml:"actionIntervalMs"`
	ReadLimitBytes   int64  `yaml:"readLimitBytes"`
	DialTimeoutMs    int    `yaml:"dialTimeoutMs"`
}

// HUDConfig contains on-screen text configuration
type HUDConfig struct {
	NotificationFrames int // how long a first-seen notification stays in the feed
	NotificationLines  int
	TextColor          color.RGBA
	NotificationColor  color.RGBA
	DamageColor        color.RGBA
	DamageOutline      color.RGBA
	FeedBackground     color.RGBA
	PanelBackground    color.RGBA
}

// PaletteConfig contains world draw colors. Colors are opaque; renderers
// apply their own alpha.
type PaletteConfig struct {
	Background   color.RGBA
	Grass        color.RGBA
	GrassInner   color.RGBA
	Water        color.RGBA
	Grid         color.RGBA
	LocalPlayer  color.RGBA
	RemotePlayer color.RGBA
	Monster      color.RGBA
	Projectile   color.RGBA
	PendingSpell color.RGBA
	HealthBack   color.RGBA
	HealthFront  color.RGBA

	TargetInRange    color.RGBA
	TargetOutOfRange color.RGBA
	TargetLocked     color.RGBA
}

// CameraConfig contains view follow and shake settings
type CameraConfig struct {
	FollowSmoothing  float64
	ShakeIntensity   float64 // pixels
	ShakeFrames      int
	ShakeRadiusTiles float64 // ignitions closer than this to the local player shake the view
}

// SpellConfig describes a targeted spell bound to a number key
type SpellConfig struct {
	Name   string
	Class  string // class required to cast
	Radius int    // Manhattan radius of the preview
	Range  int    // max Manhattan distance from the caster
}

// DebugConfig contains debug/testing options
type DebugConfig struct {
	ShowGrid bool
	ShowHUD  bool
}

// Global configuration instances
var C *Config
var NetSync NetSyncConfig
var Effects EffectsConfig
var Network NetworkConfig
var HUD HUDConfig
var Palette PaletteConfig
var Camera CameraConfig
var Spells []SpellConfig // Spells[0] is bound to key 1
var SelectableClass string
var Debug DebugConfig

func (n NetSyncConfig) TickPeriod() time.Duration {
	return time.Duration(n.TickPeriodMs) * time.Millisecond
}

func (e EffectsConfig) AreaIgnition() time.Duration {
	return time.Duration(e.AreaIgnitionMs) * time.Millisecond
}

func (e EffectsConfig) PointImpact() time.Duration {
	return time.Duration(e.PointImpactMs) * time.Millisecond
}

func (n NetworkConfig) ActionInterval() time.Duration {
	return time.Duration(n.ActionIntervalMs) * time.Millisecond
}

func (n NetworkConfig) DialTimeout() time.Duration {
	return time.Duration(n.DialTimeoutMs) * time.Millisecond
}

func init() {
	C = &Config{
		Width:    640,
		Height:   480,
		TileSize: 24,
	}

	NetSync = defaultNetSync()
	Effects = defaultEffects()
	Network = defaultNetwork()

	HUD = HUDConfig{
		NotificationFrames: 300, // 5 seconds at 60fps
		NotificationLines:  5,
		TextColor:          color.RGBA{R: 200, G: 230, B: 200, A: 255},
		NotificationColor:  color.RGBA{R: 255, G: 220, B: 120, A: 255},
		DamageColor:        color.RGBA{R: 255, G: 68, B: 68, A: 255},
		DamageOutline:      color.RGBA{R: 0, G: 0, B: 0, A: 255},
		FeedBackground:     color.RGBA{R: 0, G: 0, B: 0, A: 110},
		PanelBackground:    color.RGBA{R: 20, G: 20, B: 30, A: 200},
	}

	Palette = PaletteConfig{
		Background:   color.RGBA{R: 11, G: 11, B: 11, A: 255},
		Grass:        color.RGBA{R: 23, G: 48, B: 24, A: 255},
		GrassInner:   color.RGBA{R: 31, G: 72, B: 32, A: 255},
		Water:        color.RGBA{R: 30, G: 58, B: 95, A: 255},
		Grid:         color.RGBA{R: 255, G: 255, B: 255, A: 255},
		LocalPlayer:  color.RGBA{R: 60, G: 220, B: 120, A: 255},
		RemotePlayer: color.RGBA{R: 90, G: 150, B: 255, A: 255},
		Monster:      color.RGBA{R: 120, G: 200, B: 80, A: 255},
		Projectile:   color.RGBA{R: 255, G: 140, B: 40, A: 255},
		PendingSpell: color.RGBA{R: 255, G: 165, B: 0, A: 255},
		HealthBack:   color.RGBA{R: 139, G: 26, B: 26, A: 255},
		HealthFront:  color.RGBA{R: 47, G: 170, B: 36, A: 255},

		TargetInRange:    color.RGBA{R: 255, G: 220, B: 80, A: 255},
		TargetOutOfRange: color.RGBA{R: 255, G: 80, B: 80, A: 255},
		TargetLocked:     color.RGBA{R: 60, G: 220, B: 120, A: 255},
	}

	Camera = CameraConfig{
		FollowSmoothing:  0.2,
		ShakeIntensity:   4,
		ShakeFrames:      12,
		ShakeRadiusTiles: 3,
	}

	Spells = []SpellConfig{
		{Name: "fireball", Class: "mage", Radius: 1, Range: 4},
	}
	SelectableClass = "mage"

	Debug = DebugConfig{
		ShowGrid: false,
		ShowHUD:  true,
	}
}

func defaultNetSync() NetSyncConfig {
	return NetSyncConfig{
		TickPeriodMs:            200,
		SpawnBackoff:            0.45,
		NotificationWindowTicks: 25,
		MaxSuppressedRecords:    1024,
		DamageFreshThreshold:    59, // server default ttl is 60
		DamageMaxFrames:         60,
		DamageRisePixels:        28,
	}
}

func defaultEffects() EffectsConfig {
	return EffectsConfig{
		AreaIgnitionMs: 500,
		PointImpactMs:  250,
	}
}

func defaultNetwork() NetworkConfig {
	return NetworkConfig{
		ServerURL:        "ws://localhost:8000/ws",
		AuthURL:          "http://localhost:8000",
		ClientKind:       "web",
		ActionIntervalMs: 200,
		ReadLimitBytes:   1 << 20,
		DialTimeoutMs:    5000,
	}
}
