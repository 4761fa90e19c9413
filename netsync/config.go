package netsync

import (
	"time"

	"github.com/automoto/emberwatch/config"
)

// Config carries every tunable a Session needs.
type Config struct {
	TickPeriod           time.Duration
	SpawnBackoff         float64
	NotificationWindow   int64
	MaxSuppressedRecords int
	DamageFreshThreshold int
	DamageMaxFrames      int
	DamageRisePixels     float64
	AreaIgnition         time.Duration
	PointImpact          time.Duration
}

// ConfigFromGlobals reads the current values of config.NetSync and
// config.Effects, including any applied overrides.
func ConfigFromGlobals() Config {
	ns, fx := config.NetSync, config.Effects
	return Config{
		TickPeriod:           ns.TickPeriod(),
		SpawnBackoff:         ns.SpawnBackoff,
		NotificationWindow:   int64(ns.NotificationWindowTicks),
		MaxSuppressedRecords: ns.MaxSuppressedRecords,
		DamageFreshThreshold: ns.DamageFreshThreshold,
		DamageMaxFrames:      ns.DamageMaxFrames,
		DamageRisePixels:     ns.DamageRisePixels,
		AreaIgnition:         fx.AreaIgnition(),
		PointImpact:          fx.PointImpact(),
	}
}
