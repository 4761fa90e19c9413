package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Overrides is the on-disk YAML shape. Absent sections keep their defaults.
type Overrides struct {
	NetSync *NetSyncConfig `yaml:"netsync"`
	Effects *EffectsConfig `yaml:"effects"`
	Network *NetworkConfig `yaml:"network"`
}

// LoadOverrides applies a YAML overrides file on top of the current globals.
// A missing file is not an error.
func LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config overrides: %w", err)
	}
	return ApplyOverrides(data)
}

// ApplyOverrides decodes data onto copies of the current globals and commits
// them only if every section validates.
func ApplyOverrides(data []byte) error {
	ns, fx, nw := NetSync, Effects, Network
	o := Overrides{NetSync: &ns, Effects: &fx, Network: &nw}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("parse config overrides: %w", err)
	}
	if err := validate(ns, fx, nw); err != nil {
		return err
	}
	NetSync, Effects, Network = ns, fx, nw
	log.Printf("[config] overrides applied: tick=%dms window=%d fresh>=%d",
		ns.TickPeriodMs, ns.NotificationWindowTicks, ns.DamageFreshThreshold)
	return nil
}

func validate(ns NetSyncConfig, fx EffectsConfig, nw NetworkConfig) error {
	switch {
	case ns.TickPeriodMs <= 0:
		return fmt.Errorf("netsync.tickPeriodMs must be positive, got %d", ns.TickPeriodMs)
	case ns.SpawnBackoff < 0:
		return fmt.Errorf("netsync.spawnBackoff must not be negative, got %v", ns.SpawnBackoff)
	case ns.NotificationWindowTicks <= 0:
		return fmt.Errorf("netsync.notificationWindowTicks must be positive, got %d", ns.NotificationWindowTicks)
	case ns.DamageFreshThreshold <= 0:
		return fmt.Errorf("netsync.damageFreshThreshold must be positive, got %d", ns.DamageFreshThreshold)
	case ns.DamageMaxFrames <= 0:
		return fmt.Errorf("netsync.damageMaxFrames must be positive, got %d", ns.DamageMaxFrames)
	case fx.AreaIgnitionMs <= 0 || fx.PointImpactMs <= 0:
		return fmt.Errorf("effects durations must be positive, got %d/%d", fx.AreaIgnitionMs, fx.PointImpactMs)
	case nw.ActionIntervalMs <= 0:
		return fmt.Errorf("network.actionIntervalMs must be positive, got %d", nw.ActionIntervalMs)
	}
	return nil
}

// ResetDefaults restores the tunables that overrides can change.
func ResetDefaults() {
	NetSync = defaultNetSync()
	Effects = defaultEffects()
	Network = defaultNetwork()
}
