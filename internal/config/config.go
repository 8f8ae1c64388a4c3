// Package config reads and writes the user's timer and sound preferences
// in .pomo/config.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/marcus/pomo/internal/models"
	"github.com/marcus/pomo/internal/sound"
)

const configFile = ".pomo/config.json"
const lockFile = ".pomo/config.json.lock"

// ErrMalformed marks a config file that exists but does not parse
var ErrMalformed = errors.New("malformed config")

// Default returns the settings used when nothing is configured
func Default() *models.Settings {
	return &models.Settings{
		WorkMinutes:  models.DefaultWorkMinutes,
		BreakMinutes: models.DefaultBreakMinutes,
		WorkSound:    sound.Default(models.PhaseWork).ID,
		BreakSound:   sound.Default(models.PhaseBreak).ID,
	}
}

// Normalize clamps durations and replaces unknown sounds with defaults.
// Zero durations mean unset.
func Normalize(cfg *models.Settings) {
	if cfg.WorkMinutes == 0 {
		cfg.WorkMinutes = models.DefaultWorkMinutes
	}
	if cfg.BreakMinutes == 0 {
		cfg.BreakMinutes = models.DefaultBreakMinutes
	}
	cfg.WorkMinutes = models.ClampWorkMinutes(cfg.WorkMinutes)
	cfg.BreakMinutes = models.ClampBreakMinutes(cfg.BreakMinutes)
	cfg.WorkSound = sound.Resolve(models.PhaseWork, cfg.WorkSound).ID
	cfg.BreakSound = sound.Resolve(models.PhaseBreak, cfg.BreakSound).ID
}

// Load reads the config from disk
func Load(baseDir string) (*models.Settings, error) {
	configPath := filepath.Join(baseDir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", configFile, ErrMalformed, err)
	}
	Normalize(cfg)

	return cfg, nil
}

// Save writes the config to disk using atomic write (temp file + rename)
func Save(baseDir string, cfg *models.Settings) error {
	configPath := filepath.Join(baseDir, configFile)

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	out := *cfg
	Normalize(&out)
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return err
	}

	// Atomic write: temp file in same dir, then rename
	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, configPath)
}

// withConfigLock serializes access to config.json
func withConfigLock(baseDir string, fn func() error) error {
	lockPath := filepath.Join(baseDir, lockFile)

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := flock(f); err != nil {
		return err
	}
	defer funlock(f)

	return fn()
}

// Update loads the config, applies fn and saves the result under the lock.
// A malformed file is replaced: fn starts from the defaults.
func Update(baseDir string, fn func(cfg *models.Settings)) (*models.Settings, error) {
	var cfg *models.Settings
	err := withConfigLock(baseDir, func() error {
		var err error
		cfg, err = Load(baseDir)
		if errors.Is(err, ErrMalformed) {
			slog.Warn("replacing malformed config", "path", filepath.Join(baseDir, configFile), "err", err)
			cfg, err = Default(), nil
		}
		if err != nil {
			return err
		}
		fn(cfg)
		Normalize(cfg)
		return Save(baseDir, cfg)
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Keys accepted by Get and Set
const (
	KeyWorkMinutes  = "work_minutes"
	KeyBreakMinutes = "break_minutes"
	KeyWorkSound    = "work_sound"
	KeyBreakSound   = "break_sound"
)

// Keys returns the settable keys in display order
func Keys() []string {
	return []string{KeyWorkMinutes, KeyBreakMinutes, KeyWorkSound, KeyBreakSound}
}

// Get returns the string form of a single setting
func Get(cfg *models.Settings, key string) (string, error) {
	switch normalizeKey(key) {
	case KeyWorkMinutes:
		return strconv.Itoa(cfg.WorkMinutes), nil
	case KeyBreakMinutes:
		return strconv.Itoa(cfg.BreakMinutes), nil
	case KeyWorkSound:
		return cfg.WorkSound, nil
	case KeyBreakSound:
		return cfg.BreakSound, nil
	}
	return "", unknownKey(key)
}

// Set parses value into the setting named key. Durations are clamped;
// sounds must name a cue in the matching catalog.
func Set(baseDir, key, value string) (*models.Settings, error) {
	key = normalizeKey(key)
	var apply func(cfg *models.Settings)

	switch key {
	case KeyWorkMinutes, KeyBreakMinutes:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number of minutes", key, value)
		}
		apply = func(cfg *models.Settings) {
			if key == KeyWorkMinutes {
				cfg.WorkMinutes = models.ClampWorkMinutes(n)
			} else {
				cfg.BreakMinutes = models.ClampBreakMinutes(n)
			}
		}
	case KeyWorkSound, KeyBreakSound:
		phase := models.PhaseWork
		if key == KeyBreakSound {
			phase = models.PhaseBreak
		}
		if _, ok := sound.Lookup(phase, value); !ok {
			return nil, fmt.Errorf("%s: unknown sound %q (one of %s)", key, value, strings.Join(sound.IDs(phase), ", "))
		}
		apply = func(cfg *models.Settings) {
			if phase == models.PhaseWork {
				cfg.WorkSound = value
			} else {
				cfg.BreakSound = value
			}
		}
	default:
		return nil, unknownKey(key)
	}

	return Update(baseDir, apply)
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

func unknownKey(key string) error {
	keys := Keys()
	sort.Strings(keys)
	return fmt.Errorf("unknown setting %q (one of %s)", key, strings.Join(keys, ", "))
}
