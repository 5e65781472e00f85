package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const defaultRefreshSeconds = 60

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Settings holds the widget-chrome preferences persisted between runs. The
// autostart fields only record the user's consent decision; registering the
// app with the OS is the launcher's business.
type Settings struct {
	AlwaysOnTop       bool      `json:"alwaysOnTop"`
	RefreshInterval   int       `json:"refreshInterval"` // seconds
	Position          *Position `json:"position,omitempty"`
	AutostartPrompted bool      `json:"autostartPrompted"`
	AutostartEnabled  bool      `json:"autostartEnabled"`
}

func DefaultSettings() Settings {
	return Settings{
		AlwaysOnTop:     true,
		RefreshInterval: defaultRefreshSeconds,
	}
}

func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude-widget")
}

func Path() string {
	return filepath.Join(Dir(), "settings.json")
}

func Load() Settings {
	return LoadFrom(Path())
}

// LoadFrom tolerates a missing or corrupt file by returning defaults; the
// widget must come up even when its settings are gone.
func LoadFrom(path string) Settings {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return DefaultSettings()
	}

	if s.RefreshInterval <= 0 {
		s.RefreshInterval = defaultRefreshSeconds
	}
	return s
}

func Save(s Settings) error {
	return SaveTo(Path(), s)
}

// SaveTo writes via a temp file and rename so a crash mid-write never leaves
// a truncated settings file behind.
func SaveTo(path string, s Settings) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing settings: %w", err)
	}
	return nil
}

// SavePosition records the last window position. Best-effort: losing a
// position update on crash is acceptable.
func SavePosition(path string, s *Settings, x, y float64) {
	s.Position = &Position{X: x, Y: y}
	_ = SaveTo(path, *s)
}
