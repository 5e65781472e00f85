package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if !s.AlwaysOnTop {
		t.Error("expected alwaysOnTop default true")
	}
	if s.RefreshInterval != 60 {
		t.Errorf("refreshInterval = %d, want 60", s.RefreshInterval)
	}
	if s.Position != nil {
		t.Error("expected no default position")
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	s := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	if s != DefaultSettings() {
		t.Errorf("expected defaults, got %+v", s)
	}
}

func TestLoadFrom_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := LoadFrom(path)
	if s != DefaultSettings() {
		t.Errorf("expected defaults for corrupt file, got %+v", s)
	}
}

func TestLoadFrom_NormalizesInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"refreshInterval": -5}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if s := LoadFrom(path); s.RefreshInterval != 60 {
		t.Errorf("refreshInterval = %d, want normalized 60", s.RefreshInterval)
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	want := Settings{
		AlwaysOnTop:       false,
		RefreshInterval:   120,
		Position:          &Position{X: 140, Y: 60},
		AutostartPrompted: true,
		AutostartEnabled:  true,
	}
	if err := SaveTo(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := LoadFrom(path)
	if got.RefreshInterval != 120 || got.AlwaysOnTop || !got.AutostartEnabled {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Position == nil || got.Position.X != 140 || got.Position.Y != 60 {
		t.Errorf("position mismatch: %+v", got.Position)
	}

	// No temp file may survive a successful save.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestSavePosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s := DefaultSettings()

	SavePosition(path, &s, 10, 20)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected settings persisted: %v", err)
	}
	if !strings.Contains(string(data), `"x": 10`) {
		t.Errorf("position not persisted: %s", data)
	}
}
