package config

import (
	"path/filepath"
	"testing"

	"github.com/mksync/mksync/internal/events"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScreenName != "unknow" {
		t.Fatalf("ScreenName = %q, want default", cfg.ScreenName)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mksync.yaml")

	cfg := Default()
	cfg.ScreenName = "office-left"
	cfg.ScreenSettings = []events.VirtualScreenConfig{
		{Name: "office-left", PosX: 0, PosY: 0, Width: 1920, Height: 1080},
	}
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ScreenName != "office-left" {
		t.Fatalf("ScreenName = %q, want %q", loaded.ScreenName, "office-left")
	}
	if len(loaded.ScreenSettings) != 1 || loaded.ScreenSettings[0].Name != "office-left" {
		t.Fatalf("ScreenSettings = %+v", loaded.ScreenSettings)
	}
}

func TestLoadFatalValidationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	cfg := Default()
	cfg.ServerIPAddress = "not-an-address"
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected Load to fail on fatal validation error")
	}
}
