package config

import (
	"strings"
	"testing"

	"github.com/mksync/mksync/internal/events"
)

func TestValidateTieredDefaultIsClean(t *testing.T) {
	cfg := Default()
	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("default config should have no fatals: %v", result.Fatals)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("default config should have no warnings: %v", result.Warnings)
	}
}

func TestValidateTieredEmptyScreenNameIsFatal(t *testing.T) {
	cfg := Default()
	cfg.ScreenName = ""
	result := cfg.ValidateTiered()
	if !result.HasFatals() {
		t.Fatal("empty screen_name should be fatal")
	}
}

func TestValidateTieredMalformedServerAddressIsFatal(t *testing.T) {
	cfg := Default()
	cfg.ServerIPAddress = "not-an-address"
	result := cfg.ValidateTiered()
	if !result.HasFatals() {
		t.Fatal("malformed server_ipaddress should be fatal")
	}
}

func TestValidateTieredBadRemoteControllerSchemeIsFatal(t *testing.T) {
	cfg := Default()
	cfg.RemoteController = "http://127.0.0.1:8578"
	result := cfg.ValidateTiered()
	if !result.HasFatals() {
		t.Fatal("non-tcp remote_controller scheme should be fatal")
	}
}

func TestValidateTieredMaxLogRecordsClampingIsWarning(t *testing.T) {
	cfg := Default()
	cfg.MaxLogRecords = -1
	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("clamped max_log_records should be a warning, not fatal: %v", result.Fatals)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected warning for negative max_log_records")
	}
	if cfg.MaxLogRecords != 0 {
		t.Fatalf("MaxLogRecords = %d, want 0 (clamped)", cfg.MaxLogRecords)
	}
}

func TestValidateTieredUnknownLogLevelIsWarning(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"
	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("unknown log_level should be a warning, not fatal: %v", result.Fatals)
	}
	found := false
	for _, err := range result.Warnings {
		if strings.Contains(err.Error(), "log_level") {
			found = true
		}
	}
	if !found {
		t.Fatal("expected log_level warning")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want %q (defaulted)", cfg.LogLevel, "info")
	}
}

func TestValidateTieredDuplicateScreenSettingIsWarning(t *testing.T) {
	cfg := Default()
	cfg.ScreenSettings = []events.VirtualScreenConfig{
		{Name: "left", PosX: -1920, Width: 1920, Height: 1080},
		{Name: "left", PosX: 0, Width: 1920, Height: 1080},
	}
	result := cfg.ValidateTiered()
	if result.HasFatals() {
		t.Fatalf("duplicate screen_settings entry should be a warning, not fatal: %v", result.Fatals)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected warning for duplicate screen_settings entry")
	}
}
