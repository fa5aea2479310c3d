package app

import (
	"testing"

	"github.com/mksync/mksync/internal/config"
	"github.com/mksync/mksync/internal/events"
)

func TestDefaultPort(t *testing.T) {
	cases := []struct {
		addr string
		want uint16
	}{
		{"0.0.0.0:8577", 8577},
		{"127.0.0.1:9000", 9000},
		{"no-port-here", 8577},
		{"", 8577},
	}
	for _, tc := range cases {
		if got := defaultPort(tc.addr); got != tc.want {
			t.Errorf("defaultPort(%q) = %d, want %d", tc.addr, got, tc.want)
		}
	}
}

func TestLocalScreenInfoMatchesConfiguredScreen(t *testing.T) {
	cfg := config.Default()
	cfg.ScreenName = "left"
	cfg.ScreenSettings = []events.VirtualScreenConfig{
		{Name: "left", Width: 1280, Height: 720},
		{Name: "right", Width: 1920, Height: 1080},
	}

	info := localScreenInfo(cfg)
	if info.Name != "left" || info.Width != 1280 || info.Height != 720 {
		t.Errorf("localScreenInfo() = %+v, want left screen 1280x720", info)
	}
}

func TestLocalScreenInfoDefaultsWhenUnconfigured(t *testing.T) {
	cfg := config.Default()
	cfg.ScreenName = "unknow"

	info := localScreenInfo(cfg)
	if info.Width != defaultWidth || info.Height != defaultHeight {
		t.Errorf("localScreenInfo() = %+v, want defaults %dx%d", info, defaultWidth, defaultHeight)
	}
}

func TestNewDoesNotStartAnything(t *testing.T) {
	cfg := config.Default()
	cfg.ScreenName = "unknow"

	a := New("test", cfg)
	if a.Invoker() == nil {
		t.Fatal("Invoker() returned nil")
	}
	if _, ok := a.Invoker().Lookup("server"); !ok {
		t.Error("expected server command to be registered")
	}
	if _, ok := a.Invoker().Lookup("capture"); !ok {
		t.Error("expected capture command to be registered")
	}
}
