package controller

import (
	"testing"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/node"
)

func newTestController() *Controller {
	local := events.VirtualScreenInfo{Name: "self", ScreenID: 1, Width: 1920, Height: 1080}
	return New("controller", node.NewManager(), nil, local, nil)
}

func TestCheckBorder(t *testing.T) {
	cases := []struct {
		name               string
		x, y, width, height int
		wantBorder         events.Border
		wantCrossed        bool
	}{
		{"inside", 500, 500, 1000, 1000, 0, false},
		{"left", 0, 500, 1000, 1000, events.BorderLeft, true},
		{"right", 1000, 500, 1000, 1000, events.BorderRight, true},
		{"top", 500, 0, 1000, 1000, events.BorderTop, true},
		{"bottom", 500, 1000, 1000, 1000, events.BorderBottom, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			border, crossed := checkBorder(tc.x, tc.y, tc.width, tc.height)
			if crossed != tc.wantCrossed {
				t.Fatalf("crossed = %v, want %v", crossed, tc.wantCrossed)
			}
			if crossed && border != tc.wantBorder {
				t.Fatalf("border = %v, want %v", border, tc.wantBorder)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := clamp(-5, 0, 100); got != 0 {
		t.Fatalf("clamp(-5, 0, 100) = %d, want 0", got)
	}
	if got := clamp(150, 0, 100); got != 100 {
		t.Fatalf("clamp(150, 0, 100) = %d, want 100", got)
	}
	if got := clamp(50, 0, 100); got != 50 {
		t.Fatalf("clamp(50, 0, 100) = %d, want 50", got)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 100}
	if !r.Contains(Point{X: 50, Y: 50}) {
		t.Fatal("expected point inside rect to be contained")
	}
	if r.Contains(Point{X: 200, Y: 50}) {
		t.Fatal("expected point outside rect to not be contained")
	}
	if !r.Contains(Point{X: 100, Y: 100}) {
		t.Fatal("expected edge point to be contained")
	}
}

func TestSetAndShowVirtualScreenPosition(t *testing.T) {
	c := newTestController()
	c.mu.Lock()
	c.virtualScreens["peer1"] = events.VirtualScreenInfo{Name: "right", Width: 1280, Height: 720}
	c.screenNameTable["right"] = "peer1"
	c.mu.Unlock()

	if err := c.SetVirtualScreenPosition("right", Point{X: 1920, Y: 0}); err != nil {
		t.Fatalf("SetVirtualScreenPosition: %v", err)
	}

	cfg := c.findConfig("right")
	if cfg == nil {
		t.Fatal("expected config for 'right' to exist after SetVirtualScreenPosition")
	}
	if cfg.PosX != 1920 || cfg.Width != 1280 {
		t.Fatalf("unexpected config %+v", cfg)
	}

	out := c.ShowVirtualScreenPositions()
	if out == "" {
		t.Fatal("expected non-empty summary")
	}
}

func TestRemoveVirtualScreen(t *testing.T) {
	c := newTestController()
	c.vscreenConfig = append(c.vscreenConfig, events.VirtualScreenConfig{Name: "right"})
	c.RemoveVirtualScreen("right")
	if c.findConfig("right") != nil {
		t.Fatal("expected 'right' config to be removed")
	}
}

func TestSetVirtualScreenPositionUnknownScreen(t *testing.T) {
	c := newTestController()
	if err := c.SetVirtualScreenPosition("nope", Point{}); err == nil {
		t.Fatal("expected error for unknown screen")
	}
}
