package controller

import (
	"fmt"
	"strings"

	"github.com/mksync/mksync/internal/events"
)

// SetVirtualScreenPosition places srcScreen's lefttop corner at pos in the
// shared integer plane, sizing it from the screen's last announced
// VirtualScreenInfo. It is the Go counterpart of VScreenCmd's --src/--pos
// operation.
func (c *Controller) SetVirtualScreenPosition(srcScreen string, pos Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	peer, ok := c.screenNameTable[srcScreen]
	if !ok {
		return fmt.Errorf("controller: screen %q not found", srcScreen)
	}
	info := c.virtualScreens[peer]

	if cfg := c.findConfig(srcScreen); cfg != nil {
		cfg.PosX, cfg.PosY = pos.X, pos.Y
		cfg.Width, cfg.Height = int(info.Width), int(info.Height)
		return nil
	}
	c.vscreenConfig = append(c.vscreenConfig, events.VirtualScreenConfig{
		Name: info.Name, PosX: pos.X, PosY: pos.Y, Width: int(info.Width), Height: int(info.Height),
	})
	return nil
}

// SetVirtualScreenPositions applies SetVirtualScreenPosition to every
// config in one call, for the bulk RPC form (§6).
func (c *Controller) SetVirtualScreenPositions(configs []events.VirtualScreenConfig) error {
	for _, cfg := range configs {
		if err := c.SetVirtualScreenPosition(cfg.Name, Point{X: cfg.PosX, Y: cfg.PosY}); err != nil {
			return err
		}
	}
	return nil
}

// RemoveVirtualScreen drops screen's persisted layout entry. It does not
// disconnect the peer if it is still online.
func (c *Controller) RemoveVirtualScreen(screen string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.vscreenConfig[:0]
	for _, cfg := range c.vscreenConfig {
		if cfg.Name != screen {
			out = append(out, cfg)
		}
	}
	c.vscreenConfig = out
}

// ShowVirtualScreenPositions renders the online screens and their
// configured layout, matching VScreenCmd's --show output shape.
func (c *Controller) ShowVirtualScreenPositions() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	b.WriteString("---------- virtual screens -----------\n")
	for peer, info := range c.virtualScreens {
		fmt.Fprintf(&b, "screen %s(%d) via %s : %dx%d\n", info.Name, info.ScreenID, peer, info.Width, info.Height)
	}
	b.WriteString("---------- screens config ----------\n")
	for _, cfg := range c.vscreenConfig {
		fmt.Fprintf(&b, "screen %s : %d,%d - %dx%d\n", cfg.Name, cfg.PosX, cfg.PosY, cfg.Width, cfg.Height)
	}
	b.WriteString("---------------------------------------\n")
	return b.String()
}

// GetOnlineScreens returns the VirtualScreenInfo of every connected peer,
// excluding the local screen itself.
func (c *Controller) GetOnlineScreens() []events.VirtualScreenInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.VirtualScreenInfo, 0, len(c.virtualScreens))
	for peer, info := range c.virtualScreens {
		if peer != "self" {
			out = append(out, info)
		}
	}
	return out
}

// VirtualScreenConfigs returns a copy of the current persisted layout.
func (c *Controller) VirtualScreenConfigs() []events.VirtualScreenConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.VirtualScreenConfig, len(c.vscreenConfig))
	copy(out, c.vscreenConfig)
	return out
}

// LocalScreenInfo returns this machine's own announced screen info.
func (c *Controller) LocalScreenInfo() events.VirtualScreenInfo {
	return c.local
}
