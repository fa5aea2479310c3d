package controller

import (
	"context"

	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/logging"
)

// hysteresis is the pixel band inside a remote screen's edge a cursor must
// clear before it is considered to have left the border again, mirroring
// capture's own borderHysteresis for the local screen (§4.5, §7).
const hysteresis = 10

func (c *Controller) configFor(name string) *events.VirtualScreenConfig {
	for i := range c.vscreenConfig {
		if c.vscreenConfig[i].Name == name {
			return &c.vscreenConfig[i]
		}
	}
	info, ok := c.virtualScreens[c.screenNameTable[name]]
	width, height := 0, 0
	if ok {
		width, height = int(info.Width), int(info.Height)
	}
	c.vscreenConfig = append(c.vscreenConfig, events.VirtualScreenConfig{
		Name: name, PosX: 0, PosY: 0, Width: width, Height: height,
	})
	return &c.vscreenConfig[len(c.vscreenConfig)-1]
}

func (c *Controller) onClientConnected(ev events.ClientConnected) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.virtualScreens[ev.Peer] = ev.Info
	c.screenNameTable[ev.Info.Name] = ev.Peer
	log.Info("client connected", logging.KeyPeer, ev.Peer, logging.KeyScreen, ev.Info.Name)
	return nil
}

func (c *Controller) onClientDisconnected(ctx context.Context, ev events.ClientDisconnected) error {
	c.mu.Lock()
	info, ok := c.virtualScreens[ev.Peer]
	if ok {
		delete(c.screenNameTable, info.Name)
		delete(c.virtualScreens, ev.Peer)
	}
	wasCurrent := ev.Peer == c.current.peer
	c.mu.Unlock()

	log.Info("client disconnected", logging.KeyPeer, ev.Peer, "reason", ev.Reason)
	if wasCurrent {
		_, err := c.switchTo(ctx, c.local.Name)
		return err
	}
	return nil
}

// onClientMessage re-dispatches a wire payload forwarded by transport so
// the node subscribed to its concrete type (inject, on a client) picks it
// up exactly as if it had been produced locally.
func (c *Controller) onClientMessage(ctx context.Context, ev events.ClientMessage) error {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()
	if mode != ModeClient {
		return nil
	}
	return c.manager.Dispatch(ctx, c.name, ev.Msg)
}

// onBorder implements handle_event(BorderEvent): find which neighboring
// screen the cursor exits into, and hand off focus to it.
func (c *Controller) onBorder(ctx context.Context, ev events.BorderEvent) error {
	c.mu.Lock()
	cfg := c.current.config
	if cfg == nil {
		c.mu.Unlock()
		log.Warn("border event with no current screen config")
		return nil
	}
	x := int(ev.X) + cfg.PosX
	y := int(ev.Y) + cfg.PosY
	switch ev.Which {
	case events.BorderLeft:
		x = cfg.PosX - 1
	case events.BorderRight:
		x = cfg.PosX + cfg.Width + 1
	case events.BorderTop:
		y = cfg.PosY - 1
	case events.BorderBottom:
		y = cfg.PosY + cfg.Height + 1
	default:
		c.mu.Unlock()
		return nil
	}

	var nextScreen string
	for _, screen := range c.vscreenConfig {
		if screen.Name == c.current.name {
			continue
		}
		rect := Rect{X: screen.PosX, Y: screen.PosY, W: screen.Width, H: screen.Height}
		if rect.Contains(Point{X: x, Y: y}) {
			nextScreen = screen.Name
			break
		}
	}
	prevConfig := *cfg
	c.mu.Unlock()

	if nextScreen == "" {
		return nil
	}
	changed, err := c.switchTo(ctx, nextScreen)
	if err != nil || !changed {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	newCfg := c.current.config
	if newCfg == nil {
		return nil
	}
	switch ev.Which {
	case events.BorderLeft:
		c.current.posX = newCfg.Width
		c.current.posY = int(ev.Y) + prevConfig.PosY - newCfg.PosY
	case events.BorderRight:
		c.current.posX = 0
		c.current.posY = int(ev.Y) + prevConfig.PosY - newCfg.PosY
	case events.BorderTop:
		c.current.posX = int(ev.X) + prevConfig.PosX - newCfg.PosX
		c.current.posY = newCfg.Height
	case events.BorderBottom:
		c.current.posX = int(ev.X) + prevConfig.PosX - newCfg.PosX
		c.current.posY = 0
	}
	return nil
}

// onMouseMotion implements handle_event(MouseMotionEvent): translate a
// relative (exclusive-mode) sample into the current remote screen's
// absolute coordinates, re-checking the border on every sample.
func (c *Controller) onMouseMotion(ctx context.Context, ev events.MouseMotion) error {
	c.mu.Lock()
	cfg := c.current.config
	if cfg == nil || c.current.peer == "self" {
		c.mu.Unlock()
		return nil
	}

	posX := c.current.posX
	posY := c.current.posY
	if !ev.IsAbsolute {
		posX += int(ev.X)
		posY += int(ev.Y)
	} else {
		posX = int(ev.X)
		posY = int(ev.Y)
	}
	posX = clamp(posX, 0, cfg.Width)
	posY = clamp(posY, 0, cfg.Height)
	c.current.posX, c.current.posY = posX, posY

	if c.current.inBorder {
		if posX > hysteresis && posX < cfg.Width-hysteresis &&
			posY > hysteresis && posY < cfg.Height-hysteresis {
			c.current.inBorder = false
		}
		c.mu.Unlock()
	} else {
		border, crossed := checkBorder(posX, posY, cfg.Width, cfg.Height)
		oldScreen := c.current.name
		c.mu.Unlock()
		if crossed {
			c.mu.Lock()
			c.current.inBorder = true
			c.mu.Unlock()
			if err := c.onBorder(ctx, events.BorderEvent{Which: border, X: int32(posX), Y: int32(posY)}); err != nil {
				return err
			}
			c.mu.Lock()
			changed := c.current.name != oldScreen
			c.mu.Unlock()
			if changed {
				return nil
			}
		}
	}

	c.mu.Lock()
	payload := events.MouseMotionEventConversion{X: int32(c.current.posX), Y: int32(c.current.posY), IsAbsolute: true, Timestamp: ev.Timestamp}
	c.mu.Unlock()
	return c.manager.Dispatch(ctx, c.name, payload)
}

// checkBorder is the remote-screen equivalent of capture's borderOf,
// against the focused virtual screen's own configured size.
func checkBorder(x, y, width, height int) (events.Border, bool) {
	switch {
	case x <= 0:
		return events.BorderLeft, true
	case x >= width:
		return events.BorderRight, true
	case y <= 0:
		return events.BorderTop, true
	case y >= height:
		return events.BorderBottom, true
	default:
		return 0, false
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
