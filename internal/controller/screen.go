package controller

import (
	"context"

	"github.com/mksync/mksync/internal/capture"
	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/logging"
)

// switchTo implements set_current_screen: hand focus to screenName if it is
// online, switching local capture between edge-watch and exclusive mode and
// announcing FocusScreenChanged on the bus. It returns false without error
// if screenName is already focused or is not a known online screen.
func (c *Controller) switchTo(ctx context.Context, screenName string) (bool, error) {
	c.mu.Lock()
	if screenName == c.current.name {
		c.mu.Unlock()
		return false, nil
	}
	peer, ok := c.screenNameTable[screenName]
	if !ok {
		c.mu.Unlock()
		if screenName != "" {
			log.Warn("screen not online", logging.KeyScreen, screenName)
		}
		return false, nil
	}
	info := c.virtualScreens[peer]
	old := c.current
	c.current.name = info.Name
	c.current.peer = peer
	mode := c.mode
	c.mu.Unlock()

	if err := c.manager.Dispatch(ctx, c.name, events.FocusScreenChanged{
		Name: info.Name, Peer: peer, OldName: old.name, OldPeer: old.peer,
		ScreenID: info.ScreenID, OldScreenID: c.screenInfoFor(old.peer).ScreenID,
	}); err != nil {
		return false, err
	}

	if mode == ModeServer {
		if capNode, ok := c.manager.GetNode(captureNodeName); ok {
			if cn, ok := capNode.(*capture.Node); ok {
				if peer == "self" {
					cn.SetMode(capture.ModeEdgeWatch)
				} else {
					cn.SetMode(capture.ModeExclusive)
				}
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.config = c.findConfig(screenName)
	c.current.inBorder = true
	if c.current.config != nil {
		return true, nil
	}
	c.current.posX = 0
	c.current.posY = 0
	log.Error("virtual screen config not found", logging.KeyScreen, screenName)
	return false, nil
}

func (c *Controller) findConfig(name string) *events.VirtualScreenConfig {
	for i := range c.vscreenConfig {
		if c.vscreenConfig[i].Name == name {
			return &c.vscreenConfig[i]
		}
	}
	return nil
}

func (c *Controller) screenInfoFor(peer string) events.VirtualScreenInfo {
	return c.virtualScreens[peer]
}
