package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mksync/mksync/internal/controller"
	"github.com/spf13/pflag"
)

// ScreenCmd configures the virtual screen layout, translated from
// control.cpp's VScreenCmd. --pos takes "x,y" rather than a left/right/
// top/bottom direction relative to another screen, matching the absolute
// layout table SetVirtualScreenPosition expects (§4.5).
type ScreenCmd struct {
	ctrl  *controller.Controller
	flags *pflag.FlagSet

	src    string
	pos    string
	show   bool
	remove bool
}

func NewScreenCmd(ctrl *controller.Controller) *ScreenCmd {
	c := &ScreenCmd{ctrl: ctrl, flags: pflag.NewFlagSet("screen", pflag.ContinueOnError)}
	c.flags.StringVar(&c.src, "src", "", "virtual screen name")
	c.flags.StringVar(&c.pos, "pos", "", "lefttop corner position, \"x,y\"")
	c.flags.BoolVar(&c.show, "show", false, "show virtual screen configs")
	c.flags.BoolVar(&c.remove, "remove", false, "remove virtual screen")
	return c
}

func (c *ScreenCmd) Name() string          { return "screen" }
func (c *ScreenCmd) AliasNames() []string  { return nil }
func (c *ScreenCmd) Flags() *pflag.FlagSet { return c.flags }
func (c *ScreenCmd) Help() string {
	return "screen [options...], config the screens. specify src and pos to place a " +
		"screen. show to print all settings. remove for src.\n" + c.flags.FlagUsages()
}

func (c *ScreenCmd) Execute(ctx context.Context) (string, error) {
	switch {
	case c.show:
		return c.ctrl.ShowVirtualScreenPositions(), nil
	case c.remove:
		if c.src == "" {
			return "", fmt.Errorf("screen: please specify --src to remove")
		}
		c.ctrl.RemoveVirtualScreen(c.src)
		return "", nil
	case c.src != "" && c.pos != "":
		pos, err := parsePoint(c.pos)
		if err != nil {
			return "", fmt.Errorf("screen: %w", err)
		}
		if err := c.ctrl.SetVirtualScreenPosition(c.src, pos); err != nil {
			return "", fmt.Errorf("screen: %w", err)
		}
		return "", nil
	default:
		return "", fmt.Errorf("screen: please specify --src and --pos, --show, or --remove")
	}
}

func parsePoint(s string) (controller.Point, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return controller.Point{}, fmt.Errorf("expected \"x,y\", got %q", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return controller.Point{}, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return controller.Point{}, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return controller.Point{X: x, Y: y}, nil
}
