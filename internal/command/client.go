package command

import (
	"context"
	"fmt"

	"github.com/mksync/mksync/internal/controller"
	"github.com/spf13/pflag"
)

// ClientCmd starts, stops, or restarts the controller's client role,
// translated from communication.cpp's ClientCommand.
type ClientCmd struct {
	ctrl  *controller.Controller
	flags *pflag.FlagSet

	address string
	port    uint16
}

// NewClientCmd creates the "client" command.
func NewClientCmd(ctrl *controller.Controller, defaultAddr string, defaultPort uint16) *ClientCmd {
	c := &ClientCmd{ctrl: ctrl, flags: pflag.NewFlagSet("client", pflag.ContinueOnError)}
	c.flags.StringVarP(&c.address, "address", "a", defaultAddr, "server address to connect to")
	c.flags.Uint16VarP(&c.port, "port", "p", defaultPort, "server port")
	return c
}

func (c *ClientCmd) Name() string          { return "client" }
func (c *ClientCmd) AliasNames() []string  { return []string{"c"} }
func (c *ClientCmd) Flags() *pflag.FlagSet { return c.flags }
func (c *ClientCmd) Help() string {
	return "client(c) <start/stop/restart> [options...], e.g. client start\n" + c.flags.FlagUsages()
}

func (c *ClientCmd) Execute(ctx context.Context) (string, error) {
	args := c.flags.Args()
	if len(args) == 0 {
		return "", fmt.Errorf("client: expected start, stop, or restart")
	}
	addr := fmt.Sprintf("%s:%d", c.address, c.port)
	switch args[0] {
	case "start":
		if err := c.ctrl.StartClient(ctx, addr); err != nil {
			return "", fmt.Errorf("client: %w", err)
		}
	case "stop":
		if err := c.ctrl.StopClient(ctx); err != nil {
			return "", fmt.Errorf("client: %w", err)
		}
	case "restart":
		_ = c.ctrl.StopClient(ctx)
		if err := c.ctrl.StartClient(ctx, addr); err != nil {
			return "", fmt.Errorf("client: %w", err)
		}
	default:
		return "", fmt.Errorf("client: unknown operation %q", args[0])
	}
	return "", nil
}
