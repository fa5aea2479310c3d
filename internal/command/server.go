package command

import (
	"context"
	"fmt"

	"github.com/mksync/mksync/internal/controller"
	"github.com/spf13/pflag"
)

// ServerCmd starts, stops, or restarts the controller's server role,
// translated from communication.cpp's ServerCommand.
type ServerCmd struct {
	ctrl  *controller.Controller
	flags *pflag.FlagSet

	address string
	port    uint16
	op      string
}

// NewServerCmd creates the "server" command, defaulting to defaultAddr (a
// host) and defaultPort when --address/--port are not given.
func NewServerCmd(ctrl *controller.Controller, defaultAddr string, defaultPort uint16) *ServerCmd {
	c := &ServerCmd{ctrl: ctrl, flags: pflag.NewFlagSet("server", pflag.ContinueOnError)}
	c.flags.StringVarP(&c.address, "address", "a", defaultAddr, "server address")
	c.flags.Uint16VarP(&c.port, "port", "p", defaultPort, "server port")
	return c
}

func (c *ServerCmd) Name() string          { return "server" }
func (c *ServerCmd) AliasNames() []string  { return []string{"s"} }
func (c *ServerCmd) Flags() *pflag.FlagSet { return c.flags }
func (c *ServerCmd) Help() string {
	return "server(s) <start/stop/restart> [options...], e.g. server start\n" + c.flags.FlagUsages()
}

func (c *ServerCmd) Execute(ctx context.Context) (string, error) {
	args := c.flags.Args()
	if len(args) == 0 {
		return "", fmt.Errorf("server: expected start, stop, or restart")
	}
	addr := fmt.Sprintf("%s:%d", c.address, c.port)
	switch args[0] {
	case "start":
		if err := c.ctrl.StartServer(ctx, addr); err != nil {
			return "", fmt.Errorf("server: %w", err)
		}
	case "stop":
		if err := c.ctrl.StopServer(ctx); err != nil {
			return "", fmt.Errorf("server: %w", err)
		}
	case "restart":
		_ = c.ctrl.StopServer(ctx)
		if err := c.ctrl.StartServer(ctx, addr); err != nil {
			return "", fmt.Errorf("server: %w", err)
		}
	default:
		return "", fmt.Errorf("server: unknown operation %q", args[0])
	}
	return "", nil
}
