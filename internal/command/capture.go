package command

import (
	"context"
	"fmt"

	"github.com/mksync/mksync/internal/controller"
	"github.com/spf13/pflag"
)

// CaptureCmd pauses or resumes the server role's capture node without
// leaving server mode, translated from mk_capture.cpp's CaptureCommand.
// Unlike ServerCmd it takes no address/port: it toggles an already
// listening server's own input hook, not the listening socket.
type CaptureCmd struct {
	ctrl  *controller.Controller
	flags *pflag.FlagSet
}

// NewCaptureCmd creates the "capture" command.
func NewCaptureCmd(ctrl *controller.Controller) *CaptureCmd {
	return &CaptureCmd{ctrl: ctrl, flags: pflag.NewFlagSet("capture", pflag.ContinueOnError)}
}

func (c *CaptureCmd) Name() string          { return "capture" }
func (c *CaptureCmd) AliasNames() []string  { return nil }
func (c *CaptureCmd) Flags() *pflag.FlagSet { return c.flags }
func (c *CaptureCmd) Help() string {
	return "capture <start/stop>, e.g. capture stop"
}

func (c *CaptureCmd) Execute(ctx context.Context) (string, error) {
	args := c.flags.Args()
	if len(args) == 0 {
		return "", fmt.Errorf("capture: expected start or stop")
	}
	switch args[0] {
	case "start":
		if err := c.ctrl.StartCapture(ctx); err != nil {
			return "", fmt.Errorf("capture: %w", err)
		}
	case "stop":
		if err := c.ctrl.StopCapture(ctx); err != nil {
			return "", fmt.Errorf("capture: %w", err)
		}
	default:
		return "", fmt.Errorf("capture: unknown operation %q", args[0])
	}
	return "", nil
}
