package command

import (
	"context"
	"testing"

	"github.com/mksync/mksync/internal/controller"
	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/node"
)

func newTestController() *controller.Controller {
	local := events.VirtualScreenInfo{Name: "self", ScreenID: 1, Width: 1920, Height: 1080}
	return controller.New("controller", node.NewManager(), nil, local, nil)
}

func TestInvokerRegisterAndExecute(t *testing.T) {
	inv := NewInvoker()
	screen := NewScreenCmd(newTestController())
	if err := inv.Register(screen); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, ok := inv.Lookup("screen"); !ok {
		t.Fatal("expected screen command registered")
	}

	out, err := inv.Execute(context.Background(), "screen --show")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out == "" {
		t.Fatal("expected non-empty --show output")
	}
}

func TestInvokerDuplicateName(t *testing.T) {
	inv := NewInvoker()
	if err := inv.Register(NewVersionCmd("0.1.0")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := inv.Register(NewVersionCmd("0.1.0")); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestInvokerAlias(t *testing.T) {
	inv := NewInvoker()
	if err := inv.Register(NewVersionCmd("0.1.0")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	out, err := inv.Execute(context.Background(), "v")
	if err != nil {
		t.Fatalf("Execute(v): %v", err)
	}
	if out != "mksyncd 0.1.0" {
		t.Fatalf("Execute(v) = %q, want %q", out, "mksyncd 0.1.0")
	}
}

func TestInvokerNotFound(t *testing.T) {
	inv := NewInvoker()
	if _, err := inv.Execute(context.Background(), "nonexistent"); err == nil {
		t.Fatal("expected error for unregistered command")
	}
}

func TestScreenCmdRequiresOperation(t *testing.T) {
	cmd := NewScreenCmd(newTestController())
	if err := cmd.Flags().Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := cmd.Execute(context.Background()); err == nil {
		t.Fatal("expected error when no operation is specified")
	}
}

func TestScreenCmdSetPosition(t *testing.T) {
	ctrl := newTestController()
	cmd := NewScreenCmd(ctrl)
	if err := cmd.Flags().Parse([]string{"--src", "self", "--pos", "100,200"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("10,20")
	if err != nil {
		t.Fatalf("parsePoint: %v", err)
	}
	if p.X != 10 || p.Y != 20 {
		t.Fatalf("parsePoint = %+v, want {10 20}", p)
	}
	if _, err := parsePoint("bad"); err == nil {
		t.Fatal("expected error for malformed point")
	}
}

func TestLogCmd(t *testing.T) {
	cmd := NewLogCmd("text", "info")
	if err := cmd.Flags().Parse([]string{"--level", "debug"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out != "log level=debug format=text" {
		t.Fatalf("Execute = %q", out)
	}
}

func TestExitCmdSignals(t *testing.T) {
	cmd := NewExitCmd()
	if _, err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	select {
	case <-cmd.Signal:
	default:
		t.Fatal("expected exit command to signal")
	}
}
