package command

import (
	"context"
	"testing"
)

func TestCaptureCmdRequiresOperation(t *testing.T) {
	cmd := NewCaptureCmd(newTestController())
	if err := cmd.Flags().Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := cmd.Execute(context.Background()); err == nil {
		t.Fatal("expected error when no operation is specified")
	}
}

func TestCaptureCmdRequiresServerMode(t *testing.T) {
	cmd := NewCaptureCmd(newTestController())
	if err := cmd.Flags().Parse([]string{"start"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := cmd.Execute(context.Background()); err == nil {
		t.Fatal("expected error: capture is only available in server mode")
	}
}

func TestCaptureCmdUnknownOperation(t *testing.T) {
	cmd := NewCaptureCmd(newTestController())
	if err := cmd.Flags().Parse([]string{"pause"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := cmd.Execute(context.Background()); err == nil {
		t.Fatal("expected error for unknown operation")
	}
}
