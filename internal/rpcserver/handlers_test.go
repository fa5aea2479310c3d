package rpcserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mksync/mksync/internal/command"
	"github.com/mksync/mksync/internal/controller"
	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/node"
)

func newTestDeps() Deps {
	local := events.VirtualScreenInfo{Name: "self", ScreenID: 1, Width: 1920, Height: 1080}
	ctrl := controller.New("controller", node.NewManager(), nil, local, nil)
	inv := command.NewInvoker()
	_ = inv.Register(command.NewVersionCmd("0.1.0"))
	return Deps{Controller: ctrl, Invoker: inv}
}

func TestHandleLocalScreenInfo(t *testing.T) {
	deps := newTestDeps()
	h := handleLocalScreenInfo(deps)
	result, err := h(context.Background(), nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	info, ok := result.(events.VirtualScreenInfo)
	if !ok || info.Name != "self" {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestHandleServerStatusIdle(t *testing.T) {
	deps := newTestDeps()
	result, err := handleServerStatus(deps)(context.Background(), nil)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result != 0 {
		t.Fatalf("status = %v, want 0 when idle", result)
	}
}

func TestHandleExecuteCommand(t *testing.T) {
	deps := newTestDeps()
	params, _ := json.Marshal(map[string]string{"command": "version"})
	result, err := handleExecuteCommand(deps)(context.Background(), params)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if result != "mksyncd 0.1.0" {
		t.Fatalf("result = %v", result)
	}
}

func TestHandleRemoveVirtualScreen(t *testing.T) {
	deps := newTestDeps()
	params, _ := json.Marshal(map[string]string{"name": "right"})
	if _, err := handleRemoveVirtualScreen(deps)(context.Background(), params); err != nil {
		t.Fatalf("handler: %v", err)
	}
}

func TestHandleSetVirtualScreenConfigUnknownScreen(t *testing.T) {
	deps := newTestDeps()
	params, _ := json.Marshal(events.VirtualScreenConfig{Name: "unknown"})
	if _, err := handleSetVirtualScreenConfig(deps)(context.Background(), params); err == nil {
		t.Fatal("expected error for unknown screen")
	}
}

func TestRegisterBindsAllMethods(t *testing.T) {
	srv := New(nil)
	Register(srv, newTestDeps())
	want := []string{
		"reload_config_file", "execute_command", "local_screen_info",
		"server", "server_status", "client", "client_status",
		"set_virtual_screen_config", "set_virtual_screen_configs",
		"get_online_screens", "remove_virtual_screen",
	}
	for _, method := range want {
		if _, ok := srv.handlers[method]; !ok {
			t.Fatalf("expected method %q to be registered", method)
		}
	}
}
