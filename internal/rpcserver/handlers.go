package rpcserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mksync/mksync/internal/command"
	"github.com/mksync/mksync/internal/controller"
	"github.com/mksync/mksync/internal/events"
)

// Deps wires the RPC surface to the rest of the daemon. ReloadConfig may be
// nil in tests; reload_config_file reports an error in that case rather
// than panicking.
type Deps struct {
	Controller   *controller.Controller
	Invoker      *command.Invoker
	ReloadConfig func(path string) error
}

// Register binds every §6 RemoteController method to srv.
func Register(srv *Server, deps Deps) {
	srv.Register("reload_config_file", handleReloadConfigFile(deps))
	srv.Register("execute_command", handleExecuteCommand(deps))
	srv.Register("local_screen_info", handleLocalScreenInfo(deps))
	srv.Register("server", handleServer(deps))
	srv.Register("server_status", handleServerStatus(deps))
	srv.Register("client", handleClient(deps))
	srv.Register("client_status", handleClientStatus(deps))
	srv.Register("set_virtual_screen_config", handleSetVirtualScreenConfig(deps))
	srv.Register("set_virtual_screen_configs", handleSetVirtualScreenConfigs(deps))
	srv.Register("get_online_screens", handleGetOnlineScreens(deps))
	srv.Register("remove_virtual_screen", handleRemoveVirtualScreen(deps))
}

func handleReloadConfigFile(deps Deps) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		if deps.ReloadConfig == nil {
			return nil, fmt.Errorf("reload_config_file: not available")
		}
		return nil, deps.ReloadConfig(p.Path)
	}
}

func handleExecuteCommand(deps Deps) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Command string `json:"command"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		return deps.Invoker.Execute(ctx, p.Command)
	}
}

func handleLocalScreenInfo(deps Deps) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		return deps.Controller.LocalScreenInfo(), nil
	}
}

func handleServer(deps Deps) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Cmd  string `json:"cmd"`
			IP   string `json:"ip"`
			Port uint16 `json:"port"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		addr := fmt.Sprintf("%s:%d", p.IP, p.Port)
		switch p.Cmd {
		case "start":
			return "", deps.Controller.StartServer(ctx, addr)
		case "stop":
			return "", deps.Controller.StopServer(ctx)
		case "restart":
			_ = deps.Controller.StopServer(ctx)
			return "", deps.Controller.StartServer(ctx, addr)
		default:
			return nil, fmt.Errorf("server: unknown cmd %q", p.Cmd)
		}
	}
}

func handleServerStatus(deps Deps) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		if deps.Controller.Mode() == controller.ModeServer {
			return 1, nil
		}
		return 0, nil
	}
}

func handleClient(deps Deps) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Cmd  string `json:"cmd"`
			IP   string `json:"ip"`
			Port uint16 `json:"port"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		addr := fmt.Sprintf("%s:%d", p.IP, p.Port)
		switch p.Cmd {
		case "start":
			return "", deps.Controller.StartClient(ctx, addr)
		case "stop":
			return "", deps.Controller.StopClient(ctx)
		case "restart":
			_ = deps.Controller.StopClient(ctx)
			return "", deps.Controller.StartClient(ctx, addr)
		default:
			return nil, fmt.Errorf("client: unknown cmd %q", p.Cmd)
		}
	}
}

func handleClientStatus(deps Deps) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		if deps.Controller.Mode() == controller.ModeClient {
			return 1, nil
		}
		return 0, nil
	}
}

func handleSetVirtualScreenConfig(deps Deps) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var cfg events.VirtualScreenConfig
		if err := json.Unmarshal(params, &cfg); err != nil {
			return nil, err
		}
		return nil, deps.Controller.SetVirtualScreenPosition(cfg.Name, controller.Point{X: cfg.PosX, Y: cfg.PosY})
	}
}

func handleSetVirtualScreenConfigs(deps Deps) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var cfgs []events.VirtualScreenConfig
		if err := json.Unmarshal(params, &cfgs); err != nil {
			return nil, err
		}
		return nil, deps.Controller.SetVirtualScreenPositions(cfgs)
	}
}

func handleGetOnlineScreens(deps Deps) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		return deps.Controller.GetOnlineScreens(), nil
	}
}

func handleRemoveVirtualScreen(deps Deps) Handler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var p struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, err
		}
		deps.Controller.RemoveVirtualScreen(p.Name)
		return nil, nil
	}
}
