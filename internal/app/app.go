// Package app wires mksyncd's components together: it loads settings at
// startup, builds the node bus, the controller, the command shell, and the
// RemoteController RPC server, and owns the process lifecycle (§2).
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mksync/mksync/internal/command"
	"github.com/mksync/mksync/internal/config"
	"github.com/mksync/mksync/internal/controller"
	"github.com/mksync/mksync/internal/events"
	"github.com/mksync/mksync/internal/logging"
	"github.com/mksync/mksync/internal/node"
	"github.com/mksync/mksync/internal/rpcserver"
	"github.com/mksync/mksync/internal/transport"
	"github.com/mksync/mksync/internal/workerpool"
)

var log = logging.L("app")

const (
	transportNodeName  = "transport"
	controllerNodeName = "controller"

	defaultWidth  = 1920
	defaultHeight = 1080

	rpcMaxWorkers = 8
	rpcQueueSize  = 64
)

// App owns every long-lived component mksyncd runs: the node bus, the
// controller, the command invoker, and the RemoteController RPC server.
type App struct {
	version string
	cfg     *config.Config

	manager   *node.Manager
	transport *transport.Node
	ctrl      *controller.Controller
	invoker   *command.Invoker
	pool      *workerpool.Pool
	rpc       *rpcserver.Server
}

// New builds App from cfg but does not start anything; call Run to start
// the node bus and the RPC listener.
func New(version string, cfg *config.Config) *App {
	local := localScreenInfo(cfg)

	manager := node.NewManager()
	transportNode := transport.New(transportNodeName, local)
	ctrl := controller.New(controllerNodeName, manager, transportNode, local, cfg.ScreenSettings)

	invoker := command.NewInvoker()
	registerCommands(invoker, ctrl, version, cfg)

	pool := workerpool.New(rpcMaxWorkers, rpcQueueSize)
	rpc := rpcserver.New(pool)
	rpcserver.Register(rpc, rpcserver.Deps{
		Controller: ctrl,
		Invoker:    invoker,
		ReloadConfig: func(path string) error {
			_, err := config.Load(path)
			return err
		},
	})

	return &App{
		version:   version,
		cfg:       cfg,
		manager:   manager,
		transport: transportNode,
		ctrl:      ctrl,
		invoker:   invoker,
		pool:      pool,
		rpc:       rpc,
	}
}

// Invoker exposes the command shell's registry, e.g. for an interactive
// REPL front end.
func (a *App) Invoker() *command.Invoker { return a.invoker }

// Start brings up the static node set (transport + controller) and the
// RemoteController listener in the background, then returns. Callers that
// need to block until shutdown should use Run instead; Start exists for
// hosts that already run their own event loop (e.g. the Windows SCM).
func (a *App) Start(ctx context.Context) error {
	if err := a.manager.Add(a.transport); err != nil {
		return err
	}
	if err := a.manager.Add(a.ctrl); err != nil {
		return err
	}
	if err := a.manager.Setup(ctx); err != nil {
		return fmt.Errorf("app: node bus setup: %w", err)
	}

	addr := strings.TrimPrefix(a.cfg.RemoteController, "tcp://")
	go func() {
		if err := a.rpc.ListenAndServe(addr); err != nil {
			log.Error("rpc server stopped unexpectedly", logging.KeyError, err)
		}
	}()

	log.Info("mksyncd running", "version", a.version, "remote_controller", addr)
	return nil
}

// Run brings up the static node set (transport + controller) and the
// RemoteController listener, blocking until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return a.Shutdown()
}

// Shutdown stops the RPC listener, drains in-flight RPC calls, and tears
// down every running node.
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.rpc.Close(shutdownCtx); err != nil {
		log.Warn("rpc server shutdown", logging.KeyError, err)
	}
	a.pool.StopAccepting()
	a.pool.Drain(shutdownCtx)

	if err := a.manager.Teardown(shutdownCtx); err != nil {
		return fmt.Errorf("app: node bus teardown: %w", err)
	}
	log.Info("mksyncd stopped")
	return nil
}

func localScreenInfo(cfg *config.Config) events.VirtualScreenInfo {
	width, height := uint32(defaultWidth), uint32(defaultHeight)
	for _, s := range cfg.ScreenSettings {
		if s.Name == cfg.ScreenName {
			width, height = uint32(s.Width), uint32(s.Height)
			break
		}
	}
	return events.VirtualScreenInfo{
		Name:   cfg.ScreenName,
		Width:  width,
		Height: height,
	}
}

func registerCommands(inv *command.Invoker, ctrl *controller.Controller, version string, cfg *config.Config) {
	for _, cmd := range []command.Command{
		command.NewServerCmd(ctrl, "0.0.0.0", defaultPort(cfg.ServerIPAddress)),
		command.NewClientCmd(ctrl, "0.0.0.0", defaultPort(cfg.ServerIPAddress)),
		command.NewCaptureCmd(ctrl),
		command.NewScreenCmd(ctrl),
		command.NewLogCmd("text", cfg.LogLevel),
		command.NewVersionCmd(version),
	} {
		if err := inv.Register(cmd); err != nil {
			log.Error("failed to register command", "name", cmd.Name(), logging.KeyError, err)
		}
	}
	_ = inv.Register(command.NewHelpCmd(inv))
	_ = inv.Register(command.NewExitCmd())
}

func defaultPort(addr string) uint16 {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return 8577
	}
	var port uint16
	if _, err := fmt.Sscanf(addr[idx+1:], "%d", &port); err != nil {
		return 8577
	}
	return port
}
