//go:build windows

package main

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sys/windows/svc"

	"github.com/mksync/mksync/internal/app"
)

// isWindowsService reports whether the process was started by the Windows
// Service Control Manager. Must be called early — before any console I/O.
func isWindowsService() bool {
	ok, err := svc.IsWindowsService()
	if err != nil {
		return false
	}
	return ok
}

// mksyncdService implements svc.Handler for the Windows SCM.
type mksyncdService struct {
	startFn  func() (*app.App, error)
	stopOnce sync.Once
	stopCh   chan struct{}
}

// runAsService runs mksyncd under the Windows Service Control Manager.
// startFn is called once the SCM has accepted the service start; Execute
// starts the returned App itself before reporting SERVICE_RUNNING.
func runAsService(startFn func() (*app.App, error)) error {
	h := &mksyncdService{
		startFn: startFn,
		stopCh:  make(chan struct{}),
	}
	return svc.Run("mksyncd", h)
}

// Execute is the SCM callback. It signals SERVICE_START_PENDING, calls
// startFn and starts the app, signals SERVICE_RUNNING, then blocks until
// the SCM sends Stop or Shutdown.
func (s *mksyncdService) Execute(args []string, r <-chan svc.ChangeRequest, changes chan<- svc.Status) (bool, uint32) {
	const accepted = svc.AcceptStop | svc.AcceptShutdown

	changes <- svc.Status{State: svc.StartPending}

	a, err := s.startFn()
	if err != nil {
		log.Error("mksyncd start failed", "error", err)
		changes <- svc.Status{State: svc.StopPending}
		return true, 1
	}
	if err := a.Start(context.Background()); err != nil {
		log.Error("mksyncd start failed", "error", err)
		changes <- svc.Status{State: svc.StopPending}
		return true, 1
	}

	changes <- svc.Status{State: svc.Running, Accepts: accepted}
	log.Info("mksyncd running as Windows service")

	for {
		select {
		case cr := <-r:
			switch cr.Cmd {
			case svc.Interrogate:
				changes <- cr.CurrentStatus
			case svc.Stop, svc.Shutdown:
				log.Info("SCM requested stop")
				changes <- svc.Status{State: svc.StopPending}
				_ = a.Shutdown()
				return false, 0
			default:
				log.Warn(fmt.Sprintf("unexpected SCM control request #%d", cr.Cmd))
			}
		}
	}
}
