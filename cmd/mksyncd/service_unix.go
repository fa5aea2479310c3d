//go:build !windows

package main

import (
	"fmt"

	"github.com/mksync/mksync/internal/app"
)

// isWindowsService always returns false on non-Windows platforms.
func isWindowsService() bool { return false }

// hasConsole returns true on non-Windows platforms (always have a TTY or pipe).
func hasConsole() bool { return true }

// runAsService is a no-op stub on non-Windows platforms; use the systemd or
// launchd service commands instead.
func runAsService(_ func() (*app.App, error)) error {
	return fmt.Errorf("service mode is managed by systemd/launchd on this platform, not --service")
}
