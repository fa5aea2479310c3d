package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"warning": true,
	"error": true,
}

// ValidateResult separates validation errors that must block startup from
// ones that are clamped or defaulted in place and merely logged.
type ValidateResult struct {
	Fatals   []error
	Warnings []error
}

// HasFatals reports whether any fatal validation error was found.
func (r ValidateResult) HasFatals() bool { return len(r.Fatals) > 0 }

// ValidateTiered checks c for invalid values, clamping safe ones and
// collecting the rest as warnings, while configuration that can't be
// clamped to a sane value (a malformed listen address) is fatal.
func (c *Config) ValidateTiered() ValidateResult {
	var result ValidateResult

	if c.ScreenName == "" {
		result.Fatals = append(result.Fatals, fmt.Errorf("screen_name must not be empty"))
	}

	if _, _, err := net.SplitHostPort(c.ServerIPAddress); err != nil {
		result.Fatals = append(result.Fatals, fmt.Errorf("server_ipaddress %q: %w", c.ServerIPAddress, err))
	}

	if c.RemoteController != "" {
		u, err := url.Parse(c.RemoteController)
		if err != nil {
			result.Fatals = append(result.Fatals, fmt.Errorf("remote_controller %q is not a valid URL: %w", c.RemoteController, err))
		} else if u.Scheme != "tcp" {
			result.Fatals = append(result.Fatals, fmt.Errorf("remote_controller scheme must be tcp, got %q", u.Scheme))
		}
	}

	if c.MaxLogRecords < 0 {
		result.Warnings = append(result.Warnings, fmt.Errorf("max_log_records %d is negative, clamping to 0", c.MaxLogRecords))
		c.MaxLogRecords = 0
	} else if c.MaxLogRecords > 1_000_000 {
		result.Warnings = append(result.Warnings, fmt.Errorf("max_log_records %d exceeds maximum 1000000, clamping", c.MaxLogRecords))
		c.MaxLogRecords = 1_000_000
	}

	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		result.Warnings = append(result.Warnings, fmt.Errorf("log_level %q is not valid (use debug, info, warn, error), defaulting to info", c.LogLevel))
		c.LogLevel = "info"
	}

	seen := make(map[string]bool, len(c.ScreenSettings))
	kept := c.ScreenSettings[:0]
	for _, s := range c.ScreenSettings {
		if s.Name == "" {
			result.Warnings = append(result.Warnings, fmt.Errorf("screen_settings entry with empty name, skipping"))
			continue
		}
		if seen[s.Name] {
			result.Warnings = append(result.Warnings, fmt.Errorf("screen_settings has duplicate entry for %q, keeping first", s.Name))
			continue
		}
		seen[s.Name] = true
		kept = append(kept, s)
	}
	c.ScreenSettings = kept

	return result
}
