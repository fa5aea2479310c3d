package command

import (
	"context"
	"fmt"

	"github.com/mksync/mksync/internal/logging"
	"github.com/spf13/pflag"
)

// LogCmd changes the log level at runtime without restarting, driving
// logging.Init the same way cmd/mksyncd's newApp does at startup.
type LogCmd struct {
	flags  *pflag.FlagSet
	format string
	level  string

	level0  string // level currently configured, restored if --level is omitted
	format0 string
}

func NewLogCmd(format, level string) *LogCmd {
	c := &LogCmd{
		flags:   pflag.NewFlagSet("log", pflag.ContinueOnError),
		format0: format,
		level0:  level,
	}
	c.flags.StringVar(&c.level, "level", "", "debug, info, warn, or error")
	c.flags.StringVar(&c.format, "format", "", "text or json")
	return c
}

func (c *LogCmd) Name() string          { return "log" }
func (c *LogCmd) AliasNames() []string  { return nil }
func (c *LogCmd) Flags() *pflag.FlagSet { return c.flags }
func (c *LogCmd) Help() string {
	return "log [--level debug|info|warn|error] [--format text|json]\n" + c.flags.FlagUsages()
}

func (c *LogCmd) Execute(ctx context.Context) (string, error) {
	level := c.level
	if level == "" {
		level = c.level0
	}
	format := c.format
	if format == "" {
		format = c.format0
	}
	logging.Init(format, level, nil)
	c.level0, c.format0 = level, format
	return fmt.Sprintf("log level=%s format=%s", level, format), nil
}

// VersionCmd prints the build version.
type VersionCmd struct {
	flags   *pflag.FlagSet
	version string
}

func NewVersionCmd(version string) *VersionCmd {
	return &VersionCmd{flags: pflag.NewFlagSet("version", pflag.ContinueOnError), version: version}
}

func (c *VersionCmd) Name() string          { return "version" }
func (c *VersionCmd) AliasNames() []string  { return []string{"v"} }
func (c *VersionCmd) Flags() *pflag.FlagSet { return c.flags }
func (c *VersionCmd) Help() string          { return "version(v), print the daemon version" }
func (c *VersionCmd) Execute(ctx context.Context) (string, error) {
	return "mksyncd " + c.version, nil
}

// HelpCmd lists every registered command, or prints one command's help
// when given a name.
type HelpCmd struct {
	flags   *pflag.FlagSet
	invoker *Invoker
}

func NewHelpCmd(invoker *Invoker) *HelpCmd {
	return &HelpCmd{flags: pflag.NewFlagSet("help", pflag.ContinueOnError), invoker: invoker}
}

func (c *HelpCmd) Name() string          { return "help" }
func (c *HelpCmd) AliasNames() []string  { return []string{"h", "?"} }
func (c *HelpCmd) Flags() *pflag.FlagSet { return c.flags }
func (c *HelpCmd) Help() string          { return "help(h,?) [command], list commands or show one command's help" }

func (c *HelpCmd) Execute(ctx context.Context) (string, error) {
	args := c.flags.Args()
	if len(args) == 0 {
		var out string
		for _, name := range c.invoker.Names() {
			cmd, _ := c.invoker.Lookup(name)
			out += cmd.Help() + "\n"
		}
		return out, nil
	}
	cmd, ok := c.invoker.Lookup(args[0])
	if !ok {
		return "", fmt.Errorf("help: unknown command %q", args[0])
	}
	return cmd.Help(), nil
}

// ExitCmd sends on Signal, which cmd/mksyncd watches to shut the whole
// daemon down. The same happens when it is run through the RPC
// execute_command method, which shares this Invoker.
type ExitCmd struct {
	flags  *pflag.FlagSet
	Signal chan struct{}
}

func NewExitCmd() *ExitCmd {
	return &ExitCmd{flags: pflag.NewFlagSet("exit", pflag.ContinueOnError), Signal: make(chan struct{}, 1)}
}

func (c *ExitCmd) Name() string          { return "exit" }
func (c *ExitCmd) AliasNames() []string  { return []string{"quit", "q"} }
func (c *ExitCmd) Flags() *pflag.FlagSet { return c.flags }
func (c *ExitCmd) Help() string          { return "exit(quit,q), shut down the daemon" }
func (c *ExitCmd) Execute(ctx context.Context) (string, error) {
	select {
	case c.Signal <- struct{}{}:
	default:
	}
	return "bye", nil
}
