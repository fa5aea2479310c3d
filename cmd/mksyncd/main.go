package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mksync/mksync/internal/app"
	"github.com/mksync/mksync/internal/command"
	"github.com/mksync/mksync/internal/config"
	"github.com/mksync/mksync/internal/logging"
)

var (
	version = "0.1.0"
	cfgFile string
)

var log = logging.L("main")

var rootCmd = &cobra.Command{
	Use:   "mksyncd",
	Short: "mksync daemon",
	Long:  `mksyncd synchronizes one keyboard and mouse across multiple machines.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the daemon and its interactive command shell",
	Run: func(cmd *cobra.Command, args []string) {
		runDaemon()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mksyncd %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/mksync/mksync.yaml)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDaemon loads settings and brings up the node bus and the
// RemoteController RPC listener. Under the Windows Service Control Manager
// it hands lifecycle control to runAsService; otherwise it runs the §6 CLI
// surface as an interactive shell on stdin until SIGINT/SIGTERM or an
// "exit"/"quit" command.
func runDaemon() {
	if isWindowsService() {
		if err := runAsService(newApp); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cmd, ok := a.Invoker().Lookup("exit"); ok {
		if exitCmd, ok := cmd.(*command.ExitCmd); ok {
			go func() {
				<-exitCmd.Signal
				log.Info("exit command received")
				cancel()
			}()
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("received shutdown signal")
		cancel()
	}()

	if hasConsole() {
		go runShell(ctx, a)
	}

	if err := a.Run(ctx); err != nil {
		log.Error("mksyncd exited with error", logging.KeyError, err)
		os.Exit(1)
	}
}

// newApp builds an App from settings without starting it. Shared by the
// console path and runAsService, which starts it once the SCM has accepted
// the service start request.
func newApp() (*app.App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logging.Init("text", cfg.LogLevel, nil)
	log = logging.L("main")

	a := app.New(version, cfg)
	log.Info("starting mksyncd", "version", version, "screen_name", cfg.ScreenName)
	return a, nil
}

// runShell reads §6 CLI surface lines from stdin and executes them through
// the daemon's own command invoker, the same dispatcher RemoteController's
// execute_command RPC method uses.
func runShell(ctx context.Context, a *app.App) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("mksyncd " + version + " - type 'help' for a list of commands")
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		out, err := a.Invoker().Execute(ctx, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}
