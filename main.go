// wfc-report turns a Web Fuzzing Commons report into an interactive dashboard.
//
// Usage:
//
//	wfc-report [generate] [--report report.json] [-o report.html]
//	wfc-report serve [--listen localhost:8000] [--no-watch]
//	wfc-report summary [--markdown] [--active 200,F100] [--removed 404]
//	wfc-report badge [-o badge.svg]
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chmouel/go-wfc-report/internal/config"
	"github.com/chmouel/go-wfc-report/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// app carries the resolved configuration from the root pre-run hook to the
// subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	// openBrowser is swapped out in tests.
	openBrowser func(target string)
}

func newRootCmd() *cobra.Command {
	return (&app{openBrowser: openBrowser}).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wfc-report",
		Short: "Dashboard for Web Fuzzing Commons reports",
		Long: "wfc-report reads a Web Fuzzing Commons report and its generated test files\n" +
			"and renders an interactive dashboard, serves it, or prints a summary.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML or JSON configuration file")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.String("report", config.DefaultReport, "WFC report JSON file")
	pf.String("title", config.DefaultTitle, "dashboard title")

	gen := a.generateCmd()
	root.AddCommand(gen, a.serveCmd(), a.summaryCmd(), a.badgeCmd())

	// Running the bare binary generates the dashboard.
	addGenerateFlags(root.Flags())
	root.RunE = gen.RunE
	return root
}

// setup resolves the configuration (defaults, then the config file, then
// flags given on the command line) and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logging.Init(level, strings.ToLower(cfg.LogFormat), cmd.ErrOrStderr())
	a.cfg = cfg
	return nil
}

// applyFlags copies the flags set explicitly on the command line over cfg.
func applyFlags(fs *pflag.FlagSet, cfg *config.Config) error {
	strs := map[string]*string{
		"report":     &cfg.Report,
		"output":     &cfg.Output,
		"listen":     &cfg.Listen,
		"title":      &cfg.Title,
		"log-level":  &cfg.LogLevel,
		"log-format": &cfg.LogFormat,
	}
	for name, dst := range strs {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if fs.Changed("no-open") {
		v, err := fs.GetBool("no-open")
		if err != nil {
			return err
		}
		cfg.NoOpen = v
	}

	ints := map[string]*int{
		"yellow": &cfg.Badge.Thresholds.Yellow,
		"red":    &cfg.Badge.Thresholds.Red,
	}
	for name, dst := range ints {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	return nil
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openBrowser opens a URL, or a file as a file:// URL, in the default browser.
func openBrowser(target string) {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		absPath, err := filepath.Abs(target)
		if err != nil {
			return
		}
		target = absPath
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", target)
	case "linux":
		cmd = exec.Command("xdg-open", target)
	default:
		return
	}
	_ = cmd.Start()
}
