package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chmouel/go-wfc-report/internal/config"
	"github.com/chmouel/go-wfc-report/internal/dashboard"
	"github.com/chmouel/go-wfc-report/internal/logging"
	"github.com/chmouel/go-wfc-report/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard with a JSON API, reloading the report on change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd, !noWatch)
		},
	}
	f := cmd.Flags()
	f.String("listen", config.DefaultListen, "address to listen on")
	f.BoolP("no-open", "n", false, "do not open the dashboard in a browser")
	f.BoolVar(&noWatch, "no-watch", false, "do not reload the report when it changes")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, watch bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := a.cfg.Catalog()
	load := func(ctx context.Context) (*dashboard.Session, error) {
		return dashboard.Load(ctx, dashboard.Options{
			ReportPath: a.cfg.Report,
			Catalog:    catalog,
			Logger:     logging.New("dashboard"),
		})
	}
	sess, err := load(ctx)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:       a.cfg.Listen,
		Title:      a.cfg.Title,
		ReportPath: a.cfg.Report,
		Watch:      watch,
		Load:       load,
		Logger:     logging.New("server"),
	}, sess)

	return srv.Run(ctx, func(url string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Serving dashboard at %s\n", url)
		if !a.cfg.NoOpen {
			a.openBrowser(url)
		}
	})
}
