package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chmouel/go-wfc-report/internal/config"
	"github.com/chmouel/go-wfc-report/internal/dashboard"
	"github.com/chmouel/go-wfc-report/internal/generator"
	"github.com/chmouel/go-wfc-report/internal/logging"
)

func addGenerateFlags(f *pflag.FlagSet) {
	f.StringP("output", "o", config.DefaultOutput, `output HTML file, "-" for stdout`)
	f.BoolP("no-open", "n", false, "do not open the dashboard in a browser")
}

func (a *app) generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the dashboard as a single self-contained HTML file",
		Args:  cobra.NoArgs,
		RunE:  a.runGenerate,
	}
	addGenerateFlags(cmd.Flags())
	return cmd
}

// loadSession loads the configured report with the configured catalogue.
func (a *app) loadSession(cmd *cobra.Command) (*dashboard.Session, error) {
	return dashboard.Load(cmd.Context(), dashboard.Options{
		ReportPath: a.cfg.Report,
		Catalog:    a.cfg.Catalog(),
		Logger:     logging.New("dashboard"),
	})
}

func (a *app) runGenerate(cmd *cobra.Command, _ []string) error {
	sess, err := a.loadSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	view := sess.View(a.cfg.Title)
	toStdout := a.cfg.Output == "" || a.cfg.Output == "-"
	if err := generator.Generate(view, a.cfg.Output, generator.Options{}); err != nil {
		return fmt.Errorf("generating dashboard: %w", err)
	}

	// Keep stdout clean when the page itself went there.
	out := cmd.OutOrStdout()
	if toStdout {
		out = cmd.ErrOrStderr()
	} else {
		fmt.Fprintf(out, "Dashboard written to %s\n", a.cfg.Output)
	}
	fmt.Fprintf(out, "Endpoints: %d, faults: %d, test cases: %d\n",
		view.Overview.TotalEndpoints, view.Overview.TotalFaults, len(view.TestCases))
	if n := len(view.Diagnostics); n > 0 {
		fmt.Fprintf(out, "Warnings: %d (see the overview tab)\n", n)
	}

	if !a.cfg.NoOpen && !toStdout {
		a.openBrowser(a.cfg.Output)
	}
	return nil
}
