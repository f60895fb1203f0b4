package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chmouel/go-wfc-report/internal/badge"
	"github.com/chmouel/go-wfc-report/internal/parser"
)

func (a *app) badgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "badge",
		Short: "Write an SVG badge with the number of faults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}
			doc, err := parser.Parse(a.cfg.Report)
			if err != nil {
				return err
			}
			t := a.cfg.Badge.Thresholds
			if err := badge.GenerateBadge(doc.Faults.TotalNumber, out, badge.Thresholds{Yellow: t.Yellow, Red: t.Red}); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Badge written to %s (%d faults)\n", out, doc.Faults.TotalNumber)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringP("output", "o", "badge.svg", `output SVG file, "-" for stdout`)
	f.Int("yellow", 5, "fault count up to which the badge is yellow")
	f.Int("red", 6, "fault count from which the badge is red")
	return cmd
}
