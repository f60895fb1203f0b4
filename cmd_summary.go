package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chmouel/go-wfc-report/internal/filter"
	"github.com/chmouel/go-wfc-report/internal/format"
	"github.com/chmouel/go-wfc-report/internal/model"
)

func (a *app) summaryCmd() *cobra.Command {
	var (
		markdown bool
		active   []string
		removed  []string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the report summary as terminal or Markdown tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := parseFilter(active, removed)
			if err != nil {
				return err
			}
			sess, err := a.loadSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()
			return format.WriteSummary(cmd.OutOrStdout(), sess, format.SummaryOptions{
				Title:  a.cfg.Title,
				Mode:   format.ParseMode(markdown),
				Filter: state,
			})
		},
	}
	f := cmd.Flags()
	f.BoolVar(&markdown, "markdown", false, "render Markdown instead of terminal tables")
	f.StringSliceVar(&active, "active", nil, "keep endpoints with these codes (200, H200, F100)")
	f.StringSliceVar(&removed, "removed", nil, "drop endpoints with these codes")
	return cmd
}

// parseFilter builds a filter state from the --active and --removed code
// lists. A code cannot be in both.
func parseFilter(active, removed []string) (filter.State, error) {
	state := filter.State{}
	add := func(list []string, mode filter.Mode) error {
		for _, s := range list {
			code, err := model.ParseCode(s)
			if err != nil {
				return fmt.Errorf("invalid --%s code %q: %w", mode, s, err)
			}
			if prev := state.Get(code); prev != filter.Inactive && prev != mode {
				return fmt.Errorf("code %s is both active and removed", code)
			}
			state[code] = mode
		}
		return nil
	}
	if err := add(active, filter.Active); err != nil {
		return nil, err
	}
	if err := add(removed, filter.Removed); err != nil {
		return nil, err
	}
	return state, nil
}
