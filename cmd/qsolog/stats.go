package main

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/qsolog/internal/query"
	"github.com/couchcryptid/qsolog/internal/render"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [flags] FILE...",
		Short: "Summarize totals, countries, states and notable contacts",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runStats,
	}

	f := cmd.Flags()
	f.StringP("call", "C", "", "only QSOs logged by this station callsign")
	f.StringP("mode", "M", "", "only QSOs in this mode")
	f.StringP("grid", "G", "", "only QSOs logged from this grid square")
	f.Int("recent", 25, "rows in the most recent QSOs table")
	f.Int("distant", 40, "rows in the most distant confirmed QSLs table")
	f.StringP("output", "o", "", "output format: table, json, yaml (default table on a terminal, json otherwise)")
	return cmd
}

func (a *app) runStats(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(a.v.GetString("output"), render.FormatTable, render.FormatJSON, render.FormatYAML)
	if err != nil {
		return err
	}
	format = render.DetectFormat(string(format))

	res, err := a.load(cmd, args)
	if err != nil {
		return err
	}

	g := query.NewGroup(res.QSOs, query.Filter{
		Call: a.v.GetString("call"),
		Mode: a.v.GetString("mode"),
		Grid: a.v.GetString("grid"),
	})
	recent, distant := a.v.GetInt("recent"), a.v.GetInt("distant")

	out := cmd.OutOrStdout()
	if format == render.FormatTable {
		return render.WriteReport(out, g, recent, distant)
	}
	return render.NewFormatter(format).Format(out, render.NewReport(g, recent, distant))
}
