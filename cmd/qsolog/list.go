package main

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/qsolog/internal/domain"
	"github.com/couchcryptid/qsolog/internal/query"
	"github.com/couchcryptid/qsolog/internal/render"
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [flags] FILE...",
		Short: "List fields or rows of the merged log",
		Long: `Without --fields, list prints how many QSOs carry each field.
With --fields, it prints one row per QSO holding those fields, sorted by
--sort. Use --delimiter for unpadded output suited to scripts.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runList,
	}

	f := cmd.Flags()
	f.StringP("call", "C", "", "only QSOs logged by this station callsign")
	f.StringP("mode", "M", "", "only QSOs in this mode")
	f.StringP("grid", "G", "", "only QSOs logged from this grid square")
	f.StringSliceP("fields", "F", nil, "fields to print, one column each")
	f.StringSliceP("sort", "S", []string{domain.FieldStart}, "fields to sort rows by")
	f.StringP("delimiter", "d", "", "join columns with this string instead of drawing a table")
	f.StringP("output", "o", "", "output format: table, json, yaml (default table on a terminal, json otherwise)")
	return cmd
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
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
	out := cmd.OutOrStdout()

	fields := a.v.GetStringSlice("fields")
	if len(fields) == 0 {
		census := query.Census(g.QSOs)
		if format == render.FormatTable {
			return render.NewFormatter(format).Format(out, render.CensusToTableData(census, g.Len()))
		}
		return render.NewFormatter(format).Format(out, census)
	}

	sorted := query.SortBy(g.QSOs, a.v.GetStringSlice("sort")...)
	rows := query.Rows(sorted, fields)

	if delim := a.v.GetString("delimiter"); delim != "" {
		return render.WriteDelimited(out, rows, delim)
	}
	if format == render.FormatTable {
		return render.NewFormatter(format).Format(out, render.RowsToTableData(fields, rows))
	}
	return render.NewFormatter(format).Format(out, rowMaps(fields, rows))
}

func rowMaps(fields []string, rows [][]string) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		m := make(map[string]string, len(fields))
		for j, name := range fields {
			m[name] = row[j]
		}
		out[i] = m
	}
	return out
}
