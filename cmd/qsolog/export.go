package main

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/qsolog/internal/render"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [flags] FILE...",
		Short: "Write the merged log as ADIF, JSON or YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runExport,
	}
	cmd.Flags().StringP("format", "f", string(render.FormatADIF), "export format: adif, json, yaml")
	return cmd
}

func (a *app) runExport(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(a.v.GetString("format"), render.FormatADIF, render.FormatJSON, render.FormatYAML)
	if err != nil {
		return err
	}

	res, err := a.load(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case render.FormatJSON, render.FormatYAML:
		return render.NewFormatter(format).Format(out, render.Maps(res.QSOs))
	default:
		return render.WriteADIF(out, res.QSOs)
	}
}
