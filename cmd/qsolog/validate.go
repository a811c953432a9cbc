package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errRecordsDropped = errors.New("some records could not be read")

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Report every record that cannot be read",
		Long: `validate reads every file and prints one line per dropped record:
the file, the byte offset of the record and the reason. It exits non-zero
when anything was dropped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runValidate,
	}
}

func (a *app) runValidate(cmd *cobra.Command, args []string) error {
	res, err := a.load(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, d := range res.Diagnostics {
		fmt.Fprintln(out, d.Error())
	}
	fmt.Fprintf(out, "%d files, %d records read, %d dropped, %d merged QSOs\n",
		len(args), res.Parsed, len(res.Diagnostics), len(res.QSOs))

	if len(res.Diagnostics) > 0 {
		return errRecordsDropped
	}
	return nil
}
