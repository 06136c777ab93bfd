package commands

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/atm/internal/compare"
)

func newCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <expected> <actual>",
		Short: "Compare two ledger files token by token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := compare.Files(args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				color.New(color.FgRed).Fprintln(out, "differ")
				return errors.New("ledger files differ")
			}
			color.New(color.FgGreen).Fprintln(out, "match")
			return nil
		},
	}
}
