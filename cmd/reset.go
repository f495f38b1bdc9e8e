package cmd

import (
	"github.com/spf13/cobra"
)

func newResetCmd(opts *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget every collected number (export history is kept unless --all)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfgFile, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.batch.Reset(cmd.Context(), all); err != nil {
				return err
			}
			if all {
				printSuccess(cmd.OutOrStdout(), "session reset, export history cleared")
				return nil
			}
			printSuccess(cmd.OutOrStdout(), "session reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "also clear export history and restart file numbering at 1.csv")
	return cmd
}
