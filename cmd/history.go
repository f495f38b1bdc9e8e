package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	history := &cobra.Command{
		Use:   "history",
		Short: "List past exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfgFile, false)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			records := a.exports.History()
			if len(records) == 0 {
				fmt.Fprintln(out, "No exports yet.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFILE\tCREATED\tCOUNT\tMODE")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					r.ID, r.FileName, r.CreatedAt.Local().Format(time.DateTime), r.Count, r.Mode)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nnext file: %d.csv\n", a.exports.NextCounter())
			return nil
		},
	}

	var xlsxPath string
	show := &cobra.Command{
		Use:   "show ID",
		Short: "Print the stored CSV of one export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfgFile, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if xlsxPath != "" {
				_, data, err := a.exports.RenderXLSX(args[0])
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", xlsxPath, err)
				}
				printSuccess(cmd.OutOrStdout(), "wrote %s", xlsxPath)
				return nil
			}

			record, err := a.exports.Download(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write([]byte(record.Content))
			return err
		},
	}
	show.Flags().StringVar(&xlsxPath, "xlsx", "", "write the export as an XLSX workbook to this path")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored export; file numbering continues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts.cfgFile, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.exports.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "export history cleared")
			return nil
		},
	}

	history.AddCommand(show, clearCmd)
	return history
}
