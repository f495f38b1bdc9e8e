package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		mode     string
		printCSV bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the collected numbers as a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var exportMode dto.ExportMode
			if mode != "" {
				parsed, err := dto.ParseExportMode(mode)
				if err != nil {
					return err
				}
				exportMode = parsed
			}

			a, err := newApp(cmd.Context(), opts.cfgFile, false)
			if err != nil {
				return err
			}
			defer a.Close()

			record, err := a.exports.Export(cmd.Context(), exportMode)
			if err != nil {
				return err
			}

			if printCSV {
				_, err := cmd.OutOrStdout().Write([]byte(record.Content))
				return err
			}
			printSuccess(cmd.OutOrStdout(), "exported %d number(s) to %s (%s)", record.Count, record.FileName, record.Mode)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "standard or google (default from config)")
	cmd.Flags().BoolVar(&printCSV, "print", false, "write the CSV to stdout instead of a summary line")
	return cmd
}
