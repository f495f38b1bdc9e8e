package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	cfgFile string
	noColor bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "phone-extractor",
		Short: "Extract Indian mobile numbers from images and export them as contact CSV files",
		Long: `phone-extractor runs uploaded images through OCR, picks out Indian mobile numbers,
keeps the unique ones across the session and exports them as CSV for contact import.

Examples:
  phone-extractor serve
  phone-extractor extract cards/*.jpg --export --mode google
  phone-extractor history show <id>`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path (YAML)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newServeCmd(opts),
		newExtractCmd(opts),
		newExportCmd(opts),
		newHistoryCmd(opts),
		newResetCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
