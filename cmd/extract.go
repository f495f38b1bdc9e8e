package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
	"github.com/Aashish23092/ocr-phone-extractor/service"
)

func newExtractCmd(opts *rootOptions) *cobra.Command {
	var (
		export bool
		mode   string
	)

	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Run images through OCR and collect phone numbers",
		Long: `Queue the given images (or PDFs) and run one extraction pass over them.
At most pipeline.max_per_upload items are taken per invocation; the rest are dropped.

Examples:
  phone-extractor extract card1.jpg card2.png
  phone-extractor extract scans/*.jpg --export --mode google`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			var exportMode dto.ExportMode
			if mode != "" {
				parsed, err := dto.ParseExportMode(mode)
				if err != nil {
					return err
				}
				exportMode = parsed
			}

			a, err := newApp(ctx, opts.cfgFile, true)
			if err != nil {
				return err
			}
			defer a.Close()

			uploads := make([]service.Upload, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				uploads = append(uploads, service.Upload{FileName: filepath.Base(path), Data: data})
			}

			accepted, dropped, rejected := a.batch.Queue().Enqueue(uploads)
			for _, name := range rejected {
				printWarning(errOut, "skipped %s: unsupported file type", name)
			}
			if dropped > 0 {
				printWarning(errOut, "%d file(s) dropped: only %d are taken per run", dropped, a.cfg.Pipeline.MaxPerUpload)
			}
			if len(accepted) == 0 {
				return errors.New("nothing to process")
			}

			printStep(errOut, "Extracting text from %d image(s) with %s", len(accepted), a.cfg.OCR.Backend)
			bar := newProgressBar(errOut, len(accepted))
			summary, err := a.batch.Run(ctx, func(item dto.QueueItem) {
				switch item.Status {
				case dto.StatusCompleted, dto.StatusError:
					_ = bar.Add(1)
				default:
					bar.Describe(item.FileName)
				}
			})
			_ = bar.Finish()
			if err != nil {
				return err
			}

			for _, item := range a.batch.Queue().Items() {
				switch item.Status {
				case dto.StatusCompleted:
					printSuccess(out, "%s: %d number(s), %d new", item.FileName, len(item.Numbers), item.NewNumbers)
				case dto.StatusError:
					printError(out, "%s: %s", item.FileName, item.Error)
				}
			}

			fmt.Fprintln(out)
			printStatus(out, "New numbers", "%d", len(summary.NewNumbers))
			printStatus(out, "Duplicates", "%d", summary.Duplicates)
			printStatus(out, "Failed", "%d", summary.Failed)
			printStatus(out, "Total in session", "%d", summary.TotalKnown)
			for _, n := range summary.NewNumbers {
				fmt.Fprintf(out, "  +%s\t%s\n", n.Canonical, n.Source)
			}

			if !export {
				return nil
			}
			record, err := a.exports.Export(ctx, exportMode)
			if errors.Is(err, dto.ErrNothingToExport) {
				printWarning(errOut, "no numbers to export")
				return nil
			}
			if err != nil {
				return err
			}
			printSuccess(out, "exported %d number(s) to %s", record.Count, record.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&export, "export", false, "export the result set after the run")
	cmd.Flags().StringVar(&mode, "mode", "", "export mode: standard or google (default from config)")
	return cmd
}
