package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

func printSuccess(w io.Writer, format string, args ...any) {
	green.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	red.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	yellow.Fprintf(w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

func printStep(w io.Writer, format string, args ...any) {
	cyan.Fprintf(w, "→ %s\n", fmt.Sprintf(format, args...))
}

func printStatus(w io.Writer, label string, format string, args ...any) {
	fmt.Fprintf(w, "  %s %s\n", bold.Sprint(label+":"), fmt.Sprintf(format, args...))
}

// newProgressBar counts finished items. It renders to w, normally stderr.
func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetVisibility(w == os.Stderr),
	)
}
