// Package cmd implements the labelscan command line, which runs the label
// text pipeline over text, images and barcodes without the server.
package cmd

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	compact bool
	verbose bool
}

// NewRootCommand builds the labelscan command tree
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "labelscan",
		Short: "Read barcodes and expiry dates from product labels",
		Long: `labelscan runs the label text pipeline used by the expiry tracker.
It corrects common OCR mistakes, finds the barcode and the expiry date, and
prints the result as JSON.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	root.PersistentFlags().BoolVar(&opts.compact, "compact", false, "Print JSON on a single line")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every pipeline stage to stderr")

	root.AddCommand(
		newTextCommand(opts),
		newImageCommand(opts),
		newBarcodeCommand(opts),
	)
	return root
}

func (o *rootOptions) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if !o.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// readInput reads the named file, or stdin when name is empty or "-"
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}
