package cmd

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zombor/expiry-tracker/internal/labeltext"
)

func newTextCommand(opts *rootOptions) *cobra.Command {
	var eachLine bool

	cmd := &cobra.Command{
		Use:   "text [file]",
		Short: "Run the pipeline over OCR text",
		Long: `Run the label text pipeline over text that was already recognized.
The text is read from the file, or from stdin when no file is given.`,
		Example: `  echo "EXP: 30-N0V-25" | labelscan text
  labelscan text --each-line transcripts.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			data, err := readInput(cmd, name)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			if !eachLine {
				return opts.printJSON(cmd.OutOrStdout(), labeltext.ScanText(string(data)))
			}

			lines := bufio.NewScanner(bytes.NewReader(data))
			for lines.Scan() {
				if err := opts.printJSON(cmd.OutOrStdout(), labeltext.ScanText(lines.Text())); err != nil {
					return err
				}
			}
			return lines.Err()
		},
	}

	cmd.Flags().BoolVar(&eachLine, "each-line", false, "Treat every input line as a separate label")
	return cmd
}
