package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zombor/expiry-tracker/internal/lookup"
)

func newBarcodeCommand(opts *rootOptions) *cobra.Command {
	var (
		offline bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "barcode <code>",
		Short: "Look up product details for a barcode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := []lookup.Source{lookup.NewKnown(nil)}
			if !offline {
				sources = append(sources, lookup.NewOpenFoodFacts(""), lookup.NewUPCItemDB(""))
			}
			sources = append(sources, lookup.Guess{})

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			info, err := lookup.NewChain(sources...).Lookup(ctx, args[0])
			if err != nil {
				return fmt.Errorf("looking up %s: %w", args[0], err)
			}
			return opts.printJSON(cmd.OutOrStdout(), info)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Only use the built-in table and prefix guessing")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "Overall lookup timeout")
	return cmd
}
