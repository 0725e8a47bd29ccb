package cli

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func (c *CLI) requestsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Show API requests used by the configured key",
		Long:  `Show how many XML API requests the configured key has made this month. Requires an API key.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := c.newResolver(ctx)
			if err != nil {
				return err
			}
			n, err := r.RequestCount(ctx)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]uint64{"requests": n})
			}
			printKeyValue(cmd.OutOrStdout(), "Requests", StyleNumber.Render(humanize.Comma(int64(n))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the count as JSON")
	return cmd
}
