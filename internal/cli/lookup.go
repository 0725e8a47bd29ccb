package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackermeta/pkg/errors"
)

func (c *CLI) lookupCommand() *cobra.Command {
	var jsonOut, instruments bool

	cmd := &cobra.Command{
		Use:   "lookup <filename>",
		Short: "Find a module by filename and show its metadata",
		Long: `Search by filename and show the metadata of the best match: the result
whose filename equals the query ignoring case, otherwise the first result.`,
		Example: `  trackermeta lookup noway.s3m`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := c.newResolver(ctx)
			if err != nil {
				return err
			}
			candidates, err := r.ResolveFilename(ctx, args[0])
			if err != nil {
				return err
			}
			best, ok := bestMatch(args[0], candidates)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "no module named %q", args[0])
			}
			rec, err := r.Get(ctx, best.ID)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			printRecord(cmd.OutOrStdout(), rec, instruments)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the record as JSON")
	cmd.Flags().BoolVarP(&instruments, "instruments", "i", false, "print instrument text")

	return cmd
}
