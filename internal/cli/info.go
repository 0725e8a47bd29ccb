package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/trackermeta/pkg/errors"
	"github.com/matzehuels/trackermeta/pkg/integrations/modarchive"
	"github.com/matzehuels/trackermeta/pkg/modinfo"
)

const defaultJobs = 4

type infoOptions struct {
	json        bool
	instruments bool
	jobs        int
}

func (c *CLI) infoCommand() *cobra.Command {
	opts := infoOptions{jobs: defaultJobs}

	cmd := &cobra.Command{
		Use:   "info <id>...",
		Short: "Show metadata for modules by ID",
		Long: `Show metadata for one or more modules by archive ID.

Lookups run in parallel (see --jobs). A failed lookup is reported and the
remaining modules are still printed.`,
		Example: `  trackermeta info 51772
  trackermeta info 51772 190012 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			r, err := c.newResolver(cmd.Context())
			if err != nil {
				return err
			}
			return c.runInfo(cmd, r, ids, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print records as JSON")
	cmd.Flags().BoolVarP(&opts.instruments, "instruments", "i", false, "print instrument text")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", defaultJobs, "parallel lookups")

	return cmd
}

func (c *CLI) runInfo(cmd *cobra.Command, r *modarchive.Resolver, ids []uint32, opts infoOptions) error {
	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	prog := newProgress(loggerFromContext(ctx))

	var spinner *Spinner
	if !opts.json {
		spinner = newSpinner(ctx, errOut, fmt.Sprintf("Resolving %d module(s)...", len(ids)))
		spinner.Start()
	}
	recs, errs := fetchAll(ctx, r, ids, opts.jobs)
	if spinner != nil {
		spinner.Stop()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	failed := 0
	found := make([]*modinfo.Record, 0, len(recs))
	for i, rec := range recs {
		if errs[i] != nil {
			failed++
			printError(errOut, "%d: %s", ids[i], errors.UserMessage(errs[i]))
			continue
		}
		found = append(found, rec)
	}

	if opts.json {
		if err := writeJSON(out, found); err != nil {
			return err
		}
	} else {
		for i, rec := range found {
			if i > 0 {
				printNewline(out)
			}
			printRecord(out, rec, opts.instruments)
		}
	}

	prog.done("resolved", "modules", len(found), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(ids))
	}
	return nil
}

// fetchAll resolves ids with at most jobs requests in flight. Results and
// errors are index-aligned with ids; one failure does not stop the others.
func fetchAll(ctx context.Context, r *modarchive.Resolver, ids []uint32, jobs int) ([]*modinfo.Record, []error) {
	recs := make([]*modinfo.Record, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(max(jobs, 1))
	for i, id := range ids {
		g.Go(func() error {
			recs[i], errs[i] = r.Get(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return recs, errs
}
