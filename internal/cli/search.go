package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackermeta/pkg/integrations/modarchive"
	"github.com/matzehuels/trackermeta/pkg/modinfo"
)

type searchOptions struct {
	json bool
	pick bool
}

func (c *CLI) searchCommand() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <filename>",
		Short: "Search modules by filename",
		Long: `Search the archive by filename and list matching module IDs.

With --pick an interactive list opens and the chosen module's metadata is
printed.`,
		Example: `  trackermeta search noway
  trackermeta search "space debris" --pick`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			r, err := c.newResolver(cmd.Context())
			if err != nil {
				return err
			}
			return c.runSearch(cmd, r, query, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print candidates as JSON")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose a result interactively")

	return cmd
}

func (c *CLI) runSearch(cmd *cobra.Command, r *modarchive.Resolver, query string, opts searchOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	candidates, err := r.ResolveFilename(ctx, query)
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(out, candidates)
	}
	if len(candidates) == 0 {
		printInfo(out, "No modules match %q", query)
		return nil
	}
	if !opts.pick {
		fmt.Fprintln(out, candidateTable(candidateRows(candidates), nil).Render())
		printDetail(out, "%d result(s)", len(candidates))
		return nil
	}

	chosen, err := pickCandidate(cmd, query, candidates)
	if err != nil || chosen == nil {
		return err
	}
	rec, err := r.Get(ctx, chosen.ID)
	if err != nil {
		return err
	}
	printRecord(out, rec, false)
	return nil
}

// pickCandidate runs the interactive list. A nil candidate means the user
// quit without choosing.
func pickCandidate(cmd *cobra.Command, query string, candidates []modinfo.Candidate) (*modinfo.Candidate, error) {
	p := tea.NewProgram(NewCandidateListModel(query, candidates),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
	)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(CandidateListModel)
	if !ok {
		return nil, nil
	}
	return m.Selected, nil
}
