package cli

import (
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackermeta/pkg/errors"
	"github.com/matzehuels/trackermeta/pkg/integrations/modarchive"
)

func (c *CLI) downloadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <id|filename>",
		Short: "Download a module file",
		Long: `Download a module by archive ID or filename.

A filename is resolved through search first. The file is written to the
module's filename in the current directory unless -o names a file or an
existing directory.`,
		Example: `  trackermeta download 51772
  trackermeta download noway.s3m -o ~/mods`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := c.newResolver(cmd.Context())
			if err != nil {
				return err
			}
			return c.runDownload(cmd, r, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory")

	return cmd
}

func (c *CLI) runDownload(cmd *cobra.Command, r *modarchive.Resolver, target, output string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	id, name, err := resolveTarget(cmd, r, target)
	if err != nil {
		return err
	}

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Downloading module...")
	spinner.Start()
	data, err := r.Download(ctx, id)
	spinner.Stop()
	if err != nil {
		return err
	}

	if name == "" && !isFile(output) {
		rec, err := r.Get(ctx, id)
		if err != nil {
			return err
		}
		name = rec.Filename
	}
	path := outputPath(output, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	printSuccess(out, "Downloaded %s", humanize.Bytes(uint64(len(data))))
	printFile(out, path)
	return nil
}

// resolveTarget turns an ID or filename argument into a module ID. The
// filename is returned when a search was needed.
func resolveTarget(cmd *cobra.Command, r *modarchive.Resolver, target string) (uint32, string, error) {
	if id, ok := parseID(target); ok {
		return id, "", nil
	}
	candidates, err := r.ResolveFilename(cmd.Context(), target)
	if err != nil {
		return 0, "", err
	}
	best, ok := bestMatch(target, candidates)
	if !ok {
		return 0, "", errors.New(errors.ErrCodeNotFound, "no module named %q", target)
	}
	return best.ID, best.Filename, nil
}

// isFile reports whether output names a file rather than a directory.
func isFile(output string) bool {
	if output == "" {
		return false
	}
	fi, err := os.Stat(output)
	return err != nil || !fi.IsDir()
}

func outputPath(output, name string) string {
	name = filepath.Base(name)
	switch {
	case output == "":
		return name
	case isFile(output):
		return output
	default:
		return filepath.Join(output, name)
	}
}
