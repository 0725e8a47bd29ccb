package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackermeta/pkg/anchor"
)

func (c *CLI) anchorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "anchors",
		Short: "Show the HTML line anchors in effect",
		Long: `Show the content-block line offsets used to read module pages, after
applying the line-overrides file. Nominated pages shift the info and
download lines by ` + fmt.Sprint(anchor.NominatedDelta) + `.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := c.settings()
			if err != nil {
				return err
			}
			path, _ := cfg.OverridePath()
			set, err := cfg.AnchorSet()
			if err != nil {
				printWarning(out, "%s", err)
			}

			printKeyValue(out, "Overrides", path)
			for _, f := range anchor.Fields {
				line, _ := set.Lookup(f, false)
				nominated, _ := set.Lookup(f, true)
				value := StyleNumber.Render(fmt.Sprint(line))
				if nominated != line {
					value += StyleDim.Render(fmt.Sprintf(" (nominated %d)", nominated))
				}
				printKeyValue(out, f.String(), value)
			}
			if set.Equal(anchor.Defaults()) {
				printDetail(out, "compiled defaults")
			}
			return nil
		},
	}
}
