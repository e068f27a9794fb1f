package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print cache statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := c.app.Stats(cmd.Context(), configPath(cmd))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
}

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List cached entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := c.app.List(cmd.Context(), configPath(cmd))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "KEY\tKIND\tSIZE\tORIGINAL\tACCESSES\tLAST ACCESS")
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
					e.Key.Short(),
					e.AssetKind,
					e.SizeBytes,
					e.OriginalSizeBytes,
					e.AccessCount,
					e.LastAccessedAt.Format(time.RFC3339),
				)
			}
			return w.Flush()
		},
	}
}
