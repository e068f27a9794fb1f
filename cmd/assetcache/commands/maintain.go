package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clear(cmd.Context(), configPath(cmd))
		},
	}
}

func (c *CLI) newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Evict expired entries and shrink the cache to its size budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Sweep(cmd.Context(), configPath(cmd))
		},
	}
}

func (c *CLI) newPreloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preload",
		Short: "Decode the most accessed entries to verify they load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			top, _ := cmd.Flags().GetInt("top")
			loaded, err := c.app.Preload(cmd.Context(), configPath(cmd), top)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "preloaded %d entries\n", loaded)
			return nil
		},
	}
	cmd.Flags().IntP("top", "n", 10, "Number of most accessed entries to load")
	return cmd
}

func (c *CLI) newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print cache metrics in the Prometheus text format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.WriteMetrics(cmd.Context(), configPath(cmd), cmd.OutOrStdout())
		},
	}
}
