// Package commands implements the CLI commands for the assetcache maintenance tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/assetcache/internal/adapters/config"
	"go.trai.ch/assetcache/internal/build"
	"go.trai.ch/assetcache/internal/core/domain"
)

// CLI represents the command line interface for assetcache.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Stats(ctx context.Context, configPath string) (domain.Statistics, error)
	List(ctx context.Context, configPath string) ([]domain.CacheEntry, error)
	Get(ctx context.Context, configPath, assetKind string, request domain.Value) (domain.Value, bool, error)
	Put(ctx context.Context, configPath, assetKind string, request, artifact domain.Value) (domain.Fingerprint, error)
	Remove(ctx context.Context, configPath, assetKind string, request domain.Value) error
	Clear(ctx context.Context, configPath string) error
	Sweep(ctx context.Context, configPath string) error
	Preload(ctx context.Context, configPath string, topN int) (int, error)
	WriteMetrics(ctx context.Context, configPath string, w io.Writer) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "assetcache",
		Short:         "Inspect and maintain a content-addressable asset cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultFilename, "Path to the cache configuration file")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newStatsCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newGetCmd())
	rootCmd.AddCommand(c.newPutCmd())
	rootCmd.AddCommand(c.newRemoveCmd())
	rootCmd.AddCommand(c.newClearCmd())
	rootCmd.AddCommand(c.newSweepCmd())
	rootCmd.AddCommand(c.newPreloadCmd())
	rootCmd.AddCommand(c.newMetricsCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}
