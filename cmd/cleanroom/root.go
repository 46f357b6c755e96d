package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	website "github.com/cleanroomlabs/website"
)

var (
	flagConfig  string
	flagVerbose bool

	// siteCfg and logger are set before any subcommand runs.
	siteCfg website.SiteConfig
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "cleanroom",
	Short:        "Build and serve the Cleanroom Labs website",
	SilenceUsage: true,
	Long: `cleanroom renders the Cleanroom Labs site: the product pages, the
filterable blog read from content/blog and the mounted documentation bundle.

Run "cleanroom serve" while writing and "cleanroom build" to export the
static site.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

		cfg, err := website.LoadConfig(flagConfig)
		if err != nil {
			return err
		}
		siteCfg = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "site.yaml", "Site config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *website.App {
	return website.New(siteCfg, website.WithLogger(logger))
}
