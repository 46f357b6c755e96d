package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	website "github.com/cleanroomlabs/website"
)

var flagBuildOut string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the whole site as static files",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&flagBuildOut, "out", "", "Output directory (default from config, \"out\")")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if flagBuildOut != "" {
		siteCfg.OutDir = flagBuildOut
	}
	stats, err := website.NewExporter(newApp()).Build(cmd.Context())
	if errors.Is(err, website.ErrBuildLocked) {
		return fmt.Errorf("%w (lock: %s.lock)", err, siteCfg.OutDir)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages into %s (%d written, %d unchanged, %d removed)\n",
		stats.Pages, siteCfg.OutDir, stats.Written, stats.Unchanged, stats.Removed)
	return nil
}
