package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flagDocsCheck bool

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show each product's documentation link and whether the bundle has it",
	Args:  cobra.NoArgs,
	RunE:  runDocs,
}

func init() {
	docsCmd.Flags().BoolVar(&flagDocsCheck, "check", false, "Fail if a product links to a missing bundle page")
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, _ []string) error {
	bundle := newApp().Docs()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tDOCS\tSTATUS\tTITLE")
	for _, e := range bundle.Resolve(siteCfg.Products) {
		status := "ok"
		if !e.Available {
			status = "missing"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, emptyAsDash(e.DocsURL), status, e.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if flagDocsCheck {
		if missing := bundle.Missing(siteCfg.Products); len(missing) > 0 {
			return fmt.Errorf("%d product(s) link to missing documentation", len(missing))
		}
	}
	return nil
}

func emptyAsDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
