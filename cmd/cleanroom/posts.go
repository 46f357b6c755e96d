package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleanroomlabs/website/content"
)

var (
	flagPostsJSON bool
	flagPostsTag  string
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List blog posts, newest first",
	Args:  cobra.NoArgs,
	RunE:  runPosts,
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List every tag with its post count",
	Args:  cobra.NoArgs,
	RunE:  runTags,
}

func init() {
	postsCmd.Flags().BoolVar(&flagPostsJSON, "json", false, "Print the post records as JSON")
	postsCmd.Flags().StringVar(&flagPostsTag, "tag", "", "Only posts with this tag")
	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(tagsCmd)
}

func loadSnapshot() (*content.Snapshot, error) {
	return content.NewLoader(os.DirFS(siteCfg.ContentDir), ".").Snapshot()
}

func runPosts(cmd *cobra.Command, _ []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	posts := snap.PostsTagged(flagPostsTag)

	if flagPostsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(posts)
	}

	if len(posts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No posts.")
		return nil
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSLUG\tTITLE\tTAGS")
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Date, p.Slug, p.Title, strings.Join(p.Tags, ","))
	}
	return w.Flush()
}

func runTags(cmd *cobra.Command, _ []string) error {
	snap, err := loadSnapshot()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, tag := range snap.Tags {
		fmt.Fprintf(w, "%s\t%d\n", tag, len(snap.PostsTagged(tag)))
	}
	return w.Flush()
}
