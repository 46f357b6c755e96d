package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	website "github.com/cleanroomlabs/website"
	"github.com/cleanroomlabs/website/content"
	"github.com/cleanroomlabs/website/scaffold"
)

var (
	flagNewTags    string
	flagNewAuthor  string
	flagNewDate    string
	flagNewExcerpt string
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a blog post from the scaffold template",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

func init() {
	newCmd.Flags().StringVar(&flagNewTags, "tags", "", "Comma-separated tags")
	newCmd.Flags().StringVar(&flagNewAuthor, "author", "", "Post author")
	newCmd.Flags().StringVar(&flagNewDate, "date", "", "Publication date, YYYY-MM-DD (default today)")
	newCmd.Flags().StringVar(&flagNewExcerpt, "excerpt", "", "Short summary shown on the blog index")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	title := args[0]
	slug := website.Slugify(title)
	if !content.ValidSlug(slug) {
		return fmt.Errorf("cannot derive a slug from %q", title)
	}

	date := flagNewDate
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
	}

	tags := website.SplitTags(flagNewTags)
	for _, t := range tags {
		if strings.Contains(t, "/") {
			return fmt.Errorf("invalid tag %q: tags cannot contain a slash", t)
		}
	}

	var buf bytes.Buffer
	err := scaffold.WritePost(&buf, scaffold.Post{
		Title:   title,
		Date:    date,
		Author:  flagNewAuthor,
		Tags:    tags,
		Excerpt: flagNewExcerpt,
	})
	if err != nil {
		return fmt.Errorf("render scaffold: %w", err)
	}

	if err := os.MkdirAll(siteCfg.ContentDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(siteCfg.ContentDir, slug+".mdx")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("post %q already exists", path)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
