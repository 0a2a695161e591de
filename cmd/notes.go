package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-release/changelog"
	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
	"github.com/input-output-hk/catalyst-forge-release/git"
)

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Preview release notes from commit history",
	Long: `Notes renders the changelog a release would carry: commits from HEAD back
to the previous release tag, grouped by conventional commit type. Without
--tag the output is an unreleased preview over the same range.`,
	RunE: runNotes,
}

var (
	notesTag     string
	notesDir     string
	notesPattern string
	notesMax     int
)

func init() {
	rootCmd.AddCommand(notesCmd)

	notesCmd.Flags().StringVar(&notesTag, "tag", "", "release tag to render notes for")
	notesCmd.Flags().StringVar(&notesDir, "dir", ".", "repository directory")
	notesCmd.Flags().StringVar(&notesPattern, "tag-pattern", "", "glob selecting previous release tags")
	notesCmd.Flags().IntVar(&notesMax, "max-commits", 0, "cap on commits walked")
}

func runNotes(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	repo, err := git.Open(ctx, &git.Options{
		FS:      fsbilly.NewOSFS("/"),
		Workdir: absPath(notesDir),
	})
	if err != nil {
		return err
	}

	gen := changelog.New(repo,
		changelog.WithTagPattern(notesPattern),
		changelog.WithMaxCommits(notesMax),
		changelog.WithLogger(newLogger()),
	)

	notes, err := gen.Generate(ctx, notesTag)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), notes.Markdown())
	return nil
}
