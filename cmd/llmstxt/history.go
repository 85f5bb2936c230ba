package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/llmstxt/internal/config"
	"github.com/nao1215/llmstxt/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Inspect saved generation runs",
		Long: `History reads the runs saved with 'llmstxt generate --history'.

Without flags it compares the two latest runs of a site and prints the
llms.txt lines that were added or removed.

Examples:
  # Compare the latest two runs of a site
  llmstxt history https://example.com

  # List every run of a site
  llmstxt history --list https://example.com

  # Print the llms.txt stored for run 7
  llmstxt history --show 7

  # List every site with saved runs
  llmstxt history --list-sites`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List the saved runs of the given site")
	cmd.Flags().BoolP("list-sites", "L", false,
		"List every site with saved runs")
	cmd.Flags().Int64P("show", "s", 0,
		"Print the llms.txt of the run with this ID")
	cmd.Flags().String("data-dir", config.XDGDataDir(),
		"Directory holding the history database")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSites, err := cmd.Flags().GetBool("list-sites")
	if err != nil {
		return err
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var rootURL string
	if !listSites && showID == 0 {
		if len(args) == 0 {
			return errors.New("a site URL is required (use --list-sites to see saved sites)")
		}
		rootURL = args[0]
	}

	out := cmd.OutOrStdout()
	db, err := database.Open(dataDir, database.Options{EnableWAL: true})
	if errors.Is(err, database.ErrNotFound) {
		fmt.Fprintln(out, "No history found.")
		fmt.Fprintln(out, "\nUse 'llmstxt generate --history <url>' to save runs.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case listSites:
		return listSavedSites(ctx, out, db)
	case showID != 0:
		return showRun(ctx, out, db, showID)
	case list:
		return listRuns(ctx, out, db, rootURL)
	default:
		return compareLatestRuns(ctx, out, db, rootURL)
	}
}

func listSavedSites(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	sites, err := db.ListSites(ctx)
	if err != nil {
		return err
	}
	if len(sites) == 0 {
		fmt.Fprintln(out, "No saved sites found.")
		return nil
	}

	fmt.Fprintf(out, "Saved sites (%d):\n\n", len(sites))
	for _, site := range sites {
		fmt.Fprintf(out, "  • %s\n", site)
	}
	fmt.Fprintln(out, "\nUse 'llmstxt history --list <url>' to see the runs of a site.")
	return nil
}

func listRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, rootURL string) error {
	runs, err := db.ListRuns(ctx, rootURL)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(out, "No runs found for %s\n", rootURL)
		return nil
	}

	fmt.Fprintf(out, "Runs for %s (%d):\n\n", rootURL, len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-9s  %-12s  %s\n", "ID", "Date", "Pages", "Digest", "Site name")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))
	for _, r := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-9s  %-12s  %s\n",
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			fmt.Sprintf("%d/%d", r.Processed, r.Total),
			shortDigest(r.Digest),
			r.SiteName,
		)
	}
	return nil
}

func showRun(ctx context.Context, out io.Writer, db *database.HistoryDB, id int64) error {
	r, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, r.LLMsTxt)
	return nil
}

func compareLatestRuns(ctx context.Context, out io.Writer, db *database.HistoryDB, rootURL string) error {
	c, err := db.CompareLatest(ctx, rootURL)
	if errors.Is(err, database.ErrNotEnoughRuns) {
		fmt.Fprintf(out, "Not enough runs to compare for %s.\n", rootURL)
		fmt.Fprintln(out, "\nUse 'llmstxt generate --history <url>' at least twice.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Comparing run %d (%s) with run %d (%s)\n\n",
		c.Older.ID, c.Older.CreatedAt.Local().Format(time.DateTime),
		c.Newer.ID, c.Newer.CreatedAt.Local().Format(time.DateTime),
	)
	if !c.Changed {
		fmt.Fprintln(out, "No changes.")
		return nil
	}
	for _, line := range c.Removed {
		fmt.Fprintf(out, "- %s\n", line)
	}
	for _, line := range c.Added {
		fmt.Fprintf(out, "+ %s\n", line)
	}
	fmt.Fprintf(out, "\n%d added, %d removed\n", len(c.Added), len(c.Removed))
	return nil
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
