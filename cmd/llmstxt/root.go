package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for llmstxt.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "llmstxt",
		Short: "Generate llms.txt files for websites",
		Long: `llmstxt crawls a website, summarizes every page with an LLM and writes
an llms.txt file: the site name and summary followed by titled, described
links grouped by site section.

URLs are collected and pages scraped through the Firecrawl API by default.
Use --backend native to crawl the site directly instead.

Credentials are read from the environment (or a .env file):
  OPENAI_API_KEY      required
  FIRECRAWL_API_KEY   required for the firecrawl backend`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
