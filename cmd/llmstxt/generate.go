package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nao1215/llmstxt/internal/config"
	"github.com/nao1215/llmstxt/internal/crawler"
	"github.com/nao1215/llmstxt/internal/database"
	"github.com/nao1215/llmstxt/internal/firecrawl"
	"github.com/nao1215/llmstxt/internal/llm"
	applog "github.com/nao1215/llmstxt/internal/log"
	"github.com/nao1215/llmstxt/internal/model"
	"github.com/nao1215/llmstxt/internal/netclient"
	"github.com/nao1215/llmstxt/internal/pipeline"
	"github.com/nao1215/llmstxt/internal/report"
	"github.com/nao1215/llmstxt/internal/segment"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Generate llms.txt for a website",
		Long: `Generate collects up to --max-pages URLs of the site, drops utility pages
(index, privacy, login, search, ...), fetches the rest, asks the LLM for a
title and description of each page and for a name and summary of the site,
and writes the grouped result as llms.txt.

Pages that cannot be fetched are skipped and summaries that cannot be
generated fall back to placeholder text, so a run always produces a file.

Examples:
  # Write ./llms.txt for a site
  llmstxt generate https://example.com

  # Collect 40 URLs and also write llms-full.txt
  llmstxt generate -p 40 --full -o public/llms.txt https://example.com

  # Print to stdout
  llmstxt generate -o - https://example.com

  # Crawl the site directly instead of using Firecrawl
  llmstxt generate --backend native https://example.com

  # Keep a history of runs to compare later
  llmstxt generate --history https://example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGenerateCmd,
	}

	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		fmt.Sprintf("Number of URLs to collect (%d-%d)", config.MinMaxPages, config.MaxMaxPages))
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Output file for llms.txt (\"-\" for stdout)")
	cmd.Flags().Bool("full", false,
		"Also write llms-full.txt with the content of every page")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of pages fetched concurrently")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each crawl or scrape request")
	cmd.Flags().Duration("llm-timeout", config.DefaultLLMTimeout,
		"Timeout for each LLM call")
	cmd.Flags().StringP("model", "m", config.DefaultModel,
		"Chat model used for summaries")
	cmd.Flags().String("backend", config.BackendFirecrawl,
		"How pages are collected and fetched: firecrawl or native")
	cmd.Flags().String("firecrawl-url", config.DefaultFirecrawlURL,
		"Firecrawl API base URL")
	cmd.Flags().String("openai-url", config.DefaultOpenAIURL,
		"OpenAI-compatible API base URL")
	cmd.Flags().String("proxy", "",
		"Proxy for all outbound requests (socks5://, http:// or https://)")
	cmd.Flags().Bool("history", false,
		"Save the run to the history database")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .llmstxt.yaml in current or home directory)")

	return cmd
}

func runGenerateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := applog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Status lines must not mix with a document printed to stdout.
	status := cmd.OutOrStdout()
	if cfg.OutputPath == report.StdoutPath {
		status = cmd.ErrOrStderr()
	}
	return runGenerate(ctx, cfg, cmd.OutOrStdout(), status, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig layers defaults, the config file, the environment and the
// flags the user set, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	if len(args) > 0 {
		cfg.RootURL = args[0]
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if configPath := config.FindConfigFile(cfg.ConfigFilePath); configPath != "" {
		f, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(f)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	cfg.LoadEnv()

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies the flags the user set explicitly onto cfg, so flag
// defaults never mask values from the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputPath, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("full") {
		if cfg.Full, err = flags.GetBool("full"); err != nil {
			return err
		}
	}
	if flags.Changed("workers") {
		if cfg.Workers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("llm-timeout") {
		if cfg.LLMTimeout, err = flags.GetDuration("llm-timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("model") {
		if cfg.Model, err = flags.GetString("model"); err != nil {
			return err
		}
	}
	if flags.Changed("backend") {
		if cfg.Backend, err = flags.GetString("backend"); err != nil {
			return err
		}
	}
	if flags.Changed("firecrawl-url") {
		if cfg.FirecrawlURL, err = flags.GetString("firecrawl-url"); err != nil {
			return err
		}
	}
	if flags.Changed("openai-url") {
		if cfg.OpenAIURL, err = flags.GetString("openai-url"); err != nil {
			return err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyURL, err = flags.GetString("proxy"); err != nil {
			return err
		}
	}
	if flags.Changed("history") {
		if cfg.SaveHistory, err = flags.GetBool("history"); err != nil {
			return err
		}
	}
	return nil
}

// runGenerate executes one generation run for a validated cfg. Documents
// go to stdout or files; status messages go to status.
func runGenerate(ctx context.Context, cfg *config.Config, stdout, status io.Writer, logger *slog.Logger) error {
	logger.Info("starting generation",
		"url", cfg.RootURL,
		"maxPages", cfg.MaxPages,
		"backend", cfg.Backend,
		"workers", cfg.Workers,
		"history", cfg.SaveHistory,
	)

	components, err := buildComponents(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if cfg.SaveHistory {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer db.Close()
		components.History = db
		logger.Info("history database opened", "path", db.Path())
	}

	p := pipeline.DefaultPipeline(components,
		[]pipeline.Option{pipeline.WithLogger(logger)},
		pipeline.WithPipelineWorkers(cfg.Workers),
		pipeline.WithPipelineFull(cfg.Full),
	)
	logger.Debug("pipeline ready", "steps", p.StepNames())

	run := model.NewRun(cfg.RootURL, cfg.MaxPages)
	run.Result.StartedAt = time.Now()
	if err := p.Execute(ctx, run); err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("generation cancelled")
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	w := report.NewWriter(cfg.OutputPath, stdout)
	path, err := w.WriteLLMsTxt(run.Result.LLMsTxt)
	if err != nil {
		return err
	}
	fullPath := ""
	if cfg.Full {
		if fullPath, err = w.WriteLLMsFullTxt(run.Result.LLMsFullTxt); err != nil {
			return err
		}
	}

	fmt.Fprintf(status, "Success! Processed %d pages.\n", run.Result.ProcessedCount)
	if !w.IsStdout() {
		fmt.Fprintf(status, "Wrote %s (%d of %d URLs, %s)\n",
			path, run.Result.ProcessedCount, run.Result.TotalCount, run.Result.Elapsed.Round(time.Millisecond))
		if fullPath != "" {
			fmt.Fprintf(status, "Wrote %s\n", fullPath)
		}
	}
	return nil
}

// buildComponents wires the services for cfg.Backend. Every outbound
// request shares the proxy route; the LLM client gets its own timeout.
func buildComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (pipeline.Components, error) {
	nc, err := netclient.NewClient(cfg.ProxyURL, cfg.Timeout, netclient.WithUserAgent(cfg.UserAgent))
	if err != nil {
		return pipeline.Components{}, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	if cfg.ProxyURL != "" {
		if status := nc.CheckProxy(ctx); status != netclient.ProxyStatusOK {
			return pipeline.Components{}, fmt.Errorf("proxy check failed: %w (is the proxy running at %s?)",
				status.Err(), cfg.ProxyURL)
		}
		logger.Info("proxy connection verified", "proxy", cfg.ProxyURL)
	}

	llmNet, err := netclient.NewClient(cfg.ProxyURL, cfg.LLMTimeout)
	if err != nil {
		return pipeline.Components{}, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	summarizer := llm.NewSummarizer(
		llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIURL, llmNet.NewHTTPClient()),
		llm.WithModel(cfg.Model),
		llm.WithTimeout(cfg.LLMTimeout),
	)

	c := pipeline.Components{
		PageSummarizer: summarizer,
		SiteSummarizer: summarizer,
		Denylist:       segment.NewDenylist(cfg.ExtraDenylist...),
	}

	switch cfg.Backend {
	case config.BackendNative:
		site := cfg.SiteConfig(cfg.RootURL)
		httpClient := nc.HTTPClientWithConfig(cfg.RootHost(), site.Cookie, site.Headers)
		c.Collector = crawler.NewSpider(httpClient,
			crawler.WithRate(cfg.CrawlRate),
			crawler.WithMaxDepth(cfg.MaxDepth),
			crawler.WithIgnorePatterns(cfg.IgnorePatterns...),
			crawler.WithSpiderMaxBodySize(cfg.MaxBodySize),
			crawler.WithSpiderLogger(logger),
		)
		c.Fetcher = crawler.NewScraper(httpClient,
			crawler.WithScraperMaxBodySize(cfg.MaxBodySize),
		)
	default:
		fc := firecrawl.NewClient(cfg.FirecrawlURL, cfg.FirecrawlAPIKey, nc)
		c.Collector = fc
		c.Fetcher = fc
	}
	return c, nil
}
