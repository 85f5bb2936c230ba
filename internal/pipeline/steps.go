package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/llmstxt/internal/model"
	"github.com/nao1215/llmstxt/internal/report"
	"github.com/nao1215/llmstxt/internal/segment"
)

// Collector enumerates the URLs of a site.
type Collector interface {
	Collect(ctx context.Context, rootURL string, limit int) ([]string, error)
}

// Fetcher retrieves the main content of one URL as Markdown.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*model.Page, error)
}

// PageSummarizer generates a title and description for one page. It
// returns a usable summary even when it also returns an error.
type PageSummarizer interface {
	SummarizePage(ctx context.Context, pageURL, content string) (model.PageSummary, error)
}

// SiteSummarizer generates a name and summary for the whole site. It
// returns a usable summary even when it also returns an error.
type SiteSummarizer interface {
	SummarizeSite(ctx context.Context, contents []string) (model.SiteSummary, error)
}

// HistoryStore persists finished runs.
type HistoryStore interface {
	SaveRun(ctx context.Context, result *model.Result) (int64, error)
}

// stepBase carries what every step shares.
type stepBase struct {
	logger *slog.Logger
}

// StepOption configures any step.
type StepOption func(*stepBase)

// WithStepLogger sets the logger of a step.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(b *stepBase) {
		b.logger = logger
	}
}

func newStepBase(opts []StepOption) stepBase {
	b := stepBase{}
	for _, opt := range opts {
		opt(&b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// CollectStep enumerates the site's URLs into run.URLs.
type CollectStep struct {
	stepBase
	collector Collector
}

// NewCollectStep creates a CollectStep.
func NewCollectStep(collector Collector, opts ...StepOption) *CollectStep {
	return &CollectStep{stepBase: newStepBase(opts), collector: collector}
}

// Name implements Step.
func (s *CollectStep) Name() string { return "collect" }

// Do implements Step. A collection failure leaves the run with no URLs.
func (s *CollectStep) Do(ctx context.Context, run *model.Run) error {
	urls, err := s.collector.Collect(ctx, run.RootURL, run.Limit)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Error("failed to collect URLs",
			"url", run.RootURL,
			"error", err,
		)
		run.URLs = nil
		return nil
	}

	run.URLs = urls
	s.logger.Info("collected URLs", "url", run.RootURL, "count", len(urls))
	return nil
}

// FilterStep drops URLs with a denylisted path segment.
type FilterStep struct {
	stepBase
	denylist *segment.Denylist
}

// NewFilterStep creates a FilterStep using denylist.
func NewFilterStep(denylist *segment.Denylist, opts ...StepOption) *FilterStep {
	return &FilterStep{stepBase: newStepBase(opts), denylist: denylist}
}

// Name implements Step.
func (s *FilterStep) Name() string { return "filter" }

// Do implements Step. It sets run.Filtered and the result's total count.
func (s *FilterStep) Do(_ context.Context, run *model.Run) error {
	run.Filtered = s.denylist.Filter(run.URLs)
	run.Result.TotalCount = len(run.Filtered)

	s.logger.Debug("filtered URLs",
		"kept", len(run.Filtered),
		"excluded", len(run.URLs)-len(run.Filtered),
	)
	return nil
}

// FetchStep fetches the filtered URLs through a BatchProcessor.
type FetchStep struct {
	stepBase
	processor *BatchProcessor
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(processor *BatchProcessor, opts ...StepOption) *FetchStep {
	return &FetchStep{stepBase: newStepBase(opts), processor: processor}
}

// Name implements Step.
func (s *FetchStep) Name() string { return "fetch" }

// Do implements Step. It sets run.Pages and the result's processed count.
func (s *FetchStep) Do(ctx context.Context, run *model.Run) error {
	pages, err := s.processor.Process(ctx, run.Filtered)
	run.Pages = pages
	run.Result.ProcessedCount = len(pages)
	return err
}

// SummarizePagesStep summarizes each fetched page in crawl order and
// files the result under its section.
type SummarizePagesStep struct {
	stepBase
	summarizer PageSummarizer
	denylist   *segment.Denylist
}

// NewSummarizePagesStep creates a SummarizePagesStep. The denylist is the
// same one the FilterStep uses.
func NewSummarizePagesStep(summarizer PageSummarizer, denylist *segment.Denylist, opts ...StepOption) *SummarizePagesStep {
	return &SummarizePagesStep{
		stepBase:   newStepBase(opts),
		summarizer: summarizer,
		denylist:   denylist,
	}
}

// Name implements Step.
func (s *SummarizePagesStep) Name() string { return "summarize-pages" }

// Do implements Step.
func (s *SummarizePagesStep) Do(ctx context.Context, run *model.Run) error {
	run.Summaries = make([]model.PageSummary, 0, len(run.Pages))

	for _, page := range run.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}

		summary, err := s.summarizer.SummarizePage(ctx, page.URL, page.Markdown)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("page summary fell back",
				"url", page.URL,
				"error", err,
			)
		}

		section := s.denylist.Classify(page.URL)
		run.Summaries = append(run.Summaries, summary)
		run.Sections.Add(section, summary.Entry())

		s.logger.Debug("summarized page",
			"url", page.URL,
			"section", section,
			"title", summary.Title,
		)
	}
	return nil
}

// SummarizeSiteStep summarizes the whole site from the fetched contents.
type SummarizeSiteStep struct {
	stepBase
	summarizer SiteSummarizer
}

// NewSummarizeSiteStep creates a SummarizeSiteStep.
func NewSummarizeSiteStep(summarizer SiteSummarizer, opts ...StepOption) *SummarizeSiteStep {
	return &SummarizeSiteStep{stepBase: newStepBase(opts), summarizer: summarizer}
}

// Name implements Step.
func (s *SummarizeSiteStep) Name() string { return "summarize-site" }

// Do implements Step. It runs even when no page was fetched.
func (s *SummarizeSiteStep) Do(ctx context.Context, run *model.Run) error {
	site, err := s.summarizer.SummarizeSite(ctx, run.Contents())
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("site summary fell back",
			"url", run.RootURL,
			"error", err,
		)
	}

	run.Site = site
	run.Result.SiteName = site.Name
	return nil
}

// RenderStep renders llms.txt, and llms-full.txt when enabled, into
// run.Result.
type RenderStep struct {
	stepBase
	full bool
}

// NewRenderStep creates a RenderStep.
func NewRenderStep(full bool, opts ...StepOption) *RenderStep {
	return &RenderStep{stepBase: newStepBase(opts), full: full}
}

// Name implements Step.
func (s *RenderStep) Name() string { return "render" }

// Do implements Step.
func (s *RenderStep) Do(_ context.Context, run *model.Run) error {
	run.Result.LLMsTxt = report.RenderLLMsTxt(run.Site, &run.Sections)
	if s.full {
		run.Result.LLMsFullTxt = report.RenderLLMsFullTxt(run.Site, run.Pages, run.Summaries)
	}

	s.logger.Debug("rendered documents",
		"sections", len(run.Sections.Names()),
		"entries", run.Sections.Len(),
		"full", s.full,
	)
	return nil
}

// SaveHistoryStep appends the finished result to the run history.
type SaveHistoryStep struct {
	stepBase
	store HistoryStore
}

// NewSaveHistoryStep creates a SaveHistoryStep.
func NewSaveHistoryStep(store HistoryStore, opts ...StepOption) *SaveHistoryStep {
	return &SaveHistoryStep{stepBase: newStepBase(opts), store: store}
}

// Name implements Step.
func (s *SaveHistoryStep) Name() string { return "save-history" }

// Do implements Step. A failed save is logged; the generated documents
// are still written.
func (s *SaveHistoryStep) Do(ctx context.Context, run *model.Run) error {
	run.Result.Elapsed = time.Since(run.Result.StartedAt)

	id, err := s.store.SaveRun(ctx, &run.Result)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("failed to save run history",
			"url", run.RootURL,
			"error", err,
		)
		return nil
	}

	s.logger.Info("saved run history", "url", run.RootURL, "id", id)
	return nil
}

// Components are the services a default pipeline is built from.
type Components struct {
	Collector      Collector
	Fetcher        Fetcher
	PageSummarizer PageSummarizer
	SiteSummarizer SiteSummarizer
	Denylist       *segment.Denylist

	// History is optional. When nil no history is saved.
	History HistoryStore
}

// DefaultPipelineConfig holds the tunables of the default pipeline.
type DefaultPipelineConfig struct {
	// Workers is the number of concurrent page fetches.
	Workers int

	// Full also renders llms-full.txt.
	Full bool
}

// DefaultPipelineOption configures a DefaultPipelineConfig.
type DefaultPipelineOption func(*DefaultPipelineConfig)

// WithPipelineWorkers sets the number of concurrent page fetches.
func WithPipelineWorkers(n int) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Workers = n
	}
}

// WithPipelineFull enables llms-full.txt rendering.
func WithPipelineFull(full bool) DefaultPipelineOption {
	return func(c *DefaultPipelineConfig) {
		c.Full = full
	}
}

// DefaultPipeline creates the standard generation pipeline from c.
//
// The first variadic parameter accepts pipeline options (WithLogger, etc).
// The second accepts pipeline config options (WithPipelineWorkers, etc).
func DefaultPipeline(c Components, pipelineOpts []Option, configOpts ...DefaultPipelineOption) *Pipeline {
	p := New(pipelineOpts...)

	cfg := &DefaultPipelineConfig{
		Workers: DefaultConcurrency,
	}
	for _, opt := range configOpts {
		opt(cfg)
	}

	denylist := c.Denylist
	if denylist == nil {
		denylist = segment.NewDenylist()
	}
	logOpt := WithStepLogger(p.logger)

	processor := NewBatchProcessor(c.Fetcher,
		WithConcurrency(cfg.Workers),
		WithBatchLogger(p.logger),
	)

	p.AddSteps(
		NewCollectStep(c.Collector, logOpt),
		NewFilterStep(denylist, logOpt),
		NewFetchStep(processor, logOpt),
		NewSummarizePagesStep(c.PageSummarizer, denylist, logOpt),
		NewSummarizeSiteStep(c.SiteSummarizer, logOpt),
		NewRenderStep(cfg.Full, logOpt),
	)
	if c.History != nil {
		p.AddStep(NewSaveHistoryStep(c.History, logOpt))
	}

	return p
}
