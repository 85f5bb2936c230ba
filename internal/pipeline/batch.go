package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/llmstxt/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages fetched at the same time.
const DefaultConcurrency = 4

// BatchProcessor fetches many URLs concurrently with a bounded number of
// goroutines.
type BatchProcessor struct {
	fetcher     Fetcher
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger for per-URL failures.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent fetches.
// Values below one are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor returns a BatchProcessor that fetches with fetcher.
func NewBatchProcessor(fetcher Fetcher, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		fetcher:     fetcher,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// Concurrency returns the configured pool width.
func (bp *BatchProcessor) Concurrency() int {
	return bp.concurrency
}

// Process fetches every URL and returns the pages that have content, in
// the order of urls. A failed or empty fetch drops that URL and does not
// affect the others.
//
// The error is non-nil only when ctx was cancelled; the pages fetched
// before that are still returned.
func (bp *BatchProcessor) Process(ctx context.Context, urls []string) ([]*model.Page, error) {
	bp.logger.Info("starting batch fetch",
		"total_urls", len(urls),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	// One slot per URL keeps crawl order. Each goroutine writes only its
	// own slot, so no lock is needed.
	slots := make([]*model.Page, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, pageURL := range urls {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			page, err := bp.fetcher.Fetch(ctx, pageURL)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				bp.logger.Warn("failed to fetch page",
					"url", pageURL,
					"error", err,
				)
				return nil
			}
			if !page.HasContent() {
				bp.logger.Debug("skipping page without content", "url", pageURL)
				return nil
			}

			if page.URL == "" {
				page.URL = pageURL
			}
			page.Index = i
			slots[i] = page
			return nil
		})
	}

	err := g.Wait()

	pages := make([]*model.Page, 0, len(slots))
	for _, p := range slots {
		if p != nil {
			pages = append(pages, p)
		}
	}

	bp.logger.Info("batch fetch complete",
		"total_urls", len(urls),
		"fetched", len(pages),
		"elapsed", time.Since(startTime),
	)
	return pages, err
}
