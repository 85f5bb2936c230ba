package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nao1215/llmstxt/internal/model"
)

var errFake = errors.New("fake failure")

// fakeCollector returns a fixed list of URLs or an error.
type fakeCollector struct {
	urls      []string
	err       error
	gotRoot   string
	gotLimit  int
	callCount int
}

func (f *fakeCollector) Collect(_ context.Context, rootURL string, limit int) ([]string, error) {
	f.callCount++
	f.gotRoot = rootURL
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.urls, nil
}

// fakeFetcher serves content from a map. URLs missing from the map fail.
// delays lets tests finish fetches out of order.
type fakeFetcher struct {
	content map[string]string
	delays  map[string]time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	mu      sync.Mutex
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	if d := f.delays[pageURL]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	f.fetched = append(f.fetched, pageURL)
	f.mu.Unlock()

	content, ok := f.content[pageURL]
	if !ok {
		return nil, errFake
	}
	return &model.Page{URL: pageURL, Markdown: content}, nil
}

// fakePageSummarizer answers from a map and falls back for the rest.
type fakePageSummarizer struct {
	titles map[string][2]string
	calls  []string
}

func (f *fakePageSummarizer) SummarizePage(_ context.Context, pageURL, _ string) (model.PageSummary, error) {
	f.calls = append(f.calls, pageURL)
	if tt, ok := f.titles[pageURL]; ok {
		return model.NewPageSummary(pageURL, tt[0], tt[1]), nil
	}
	return model.FallbackPageSummary(pageURL), errFake
}

// fakeSiteSummarizer returns a fixed summary, or the fallback with an error.
type fakeSiteSummarizer struct {
	site        *model.SiteSummary
	gotContents []string
	called      bool
}

func (f *fakeSiteSummarizer) SummarizeSite(_ context.Context, contents []string) (model.SiteSummary, error) {
	f.called = true
	f.gotContents = contents
	if f.site == nil {
		return model.FallbackSiteSummaryValue(), errFake
	}
	return *f.site, nil
}

// fakeHistory records saved results.
type fakeHistory struct {
	saved []model.Result
	err   error
}

func (f *fakeHistory) SaveRun(_ context.Context, result *model.Result) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.saved = append(f.saved, *result)
	return int64(len(f.saved)), nil
}
