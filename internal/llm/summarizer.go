package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nao1215/llmstxt/internal/model"
)

// Summarizer produces page and site summaries.
type Summarizer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithModel sets the chat model. The default is gpt-4o-mini.
func WithModel(name string) Option {
	return func(s *Summarizer) {
		if name != "" {
			s.model = name
		}
	}
}

// WithTimeout bounds each completion call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		s.timeout = d
	}
}

// NewOpenAIClient returns a go-openai client for the API at baseURL that
// sends requests with httpClient. An empty baseURL keeps the library
// default.
func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(cfg)
}

// NewSummarizer returns a Summarizer that uses client.
func NewSummarizer(client *openai.Client, opts ...Option) *Summarizer {
	s := &Summarizer{client: client, model: openai.GPT4oMini}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type pageReply struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type siteReply struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// SummarizePage returns a title and description for the page at pageURL.
// Only the first PageContentLimit characters of content are sent. The
// returned summary is always usable; a non-nil error explains why some or
// all of it is a fallback.
func (s *Summarizer) SummarizePage(ctx context.Context, pageURL, content string) (model.PageSummary, error) {
	user := pageUserMessage(pageURL, model.Truncate(content, PageContentLimit))

	var reply pageReply
	if err := s.completeJSON(ctx, pageSystemPrompt, user, pageMaxTokens, &reply); err != nil {
		return model.FallbackPageSummary(pageURL), err
	}

	summary := model.NewPageSummary(pageURL, strings.TrimSpace(reply.Title), strings.TrimSpace(reply.Description))
	if summary.Fallback {
		return summary, ErrIncompleteReply
	}
	return summary, nil
}

// SummarizeSite returns a name and summary for the whole site. The
// contents are joined with SiteContentSeparator and cut to
// SiteContentLimit characters. Error semantics match SummarizePage.
func (s *Summarizer) SummarizeSite(ctx context.Context, contents []string) (model.SiteSummary, error) {
	combined := model.Truncate(strings.Join(contents, SiteContentSeparator), SiteContentLimit)

	var reply siteReply
	if err := s.completeJSON(ctx, siteSystemPrompt, siteUserMessage(combined), siteMaxTokens, &reply); err != nil {
		return model.FallbackSiteSummaryValue(), err
	}

	summary := model.NewSiteSummary(strings.TrimSpace(reply.Name), strings.TrimSpace(reply.Summary))
	if summary.Fallback {
		return summary, ErrIncompleteReply
	}
	return summary, nil
}

func (s *Summarizer) completeJSON(ctx context.Context, system, user string, maxTokens int, out any) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ErrNoChoices
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return fmt.Errorf("failed to parse completion reply: %w", err)
	}
	return nil
}
