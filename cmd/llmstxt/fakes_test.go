package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

const testSiteURL = "https://example.com"

// newFakeFirecrawl serves /v1/map and /v1/scrape for testSiteURL. The blog
// page fails to scrape.
func newFakeFirecrawl(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/map", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"links": []string{
				testSiteURL + "/",
				testSiteURL + "/docs/intro",
				testSiteURL + "/docs/api",
				testSiteURL + "/blog/post",
				testSiteURL + "/privacy",
			},
		})
	})
	mux.HandleFunc("POST /v1/scrape", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL string `json:"url"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if strings.Contains(req.URL, "/blog/") {
			http.Error(w, `{"success":false,"error":"upstream timeout"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"markdown": "# Content of " + req.URL,
				"metadata": map[string]any{"title": "Fetched title"},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newFakeOpenAI serves /v1/chat/completions. The site summary and the
// intro page get real answers; every other page gets unparseable content.
func newFakeOpenAI(t *testing.T) *httptest.Server {
	t.Helper()

	handler := func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		content := "not json"
		switch {
		case len(req.Messages) > 0 && strings.Contains(req.Messages[0].Content, "summarizes websites"):
			content = `{"name":"Example","summary":"An example site."}`
		case len(req.Messages) > 1 && strings.Contains(req.Messages[1].Content, "/docs/intro"):
			content = `{"title":"Intro Guide","description":"How to start"}`
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:      "chatcmpl-test",
			Object:  "chat.completion",
			Model:   req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			}},
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// wantLLMsTxt is the document the fake services produce.
var wantLLMsTxt = fmt.Sprintf("# Example\n\n"+
	"An example site.\n\n"+
	"## Docs\n\n"+
	"- [Intro Guide](%[1]s/docs/intro): How to start\n"+
	"- [Page](%[1]s/docs/api): No description available", testSiteURL)
