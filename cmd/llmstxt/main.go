// Package main provides the entry point for the llmstxt CLI.
//
// llmstxt crawls a website, summarizes each page with a language model and
// writes an llms.txt index of the site.
//
// Usage:
//
//	llmstxt generate https://example.com
//	llmstxt generate --max-pages 40 --full -o public/llms.txt https://example.com
//
// See --help for all available options.
package main

func main() {
	Execute()
}
