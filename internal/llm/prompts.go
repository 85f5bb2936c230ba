package llm

import "fmt"

const (
	// PageContentLimit is the number of characters of page content sent
	// with a page summary request.
	PageContentLimit = 4000

	// SiteContentLimit is the number of characters of combined content
	// sent with a site summary request.
	SiteContentLimit = 8000

	// SiteContentSeparator joins page contents for the site summary.
	SiteContentSeparator = "\n\n"
)

const (
	pageSystemPrompt = "You are a helpful assistant that generates concise titles and descriptions for web pages."
	siteSystemPrompt = "You are a helpful assistant that summarizes websites."

	pageMaxTokens = 100
	siteMaxTokens = 150

	temperature = 0.3
)

const pagePromptFormat = `Generate a 9-10 word description and a 3-4 word title of the entire page based on ALL the content one will find on the page for this url: %s. This will help in a user finding the page for its intended purpose.

Return the response in JSON format:
{
  "title": "3-4 word title",
  "description": "9-10 word description"
}`

const sitePrompt = `Write a high-level name and a short summary of this organization and its online content. Use maximum 50 words. Return JSON format:
{
  "name": "...",
  "summary": "..."
}`

func pageUserMessage(pageURL, content string) string {
	return fmt.Sprintf(pagePromptFormat, pageURL) + "\n\nPage content:\n" + content
}

func siteUserMessage(content string) string {
	return sitePrompt + "\n\nWebsite content:\n" + content
}
