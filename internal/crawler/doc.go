// Package crawler is the native backend: it discovers a site's URLs and
// extracts page content without a third-party crawling service.
//
// Spider walks same-host links breadth first and returns up to a limit of
// URLs, throttled by a token-bucket rate limiter so the target site is not
// hammered. Scraper downloads one page, isolates its main article with
// go-readability and converts that HTML to Markdown.
//
//	spider := crawler.NewSpider(httpClient, crawler.WithRate(2))
//	urls, err := spider.Collect(ctx, "https://example.com", 20)
//
//	scraper := crawler.NewScraper(httpClient)
//	page, err := scraper.Fetch(ctx, urls[0])
package crawler
