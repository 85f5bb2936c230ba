// Package firecrawl is a minimal client for the two Firecrawl v1
// endpoints the generator needs: /map, which lists the URLs of a site,
// and /scrape, which returns the main content of one page as Markdown.
//
// Client also implements the collector and fetcher interfaces of the
// pipeline package through Collect and Fetch.
package firecrawl
