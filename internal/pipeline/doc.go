// Package pipeline runs the stages of an llms.txt generation in order.
//
// A run is a model.Run that every Step reads from and writes to:
//
//	collect -> filter -> fetch -> summarize pages -> summarize site -> render [-> save history]
//
// Only the fetch stage is concurrent. BatchProcessor fans the filtered URLs
// out over a bounded errgroup and puts the fetched pages back in crawl
// order, so output does not depend on which fetch finishes first.
//
// Failures of the external services never abort a run. A failed collection
// yields no URLs, a failed fetch drops that page and a failed summary falls
// back to placeholder text. Steps only return an error when the context is
// cancelled, which stops the pipeline.
package pipeline
