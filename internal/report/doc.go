// Package report renders the documents produced by a run and writes them out.
//
// RenderLLMsTxt builds the llms.txt index: the site name as the top-level
// heading, the site summary, then one second-level heading per section with
// a link bullet per page. RenderLLMsFullTxt builds llms-full.txt, which
// carries the Markdown of every page after the same header.
//
// Rendering goes through github.com/nao1215/markdown and is deterministic:
// the same inputs always produce the same bytes, on every platform.
package report
