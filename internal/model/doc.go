// Package model defines the data that flows through an llms.txt run.
//
// A run starts from a list of URLs, turns the fetchable ones into Pages,
// condenses each Page into a PageSummary, groups the summaries into
// Sections, and finishes with a SiteSummary and a Result holding the
// rendered documents.
//
// The types live in their own package because the pipeline, report and
// database packages all depend on them.
package model
