// Package cli implements the command-line interface for course-scraper.
//
// The cli package provides the Cobra root command, merges flags with the
// optional config file, and drives a run: both listing pages are scraped in
// sequence, the report is printed (text or JSON) and then exported to an
// .xlsx workbook and, on request, to per-category CSV files.
package cli
