// Package scraper fetches course listing pages and extracts course records.
//
// A page is fetched through a Fetcher (HTTPFetcher in production, any function
// in tests), parsed with goquery, and the first table in document order is
// walked row by row. The course name and syllabus link are read from the
// columns named by a ColumnMap. Fetch failures never reach the caller: they are
// logged and yield an empty record list so one bad page does not stop a run.
package scraper
