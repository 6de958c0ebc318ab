// Package config loads optional JSON run settings for course-scraper.
//
// A config file can set the two listing URLs, output paths, the column
// mapping, the request timeout and the log level. Values left out of the
// file keep their defaults; command-line flags override both.
package config
