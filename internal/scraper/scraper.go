package scraper

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/course-scraper/internal/course"
	"github.com/pfrederiksen/course-scraper/internal/logger"
)

// ColumnMap names the zero-based table columns holding each record field.
// A row needs at least Name+1 cells to produce a record; the Link column is optional.
type ColumnMap struct {
	Name int `json:"name"`
	Link int `json:"link"`
}

// DefaultColumns matches the listing layout of serial number, course name, syllabus
var DefaultColumns = ColumnMap{Name: 1, Link: 2}

// Validate checks that both column indices are usable
func (c ColumnMap) Validate() error {
	if c.Name < 0 {
		return fmt.Errorf("name column must not be negative: %d", c.Name)
	}
	if c.Link < 0 {
		return fmt.Errorf("link column must not be negative: %d", c.Link)
	}
	return nil
}

// Scraper extracts course records from listing pages
type Scraper struct {
	fetcher Fetcher
	columns ColumnMap
}

// New creates a Scraper. A nil fetcher uses an HTTPFetcher with the default timeout.
func New(fetcher Fetcher, columns ColumnMap) *Scraper {
	if fetcher == nil {
		fetcher = NewHTTPFetcher(Timeout)
	}
	return &Scraper{
		fetcher: fetcher,
		columns: columns,
	}
}

// FetchCourses fetches url and extracts its course records. Any failure is
// logged and produces an empty slice; it is never returned to the caller.
func (s *Scraper) FetchCourses(ctx context.Context, url string) []course.Record {
	start := time.Now()
	defer func() {
		logger.RecordTiming("fetch", time.Since(start))
	}()

	records, err := s.fetchCourses(ctx, url)
	if err != nil {
		logger.IncrCounter("fetch.failures")
		logger.Warn("Failed to retrieve data", logger.Fields{"url": url}, err)
		return []course.Record{}
	}

	logger.Info("Fetched courses", logger.Fields{
		"url":     url,
		"courses": len(records),
	})
	return records
}

func (s *Scraper) fetchCourses(ctx context.Context, url string) ([]course.Record, error) {
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return s.ParseCourses(body)
}

// ParseCourses extracts records from the first table of an HTML document.
// A document without a table yields an empty slice.
func (s *Scraper) ParseCourses(r io.Reader) ([]course.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	records := make([]course.Record, 0)

	table := doc.Find("table").First()
	if table.Length() == 0 {
		logger.Debug("No table found", nil)
		return records, nil
	}

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")

		if logger.Default().Enabled(logger.LevelDebug) {
			logger.Debug("Row columns", logger.Fields{
				"row":     i,
				"columns": cellTexts(cells),
			})
		}

		if rec, ok := s.extractRecord(cells); ok {
			records = append(records, rec)
			logger.IncrCounter("rows.parsed")
		} else {
			logger.IncrCounter("rows.skipped")
		}
	})

	return records, nil
}

// extractRecord builds a record from a row's cells using the column map
func (s *Scraper) extractRecord(cells *goquery.Selection) (course.Record, bool) {
	if cells.Length() <= s.columns.Name {
		return course.Record{}, false
	}

	name := strings.TrimSpace(cells.Eq(s.columns.Name).Text())

	link := ""
	if cells.Length() > s.columns.Link {
		if a := cells.Eq(s.columns.Link).Find("a").First(); a.Length() > 0 {
			link, _ = a.Attr("href")
		}
	}

	return course.NewRecord(name, link), true
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(cell.Text()))
	})
	return texts
}
