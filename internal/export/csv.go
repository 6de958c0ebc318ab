package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pfrederiksen/course-scraper/internal/course"
	"github.com/pfrederiksen/course-scraper/internal/logger"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// WriteCSV writes records as CSV with a header row, even when records is empty
func WriteCSV(w io.Writer, records []course.Record) error {
	if records == nil {
		records = []course.Record{}
	}
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("encoding CSV: %w", err)
	}
	return nil
}

// WriteCSVDir writes one CSV file per category into dir, creating it if needed.
// It returns the paths written, in report order. Categories whose names map to
// the same file are rejected before anything is written.
func WriteCSVDir(report *course.Report, dir string) ([]string, error) {
	datasets := report.Datasets()

	owner := make(map[string]string, len(datasets))
	for _, ds := range datasets {
		path := filepath.Join(dir, FileSlug(ds.Name)+".csv")
		if prev, ok := owner[path]; ok {
			return nil, fmt.Errorf("categories %q and %q both map to %s", prev, ds.Name, path)
		}
		owner[path] = ds.Name
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating CSV directory: %w", err)
	}

	paths := make([]string, 0, len(datasets))
	for _, ds := range datasets {
		path := filepath.Join(dir, FileSlug(ds.Name)+".csv")
		if err := writeCSVFile(path, ds.Records); err != nil {
			return paths, err
		}

		logger.Info("CSV saved", logger.Fields{
			"category": ds.Name,
			"path":     path,
		})
		paths = append(paths, path)
	}

	return paths, nil
}

func writeCSVFile(path string, records []course.Record) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	defer out.Close()

	if err := WriteCSV(out, records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

// FileSlug turns a category name into a file name stem,
// e.g. "Undergraduate Courses" becomes "undergraduate-courses".
func FileSlug(name string) string {
	slug := nonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "category"
	}
	return slug
}
