package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/course-scraper/internal/course"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// separator closes every category block in text output
var separator = strings.Repeat("-", 40)

// jsonReport is the JSON shape of a report; categories keep report order
type jsonReport struct {
	Categories []*course.Dataset `json:"categories"`
}

// WriteReport writes the report in the specified format
func WriteReport(w io.Writer, report *course.Report, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatText:
		return writeText(w, report)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, report *course.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jsonReport{Categories: report.Datasets()})
}

// writeText prints each category as a numbered list of courses
func writeText(w io.Writer, report *course.Report) error {
	for _, ds := range report.Datasets() {
		fmt.Fprintf(w, "--- %s ---\n", ds.Name)

		if len(ds.Records) == 0 {
			fmt.Fprintln(w, "  No courses found.")
		}
		for i, rec := range ds.Records {
			fmt.Fprintf(w, "Course %d:\n", i+1)
			fmt.Fprintf(w, "  %s: %s\n", course.HeaderName, rec.Name)
			fmt.Fprintf(w, "  %s: %s\n", course.HeaderLink, rec.SyllabusLink)
			fmt.Fprintln(w)
		}

		if _, err := fmt.Fprintln(w, separator); err != nil {
			return err
		}
	}
	return nil
}
