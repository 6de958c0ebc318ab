package scraper

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/course-scraper/internal/course"
	"github.com/pfrederiksen/course-scraper/internal/logger"
)

func htmlFetcher(html string) Fetcher {
	return FetcherFunc(func(ctx context.Context, url string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(html)), nil
	})
}

func TestParseCourses(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []course.Record
	}{
		{
			name: "three column rows",
			html: `<table>
				<tr><td>1</td><td> B.Com (Hons) </td><td><a href="/syllabus/bcom.pdf">View</a></td></tr>
				<tr><td>2</td><td>B.A. English</td><td><a href="/syllabus/english.pdf">View</a></td></tr>
			</table>`,
			want: []course.Record{
				{Name: "B.Com (Hons)", SyllabusLink: "/syllabus/bcom.pdf"},
				{Name: "B.A. English", SyllabusLink: "/syllabus/english.pdf"},
			},
		},
		{
			name: "one column row is skipped",
			html: `<table>
				<tr><td>1</td><td>First</td></tr>
				<tr><td>only</td></tr>
				<tr><td>3</td><td>Third</td></tr>
			</table>`,
			want: []course.Record{
				{Name: "First"},
				{Name: "Third"},
			},
		},
		{
			name: "two column row has empty link",
			html: `<table><tr><td>1</td><td>B.Sc Physics</td></tr></table>`,
			want: []course.Record{{Name: "B.Sc Physics"}},
		},
		{
			name: "third column without anchor",
			html: `<table><tr><td>1</td><td>M.A. Hindi</td><td>Coming soon</td></tr></table>`,
			want: []course.Record{{Name: "M.A. Hindi"}},
		},
		{
			name: "anchor without href",
			html: `<table><tr><td>1</td><td>M.Com</td><td><a name="x">Syllabus</a></td></tr></table>`,
			want: []course.Record{{Name: "M.Com"}},
		},
		{
			name: "header row with th cells is skipped",
			html: `<table>
				<tr><th>S.No</th><th>Course</th><th>Syllabus</th></tr>
				<tr><td>1</td><td>B.A. History</td><td><a href="/x">View</a></td></tr>
			</table>`,
			want: []course.Record{{Name: "B.A. History", SyllabusLink: "/x"}},
		},
		{
			name: "header row with td cells is kept",
			html: `<table>
				<tr><td>S.No</td><td>Course</td><td>Syllabus</td></tr>
				<tr><td>1</td><td>B.A. History</td><td><a href="/x">View</a></td></tr>
			</table>`,
			want: []course.Record{
				{Name: "Course"},
				{Name: "B.A. History", SyllabusLink: "/x"},
			},
		},
		{
			name: "empty name cell",
			html: `<table><tr><td>1</td><td>   </td><td><a href="/y">View</a></td></tr></table>`,
			want: []course.Record{{Name: "", SyllabusLink: "/y"}},
		},
		{
			name: "duplicates preserved",
			html: `<table>
				<tr><td>1</td><td>Same</td></tr>
				<tr><td>2</td><td>Same</td></tr>
			</table>`,
			want: []course.Record{{Name: "Same"}, {Name: "Same"}},
		},
		{
			name: "only first table is used",
			html: `<table><tr><td>1</td><td>From first</td></tr></table>
				<table><tr><td>1</td><td>From second</td></tr></table>`,
			want: []course.Record{{Name: "From first"}},
		},
		{
			name: "no table",
			html: `<html><body><p>No courses listed</p></body></html>`,
			want: []course.Record{},
		},
		{
			name: "html entities decoded",
			html: `<table><tr><td>1</td><td>B.Sc &amp; M.Sc</td></tr></table>`,
			want: []course.Record{{Name: "B.Sc & M.Sc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(htmlFetcher(""), DefaultColumns)

			got, err := s.ParseCourses(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("ParseCourses() error: %v", err)
			}
			if got == nil {
				t.Fatal("ParseCourses() returned nil slice")
			}

			if len(got) != len(tt.want) {
				t.Fatalf("ParseCourses() returned %d records, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("record %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseCourses_RowCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("<table>")
	for i := 0; i < 25; i++ {
		b.WriteString(`<tr><td>n</td><td>Course</td><td><a href="/s">s</a></td></tr>`)
	}
	b.WriteString("</table>")

	s := New(htmlFetcher(""), DefaultColumns)
	got, err := s.ParseCourses(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("ParseCourses() error: %v", err)
	}
	if len(got) != 25 {
		t.Errorf("ParseCourses() returned %d records, want 25", len(got))
	}
}

func TestParseCourses_CustomColumns(t *testing.T) {
	html := `<table>
		<tr><td><a href="/a.pdf">PDF</a></td><td>ignored</td><td>Course A</td></tr>
		<tr><td></td><td>too short</td></tr>
	</table>`

	s := New(htmlFetcher(""), ColumnMap{Name: 2, Link: 0})
	got, err := s.ParseCourses(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ParseCourses() error: %v", err)
	}

	want := []course.Record{{Name: "Course A", SyllabusLink: "/a.pdf"}}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("ParseCourses() = %+v, want %+v", got, want)
	}
}

func TestParseCourses_DebugColumnDump(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Default()
	logger.SetDefault(logger.New(logger.LevelDebug, &buf))
	defer logger.SetDefault(prev)

	s := New(htmlFetcher(""), DefaultColumns)
	if _, err := s.ParseCourses(strings.NewReader(`<table><tr><td>1</td><td>B.Com</td></tr></table>`)); err != nil {
		t.Fatalf("ParseCourses() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"Row columns"`) || !strings.Contains(out, `"B.Com"`) {
		t.Errorf("debug log missing row column dump: %s", out)
	}
}

func TestColumnMap_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cols    ColumnMap
		wantErr bool
	}{
		{"default", DefaultColumns, false},
		{"zero based", ColumnMap{Name: 0, Link: 0}, false},
		{"negative name", ColumnMap{Name: -1, Link: 2}, true},
		{"negative link", ColumnMap{Name: 1, Link: -3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cols.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFetchCourses(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		statusCode  int
		wantRecords int
	}{
		{
			name: "successful fetch",
			htmlContent: `<html><body><table>
				<tr><td>1</td><td>B.Com</td><td><a href="/bcom">View</a></td></tr>
				<tr><td>2</td><td>B.A.</td></tr>
			</table></body></html>`,
			statusCode:  http.StatusOK,
			wantRecords: 2,
		},
		{
			name:        "not found",
			htmlContent: "missing",
			statusCode:  http.StatusNotFound,
			wantRecords: 0,
		},
		{
			name:        "server error",
			htmlContent: "",
			statusCode:  http.StatusInternalServerError,
			wantRecords: 0,
		},
		{
			name:        "page without table",
			htmlContent: `<html><body><p>Nothing</p></body></html>`,
			statusCode:  http.StatusOK,
			wantRecords: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("method = %s, want GET", r.Method)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			s := New(NewHTTPFetcher(5*time.Second), DefaultColumns)
			records := s.FetchCourses(context.Background(), server.URL)

			if records == nil {
				t.Fatal("FetchCourses() returned nil, want empty slice")
			}
			if len(records) != tt.wantRecords {
				t.Errorf("FetchCourses() returned %d records, want %d", len(records), tt.wantRecords)
			}
		})
	}
}

func TestFetchCourses_Unreachable(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Default()
	logger.SetDefault(logger.New(logger.LevelInfo, &buf))
	defer logger.SetDefault(prev)

	failing := FetcherFunc(func(ctx context.Context, url string) (io.ReadCloser, error) {
		return nil, errors.New("dial tcp: no such host")
	})

	before := logger.DefaultMetrics().Counter("fetch.failures")

	s := New(failing, DefaultColumns)
	records := s.FetchCourses(context.Background(), "https://unreachable.invalid/")

	if records == nil || len(records) != 0 {
		t.Errorf("FetchCourses() = %v, want empty slice", records)
	}
	if !strings.Contains(buf.String(), "https://unreachable.invalid/") {
		t.Errorf("warning does not name the URL: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "no such host") {
		t.Errorf("warning does not carry the error: %s", buf.String())
	}
	if after := logger.DefaultMetrics().Counter("fetch.failures"); after != before+1 {
		t.Errorf("fetch.failures = %d, want %d", after, before+1)
	}
}

func TestFetchCourses_ClosedServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	s := New(NewHTTPFetcher(time.Second), DefaultColumns)
	if records := s.FetchCourses(context.Background(), url); len(records) != 0 {
		t.Errorf("FetchCourses() returned %d records, want 0", len(records))
	}
}

func TestHTTPFetcher_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewHTTPFetcher(time.Second).Fetch(context.Background(), server.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Fetch() error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusServiceUnavailable)
	}
}

func TestHTTPFetcher_DecodesCharset(t *testing.T) {
	// "Café" in ISO-8859-1
	body := []byte("<table><tr><td>1</td><td>Caf\xe9</td></tr></table>")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write(body)
	}))
	defer server.Close()

	s := New(NewHTTPFetcher(time.Second), DefaultColumns)
	records := s.FetchCourses(context.Background(), server.URL)

	if len(records) != 1 {
		t.Fatalf("FetchCourses() returned %d records, want 1", len(records))
	}
	if records[0].Name != "Café" {
		t.Errorf("Name = %q, want %q", records[0].Name, "Café")
	}
}

func TestNew(t *testing.T) {
	s := New(nil, DefaultColumns)

	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.fetcher == nil {
		t.Error("scraper fetcher is nil")
	}
	if s.columns != DefaultColumns {
		t.Errorf("columns = %+v, want %+v", s.columns, DefaultColumns)
	}
}

func TestNewHTTPFetcher_DefaultTimeout(t *testing.T) {
	f := NewHTTPFetcher(0)
	if f.client.Timeout != Timeout {
		t.Errorf("client timeout = %v, want %v", f.client.Timeout, Timeout)
	}
}
