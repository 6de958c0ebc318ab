package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/course-scraper/internal/config"
	"github.com/pfrederiksen/course-scraper/internal/course"
	"github.com/pfrederiksen/course-scraper/internal/export"
	"github.com/pfrederiksen/course-scraper/internal/logger"
	"github.com/pfrederiksen/course-scraper/internal/scraper"
	"github.com/spf13/cobra"
)

// ExitError is the process exit code for a failed run
const ExitError = 1

// Report categories, in sheet order
const (
	CategoryUndergraduate = "Undergraduate Courses"
	CategoryPostgraduate  = "Postgraduate Courses"
)

var (
	flagConfig           string
	flagUndergraduateURL string
	flagPostgraduateURL  string
	flagOutput           string
	flagCSVDir           string
	flagFormat           string
	flagTimeout          time.Duration
	flagNameColumn       int
	flagLinkColumn       int
	flagVerbose          bool
)

// Options configures a single scrape-and-export run
type Options struct {
	UndergraduateURL string
	PostgraduateURL  string
	Output           string
	CSVDir           string
	Format           OutputFormat
	Columns          scraper.ColumnMap
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course-scraper",
		Short: "Scrape college course listings into a spreadsheet",
		Long: `A CLI tool that fetches the undergraduate and postgraduate course pages,
extracts each course name and syllabus link from the page's table, prints
the result and saves it to an .xlsx workbook with one sheet per category.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to a JSON config file")
	cmd.Flags().StringVar(&flagUndergraduateURL, "undergraduate-url", config.UndergraduateURL, "Undergraduate course listing URL")
	cmd.Flags().StringVar(&flagPostgraduateURL, "postgraduate-url", config.PostgraduateURL, "Postgraduate course listing URL")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", config.OutputFile, "Workbook output path")
	cmd.Flags().StringVar(&flagCSVDir, "csv-dir", "", "Also write one CSV file per category to this directory")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Report format: text or json")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", config.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().IntVar(&flagNameColumn, "name-column", scraper.DefaultColumns.Name, "Zero-based table column holding the course name")
	cmd.Flags().IntVar(&flagLinkColumn, "link-column", scraper.DefaultColumns.Link, "Zero-based table column holding the syllabus link")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	level := logger.LevelDebug
	if !flagVerbose {
		level, err = logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	opts := Options{
		UndergraduateURL: cfg.UndergraduateURL,
		PostgraduateURL:  cfg.PostgraduateURL,
		Output:           cfg.Output,
		CSVDir:           cfg.CSVDir,
		Format:           format,
		Columns:          scraper.ColumnMap{Name: cfg.NameColumn, Link: cfg.LinkColumn},
	}

	logger.DefaultMetrics().Reset()

	fetcher := scraper.NewHTTPFetcher(time.Duration(cfg.Timeout))
	if err := Run(cmd.Context(), opts, fetcher, cmd.OutOrStdout()); err != nil {
		return err
	}

	logger.Debug("Run metrics", logger.Fields{"metrics": logger.GetMetricsSnapshot()})
	return nil
}

// applyFlags copies explicitly set flags over config file values
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("undergraduate-url") {
		cfg.UndergraduateURL = flagUndergraduateURL
	}
	if flags.Changed("postgraduate-url") {
		cfg.PostgraduateURL = flagPostgraduateURL
	}
	if flags.Changed("output") {
		cfg.Output = flagOutput
	}
	if flags.Changed("csv-dir") {
		cfg.CSVDir = flagCSVDir
	}
	if flags.Changed("timeout") {
		cfg.Timeout = config.Duration(flagTimeout)
	}
	if flags.Changed("name-column") {
		cfg.NameColumn = flagNameColumn
	}
	if flags.Changed("link-column") {
		cfg.LinkColumn = flagLinkColumn
	}
}

// Run scrapes both listing pages one after the other, prints the report to
// stdout and exports it. Fetch failures leave a category empty; only export
// and output errors are returned.
func Run(ctx context.Context, opts Options, fetcher scraper.Fetcher, stdout io.Writer) error {
	if err := opts.Columns.Validate(); err != nil {
		return err
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	sc := scraper.New(fetcher, opts.Columns)

	report := course.NewReport()
	report.Add(CategoryUndergraduate, sc.FetchCourses(ctx, opts.UndergraduateURL))
	report.Add(CategoryPostgraduate, sc.FetchCourses(ctx, opts.PostgraduateURL))

	logger.Info("Scrape finished", logger.Fields{
		"categories": report.Len(),
		"courses":    report.TotalRecords(),
		"skipped":    logger.DefaultMetrics().Counter("rows.skipped"),
	})

	if opts.Format == FormatText {
		fmt.Fprint(stdout, "\nScraped Course Data:\n\n")
	}
	if err := WriteReport(stdout, report, opts.Format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if err := export.WriteWorkbook(report, opts.Output); err != nil {
		logger.Error("Export failed", logger.Fields{"path": opts.Output}, err)
		return fmt.Errorf("exporting workbook: %w", err)
	}

	if opts.CSVDir != "" {
		if _, err := export.WriteCSVDir(report, opts.CSVDir); err != nil {
			return fmt.Errorf("exporting CSV: %w", err)
		}
	}

	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
