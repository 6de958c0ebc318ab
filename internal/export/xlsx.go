package export

import (
	"fmt"

	"github.com/pfrederiksen/course-scraper/internal/course"
	"github.com/pfrederiksen/course-scraper/internal/logger"
	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet excelize creates with every new workbook
const defaultSheet = "Sheet1"

// WriteWorkbook saves report to path as an .xlsx workbook. Worksheets are
// named after the categories and keep the report order; a category without
// records gets a header-only sheet.
func WriteWorkbook(report *course.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, ds := range report.Datasets() {
		if err := addSheet(f, i, ds.Name); err != nil {
			return err
		}

		if err := writeRows(f, ds); err != nil {
			return fmt.Errorf("writing sheet %q: %w", ds.Name, err)
		}

		logger.Info("Sheet saved", logger.Fields{
			"sheet":   ds.Name,
			"courses": len(ds.Records),
		})
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	logger.Info("Workbook saved", logger.Fields{
		"path":   path,
		"sheets": report.Len(),
	})
	return nil
}

// addSheet renames the default sheet for the first category and appends new
// sheets for the rest. Sheet names are case-insensitive, so a category whose
// name matches an earlier sheet is rejected instead of sharing its rows.
func addSheet(f *excelize.File, i int, name string) error {
	if i == 0 {
		if name == defaultSheet {
			return nil
		}
		if err := f.SetSheetName(defaultSheet, name); err != nil {
			return fmt.Errorf("naming sheet %q: %w", name, err)
		}
		return nil
	}

	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("creating sheet %q: %w", name, err)
	}
	if idx != -1 {
		return fmt.Errorf("sheet %q collides with an existing sheet", name)
	}

	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %q: %w", name, err)
	}
	return nil
}

func writeRows(f *excelize.File, ds *course.Dataset) error {
	header := toRow(course.Headers())
	if err := f.SetSheetRow(ds.Name, "A1", &header); err != nil {
		return err
	}

	for i, rec := range ds.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := toRow(rec.Values())
		if err := f.SetSheetRow(ds.Name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
