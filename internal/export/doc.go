// Package export writes a course report to spreadsheet files.
//
// WriteWorkbook produces an .xlsx workbook with one worksheet per category, in
// report order, each starting with a "Course Name" / "Syllabus Link" header
// row. WriteCSVDir writes the same data as one CSV file per category.
package export
