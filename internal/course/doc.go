// Package course provides the data model for scraped course listings.
//
// A Record is one row of a listing table (course name and syllabus link). A
// Report groups records into named categories and remembers the order they
// were added, which is the order they are printed and exported in.
package course
