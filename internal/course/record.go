package course

// Column headers shared by the printed report and the exported sheets.
const (
	HeaderName = "Course Name"
	HeaderLink = "Syllabus Link"
)

// Record is a single course row extracted from a listing table
type Record struct {
	Name         string `json:"course_name" csv:"Course Name"`
	SyllabusLink string `json:"syllabus_link" csv:"Syllabus Link"`
}

// NewRecord creates a Record from a course name and syllabus link
func NewRecord(name, link string) Record {
	return Record{Name: name, SyllabusLink: link}
}

// Headers returns the field names of a Record in column order
func Headers() []string {
	return []string{HeaderName, HeaderLink}
}

// Values returns the record fields in the same order as Headers
func (r Record) Values() []string {
	return []string{r.Name, r.SyllabusLink}
}
