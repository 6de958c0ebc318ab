package course

// Dataset is a named, ordered group of course records
type Dataset struct {
	Name    string   `json:"name"`
	Records []Record `json:"courses"`
}

// Report maps category names to datasets while keeping insertion order.
// Sheets and printed sections follow that order.
type Report struct {
	datasets []*Dataset
	index    map[string]int
}

// NewReport creates an empty Report
func NewReport() *Report {
	return &Report{
		index: make(map[string]int),
	}
}

// Add stores records under the given category. Adding an existing category
// replaces its records and keeps its original position.
func (r *Report) Add(name string, records []Record) {
	if records == nil {
		records = []Record{}
	}

	if i, ok := r.index[name]; ok {
		r.datasets[i].Records = records
		return
	}

	r.index[name] = len(r.datasets)
	r.datasets = append(r.datasets, &Dataset{Name: name, Records: records})
}

// Datasets returns all datasets in insertion order
func (r *Report) Datasets() []*Dataset {
	out := make([]*Dataset, len(r.datasets))
	copy(out, r.datasets)
	return out
}

// Len returns the number of categories
func (r *Report) Len() int {
	return len(r.datasets)
}

// TotalRecords returns the number of records across all categories
func (r *Report) TotalRecords() int {
	total := 0
	for _, ds := range r.datasets {
		total += len(ds.Records)
	}
	return total
}
