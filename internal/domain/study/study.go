// Package study models the records returned by the study search API.
package study

// SourceType is the repository a study was deposited in.
type SourceType string

// Known source types. Anything else resolves like OSDR.
const (
	SourceOSDR      SourceType = "osdr"
	SourceEBIPride  SourceType = "ebi_pride"
	SourceNIHGEO    SourceType = "nih_geo_gse"
	SourceMGRAST    SourceType = "mg_rast"
	SourceUndefined SourceType = ""
)

// IsKnown reports whether the source type has its own URL template.
func (s SourceType) IsKnown() bool {
	_, ok := urlTemplates[s]
	return ok
}

// Record is one retrieved study. Immutable once fetched.
type Record struct {
	Accession   string     `json:"accession"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	SourceType  SourceType `json:"source_type"`
}

// Table is an ordered, index-addressable set of records.
// Row positions are the join key for every derived structure and never change.
type Table struct {
	rows []Record
}

// NewTable creates a table over a copy of rows.
func NewTable(rows []Record) Table {
	cp := make([]Record, len(rows))
	copy(cp, rows)
	return Table{rows: cp}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// At returns the record at row i.
func (t Table) At(i int) Record { return t.rows[i] }

// Records returns a copy of all rows in order.
func (t Table) Records() []Record {
	cp := make([]Record, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Titles returns the title of every row in order.
func (t Table) Titles() []string {
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Title
	}
	return out
}

// Descriptions returns the description of every row in order.
func (t Table) Descriptions() []string {
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Description
	}
	return out
}
