package result

// Result is one ranked study, joined back to its record.
type Result struct {
	relevance   float64
	title       string
	description string
	accession   string
	url         string
}

// New creates a search result. relevance is a percentage rounded to two decimals.
func New(relevance float64, title, description, accession, url string) Result {
	return Result{
		relevance:   relevance,
		title:       title,
		description: description,
		accession:   accession,
		url:         url,
	}
}

// Relevance returns the similarity score scaled to 0-100.
func (r *Result) Relevance() float64 { return r.relevance }

// Title returns the study title.
func (r *Result) Title() string { return r.title }

// Description returns the study description.
func (r *Result) Description() string { return r.description }

// Accession returns the study accession id.
func (r *Result) Accession() string { return r.accession }

// URL returns the deep link to the study.
func (r *Result) URL() string { return r.url }
