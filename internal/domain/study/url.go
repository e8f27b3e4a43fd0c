package study

const (
	osdrBaseURL     = "https://osdr.nasa.gov/bio/repo/data/studies/"
	ebiPrideBaseURL = "https://www.ebi.ac.uk/pride/archive/projects/"
	nihGEOBaseURL   = "https://www.ncbi.nlm.nih.gov/geo/query/acc.cgi?acc="
	mgRASTBaseURL   = "https://www.mg-rast.org/mgmain.html?mgpage=project&project="
)

var urlTemplates = map[SourceType]string{
	SourceOSDR:     osdrBaseURL,
	SourceEBIPride: ebiPrideBaseURL,
	SourceNIHGEO:   nihGEOBaseURL,
	SourceMGRAST:   mgRASTBaseURL,
}

// ResolveURL builds the deep link to a study. Tags are matched exactly;
// unknown tags fall back to the OSDR repository.
func ResolveURL(source SourceType, accession string) string {
	base, ok := urlTemplates[source]
	if !ok {
		base = osdrBaseURL
	}
	return base + accession
}

// URL returns the deep link for the record.
func (r Record) URL() string {
	return ResolveURL(r.SourceType, r.Accession)
}
