package text

import "regexp"

// Pre-segmentation rewrites.
var (
	quoteResidueRe = regexp.MustCompile(`\n: ''.*`)
	bangResidueRe  = regexp.MustCompile(`\n!.*`)
	leadResidueRe  = regexp.MustCompile(`^:''.*`)
	apostropheRe   = regexp.MustCompile(`'`)
	digitWordRe    = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]*\p{Nd}[\p{L}\p{M}\p{N}_]*`)
	spaceRunRe     = regexp.MustCompile(` +`)
	newlineRe      = regexp.MustCompile(`\n`)
	nonWordRe      = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s]`)
)

// clean rewrites raw text so that only word characters and whitespace remain.
// Residue lines are matched on the raw text because their markers contain
// the apostrophes that the next step removes.
func clean(s string) string {
	s = quoteResidueRe.ReplaceAllString(s, "")
	s = bangResidueRe.ReplaceAllString(s, "")
	s = leadResidueRe.ReplaceAllString(s, "")
	s = apostropheRe.ReplaceAllString(s, "")
	s = digitWordRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = newlineRe.ReplaceAllString(s, " ")
	s = nonWordRe.ReplaceAllString(s, " ")
	return s
}
