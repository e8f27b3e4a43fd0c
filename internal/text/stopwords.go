package text

import (
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
)

// extraStopWords complements the snowball English list with the pronouns,
// auxiliaries and adverbs that carry no topical signal in study titles.
var extraStopWords = []string{
	"about", "above", "across", "after", "afterwards", "again", "against", "all",
	"almost", "alone", "along", "already", "also", "although", "always", "among",
	"amongst", "amount", "another", "any", "anyhow", "anyone", "anything", "anyway",
	"anywhere", "around", "back", "became", "because", "become", "becomes", "becoming",
	"beforehand", "behind", "beside", "besides", "beyond", "bottom", "call", "cannot",
	"could", "done", "down", "due", "during", "each", "either", "else", "elsewhere",
	"empty", "enough", "even", "ever", "every", "everyone", "everything", "everywhere",
	"except", "few", "first", "former", "formerly", "front", "full", "further", "get",
	"give", "go", "hence", "here", "hereafter", "hereby", "herein", "hereupon", "however",
	"indeed", "just", "keep", "last", "latter", "latterly", "least", "less", "made",
	"make", "many", "may", "meanwhile", "might", "mine", "more", "moreover", "most",
	"mostly", "move", "much", "must", "name", "namely", "neither", "never",
	"nevertheless", "next", "nobody", "none", "noone", "nothing", "now", "nowhere",
	"often", "one", "onto", "otherwise", "part", "per", "perhaps", "please", "put",
	"quite", "rather", "really", "regarding", "say", "see", "seem", "seemed", "seeming",
	"seems", "serious", "several", "show", "side", "since", "somehow", "someone",
	"something", "sometime", "sometimes", "somewhere", "still", "take", "thence",
	"thereafter", "thereby", "therefore", "therein", "thereupon", "though", "three",
	"thru", "thus", "together", "top", "toward", "towards", "two", "under", "unless",
	"upon", "used", "using", "various", "via", "well", "whatever", "whence",
	"whenever", "whereafter", "whereas", "whereby", "wherein", "whereupon", "wherever",
	"whether", "whither", "whoever", "whole", "whose", "within", "without", "would",
	"yet",
}

// DefaultStopWords returns the English stop-word set used when no override is given.
func DefaultStopWords() (map[string]struct{}, error) {
	tm := analysis.NewTokenMap()
	if err := tm.LoadBytes(en.EnglishStopWords); err != nil {
		return nil, fmt.Errorf("load english stop words: %w", err)
	}
	out := make(map[string]struct{}, len(tm)+len(extraStopWords))
	for w := range tm {
		out[w] = struct{}{}
	}
	for _, w := range extraStopWords {
		out[w] = struct{}{}
	}
	return out, nil
}

// StopSet builds a stop-word set from a word list.
func StopSet(words []string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
