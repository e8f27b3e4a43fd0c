package semantic

import "sort"

// DefaultDomainStoplist holds generic verbs and conjunctions removed from
// every dictionary after construction.
var DefaultDomainStoplist = []string{
	"hello", "and", "if", "this", "can", "would", "should", "could",
	"tell", "ask", "stop", "come", "go",
}

// Dictionary maps tokens to integer ids.
// Ids are dense at construction; Filter leaves gaps and never renumbers.
type Dictionary struct {
	token2id map[string]int
	id2token map[int]string
	nextID   int
}

// NewDictionary assigns ids to tokens in first-seen order across docs.
func NewDictionary(docs [][]string) *Dictionary {
	d := &Dictionary{
		token2id: make(map[string]int),
		id2token: make(map[int]string),
	}
	for _, doc := range docs {
		for _, tok := range doc {
			if _, ok := d.token2id[tok]; ok {
				continue
			}
			d.token2id[tok] = d.nextID
			d.id2token[d.nextID] = tok
			d.nextID++
		}
	}
	return d
}

// Filter removes every stoplisted token and returns the removed ids in ascending order.
func (d *Dictionary) Filter(stoplist []string) []int {
	var removed []int
	for _, tok := range stoplist {
		id, ok := d.token2id[tok]
		if !ok {
			continue
		}
		delete(d.token2id, tok)
		delete(d.id2token, id)
		removed = append(removed, id)
	}
	sort.Ints(removed)
	return removed
}

// ID returns the id of a token.
func (d *Dictionary) ID(token string) (int, bool) {
	id, ok := d.token2id[token]
	return id, ok
}

// Token returns the token for an id.
func (d *Dictionary) Token(id int) (string, bool) {
	tok, ok := d.id2token[id]
	return tok, ok
}

// Len returns the number of surviving tokens.
func (d *Dictionary) Len() int { return len(d.token2id) }

// NumIDs returns one past the largest id ever assigned.
// It is the row count of the term-document matrix.
func (d *Dictionary) NumIDs() int { return d.nextID }

// DocToBOW counts the known tokens of doc. Unknown tokens are ignored.
func (d *Dictionary) DocToBOW(doc []string) BOW {
	counts := make(map[int]int, len(doc))
	for _, tok := range doc {
		if id, ok := d.token2id[tok]; ok {
			counts[id]++
		}
	}
	bow := make(BOW, 0, len(counts))
	for id, c := range counts {
		bow = append(bow, TermCount{ID: id, Count: c})
	}
	sort.Slice(bow, func(i, j int) bool { return bow[i].ID < bow[j].ID })
	return bow
}

// CorpusToBOW converts every document.
func (d *Dictionary) CorpusToBOW(docs [][]string) []BOW {
	out := make([]BOW, len(docs))
	for i, doc := range docs {
		out[i] = d.DocToBOW(doc)
	}
	return out
}
