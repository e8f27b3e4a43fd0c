// Package semantic builds per-query vector-space models over study records:
// dictionary, bag-of-words, TF-IDF, latent semantic indexing and cosine ranking.
//
// Every structure here is built from scratch for one record table and is
// never shared between queries.
package semantic

import "github.com/kailas-cloud/studysearch/internal/domain/study"

// Tokenizer splits a text field into normalized tokens.
type Tokenizer interface {
	Tokenize(s string) []string
}

// Corpus holds per-record token sequences, aligned to table rows.
type Corpus struct {
	Titles       [][]string
	Descriptions [][]string
}

// Len returns the number of documents.
func (c Corpus) Len() int { return len(c.Titles) }

// BuildCorpus tokenizes the title and description of every record.
func BuildCorpus(tok Tokenizer, table study.Table) Corpus {
	return Corpus{
		Titles:       tokenizeAll(tok, table.Titles()),
		Descriptions: tokenizeAll(tok, table.Descriptions()),
	}
}

// BuildTitleCorpus tokenizes titles only; Descriptions is left nil.
func BuildTitleCorpus(tok Tokenizer, table study.Table) Corpus {
	return Corpus{Titles: tokenizeAll(tok, table.Titles())}
}

func tokenizeAll(tok Tokenizer, texts []string) [][]string {
	out := make([][]string, len(texts))
	for i, s := range texts {
		out[i] = tok.Tokenize(s)
	}
	return out
}
