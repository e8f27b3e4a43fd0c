package osdr

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/studysearch/internal/domain/study"
)

// Field names in a hit's _source.
const (
	fieldAccession   = "Accession"
	fieldTitle       = "Study Title"
	fieldDescription = "Study Description"
	fieldSourceType  = "Data Source Type"
)

type searchResponse struct {
	Hits struct {
		Total hitTotal `json:"total"`
		Hits  []hit    `json:"hits"`
	} `json:"hits"`
}

type hit struct {
	ID     string    `json:"_id"`
	Source sourceDoc `json:"_source"`
}

// sourceDoc keeps _source untyped: fields are not guaranteed to be strings.
type sourceDoc map[string]any

func (s sourceDoc) record() study.Record {
	return study.Record{
		Accession:   textOf(s[fieldAccession]),
		Title:       textOf(s[fieldTitle]),
		Description: textOf(s[fieldDescription]),
		SourceType:  study.SourceType(textOf(s[fieldSourceType])),
	}
}

// textOf renders any decoded JSON value as text. Missing and null become "".
func textOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if s := textOf(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// hitTotal accepts both a bare count and the {"value": N} object form.
type hitTotal struct {
	raw json.RawMessage
}

func (t *hitTotal) UnmarshalJSON(b []byte) error {
	t.raw = append(t.raw[:0], b...)
	return nil
}

func (t hitTotal) count() (int, error) {
	if len(t.raw) == 0 || string(t.raw) == "null" {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(t.raw, &n); err == nil {
		return n, nil
	}
	var obj struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(t.raw, &obj); err != nil {
		return 0, fmt.Errorf("decode hits.total: %w", err)
	}
	return obj.Value, nil
}
