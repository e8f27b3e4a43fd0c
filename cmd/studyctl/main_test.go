package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const upstreamBody = `{"hits":{"total":3,"hits":[
	{"_source":{"Accession":"OSD-1","Study Title":"Microgravity effects on root growth","Study Description":"Arabidopsis seedlings grown aboard the station","Data Source Type":"osdr"}},
	{"_source":{"Accession":"OSD-2","Study Title":"Effects of radiation on mouse bone","Study Description":"Mice exposed to radiation","Data Source Type":"osdr"}},
	{"_source":{"Accession":"OSD-3","Study Title":"Root growth in spaceflight","Study Description":"Seedlings flown in orbit","Data Source Type":"osdr"}}
]}}`

func upstream(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "down", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamBody))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).Run(append([]string{"studyctl"}, args...))
	return stdout.String(), err
}

func TestQueryCommand_Table(t *testing.T) {
	srv := upstream(t, http.StatusOK)
	out, err := run(t, "--upstream", srv.URL, "query", "--top-n", "2", "root", "growth", "microgravity")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header plus 2 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "RELEVANCE") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "OSD-1") {
		t.Errorf("top row = %q, want OSD-1", lines[1])
	}
}

func TestQueryCommand_JSON(t *testing.T) {
	srv := upstream(t, http.StatusOK)
	out, err := run(t, "--upstream", srv.URL, "query", "--json", "root growth")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0]["url"] == "" || got[0]["accession"] == "" {
		t.Errorf("first = %v", got[0])
	}
}

func TestQueryCommand_MissingQuery(t *testing.T) {
	if _, err := run(t, "query"); err == nil || !strings.Contains(err.Error(), "query is required") {
		t.Errorf("err = %v", err)
	}
}

func TestQueryCommand_UpstreamDown(t *testing.T) {
	srv := upstream(t, http.StatusInternalServerError)
	if _, err := run(t, "--upstream", srv.URL, "query", "bone"); err == nil {
		t.Error("expected upstream error")
	}
}

func TestTokenizeCommand(t *testing.T) {
	out, err := run(t, "tokenize", "The", "seedlings", "were", "grown")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := strings.Fields(out)
	if len(got) == 0 {
		t.Fatal("no tokens")
	}
	for _, tok := range got {
		if tok == "the" || tok == "were" {
			t.Errorf("stop word %q kept in %v", tok, got)
		}
	}
}

func TestTokenizeCommand_BadStemmer(t *testing.T) {
	if _, err := run(t, "--stemmer", "lancaster", "tokenize", "roots"); err == nil {
		t.Error("expected error for unknown stemmer")
	}
}

func TestInspectCommand(t *testing.T) {
	srv := upstream(t, http.StatusOK)
	out, err := run(t, "--upstream", srv.URL, "inspect", "root")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, key := range []string{"records", "title.vocabulary", "title.topics", "description.vocabulary", "description.topics"} {
		if !strings.Contains(out, key) {
			t.Errorf("output missing %q:\n%s", key, out)
		}
	}
	if !strings.Contains(out, "records") || !strings.Contains(strings.Fields(out)[1], "3") {
		t.Errorf("records line wrong:\n%s", out)
	}
}

func TestHealthCommand(t *testing.T) {
	srv := upstream(t, http.StatusOK)
	out, err := run(t, "--upstream", srv.URL, "health")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "status: ok") {
		t.Errorf("output = %q", out)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := run(t, "--log-level", "verbose", "tokenize", "x"); err == nil {
		t.Error("expected error for invalid log level")
	}
}
