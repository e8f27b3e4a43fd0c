package semantic

import (
	"reflect"
	"testing"
)

func TestNewDictionary_FirstSeenOrder(t *testing.T) {
	d := NewDictionary([][]string{
		{"root", "growth", "root"},
		{"bone", "growth"},
		{},
		{"mouse"},
	})

	want := map[string]int{"root": 0, "growth": 1, "bone": 2, "mouse": 3}
	for tok, id := range want {
		got, ok := d.ID(tok)
		if !ok || got != id {
			t.Errorf("ID(%q) = %d,%v want %d", tok, got, ok, id)
		}
		back, ok := d.Token(id)
		if !ok || back != tok {
			t.Errorf("Token(%d) = %q,%v want %q", id, back, ok, tok)
		}
	}
	if d.Len() != 4 || d.NumIDs() != 4 {
		t.Errorf("Len()=%d NumIDs()=%d, want 4/4", d.Len(), d.NumIDs())
	}
}

func TestNewDictionary_Empty(t *testing.T) {
	d := NewDictionary(nil)
	if d.Len() != 0 || d.NumIDs() != 0 {
		t.Errorf("empty dictionary Len()=%d NumIDs()=%d", d.Len(), d.NumIDs())
	}
	if bow := d.DocToBOW([]string{"x"}); len(bow) != 0 {
		t.Errorf("DocToBOW on empty dictionary = %v", bow)
	}
}

func TestDictionary_FilterDoesNotRenumber(t *testing.T) {
	d := NewDictionary([][]string{{"hello", "root", "could", "growth", "come"}})

	removed := d.Filter(DefaultDomainStoplist)
	if !reflect.DeepEqual(removed, []int{0, 2, 4}) {
		t.Errorf("removed = %v, want [0 2 4]", removed)
	}
	if id, _ := d.ID("root"); id != 1 {
		t.Errorf("root renumbered to %d", id)
	}
	if id, _ := d.ID("growth"); id != 3 {
		t.Errorf("growth renumbered to %d", id)
	}
	if _, ok := d.ID("hello"); ok {
		t.Error("hello should be removed")
	}
	if _, ok := d.Token(0); ok {
		t.Error("id 0 should be unused")
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}
	if d.NumIDs() != 5 {
		t.Errorf("NumIDs() = %d, want 5 (gaps kept)", d.NumIDs())
	}
}

func TestDictionary_FilterAbsentTokens(t *testing.T) {
	d := NewDictionary([][]string{{"root"}})
	if removed := d.Filter([]string{"hello", "go"}); len(removed) != 0 {
		t.Errorf("removed = %v, want none", removed)
	}
	if removed := d.Filter(nil); len(removed) != 0 {
		t.Errorf("nil stoplist removed %v", removed)
	}
}

func TestDictionary_DocToBOW(t *testing.T) {
	d := NewDictionary([][]string{{"root", "growth", "bone", "come"}})
	d.Filter([]string{"come"})

	got := d.DocToBOW([]string{"bone", "root", "unknown", "root", "come"})
	want := BOW{{ID: 0, Count: 2}, {ID: 2, Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DocToBOW = %v, want %v", got, want)
	}
}

func TestDictionary_CorpusToBOW(t *testing.T) {
	docs := [][]string{{"a1", "b1"}, {}, {"b1", "b1"}}
	d := NewDictionary(docs)
	got := d.CorpusToBOW(docs)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if len(got[1]) != 0 {
		t.Errorf("empty doc bow = %v", got[1])
	}
	if !reflect.DeepEqual(got[2], BOW{{ID: 1, Count: 2}}) {
		t.Errorf("doc 2 bow = %v", got[2])
	}
}
