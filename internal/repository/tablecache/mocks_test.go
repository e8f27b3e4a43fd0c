package tablecache

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/studysearch/internal/db"
	"github.com/kailas-cloud/studysearch/internal/domain/study"
)

type mockFetcher struct {
	table study.Table
	err   error
	calls int
}

func (m *mockFetcher) Fetch(_ context.Context, _ string) (study.Table, error) {
	m.calls++
	return m.table, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

// memStore is a map-backed store for round-trip tests.
type memStore struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func sampleTable() study.Table {
	return study.NewTable([]study.Record{
		{Accession: "OSD-1", Title: "Root growth", Description: "Plants", SourceType: study.SourceOSDR},
		{Accession: "PRJ9", Title: "Muscle proteome", Description: "", SourceType: study.SourceEBIPride},
	})
}

func newTestFetcher(t *testing.T, inner *mockFetcher, s store) *CachedFetcher {
	t.Helper()
	cf, err := New(inner, s, 5*time.Minute, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return cf
}
