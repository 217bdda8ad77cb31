package recordstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/joonpark/srnav/internal/contract"
	"github.com/joonpark/srnav/schema"
)

// MemoryStore keeps records in process memory. It backs the MCP server when
// no database is configured and stands in for a real store in tests.
type MemoryStore struct {
	mu         sync.RWMutex
	srs        map[string]schema.SRRecord
	incidents  map[string]schema.IncidentRecord
	lastImport time.Time
}

var _ contract.RecordStore = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		srs:       make(map[string]schema.SRRecord),
		incidents: make(map[string]schema.IncidentRecord),
	}
}

// PutSRRecords upserts SR records by ID.
func (m *MemoryStore) PutSRRecords(_ context.Context, records []schema.SRRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.srs[r.ID] = r
	}
	m.lastImport = time.Now()
	return nil
}

// PutIncidentRecords upserts incident records by ID.
func (m *MemoryStore) PutIncidentRecords(_ context.Context, records []schema.IncidentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.incidents[r.ID] = r
	}
	m.lastImport = time.Now()
	return nil
}

// SRRecords returns every stored service request in ID order.
func (m *MemoryStore) SRRecords(_ context.Context) ([]schema.SRRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := make([]schema.SRRecord, 0, len(m.srs))
	for _, r := range m.srs {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// IncidentRecords returns every stored incident in ID order.
func (m *MemoryStore) IncidentRecords(_ context.Context) ([]schema.IncidentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := make([]schema.IncidentRecord, 0, len(m.incidents))
	for _, r := range m.incidents {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// Clear removes every stored record.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.srs = make(map[string]schema.SRRecord)
	m.incidents = make(map[string]schema.IncidentRecord)
	return nil
}

// GetStatus returns status information about the in-memory store.
func (m *MemoryStore) GetStatus() (schema.StoreStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return schema.StoreStatus{
		Backend:        "memory",
		Connected:      true,
		SRCount:        len(m.srs),
		IncidentCount:  len(m.incidents),
		LastImportTime: m.lastImport,
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
