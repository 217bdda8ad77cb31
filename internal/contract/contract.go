// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/joonpark/srnav/schema"
)

// Sentinel errors shared across the engines and the record store.
var (
	// ErrInvalidQuery is returned when a query has neither title nor description.
	ErrInvalidQuery = errors.New("query must include a title or a description")

	// ErrEngineUnavailable wraps a provider failure for a single engine.
	ErrEngineUnavailable = errors.New("search engine unavailable")

	// ErrNoEvidence is returned when every engine fails and there is nothing
	// to hand to the risk-narrative stage.
	ErrNoEvidence = errors.New("no evidence available: all search engines failed")
)

// RecordProvider supplies the record collections the engines score against.
// This allows the core scoring logic to be tested without a real database.
type RecordProvider interface {
	// SRRecords returns every service request candidate.
	SRRecords(ctx context.Context) ([]schema.SRRecord, error)

	// IncidentRecords returns every incident candidate.
	IncidentRecords(ctx context.Context) ([]schema.IncidentRecord, error)
}

// RecordStore persists record collections and serves them back as a provider.
// This allows the storage layer to be mocked for testing.
type RecordStore interface {
	RecordProvider

	// PutSRRecords upserts SR records by ID.
	PutSRRecords(ctx context.Context, records []schema.SRRecord) error

	// PutIncidentRecords upserts incident records by ID.
	PutIncidentRecords(ctx context.Context, records []schema.IncidentRecord) error

	// Clear removes every stored record.
	Clear(ctx context.Context) error

	// GetStatus returns status information about the record store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}
