package store

import (
	"chatlead-backend/internal/models"
	"context"
	"errors"
	"log"
)

// ErrNotConfigured is returned by the no-op store; the orchestrator folds it
// into a saved=false response rather than failing the request.
var ErrNotConfigured = errors.New("lead store not configured")

// LeadStore defines the document-store operations used by the ingestion
// pipeline. The store is append-only from this system's perspective: there
// are no update or delete operations.
type LeadStore interface {
	// QueryMatchingRecords returns documents whose field equals value, up to
	// limit. Best-effort read used only for prompt enrichment.
	QueryMatchingRecords(ctx context.Context, field, value string, limit int) ([]models.MatchedRecord, error)

	// AppendLead writes a new lead record. Each request appends its own
	// record; duplicates across retries are acceptable by design.
	AppendLead(ctx context.Context, lead models.LeadRecord) error
}

// NoopStore stands in when no store credentials are configured. Reads come
// back empty and writes report ErrNotConfigured, which the pipeline surfaces
// as saved=false while still answering the client.
type NoopStore struct{}

var _ LeadStore = (*NoopStore)(nil)

func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

func (s *NoopStore) QueryMatchingRecords(_ context.Context, field, value string, _ int) ([]models.MatchedRecord, error) {
	log.Printf("[NoopStore] QueryMatchingRecords skipped (%s=%s): store not configured", field, value)
	return nil, nil
}

func (s *NoopStore) AppendLead(_ context.Context, lead models.LeadRecord) error {
	// Matches the original behavior of logging the payload when the store is
	// unavailable, so leads are at least recoverable from logs.
	log.Printf("[NoopStore] Lead logged only (store not configured): session=%s fields=%v", lead.SessionID, lead.Fields)
	return ErrNotConfigured
}
