package postgres

import (
	"chatlead-backend/internal/models"
	"chatlead-backend/internal/store"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.LeadStore
var _ store.LeadStore = (*PostgresStore)(nil)

// PostgresStore keeps leads and property documents in JSONB columns, giving
// the collection/key access pattern the pipeline needs without a fixed
// document schema.
//
// Expected tables:
//
//	CREATE TABLE properties (id uuid PRIMARY KEY, data jsonb NOT NULL);
//	CREATE TABLE chat_leads (id uuid PRIMARY KEY, session_id text NOT NULL,
//	    data jsonb NOT NULL, created_at timestamptz NOT NULL DEFAULT now());
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// QueryMatchingRecords returns up to limit property documents whose JSONB
// field equals value.
func (s *PostgresStore) QueryMatchingRecords(ctx context.Context, field, value string, limit int) ([]models.MatchedRecord, error) {
	log.Printf("[PostgresStore] QueryMatchingRecords called for %s=%s (limit %d)", field, value, limit)
	query := `
		SELECT data
		FROM properties
		WHERE data->>$1 = $2
		LIMIT $3`

	rows, err := s.db.Query(ctx, query, field, value, limit)
	if err != nil {
		log.Printf("ERROR [PostgresStore] QueryMatchingRecords: query failed for %s=%s: %v", field, value, err)
		return nil, fmt.Errorf("database error querying matching records: %w", err)
	}
	defer rows.Close()

	var matches []models.MatchedRecord
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			log.Printf("ERROR [PostgresStore] QueryMatchingRecords: scan failed: %v", err)
			return nil, fmt.Errorf("database error scanning matching record: %w", err)
		}
		var record models.MatchedRecord
		if err := json.Unmarshal(data, &record); err != nil {
			log.Printf("ERROR [PostgresStore] QueryMatchingRecords: unmarshal failed: %v", err)
			return nil, fmt.Errorf("failed to parse matching record: %w", err)
		}
		matches = append(matches, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error iterating matching records: %w", err)
	}

	log.Printf("[PostgresStore] QueryMatchingRecords: found %d record(s) for %s=%s", len(matches), field, value)
	return matches, nil
}

// AppendLead inserts a new lead row. created_at is assigned by the database.
func (s *PostgresStore) AppendLead(ctx context.Context, lead models.LeadRecord) error {
	log.Printf("[PostgresStore] AppendLead called for session %s (lead %s)", lead.SessionID, lead.ID)

	data, err := json.Marshal(lead.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal lead fields: %w", err)
	}

	query := `
		INSERT INTO chat_leads (id, session_id, data)
		VALUES ($1, $2, $3)`

	if _, err := s.db.Exec(ctx, query, lead.ID, lead.SessionID, data); err != nil {
		log.Printf("ERROR [PostgresStore] AppendLead: insert failed for session %s: %v", lead.SessionID, err)
		return fmt.Errorf("database error appending lead: %w", err)
	}

	log.Printf("[PostgresStore] AppendLead: lead %s saved for session %s", lead.ID, lead.SessionID)
	return nil
}
