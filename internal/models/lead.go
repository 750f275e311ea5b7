package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchedRecord is a read-only projection of a document from the store,
// used only to enrich the prompt. Field set is whatever the document holds.
type MatchedRecord map[string]interface{}

// LeadRecord is the append-only persisted unit for one chat exchange.
// Fields carries the full inbound payload (with defaults applied) plus
// receivedAt and aiReply; created_at is assigned by the store on write.
type LeadRecord struct {
	ID        uuid.UUID
	SessionID string
	Fields    map[string]interface{}
}

// NewLeadRecord assembles a LeadRecord from the normalized payload and the
// AI reply. The payload map is copied so the caller's map is never mutated.
func NewLeadRecord(sessionID string, payload map[string]interface{}, receivedAt time.Time, aiReply string) LeadRecord {
	fields := make(map[string]interface{}, len(payload)+2)
	for k, v := range payload {
		fields[k] = v
	}
	fields["receivedAt"] = receivedAt.UTC().Format(time.RFC3339)
	fields["aiReply"] = aiReply

	return LeadRecord{
		ID:        uuid.New(),
		SessionID: sessionID,
		Fields:    fields,
	}
}

// NewSessionID generates a session identifier for payloads that arrive
// without one. Two requests in the same millisecond may collide; that is a
// documented limitation, and lead rows carry their own UUID identity so
// colliding sessions never overwrite each other.
func NewSessionID() string {
	return fmt.Sprintf("s_%d", time.Now().UnixMilli())
}
