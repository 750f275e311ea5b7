package services

import (
	"context"
	"errors"
	"log"
	"time"

	"chatlead-backend/internal/integrations/gemini"
	"chatlead-backend/internal/models"
	"chatlead-backend/internal/store"
)

const defaultMatchLimit = 5

// AIGateway is the upstream AI call consumed by the orchestrator.
type AIGateway interface {
	Ask(ctx context.Context, prompt string) gemini.NormalizedReply
}

// CollectConfig tunes the orchestrator.
type CollectConfig struct {
	MatchLimit int
	Prompt     PromptConfig
}

// CollectService is the ingestion orchestrator: it sequences payload
// normalization, optional store enrichment, the AI call and lead persistence,
// and folds every downstream failure into a completed response. Only the
// credential gate (upstream of this service) can abort a request early.
type CollectService struct {
	store      store.LeadStore
	ai         AIGateway
	matchLimit int
	prompt     PromptConfig
}

// NewCollectService creates a CollectService.
func NewCollectService(leadStore store.LeadStore, ai AIGateway, cfg CollectConfig) *CollectService {
	limit := cfg.MatchLimit
	if limit <= 0 {
		limit = defaultMatchLimit
	}
	return &CollectService{
		store:      leadStore,
		ai:         ai,
		matchLimit: limit,
		prompt:     cfg.Prompt,
	}
}

// Collect runs one full ingestion pass over an inbound payload. The pass is
// single-shot: no retries, and nothing downstream of authentication aborts
// it. The AI failure detail, if any, is recorded as the reply text so a
// received lead is never discarded.
func (s *CollectService) Collect(ctx context.Context, payload map[string]interface{}) models.CollectResponse {
	receivedAt := time.Now().UTC()

	if payload == nil {
		payload = map[string]interface{}{}
	}

	sessionID, _ := payload["sessionId"].(string)
	if sessionID == "" {
		sessionID = models.NewSessionID()
	}
	payload["sessionId"] = sessionID

	message, _ := payload["message"].(string)
	payload["message"] = message

	// Best-effort enrichment: a missing city or an unavailable store never
	// aborts the pipeline, an empty match list is fine.
	var matches []models.MatchedRecord
	if city := cityFilter(payload); city != "" {
		found, err := s.store.QueryMatchingRecords(ctx, "city", city, s.matchLimit)
		if err != nil {
			log.Printf("WARN [CollectService] Collect: enrichment query failed for city %q: %v", city, err)
		} else {
			matches = found
		}
	}

	prompt := BuildPrompt(s.prompt, message, matches)
	reply := s.ai.Ask(ctx, prompt)
	aiReply := reply.PersistedText()

	lead := models.NewLeadRecord(sessionID, payload, receivedAt, aiReply)
	saved := true
	storeStatus := models.StatusSaved
	if err := s.store.AppendLead(ctx, lead); err != nil {
		saved = false
		storeStatus = models.StatusWriteFailed
		if errors.Is(err, store.ErrNotConfigured) {
			storeStatus = models.StatusStoreNotConfigured
		}
		log.Printf("WARN [CollectService] Collect: lead not persisted for session %s: %v", sessionID, err)
	}

	return models.CollectResponse{
		OK:          true,
		AIReply:     aiReply,
		Saved:       saved,
		SessionID:   sessionID,
		AuthStatus:  models.StatusOK,
		AIStatus:    aiStatus(reply),
		StoreStatus: storeStatus,
	}
}

// cityFilter pulls the optional parameters.city filter out of the payload.
func cityFilter(payload map[string]interface{}) string {
	params, ok := payload["parameters"].(map[string]interface{})
	if !ok {
		return ""
	}
	city, _ := params["city"].(string)
	return city
}

func aiStatus(reply gemini.NormalizedReply) string {
	switch reply.Kind {
	case gemini.ReplyText:
		return models.StatusOK
	case gemini.ReplyContentBlocked:
		return models.StatusContentBlocked
	case gemini.ReplyUnrecognized:
		return models.StatusUnrecognized
	default:
		return models.StatusUpstreamError
	}
}
