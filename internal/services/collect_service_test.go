package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"chatlead-backend/internal/integrations/gemini"
	"chatlead-backend/internal/models"
	"chatlead-backend/internal/store"
)

type mockStore struct {
	matches    []models.MatchedRecord
	queryErr   error
	appendErr  error
	queried    bool
	queryField string
	queryValue string
	queryLimit int
	appended   []models.LeadRecord
}

func (m *mockStore) QueryMatchingRecords(_ context.Context, field, value string, limit int) ([]models.MatchedRecord, error) {
	m.queried = true
	m.queryField = field
	m.queryValue = value
	m.queryLimit = limit
	return m.matches, m.queryErr
}

func (m *mockStore) AppendLead(_ context.Context, lead models.LeadRecord) error {
	m.appended = append(m.appended, lead)
	return m.appendErr
}

type mockGateway struct {
	reply   gemini.NormalizedReply
	prompts []string
}

func (m *mockGateway) Ask(_ context.Context, prompt string) gemini.NormalizedReply {
	m.prompts = append(m.prompts, prompt)
	return m.reply
}

func textGateway(text string) *mockGateway {
	return &mockGateway{reply: gemini.NormalizedReply{Kind: gemini.ReplyText, Text: text}}
}

func failureGateway(kind gemini.ReplyKind, detail string) *mockGateway {
	return &mockGateway{reply: gemini.NormalizedReply{Kind: kind, Detail: detail}}
}

func newTestService(s store.LeadStore, ai AIGateway) *CollectService {
	return NewCollectService(s, ai, CollectConfig{
		MatchLimit: 5,
		Prompt: PromptConfig{
			Intro: "You are a professional real estate assistant.",
			Style: "Reply in Arabic, short, friendly, ask next step (contact/visit).",
		},
	})
}

var sessionIDPattern = regexp.MustCompile(`^s_\d+$`)

func TestCollect_GeneratesSessionID(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(st, textGateway("ahlan"))

	resp := svc.Collect(context.Background(), map[string]interface{}{"message": "hi"})

	require.True(t, resp.OK)
	require.Regexp(t, sessionIDPattern, resp.SessionID)
	require.Len(t, st.appended, 1)
	require.Equal(t, resp.SessionID, st.appended[0].SessionID)
}

func TestCollect_KeepsProvidedSessionID(t *testing.T) {
	svc := newTestService(&mockStore{}, textGateway("ok"))
	resp := svc.Collect(context.Background(), map[string]interface{}{"sessionId": "s_12345"})
	require.Equal(t, "s_12345", resp.SessionID)
}

func TestCollect_NilPayload(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(st, textGateway("ok"))

	resp := svc.Collect(context.Background(), nil)

	require.True(t, resp.OK)
	require.Regexp(t, sessionIDPattern, resp.SessionID)
	require.Len(t, st.appended, 1)
	require.Equal(t, "", st.appended[0].Fields["message"])
}

func TestCollect_EnrichmentScenario(t *testing.T) {
	st := &mockStore{matches: []models.MatchedRecord{
		{"city": "Riyadh", "title": "Apartment A"},
		{"city": "Riyadh", "title": "Apartment B"},
	}}
	ai := textGateway("وجدت لك خيارات مناسبة")
	svc := newTestService(st, ai)

	payload := map[string]interface{}{
		"message":    "أبحث عن شقة",
		"parameters": map[string]interface{}{"city": "Riyadh"},
	}
	resp := svc.Collect(context.Background(), payload)

	require.True(t, resp.OK)
	require.Equal(t, "وجدت لك خيارات مناسبة", resp.AIReply)
	require.True(t, resp.Saved)
	require.Regexp(t, sessionIDPattern, resp.SessionID)
	require.Equal(t, models.StatusOK, resp.AIStatus)
	require.Equal(t, models.StatusSaved, resp.StoreStatus)

	require.True(t, st.queried)
	require.Equal(t, "city", st.queryField)
	require.Equal(t, "Riyadh", st.queryValue)
	require.Equal(t, 5, st.queryLimit)

	require.Len(t, ai.prompts, 1)
	require.Contains(t, ai.prompts[0], `The user said: "أبحث عن شقة".`)
	require.Contains(t, ai.prompts[0], "Found 2 matching properties.")

	// Exactly one lead, carrying both the original message and the reply.
	require.Len(t, st.appended, 1)
	lead := st.appended[0]
	require.Equal(t, "أبحث عن شقة", lead.Fields["message"])
	require.Equal(t, "وجدت لك خيارات مناسبة", lead.Fields["aiReply"])
	require.NotEmpty(t, lead.Fields["receivedAt"])
}

func TestCollect_NoCityNoQuery(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(st, textGateway("ok"))

	svc.Collect(context.Background(), map[string]interface{}{"message": "hello"})

	require.False(t, st.queried)
}

func TestCollect_QueryFailureDoesNotAbort(t *testing.T) {
	st := &mockStore{queryErr: errors.New("store down")}
	ai := textGateway("ok")
	svc := newTestService(st, ai)

	resp := svc.Collect(context.Background(), map[string]interface{}{
		"parameters": map[string]interface{}{"city": "Jeddah"},
	})

	require.True(t, resp.OK)
	require.True(t, resp.Saved)
	require.NotContains(t, ai.prompts[0], "matching properties")
}

func TestCollect_AIFailureStillPersists(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(st, failureGateway(gemini.ReplyUpstreamError, "request failed: connection refused"))

	resp := svc.Collect(context.Background(), map[string]interface{}{"message": "hi"})

	require.True(t, resp.OK, "a received lead is never discarded because the AI step failed")
	require.Equal(t, "request failed: connection refused", resp.AIReply)
	require.Equal(t, models.StatusUpstreamError, resp.AIStatus)
	require.Len(t, st.appended, 1)
	require.Equal(t, "request failed: connection refused", st.appended[0].Fields["aiReply"])
}

func TestCollect_ContentBlockedStatus(t *testing.T) {
	svc := newTestService(&mockStore{}, failureGateway(gemini.ReplyContentBlocked, "SAFETY"))
	resp := svc.Collect(context.Background(), map[string]interface{}{})
	require.Equal(t, models.StatusContentBlocked, resp.AIStatus)
	require.Equal(t, "SAFETY", resp.AIReply)
}

func TestCollect_StoreWriteFailure(t *testing.T) {
	st := &mockStore{appendErr: errors.New("insert failed")}
	svc := newTestService(st, textGateway("reply"))

	resp := svc.Collect(context.Background(), map[string]interface{}{})

	require.True(t, resp.OK)
	require.False(t, resp.Saved)
	require.Equal(t, models.StatusWriteFailed, resp.StoreStatus)
	require.Equal(t, "reply", resp.AIReply, "aiReply stays populated when persistence fails")
}

func TestCollect_NoopStoreNotConfigured(t *testing.T) {
	svc := newTestService(store.NewNoopStore(), failureGateway(gemini.ReplyUpstreamError, gemini.NotConfiguredDetail))

	resp := svc.Collect(context.Background(), map[string]interface{}{"message": "hi"})

	require.True(t, resp.OK)
	require.False(t, resp.Saved)
	require.Equal(t, models.StatusStoreNotConfigured, resp.StoreStatus)
	require.Equal(t, gemini.NotConfiguredDetail, resp.AIReply)
}

func TestCollect_ExtraFieldsPassThrough(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(st, textGateway("ok"))

	payload := map[string]interface{}{
		"message": "hi",
		"phone":   "0501234567",
		"source":  "landing-page",
	}
	svc.Collect(context.Background(), payload)

	require.Len(t, st.appended, 1)
	require.Equal(t, "0501234567", st.appended[0].Fields["phone"])
	require.Equal(t, "landing-page", st.appended[0].Fields["source"])
}

func TestCollect_AuthStatusAlwaysOK(t *testing.T) {
	// The gate runs upstream of the service; any pass that reaches Collect
	// was authorized.
	svc := newTestService(&mockStore{}, textGateway("ok"))
	resp := svc.Collect(context.Background(), map[string]interface{}{})
	require.Equal(t, models.StatusOK, resp.AuthStatus)
}
