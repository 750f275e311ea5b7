package models

// --- Response Structs ---

// Sub-step status values reported alongside the legacy flat fields, so
// consumers can distinguish "pipeline ran" from "AI call succeeded".
const (
	StatusOK                 = "ok"
	StatusUpstreamError      = "upstream_error"
	StatusContentBlocked     = "content_blocked"
	StatusUnrecognized       = "unrecognized"
	StatusSaved              = "saved"
	StatusWriteFailed        = "write_failed"
	StatusStoreNotConfigured = "not_configured"
)

// CollectResponse is the body returned by POST /api/collect-chat-data.
// OK means the pipeline completed a full pass; it does NOT imply the AI call
// succeeded. That distinction is carried by AIStatus and the reply content.
type CollectResponse struct {
	OK          bool   `json:"ok"`
	AIReply     string `json:"aiReply"`
	Saved       bool   `json:"saved"`
	SessionID   string `json:"sessionId"`
	AuthStatus  string `json:"authStatus"`
	AIStatus    string `json:"aiStatus"`
	StoreStatus string `json:"storeStatus"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthEnvironment reports which external collaborators are configured.
// Purely configuration presence, no liveness probing.
type HealthEnvironment struct {
	StoreConfigured  bool `json:"store_configured"`
	GeminiConfigured bool `json:"gemini_configured"`
	APIKeyConfigured bool `json:"api_key_configured"`
}

// HealthResponse is the body returned by GET /api/health.
type HealthResponse struct {
	Status      string            `json:"status"`
	Time        string            `json:"time"`
	Environment HealthEnvironment `json:"environment"`
}

// RootStatusServices lists collaborator flags for the root status probe.
type RootStatusServices struct {
	Store     bool   `json:"store"`
	Gemini    bool   `json:"gemini"`
	Timestamp string `json:"timestamp"`
}

// RootStatusResponse is the body returned by GET /.
type RootStatusResponse struct {
	Status   string             `json:"status"`
	Message  string             `json:"message"`
	Services RootStatusServices `json:"services"`
}
