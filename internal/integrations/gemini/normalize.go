package gemini

import "encoding/json"

// ReplyKind classifies a NormalizedReply.
type ReplyKind string

const (
	ReplyText           ReplyKind = "TEXT"
	ReplyUpstreamError  ReplyKind = "UPSTREAM_ERROR"
	ReplyContentBlocked ReplyKind = "CONTENT_BLOCKED"
	ReplyUnrecognized   ReplyKind = "UNRECOGNIZED"
)

// maxRawDetail bounds the raw-payload detail attached to UNRECOGNIZED
// failures so failure payloads stay loggable.
const maxRawDetail = 800

// NormalizedReply is the tagged result of normalizing an upstream response:
// either a usable reply text (Kind == ReplyText) or a failure classification
// with a diagnostic detail. Exactly one variant is produced per call; the
// pipeline never reports an empty string as success.
type NormalizedReply struct {
	Kind   ReplyKind
	Text   string // reply text, set only when Kind == ReplyText
	Detail string // failure diagnostic, set for every other Kind
}

// IsText reports whether the reply carries usable text.
func (r NormalizedReply) IsText() bool {
	return r.Kind == ReplyText
}

// PersistedText returns the string recorded on the lead: the reply text on
// success, the failure detail otherwise. A received lead is never discarded
// merely because the AI step failed.
func (r NormalizedReply) PersistedText() string {
	if r.Kind == ReplyText {
		return r.Text
	}
	return r.Detail
}

func textReply(text string) NormalizedReply {
	return NormalizedReply{Kind: ReplyText, Text: text}
}

func failureReply(kind ReplyKind, detail string) NormalizedReply {
	return NormalizedReply{Kind: kind, Detail: detail}
}

// generateResponse is a permissive superset of the response shapes the
// Generative Language API has used across versions. All fields are optional;
// Normalize decides which one wins.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		Output string `json:"output"` // pre-generateContent schema
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Text string `json:"text"`
}

// Normalize deterministically extracts a reply or a failure classification
// from a raw upstream response body. The upstream schema has changed across
// versions, so extraction walks a fixed priority order and the first match
// wins:
//
//  1. candidates[0].content.parts[0].text (current schema)
//  2. candidates[0].output                (older schema)
//  3. promptFeedback.blockReason          -> CONTENT_BLOCKED
//  4. error.message                       -> UPSTREAM_ERROR
//  5. top-level text
//  6. UNRECOGNIZED with the raw payload truncated to maxRawDetail
//
// Reordering these steps changes observable behavior for payloads matching
// more than one pattern, so the order is a versioned contract covered by
// tests.
func Normalize(raw []byte) NormalizedReply {
	var resp generateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return failureReply(ReplyUpstreamError, "non-JSON response body: "+err.Error())
	}

	if len(resp.Candidates) > 0 {
		first := resp.Candidates[0]
		if len(first.Content.Parts) > 0 && first.Content.Parts[0].Text != "" {
			return textReply(first.Content.Parts[0].Text)
		}
		if first.Output != "" {
			return textReply(first.Output)
		}
	}
	if resp.PromptFeedback.BlockReason != "" {
		return failureReply(ReplyContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if resp.Error.Message != "" {
		return failureReply(ReplyUpstreamError, resp.Error.Message)
	}
	if resp.Text != "" {
		return textReply(resp.Text)
	}
	return failureReply(ReplyUnrecognized, truncateDetail(string(raw), maxRawDetail))
}

// truncateDetail caps s at limit characters (runes, not bytes, so multi-byte
// payloads are never split mid-character).
func truncateDetail(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
