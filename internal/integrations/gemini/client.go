package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-pro"

	// NotConfiguredDetail is the fixed reply recorded when no upstream API
	// key is configured. The service degrades to this sentinel instead of
	// failing the request.
	NotConfiguredDetail = "Gemini service not configured."

	maxOutputTokens = 300
	maxResponseBody = 1 << 20
)

// generateRequest is the minimal request shape for the generateContent
// endpoint. Each call is stateless and self-contained; no multi-turn history
// is modeled.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens"`
}

// Client is a focused Generative Language API client for single-prompt
// completions. The zero API key case is handled internally so callers never
// need to special-case unconfigured deployments.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the upstream endpoint (used by tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client. An empty apiKey is valid and makes every Ask
// short-circuit to the not-configured sentinel without a network call.
func NewClient(apiKey, model string, opts ...Option) *Client {
	if model == "" {
		model = defaultModel
	}
	c := &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an upstream API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) generateURL() string {
	base := strings.TrimRight(c.baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	return base + "/v1beta/models/" + c.model + ":generateContent"
}

// Ask sends a single prompt upstream and returns the normalized result.
// Transport failures, non-JSON bodies and API-level errors all come back as
// failure replies; Ask never returns an error and never retries.
func (c *Client) Ask(ctx context.Context, prompt string) NormalizedReply {
	if !c.Configured() {
		return failureReply(ReplyUpstreamError, NotConfiguredDetail)
	}

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{MaxOutputTokens: maxOutputTokens},
	})
	if err != nil {
		return failureReply(ReplyUpstreamError, "marshal request: "+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.generateURL(), bytes.NewReader(body))
	if err != nil {
		return failureReply(ReplyUpstreamError, "create request: "+err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		log.Printf("ERROR [GeminiClient] Ask: request failed: %v", err)
		return failureReply(ReplyUpstreamError, "request failed: "+err.Error())
	}
	defer func() { _ = res.Body.Close() }()

	// API-level errors arrive as JSON bodies on non-2xx statuses; the
	// normalizer's error.message step classifies them, so the body is
	// normalized regardless of status code.
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		log.Printf("ERROR [GeminiClient] Ask: read response body: %v", err)
		return failureReply(ReplyUpstreamError, "read response body: "+err.Error())
	}

	reply := Normalize(raw)
	if !reply.IsText() {
		log.Printf("WARN [GeminiClient] Ask: upstream reply not usable (status %d, kind %s): %s", res.StatusCode, reply.Kind, reply.Detail)
	}
	return reply
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}
