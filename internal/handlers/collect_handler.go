package handlers

import (
	"chatlead-backend/internal/models"
	"chatlead-backend/pkg/httputil"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
)

// maxPayloadBytes caps inbound JSON bodies at 200 KB.
const maxPayloadBytes = 200 << 10

// CollectService defines the interface expected from the ingestion service.
type CollectService interface {
	Collect(ctx context.Context, payload map[string]interface{}) models.CollectResponse
}

type CollectHandler struct {
	collectService CollectService
}

func NewCollectHandler(collectSvc CollectService) *CollectHandler {
	return &CollectHandler{
		collectService: collectSvc,
	}
}

// HandleCollect handles POST /api/collect-chat-data.
// The payload is an arbitrary JSON object; every field the caller sends is
// carried through into the persisted lead, so nothing beyond JSON validity
// is rejected here.
func (h *CollectHandler) HandleCollect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	defer r.Body.Close()

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		// An empty body counts as an empty payload; anything else malformed
		// is a client error.
		if errors.Is(err, io.EOF) {
			payload = map[string]interface{}{}
		} else {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				httputil.RespondError(w, http.StatusRequestEntityTooLarge, "Request payload too large")
				return
			}
			log.Printf("WARN [CollectHandler] HandleCollect: invalid payload: %v", err)
			httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	resp := h.collectService.Collect(r.Context(), payload)
	httputil.RespondJSON(w, http.StatusOK, resp)
}
