package tshirt

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// HandleGenerate - POST /generate-tshirt
// Tagged upstream failures are answered with 200 and {"error", "details"}.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	var req GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [TShirt] Invalid request: %v", err)
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Invalid request format"})
		return
	}

	if strings.TrimSpace(req.Idea) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "Idea is required"})
		return
	}

	log.Printf("🎨 [TShirt] Processing idea: %s", truncateString(req.Idea, logIdeaPreviewLength))

	response, err := h.service.Generate(r.Context(), req.Idea)
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			writeJSON(w, http.StatusOK, ErrorResponse{Error: genErr.Tag, Details: genErr.Details})
			return
		}

		log.Printf("❌ [TShirt] Generation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  [TShirt] Failed to write response: %v", err)
	}
}
