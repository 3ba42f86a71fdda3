package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Volker37318/pronounce-backend/internal/errors"
	"github.com/Volker37318/pronounce-backend/internal/service"
	"github.com/Volker37318/pronounce-backend/pkg/response"
)

// PronounceHandler handles the pronunciation-assessment endpoint.
type PronounceHandler struct {
	log              zerolog.Logger
	pronounceService *service.PronounceService
}

// NewPronounceHandler creates a new Pronounce handler.
func NewPronounceHandler(log zerolog.Logger, pronounceService *service.PronounceService) *PronounceHandler {
	return &PronounceHandler{
		log:              log,
		pronounceService: pronounceService,
	}
}

// Assess handles POST /pronounce
//
// Request: JSON body with targetText, language, audioBase64 and optional
// enableMiscue / audioMime fields. The shared secret is checked by
// middleware before this handler runs.
// Response: { "overallScore": 92, "grade": "excellent", "details": {...} }
func (h *PronounceHandler) Assess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, errors.Validation("invalid request body"))
		return
	}

	result, err := h.pronounceService.Assess(ctx, &req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// handleError is the boundary catch for the request: anticipated AppErrors
// map to their status, anything else is reported as a 500 carrying the
// error's message.
func (h *PronounceHandler) handleError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		response.Error(w, appErr.HTTPStatus(), &response.ErrorBody{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		})
		return
	}
	h.log.Error().Err(err).Msg("Unexpected error in pronounce handler")
	response.InternalError(w, err.Error())
}
