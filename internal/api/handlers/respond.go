package handlers

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/wonny/underwriter/internal/quote"
	"github.com/wonny/underwriter/internal/underwriter"
	"github.com/wonny/underwriter/pkg/logger"
)

// Error codes returned in error bodies
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeNotFound           = "QUOTE_NOT_FOUND"
	CodeBlocked            = "QUOTE_BLOCKED_BY_EXISTING_AGREEMENT"
	CodeIncompleteData     = "QUOTE_DATA_INCOMPLETE"
	CodeInvalidState       = "INVALID_QUOTE_STATE"
	CodeExpired            = "QUOTE_EXPIRED"
	CodeBreachesGuidelines = "MEMBER_BREACHES_UW_GUIDELINES"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Code               string   `json:"code"`
	Message            string   `json:"message"`
	QuoteID            string   `json:"quoteId,omitempty"`
	BreachedGuidelines []string `json:"breachedGuidelines,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// respondServiceError maps underwriting errors to HTTP statuses.
// Unknown errors are logged and hidden behind a 500.
func respondServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, quote.ErrNotFound):
		respondError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, underwriter.ErrQuoteBlocked):
		respondError(w, http.StatusConflict, CodeBlocked, err.Error())
	case errors.Is(err, underwriter.ErrMissingQuoteData):
		respondError(w, http.StatusUnprocessableEntity, CodeIncompleteData, err.Error())
	case errors.Is(err, underwriter.ErrQuoteExpired):
		respondError(w, http.StatusConflict, CodeExpired, err.Error())
	case errors.Is(err, underwriter.ErrInvalidState):
		respondError(w, http.StatusConflict, CodeInvalidState, err.Error())
	default:
		log.WithError(err).Error("Request failed")
		respondError(w, http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}
