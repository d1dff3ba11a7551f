package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/wonny/underwriter/internal/quote"
	"github.com/wonny/underwriter/internal/strategy"
	"github.com/wonny/underwriter/internal/underwriter"
	"github.com/wonny/underwriter/pkg/logger"
)

// QuoteService is the underwriting surface the HTTP API needs
type QuoteService interface {
	CreateQuote(ctx context.Context, req underwriter.CreateRequest) (underwriter.Result, error)
	CompleteQuote(ctx context.Context, id uuid.UUID, data quote.Data) (underwriter.Result, error)
	GetQuote(ctx context.Context, id uuid.UUID) (*quote.Quote, error)
	QuotesForMember(ctx context.Context, memberID string) ([]quote.Quote, error)
	InsuranceCost(q quote.Quote) (strategy.InsuranceCost, error)
	MarkSigned(ctx context.Context, id, agreementID, contractID uuid.UUID) (*quote.Quote, error)
}

// QuoteHandler handles quote API endpoints
// ⭐ SSOT: 견적 API 핸들러는 이 구조체에서만
type QuoteHandler struct {
	service QuoteService
	logger  *logger.Logger
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(service QuoteService, log *logger.Logger) *QuoteHandler {
	return &QuoteHandler{service: service, logger: log}
}

// CreateQuoteRequest is the body of POST /api/quotes.
// Data is the untagged payload of Variant.
type CreateQuoteRequest struct {
	Variant                quote.Variant   `json:"variant"`
	Data                   json.RawMessage `json:"data"`
	InitiatedFrom          quote.Channel   `json:"initiatedFrom"`
	AttributedTo           quote.Partner   `json:"attributedTo,omitempty"`
	CurrentInsurer         *string         `json:"currentInsurer,omitempty"`
	StartDate              *quote.Date     `json:"startDate,omitempty"`
	MemberID               *string         `json:"memberId,omitempty"`
	OriginatingProductID   *uuid.UUID      `json:"originatingProductId,omitempty"`
	UnderwritingBypassedBy *string         `json:"underwritingBypassedBy,omitempty"`
}

// CompleteQuoteRequest is the body of POST /api/quotes/{id}/complete
type CompleteQuoteRequest struct {
	Variant quote.Variant   `json:"variant"`
	Data    json.RawMessage `json:"data"`
}

// SignedRequest is the body of POST /api/quotes/{id}/signed
type SignedRequest struct {
	AgreementID uuid.UUID `json:"agreementId"`
	ContractID  uuid.UUID `json:"contractId"`
}

// QuoteResponse is a stored quote with its cost when priced
type QuoteResponse struct {
	Quote         quote.Quote             `json:"quote"`
	PriceReused   bool                    `json:"priceReused,omitempty"`
	InsuranceCost *strategy.InsuranceCost `json:"insuranceCost,omitempty"`
}

// CreateQuote underwrites a new quote
// POST /api/quotes
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body")
		return
	}
	if req.InitiatedFrom == "" {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "initiatedFrom is required")
		return
	}

	data, err := quote.DecodeVariant(req.Variant, req.Data)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	result, err := h.service.CreateQuote(r.Context(), underwriter.CreateRequest{
		Data:                   data,
		InitiatedFrom:          req.InitiatedFrom,
		AttributedTo:           req.AttributedTo,
		CurrentInsurer:         req.CurrentInsurer,
		StartDate:              req.StartDate,
		MemberID:               req.MemberID,
		OriginatingProductID:   req.OriginatingProductID,
		UnderwritingBypassedBy: req.UnderwritingBypassedBy,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.respondResult(w, http.StatusCreated, result)
}

// GetQuote returns a stored quote
// GET /api/quotes/{id}
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}

	q, err := h.service.GetQuote(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, h.toResponse(*q, false))
}

// CompleteQuote adds the missing data of an INCOMPLETE quote and underwrites it
// POST /api/quotes/{id}/complete
func (h *QuoteHandler) CompleteQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}

	var req CompleteQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body")
		return
	}
	data, err := quote.DecodeVariant(req.Variant, req.Data)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	result, err := h.service.CompleteQuote(r.Context(), id, data)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.respondResult(w, http.StatusOK, result)
}

// MarkSigned records the agreement created for a quote
// POST /api/quotes/{id}/signed
func (h *QuoteHandler) MarkSigned(w http.ResponseWriter, r *http.Request) {
	id, ok := quoteID(w, r)
	if !ok {
		return
	}

	var req SignedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request body")
		return
	}
	if req.AgreementID == uuid.Nil || req.ContractID == uuid.Nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "agreementId and contractId are required")
		return
	}

	q, err := h.service.MarkSigned(r.Context(), id, req.AgreementID, req.ContractID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, h.toResponse(*q, false))
}

// MemberQuotesResponse lists a member's quotes, oldest first
type MemberQuotesResponse struct {
	MemberID string          `json:"memberId"`
	Quotes   []QuoteResponse `json:"quotes"`
}

// QuotesForMember lists the quotes of a member
// GET /api/members/{memberId}/quotes
func (h *QuoteHandler) QuotesForMember(w http.ResponseWriter, r *http.Request) {
	memberID := strings.TrimSpace(mux.Vars(r)["memberId"])
	if memberID == "" {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid member id")
		return
	}

	quotes, err := h.service.QuotesForMember(r.Context(), memberID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	resp := MemberQuotesResponse{MemberID: memberID, Quotes: make([]QuoteResponse, 0, len(quotes))}
	for _, q := range quotes {
		resp.Quotes = append(resp.Quotes, h.toResponse(q, false))
	}
	respondJSON(w, http.StatusOK, resp)
}

// respondResult writes a rejection as 422 with its breached guidelines;
// the rejected quote is stored and its id is returned.
func (h *QuoteHandler) respondResult(w http.ResponseWriter, status int, result underwriter.Result) {
	if result.Rejected {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Code:               CodeBreachesGuidelines,
			Message:            fmt.Sprintf("quote breaches %d underwriting guideline(s)", len(result.BreachedGuidelines)),
			QuoteID:            result.Quote.ID.String(),
			BreachedGuidelines: result.BreachedGuidelines,
		})
		return
	}
	respondJSON(w, status, h.toResponse(result.Quote, result.PriceReused))
}

func (h *QuoteHandler) toResponse(q quote.Quote, priceReused bool) QuoteResponse {
	resp := QuoteResponse{Quote: q, PriceReused: priceReused}
	if q.HasPrice() {
		cost, err := h.service.InsuranceCost(q)
		if err != nil {
			h.logger.WithError(err).WithField("quote_id", q.ID.String()).Warn("Failed to compute insurance cost")
		} else {
			resp.InsuranceCost = &cost
		}
	}
	return resp
}

func quoteID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid quote id")
		return uuid.Nil, false
	}
	return id, true
}
