package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/underwriter/internal/api/handlers"
	"github.com/wonny/underwriter/internal/guideline"
	"github.com/wonny/underwriter/internal/metrics"
	"github.com/wonny/underwriter/internal/quote"
	"github.com/wonny/underwriter/internal/quotestore"
	"github.com/wonny/underwriter/internal/requote"
	"github.com/wonny/underwriter/internal/strategy"
	"github.com/wonny/underwriter/internal/underwriter"
	"github.com/wonny/underwriter/pkg/logger"
)

type greenDebt struct{}

func (greenDebt) Check(context.Context, string) (guideline.DebtFlag, error) {
	return guideline.DebtGreen, nil
}

type activeAgreements struct{}

func (activeAgreements) AgreementStatus(context.Context, uuid.UUID) (quote.AgreementStatus, error) {
	return quote.AgreementActive, nil
}

type fixedPrice struct{}

func (fixedPrice) Price(context.Context, quote.Quote) (decimal.Decimal, error) {
	return decimal.NewFromInt(99), nil
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type testServer struct {
	handler http.Handler
	store   *quotestore.Memory
}

func newTestServer(t *testing.T, mode underwriter.GateMode, deps map[string]handlers.Pinger) *testServer {
	t.Helper()
	log := logger.NewNop()
	store := quotestore.NewMemory()

	cfg := underwriter.DefaultConfig()
	cfg.BlockMode = mode

	uw := underwriter.New(
		store,
		strategy.NewDispatcher(nil, greenDebt{}),
		requote.NewEngine(store, activeAgreements{}, nil, log, requote.DefaultConfig()),
		fixedPrice{},
		nil,
		log,
		cfg,
	)

	router := NewRouter(
		handlers.NewQuoteHandler(uw, log),
		handlers.NewHealthHandler("underwriter", deps),
		metrics.New().Handler(),
		log,
	)
	return &testServer{handler: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

const apartmentData = `{
	"ssn": "199110112399",
	"firstName": "Test",
	"lastName": "Testsson",
	"street": "ApStreet 1234",
	"zipCode": "12345",
	"householdSize": %d,
	"livingSpace": 40,
	"subType": "RENT"
}`

func createBody(householdSize int) string {
	data := fmt.Sprintf(apartmentData, householdSize)
	return `{"variant":"apartment","initiatedFrom":"WEBONBOARDING","startDate":"2024-07-01","data":` + data + `}`
}

func decodeQuote(t *testing.T, rec *httptest.ResponseRecorder) handlers.QuoteResponse {
	t.Helper()
	var resp handlers.QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handlers.ErrorResponse {
	t.Helper()
	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestCreateAndGetQuote(t *testing.T) {
	s := newTestServer(t, underwriter.GateModeShadow, nil)

	rec := s.do(t, http.MethodPost, "/api/quotes", createBody(2))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeQuote(t, rec)
	assert.Equal(t, quote.StateQuoted, created.Quote.State)
	require.NotNil(t, created.Quote.Price)
	assert.Equal(t, "99", created.Quote.Price.String())
	require.NotNil(t, created.InsuranceCost)
	assert.Equal(t, "SEK", created.InsuranceCost.Currency)
	_, ok := created.Quote.Data.(quote.SwedishApartment)
	assert.True(t, ok)

	rec = s.do(t, http.MethodGet, "/api/quotes/"+created.Quote.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.Quote.ID, decodeQuote(t, rec).Quote.ID)
}

func TestQuotesForMember(t *testing.T) {
	s := newTestServer(t, underwriter.GateModeShadow, nil)

	withMember := func(householdSize int, memberID string) string {
		body := createBody(householdSize)
		return strings.Replace(body, `"initiatedFrom"`, `"memberId":"`+memberID+`","initiatedFrom"`, 1)
	}

	var created []uuid.UUID
	for _, household := range []int{1, 2} {
		rec := s.do(t, http.MethodPost, "/api/quotes", withMember(household, "member-1"))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created = append(created, decodeQuote(t, rec).Quote.ID)
	}
	rec := s.do(t, http.MethodPost, "/api/quotes", withMember(2, "member-2"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/members/member-1/quotes", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.MemberQuotesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	assert.Equal(t, "member-1", resp.MemberID)
	require.Len(t, resp.Quotes, 2)
	for i, q := range resp.Quotes {
		assert.Equal(t, created[i], q.Quote.ID)
		require.NotNil(t, q.InsuranceCost)
	}

	rec = s.do(t, http.MethodGet, "/api/members/nobody/quotes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Quotes)
	assert.Contains(t, rec.Body.String(), `"quotes":[]`)
}

func TestCreateQuoteRejected(t *testing.T) {
	s := newTestServer(t, underwriter.GateModeShadow, nil)

	rec := s.do(t, http.MethodPost, "/api/quotes", createBody(7))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, handlers.CodeBreachesGuidelines, resp.Code)
	assert.Equal(t, []string{guideline.CodeTooHighHouseholdSize}, resp.BreachedGuidelines)

	id, err := uuid.Parse(resp.QuoteID)
	require.NoError(t, err)
	stored, err := s.store.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, quote.StateIncomplete, stored.State)
}

func TestCreateQuoteBadRequests(t *testing.T) {
	s := newTestServer(t, underwriter.GateModeShadow, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"variant":`},
		{"unknown variant", `{"variant":"boat","initiatedFrom":"IOS","data":{}}`},
		{"missing data", `{"variant":"apartment","initiatedFrom":"IOS"}`},
		{"missing channel", `{"variant":"apartment","data":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/quotes", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, handlers.CodeInvalidRequest, decodeError(t, rec).Code)
		})
	}
}

func TestCompleteAndSignQuote(t *testing.T) {
	s := newTestServer(t, underwriter.GateModeShadow, nil)

	rec := s.do(t, http.MethodPost, "/api/quotes",
		`{"variant":"apartment","initiatedFrom":"IOS","data":{"ssn":"199110112399","street":"ApStreet 1234","zipCode":"12345"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	incomplete := decodeQuote(t, rec)
	assert.Equal(t, quote.StateIncomplete, incomplete.Quote.State)
	assert.Nil(t, incomplete.InsuranceCost)

	id := incomplete.Quote.ID.String()

	rec = s.do(t, http.MethodPost, "/api/quotes/"+id+"/signed",
		`{"agreementId":"`+uuid.NewString()+`","contractId":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, "incomplete quotes cannot be signed")
	assert.Equal(t, handlers.CodeInvalidState, decodeError(t, rec).Code)

	data := fmt.Sprintf(apartmentData, 2)
	rec = s.do(t, http.MethodPost, "/api/quotes/"+id+"/complete", `{"variant":"apartment","data":`+data+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, quote.StateQuoted, decodeQuote(t, rec).Quote.State)

	rec = s.do(t, http.MethodPost, "/api/quotes/"+id+"/signed",
		`{"agreementId":"`+uuid.NewString()+`","contractId":"`+uuid.NewString()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	signed := decodeQuote(t, rec)
	assert.Equal(t, quote.StateSigned, signed.Quote.State)
	assert.NotNil(t, signed.Quote.AgreementID)

	rec = s.do(t, http.MethodPost, "/api/quotes/"+id+"/signed", `{"agreementId":"`+uuid.NewString()+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteQuoteWithIncompleteData(t *testing.T) {
	s := newTestServer(t, underwriter.GateModeShadow, nil)

	rec := s.do(t, http.MethodPost, "/api/quotes", `{"variant":"apartment","initiatedFrom":"IOS","data":{"ssn":"199110112399"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeQuote(t, rec).Quote.ID.String()

	rec = s.do(t, http.MethodPost, "/api/quotes/"+id+"/complete", `{"variant":"apartment","data":{"ssn":"199110112399"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, handlers.CodeIncompleteData, decodeError(t, rec).Code)
}

func TestCreateQuoteBlocked(t *testing.T) {
	s := newTestServer(t, underwriter.GateModeEnforce, nil)

	rec := s.do(t, http.MethodPost, "/api/quotes", createBody(2))
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeQuote(t, rec).Quote.ID.String()

	rec = s.do(t, http.MethodPost, "/api/quotes/"+id+"/signed",
		`{"agreementId":"`+uuid.NewString()+`","contractId":"`+uuid.NewString()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/quotes", createBody(2))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, handlers.CodeBlocked, decodeError(t, rec).Code)
}

func TestGetQuoteErrors(t *testing.T) {
	s := newTestServer(t, underwriter.GateModeShadow, nil)

	rec := s.do(t, http.MethodGet, "/api/quotes/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, handlers.CodeNotFound, decodeError(t, rec).Code)

	rec = s.do(t, http.MethodGet, "/api/quotes/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Run("no dependencies", func(t *testing.T) {
		s := newTestServer(t, underwriter.GateModeShadow, nil)
		rec := s.do(t, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("failing dependency", func(t *testing.T) {
		s := newTestServer(t, underwriter.GateModeShadow, map[string]handlers.Pinger{
			"postgres": pinger{err: errors.New("connection refused")},
			"redis":    pinger{},
		})
		rec := s.do(t, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp handlers.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "connection refused", resp.Dependencies["postgres"])
		assert.Equal(t, "ok", resp.Dependencies["redis"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, underwriter.GateModeShadow, nil)
	rec := s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

type panickingService struct {
	handlers.QuoteService
}

func (panickingService) GetQuote(context.Context, uuid.UUID) (*quote.Quote, error) {
	panic("boom")
}

func TestRecoveryMiddleware(t *testing.T) {
	log := logger.NewNop()
	router := NewRouter(
		handlers.NewQuoteHandler(panickingService{}, log),
		handlers.NewHealthHandler("underwriter", nil),
		nil,
		log,
	)

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+uuid.NewString(), bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), handlers.CodeInternal)
}
