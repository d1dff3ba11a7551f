// Package priceengine is the Price Source backed by the price engine service.
package priceengine

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wonny/underwriter/internal/quote"
	"github.com/wonny/underwriter/pkg/httputil"
	"github.com/wonny/underwriter/pkg/logger"
)

// Client prices complete quotes
// ⭐ SSOT: 가격 엔진 API 호출은 이 클라이언트에서만
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	baseURL string
}

// NewClient creates a price engine client
func NewClient(baseURL string, http *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		http:    http,
		logger:  log,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type priceResponse struct {
	QueryID uuid.UUID `json:"queryId"`
	Price   struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	} `json:"price"`
}

// Price returns the monthly price of q in its market currency
func (c *Client) Price(ctx context.Context, q quote.Quote) (decimal.Decimal, error) {
	if q.Data == nil || !q.Data.IsComplete() {
		return decimal.Zero, fmt.Errorf("quote %s: cannot price incomplete data", q.ID)
	}
	birthDate, ok := quote.BirthDateOf(q.Data)
	if !ok {
		return decimal.Zero, fmt.Errorf("quote %s: holder birth date unknown", q.ID)
	}

	query := quote.Match[priceQuery](q.Data, queryBuilder{})
	query.QuoteID = q.ID
	query.HolderMemberID = q.MemberID
	query.HolderBirthDate = birthDate

	var resp priceResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/_/price/engine/query/price", query, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("failed to price quote %s: %w", q.ID, err)
	}

	currency := q.Data.Market().Currency()
	if resp.Price.Currency != "" && resp.Price.Currency != currency {
		return decimal.Zero, fmt.Errorf("quote %s: priced in %s, expected %s", q.ID, resp.Price.Currency, currency)
	}

	c.logger.WithFields(map[string]interface{}{
		"quote_id": q.ID.String(),
		"query_id": resp.QueryID.String(),
		"price":    resp.Price.Amount.String(),
		"currency": currency,
	}).Debug("Quote priced")

	return resp.Price.Amount, nil
}
