// Package productpricing looks up agreement status in product pricing.
package productpricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wonny/underwriter/internal/quote"
	"github.com/wonny/underwriter/pkg/httputil"
	"github.com/wonny/underwriter/pkg/logger"
	"github.com/wonny/underwriter/pkg/redis"
)

// Client is the agreement lookup backed by product pricing
// ⭐ SSOT: 계약 상태 조회 API 호출은 이 클라이언트에서만
type Client struct {
	http    *httputil.Client
	cache   *redis.Cache
	logger  *logger.Logger
	baseURL string
}

// NewClient creates a product pricing client
func NewClient(baseURL string, http *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		http:    http,
		cache:   cache,
		logger:  log,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type agreement struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

// AgreementStatus returns the status of an agreement
func (c *Client) AgreementStatus(ctx context.Context, agreementID uuid.UUID) (quote.AgreementStatus, error) {
	return redis.GetOrLoad(ctx, c.cache, redis.AgreementStatusKey(agreementID.String()), redis.TTLAgreementStatus, func(ctx context.Context) (quote.AgreementStatus, error) {
		var a agreement
		if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/_/agreements/%s", c.baseURL, agreementID), &a); err != nil {
			return "", fmt.Errorf("failed to get agreement %s: %w", agreementID, err)
		}

		status := quote.ParseAgreementStatus(a.Status)
		fields := map[string]interface{}{
			"agreement_id": agreementID.String(),
			"status":       string(status),
		}
		if status == quote.AgreementOther {
			fields["reported_status"] = a.Status
		}
		c.logger.WithFields(fields).Debug("Agreement status fetched")

		return status, nil
	})
}
