// Package memberservice is the debt check client of the member service.
package memberservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/underwriter/internal/guideline"
	"github.com/wonny/underwriter/pkg/httputil"
	"github.com/wonny/underwriter/pkg/logger"
	"github.com/wonny/underwriter/pkg/redis"
)

// Client checks a person's debt status with the member service.
// Flags are cached under a hashed ssn.
// ⭐ SSOT: 채무 조회 API 호출은 이 클라이언트에서만
type Client struct {
	http    *httputil.Client
	cache   *redis.Cache
	logger  *logger.Logger
	baseURL string
}

// NewClient creates a member service client. cache may use a disabled redis client.
func NewClient(baseURL string, http *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		http:    http,
		cache:   cache,
		logger:  log,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type personStatusRequest struct {
	SSN string `json:"ssn"`
}

// personStatus is the member service response
type personStatus struct {
	Flag        string `json:"flag"`
	Whitelisted bool   `json:"whitelisted"`
}

// Check returns the debt flag for a normalized ssn. Whitelisted persons are GREEN.
func (c *Client) Check(ctx context.Context, ssn string) (guideline.DebtFlag, error) {
	return redis.GetOrLoad(ctx, c.cache, redis.DebtFlagKey(ssn), redis.TTLDebtFlag, func(ctx context.Context) (guideline.DebtFlag, error) {
		// ssn goes in the body so it never shows up in URLs or request logs
		var status personStatus
		if err := c.http.PostJSON(ctx, c.baseURL+"/_/person/status", personStatusRequest{SSN: ssn}, &status); err != nil {
			return guideline.DebtUnknown, fmt.Errorf("person status for %s: %w", logger.Mask(ssn), err)
		}

		flag, err := parseFlag(status)
		if err != nil {
			return guideline.DebtUnknown, err
		}

		c.logger.WithPII("ssn", ssn).WithField("flag", string(flag)).Debug("Debt check completed")

		return flag, nil
	})
}

func parseFlag(status personStatus) (guideline.DebtFlag, error) {
	if status.Whitelisted {
		return guideline.DebtGreen, nil
	}
	switch flag := guideline.DebtFlag(strings.ToUpper(status.Flag)); flag {
	case guideline.DebtGreen, guideline.DebtAmber, guideline.DebtRed:
		return flag, nil
	default:
		return guideline.DebtUnknown, fmt.Errorf("unknown debt flag %q", status.Flag)
	}
}
