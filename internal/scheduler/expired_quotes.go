package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/underwriter/internal/contracts"
	"github.com/wonny/underwriter/pkg/logger"
)

// ExpiredQuotesGauge receives the number of expired, unsigned quotes
type ExpiredQuotesGauge interface {
	SetExpiredQuotes(n int)
}

// ExpiredQuotesJob counts QUOTED quotes past their validity window and
// publishes the count as a gauge. Expired quotes are kept; signing rejects them.
type ExpiredQuotesJob struct {
	counter  contracts.ExpiredQuoteCounter
	gauge    ExpiredQuotesGauge
	logger   *logger.Logger
	schedule string
	now      func() time.Time
}

// NewExpiredQuotesJob creates the job. An empty schedule runs it every 15 minutes.
func NewExpiredQuotesJob(counter contracts.ExpiredQuoteCounter, gauge ExpiredQuotesGauge, log *logger.Logger, schedule string) *ExpiredQuotesJob {
	if schedule == "" {
		schedule = "0 */15 * * * *"
	}
	return &ExpiredQuotesJob{
		counter:  counter,
		gauge:    gauge,
		logger:   log,
		schedule: schedule,
		now:      time.Now,
	}
}

func (j *ExpiredQuotesJob) Name() string     { return "expired_quotes" }
func (j *ExpiredQuotesJob) Schedule() string { return j.schedule }

// Run counts expired quotes once
func (j *ExpiredQuotesJob) Run(ctx context.Context) error {
	count, err := j.counter.CountExpired(ctx, j.now())
	if err != nil {
		return fmt.Errorf("count expired quotes: %w", err)
	}

	j.gauge.SetExpiredQuotes(count)
	j.logger.WithField("expired_quotes", count).Debug("Expired quotes counted")
	return nil
}
