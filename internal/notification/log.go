package notification

import (
	"context"

	"github.com/wonny/underwriter/internal/contracts"
	"github.com/wonny/underwriter/pkg/logger"
)

// LogPublisher logs events instead of sending them.
// Used when Kafka is disabled (local runs, tests).
type LogPublisher struct {
	logger *logger.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{logger: log}
}

// PublishQuoteCreated logs the event without personal data
func (p *LogPublisher) PublishQuoteCreated(_ context.Context, event contracts.QuoteCreatedEvent) error {
	fields := map[string]interface{}{
		"event":          EventQuoteCreated,
		"quote_id":       event.QuoteID.String(),
		"product_type":   string(event.ProductType),
		"insurance_type": event.InsuranceType,
		"initiated_from": string(event.InitiatedFrom),
	}
	if event.Price != nil {
		fields["price"] = event.Price.String()
		fields["currency"] = event.Currency
	}
	p.logger.WithFields(fields).Info("Quote created")
	return nil
}

// Close is a no-op
func (p *LogPublisher) Close() error { return nil }
