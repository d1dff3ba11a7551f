package contracts

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wonny/underwriter/internal/guideline"
	"github.com/wonny/underwriter/internal/quote"
)

// AgreementLookup returns the status of a signed agreement
// ⭐ SSOT: 계약 상태 조회 인터페이스
type AgreementLookup interface {
	AgreementStatus(ctx context.Context, agreementID uuid.UUID) (quote.AgreementStatus, error)
}

// DebtCheck returns the debt traffic light for a national id
// ⭐ SSOT: 신용(채무) 조회 인터페이스. 실패 시 error 반환, fail-open 여부는 호출자가 결정
type DebtCheck interface {
	Check(ctx context.Context, ssn string) (guideline.DebtFlag, error)
}

// PriceSource prices a complete quote
// ⭐ SSOT: 가격 엔진 인터페이스
type PriceSource interface {
	Price(ctx context.Context, q quote.Quote) (decimal.Decimal, error)
}

// NotificationPublisher publishes quote lifecycle events
type NotificationPublisher interface {
	PublishQuoteCreated(ctx context.Context, event QuoteCreatedEvent) error
}

// QuoteCreatedEvent is emitted once a quote has been priced
type QuoteCreatedEvent struct {
	MemberID             *string           `json:"memberId,omitempty"`
	QuoteID              uuid.UUID         `json:"quoteId"`
	FirstName            *string           `json:"firstName,omitempty"`
	LastName             *string           `json:"lastName,omitempty"`
	Street               *string           `json:"street,omitempty"`
	PostalCode           *string           `json:"postalCode,omitempty"`
	Email                *string           `json:"email,omitempty"`
	SSN                  *string           `json:"ssn,omitempty"`
	InitiatedFrom        quote.Channel     `json:"initiatedFrom"`
	AttributedTo         quote.Partner     `json:"attributedTo"`
	ProductType          quote.ProductType `json:"productType"`
	InsuranceType        string            `json:"insuranceType"`
	CurrentInsurer       *string           `json:"currentInsurer,omitempty"`
	Price                *decimal.Decimal  `json:"price,omitempty"`
	Currency             string            `json:"currency,omitempty"`
	OriginatingProductID *uuid.UUID        `json:"originatingProductId,omitempty"`
}
