package quote

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultValidity is how long a quote can be signed after creation
const DefaultValidity = 30 * 24 * time.Hour

// ErrNotFound is returned by repositories when a quote does not exist
var ErrNotFound = errors.New("quote not found")

// Quote is an insurance offer for one Data variant.
// A Quote is replaced as a whole value, never patched in place.
// QUOTED and SIGNED quotes always carry a price and complete data.
type Quote struct {
	ID                     uuid.UUID        `json:"id"`
	CreatedAt              time.Time        `json:"createdAt"`
	Data                   Data             `json:"-"`
	Price                  *decimal.Decimal `json:"price,omitempty"`
	Currency               string           `json:"currency,omitempty"`
	State                  State            `json:"state"`
	InitiatedFrom          Channel          `json:"initiatedFrom"`
	AttributedTo           Partner          `json:"attributedTo"`
	CurrentInsurer         *string          `json:"currentInsurer,omitempty"`
	StartDate              *Date            `json:"startDate,omitempty"`
	Validity               time.Duration    `json:"validity"`
	BreachedGuidelines     []string         `json:"breachedGuidelines,omitempty"`
	UnderwritingBypassedBy *string          `json:"underwritingBypassedBy,omitempty"`
	MemberID               *string          `json:"memberId,omitempty"`
	AgreementID            *uuid.UUID       `json:"agreementId,omitempty"`
	ContractID             *uuid.UUID       `json:"contractId,omitempty"`
	OriginatingProductID   *uuid.UUID       `json:"originatingProductId,omitempty"`
}

// HasPrice reports whether both price and currency are set
func (q Quote) HasPrice() bool {
	return q.Price != nil && q.Currency != ""
}

// ExpiresAt returns when the quote can no longer be signed
func (q Quote) ExpiresAt() time.Time {
	validity := q.Validity
	if validity <= 0 {
		validity = DefaultValidity
	}
	return q.CreatedAt.Add(validity)
}

// IsExpired reports whether an unsigned quote is past its validity window
func (q Quote) IsExpired(now time.Time) bool {
	return q.State != StateSigned && now.After(q.ExpiresAt())
}

// WithPrice returns a copy of the quote priced at price in the data's market currency
func (q Quote) WithPrice(price decimal.Decimal) Quote {
	q.Price = &price
	q.Currency = q.Data.Market().Currency()
	return q
}

// StringPtr is a helper for optional string fields
func StringPtr(s string) *string { return &s }

// IntPtr is a helper for optional int fields
func IntPtr(i int) *int { return &i }

// BoolPtr is a helper for optional bool fields
func BoolPtr(b bool) *bool { return &b }

// SubTypePtr is a helper for optional apartment sub types
func SubTypePtr(s ApartmentSubType) *ApartmentSubType { return &s }

// DatePtr is a helper for optional dates
func DatePtr(d Date) *Date { return &d }
