package contracts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/underwriter/internal/quote"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// QuoteRepository stores quotes
type QuoteRepository interface {
	// Find returns quote.ErrNotFound when the id is unknown
	Find(ctx context.Context, id uuid.UUID) (*quote.Quote, error)

	// FindMatchingByAddress returns every quote of the variant at street and zip code.
	// The result is a superset; callers do the fingerprint filtering.
	FindMatchingByAddress(ctx context.Context, street, zipCode string, variant quote.Variant) ([]quote.Quote, error)

	// FindByMember returns the member's quotes, oldest first
	FindByMember(ctx context.Context, memberID string) ([]quote.Quote, error)

	Insert(ctx context.Context, q quote.Quote) error
	Update(ctx context.Context, q quote.Quote) error
}

// ExpiredQuoteCounter counts unsigned quotes past their validity window
type ExpiredQuoteCounter interface {
	CountExpired(ctx context.Context, now time.Time) (int, error)
}
