package quotestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wonny/underwriter/internal/quote"
)

// Postgres stores quotes in underwriting.quotes.
// Data is kept as a tagged JSONB document; street, zip code and variant are
// copied into columns for the fingerprint candidate lookup.
// ⭐ SSOT: 견적 저장/조회는 여기서만
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres repository
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const selectQuote = `
	SELECT id, created_at, state, data, price::text, currency, initiated_from, attributed_to,
	       current_insurer, start_date, validity_seconds, breached_guidelines,
	       underwriting_bypassed_by, member_id, agreement_id, contract_id, originating_product_id
	FROM underwriting.quotes
`

// Find returns quote.ErrNotFound when the id is unknown
func (r *Postgres) Find(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	q, err := scanQuote(r.pool.QueryRow(ctx, selectQuote+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", quote.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	return q, nil
}

// FindMatchingByAddress returns quotes of the variant at street and zip code, oldest first
func (r *Postgres) FindMatchingByAddress(ctx context.Context, street, zipCode string, variant quote.Variant) ([]quote.Quote, error) {
	return r.query(ctx, selectQuote+`
		WHERE variant = $1 AND street = $2 AND zip_code = $3
		ORDER BY created_at ASC
	`, string(variant), street, zipCode)
}

// FindByMember returns the member's quotes, oldest first
func (r *Postgres) FindByMember(ctx context.Context, memberID string) ([]quote.Quote, error) {
	return r.query(ctx, selectQuote+`
		WHERE member_id = $1
		ORDER BY created_at ASC
	`, memberID)
}

// Insert stores a new quote
func (r *Postgres) Insert(ctx context.Context, q quote.Quote) error {
	row, err := toRow(q)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO underwriting.quotes (
			id, created_at, variant, street, zip_code, member_id, state, data, price, currency,
			initiated_from, attributed_to, current_insurer, start_date, validity_seconds,
			breached_guidelines, underwriting_bypassed_by, agreement_id, contract_id,
			originating_product_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err = r.pool.Exec(ctx, query,
		q.ID, q.CreatedAt, string(q.Data.Variant()), row.street, row.zipCode, q.MemberID,
		string(q.State), row.data, row.price, q.Currency,
		string(q.InitiatedFrom), string(q.AttributedTo), q.CurrentInsurer, row.startDate, row.validitySeconds,
		q.BreachedGuidelines, q.UnderwritingBypassedBy, q.AgreementID, q.ContractID,
		q.OriginatingProductID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

// Update replaces a stored quote as a whole value
func (r *Postgres) Update(ctx context.Context, q quote.Quote) error {
	row, err := toRow(q)
	if err != nil {
		return err
	}

	query := `
		UPDATE underwriting.quotes SET
			variant = $2, street = $3, zip_code = $4, member_id = $5, state = $6, data = $7,
			price = $8::numeric, currency = $9, current_insurer = $10, start_date = $11,
			validity_seconds = $12, breached_guidelines = $13, underwriting_bypassed_by = $14,
			agreement_id = $15, contract_id = $16, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		q.ID, string(q.Data.Variant()), row.street, row.zipCode, q.MemberID, string(q.State), row.data,
		row.price, q.Currency, q.CurrentInsurer, row.startDate,
		row.validitySeconds, q.BreachedGuidelines, q.UnderwritingBypassedBy,
		q.AgreementID, q.ContractID,
	)
	if err != nil {
		return fmt.Errorf("failed to update quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", quote.ErrNotFound, q.ID)
	}
	return nil
}

// CountExpired counts QUOTED quotes past their validity window
func (r *Postgres) CountExpired(ctx context.Context, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM underwriting.quotes
		WHERE state = $1
		  AND created_at + validity_seconds * INTERVAL '1 second' < $2
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, string(quote.StateQuoted), now).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count expired quotes: %w", err)
	}
	return count, nil
}

func (r *Postgres) query(ctx context.Context, query string, args ...any) ([]quote.Quote, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]quote.Quote, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}
	return quotes, nil
}

// =============================================================================
// Row mapping
// =============================================================================

type row struct {
	street          *string
	zipCode         *string
	data            []byte
	price           *string
	startDate       *time.Time
	validitySeconds int64
}

func toRow(q quote.Quote) (row, error) {
	if q.Data == nil {
		return row{}, fmt.Errorf("quote %s has no data", q.ID)
	}

	data, err := quote.MarshalData(q.Data)
	if err != nil {
		return row{}, err
	}

	r := row{data: data}
	if addressed, ok := q.Data.(quote.Addressed); ok {
		a := addressed.Location()
		r.street = a.Street
		r.zipCode = a.ZipCode
	}
	if q.Price != nil {
		s := q.Price.String()
		r.price = &s
	}
	if q.StartDate != nil {
		t := q.StartDate.Time()
		r.startDate = &t
	}

	validity := q.Validity
	if validity <= 0 {
		validity = quote.DefaultValidity
	}
	r.validitySeconds = int64(validity / time.Second)

	return r, nil
}

func scanQuote(s pgx.Row) (*quote.Quote, error) {
	var (
		q               quote.Quote
		state           string
		data            []byte
		price           *string
		currency        *string
		initiatedFrom   string
		attributedTo    string
		startDate       *time.Time
		validitySeconds int64
	)

	err := s.Scan(
		&q.ID, &q.CreatedAt, &state, &data, &price, &currency, &initiatedFrom, &attributedTo,
		&q.CurrentInsurer, &startDate, &validitySeconds, &q.BreachedGuidelines,
		&q.UnderwritingBypassedBy, &q.MemberID, &q.AgreementID, &q.ContractID, &q.OriginatingProductID,
	)
	if err != nil {
		return nil, err
	}

	q.Data, err = quote.UnmarshalData(data)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", q.ID, err)
	}
	if price != nil {
		p, err := decimal.NewFromString(*price)
		if err != nil {
			return nil, fmt.Errorf("quote %s: invalid price %q: %w", q.ID, *price, err)
		}
		q.Price = &p
	}
	if currency != nil {
		q.Currency = *currency
	}
	if startDate != nil {
		d := quote.DateOf(*startDate)
		q.StartDate = &d
	}
	q.State = quote.State(state)
	q.InitiatedFrom = quote.Channel(initiatedFrom)
	q.AttributedTo = quote.Partner(attributedTo)
	q.Validity = time.Duration(validitySeconds) * time.Second

	return &q, nil
}
