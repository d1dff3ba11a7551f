package requote

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/wonny/underwriter/internal/contracts"
	"github.com/wonny/underwriter/internal/quote"
	"github.com/wonny/underwriter/pkg/logger"
)

// DefaultPriceWindow is how long a price stays sticky after it was set
const DefaultPriceWindow = 30 * 24 * time.Hour

// Config 재견적 정책 설정
type Config struct {
	PriceWindow time.Duration

	// MaxConcurrentLookups bounds parallel agreement lookups
	MaxConcurrentLookups int
}

// DefaultConfig 기본 설정
func DefaultConfig() Config {
	return Config{
		PriceWindow:          DefaultPriceWindow,
		MaxConcurrentLookups: 4,
	}
}

// Engine is the requoting policy engine.
// It only reads quote history; collaborator errors are returned, never swallowed.
// ⭐ SSOT: 재견적 차단/가격 재사용 판단은 여기서만
type Engine struct {
	repo       contracts.QuoteRepository
	agreements contracts.AgreementLookup
	comparator *Comparator
	logger     *logger.Logger
	cfg        Config
	now        func() time.Time
}

// NewEngine creates a requoting engine
func NewEngine(
	repo contracts.QuoteRepository,
	agreements contracts.AgreementLookup,
	comparator *Comparator,
	log *logger.Logger,
	cfg Config,
) *Engine {
	if comparator == nil {
		comparator = NewComparator(nil)
	}
	if cfg.PriceWindow <= 0 {
		cfg.PriceWindow = DefaultPriceWindow
	}
	if cfg.MaxConcurrentLookups <= 0 {
		cfg.MaxConcurrentLookups = 1
	}
	return &Engine{
		repo:       repo,
		agreements: agreements,
		comparator: comparator,
		logger:     log,
		cfg:        cfg,
		now:        time.Now,
	}
}

// WithClock overrides the clock used for the price window
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// =============================================================================
// Fingerprint lookup
// =============================================================================

// OldQuotesByFingerprint returns earlier quotes for the same risk, oldest first.
// Data without an address, or without both ssn and birth date, cannot be
// fingerprinted and yields nothing.
func (e *Engine) OldQuotesByFingerprint(ctx context.Context, q quote.Quote) ([]quote.Quote, error) {
	addressed, ok := q.Data.(quote.Addressed)
	if !ok {
		return nil, nil
	}
	address := addressed.Location()
	if address.Street == nil || address.ZipCode == nil {
		return nil, nil
	}

	holder := q.Data.Holder()
	if holder.SSN == nil && holder.BirthDate == nil {
		return nil, nil
	}

	candidates, err := e.repo.FindMatchingByAddress(ctx, *address.Street, *address.ZipCode, q.Data.Variant())
	if err != nil {
		return nil, fmt.Errorf("failed to find quotes by address: %w", err)
	}

	birthDate, hasBirthDate := quote.BirthDateOf(q.Data)

	matches := make([]quote.Quote, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == q.ID || c.Data == nil {
			continue
		}

		otherBirthDate, otherHasBirthDate := quote.BirthDateOf(c.Data)
		if hasBirthDate != otherHasBirthDate || (hasBirthDate && birthDate.String() != otherBirthDate.String()) {
			continue
		}

		otherSSN := c.Data.Holder().SSN
		if holder.SSN != nil && otherSSN != nil && quote.NormalizeSSN(*holder.SSN) != quote.NormalizeSSN(*otherSSN) {
			continue
		}

		if !e.comparator.IsSame(q.Data, c.Data) {
			continue
		}

		matches = append(matches, c)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})

	return matches, nil
}

// =============================================================================
// Block due to existing agreement
// =============================================================================

// BlockDueToExistingAgreement reports whether an earlier signed quote for the same
// risk has a live (pending, active or future) agreement.
// Only direct-to-consumer channels are ever blocked.
func (e *Engine) BlockDueToExistingAgreement(ctx context.Context, q quote.Quote) (bool, error) {
	if !q.InitiatedFrom.IsDirectToConsumer() {
		return false, nil
	}

	old, err := e.OldQuotesByFingerprint(ctx, q)
	if err != nil {
		return false, err
	}
	if len(old) == 0 {
		return false, nil
	}

	var signed []quote.Quote
	for _, o := range old {
		if o.State == quote.StateSigned && o.AgreementID != nil {
			signed = append(signed, o)
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"quote_id": q.ID.String(),
		"matching": len(old),
		"signed":   len(signed),
	}).Debug("Checked quote history for existing agreements")

	if len(signed) == 0 {
		return false, nil
	}

	// Lookups do not cancel each other: a failed lookup must not hide a live sibling.
	statuses := make([]quote.AgreementStatus, len(signed))
	errs := make([]error, len(signed))
	var g errgroup.Group
	g.SetLimit(e.cfg.MaxConcurrentLookups)
	for i, s := range signed {
		i, s := i, s
		g.Go(func() error {
			statuses[i], errs[i] = e.agreements.AgreementStatus(ctx, *s.AgreementID)
			return nil
		})
	}
	_ = g.Wait()

	for i, status := range statuses {
		if errs[i] == nil && status.IsLive() {
			e.logger.WithFields(map[string]interface{}{
				"quote_id":          q.ID.String(),
				"existing_quote_id": signed[i].ID.String(),
				"agreement_id":      signed[i].AgreementID.String(),
				"agreement_status":  string(status),
			}).Info("Quote matches an already signed quote with a live agreement")
			return true, nil
		}
	}

	// No live agreement found, so an unanswered lookup leaves the decision open
	for i, err := range errs {
		if err != nil {
			return false, fmt.Errorf("failed to get agreement %s: %w", signed[i].AgreementID, err)
		}
	}

	return false, nil
}

// =============================================================================
// Price reuse
// =============================================================================

// PriceDecision is the outcome of a price reuse check.
// From ReusablePrice, Price is only set when Reused.
type PriceDecision struct {
	Price  decimal.Decimal
	Reused bool
	Reason string
}

// Reasons reported in PriceDecision
const (
	ReasonInternalChannel   = "internal_channel"
	ReasonFirstQuote        = "first_quote"
	ReasonHistoryInWindow   = "history_within_window"
	ReasonRecentPriceChange = "recent_price_change"
	ReasonStableHistory     = "stable_history"
)

// UseOldOrNewPrice decides between newPrice and the last price quoted for the same risk
func (e *Engine) UseOldOrNewPrice(ctx context.Context, q quote.Quote, newPrice decimal.Decimal) (PriceDecision, error) {
	decision, err := e.ReusablePrice(ctx, q)
	if err != nil {
		return PriceDecision{}, err
	}
	if !decision.Reused {
		decision.Price = newPrice
	}
	return decision, nil
}

// ReusablePrice returns the last price quoted for the same risk when it should be
// kept, so the price source is only asked when Reused is false.
//
// With history younger than the window the last price is kept. With older history
// the last price is kept only if prices inside the window differ from it; otherwise
// the history has been stable for a full window and a new price takes effect.
func (e *Engine) ReusablePrice(ctx context.Context, q quote.Quote) (PriceDecision, error) {
	if !q.InitiatedFrom.IsDirectToConsumer() {
		return PriceDecision{Reason: ReasonInternalChannel}, nil
	}

	old, err := e.OldQuotesByFingerprint(ctx, q)
	if err != nil {
		return PriceDecision{}, err
	}

	currency := q.Data.Market().Currency()
	var priced []quote.Quote
	for _, o := range old {
		if o.HasPrice() && o.Currency == currency {
			priced = append(priced, o)
		}
	}

	if len(priced) == 0 {
		return PriceDecision{Reason: ReasonFirstQuote}, nil
	}

	cutoff := e.now().Add(-e.cfg.PriceWindow)
	lastPrice := *priced[len(priced)-1].Price

	anyOlderThanWindow := false
	anyChangeInWindow := false
	for _, p := range priced {
		if p.CreatedAt.Before(cutoff) {
			anyOlderThanWindow = true
			continue
		}
		if !sameAmount(lastPrice, *p.Price) {
			anyChangeInWindow = true
		}
	}

	log := e.logger.WithFields(map[string]interface{}{
		"quote_id":   q.ID.String(),
		"matching":   len(priced),
		"last_price": lastPrice.String(),
		"currency":   currency,
	})

	switch {
	case !anyOlderThanWindow:
		log.Info("Equal quotes exist but none older than the price window, reusing last price")
		return PriceDecision{Price: lastPrice, Reused: true, Reason: ReasonHistoryInWindow}, nil
	case anyChangeInWindow:
		log.Info("Equal quotes older than the price window with a recent price change, reusing last price")
		return PriceDecision{Price: lastPrice, Reused: true, Reason: ReasonRecentPriceChange}, nil
	default:
		log.Debug("Equal quote history stable for a full price window, price may change")
		return PriceDecision{Reason: ReasonStableHistory}, nil
	}
}

// sameAmount compares amounts at minor-unit precision
func sameAmount(a, b decimal.Decimal) bool {
	return a.Round(2).Equal(b.Round(2))
}
