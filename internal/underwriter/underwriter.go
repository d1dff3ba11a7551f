// Package underwriter orchestrates quote creation: completeness, guideline evaluation,
// requoting policy and pricing.
package underwriter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/underwriter/internal/contracts"
	"github.com/wonny/underwriter/internal/guideline"
	"github.com/wonny/underwriter/internal/quote"
	"github.com/wonny/underwriter/internal/requote"
	"github.com/wonny/underwriter/internal/strategy"
	"github.com/wonny/underwriter/pkg/logger"
)

var (
	// ErrQuoteBlocked is returned in enforce mode when the risk already has a live agreement
	ErrQuoteBlocked = errors.New("quote blocked by existing agreement")

	// ErrMissingQuoteData is returned when a quote has no data or incomplete data where complete data is required
	ErrMissingQuoteData = errors.New("quote data missing or incomplete")

	// ErrInvalidState is returned when a quote is not in the state an operation needs
	ErrInvalidState = errors.New("invalid quote state")

	// ErrQuoteExpired is returned when signing a quote past its validity window
	ErrQuoteExpired = errors.New("quote expired")
)

// Config 언더라이팅 정책 설정
type Config struct {
	BlockMode GateMode

	// Collaborator failure policy: true keeps quoting when the check fails
	BlockCheckFailOpen bool
	PriceReuseFailOpen bool
	DebtCheckFailOpen  bool

	Validity time.Duration
}

// DefaultConfig 기본 설정
func DefaultConfig() Config {
	return Config{
		BlockMode:          GateModeShadow, // 기본: Shadow 모드
		BlockCheckFailOpen: true,
		PriceReuseFailOpen: true,
		DebtCheckFailOpen:  true,
		Validity:           quote.DefaultValidity,
	}
}

// Underwriter creates and completes quotes
// ⭐ SSOT: 견적 생성/완료 흐름은 여기서만
type Underwriter struct {
	repo       contracts.QuoteRepository
	dispatcher *strategy.Dispatcher
	requote    *requote.Engine
	prices     contracts.PriceSource
	publisher  contracts.NotificationPublisher
	metrics    Metrics
	logger     *logger.Logger
	cfg        Config
	now        func() time.Time
}

// New creates an underwriter. publisher may be nil.
func New(
	repo contracts.QuoteRepository,
	dispatcher *strategy.Dispatcher,
	engine *requote.Engine,
	prices contracts.PriceSource,
	publisher contracts.NotificationPublisher,
	log *logger.Logger,
	cfg Config,
) *Underwriter {
	if cfg.BlockMode == "" {
		cfg.BlockMode = GateModeShadow
	}
	if cfg.Validity <= 0 {
		cfg.Validity = quote.DefaultValidity
	}
	return &Underwriter{
		repo:       repo,
		dispatcher: dispatcher,
		requote:    engine,
		prices:     prices,
		publisher:  publisher,
		metrics:    nopMetrics{},
		logger:     log,
		cfg:        cfg,
		now:        time.Now,
	}
}

// WithMetrics sets the metrics recorder
func (u *Underwriter) WithMetrics(m Metrics) *Underwriter {
	if m != nil {
		u.metrics = m
	}
	return u
}

// WithClock overrides the clock used for creation and expiry
func (u *Underwriter) WithClock(now func() time.Time) *Underwriter {
	u.now = now
	return u
}

// =============================================================================
// Create
// =============================================================================

// CreateRequest is a request for a new quote
type CreateRequest struct {
	Data                   quote.Data
	InitiatedFrom          quote.Channel
	AttributedTo           quote.Partner
	CurrentInsurer         *string
	StartDate              *quote.Date
	MemberID               *string
	OriginatingProductID   *uuid.UUID
	UnderwritingBypassedBy *string
}

// Result is the outcome of underwriting a quote.
// A rejection is a result, not an error.
type Result struct {
	Quote              quote.Quote
	Rejected           bool
	BreachedGuidelines []string
	PriceReused        bool
}

// CreateQuote stores a new quote. Incomplete data is saved INCOMPLETE without
// evaluation; complete data is underwritten and saved QUOTED, or INCOMPLETE with
// its breached guidelines when rejected. Blocked requests are not saved.
func (u *Underwriter) CreateQuote(ctx context.Context, req CreateRequest) (Result, error) {
	if req.Data == nil {
		return Result{}, ErrMissingQuoteData
	}

	attributedTo := req.AttributedTo
	if attributedTo == "" {
		attributedTo = quote.PartnerHedvig
	}

	q := quote.Quote{
		ID:                     uuid.New(),
		CreatedAt:              u.now().UTC(),
		Data:                   req.Data,
		State:                  quote.StateIncomplete,
		InitiatedFrom:          req.InitiatedFrom,
		AttributedTo:           attributedTo,
		CurrentInsurer:         req.CurrentInsurer,
		StartDate:              req.StartDate,
		Validity:               u.cfg.Validity,
		UnderwritingBypassedBy: req.UnderwritingBypassedBy,
		MemberID:               req.MemberID,
		OriginatingProductID:   req.OriginatingProductID,
	}

	result := Result{Quote: q}
	if req.Data.IsComplete() {
		var err error
		result, err = u.ValidateAndComplete(ctx, q)
		if err != nil {
			return Result{}, err
		}
	}

	if err := u.repo.Insert(ctx, result.Quote); err != nil {
		return Result{}, fmt.Errorf("failed to save quote: %w", err)
	}
	u.metrics.QuoteCreated(string(q.Data.Variant()), string(result.Quote.State))

	u.logger.WithQuote(q.ID.String(), string(q.Data.Variant())).WithFields(map[string]interface{}{
		"state":        string(result.Quote.State),
		"rejected":     result.Rejected,
		"price_reused": result.PriceReused,
	}).Info("Quote created")

	if result.Quote.State == quote.StateQuoted {
		u.publish(ctx, result.Quote)
	}

	return result, nil
}

// CompleteQuote underwrites an INCOMPLETE quote whose data has since been completed
func (u *Underwriter) CompleteQuote(ctx context.Context, id uuid.UUID, data quote.Data) (Result, error) {
	existing, err := u.repo.Find(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if existing.State != quote.StateIncomplete {
		return Result{}, fmt.Errorf("%w: quote %s is %s", ErrInvalidState, id, existing.State)
	}
	if data == nil {
		data = existing.Data
	}
	if data == nil || data.Variant() != existing.Data.Variant() {
		return Result{}, fmt.Errorf("%w: variant cannot change", ErrMissingQuoteData)
	}

	q := *existing
	q.Data = data
	q.BreachedGuidelines = nil

	result, err := u.ValidateAndComplete(ctx, q)
	if err != nil {
		return Result{}, err
	}
	if err := u.repo.Update(ctx, result.Quote); err != nil {
		return Result{}, fmt.Errorf("failed to update quote: %w", err)
	}
	if result.Quote.State == quote.StateQuoted {
		u.publish(ctx, result.Quote)
	}
	return result, nil
}

// =============================================================================
// Validate and complete
// =============================================================================

// ValidateAndComplete evaluates guidelines, applies the block gate and prices q.
// It never saves. A rejected quote comes back INCOMPLETE with its breaches.
func (u *Underwriter) ValidateAndComplete(ctx context.Context, q quote.Quote) (Result, error) {
	if q.Data == nil || !q.Data.IsComplete() {
		return Result{}, ErrMissingQuoteData
	}

	log := u.logger.WithQuote(q.ID.String(), string(q.Data.Variant())).
		WithField("channel", string(q.InitiatedFrom))

	// 1. Guidelines
	if q.UnderwritingBypassedBy == nil {
		breaches, err := u.evaluate(ctx, q.Data, log)
		if err != nil {
			return Result{}, err
		}
		if len(breaches) > 0 {
			u.metrics.GuidelinesBreached(string(q.Data.Market()), breaches)
			log.WithField("breached", breaches).Info("Quote breached underwriting guidelines")

			q.State = quote.StateIncomplete
			q.BreachedGuidelines = breaches
			return Result{Quote: q, Rejected: true, BreachedGuidelines: breaches}, nil
		}
	} else {
		log.WithField("bypassed_by", *q.UnderwritingBypassedBy).Info("Underwriting guidelines bypassed")
	}

	// 2. Block gate
	if err := u.gate(ctx, q, log); err != nil {
		return Result{}, err
	}

	// 3. Price
	decision, err := u.reusablePrice(ctx, q, log)
	if err != nil {
		return Result{}, err
	}
	price := decision.Price
	if !decision.Reused {
		price, err = u.prices.Price(ctx, q)
		if err != nil {
			return Result{}, fmt.Errorf("failed to price quote: %w", err)
		}
	}
	u.metrics.PriceDecided(string(q.Data.Variant()), decision.Reused, decision.Reason)

	q = q.WithPrice(price)
	q.State = quote.StateQuoted
	q.BreachedGuidelines = nil
	return Result{Quote: q, PriceReused: decision.Reused}, nil
}

// evaluate runs the variant's guideline chain, applying the debt check policy.
// The debt check is only called when the chain reaches it.
func (u *Underwriter) evaluate(ctx context.Context, data quote.Data, log *logger.Logger) ([]string, error) {
	debt := u.dispatcher.LazyDebt(ctx)
	breaches := guideline.Evaluate(u.dispatcher.Resolve(data, debt).Guidelines(), data)

	if err := debt.Err(); err != nil {
		u.metrics.CollaboratorFailed(CheckDebt, u.cfg.DebtCheckFailOpen)
		if !u.cfg.DebtCheckFailOpen {
			return nil, err
		}
		log.WithError(err).Warn("Debt check failed, continued without debt flag")
	}
	return breaches, nil
}

// gate applies the block mode to the existing agreement check
func (u *Underwriter) gate(ctx context.Context, q quote.Quote, log *logger.Logger) error {
	if u.cfg.BlockMode == GateModeOff {
		return nil
	}

	blocked, err := u.requote.BlockDueToExistingAgreement(ctx, q)
	if err != nil {
		u.metrics.CollaboratorFailed(CheckBlock, u.cfg.BlockCheckFailOpen)
		if !u.cfg.BlockCheckFailOpen {
			return fmt.Errorf("block check: %w", err)
		}
		log.WithError(err).Warn("Existing agreement check failed, not blocking")
		return nil
	}
	if !blocked {
		return nil
	}

	u.metrics.RequoteBlocked(string(q.Data.Variant()), string(q.InitiatedFrom))
	if u.cfg.BlockMode == GateModeEnforce {
		log.Info("Quote blocked by existing agreement")
		return ErrQuoteBlocked
	}
	log.Info("Quote would be blocked by existing agreement (shadow mode)")
	return nil
}

// reusablePrice applies the price reuse policy
func (u *Underwriter) reusablePrice(ctx context.Context, q quote.Quote, log *logger.Logger) (requote.PriceDecision, error) {
	decision, err := u.requote.ReusablePrice(ctx, q)
	if err != nil {
		u.metrics.CollaboratorFailed(CheckPriceReuse, u.cfg.PriceReuseFailOpen)
		if !u.cfg.PriceReuseFailOpen {
			return requote.PriceDecision{}, fmt.Errorf("price reuse check: %w", err)
		}
		log.WithError(err).Warn("Price reuse check failed, using new price")
		return requote.PriceDecision{Reason: CheckPriceReuse + "_failed"}, nil
	}
	return decision, nil
}

func (u *Underwriter) publish(ctx context.Context, q quote.Quote) {
	if u.publisher == nil {
		return
	}
	event := u.dispatcher.Resolve(q.Data, guideline.DebtUnknown).BuildNotificationEvent(q)
	if err := u.publisher.PublishQuoteCreated(ctx, event); err != nil {
		u.logger.WithError(err).WithField("quote_id", q.ID.String()).Error("Failed to publish quote created event")
	}
}

// =============================================================================
// Read / sign
// =============================================================================

// GetQuote returns a stored quote
func (u *Underwriter) GetQuote(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	return u.repo.Find(ctx, id)
}

// QuotesForMember returns the member's quotes, oldest first
func (u *Underwriter) QuotesForMember(ctx context.Context, memberID string) ([]quote.Quote, error) {
	quotes, err := u.repo.FindByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get quotes for member: %w", err)
	}
	return quotes, nil
}

// InsuranceCost returns the monthly cost of a priced quote
func (u *Underwriter) InsuranceCost(q quote.Quote) (strategy.InsuranceCost, error) {
	if !q.HasPrice() {
		return strategy.InsuranceCost{}, fmt.Errorf("%w: quote %s has no price", ErrInvalidState, q.ID)
	}
	return u.dispatcher.Resolve(q.Data, guideline.DebtUnknown).ComputeCost(q), nil
}

// MarkSigned records the agreement and contract created by the signing flow
func (u *Underwriter) MarkSigned(ctx context.Context, id, agreementID, contractID uuid.UUID) (*quote.Quote, error) {
	existing, err := u.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.State != quote.StateQuoted {
		return nil, fmt.Errorf("%w: quote %s is %s", ErrInvalidState, id, existing.State)
	}
	if existing.IsExpired(u.now()) {
		return nil, fmt.Errorf("%w: quote %s expired at %s", ErrQuoteExpired, id, existing.ExpiresAt().Format(time.RFC3339))
	}

	signed := *existing
	signed.State = quote.StateSigned
	signed.AgreementID = &agreementID
	signed.ContractID = &contractID
	if err := u.repo.Update(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}

	u.logger.WithFields(map[string]interface{}{
		"quote_id":     id.String(),
		"agreement_id": agreementID.String(),
	}).Info("Quote signed")

	return &signed, nil
}
