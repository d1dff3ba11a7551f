package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/underwriter/internal/contracts"
	"github.com/wonny/underwriter/internal/guideline"
	"github.com/wonny/underwriter/internal/guidelineconfig"
	"github.com/wonny/underwriter/internal/quote"
)

// ErrDebtCheckFailed wraps debt check collaborator failures
var ErrDebtCheckFailed = errors.New("debt check failed")

// Dispatcher resolves the Strategy of a quote variant
// ⭐ SSOT: 상품별 가이드라인 선택은 여기서만
type Dispatcher struct {
	limits *guidelineconfig.Config
	debt   contracts.DebtCheck
	now    func() time.Time
}

// NewDispatcher creates a dispatcher. debt may be nil, in which case no debt flag is ever fetched.
func NewDispatcher(limits *guidelineconfig.Config, debt contracts.DebtCheck) *Dispatcher {
	if limits == nil {
		limits = guidelineconfig.Default()
	}
	return &Dispatcher{
		limits: limits,
		debt:   debt,
		now:    time.Now,
	}
}

// WithClock overrides the clock used for age based guidelines
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// Resolve returns the Strategy for data. debt is a known DebtFlag or the
// LazyDebt returned by LazyDebt.
func (d *Dispatcher) Resolve(data quote.Data, debt guideline.DebtSource) Strategy {
	return quote.Match[Strategy](data, resolver{
		limits: d.limits,
		debt:   debt,
		now:    d.now(),
	})
}

// CheckDebt fetches the debt flag for markets whose personal guidelines need it.
// It returns DebtUnknown without calling out when no check applies, including a
// malformed ssn (the ssn guidelines reject it first). Collaborator failures are
// returned wrapped in ErrDebtCheckFailed; deciding to fail open is up to the caller.
func (d *Dispatcher) CheckDebt(ctx context.Context, data quote.Data) (guideline.DebtFlag, error) {
	if d.debt == nil || data.Market() != quote.MarketSweden {
		return guideline.DebtUnknown, nil
	}

	ssn := data.Holder().SSN
	if ssn == nil {
		return guideline.DebtUnknown, nil
	}
	if _, ok := quote.SwedishBirthDate(*ssn); !ok {
		return guideline.DebtUnknown, nil
	}

	flag, err := d.debt.Check(ctx, quote.NormalizeSSN(*ssn))
	if err != nil {
		return guideline.DebtUnknown, fmt.Errorf("%w: %w", ErrDebtCheckFailed, err)
	}
	return flag, nil
}

// LazyDebt returns a debt source that calls CheckDebt only when the debt guideline
// is reached. Its Err reports the collaborator failure, if any.
func (d *Dispatcher) LazyDebt(ctx context.Context) *guideline.LazyDebt {
	return guideline.NewLazyDebt(func(data quote.Data) (guideline.DebtFlag, error) {
		return d.CheckDebt(ctx, data)
	})
}
