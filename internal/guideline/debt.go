package guideline

import (
	"sync"

	"github.com/wonny/underwriter/internal/quote"
)

// DebtFlag is the traffic light returned by the debt check
type DebtFlag string

const (
	DebtGreen DebtFlag = "GREEN"
	DebtAmber DebtFlag = "AMBER"
	DebtRed   DebtFlag = "RED"

	// DebtUnknown means no check was made (or it failed open) and never breaches
	DebtUnknown DebtFlag = ""
)

// breaches: only GREEN passes once a flag is known
func (f DebtFlag) breaches() bool {
	return f != DebtGreen && f != DebtUnknown
}

// Flag makes a known flag its own DebtSource
func (f DebtFlag) Flag(quote.Data) DebtFlag {
	return f
}

// DebtSource yields the holder's debt flag when the debt guideline is evaluated
type DebtSource interface {
	Flag(d quote.Data) DebtFlag
}

// LazyDebt fetches the debt flag on first use, so a chain stopped by an earlier
// short-circuiting guideline never calls the debt check.
type LazyDebt struct {
	fetch func(quote.Data) (DebtFlag, error)

	once    sync.Once
	fetched bool
	flag    DebtFlag
	err     error
}

// NewLazyDebt wraps fetch
func NewLazyDebt(fetch func(quote.Data) (DebtFlag, error)) *LazyDebt {
	return &LazyDebt{fetch: fetch}
}

// Flag fetches once. A failed fetch yields DebtUnknown; the error is kept for Err.
func (l *LazyDebt) Flag(d quote.Data) DebtFlag {
	l.once.Do(func() {
		l.fetched = true
		l.flag, l.err = l.fetch(d)
		if l.err != nil {
			l.flag = DebtUnknown
		}
	})
	return l.flag
}

// Fetched reports whether the debt check was called
func (l *LazyDebt) Fetched() bool {
	return l.fetched
}

// Err is the fetch error, nil when not fetched or successful
func (l *LazyDebt) Err() error {
	return l.err
}
