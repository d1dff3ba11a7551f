package quotestore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/underwriter/internal/quote"
)

// Memory is an in-process QuoteRepository for local runs and tests
type Memory struct {
	mu     sync.RWMutex
	quotes map[uuid.UUID]quote.Quote
	order  []uuid.UUID // insertion order, breaks created_at ties
}

// NewMemory creates an empty in-memory repository
func NewMemory() *Memory {
	return &Memory{quotes: make(map[uuid.UUID]quote.Quote)}
}

// Find returns quote.ErrNotFound when the id is unknown
func (m *Memory) Find(_ context.Context, id uuid.UUID) (*quote.Quote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q, ok := m.quotes[id]
	if !ok {
		return nil, quote.ErrNotFound
	}
	return &q, nil
}

// FindMatchingByAddress returns quotes of variant at street and zip code, oldest first
func (m *Memory) FindMatchingByAddress(_ context.Context, street, zipCode string, variant quote.Variant) ([]quote.Quote, error) {
	return m.filter(func(q quote.Quote) bool {
		if q.Data == nil || q.Data.Variant() != variant {
			return false
		}
		addressed, ok := q.Data.(quote.Addressed)
		if !ok {
			return false
		}
		a := addressed.Location()
		return a.Street != nil && *a.Street == street && a.ZipCode != nil && *a.ZipCode == zipCode
	}), nil
}

// FindByMember returns the member's quotes, oldest first
func (m *Memory) FindByMember(_ context.Context, memberID string) ([]quote.Quote, error) {
	return m.filter(func(q quote.Quote) bool {
		return q.MemberID != nil && *q.MemberID == memberID
	}), nil
}

// Insert stores a new quote
func (m *Memory) Insert(_ context.Context, q quote.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.quotes[q.ID]; exists {
		return fmt.Errorf("quote %s already exists", q.ID)
	}
	m.quotes[q.ID] = q
	m.order = append(m.order, q.ID)
	return nil
}

// Update replaces a stored quote
func (m *Memory) Update(_ context.Context, q quote.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.quotes[q.ID]; !exists {
		return quote.ErrNotFound
	}
	m.quotes[q.ID] = q
	return nil
}

// CountExpired counts unsigned quotes past their validity window
func (m *Memory) CountExpired(_ context.Context, now time.Time) (int, error) {
	return len(m.filter(func(q quote.Quote) bool {
		return q.State == quote.StateQuoted && q.IsExpired(now)
	})), nil
}

func (m *Memory) filter(keep func(quote.Quote) bool) []quote.Quote {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []quote.Quote
	for _, id := range m.order {
		if q := m.quotes[id]; keep(q) {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
