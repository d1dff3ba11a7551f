package requote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/underwriter/internal/quote"
	"github.com/wonny/underwriter/internal/quotestore"
	"github.com/wonny/underwriter/pkg/logger"
)

var now = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

type fakeAgreements struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]quote.AgreementStatus
	failing  map[uuid.UUID]error
	err      error
	calls    int
}

func (f *fakeAgreements) AgreementStatus(_ context.Context, id uuid.UUID) (quote.AgreementStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if err, ok := f.failing[id]; ok {
		return "", err
	}
	return f.statuses[id], nil
}

type failingRepo struct {
	*quotestore.Memory
}

func (failingRepo) FindMatchingByAddress(context.Context, string, string, quote.Variant) ([]quote.Quote, error) {
	return nil, errors.New("database unavailable")
}

func newEngine(repo *quotestore.Memory, agreements *fakeAgreements) *Engine {
	return NewEngine(repo, agreements, nil, logger.NewNop(), DefaultConfig()).
		WithClock(func() time.Time { return now })
}

func apartmentData(street, ssn string, subType quote.ApartmentSubType) quote.SwedishApartment {
	return quote.SwedishApartment{
		Person: quote.Person{
			SSN:       quote.StringPtr(ssn),
			FirstName: quote.StringPtr("Test"),
			LastName:  quote.StringPtr("Testsson"),
		},
		Address:       quote.Address{Street: quote.StringPtr(street), ZipCode: quote.StringPtr("12345")},
		HouseholdSize: quote.IntPtr(1),
		LivingSpace:   quote.IntPtr(30),
		SubType:       quote.SubTypePtr(subType),
	}
}

func newQuote(data quote.Data, channel quote.Channel, createdAt time.Time) quote.Quote {
	return quote.Quote{
		ID:            uuid.New(),
		CreatedAt:     createdAt,
		Data:          data,
		State:         quote.StateIncomplete,
		InitiatedFrom: channel,
		AttributedTo:  quote.PartnerHedvig,
	}
}

func priced(q quote.Quote, amount string) quote.Quote {
	q.State = quote.StateQuoted
	return q.WithPrice(decimal.RequireFromString(amount))
}

func daysAgo(d int) time.Time {
	return now.Add(-time.Duration(d) * 24 * time.Hour)
}

// =============================================================================
// Price reuse
// =============================================================================

func TestUseOldOrNewPriceReusesPriceForSameRisk(t *testing.T) {
	ctx := context.Background()
	repo := quotestore.NewMemory()
	engine := newEngine(repo, &fakeAgreements{})
	newPrice := decimal.NewFromInt(20)

	q1 := priced(newQuote(apartmentData("Test Apa", "199110112399", quote.SubTypeBRF), quote.ChannelWebOnboarding, daysAgo(2)), "12")
	require.NoError(t, repo.Insert(ctx, q1))

	t.Run("same address within window reuses old price", func(t *testing.T) {
		q2 := newQuote(apartmentData("Test Apa", "199110112399", quote.SubTypeBRF), quote.ChannelWebOnboarding, now)

		decision, err := engine.UseOldOrNewPrice(ctx, q2, newPrice)
		require.NoError(t, err)
		assert.True(t, decision.Price.Equal(decimal.NewFromInt(12)), "got %s", decision.Price)
		assert.True(t, decision.Reused)
		assert.Equal(t, ReasonHistoryInWindow, decision.Reason)
	})

	t.Run("another address gets a fresh price", func(t *testing.T) {
		q3 := newQuote(apartmentData("Another Test Apa", "199110112399", quote.SubTypeBRF), quote.ChannelWebOnboarding, now)

		decision, err := engine.UseOldOrNewPrice(ctx, q3, newPrice)
		require.NoError(t, err)
		assert.True(t, decision.Price.Equal(newPrice))
		assert.False(t, decision.Reused)
		assert.Equal(t, ReasonFirstQuote, decision.Reason)
	})

	t.Run("changed sub type breaks the fingerprint", func(t *testing.T) {
		q4 := newQuote(apartmentData("Test Apa", "199110112399", quote.SubTypeRent), quote.ChannelWebOnboarding, now)

		decision, err := engine.UseOldOrNewPrice(ctx, q4, newPrice)
		require.NoError(t, err)
		assert.True(t, decision.Price.Equal(newPrice))
	})

	t.Run("internal channel always gets the new price", func(t *testing.T) {
		q5 := newQuote(apartmentData("Test Apa", "199110112399", quote.SubTypeBRF), quote.ChannelHope, now)

		decision, err := engine.UseOldOrNewPrice(ctx, q5, newPrice)
		require.NoError(t, err)
		assert.True(t, decision.Price.Equal(newPrice))
		assert.Equal(t, ReasonInternalChannel, decision.Reason)
	})

	t.Run("missing ssn on the new quote still matches", func(t *testing.T) {
		data := apartmentData("Test Apa", "199110112399", quote.SubTypeBRF)
		data.SSN = nil
		data.BirthDate = quote.DatePtr(quote.NewDate(1991, time.October, 11))

		decision, err := engine.UseOldOrNewPrice(ctx, newQuote(data, quote.ChannelIOS, now), newPrice)
		require.NoError(t, err)
		assert.True(t, decision.Price.Equal(decimal.NewFromInt(12)))
	})

	t.Run("other person at the same address gets a fresh price", func(t *testing.T) {
		q6 := newQuote(apartmentData("Test Apa", "198001012399", quote.SubTypeBRF), quote.ChannelAndroid, now)

		decision, err := engine.UseOldOrNewPrice(ctx, q6, newPrice)
		require.NoError(t, err)
		assert.True(t, decision.Price.Equal(newPrice))
	})
}

func TestUseOldOrNewPriceWindow(t *testing.T) {
	ctx := context.Background()
	newPrice := decimal.NewFromInt(30)

	tests := []struct {
		name       string
		history    map[int]string // days ago -> price
		want       string
		wantReason string
	}{
		{
			name:       "all history inside window keeps last price",
			history:    map[int]string{20: "10", 5: "12"},
			want:       "12",
			wantReason: ReasonHistoryInWindow,
		},
		{
			name:       "old history with a change inside window keeps last price",
			history:    map[int]string{40: "10", 10: "11", 5: "12"},
			want:       "12",
			wantReason: ReasonRecentPriceChange,
		},
		{
			name:       "old history with one price inside window takes new price",
			history:    map[int]string{40: "10", 10: "12"},
			want:       "30",
			wantReason: ReasonStableHistory,
		},
		{
			name:       "old history stable inside window takes new price",
			history:    map[int]string{40: "10", 10: "10"},
			want:       "30",
			wantReason: ReasonStableHistory,
		},
		{
			name:       "single quote older than window takes new price",
			history:    map[int]string{45: "10"},
			want:       "30",
			wantReason: ReasonStableHistory,
		},
		{
			name:       "change older than window no longer sticks",
			history:    map[int]string{90: "8", 45: "10"},
			want:       "30",
			wantReason: ReasonStableHistory,
		},
		{
			name:       "rounding differences are not price changes",
			history:    map[int]string{40: "10", 10: "10.001", 3: "10.00"},
			want:       "30",
			wantReason: ReasonStableHistory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := quotestore.NewMemory()
			engine := newEngine(repo, &fakeAgreements{})

			for days, price := range tt.history {
				old := newQuote(apartmentData("Test Apa", "199110112399", quote.SubTypeRent), quote.ChannelIOS, daysAgo(days))
				require.NoError(t, repo.Insert(ctx, priced(old, price)))
			}

			q := newQuote(apartmentData("Test Apa", "199110112399", quote.SubTypeRent), quote.ChannelIOS, now)
			decision, err := engine.UseOldOrNewPrice(ctx, q, newPrice)

			require.NoError(t, err)
			assert.True(t, decision.Price.Equal(decimal.RequireFromString(tt.want)), "got %s", decision.Price)
			assert.Equal(t, tt.wantReason, decision.Reason)
		})
	}
}

func TestUseOldOrNewPriceIgnoresUnpricedQuotes(t *testing.T) {
	ctx := context.Background()
	repo := quotestore.NewMemory()
	engine := newEngine(repo, &fakeAgreements{})

	incomplete := newQuote(apartmentData("Test Apa", "199110112399", quote.SubTypeRent), quote.ChannelIOS, daysAgo(1))
	require.NoError(t, repo.Insert(ctx, incomplete))

	q := newQuote(apartmentData("Test Apa", "199110112399", quote.SubTypeRent), quote.ChannelIOS, now)
	decision, err := engine.UseOldOrNewPrice(ctx, q, decimal.NewFromInt(30))

	require.NoError(t, err)
	assert.Equal(t, ReasonFirstQuote, decision.Reason)
}

func TestUseOldOrNewPricePropagatesRepositoryErrors(t *testing.T) {
	engine := NewEngine(failingRepo{quotestore.NewMemory()}, &fakeAgreements{}, nil, logger.NewNop(), DefaultConfig())
	q := newQuote(apartmentData("Test Apa", "199110112399", quote.SubTypeRent), quote.ChannelIOS, now)

	_, err := engine.UseOldOrNewPrice(context.Background(), q, decimal.NewFromInt(30))
	assert.Error(t, err)
}

// =============================================================================
// Block due to existing agreement
// =============================================================================

func signedWithAgreement(data quote.Data, agreements *fakeAgreements, status quote.AgreementStatus) quote.Quote {
	q := priced(newQuote(data, quote.ChannelWebOnboarding, daysAgo(60)), "99")
	q.State = quote.StateSigned
	agreementID := uuid.New()
	contractID := uuid.New()
	q.AgreementID = &agreementID
	q.ContractID = &contractID
	agreements.statuses[agreementID] = status
	return q
}

func TestBlockDueToExistingAgreement(t *testing.T) {
	ctx := context.Background()
	repo := quotestore.NewMemory()
	agreements := &fakeAgreements{statuses: map[uuid.UUID]quote.AgreementStatus{}}
	engine := newEngine(repo, agreements)

	signed := signedWithAgreement(apartmentData("ApStreet 1234", "199110112399", quote.SubTypeRent), agreements, quote.AgreementActive)
	require.NoError(t, repo.Insert(ctx, signed))

	requote := func(street, ssn string, channel quote.Channel) quote.Quote {
		return newQuote(apartmentData(street, ssn, quote.SubTypeRent), channel, now)
	}

	blocked, err := engine.BlockDueToExistingAgreement(ctx, requote("ApStreet 1234", "199110112399", quote.ChannelIOS))
	require.NoError(t, err)
	assert.True(t, blocked, "active agreement blocks")

	blocked, err = engine.BlockDueToExistingAgreement(ctx, requote("ApStreet 1234", "199110112399", quote.ChannelHope))
	require.NoError(t, err)
	assert.False(t, blocked, "internal channels are never blocked")

	blocked, err = engine.BlockDueToExistingAgreement(ctx, requote("ApStreet 1234", "199001012399", quote.ChannelIOS))
	require.NoError(t, err)
	assert.False(t, blocked, "other ssn")

	blocked, err = engine.BlockDueToExistingAgreement(ctx, requote("ApStreet 1235", "199110112399", quote.ChannelIOS))
	require.NoError(t, err)
	assert.False(t, blocked, "other address")

	agreements.statuses[*signed.AgreementID] = quote.AgreementTerminated
	blocked, err = engine.BlockDueToExistingAgreement(ctx, requote("ApStreet 1234", "199110112399", quote.ChannelIOS))
	require.NoError(t, err)
	assert.False(t, blocked, "terminated agreement no longer blocks")
}

func TestBlockDueToExistingAgreementLiveStatuses(t *testing.T) {
	for _, status := range []quote.AgreementStatus{quote.AgreementPending, quote.AgreementActive, quote.AgreementActiveInFuture} {
		t.Run(string(status), func(t *testing.T) {
			ctx := context.Background()
			repo := quotestore.NewMemory()
			agreements := &fakeAgreements{statuses: map[uuid.UUID]quote.AgreementStatus{}}
			engine := newEngine(repo, agreements)

			// several terminated agreements and one live one
			for i := 0; i < 5; i++ {
				require.NoError(t, repo.Insert(ctx, signedWithAgreement(apartmentData("ApStreet 1234", "199110112399", quote.SubTypeRent), agreements, quote.AgreementTerminated)))
			}
			require.NoError(t, repo.Insert(ctx, signedWithAgreement(apartmentData("ApStreet 1234", "199110112399", quote.SubTypeRent), agreements, status)))

			blocked, err := engine.BlockDueToExistingAgreement(ctx, newQuote(apartmentData("ApStreet 1234", "199110112399", quote.SubTypeRent), quote.ChannelRapio, now))
			require.NoError(t, err)
			assert.True(t, blocked)
			assert.Equal(t, 6, agreements.calls)
		})
	}
}

func TestBlockDueToExistingAgreementWithUnrecognisedStatus(t *testing.T) {
	ctx := context.Background()
	repo := quotestore.NewMemory()
	agreements := &fakeAgreements{statuses: map[uuid.UUID]quote.AgreementStatus{}}
	engine := newEngine(repo, agreements)
	data := apartmentData("ApStreet 1234", "199110112399", quote.SubTypeRent)

	cancelled := signedWithAgreement(data, agreements, quote.ParseAgreementStatus("CANCELLED"))
	require.NoError(t, repo.Insert(ctx, cancelled))

	blocked, err := engine.BlockDueToExistingAgreement(ctx, newQuote(data, quote.ChannelIOS, now))
	require.NoError(t, err)
	assert.False(t, blocked, "cancelled agreement gives no coverage")

	require.NoError(t, repo.Insert(ctx, signedWithAgreement(data, agreements, quote.AgreementActive)))

	blocked, err = engine.BlockDueToExistingAgreement(ctx, newQuote(data, quote.ChannelIOS, now))
	require.NoError(t, err)
	assert.True(t, blocked, "active agreement blocks next to a cancelled one")
}

func TestBlockDueToExistingAgreementLiveAgreementWinsOverFailedLookup(t *testing.T) {
	ctx := context.Background()
	repo := quotestore.NewMemory()
	agreements := &fakeAgreements{
		statuses: map[uuid.UUID]quote.AgreementStatus{},
		failing:  map[uuid.UUID]error{},
	}
	engine := newEngine(repo, agreements)
	data := apartmentData("ApStreet 1234", "199110112399", quote.SubTypeRent)

	broken := signedWithAgreement(data, agreements, quote.AgreementTerminated)
	agreements.failing[*broken.AgreementID] = errors.New("product pricing timeout")
	require.NoError(t, repo.Insert(ctx, broken))
	require.NoError(t, repo.Insert(ctx, signedWithAgreement(data, agreements, quote.AgreementActive)))

	blocked, err := engine.BlockDueToExistingAgreement(ctx, newQuote(data, quote.ChannelIOS, now))
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, 2, agreements.calls)
}

func TestBlockDueToExistingAgreementFailedLookupWithoutLiveAgreement(t *testing.T) {
	ctx := context.Background()
	repo := quotestore.NewMemory()
	agreements := &fakeAgreements{
		statuses: map[uuid.UUID]quote.AgreementStatus{},
		failing:  map[uuid.UUID]error{},
	}
	engine := newEngine(repo, agreements)
	data := apartmentData("ApStreet 1234", "199110112399", quote.SubTypeRent)

	broken := signedWithAgreement(data, agreements, quote.AgreementActive)
	agreements.failing[*broken.AgreementID] = errors.New("product pricing timeout")
	require.NoError(t, repo.Insert(ctx, broken))
	require.NoError(t, repo.Insert(ctx, signedWithAgreement(data, agreements, quote.AgreementTerminated)))

	blocked, err := engine.BlockDueToExistingAgreement(ctx, newQuote(data, quote.ChannelIOS, now))
	require.Error(t, err)
	assert.False(t, blocked)
	assert.Contains(t, err.Error(), broken.AgreementID.String())
}

func TestBlockDueToExistingAgreementIgnoresUnsignedQuotes(t *testing.T) {
	ctx := context.Background()
	repo := quotestore.NewMemory()
	agreements := &fakeAgreements{statuses: map[uuid.UUID]quote.AgreementStatus{}}
	engine := newEngine(repo, agreements)

	quoted := priced(newQuote(apartmentData("ApStreet 1234", "199110112399", quote.SubTypeRent), quote.ChannelIOS, daysAgo(1)), "99")
	require.NoError(t, repo.Insert(ctx, quoted))

	blocked, err := engine.BlockDueToExistingAgreement(ctx, newQuote(apartmentData("ApStreet 1234", "199110112399", quote.SubTypeRent), quote.ChannelIOS, now))
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Zero(t, agreements.calls)
}

func TestBlockDueToExistingAgreementPropagatesLookupErrors(t *testing.T) {
	ctx := context.Background()
	repo := quotestore.NewMemory()
	agreements := &fakeAgreements{statuses: map[uuid.UUID]quote.AgreementStatus{}}
	engine := newEngine(repo, agreements)

	require.NoError(t, repo.Insert(ctx, signedWithAgreement(apartmentData("ApStreet 1234", "199110112399", quote.SubTypeRent), agreements, quote.AgreementActive)))
	agreements.err = errors.New("product pricing unavailable")

	_, err := engine.BlockDueToExistingAgreement(ctx, newQuote(apartmentData("ApStreet 1234", "199110112399", quote.SubTypeRent), quote.ChannelIOS, now))
	assert.Error(t, err)
}

// =============================================================================
// Fingerprint lookup
// =============================================================================

func TestOldQuotesByFingerprintNeedsAddressAndIdentity(t *testing.T) {
	ctx := context.Background()
	repo := quotestore.NewMemory()
	engine := newEngine(repo, &fakeAgreements{})

	travel := quote.NorwegianTravel{Person: quote.Person{BirthDate: quote.DatePtr(quote.NewDate(1990, time.January, 1))}}
	found, err := engine.OldQuotesByFingerprint(ctx, newQuote(travel, quote.ChannelIOS, now))
	require.NoError(t, err)
	assert.Empty(t, found, "no address")

	anonymous := apartmentData("Test Apa", "199110112399", quote.SubTypeRent)
	anonymous.SSN = nil
	found, err = engine.OldQuotesByFingerprint(ctx, newQuote(anonymous, quote.ChannelIOS, now))
	require.NoError(t, err)
	assert.Empty(t, found, "no ssn or birth date")
}

func TestOldQuotesByFingerprintSortsOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := quotestore.NewMemory()
	engine := newEngine(repo, &fakeAgreements{})

	for _, days := range []int{3, 10, 1} {
		q := newQuote(apartmentData("Test Apa", "199110112399", quote.SubTypeRent), quote.ChannelIOS, daysAgo(days))
		require.NoError(t, repo.Insert(ctx, q))
	}

	found, err := engine.OldQuotesByFingerprint(ctx, newQuote(apartmentData("Test Apa", "199110112399", quote.SubTypeRent), quote.ChannelIOS, now))
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, daysAgo(10), found[0].CreatedAt)
	assert.Equal(t, daysAgo(1), found[2].CreatedAt)
}
