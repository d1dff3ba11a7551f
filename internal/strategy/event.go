package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wonny/underwriter/internal/contracts"
	"github.com/wonny/underwriter/internal/quote"
)

// eventBuilder maps a quote of variant T to its created event.
// Variants without an address leave street and postal code empty.
func eventBuilder[T quote.Data](insuranceType func(T) string) func(quote.Quote) contracts.QuoteCreatedEvent {
	return func(q quote.Quote) contracts.QuoteCreatedEvent {
		d, ok := q.Data.(T)
		if !ok {
			var want T
			panic(fmt.Sprintf("strategy for %T applied to %T", want, q.Data))
		}

		p := d.Holder()
		event := contracts.QuoteCreatedEvent{
			MemberID:             q.MemberID,
			QuoteID:              q.ID,
			FirstName:            p.FirstName,
			LastName:             p.LastName,
			Email:                p.Email,
			SSN:                  p.SSN,
			InitiatedFrom:        q.InitiatedFrom,
			AttributedTo:         q.AttributedTo,
			ProductType:          d.ProductType(),
			InsuranceType:        insuranceType(d),
			CurrentInsurer:       q.CurrentInsurer,
			Price:                q.Price,
			Currency:             q.Currency,
			OriginatingProductID: q.OriginatingProductID,
		}
		if addressed, ok := quote.Data(d).(quote.Addressed); ok {
			a := addressed.Location()
			event.Street = a.Street
			event.PostalCode = a.ZipCode
		}
		return event
	}
}

// monthlyCost maps a priced quote to its cost. Discounts are applied downstream.
func monthlyCost(q quote.Quote) InsuranceCost {
	price := decimal.Zero
	if q.Price != nil {
		price = *q.Price
	}
	currency := q.Currency
	if currency == "" {
		currency = q.Data.Market().Currency()
	}
	return InsuranceCost{
		MonthlyGross:    price,
		MonthlyDiscount: decimal.Zero,
		MonthlyNet:      price,
		Currency:        currency,
	}
}
