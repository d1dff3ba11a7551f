// Package strategy selects the guidelines, notification shape and cost mapping for each quote variant.
package strategy

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/underwriter/internal/contracts"
	"github.com/wonny/underwriter/internal/guideline"
	"github.com/wonny/underwriter/internal/guidelineconfig"
	"github.com/wonny/underwriter/internal/quote"
)

// Strategy is everything variant specific the underwriter needs
type Strategy struct {
	PersonalGuidelines     []guideline.Guideline
	ProductGuidelines      []guideline.Guideline
	BuildNotificationEvent func(quote.Quote) contracts.QuoteCreatedEvent
	ComputeCost            func(quote.Quote) InsuranceCost
}

// Guidelines returns the personal guidelines followed by the product guidelines,
// evaluated as one chain.
func (s Strategy) Guidelines() []guideline.Guideline {
	out := make([]guideline.Guideline, 0, len(s.PersonalGuidelines)+len(s.ProductGuidelines))
	out = append(out, s.PersonalGuidelines...)
	return append(out, s.ProductGuidelines...)
}

// InsuranceCost is the monthly cost shown for a priced quote
type InsuranceCost struct {
	MonthlyGross    decimal.Decimal `json:"monthlyGross"`
	MonthlyDiscount decimal.Decimal `json:"monthlyDiscount"`
	MonthlyNet      decimal.Decimal `json:"monthlyNet"`
	Currency        string          `json:"currency"`
	FreeUntil       *time.Time      `json:"freeUntil,omitempty"`
}

// resolver builds the Strategy of every variant.
// It implements quote.Cases, so a new variant does not compile until handled here.
type resolver struct {
	limits *guidelineconfig.Config
	debt   guideline.DebtSource
	now    time.Time
}

func (r resolver) SwedishApartment(quote.SwedishApartment) Strategy {
	return Strategy{
		PersonalGuidelines: guideline.SwedishPersonal(r.limits.Sweden.Person, r.debt, r.now),
		ProductGuidelines:  guideline.SwedishApartment(r.limits.Sweden.Apartment, r.now),
		BuildNotificationEvent: eventBuilder(func(d quote.SwedishApartment) string {
			if d.SubType == nil {
				return string(quote.SubTypeUnknown)
			}
			return string(*d.SubType)
		}),
		ComputeCost: monthlyCost,
	}
}

func (r resolver) SwedishHouse(quote.SwedishHouse) Strategy {
	return Strategy{
		PersonalGuidelines: guideline.SwedishPersonal(r.limits.Sweden.Person, r.debt, r.now),
		ProductGuidelines:  guideline.SwedishHouse(r.limits.Sweden.House),
		BuildNotificationEvent: eventBuilder(func(quote.SwedishHouse) string {
			return "HOUSE"
		}),
		ComputeCost: monthlyCost,
	}
}

func (r resolver) NorwegianHomeContents(quote.NorwegianHomeContents) Strategy {
	return Strategy{
		PersonalGuidelines: guideline.NorwegianPersonal(r.limits.Norway.Person, r.now),
		ProductGuidelines:  guideline.NorwegianHomeContents(r.limits.Norway.HomeContents),
		BuildNotificationEvent: eventBuilder(func(d quote.NorwegianHomeContents) string {
			if d.IsYouth {
				return "YOUTH_" + string(d.Type)
			}
			return string(d.Type)
		}),
		ComputeCost: monthlyCost,
	}
}

func (r resolver) NorwegianTravel(quote.NorwegianTravel) Strategy {
	return Strategy{
		PersonalGuidelines: guideline.NorwegianPersonal(r.limits.Norway.Person, r.now),
		ProductGuidelines:  guideline.NorwegianTravel(),
		BuildNotificationEvent: eventBuilder(func(d quote.NorwegianTravel) string {
			return youthOrRegular(d.IsYouth)
		}),
		ComputeCost: monthlyCost,
	}
}

func (r resolver) DanishHomeContents(quote.DanishHomeContents) Strategy {
	return Strategy{
		PersonalGuidelines: guideline.DanishPersonal(r.limits.Denmark.Person, r.now),
		ProductGuidelines:  guideline.DanishHomeContents(r.limits.Denmark.HomeContents, r.now),
		BuildNotificationEvent: eventBuilder(func(d quote.DanishHomeContents) string {
			return studentOrRegular(d.IsStudent)
		}),
		ComputeCost: monthlyCost,
	}
}

func (r resolver) DanishAccident(quote.DanishAccident) Strategy {
	return Strategy{
		PersonalGuidelines: guideline.DanishPersonal(r.limits.Denmark.Person, r.now),
		ProductGuidelines:  guideline.DanishAccident(r.limits.Denmark.Accident, r.now),
		BuildNotificationEvent: eventBuilder(func(d quote.DanishAccident) string {
			return studentOrRegular(d.IsStudent)
		}),
		ComputeCost: monthlyCost,
	}
}

func (r resolver) DanishTravel(quote.DanishTravel) Strategy {
	return Strategy{
		PersonalGuidelines: guideline.DanishPersonal(r.limits.Denmark.Person, r.now),
		ProductGuidelines:  guideline.DanishTravel(r.limits.Denmark.Travel, r.now),
		BuildNotificationEvent: eventBuilder(func(d quote.DanishTravel) string {
			return studentOrRegular(d.IsStudent)
		}),
		ComputeCost: monthlyCost,
	}
}

func youthOrRegular(youth bool) string {
	if youth {
		return "YOUTH"
	}
	return "REGULAR"
}

func studentOrRegular(student bool) string {
	if student {
		return "STUDENT"
	}
	return "REGULAR"
}
