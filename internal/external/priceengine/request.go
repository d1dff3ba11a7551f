package priceengine

import (
	"github.com/google/uuid"

	"github.com/wonny/underwriter/internal/quote"
)

// priceQuery is the price engine request. Type selects the product; the
// product specific fields are omitted for other types.
type priceQuery struct {
	Type             string     `json:"type"`
	QuoteID          uuid.UUID  `json:"quoteId"`
	HolderMemberID   *string    `json:"holderMemberId,omitempty"`
	HolderBirthDate  quote.Date `json:"holderBirthDate"`
	NumberCoInsured  int        `json:"numberCoInsured"`
	LineOfBusiness   string     `json:"lineOfBusiness,omitempty"`
	PostalCode       *string    `json:"postalCode,omitempty"`
	SquareMeters     *int       `json:"squareMeters,omitempty"`
	BbrID            *string    `json:"bbrId,omitempty"`
	IsStudent        *bool      `json:"isStudent,omitempty"`
	AncillaryArea    *int       `json:"ancillaryArea,omitempty"`
	YearOfBuild      *int       `json:"yearOfConstruction,omitempty"`
	NumberOfBathroom *int       `json:"numberOfBathrooms,omitempty"`
	IsSubleted       *bool      `json:"isSubleted,omitempty"`

	ExtraBuildings []extraBuilding `json:"extraBuildings,omitempty"`
}

type extraBuilding struct {
	Type              string `json:"type"`
	Area              int    `json:"area"`
	HasWaterConnected bool   `json:"hasWaterConnected"`
}

// queryBuilder maps every variant to its price query.
// Only complete data is priced, so required fields are present.
type queryBuilder struct{}

func (queryBuilder) SwedishApartment(d quote.SwedishApartment) priceQuery {
	return priceQuery{
		Type:            "SwedishApartment",
		NumberCoInsured: coInsuredFromHousehold(d.HouseholdSize),
		LineOfBusiness:  string(*d.SubType),
		PostalCode:      d.ZipCode,
		SquareMeters:    d.LivingSpace,
	}
}

func (queryBuilder) SwedishHouse(d quote.SwedishHouse) priceQuery {
	buildings := make([]extraBuilding, 0, len(d.ExtraBuildings))
	for _, b := range d.ExtraBuildings {
		buildings = append(buildings, extraBuilding{
			Type:              string(b.Type),
			Area:              b.Area,
			HasWaterConnected: b.HasWaterConnected,
		})
	}
	return priceQuery{
		Type:             "SwedishHouse",
		NumberCoInsured:  coInsuredFromHousehold(d.HouseholdSize),
		PostalCode:       d.ZipCode,
		SquareMeters:     d.LivingSpace,
		AncillaryArea:    d.AncillaryArea,
		YearOfBuild:      d.YearOfConstruction,
		NumberOfBathroom: d.NumberOfBathrooms,
		IsSubleted:       d.IsSubleted,
		ExtraBuildings:   buildings,
	}
}

func (queryBuilder) NorwegianHomeContents(d quote.NorwegianHomeContents) priceQuery {
	lob := string(d.Type)
	if d.IsYouth {
		lob = "YOUTH_" + lob
	}
	return priceQuery{
		Type:            "NorwegianHomeContent",
		NumberCoInsured: d.CoInsured,
		LineOfBusiness:  lob,
		PostalCode:      d.ZipCode,
		SquareMeters:    &d.LivingSpace,
	}
}

func (queryBuilder) NorwegianTravel(d quote.NorwegianTravel) priceQuery {
	lob := "REGULAR"
	if d.IsYouth {
		lob = "YOUTH"
	}
	return priceQuery{
		Type:            "NorwegianTravel",
		NumberCoInsured: d.CoInsured,
		LineOfBusiness:  lob,
	}
}

func (queryBuilder) DanishHomeContents(d quote.DanishHomeContents) priceQuery {
	return priceQuery{
		Type:            "DanishHomeContent",
		NumberCoInsured: d.CoInsured,
		LineOfBusiness:  string(d.Type),
		PostalCode:      d.ZipCode,
		SquareMeters:    &d.LivingSpace,
		BbrID:           d.BbrID,
		IsStudent:       &d.IsStudent,
	}
}

func (queryBuilder) DanishAccident(d quote.DanishAccident) priceQuery {
	return priceQuery{
		Type:            "DanishAccident",
		NumberCoInsured: d.CoInsured,
		PostalCode:      d.ZipCode,
		IsStudent:       &d.IsStudent,
	}
}

func (queryBuilder) DanishTravel(d quote.DanishTravel) priceQuery {
	return priceQuery{
		Type:            "DanishTravel",
		NumberCoInsured: d.CoInsured,
		PostalCode:      d.ZipCode,
		IsStudent:       &d.IsStudent,
	}
}

func coInsuredFromHousehold(householdSize *int) int {
	if householdSize == nil || *householdSize < 1 {
		return 0
	}
	return *householdSize - 1
}
