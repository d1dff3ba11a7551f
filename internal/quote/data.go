package quote

import (
	"fmt"
	"time"
)

// =============================================================================
// Quote data variants
// =============================================================================

// Data is the closed set of per-market/per-product quote payloads.
// ⭐ SSOT: new variants are added here and in Cases, nowhere else.
// The unexported marker keeps the set closed to this package.
type Data interface {
	Variant() Variant
	Market() Market
	ProductType() ProductType
	Holder() Person
	IsComplete() bool
	Fields() []Field
	sealed()
}

// Addressed is implemented by variants that carry an address
type Addressed interface {
	Data
	Location() Address
}

// Person is the policy holder capability shared by all variants
type Person struct {
	SSN         *string `json:"ssn,omitempty"`
	BirthDate   *Date   `json:"birthDate,omitempty"`
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

// Holder returns the policy holder fields
func (p Person) Holder() Person { return p }

// Address is the address capability
type Address struct {
	Street  *string `json:"street,omitempty"`
	ZipCode *string `json:"zipCode,omitempty"`
	City    *string `json:"city,omitempty"`
}

// Location returns the address fields
func (a Address) Location() Address { return a }

// DanishAddress extends Address with BBR registry details
type DanishAddress struct {
	Address
	BbrID     *string `json:"bbrId,omitempty"`
	Apartment *string `json:"apartment,omitempty"`
	Floor     *string `json:"floor,omitempty"`
}

// ExtraBuilding is an outbuilding on a Swedish house plot
type ExtraBuilding struct {
	Type              ExtraBuildingType `json:"type"`
	Area              int               `json:"area"`
	HasWaterConnected bool              `json:"hasWaterConnected"`
	DisplayName       *string           `json:"displayName,omitempty"`
}

// SwedishApartment 스웨덴 아파트
type SwedishApartment struct {
	Person
	Address
	HouseholdSize *int              `json:"householdSize,omitempty"`
	LivingSpace   *int              `json:"livingSpace,omitempty"`
	SubType       *ApartmentSubType `json:"subType,omitempty"`
}

// SwedishHouse 스웨덴 주택
type SwedishHouse struct {
	Person
	Address
	LivingSpace        *int            `json:"livingSpace,omitempty"`
	HouseholdSize      *int            `json:"householdSize,omitempty"`
	AncillaryArea      *int            `json:"ancillaryArea,omitempty"`
	YearOfConstruction *int            `json:"yearOfConstruction,omitempty"`
	NumberOfBathrooms  *int            `json:"numberOfBathrooms,omitempty"`
	ExtraBuildings     []ExtraBuilding `json:"extraBuildings,omitempty"`
	IsSubleted         *bool           `json:"isSubleted,omitempty"`
	Floor              *int            `json:"floor,omitempty"`
}

// NorwegianHomeContents 노르웨이 가재보험
type NorwegianHomeContents struct {
	Person
	Address
	LivingSpace int              `json:"livingSpace"`
	CoInsured   int              `json:"coInsured"`
	IsYouth     bool             `json:"isYouth"`
	Type        HomeContentsType `json:"type"`
}

// NorwegianTravel 노르웨이 여행보험 (no address)
type NorwegianTravel struct {
	Person
	CoInsured int  `json:"coInsured"`
	IsYouth   bool `json:"isYouth"`
}

// DanishHomeContents 덴마크 가재보험
type DanishHomeContents struct {
	Person
	DanishAddress
	LivingSpace int              `json:"livingSpace"`
	CoInsured   int              `json:"coInsured"`
	IsStudent   bool             `json:"isStudent"`
	Type        HomeContentsType `json:"type"`
}

// DanishAccident 덴마크 상해보험
type DanishAccident struct {
	Person
	DanishAddress
	CoInsured int  `json:"coInsured"`
	IsStudent bool `json:"isStudent"`
}

// DanishTravel 덴마크 여행보험
type DanishTravel struct {
	Person
	DanishAddress
	CoInsured int  `json:"coInsured"`
	IsStudent bool `json:"isStudent"`
}

func (SwedishApartment) sealed()      {}
func (SwedishHouse) sealed()          {}
func (NorwegianHomeContents) sealed() {}
func (NorwegianTravel) sealed()       {}
func (DanishHomeContents) sealed()    {}
func (DanishAccident) sealed()        {}
func (DanishTravel) sealed()          {}

func (SwedishApartment) Variant() Variant      { return VariantSwedishApartment }
func (SwedishHouse) Variant() Variant          { return VariantSwedishHouse }
func (NorwegianHomeContents) Variant() Variant { return VariantNorwegianHomeContents }
func (NorwegianTravel) Variant() Variant       { return VariantNorwegianTravel }
func (DanishHomeContents) Variant() Variant    { return VariantDanishHomeContents }
func (DanishAccident) Variant() Variant        { return VariantDanishAccident }
func (DanishTravel) Variant() Variant          { return VariantDanishTravel }

func (SwedishApartment) Market() Market      { return MarketSweden }
func (SwedishHouse) Market() Market          { return MarketSweden }
func (NorwegianHomeContents) Market() Market { return MarketNorway }
func (NorwegianTravel) Market() Market       { return MarketNorway }
func (DanishHomeContents) Market() Market    { return MarketDenmark }
func (DanishAccident) Market() Market        { return MarketDenmark }
func (DanishTravel) Market() Market          { return MarketDenmark }

func (SwedishApartment) ProductType() ProductType      { return ProductApartment }
func (SwedishHouse) ProductType() ProductType          { return ProductHouse }
func (NorwegianHomeContents) ProductType() ProductType { return ProductHomeContents }
func (NorwegianTravel) ProductType() ProductType       { return ProductTravel }
func (DanishHomeContents) ProductType() ProductType    { return ProductHomeContents }
func (DanishAccident) ProductType() ProductType        { return ProductAccident }
func (DanishTravel) ProductType() ProductType          { return ProductTravel }

// IsStudent reports whether the apartment is a student product
func (d SwedishApartment) IsStudent() bool {
	return d.SubType != nil && d.SubType.IsStudent()
}

// =============================================================================
// Completeness
// =============================================================================

// IsComplete reports whether every field needed for pricing is set
func (d SwedishApartment) IsComplete() bool {
	return d.SSN != nil && d.hasName() && d.hasStreetAndZip() &&
		d.HouseholdSize != nil && d.LivingSpace != nil && d.SubType != nil
}

// IsComplete reports whether every field needed for pricing is set
func (d SwedishHouse) IsComplete() bool {
	return d.SSN != nil && d.hasName() && d.hasStreetAndZip() &&
		d.HouseholdSize != nil && d.LivingSpace != nil
}

// IsComplete reports whether every field needed for pricing is set
func (d NorwegianHomeContents) IsComplete() bool {
	return d.hasName() && d.BirthDate != nil && d.hasStreetAndZip()
}

// IsComplete reports whether every field needed for pricing is set
func (d NorwegianTravel) IsComplete() bool {
	return d.hasName() && d.BirthDate != nil
}

// IsComplete reports whether every field needed for pricing is set
func (d DanishHomeContents) IsComplete() bool {
	return d.hasName() && d.BirthDate != nil && d.hasStreetAndZip()
}

// IsComplete reports whether every field needed for pricing is set
func (d DanishAccident) IsComplete() bool {
	return d.hasName() && d.BirthDate != nil && d.hasStreetAndZip()
}

// IsComplete reports whether every field needed for pricing is set
func (d DanishTravel) IsComplete() bool {
	return d.hasName() && d.BirthDate != nil && d.hasStreetAndZip()
}

func (p Person) hasName() bool {
	return p.FirstName != nil && p.LastName != nil
}

func (a Address) hasStreetAndZip() bool {
	return a.Street != nil && a.ZipCode != nil
}

// =============================================================================
// Derived personal data
// =============================================================================

// BirthDateOf returns the holder's birth date, falling back to the one encoded
// in the national id of the variant's market.
func BirthDateOf(d Data) (Date, bool) {
	p := d.Holder()
	if p.BirthDate != nil && !p.BirthDate.IsZero() {
		return *p.BirthDate, true
	}
	if p.SSN == nil {
		return Date{}, false
	}
	switch d.Market() {
	case MarketSweden:
		return SwedishBirthDate(*p.SSN)
	case MarketNorway:
		return NorwegianBirthDate(*p.SSN)
	case MarketDenmark:
		return DanishBirthDate(*p.SSN)
	default:
		panic(fmt.Sprintf("quote: unknown market %q", d.Market()))
	}
}

// AgeOf returns the holder's age at now, or false when no birth date is known
func AgeOf(d Data, now time.Time) (int, bool) {
	birth, ok := BirthDateOf(d)
	if !ok {
		return 0, false
	}
	return birth.AgeAt(now), true
}
