package quote

import "strings"

// =============================================================================
// Enumerations
// =============================================================================

// State is the lifecycle state of a quote
type State string

const (
	StateIncomplete State = "INCOMPLETE"
	StateQuoted     State = "QUOTED"
	StateSigned     State = "SIGNED"
)

// Channel is where a quote request was initiated
type Channel string

const (
	ChannelApp           Channel = "APP"
	ChannelAndroid       Channel = "ANDROID"
	ChannelIOS           Channel = "IOS"
	ChannelRapio         Channel = "RAPIO"
	ChannelWebOnboarding Channel = "WEBONBOARDING"
	ChannelHope          Channel = "HOPE"
)

// IsDirectToConsumer reports whether the channel is customer facing.
// Back-office (HOPE) and legacy APP flows are never subject to requoting policy.
func (c Channel) IsDirectToConsumer() bool {
	switch c {
	case ChannelAndroid, ChannelIOS, ChannelRapio, ChannelWebOnboarding:
		return true
	default:
		return false
	}
}

// Partner is who the quote is attributed to
type Partner string

const (
	PartnerHedvig    Partner = "HEDVIG"
	PartnerCompricer Partner = "COMPRICER"
)

// AgreementStatus is the status reported by the agreement lookup
type AgreementStatus string

const (
	AgreementPending        AgreementStatus = "PENDING"
	AgreementActive         AgreementStatus = "ACTIVE"
	AgreementActiveInFuture AgreementStatus = "ACTIVE_IN_FUTURE"
	AgreementTerminated     AgreementStatus = "TERMINATED"
	// AgreementOther is any status product pricing reports that gives no coverage
	AgreementOther          AgreementStatus = "OTHER"
)

// ParseAgreementStatus maps a reported status, case-insensitively.
// Anything unrecognised becomes AgreementOther, which is never live.
func ParseAgreementStatus(s string) AgreementStatus {
	switch status := AgreementStatus(strings.ToUpper(strings.TrimSpace(s))); status {
	case AgreementPending, AgreementActive, AgreementActiveInFuture, AgreementTerminated:
		return status
	default:
		return AgreementOther
	}
}

// IsLive reports whether the agreement still gives (or will give) coverage
func (s AgreementStatus) IsLive() bool {
	return s == AgreementPending || s == AgreementActive || s == AgreementActiveInFuture
}

// ApartmentSubType is the Swedish apartment product sub type
type ApartmentSubType string

const (
	SubTypeBRF          ApartmentSubType = "BRF"
	SubTypeRent         ApartmentSubType = "RENT"
	SubTypeRentBRF      ApartmentSubType = "RENT_BRF"
	SubTypeSubletRental ApartmentSubType = "SUBLET_RENTAL"
	SubTypeSubletBRF    ApartmentSubType = "SUBLET_BRF"
	SubTypeStudentBRF   ApartmentSubType = "STUDENT_BRF"
	SubTypeStudentRent  ApartmentSubType = "STUDENT_RENT"
	SubTypeLodger       ApartmentSubType = "LODGER"
	SubTypeUnknown      ApartmentSubType = "UNKNOWN"
)

// IsStudent 학생 상품 여부
func (s ApartmentSubType) IsStudent() bool {
	return s == SubTypeStudentBRF || s == SubTypeStudentRent
}

// HomeContentsType is the rent/own type for Norwegian and Danish home contents
type HomeContentsType string

const (
	HomeContentsRent HomeContentsType = "RENT"
	HomeContentsOwn  HomeContentsType = "OWN"
)

// ExtraBuildingType is the kind of an extra building on a Swedish house plot
type ExtraBuildingType string

const (
	ExtraBuildingGarage     ExtraBuildingType = "GARAGE"
	ExtraBuildingCarport    ExtraBuildingType = "CARPORT"
	ExtraBuildingShed       ExtraBuildingType = "SHED"
	ExtraBuildingStorehouse ExtraBuildingType = "STOREHOUSE"
	ExtraBuildingFriggebod  ExtraBuildingType = "FRIGGEBOD"
	ExtraBuildingAttefall   ExtraBuildingType = "ATTEFALL"
	ExtraBuildingOuthouse   ExtraBuildingType = "OUTHOUSE"
	ExtraBuildingGuesthouse ExtraBuildingType = "GUESTHOUSE"
	ExtraBuildingGazebo     ExtraBuildingType = "GAZEBO"
	ExtraBuildingGreenhouse ExtraBuildingType = "GREENHOUSE"
	ExtraBuildingSauna      ExtraBuildingType = "SAUNA"
	ExtraBuildingBarn       ExtraBuildingType = "BARN"
	ExtraBuildingBoathouse  ExtraBuildingType = "BOATHOUSE"
	ExtraBuildingOther      ExtraBuildingType = "OTHER"
)

// Market 시장 (국가)
type Market string

const (
	MarketSweden  Market = "SWEDEN"
	MarketNorway  Market = "NORWAY"
	MarketDenmark Market = "DENMARK"
)

// Currency returns the ISO currency quotes in this market are priced in
func (m Market) Currency() string {
	switch m {
	case MarketSweden:
		return "SEK"
	case MarketNorway:
		return "NOK"
	case MarketDenmark:
		return "DKK"
	default:
		return ""
	}
}

// ProductType is the coarse product category
type ProductType string

const (
	ProductApartment    ProductType = "APARTMENT"
	ProductHouse        ProductType = "HOUSE"
	ProductHomeContents ProductType = "HOME_CONTENT"
	ProductTravel       ProductType = "TRAVEL"
	ProductAccident     ProductType = "ACCIDENT"
)

// Variant is the tag of a Data variant. The values double as JSON type tags.
type Variant string

const (
	VariantSwedishApartment      Variant = "apartment"
	VariantSwedishHouse          Variant = "house"
	VariantNorwegianHomeContents Variant = "norwegianHomeContentsData"
	VariantNorwegianTravel       Variant = "norwegianTravelData"
	VariantDanishHomeContents    Variant = "danishHomeContentsData"
	VariantDanishAccident        Variant = "danishAccidentData"
	VariantDanishTravel          Variant = "danishTravelData"
)
