package guideline

// Breach codes
const (
	CodeInvalidSSNLength           = "INVALID_SSN_LENGTH"
	CodeInvalidSSN                 = "INVALID_SSN"
	CodeUnderage                   = "UNDERAGE"
	CodeDebtCheck                  = "DEBT_CHECK"
	CodeSSNDoesNotMatchBirthDate   = "SSN_DOES_NOT_MATCH_BIRTH_DATE"
	CodeTooSmallHouseholdSize      = "TOO_SMALL_NUMBER_OF_HOUSE_HOLD_SIZE"
	CodeTooHighHouseholdSize       = "TOO_HIGH_NUMBER_OF_HOUSE_HOLD_SIZE"
	CodeTooSmallLivingSpace        = "TOO_SMALL_LIVING_SPACE"
	CodeTooMuchLivingSpace         = "TOO_MUCH_LIVING_SPACE"
	CodeStudentTooBigHouseholdSize = "STUDENT_TOO_BIG_HOUSE_HOLD_SIZE"
	CodeStudentTooMuchLivingSpace  = "STUDENT_TOO_MUCH_LIVING_SPACE"
	CodeStudentOverage             = "STUDENT_OVERAGE"
	CodeTooEarlyYearOfConstruction = "TOO_EARLY_YEAR_OF_CONSTRUCTION"
	CodeTooManyBathrooms           = "TOO_MANY_BATHROOMS"
	CodeTooManyExtraBuildings      = "TOO_MANY_EXTRA_BUILDINGS"
	CodeTooBigExtraBuildingSize    = "TOO_BIG_EXTRA_BUILDING_SIZE"
	CodeTooSmallExtraBuildingSize  = "TOO_SMALL_EXTRA_BUILDING_SIZE"
	CodeNegativeCoInsured          = "NEGATIVE_NUMBER_OF_CO_INSURED"
	CodeTooHighCoInsured           = "TOO_HIGH_NUMBER_OF_CO_INSURED"
)
