package guideline

import (
	"time"

	"github.com/wonny/underwriter/internal/guidelineconfig"
	"github.com/wonny/underwriter/internal/quote"
)

// =============================================================================
// Product guidelines (one set per variant)
// =============================================================================
//
// Unset optional fields never breach; completeness is checked before evaluation.

// SwedishApartment returns the apartment guidelines
func SwedishApartment(cfg guidelineconfig.SwedishApartment, now time.Time) []Guideline {
	type apartment = quote.SwedishApartment

	return []Guideline{
		forVariant(CodeTooSmallHouseholdSize, false, func(d apartment) bool {
			return below(d.HouseholdSize, cfg.MinHouseholdSize)
		}),
		forVariant(CodeTooSmallLivingSpace, false, func(d apartment) bool {
			return below(d.LivingSpace, cfg.MinLivingSpace)
		}),
		forVariant(CodeTooHighHouseholdSize, false, func(d apartment) bool {
			return above(d.HouseholdSize, cfg.MaxHouseholdSize)
		}),
		forVariant(CodeTooMuchLivingSpace, false, func(d apartment) bool {
			return above(d.LivingSpace, cfg.MaxLivingSpace)
		}),
		forVariant(CodeStudentTooBigHouseholdSize, false, func(d apartment) bool {
			return d.IsStudent() && above(d.HouseholdSize, cfg.StudentMaxHouseholdSize)
		}),
		forVariant(CodeStudentTooMuchLivingSpace, false, func(d apartment) bool {
			return d.IsStudent() && above(d.LivingSpace, cfg.StudentMaxLivingSpace)
		}),
		forVariant(CodeStudentOverage, false, func(d apartment) bool {
			if !d.IsStudent() {
				return false
			}
			age, ok := quote.AgeOf(d, now)
			return ok && age > cfg.StudentMaxAge
		}),
	}
}

// SwedishHouse returns the house guidelines
func SwedishHouse(cfg guidelineconfig.SwedishHouse) []Guideline {
	type house = quote.SwedishHouse

	return []Guideline{
		forVariant(CodeTooSmallHouseholdSize, false, func(d house) bool {
			return below(d.HouseholdSize, cfg.MinHouseholdSize)
		}),
		forVariant(CodeTooSmallLivingSpace, false, func(d house) bool {
			return below(d.LivingSpace, cfg.MinLivingSpace)
		}),
		forVariant(CodeTooHighHouseholdSize, false, func(d house) bool {
			return above(d.HouseholdSize, cfg.MaxHouseholdSize)
		}),
		forVariant(CodeTooMuchLivingSpace, false, func(d house) bool {
			return above(d.LivingSpace, cfg.MaxLivingSpace)
		}),
		forVariant(CodeTooEarlyYearOfConstruction, false, func(d house) bool {
			return below(d.YearOfConstruction, cfg.MinYearOfConstruction)
		}),
		forVariant(CodeTooManyBathrooms, false, func(d house) bool {
			return above(d.NumberOfBathrooms, cfg.MaxNumberOfBathrooms)
		}),
		forVariant(CodeTooManyExtraBuildings, false, func(d house) bool {
			counted := 0
			for _, b := range d.ExtraBuildings {
				if b.Area > cfg.ExtraBuildingCountedFromArea {
					counted++
				}
			}
			return counted > cfg.MaxExtraBuildings
		}),
		forVariant(CodeTooBigExtraBuildingSize, false, func(d house) bool {
			for _, b := range d.ExtraBuildings {
				if b.Area > cfg.MaxExtraBuildingArea {
					return true
				}
			}
			return false
		}),
		forVariant(CodeTooSmallExtraBuildingSize, false, func(d house) bool {
			for _, b := range d.ExtraBuildings {
				if b.Area < cfg.MinExtraBuildingArea {
					return true
				}
			}
			return false
		}),
	}
}

// NorwegianHomeContents returns the Norwegian home contents guidelines
func NorwegianHomeContents(cfg guidelineconfig.NorwegianHomeContents) []Guideline {
	type homeContents = quote.NorwegianHomeContents

	return []Guideline{
		forVariant(CodeNegativeCoInsured, false, func(d homeContents) bool {
			return d.CoInsured < 0
		}),
		forVariant(CodeTooSmallLivingSpace, false, func(d homeContents) bool {
			return d.LivingSpace < cfg.MinLivingSpace
		}),
		forVariant(CodeTooHighCoInsured, false, func(d homeContents) bool {
			return d.CoInsured > cfg.MaxCoInsured
		}),
		forVariant(CodeTooMuchLivingSpace, false, func(d homeContents) bool {
			return d.LivingSpace > cfg.MaxLivingSpace
		}),
	}
}

// NorwegianTravel returns the Norwegian travel guidelines
func NorwegianTravel() []Guideline {
	return []Guideline{
		forVariant(CodeNegativeCoInsured, false, func(d quote.NorwegianTravel) bool {
			return d.CoInsured < 0
		}),
	}
}

// DanishHomeContents returns the Danish home contents guidelines
func DanishHomeContents(cfg guidelineconfig.DanishHomeContents, now time.Time) []Guideline {
	type homeContents = quote.DanishHomeContents

	coInsurance := danishCoInsurance(cfg.DanishCoInsurance, now, func(d homeContents) (int, bool) {
		return d.CoInsured, d.IsStudent
	})

	// 학생 연령 규칙은 마지막에 평가
	out := append([]Guideline{}, coInsurance[:2]...)
	out = append(out,
		forVariant(CodeTooSmallLivingSpace, false, func(d homeContents) bool {
			return d.LivingSpace < cfg.MinLivingSpace
		}),
		forVariant(CodeStudentTooMuchLivingSpace, false, func(d homeContents) bool {
			return d.IsStudent && d.LivingSpace > cfg.StudentMaxLivingSpace
		}),
		forVariant(CodeTooMuchLivingSpace, false, func(d homeContents) bool {
			return !d.IsStudent && d.LivingSpace > cfg.MaxLivingSpace
		}),
	)
	return append(out, coInsurance[2:]...)
}

// DanishAccident returns the Danish accident guidelines
func DanishAccident(cfg guidelineconfig.DanishCoInsurance, now time.Time) []Guideline {
	return danishCoInsurance(cfg, now, func(d quote.DanishAccident) (int, bool) {
		return d.CoInsured, d.IsStudent
	})
}

// DanishTravel returns the Danish travel guidelines
func DanishTravel(cfg guidelineconfig.DanishCoInsurance, now time.Time) []Guideline {
	return danishCoInsurance(cfg, now, func(d quote.DanishTravel) (int, bool) {
		return d.CoInsured, d.IsStudent
	})
}

// danishCoInsurance returns, in order: negative co-insured, too many co-insured, student age
func danishCoInsurance[T quote.Data](cfg guidelineconfig.DanishCoInsurance, now time.Time, get func(T) (coInsured int, student bool)) []Guideline {
	return []Guideline{
		forVariant(CodeNegativeCoInsured, false, func(d T) bool {
			coInsured, _ := get(d)
			return coInsured < 0
		}),
		forVariant(CodeTooHighCoInsured, false, func(d T) bool {
			coInsured, student := get(d)
			if student {
				return coInsured > cfg.StudentMaxCoInsured
			}
			return coInsured > cfg.MaxCoInsured
		}),
		forVariant(CodeStudentOverage, false, func(d T) bool {
			_, student := get(d)
			if !student {
				return false
			}
			age, ok := quote.AgeOf(d, now)
			return ok && (age < cfg.StudentMinAge || age > cfg.StudentMaxAge)
		}),
	}
}

func below(v *int, limit int) bool {
	return v != nil && *v < limit
}

func above(v *int, limit int) bool {
	return v != nil && *v > limit
}
