package guideline

import (
	"time"

	"github.com/wonny/underwriter/internal/guidelineconfig"
	"github.com/wonny/underwriter/internal/quote"
)

// =============================================================================
// Personal guidelines (shared by every product of a market)
// =============================================================================

// SwedishPersonal returns the Swedish personal guidelines in priority order.
// debt is only asked for a flag once the earlier guidelines passed.
func SwedishPersonal(cfg guidelineconfig.Person, debt DebtSource, now time.Time) []Guideline {
	return []Guideline{
		{
			Code:         CodeInvalidSSNLength,
			ShortCircuit: true,
			Breaches: func(d quote.Data) bool {
				return len(quote.NormalizeSSN(ssnOf(d))) != 12
			},
		},
		{
			Code:         CodeInvalidSSN,
			ShortCircuit: true,
			Breaches: func(d quote.Data) bool {
				_, ok := quote.SwedishBirthDate(ssnOf(d))
				return !ok
			},
		},
		underage(cfg, now),
		{
			Code:         CodeDebtCheck,
			ShortCircuit: true,
			Breaches: func(d quote.Data) bool {
				return debt.Flag(d).breaches()
			},
		},
		{
			Code: CodeSSNDoesNotMatchBirthDate,
			Breaches: func(d quote.Data) bool {
				p := d.Holder()
				if p.BirthDate == nil {
					return false
				}
				fromSSN, ok := quote.SwedishBirthDate(ssnOf(d))
				return !ok || fromSSN.String() != p.BirthDate.String()
			},
		},
	}
}

// NorwegianPersonal returns the Norwegian personal guidelines in priority order.
// A missing ssn is not a breach; the birth date is then used for age.
func NorwegianPersonal(cfg guidelineconfig.Person, now time.Time) []Guideline {
	return []Guideline{
		{
			Code:         CodeInvalidSSNLength,
			ShortCircuit: true,
			Breaches: func(d quote.Data) bool {
				ssn := d.Holder().SSN
				return ssn != nil && len(quote.NormalizeSSN(*ssn)) != 11
			},
		},
		{
			Code:         CodeInvalidSSN,
			ShortCircuit: true,
			Breaches: func(d quote.Data) bool {
				ssn := d.Holder().SSN
				if ssn == nil {
					return false
				}
				_, ok := quote.NorwegianBirthDate(*ssn)
				return !ok
			},
		},
		underage(cfg, now),
	}
}

// DanishPersonal returns the Danish personal guidelines in priority order
func DanishPersonal(cfg guidelineconfig.Person, now time.Time) []Guideline {
	return []Guideline{
		underage(cfg, now),
		{
			Code: CodeInvalidSSN,
			Breaches: func(d quote.Data) bool {
				ssn := d.Holder().SSN
				return ssn != nil && !quote.IsValidDanishSSN(*ssn)
			},
		},
		{
			Code: CodeSSNDoesNotMatchBirthDate,
			Breaches: func(d quote.Data) bool {
				p := d.Holder()
				if p.SSN == nil || p.BirthDate == nil || !quote.IsValidDanishSSN(*p.SSN) {
					return false
				}
				return !quote.DanishSSNMatchesBirthDate(*p.SSN, *p.BirthDate)
			},
		},
	}
}

func underage(cfg guidelineconfig.Person, now time.Time) Guideline {
	return Guideline{
		Code:         CodeUnderage,
		ShortCircuit: true,
		Breaches: func(d quote.Data) bool {
			age, ok := quote.AgeOf(d, now)
			return ok && age < cfg.MinAge
		},
	}
}

func ssnOf(d quote.Data) string {
	if ssn := d.Holder().SSN; ssn != nil {
		return *ssn
	}
	return ""
}
