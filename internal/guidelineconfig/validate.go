package guidelineconfig

import "fmt"

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	if cfg.Meta.Version == "" {
		return ValidationError{"meta.version", "required"}
	}

	// === Person ===
	for field, p := range map[string]Person{
		"sweden.person":  cfg.Sweden.Person,
		"norway.person":  cfg.Norway.Person,
		"denmark.person": cfg.Denmark.Person,
	} {
		if p.MinAge <= 0 {
			return ValidationError{field + ".min_age", "must be > 0"}
		}
	}

	// === Sweden ===
	a := cfg.Sweden.Apartment
	if err := validateRange("sweden.apartment.household_size", a.MinHouseholdSize, a.MaxHouseholdSize); err != nil {
		return err
	}
	if err := validateRange("sweden.apartment.living_space", a.MinLivingSpace, a.MaxLivingSpace); err != nil {
		return err
	}
	if a.StudentMaxHouseholdSize > a.MaxHouseholdSize {
		return ValidationError{"sweden.apartment.student_max_household_size", "must be <= max_household_size"}
	}
	if a.StudentMaxLivingSpace > a.MaxLivingSpace {
		return ValidationError{"sweden.apartment.student_max_living_space", "must be <= max_living_space"}
	}

	h := cfg.Sweden.House
	if err := validateRange("sweden.house.household_size", h.MinHouseholdSize, h.MaxHouseholdSize); err != nil {
		return err
	}
	if err := validateRange("sweden.house.living_space", h.MinLivingSpace, h.MaxLivingSpace); err != nil {
		return err
	}
	if err := validateRange("sweden.house.extra_building_area", h.MinExtraBuildingArea, h.MaxExtraBuildingArea); err != nil {
		return err
	}
	if h.MinYearOfConstruction <= 0 {
		return ValidationError{"sweden.house.min_year_of_construction", "must be > 0"}
	}

	// === Norway ===
	n := cfg.Norway.HomeContents
	if err := validateRange("norway.home_contents.living_space", n.MinLivingSpace, n.MaxLivingSpace); err != nil {
		return err
	}
	if n.MaxCoInsured < 0 {
		return ValidationError{"norway.home_contents.max_co_insured", "must be >= 0"}
	}

	// === Denmark ===
	d := cfg.Denmark.HomeContents
	if err := validateRange("denmark.home_contents.living_space", d.MinLivingSpace, d.MaxLivingSpace); err != nil {
		return err
	}
	for field, c := range map[string]DanishCoInsurance{
		"denmark.home_contents": d.DanishCoInsurance,
		"denmark.accident":      cfg.Denmark.Accident,
		"denmark.travel":        cfg.Denmark.Travel,
	} {
		if c.StudentMaxCoInsured > c.MaxCoInsured {
			return ValidationError{field + ".student_max_co_insured", "must be <= max_co_insured"}
		}
		if err := validateRange(field+".student_age", c.StudentMinAge, c.StudentMaxAge); err != nil {
			return err
		}
	}

	return nil
}

func validateRange(field string, lo, hi int) error {
	if lo < 0 {
		return ValidationError{field, "min must be >= 0"}
	}
	if lo > hi {
		return ValidationError{field, fmt.Sprintf("min (%d) must be <= max (%d)", lo, hi)}
	}
	return nil
}
