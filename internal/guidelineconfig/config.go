package guidelineconfig

// Config는 시장/상품별 언더라이팅 가이드라인 한도 설정
// ⭐ SSOT: guideline 패키지의 모든 숫자 한도는 여기서만 온다
type Config struct {
	Meta    Meta    `yaml:"meta" json:"meta"`
	Sweden  Sweden  `yaml:"sweden" json:"sweden"`
	Norway  Norway  `yaml:"norway" json:"norway"`
	Denmark Denmark `yaml:"denmark" json:"denmark"`
}

// Meta 메타 정보
type Meta struct {
	Version string `yaml:"version" json:"version"`
}

// Person holds limits shared by every product in a market
type Person struct {
	MinAge int `yaml:"min_age" json:"min_age"`
}

// Sweden 스웨덴
type Sweden struct {
	Person    Person           `yaml:"person" json:"person"`
	Apartment SwedishApartment `yaml:"apartment" json:"apartment"`
	House     SwedishHouse     `yaml:"house" json:"house"`
}

// SwedishApartment limits. Student limits apply to STUDENT_RENT and STUDENT_BRF.
type SwedishApartment struct {
	MinHouseholdSize        int `yaml:"min_household_size" json:"min_household_size"`
	MaxHouseholdSize        int `yaml:"max_household_size" json:"max_household_size"`
	MinLivingSpace          int `yaml:"min_living_space" json:"min_living_space"`
	MaxLivingSpace          int `yaml:"max_living_space" json:"max_living_space"`
	StudentMaxHouseholdSize int `yaml:"student_max_household_size" json:"student_max_household_size"`
	StudentMaxLivingSpace   int `yaml:"student_max_living_space" json:"student_max_living_space"`
	StudentMaxAge           int `yaml:"student_max_age" json:"student_max_age"`
}

// SwedishHouse limits
type SwedishHouse struct {
	MinHouseholdSize             int `yaml:"min_household_size" json:"min_household_size"`
	MaxHouseholdSize             int `yaml:"max_household_size" json:"max_household_size"`
	MinLivingSpace               int `yaml:"min_living_space" json:"min_living_space"`
	MaxLivingSpace               int `yaml:"max_living_space" json:"max_living_space"`
	MinYearOfConstruction        int `yaml:"min_year_of_construction" json:"min_year_of_construction"`
	MaxNumberOfBathrooms         int `yaml:"max_number_of_bathrooms" json:"max_number_of_bathrooms"`
	MaxExtraBuildings            int `yaml:"max_extra_buildings" json:"max_extra_buildings"`
	ExtraBuildingCountedFromArea int `yaml:"extra_building_counted_from_area" json:"extra_building_counted_from_area"` // 이 면적 초과만 개수에 포함
	MinExtraBuildingArea         int `yaml:"min_extra_building_area" json:"min_extra_building_area"`
	MaxExtraBuildingArea         int `yaml:"max_extra_building_area" json:"max_extra_building_area"`
}

// Norway 노르웨이
type Norway struct {
	Person       Person                `yaml:"person" json:"person"`
	HomeContents NorwegianHomeContents `yaml:"home_contents" json:"home_contents"`
}

// NorwegianHomeContents limits
type NorwegianHomeContents struct {
	MaxCoInsured   int `yaml:"max_co_insured" json:"max_co_insured"`
	MinLivingSpace int `yaml:"min_living_space" json:"min_living_space"`
	MaxLivingSpace int `yaml:"max_living_space" json:"max_living_space"`
}

// Denmark 덴마크
type Denmark struct {
	Person       Person             `yaml:"person" json:"person"`
	HomeContents DanishHomeContents `yaml:"home_contents" json:"home_contents"`
	Accident     DanishCoInsurance  `yaml:"accident" json:"accident"`
	Travel       DanishCoInsurance  `yaml:"travel" json:"travel"`
}

// DanishHomeContents limits
type DanishHomeContents struct {
	DanishCoInsurance     `yaml:",inline" json:"co_insurance"`
	MinLivingSpace        int `yaml:"min_living_space" json:"min_living_space"`
	MaxLivingSpace        int `yaml:"max_living_space" json:"max_living_space"`
	StudentMaxLivingSpace int `yaml:"student_max_living_space" json:"student_max_living_space"`
}

// DanishCoInsurance covers the co-insured and student age limits shared by Danish products
type DanishCoInsurance struct {
	MaxCoInsured        int `yaml:"max_co_insured" json:"max_co_insured"`
	StudentMaxCoInsured int `yaml:"student_max_co_insured" json:"student_max_co_insured"`
	StudentMinAge       int `yaml:"student_min_age" json:"student_min_age"`
	StudentMaxAge       int `yaml:"student_max_age" json:"student_max_age"`
}

// Default returns the limits the service runs with when no file is configured
func Default() *Config {
	danishCoInsurance := DanishCoInsurance{
		MaxCoInsured:        6,
		StudentMaxCoInsured: 1,
		StudentMinAge:       18,
		StudentMaxAge:       30,
	}

	return &Config{
		Meta: Meta{Version: "default"},
		Sweden: Sweden{
			Person: Person{MinAge: 18},
			Apartment: SwedishApartment{
				MinHouseholdSize:        1,
				MaxHouseholdSize:        6,
				MinLivingSpace:          1,
				MaxLivingSpace:          250,
				StudentMaxHouseholdSize: 2,
				StudentMaxLivingSpace:   50,
				StudentMaxAge:           30,
			},
			House: SwedishHouse{
				MinHouseholdSize:             1,
				MaxHouseholdSize:             6,
				MinLivingSpace:               1,
				MaxLivingSpace:               250,
				MinYearOfConstruction:        1925,
				MaxNumberOfBathrooms:         2,
				MaxExtraBuildings:            4,
				ExtraBuildingCountedFromArea: 6,
				MinExtraBuildingArea:         1,
				MaxExtraBuildingArea:         75,
			},
		},
		Norway: Norway{
			Person: Person{MinAge: 18},
			HomeContents: NorwegianHomeContents{
				MaxCoInsured:   5,
				MinLivingSpace: 1,
				MaxLivingSpace: 250,
			},
		},
		Denmark: Denmark{
			Person: Person{MinAge: 18},
			HomeContents: DanishHomeContents{
				DanishCoInsurance:     danishCoInsurance,
				MinLivingSpace:        5,
				MaxLivingSpace:        250,
				StudentMaxLivingSpace: 100,
			},
			Accident: danishCoInsurance,
			Travel:   danishCoInsurance,
		},
	}
}
