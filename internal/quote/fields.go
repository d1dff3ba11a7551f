package quote

// Field names exposed for fingerprinting
const (
	FieldSSN                = "ssn"
	FieldBirthDate          = "birthDate"
	FieldFirstName          = "firstName"
	FieldLastName           = "lastName"
	FieldEmail              = "email"
	FieldPhoneNumber        = "phoneNumber"
	FieldStreet             = "street"
	FieldZipCode            = "zipCode"
	FieldCity               = "city"
	FieldFloor              = "floor"
	FieldLivingSpace        = "livingSpace"
	FieldHouseholdSize      = "householdSize"
	FieldAncillaryArea      = "ancillaryArea"
	FieldYearOfConstruction = "yearOfConstruction"
	FieldNumberOfBathrooms  = "numberOfBathrooms"
	FieldIsSubleted         = "isSubleted"
	FieldCoInsured          = "coInsured"
	FieldIsYouth            = "isYouth"
	FieldIsStudent          = "isStudent"
	FieldSubType            = "subType"
	FieldBbrID              = "bbrId"
	FieldApartment          = "apartment"
	FieldExtraBuildings     = "extraBuildings"
)

// Field is one named, comparable value of a variant.
// Value is nil when the field is unset, otherwise a string, int, bool or []ExtraBuilding.
type Field struct {
	Name  string
	Value any
}

func (p Person) fields() []Field {
	var birthDate any
	if p.BirthDate != nil {
		birthDate = p.BirthDate.String()
	}
	return []Field{
		{FieldSSN, str(p.SSN)},
		{FieldBirthDate, birthDate},
		{FieldFirstName, str(p.FirstName)},
		{FieldLastName, str(p.LastName)},
		{FieldEmail, str(p.Email)},
		{FieldPhoneNumber, str(p.PhoneNumber)},
	}
}

func (a Address) fields() []Field {
	return []Field{
		{FieldStreet, str(a.Street)},
		{FieldZipCode, str(a.ZipCode)},
		{FieldCity, str(a.City)},
	}
}

func (a DanishAddress) fields() []Field {
	return append(a.Address.fields(),
		Field{FieldBbrID, str(a.BbrID)},
		Field{FieldApartment, str(a.Apartment)},
		Field{FieldFloor, str(a.Floor)},
	)
}

// Fields lists the fingerprint fields of the variant
func (d SwedishApartment) Fields() []Field {
	var subType any
	if d.SubType != nil {
		subType = string(*d.SubType)
	}
	out := append(d.Person.fields(), d.Address.fields()...)
	return append(out,
		Field{FieldHouseholdSize, num(d.HouseholdSize)},
		Field{FieldLivingSpace, num(d.LivingSpace)},
		Field{FieldSubType, subType},
	)
}

// Fields lists the fingerprint fields of the variant
func (d SwedishHouse) Fields() []Field {
	var isSubleted any
	if d.IsSubleted != nil {
		isSubleted = *d.IsSubleted
	}
	var extraBuildings any
	if d.ExtraBuildings != nil {
		extraBuildings = d.ExtraBuildings
	}
	out := append(d.Person.fields(), d.Address.fields()...)
	return append(out,
		Field{FieldLivingSpace, num(d.LivingSpace)},
		Field{FieldHouseholdSize, num(d.HouseholdSize)},
		Field{FieldAncillaryArea, num(d.AncillaryArea)},
		Field{FieldYearOfConstruction, num(d.YearOfConstruction)},
		Field{FieldNumberOfBathrooms, num(d.NumberOfBathrooms)},
		Field{FieldExtraBuildings, extraBuildings},
		Field{FieldIsSubleted, isSubleted},
		Field{FieldFloor, num(d.Floor)},
	)
}

// Fields lists the fingerprint fields of the variant
func (d NorwegianHomeContents) Fields() []Field {
	out := append(d.Person.fields(), d.Address.fields()...)
	return append(out,
		Field{FieldLivingSpace, d.LivingSpace},
		Field{FieldCoInsured, d.CoInsured},
		Field{FieldIsYouth, d.IsYouth},
	)
}

// Fields lists the fingerprint fields of the variant
func (d NorwegianTravel) Fields() []Field {
	return append(d.Person.fields(),
		Field{FieldCoInsured, d.CoInsured},
		Field{FieldIsYouth, d.IsYouth},
	)
}

// Fields lists the fingerprint fields of the variant
func (d DanishHomeContents) Fields() []Field {
	out := append(d.Person.fields(), d.DanishAddress.fields()...)
	return append(out,
		Field{FieldLivingSpace, d.LivingSpace},
		Field{FieldCoInsured, d.CoInsured},
		Field{FieldIsStudent, d.IsStudent},
	)
}

// Fields lists the fingerprint fields of the variant
func (d DanishAccident) Fields() []Field {
	out := append(d.Person.fields(), d.DanishAddress.fields()...)
	return append(out,
		Field{FieldCoInsured, d.CoInsured},
		Field{FieldIsStudent, d.IsStudent},
	)
}

// Fields lists the fingerprint fields of the variant
func (d DanishTravel) Fields() []Field {
	out := append(d.Person.fields(), d.DanishAddress.fields()...)
	return append(out,
		Field{FieldCoInsured, d.CoInsured},
		Field{FieldIsStudent, d.IsStudent},
	)
}

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func num(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
