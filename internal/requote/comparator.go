// Package requote decides how a new quote relates to the customer's quote history:
// whether a live agreement blocks it and whether an earlier price is reused.
package requote

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/underwriter/internal/quote"
)

// Policy is how one fingerprint field is compared
type Policy int

const (
	// PolicyExact requires equal values; two unset values are equal
	PolicyExact Policy = iota
	// PolicyNullTolerant passes when either side is unset
	PolicyNullTolerant
	// PolicyExtraBuildingsSet compares extra buildings ignoring order
	PolicyExtraBuildingsSet
)

// DefaultPolicies is the field policy table.
// Identity fields may differ in presence (before/after signup), risk fields may not.
var DefaultPolicies = map[string]Policy{
	quote.FieldSSN:         PolicyNullTolerant,
	quote.FieldBirthDate:   PolicyNullTolerant,
	quote.FieldFirstName:   PolicyNullTolerant,
	quote.FieldLastName:    PolicyNullTolerant,
	quote.FieldEmail:       PolicyNullTolerant,
	quote.FieldPhoneNumber: PolicyNullTolerant,
	quote.FieldBbrID:       PolicyNullTolerant,

	quote.FieldStreet:             PolicyExact,
	quote.FieldFloor:              PolicyExact,
	quote.FieldZipCode:            PolicyExact,
	quote.FieldCity:               PolicyExact,
	quote.FieldLivingSpace:        PolicyExact,
	quote.FieldHouseholdSize:      PolicyExact,
	quote.FieldAncillaryArea:      PolicyExact,
	quote.FieldYearOfConstruction: PolicyExact,
	quote.FieldNumberOfBathrooms:  PolicyExact,
	quote.FieldIsSubleted:         PolicyExact,
	quote.FieldCoInsured:          PolicyExact,
	quote.FieldIsYouth:            PolicyExact,
	quote.FieldIsStudent:          PolicyExact,
	quote.FieldSubType:            PolicyExact,
	quote.FieldApartment:          PolicyExact,

	quote.FieldExtraBuildings: PolicyExtraBuildingsSet,
}

// Comparator decides whether two quote payloads describe the same risk
type Comparator struct {
	policies map[string]Policy
}

// NewComparator creates a comparator. Fields missing from policies are compared exactly.
func NewComparator(policies map[string]Policy) *Comparator {
	if policies == nil {
		policies = DefaultPolicies
	}
	return &Comparator{policies: policies}
}

// IsSame compares every field present on both a and b; all must pass
func (c *Comparator) IsSame(a, b quote.Data) bool {
	other := make(map[string]any)
	for _, f := range b.Fields() {
		other[f.Name] = f.Value
	}

	for _, f := range a.Fields() {
		value, ok := other[f.Name]
		if !ok {
			continue
		}
		if !c.compare(f.Name, f.Value, value) {
			return false
		}
	}
	return true
}

func (c *Comparator) compare(field string, a, b any) bool {
	policy, ok := c.policies[field]
	if !ok {
		policy = PolicyExact
	}

	switch policy {
	case PolicyNullTolerant:
		if a == nil || b == nil {
			return true
		}
		return equal(a, b)
	case PolicyExtraBuildingsSet:
		return extraBuildingsKey(a) == extraBuildingsKey(b)
	default:
		return equal(a, b)
	}
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if _, ok := a.([]quote.ExtraBuilding); ok {
		return extraBuildingsKey(a) == extraBuildingsKey(b)
	}
	return a == b
}

// extraBuildingsKey is the sorted "type|area|hasWaterConnected" list; unset is the empty list
func extraBuildingsKey(v any) string {
	buildings, _ := v.([]quote.ExtraBuilding)

	keys := make([]string, 0, len(buildings))
	for _, b := range buildings {
		keys = append(keys, fmt.Sprintf("%s|%d|%t", b.Type, b.Area, b.HasWaterConnected))
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
