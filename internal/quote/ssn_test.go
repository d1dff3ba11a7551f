package quote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwedishBirthDate(t *testing.T) {
	tests := []struct {
		name string
		ssn  string
		want string
		ok   bool
	}{
		{"plain", "199110112399", "1991-10-11", true},
		{"with dash", "19911011-2399", "1991-10-11", true},
		{"with spaces", " 19911011 2399 ", "1991-10-11", true},
		{"too short", "9110112399", "", false},
		{"not a date", "199113452399", "", false},
		{"letters", "19911011239X", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SwedishBirthDate(tt.ssn)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestNorwegianBirthDate(t *testing.T) {
	tests := []struct {
		name string
		ssn  string
		want string
		ok   bool
	}{
		{"20th century", "24057408215", "1974-05-24", true},
		{"21st century", "01010550012", "2005-01-01", true},
		{"d-number", "64057408215", "1974-05-24", true},
		{"wrong length", "2405740821", "", false},
		{"invalid month", "24137408215", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NorwegianBirthDate(tt.ssn)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestDanishBirthDate(t *testing.T) {
	got, ok := DanishBirthDate("1212120000")
	require.True(t, ok)
	assert.Equal(t, "1912-12-12", got.String())

	got, ok = DanishBirthDate("010105-4000")
	require.True(t, ok)
	assert.Equal(t, "2005-01-01", got.String())

	assert.False(t, IsValidDanishSSN("3113120000"))
	assert.False(t, IsValidDanishSSN("12121200"))
}

func TestDanishSSNMatchesBirthDate(t *testing.T) {
	assert.True(t, DanishSSNMatchesBirthDate("1212120000", NewDate(1912, time.December, 12)))
	assert.False(t, DanishSSNMatchesBirthDate("1212120000", NewDate(1912, time.December, 13)))
}

func TestDateAgeAt(t *testing.T) {
	birth := NewDate(2000, time.June, 15)

	assert.Equal(t, 17, birth.AgeAt(time.Date(2018, time.June, 14, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 18, birth.AgeAt(time.Date(2018, time.June, 15, 0, 0, 0, 0, time.UTC)))
}
