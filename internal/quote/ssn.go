package quote

import (
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// National identity numbers
// =============================================================================
//
// Sweden:  yyyyMMddNNNN (12 digits)
// Norway:  ddMMyyIIICC  (11 digits, D-numbers add 40 to the day)
// Denmark: ddMMyyNNNN   (10 digits, CPR)

// NormalizeSSN strips whitespace and separators from a national id
func NormalizeSSN(ssn string) string {
	s := strings.TrimSpace(ssn)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// SwedishBirthDate extracts the birth date from a 12 digit Swedish personnummer
func SwedishBirthDate(ssn string) (Date, bool) {
	s := NormalizeSSN(ssn)
	if len(s) != 12 || !isDigits(s) {
		return Date{}, false
	}
	d, err := ParseDate(s[0:4] + "-" + s[4:6] + "-" + s[6:8])
	if err != nil {
		return Date{}, false
	}
	return d, true
}

// NorwegianBirthDate extracts the birth date from an 11 digit fødselsnummer.
// 세기는 개인번호(7~9번째 자리)로 결정된다.
func NorwegianBirthDate(ssn string) (Date, bool) {
	s := NormalizeSSN(ssn)
	if len(s) != 11 || !isDigits(s) {
		return Date{}, false
	}

	day := atoi(s[0:2])
	if day > 40 {
		day -= 40 // D-number
	}
	month := atoi(s[2:4])
	yy := atoi(s[4:6])
	individual := atoi(s[6:9])

	var century int
	switch {
	case individual <= 499:
		century = 1900
	case individual <= 749 && yy >= 54:
		century = 1800
	case individual >= 900 && yy >= 40:
		century = 1900
	case yy <= 39:
		century = 2000
	default:
		return Date{}, false
	}

	return validDate(century+yy, month, day)
}

// DanishBirthDate extracts the birth date from a 10 digit CPR number.
// The seventh digit selects the century.
func DanishBirthDate(cpr string) (Date, bool) {
	s := NormalizeSSN(cpr)
	if len(s) != 10 || !isDigits(s) {
		return Date{}, false
	}

	day := atoi(s[0:2])
	month := atoi(s[2:4])
	yy := atoi(s[4:6])
	seventh := atoi(s[6:7])

	var century int
	switch {
	case seventh <= 3:
		century = 1900
	case seventh == 4 || seventh == 9:
		if yy <= 36 {
			century = 2000
		} else {
			century = 1900
		}
	default:
		if yy <= 57 {
			century = 2000
		} else {
			century = 1800
		}
	}

	return validDate(century+yy, month, day)
}

// IsValidDanishSSN reports whether cpr is a well formed CPR number
func IsValidDanishSSN(cpr string) bool {
	_, ok := DanishBirthDate(cpr)
	return ok
}

// DanishSSNMatchesBirthDate compares the ddMMyy prefix of a CPR number with a birth date
func DanishSSNMatchesBirthDate(cpr string, birthDate Date) bool {
	s := NormalizeSSN(cpr)
	if len(s) < 6 {
		return false
	}
	return s[0:6] == birthDate.Time().Format("020106")
}

func validDate(year, month, day int) (Date, bool) {
	if month < 1 || month > 12 || day < 1 {
		return Date{}, false
	}
	d := NewDate(year, time.Month(month), day)
	// time.Date normalizes overflow (e.g. Feb 30), which means the input was not a calendar date
	if d.t.Day() != day || int(d.t.Month()) != month {
		return Date{}, false
	}
	return d, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
