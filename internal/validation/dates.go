package validation

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the display form of a date of birth.
const DateLayout = "02/01/2006"

// ISODateLayout is the wire form exchanged with the backend services.
const ISODateLayout = "2006-01-02"

// DateAcceptable reports whether a partially typed DD/MM/YYYY string may stay
// in the field: day ≤ 31, month ≤ 12, year at most 4 digits, at most two
// separators.
func DateAcceptable(value string) bool {
	parts := strings.Split(value, "/")
	if len(parts) > 3 || !dobAcceptanceRX.MatchString(value) {
		return false
	}
	if !segmentWithin(parts, 0, 31) || !segmentWithin(parts, 1, 12) {
		return false
	}
	if len(parts) == 3 && parts[2] != "" {
		if len(parts[2]) > 4 || !digitsRX.MatchString(parts[2]) {
			return false
		}
	}
	return true
}

func segmentWithin(parts []string, i, max int) bool {
	if i >= len(parts) || parts[i] == "" {
		return true
	}
	if !digitsRX.MatchString(parts[i]) {
		return false
	}
	n, err := strconv.Atoi(parts[i])
	return err == nil && n <= max
}

// DateValid reports whether value is a real DD/MM/YYYY calendar date whose age
// at now lies within [minYears, maxYears]. The bounds are the birth date's own
// month/day moved to now's year minus minYears and minus maxYears, so the
// comparison is by birth year.
func DateValid(value string, minYears, maxYears int, now time.Time) bool {
	birth, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return false
	}
	year := now.Year()
	youngest := time.Date(year-minYears, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	oldest := time.Date(year-maxYears, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	return !birth.After(youngest) && !oldest.After(birth)
}

// ToISODate turns DD/MM/YYYY into YYYY-MM-DD by reversing the segments.
func ToISODate(value string) string {
	return reverseDate(value, "/", "-")
}

// FromISODate turns YYYY-MM-DD into DD/MM/YYYY by reversing the segments.
func FromISODate(value string) string {
	return reverseDate(value, "-", "/")
}

func reverseDate(value, from, to string) string {
	if value == "" {
		return ""
	}
	parts := strings.Split(value, from)
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, to)
}
