package core

// convert.go provides the field conversions shared by the CSV exchange,
// the command line and the storage backends.
//
// These functions handle the messy reality of operator-provided values:
//   - Optional text where empty or whitespace means absent
//   - Multiple date formats (ISO, US, German dotted, timestamps)
//   - Excel formula prefixes (="value") around dates
//
// The ToPg*/FromPg* pairs translate optional fields to and from pgtype
// values with Valid=false for absent input, so the database stores NULL.

import (
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DateLayout is the only format used when rendering birthdates.
const DateLayout = time.DateOnly

// MinBirthdate is the earliest representable birthdate. Parsed or stored dates
// before it are treated as absent.
var MinBirthdate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "2.1.06", "02.01.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006",
		"2.1.2006", "02.01.2006",
		"Jan 2, 2006", "2 Jan 2006", "January 2, 2006", "2 January 2006",
		"20060102",
	}
)

// NormalizeEmail trims and case-folds an email address to form the
// duplicate detection key. It normalizes only and does not validate format.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// OptionalString returns nil for empty or whitespace-only input.
// Non-blank values are kept verbatim.
func OptionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// StringValue returns the pointed-to string, or "" when absent.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ParseBirthdate parses a date-like string.
// Returns nil for empty, unparsable, or pre-MinBirthdate input; a bad
// birthdate is never an error.
func ParseBirthdate(s string) *time.Time {
	s = cleanDateCell(s)
	if s == "" {
		return nil
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return dateOnly(t)
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return dateOnly(t)
		}
	}

	return nil
}

// FormatBirthdate renders a birthdate as YYYY-MM-DD.
// Returns "" when absent or before MinBirthdate.
func FormatBirthdate(t *time.Time) string {
	if t == nil || t.Before(MinBirthdate) {
		return ""
	}
	return t.Format(DateLayout)
}

// NormalizeBirthdate returns the calendar date of t at UTC midnight, or nil
// when t is absent or before MinBirthdate.
func NormalizeBirthdate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return dateOnly(*t)
}

// dateOnly drops the time of day and zone, keeping the calendar date.
func dateOnly(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(MinBirthdate) {
		return nil
	}
	return &d
}

// cleanDateCell removes spreadsheet artifacts around a date value:
// surrounding whitespace, an Excel formula prefix (="...") and quotes.
func cleanDateCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}
	return strings.TrimSpace(strings.Trim(s, `"'`))
}

// ToPgText converts an optional string to pgtype.Text.
// Returns invalid (NULL) if the value is absent.
func ToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// FromPgText converts a nullable text column back to an optional string.
func FromPgText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// ToPgDate converts an optional birthdate to pgtype.Date.
func ToPgDate(t *time.Time) pgtype.Date {
	if t == nil || t.Before(MinBirthdate) {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: *dateOnly(*t), Valid: true}
}

// FromPgDate converts a nullable date column back to an optional birthdate.
// Infinity values are treated as absent.
func FromPgDate(d pgtype.Date) *time.Time {
	if !d.Valid || d.InfinityModifier != pgtype.Finite {
		return nil
	}
	return dateOnly(d.Time)
}
