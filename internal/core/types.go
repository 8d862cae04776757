package core

import (
	"strconv"
	"time"
)

// ContactID identifies a stored contact. IDs are assigned by the store,
// strictly increasing, and never reused.
type ContactID int64

// String returns the decimal form of the ID.
func (id ContactID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseContactID parses a decimal contact ID as given on a command line or URL.
func ParseContactID(s string) (ContactID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ContactID(n), nil
}

// Contact is a single address book entry.
type Contact struct {
	ContactID   ContactID  `json:"contactId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Phonenumber *string    `json:"phonenumber,omitempty"`
	City        *string    `json:"city,omitempty"`
	Birthdate   *time.Time `json:"birthdate,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate a stored record.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}
	out := *c
	if c.Phonenumber != nil {
		v := *c.Phonenumber
		out.Phonenumber = &v
	}
	if c.City != nil {
		v := *c.City
		out.City = &v
	}
	if c.Birthdate != nil {
		v := *c.Birthdate
		out.Birthdate = &v
	}
	return &out
}

// EmailKey returns the normalized email used for duplicate detection.
func (c *Contact) EmailKey() string {
	return NormalizeEmail(c.Email)
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	BatchID  string `json:"batchId"`
	Source   string `json:"source"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`

	// Discarded counts rows with too few columns. They are reported for
	// diagnostics only and never contribute to Imported or Skipped.
	Discarded int           `json:"discarded"`
	Duration  time.Duration `json:"duration"`
}

// ExportResult summarizes a CSV export.
type ExportResult struct {
	BatchID     string        `json:"batchId"`
	Destination string        `json:"destination"`
	Rows        int           `json:"rows"`
	Bytes       int           `json:"bytes"`
	Duration    time.Duration `json:"duration"`
}
