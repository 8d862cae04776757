package exchange

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/contacts/internal/core"
)

// Separator is the field delimiter of the exchange format.
const Separator = ';'

// Column positions in an exchange row.
const (
	colFirstName = iota
	colLastName
	colEmail
	colPhonenumber
	colCity
	colBirthdate

	// FieldCount is the minimum number of fields an import row needs.
	FieldCount
)

// Header is the first line written by every export.
var Header = []string{"FirstName", "LastName", "Email", "Phonenumber", "City", "Birthdate"}

// utf8BOM is prepended by some Windows editors and spreadsheet exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseRecords splits a whole exchange file into rows, one per line.
// The header line is returned as the first record; callers drop it.
// A blank line yields a single empty field.
func parseRecords(data []byte) [][]string {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = sanitizeUTF8(data)

	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	records := make([][]string, 0, len(lines))
	for _, line := range lines {
		records = append(records, splitLine(strings.TrimSuffix(line, "\r")))
	}
	return records
}

// splitLine splits one line on Separator. Fields quoted within the line
// are unquoted; a line whose quotes do not pair up is split literally, so
// a stray quote never reaches past its own line.
func splitLine(line string) []string {
	if line == "" {
		return []string{""}
	}
	if !strings.Contains(line, `"`) {
		return strings.Split(line, string(Separator))
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = Separator
	r.FieldsPerRecord = -1
	rec, err := r.Read()
	if err != nil {
		return strings.Split(line, string(Separator))
	}
	return rec
}

// contactFromRecord builds a contact from an import row with at least
// FieldCount fields. Blank phone and city become absent; an unparsable
// birthdate becomes absent without failing the row.
func contactFromRecord(rec []string) *core.Contact {
	return &core.Contact{
		FirstName:   rec[colFirstName],
		LastName:    rec[colLastName],
		Email:       rec[colEmail],
		Phonenumber: core.OptionalString(rec[colPhonenumber]),
		City:        core.OptionalString(rec[colCity]),
		Birthdate:   core.ParseBirthdate(rec[colBirthdate]),
	}
}

// recordFromContact renders a contact as an export row.
func recordFromContact(c *core.Contact) []string {
	rec := make([]string, FieldCount)
	rec[colFirstName] = c.FirstName
	rec[colLastName] = c.LastName
	rec[colEmail] = c.Email
	rec[colPhonenumber] = core.StringValue(c.Phonenumber)
	rec[colCity] = core.StringValue(c.City)
	rec[colBirthdate] = core.FormatBirthdate(c.Birthdate)
	return rec
}

// writeRecords writes the header and one line per contact. Fields are
// written as is unless they contain the separator or a quote; those are
// quoted. Line breaks inside a field become spaces so every record stays
// on one line.
func writeRecords(w io.Writer, contacts []*core.Contact) error {
	if err := writeLine(w, Header); err != nil {
		return err
	}
	for _, c := range contacts {
		if err := writeLine(w, recordFromContact(c)); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, fields []string) error {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteRune(Separator)
		}
		b.WriteString(formatField(f))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func formatField(f string) string {
	f = lineBreaks.Replace(f)
	if !strings.ContainsAny(f, `;"`) {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
