package exchange

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/JonMunkholm/contacts/internal/core"
)

func TestParseRecords(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantRows  int
		wantFirst []string
	}{
		{
			name:      "plain",
			input:     "a;b;c\n1;2;3\n",
			wantRows:  2,
			wantFirst: []string{"a", "b", "c"},
		},
		{
			name:      "utf8 bom stripped",
			input:     "\xEF\xBB\xBFFirstName;LastName\nAna;Pop\n",
			wantRows:  2,
			wantFirst: []string{"FirstName", "LastName"},
		},
		{
			name:      "crlf line endings",
			input:     "a;b\r\n1;2\r\n",
			wantRows:  2,
			wantFirst: []string{"a", "b"},
		},
		{
			name:      "ragged rows allowed",
			input:     "a;b;c;d;e;f\nx\n",
			wantRows:  2,
			wantFirst: []string{"a", "b", "c", "d", "e", "f"},
		},
		{
			name:      "quoted separator",
			input:     `"Ene;Popa";"say ""hi"""` + "\n",
			wantRows:  1,
			wantFirst: []string{"Ene;Popa", `say "hi"`},
		},
		{
			name:      "stray quote inside field kept literally",
			input:     `O"Brien;Pop` + "\n",
			wantRows:  1,
			wantFirst: []string{`O"Brien`, "Pop"},
		},
		{
			name:      "unclosed quote stays on its line",
			input:     `"Ana;Pop;ana@x.com;;;` + "\nIon;Ionescu\n",
			wantRows:  2,
			wantFirst: []string{`"Ana`, "Pop", "ana@x.com", "", "", ""},
		},
		{
			name:      "leading space kept",
			input:     "Ana; ana@x.com\n",
			wantRows:  1,
			wantFirst: []string{"Ana", " ana@x.com"},
		},
		{
			name:      "blank line is one empty field",
			input:     "\nAna\n",
			wantRows:  2,
			wantFirst: []string{""},
		},
		{
			name:      "last line without newline",
			input:     "a;b\n1;2",
			wantRows:  2,
			wantFirst: []string{"a", "b"},
		},
		{
			name:     "empty",
			input:    "",
			wantRows: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := parseRecords([]byte(tt.input))
			if len(records) != tt.wantRows {
				t.Fatalf("parseRecords() rows = %d, want %d", len(records), tt.wantRows)
			}
			if tt.wantFirst == nil {
				return
			}
			first := records[0]
			if len(first) != len(tt.wantFirst) {
				t.Fatalf("first row = %q, want %q", first, tt.wantFirst)
			}
			for i := range first {
				if first[i] != tt.wantFirst[i] {
					t.Errorf("first row[%d] = %q, want %q", i, first[i], tt.wantFirst[i])
				}
			}
		})
	}
}

func TestParseRecords_InvalidUTF8Replaced(t *testing.T) {
	records := parseRecords([]byte("M\xfcller;Pop\n"))
	if !utf8.ValidString(records[0][0]) {
		t.Errorf("field %q is not valid UTF-8", records[0][0])
	}
	if records[0][0] != "M�ller" {
		t.Errorf("field = %q, want replacement character", records[0][0])
	}
}

func TestContactFromRecord(t *testing.T) {
	c := contactFromRecord([]string{"Ana", "Pop", " Ana@X.com ", "   ", "", "not a date", "extra"})

	if c.Email != " Ana@X.com " {
		t.Errorf("Email = %q, want the raw value", c.Email)
	}
	if c.Phonenumber != nil {
		t.Errorf("Phonenumber = %q, want nil for blank", *c.Phonenumber)
	}
	if c.City != nil {
		t.Errorf("City = %q, want nil for empty", *c.City)
	}
	if c.Birthdate != nil {
		t.Errorf("Birthdate = %v, want nil for unparsable", c.Birthdate)
	}
	if c.ContactID != 0 {
		t.Errorf("ContactID = %d, want 0", c.ContactID)
	}
}

func TestWriteRecords(t *testing.T) {
	var sb strings.Builder
	err := writeRecords(&sb, []*core.Contact{
		{FirstName: "Ana", LastName: "Ene;Popa", Email: " ana@x.com", City: core.OptionalString("Cluj")},
		{FirstName: `O"Brien`, LastName: "Line\nBreak", Email: "ob@x.com"},
	})
	if err != nil {
		t.Fatalf("writeRecords() error = %v", err)
	}

	want := "FirstName;LastName;Email;Phonenumber;City;Birthdate\n" +
		`Ana;"Ene;Popa"; ana@x.com;;Cluj;` + "\n" +
		`"O""Brien";Line Break;ob@x.com;;;` + "\n"
	if sb.String() != want {
		t.Errorf("writeRecords() = %q, want %q", sb.String(), want)
	}
}

func TestFormatField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{" leading space", " leading space"},
		{"", ""},
		{"a;b", `"a;b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"two\r\nlines", "two lines"},
	}
	for _, tt := range tests {
		if got := formatField(tt.in); got != tt.want {
			t.Errorf("formatField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteParse_RoundTrip(t *testing.T) {
	in := []*core.Contact{
		{FirstName: `"Ana`, LastName: "Ene;Popa", Email: " ana@x.com ", Phonenumber: core.OptionalString(`07"11`)},
		{FirstName: "Ion", LastName: `"quoted"`, Email: "ion@x.com", City: core.OptionalString("Cluj")},
	}

	var sb strings.Builder
	if err := writeRecords(&sb, in); err != nil {
		t.Fatalf("writeRecords() error = %v", err)
	}
	records := parseRecords([]byte(sb.String()))
	if len(records) != len(in)+1 {
		t.Fatalf("parseRecords() rows = %d, want %d", len(records), len(in)+1)
	}

	for i, rec := range records[1:] {
		want := recordFromContact(in[i])
		if len(rec) != len(want) {
			t.Fatalf("row %d = %q, want %q", i, rec, want)
		}
		for j := range want {
			if rec[j] != want[j] {
				t.Errorf("row %d field %d = %q, want %q", i, j, rec[j], want[j])
			}
		}
	}
}
