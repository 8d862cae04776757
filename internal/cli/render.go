package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/JonMunkholm/contacts/internal/core"
)

// renderContact prints the detail block for one contact.
func renderContact(w io.Writer, c *core.Contact) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", c.ContactID)
	fmt.Fprintf(tw, "First name:\t%s\n", c.FirstName)
	fmt.Fprintf(tw, "Last name:\t%s\n", c.LastName)
	fmt.Fprintf(tw, "Email:\t%s\n", c.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", core.StringValue(c.Phonenumber))
	fmt.Fprintf(tw, "City:\t%s\n", core.StringValue(c.City))
	fmt.Fprintf(tw, "Birthdate:\t%s\n", core.FormatBirthdate(c.Birthdate))
	return tw.Flush()
}

// renderTable prints one aligned row per contact.
func renderTable(w io.Writer, contacts []*core.Contact) error {
	if len(contacts) == 0 {
		_, err := fmt.Fprintln(w, "No contacts.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFIRST NAME\tLAST NAME\tEMAIL\tPHONE\tCITY\tBIRTHDATE")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ContactID,
			c.FirstName,
			c.LastName,
			c.Email,
			core.StringValue(c.Phonenumber),
			core.StringValue(c.City),
			core.FormatBirthdate(c.Birthdate),
		)
	}
	return tw.Flush()
}

func renderImportResult(w io.Writer, res *core.ImportResult) {
	fmt.Fprintf(w, "Import completed: %d imported, %d skipped.\n", res.Imported, res.Skipped)
	if res.Discarded > 0 {
		fmt.Fprintf(w, "%d malformed rows ignored.\n", res.Discarded)
	}
}

func renderExportResult(w io.Writer, res *core.ExportResult) {
	fmt.Fprintf(w, "Export completed: %s (%d contacts).\n", res.Destination, res.Rows)
}
