// Package core holds the contact domain: the record shape, the error taxonomy,
// and the conversions shared by every storage backend and surface.
//
// The package has no storage, UI or transport dependencies. It is imported by
// the store backends, the CSV exchange service, the CLI and the HTTP server.
//
// # Contacts
//
// A [Contact] is identified by a [ContactID] assigned by the store on creation.
// Callers never choose the ID; any ID set on a contact passed to a store's
// Create is ignored. Optional fields are pointers and nil means absent:
//
//	c := &core.Contact{
//	    FirstName:   "Ana",
//	    LastName:    "Popescu",
//	    Email:       "ana@x.com",
//	    Phonenumber: core.OptionalString("  "), // nil
//	    Birthdate:   core.ParseBirthdate("2000-01-01"),
//	}
//
// # Email Keys
//
// [NormalizeEmail] produces the dedup key used by CSV import: surrounding
// whitespace is trimmed and the address is case-folded. Formats are never
// validated.
//
// # Error Handling
//
// Storage and file failures are explicit error values:
//
//   - [ErrNotFound]: a read by ID found no record
//   - [ErrStorage]: matched by every [*StorageError] from a backend
//   - [ErrFileNotFound], [ErrWriteFailure]: CSV exchange file access
//   - [ErrInvalidInput]: a malformed HTTP request
//   - [ErrBusy]: an import queued too long behind another one
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - DB001-DB004: Storage errors (not found, unreachable, rejected writes)
//   - FILE001-FILE002: File errors (missing, unwritable)
//   - REQ001-REQ004: Request errors (cancelled, timeout, invalid input, busy)
package core
