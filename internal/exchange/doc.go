// Package exchange moves contacts between a Store and `;`-separated CSV.
//
// # Format
//
// One record per line, UTF-8, header
//
//	FirstName;LastName;Email;Phonenumber;City;Birthdate
//
// Columns are positional; the header line of an imported file is always
// discarded without inspection. Birthdates are written as YYYY-MM-DD or
// left empty. Fields containing the separator, quotes or line breaks are
// quoted on export and unquoted on import, so an export imports back into
// the same records (IDs aside).
//
// # Import
//
// The whole file is read and parsed before the store is touched. Each row
// is then handled on its own:
//
//   - fewer than six fields: discarded (counted as Discarded only)
//   - email already present in the store, compared after trimming and
//     case folding: skipped
//   - otherwise created
//
// The store is listed again for every row, so a second row with the same
// email in one file is skipped as well. A storage failure stops the import;
// the counts reached so far are returned with the error and rows already
// created stay in the store.
//
// # Paths
//
// Paths starting with s3:// name an object (s3://bucket/key) and are read
// and written through the AWS SDK. Everything else is a local file.
package exchange
