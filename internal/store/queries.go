package store

// SQL used by the Postgres backend. Named after the operation that runs it.

const createContact = `-- name: CreateContact :one
INSERT INTO contacts (first_name, last_name, email, phonenumber, city, birthdate)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING contact_id
`

const getContact = `-- name: GetContact :one
SELECT contact_id, first_name, last_name, email, phonenumber, city, birthdate
FROM contacts
WHERE contact_id = $1
`

const listContacts = `-- name: ListContacts :many
SELECT contact_id, first_name, last_name, email, phonenumber, city, birthdate
FROM contacts
ORDER BY contact_id
`

const updateContact = `-- name: UpdateContact :execrows
UPDATE contacts
SET first_name = $2, last_name = $3, email = $4, phonenumber = $5, city = $6, birthdate = $7
WHERE contact_id = $1
`

const deleteContact = `-- name: DeleteContact :execrows
DELETE FROM contacts
WHERE contact_id = $1
`
